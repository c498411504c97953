package server

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/at-ishikawa/openings/internal/apperr"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// statusOf maps an error kind to the HTTP status returned to the client.
func statusOf(kind apperr.Kind) int {
	switch kind {
	case apperr.KindNotFound, apperr.KindNoContent:
		return http.StatusNotFound
	case apperr.KindForbidden:
		return http.StatusForbidden
	case apperr.KindInvalidArgument:
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// respondError aborts the request with the error envelope. Unclassified and storage errors are logged
// and their message is not disclosed.
func respondError(c *gin.Context, err error) {
	kind := apperr.KindOf(err)
	status := statusOf(kind)
	apiErr := APIError{Message: err.Error(), Code: string(kind)}
	if status == http.StatusInternalServerError {
		slog.Error("request failed", "method", c.Request.Method, "path", c.Request.URL.Path, "error", err)
		apiErr = APIError{Message: "internal server error", Code: "internal"}
	}
	c.AbortWithStatusJSON(status, ErrorEnvelope{Error: apiErr})
}

func respondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}
