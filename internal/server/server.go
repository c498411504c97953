// Package server exposes the trainer operations over HTTP.
package server

import (
	"log/slog"
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/at-ishikawa/openings/internal/apperr"
	"github.com/at-ishikawa/openings/internal/config"
	"github.com/at-ishikawa/openings/internal/progress"
	"github.com/at-ishikawa/openings/internal/trainer"
)

const (
	userIDKey    = "user_id"
	sessionIDKey = "session_id"
)

// Server serves the trainer API.
type Server struct {
	trainer *trainer.Service
	cfg     config.ServerConfig
}

func New(svc *trainer.Service, cfg config.ServerConfig) *Server {
	return &Server{trainer: svc, cfg: cfg}
}

// Router returns the gin engine with every route registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(), corsMiddleware(s.cfg.CORS.AllowedOrigins), s.identify())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.GET("/me/", s.getProfile)
	api.GET("/recall/session/", s.getRecallSession)
	api.POST("/submit-result/", s.submitResult)
	api.GET("/stats/themes/", s.getThemeStats)

	api.GET("/mistakes/", s.listMistakes)
	api.POST("/mistakes/clear/", s.clearMistakes)
	api.POST("/mistakes/:id/resolve/", s.resolveMistake)
	api.DELETE("/mistakes/:id/", s.deleteMistake)

	api.GET("/repertoire/", s.getRepertoire)
	api.POST("/repertoire/toggle/", s.toggleRepertoire)

	drill := api.Group("/opening-drill")
	drill.GET("/session/", s.getDrillSession)
	drill.GET("/openings/", s.getDrillOpenings)
	drill.GET("/progress/", s.getDrillProgress)
	drill.GET("/stats/", s.getDrillStats)
	return r
}

// identify reads the user id set by the authenticating proxy and issues a session cookie on first visit.
// Requests without the user header are guests.
func (s *Server) identify() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := progress.GuestUserID
		if v := c.GetHeader(s.cfg.UserHeader); v != "" {
			id, err := strconv.ParseInt(v, 10, 64)
			if err != nil || id < 0 {
				respondError(c, apperr.InvalidArgument("invalid %s header", s.cfg.UserHeader))
				return
			}
			userID = id
		}

		sessionID, err := c.Cookie(s.cfg.SessionCookie)
		if err != nil || uuid.Validate(sessionID) != nil {
			sessionID = uuid.NewString()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(s.cfg.SessionCookie, sessionID, 0, "/", "", false, true)
		}

		c.Set(userIDKey, userID)
		c.Set(sessionIDKey, sessionID)
		c.Next()
	}
}

func userID(c *gin.Context) int64 {
	return c.GetInt64(userIDKey)
}

func sessionID(c *gin.Context) string {
	return c.GetString(sessionIDKey)
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		slog.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" && slices.Contains(allowedOrigins, origin) {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Content-Type")
			c.Header("Access-Control-Max-Age", "3600")
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
