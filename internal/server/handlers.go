package server

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/at-ishikawa/openings/internal/apperr"
	"github.com/at-ishikawa/openings/internal/catalog"
	"github.com/at-ishikawa/openings/internal/stats"
	"github.com/at-ishikawa/openings/internal/trainer"
)

func (s *Server) getProfile(c *gin.Context) {
	p, err := s.trainer.Profile(c.Request.Context(), userID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, p)
}

func (s *Server) getThemeStats(c *gin.Context) {
	themes, err := s.trainer.ThemeStats(c.Request.Context(), userID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"themes": themes})
}

func mistakeIDParam(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, apperr.InvalidArgument("invalid mistake id %q", c.Param("id"))
	}
	return id, nil
}

func (s *Server) listMistakes(c *gin.Context) {
	mistakes, err := s.trainer.ListMistakes(c.Request.Context(), userID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"mistakes": mistakes})
}

func (s *Server) clearMistakes(c *gin.Context) {
	n, err := s.trainer.ClearMistakes(c.Request.Context(), userID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"success": true, "deleted": n})
}

func (s *Server) resolveMistake(c *gin.Context) {
	id, err := mistakeIDParam(c)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := s.trainer.ResolveMistake(c.Request.Context(), userID(c), id); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"success": true})
}

func (s *Server) deleteMistake(c *gin.Context) {
	id, err := mistakeIDParam(c)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := s.trainer.DeleteMistake(c.Request.Context(), userID(c), id); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"success": true})
}

func (s *Server) getRepertoire(c *gin.Context) {
	view, err := s.trainer.Repertoire(c.Request.Context(), userID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"repertoire": view})
}

type toggleRepertoireRequest struct {
	OpeningID string `json:"opening_id" binding:"required"`
	Active    *bool  `json:"active" binding:"required"`
}

func (s *Server) toggleRepertoire(c *gin.Context) {
	var req toggleRepertoireRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.InvalidArgument("invalid request: %v", err))
		return
	}
	view, err := s.trainer.ToggleRepertoire(c.Request.Context(), userID(c), req.OpeningID, *req.Active)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"success": true, "repertoire": view})
}

type drillOpening struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// drillVariation omits the name so that the user has to recognize the line.
type drillVariation struct {
	ID          string         `json:"id"`
	Moves       []catalog.Move `json:"moves"`
	Orientation catalog.Side   `json:"orientation"`
}

type drillSessionResponse struct {
	Opening   drillOpening             `json:"opening"`
	Variation drillVariation           `json:"variation"`
	SRS       trainer.DrillStatusEntry `json:"srs"`
}

func (s *Server) getDrillSession(c *gin.Context) {
	session, err := s.trainer.StartDrill(c.Request.Context(), userID(c), c.Query("opening_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, drillSessionResponse{
		Opening: drillOpening{ID: session.Group.ID, Name: session.Group.Name},
		Variation: drillVariation{
			ID:          session.Item.ID,
			Moves:       session.Item.Moves,
			Orientation: session.Item.Side,
		},
		SRS: session.Status,
	})
}

func (s *Server) getDrillOpenings(c *gin.Context) {
	groups, err := s.trainer.DrillGroups(c.Request.Context(), userID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"openings": groups})
}

func (s *Server) getDrillProgress(c *gin.Context) {
	groupID := c.Query("opening_id")
	entries, err := s.trainer.GetDrillStatus(c.Request.Context(), userID(c), groupID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"opening_id": groupID, "progress": entries})
}

type drillStatsResponse struct {
	Opening drillOpening     `json:"opening"`
	Stats   stats.DrillStats `json:"stats"`
	Badges  []stats.Badge    `json:"badges"`
}

func (s *Server) getDrillStats(c *gin.Context) {
	report, err := s.trainer.DrillStats(c.Request.Context(), userID(c), c.Query("opening_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, drillStatsResponse{
		Opening: drillOpening{ID: report.Group.ID, Name: report.Group.Name},
		Stats:   report.Stats,
		Badges:  report.Badges,
	})
}
