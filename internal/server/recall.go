package server

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/at-ishikawa/openings/internal/apperr"
	"github.com/at-ishikawa/openings/internal/catalog"
	"github.com/at-ishikawa/openings/internal/filter"
	"github.com/at-ishikawa/openings/internal/progress"
	"github.com/at-ishikawa/openings/internal/selector"
	"github.com/at-ishikawa/openings/internal/srs"
	"github.com/at-ishikawa/openings/internal/trainer"
)

type openingPayload struct {
	Slug string `json:"slug"`
	Name string `json:"name"`
}

type itemPayload struct {
	Type        selector.Type      `json:"type"`
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Moves       []catalog.Move     `json:"moves"`
	Orientation catalog.Side       `json:"orientation"`
	Difficulty  catalog.Difficulty `json:"difficulty"`
	Goal        catalog.Goal       `json:"training_goal"`
	Themes      []string           `json:"themes"`
	Opening     *openingPayload    `json:"opening"`
	PoolSize    int                `json:"pool_size,omitempty"`
}

type mistakePayload struct {
	Type          selector.Type   `json:"type"`
	ID            int64           `json:"id"`
	FEN           string          `json:"fen"`
	WrongMove     string          `json:"wrong_move"`
	CorrectMove   string          `json:"correct_move"`
	VariationName string          `json:"variation_name"`
	Orientation   catalog.Side    `json:"orientation"`
	Opening       *openingPayload `json:"opening"`
}

func newOpeningPayload(g *catalog.Group) *openingPayload {
	if g == nil {
		return nil
	}
	return &openingPayload{Slug: g.ID, Name: g.Name}
}

func newResultPayload(r *selector.Result) any {
	if r.Type == selector.TypeMistake {
		p := mistakePayload{
			Type:          r.Type,
			ID:            r.Mistake.ID,
			FEN:           r.Mistake.PositionKey,
			WrongMove:     r.Mistake.WrongMove,
			CorrectMove:   r.Mistake.CorrectMove,
			VariationName: "Unknown Position",
			Orientation:   r.Mistake.Orientation(),
			Opening:       newOpeningPayload(r.Group),
		}
		if r.Item != nil {
			p.VariationName = r.Item.Name
		}
		return p
	}
	return itemPayload{
		Type:        r.Type,
		ID:          r.Item.ID,
		Name:        r.Item.Name,
		Moves:       r.Item.Moves,
		Orientation: r.Item.Side,
		Difficulty:  r.Item.Difficulty,
		Goal:        r.Item.Goal,
		Themes:      r.Item.Themes,
		Opening:     newOpeningPayload(r.Group),
		PoolSize:    r.PoolSize,
	}
}

// splitList parses a comma-separated query value, dropping empty entries.
func splitList(s string) []string {
	var values []string
	for _, v := range strings.Split(s, ",") {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}
	return values
}

func parseFlag(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

func parseNextRequest(c *gin.Context) (selector.Request, error) {
	mode, err := srs.ParseMode(c.Query("mode"))
	if err != nil {
		return selector.Request{}, err
	}
	req := selector.Request{
		UserID:    userID(c),
		SessionID: sessionID(c),
		Mode:      mode,
		ItemID:    c.Query("id"),
		Criteria: filter.Criteria{
			Themes:         splitList(c.Query("themes")),
			GroupID:        c.Query("opening_id"),
			RepertoireOnly: parseFlag(c.Query("use_repertoire_only")),
		},
	}
	for _, d := range splitList(c.Query("difficulties")) {
		req.Criteria.Difficulties = append(req.Criteria.Difficulties, catalog.Difficulty(d))
	}
	for _, g := range splitList(c.Query("training_goals")) {
		req.Criteria.Goals = append(req.Criteria.Goals, catalog.Goal(g))
	}
	if v := c.Query("side"); v != "" {
		side, err := catalog.ParseSide(v)
		if err != nil {
			return selector.Request{}, apperr.InvalidArgument("%s", err.Error())
		}
		req.Criteria.Side = &side
	}
	if v := c.Query("mistake_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return selector.Request{}, apperr.InvalidArgument("invalid mistake_id %q", v)
		}
		req.MistakeID = id
	}
	return req, nil
}

func (s *Server) getRecallSession(c *gin.Context) {
	req, err := parseNextRequest(c)
	if err != nil {
		respondError(c, err)
		return
	}
	result, err := s.trainer.GetNextItem(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, newResultPayload(result))
}

const (
	resultVariationComplete = "variation_complete"
	resultMistakeFixed      = "mistake_fixed"
	resultOneMoveComplete   = "one_move_complete"
	resultBlunderMade       = "blunder_made"
)

type submitResultRequest struct {
	Type        string `json:"type" binding:"required,oneof=variation_complete mistake_fixed one_move_complete blunder_made"`
	Mode        string `json:"mode"`
	ID          string `json:"id"`
	MistakeID   int64  `json:"mistake_id"`
	HintUsed    bool   `json:"hint_used"`
	Success     bool   `json:"success"`
	FEN         string `json:"fen"`
	WrongMove   string `json:"wrong_move"`
	CorrectMove string `json:"correct_move"`
}

type submitResultResponse struct {
	Success bool `json:"success"`
	*trainer.Outcome
}

func (s *Server) submitResult(c *gin.Context) {
	var req submitResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.InvalidArgument("invalid request: %v", err))
		return
	}
	mode, err := srs.ParseMode(req.Mode)
	if err != nil {
		respondError(c, err)
		return
	}
	ctx := c.Request.Context()
	user := userID(c)

	if req.Type == resultBlunderMade {
		err := s.trainer.ReportMistake(ctx, trainer.MistakeReport{
			UserID:      user,
			Mode:        mode,
			ItemID:      req.ID,
			PositionKey: req.FEN,
			WrongMove:   req.WrongMove,
			CorrectMove: req.CorrectMove,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, submitResultResponse{Success: true, Outcome: &trainer.Outcome{Message: "Mistake recorded."}})
		return
	}

	outcome := trainer.OutcomeRequest{UserID: user, HintUsed: req.HintUsed}
	switch req.Type {
	case resultVariationComplete:
		if mode == srs.ModeOneMove {
			mode = srs.ModeRecall
		}
		outcome.Mode = mode
		outcome.ItemID = req.ID
		outcome.Success = true
	case resultMistakeFixed:
		if req.MistakeID == 0 && user != progress.GuestUserID {
			respondError(c, apperr.InvalidArgument("mistake_id is required"))
			return
		}
		outcome.MistakeID = req.MistakeID
	case resultOneMoveComplete:
		outcome.Mode = srs.ModeOneMove
		outcome.Success = req.Success
	}
	result, err := s.trainer.SubmitOutcome(ctx, outcome)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, submitResultResponse{Success: true, Outcome: result})
}
