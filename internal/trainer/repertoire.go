package trainer

import (
	"context"

	"github.com/at-ishikawa/openings/internal/apperr"
	"github.com/at-ishikawa/openings/internal/catalog"
	"github.com/at-ishikawa/openings/internal/progress"
)

// RepertoireGroup is a group in a user's repertoire.
type RepertoireGroup struct {
	GroupID string       `json:"opening_id"`
	Name    string       `json:"name"`
	Side    catalog.Side `json:"side"`
}

// RepertoireView is the active repertoire grouped by side.
type RepertoireView struct {
	White []RepertoireGroup `json:"white"`
	Black []RepertoireGroup `json:"black"`
}

// Repertoire returns the active repertoire of the user.
func (s *Service) Repertoire(ctx context.Context, userID int64) (*RepertoireView, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	entries, err := s.repertoire.List(ctx, userID)
	if err != nil {
		return nil, apperr.Storage(err, "list repertoire")
	}
	view := &RepertoireView{White: []RepertoireGroup{}, Black: []RepertoireGroup{}}
	for _, e := range entries {
		g, err := s.catalog.FindGroup(ctx, e.GroupID)
		if err != nil {
			return nil, apperr.Storage(err, "find group")
		}
		if g == nil {
			continue
		}
		rg := RepertoireGroup{GroupID: g.ID, Name: g.Name, Side: e.Side}
		if e.Side == catalog.SideBlack {
			view.Black = append(view.Black, rg)
		} else {
			view.White = append(view.White, rg)
		}
	}
	return view, nil
}

// ToggleRepertoire adds a group to or removes it from the repertoire. The side is the side of the group.
// Free users may only add groups that have an unlocked item.
func (s *Service) ToggleRepertoire(ctx context.Context, userID int64, groupID string, active bool) (*RepertoireView, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	g, err := s.findGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if active {
		premium, err := s.policy.IsPremium(ctx, userID)
		if err != nil {
			return nil, err
		}
		if !premium {
			unlocked, err := s.policy.UnlockedGroupIDs(ctx, userID)
			if err != nil {
				return nil, err
			}
			if _, ok := unlocked[g.ID]; !ok {
				return nil, apperr.Forbidden("opening %s requires premium", g.ID)
			}
		}
	}
	entry := progress.RepertoireEntry{UserID: userID, GroupID: g.ID, Side: g.Side(), Active: active}
	if err := s.repertoire.SetActive(ctx, entry); err != nil {
		return nil, apperr.Storage(err, "update repertoire")
	}
	return s.Repertoire(ctx, userID)
}
