package trainer

import (
	"context"

	"github.com/at-ishikawa/openings/internal/apperr"
	"github.com/at-ishikawa/openings/internal/catalog"
	"github.com/at-ishikawa/openings/internal/progress"
)

// MistakeView is an open mistake with the names of its item and group, if known.
type MistakeView struct {
	progress.Mistake
	ItemName    string       `json:"variation_name,omitempty"`
	GroupID     string       `json:"opening_id,omitempty"`
	GroupName   string       `json:"opening_name,omitempty"`
	Orientation catalog.Side `json:"orientation"`
}

// ListMistakes returns the open mistakes of the user, newest first.
func (s *Service) ListMistakes(ctx context.Context, userID int64) ([]MistakeView, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	mistakes, err := s.queue.ListUnresolved(ctx, userID)
	if err != nil {
		return nil, err
	}
	views := make([]MistakeView, 0, len(mistakes))
	for _, m := range mistakes {
		v := MistakeView{Mistake: m, Orientation: m.Orientation()}
		if m.HasItem() {
			item, err := s.catalog.FindItem(ctx, m.ItemID)
			if err != nil {
				return nil, apperr.Storage(err, "find item")
			}
			if item != nil {
				v.ItemName = item.Name
				v.GroupID = item.GroupID
				g, err := s.catalog.FindGroup(ctx, item.GroupID)
				if err != nil {
					return nil, apperr.Storage(err, "find group")
				}
				if g != nil {
					v.GroupName = g.Name
				}
			}
		}
		views = append(views, v)
	}
	return views, nil
}

// ResolveMistake marks a mistake as fixed.
func (s *Service) ResolveMistake(ctx context.Context, userID, id int64) error {
	if err := requireUser(userID); err != nil {
		return err
	}
	return s.queue.Resolve(ctx, userID, id)
}

// ClearMistakes removes every open mistake of the user. Resolved mistakes are kept.
func (s *Service) ClearMistakes(ctx context.Context, userID int64) (int64, error) {
	if err := requireUser(userID); err != nil {
		return 0, err
	}
	return s.queue.ClearAllUnresolved(ctx, userID)
}

// DeleteMistake removes one mistake of the user.
func (s *Service) DeleteMistake(ctx context.Context, userID, id int64) error {
	if err := requireUser(userID); err != nil {
		return err
	}
	return s.queue.Delete(ctx, userID, id)
}
