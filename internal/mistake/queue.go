// Package mistake keeps the queue of positions a user failed and has not fixed yet.
package mistake

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/at-ishikawa/openings/internal/apperr"
	"github.com/at-ishikawa/openings/internal/catalog"
	"github.com/at-ishikawa/openings/internal/clock"
	"github.com/at-ishikawa/openings/internal/progress"
)

// Failure is a failed move reported by a user.
type Failure struct {
	UserID int64
	// ItemID is empty when the failure cannot be attributed to an item.
	ItemID      string
	PositionKey string
	WrongMove   string
	CorrectMove string
}

// Queue records, serves and resolves mistakes.
type Queue struct {
	repo  progress.MistakeRepository
	clock clock.Clock
}

func NewQueue(repo progress.MistakeRepository, c clock.Clock) *Queue {
	return &Queue{repo: repo, clock: c}
}

// WithRepository returns a queue over repo with the same clock.
func (q *Queue) WithRepository(repo progress.MistakeRepository) *Queue {
	return &Queue{repo: repo, clock: q.clock}
}

// RecordFailure stores a failure. Reporting the same position of the same item again reopens the
// existing mistake and moves it to the back of the queue.
func (q *Queue) RecordFailure(ctx context.Context, f Failure) (*progress.Mistake, error) {
	position := strings.TrimSpace(f.PositionKey)
	if position == "" {
		return nil, apperr.InvalidArgument("fen is required")
	}
	m := &progress.Mistake{
		UserID:      f.UserID,
		ItemID:      f.ItemID,
		PositionKey: position,
		WrongMove:   f.WrongMove,
		CorrectMove: f.CorrectMove,
		CreatedAt:   q.clock.Now(),
	}
	if err := q.repo.Upsert(ctx, m); err != nil {
		return nil, apperr.Storage(err, "record mistake")
	}
	return m, nil
}

// Resolve marks a mistake as fixed. Resolving twice is a no-op.
func (q *Queue) Resolve(ctx context.Context, userID, id int64) error {
	if _, err := q.find(ctx, userID, id); err != nil {
		return err
	}
	if err := q.repo.Resolve(ctx, userID, id); err != nil {
		return apperr.Storage(err, "resolve mistake")
	}
	return nil
}

// ClearAllUnresolved drops every open mistake of the user and returns how many were removed.
func (q *Queue) ClearAllUnresolved(ctx context.Context, userID int64) (int64, error) {
	n, err := q.repo.DeleteUnresolved(ctx, userID)
	if err != nil {
		return 0, apperr.Storage(err, "clear mistakes")
	}
	return n, nil
}

// Delete removes one mistake regardless of its state.
func (q *Queue) Delete(ctx context.Context, userID, id int64) error {
	deleted, err := q.repo.Delete(ctx, userID, id)
	if err != nil {
		return apperr.Storage(err, "delete mistake")
	}
	if !deleted {
		return apperr.NotFound("mistake %d not found", id)
	}
	return nil
}

// Get returns an unresolved mistake of the user.
func (q *Queue) Get(ctx context.Context, userID, id int64) (*progress.Mistake, error) {
	m, err := q.find(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if m.Resolved {
		return nil, apperr.NotFound("mistake %d not found", id)
	}
	return m, nil
}

// ListUnresolved returns the open mistakes, newest first.
func (q *Queue) ListUnresolved(ctx context.Context, userID int64) ([]progress.Mistake, error) {
	mistakes, err := q.repo.ListUnresolved(ctx, userID)
	if err != nil {
		return nil, apperr.Storage(err, "list mistakes")
	}
	slices.Reverse(mistakes)
	return mistakes, nil
}

// MatchFunc decides whether the item of a mistake may be served. A nil item means the item is unknown.
type MatchFunc func(item *catalog.Item) bool

// Next returns the oldest open mistake accepted by match, or nil.
// With a nil match every mistake is accepted; otherwise mistakes without an item are skipped.
func (q *Queue) Next(ctx context.Context, userID int64, items catalog.Catalog, match MatchFunc) (*progress.Mistake, error) {
	mistakes, err := q.repo.ListUnresolved(ctx, userID)
	if err != nil {
		return nil, apperr.Storage(err, "list mistakes")
	}
	for _, m := range mistakes {
		if match == nil {
			return &m, nil
		}
		if !m.HasItem() {
			continue
		}
		item, err := items.FindItem(ctx, m.ItemID)
		if err != nil {
			return nil, apperr.Storage(err, fmt.Sprintf("find item %s", m.ItemID))
		}
		if item == nil {
			continue
		}
		if match(item) {
			return &m, nil
		}
	}
	return nil, nil
}

func (q *Queue) find(ctx context.Context, userID, id int64) (*progress.Mistake, error) {
	m, err := q.repo.FindByID(ctx, userID, id)
	if err != nil {
		return nil, apperr.Storage(err, "find mistake")
	}
	if m == nil {
		return nil, apperr.NotFound("mistake %d not found", id)
	}
	return m, nil
}
