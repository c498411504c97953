package progress

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// CompletionRepository counts hint-free recall completions.
type CompletionRepository interface {
	Increment(ctx context.Context, userID int64, itemID string, now time.Time) error
	// CompletedItemIDs returns the completed items of a group.
	CompletedItemIDs(ctx context.Context, userID int64, groupID string) ([]string, error)
	List(ctx context.Context, userID int64) ([]Completion, error)
}

// DBCompletionRepository implements CompletionRepository using MySQL.
type DBCompletionRepository struct {
	conn
}

// NewDBCompletionRepository creates a new DBCompletionRepository.
func NewDBCompletionRepository(db *sqlx.DB) *DBCompletionRepository {
	return &DBCompletionRepository{conn: conn{db: db}}
}

func (r *DBCompletionRepository) Increment(ctx context.Context, userID int64, itemID string, now time.Time) error {
	if _, err := r.ext().ExecContext(ctx,
		`INSERT INTO completions (user_id, item_id, times_completed, completed_at) VALUES (?, ?, 1, ?)
		ON DUPLICATE KEY UPDATE times_completed = times_completed + 1, completed_at = VALUES(completed_at)`,
		userID, itemID, now); err != nil {
		return fmt.Errorf("db.ExecContext(increment completion) > %w", err)
	}
	return nil
}

func (r *DBCompletionRepository) CompletedItemIDs(ctx context.Context, userID int64, groupID string) ([]string, error) {
	var ids []string
	if err := r.ext().SelectContext(ctx, &ids,
		`SELECT p.item_id FROM completions p
		JOIN variations v ON v.id = p.item_id
		WHERE p.user_id = ? AND v.group_id = ? AND p.times_completed > 0
		ORDER BY v.position`,
		userID, groupID); err != nil {
		return nil, fmt.Errorf("db.SelectContext(completed item ids) > %w", err)
	}
	return ids, nil
}

func (r *DBCompletionRepository) List(ctx context.Context, userID int64) ([]Completion, error) {
	var completions []Completion
	if err := r.ext().SelectContext(ctx, &completions,
		"SELECT user_id, item_id, times_completed, completed_at FROM completions WHERE user_id = ? ORDER BY item_id",
		userID); err != nil {
		return nil, fmt.Errorf("db.SelectContext(completions) > %w", err)
	}
	return completions, nil
}
