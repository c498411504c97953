package progress

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// AttemptRepository logs drill attempts for statistics.
type AttemptRepository interface {
	Create(ctx context.Context, attempt *DrillAttempt) error
	// ListByGroup returns the attempts of a group in the order they were made.
	ListByGroup(ctx context.Context, userID int64, groupID string) ([]DrillAttempt, error)
}

// DBAttemptRepository implements AttemptRepository using MySQL.
type DBAttemptRepository struct {
	conn
}

// NewDBAttemptRepository creates a new DBAttemptRepository.
func NewDBAttemptRepository(db *sqlx.DB) *DBAttemptRepository {
	return &DBAttemptRepository{conn: conn{db: db}}
}

func (r *DBAttemptRepository) Create(ctx context.Context, attempt *DrillAttempt) error {
	result, err := r.ext().ExecContext(ctx,
		"INSERT INTO drill_attempts (user_id, item_id, group_id, success, mode, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		attempt.UserID, attempt.ItemID, attempt.GroupID, attempt.Success, string(attempt.Mode), attempt.CreatedAt)
	if err != nil {
		return fmt.Errorf("db.ExecContext(insert drill_attempt) > %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("result.LastInsertId() > %w", err)
	}
	attempt.ID = id
	return nil
}

func (r *DBAttemptRepository) ListByGroup(ctx context.Context, userID int64, groupID string) ([]DrillAttempt, error) {
	var attempts []DrillAttempt
	if err := r.ext().SelectContext(ctx, &attempts,
		`SELECT id, user_id, item_id, group_id, success, mode, created_at FROM drill_attempts
		WHERE user_id = ? AND group_id = ? ORDER BY created_at, id`,
		userID, groupID); err != nil {
		return nil, fmt.Errorf("db.SelectContext(drill_attempts) > %w", err)
	}
	return attempts, nil
}
