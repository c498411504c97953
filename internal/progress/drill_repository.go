package progress

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/at-ishikawa/openings/internal/srs"
)

// DrillUpdateFunc computes the next record from the current one, which is nil before the first attempt.
// Returning nil leaves the record untouched. Returning an error aborts the update.
type DrillUpdateFunc func(current *srs.DrillRecord) (*srs.DrillRecord, error)

// DrillRepository stores opening drill scheduling records.
type DrillRepository interface {
	// Find returns the record or nil if the item has never been drilled.
	Find(ctx context.Context, userID int64, itemID string) (*srs.DrillRecord, error)
	// FindByItems returns the existing records of the given items keyed by item id.
	FindByItems(ctx context.Context, userID int64, itemIDs []string) (map[string]srs.DrillRecord, error)
	// Update atomically reads and replaces the record of one item.
	Update(ctx context.Context, userID int64, itemID string, fn DrillUpdateFunc) (*srs.DrillRecord, error)
}

// DBDrillRepository implements DrillRepository using MySQL.
type DBDrillRepository struct {
	conn
}

// NewDBDrillRepository creates a new DBDrillRepository.
func NewDBDrillRepository(db *sqlx.DB) *DBDrillRepository {
	return &DBDrillRepository{conn: conn{db: db}}
}

const drillColumns = "user_id, item_id, ease_factor, interval_days, due_date, streak, total_attempts, total_successes, last_result"

func (r *DBDrillRepository) Find(ctx context.Context, userID int64, itemID string) (*srs.DrillRecord, error) {
	var entry DrillEntry
	err := r.ext().GetContext(ctx, &entry,
		"SELECT "+drillColumns+" FROM drill_progress WHERE user_id = ? AND item_id = ?",
		userID, itemID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("db.GetContext(drill_progress) > %w", err)
	}
	return &entry.DrillRecord, nil
}

func (r *DBDrillRepository) FindByItems(ctx context.Context, userID int64, itemIDs []string) (map[string]srs.DrillRecord, error) {
	result := make(map[string]srs.DrillRecord, len(itemIDs))
	if len(itemIDs) == 0 {
		return result, nil
	}
	query, args, err := expandIn(r.ext(),
		"SELECT "+drillColumns+" FROM drill_progress WHERE user_id = ? AND item_id IN (?)",
		userID, itemIDs)
	if err != nil {
		return nil, err
	}
	var entries []DrillEntry
	if err := r.ext().SelectContext(ctx, &entries, query, args...); err != nil {
		return nil, fmt.Errorf("db.SelectContext(drill_progress by items) > %w", err)
	}
	for _, e := range entries {
		result[e.ItemID] = e.DrillRecord
	}
	return result, nil
}

func (r *DBDrillRepository) Update(ctx context.Context, userID int64, itemID string, fn DrillUpdateFunc) (*srs.DrillRecord, error) {
	var updated *srs.DrillRecord
	err := r.runInTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		var current *srs.DrillRecord
		var entry DrillEntry
		err := tx.GetContext(ctx, &entry,
			"SELECT "+drillColumns+" FROM drill_progress WHERE user_id = ? AND item_id = ? FOR UPDATE",
			userID, itemID)
		switch {
		case errors.Is(err, sql.ErrNoRows):
		case err != nil:
			return fmt.Errorf("tx.GetContext(drill_progress) > %w", err)
		default:
			current = &entry.DrillRecord
		}

		next, err := fn(current)
		if err != nil {
			return err
		}
		if next == nil {
			return nil
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO drill_progress (user_id, item_id, ease_factor, interval_days, due_date, streak, total_attempts, total_successes, last_result)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON DUPLICATE KEY UPDATE ease_factor = VALUES(ease_factor), interval_days = VALUES(interval_days),
			due_date = VALUES(due_date), streak = VALUES(streak), total_attempts = VALUES(total_attempts),
			total_successes = VALUES(total_successes), last_result = VALUES(last_result)`,
			userID, itemID, next.EaseFactor, next.IntervalDays, next.DueDate, next.Streak,
			next.TotalAttempts, next.TotalSuccesses, string(next.LastResult)); err != nil {
			return fmt.Errorf("tx.ExecContext(upsert drill_progress) > %w", err)
		}
		updated = next
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
