package progress

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/at-ishikawa/openings/internal/catalog"
	"github.com/at-ishikawa/openings/internal/srs"
)

// RecallUpdateFunc computes the next record from the current one, which is nil on first exposure.
// Returning nil leaves the record untouched. Returning an error aborts the update.
type RecallUpdateFunc func(current *srs.RecallRecord) (*srs.RecallRecord, error)

// RecallRepository stores recall scheduling records.
type RecallRepository interface {
	// Find returns the record or nil if the item has never been reviewed.
	Find(ctx context.Context, userID int64, itemID string) (*srs.RecallRecord, error)
	// Update atomically reads and replaces the record of one item.
	Update(ctx context.Context, userID int64, itemID string, fn RecallUpdateFunc) (*srs.RecallRecord, error)
	// FindDue returns the records due at now whose item matches q, earliest first.
	FindDue(ctx context.Context, userID int64, now time.Time, q catalog.Query) ([]RecallEntry, error)
	// KnownItemIDs returns the items with a record whose item matches q.
	KnownItemIDs(ctx context.Context, userID int64, q catalog.Query) ([]string, error)
}

// DBRecallRepository implements RecallRepository using MySQL.
type DBRecallRepository struct {
	conn
}

// NewDBRecallRepository creates a new DBRecallRepository.
func NewDBRecallRepository(db *sqlx.DB) *DBRecallRepository {
	return &DBRecallRepository{conn: conn{db: db}}
}

const recallColumns = "p.user_id, p.item_id, p.ease_factor, p.interval_days, p.streak, p.next_review_date"

func (r *DBRecallRepository) Find(ctx context.Context, userID int64, itemID string) (*srs.RecallRecord, error) {
	var entry RecallEntry
	err := r.ext().GetContext(ctx, &entry,
		"SELECT "+recallColumns+" FROM recall_progress p WHERE p.user_id = ? AND p.item_id = ?",
		userID, itemID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("db.GetContext(recall_progress) > %w", err)
	}
	return &entry.RecallRecord, nil
}

func (r *DBRecallRepository) Update(ctx context.Context, userID int64, itemID string, fn RecallUpdateFunc) (*srs.RecallRecord, error) {
	var updated *srs.RecallRecord
	err := r.runInTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		var current *srs.RecallRecord
		var entry RecallEntry
		err := tx.GetContext(ctx, &entry,
			"SELECT "+recallColumns+" FROM recall_progress p WHERE p.user_id = ? AND p.item_id = ? FOR UPDATE",
			userID, itemID)
		switch {
		case errors.Is(err, sql.ErrNoRows):
		case err != nil:
			return fmt.Errorf("tx.GetContext(recall_progress) > %w", err)
		default:
			current = &entry.RecallRecord
		}

		next, err := fn(current)
		if err != nil {
			return err
		}
		if next == nil {
			return nil
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO recall_progress (user_id, item_id, ease_factor, interval_days, streak, next_review_date)
			VALUES (?, ?, ?, ?, ?, ?)
			ON DUPLICATE KEY UPDATE ease_factor = VALUES(ease_factor), interval_days = VALUES(interval_days),
			streak = VALUES(streak), next_review_date = VALUES(next_review_date)`,
			userID, itemID, next.EaseFactor, next.Interval, next.Streak, next.NextReviewDate); err != nil {
			return fmt.Errorf("tx.ExecContext(upsert recall_progress) > %w", err)
		}
		updated = next
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *DBRecallRepository) FindDue(ctx context.Context, userID int64, now time.Time, q catalog.Query) ([]RecallEntry, error) {
	query := "SELECT " + recallColumns + " FROM recall_progress p"
	conds, condArgs := catalogConditions(q)
	if conds != "" {
		query += catalogJoin
	}
	query += " WHERE p.user_id = ? AND p.next_review_date <= ?" + conds + " ORDER BY p.next_review_date"

	query, args, err := expandIn(r.ext(), query, append([]any{userID, now}, condArgs...)...)
	if err != nil {
		return nil, err
	}
	var entries []RecallEntry
	if err := r.ext().SelectContext(ctx, &entries, query, args...); err != nil {
		return nil, fmt.Errorf("db.SelectContext(due recall_progress) > %w", err)
	}
	return entries, nil
}

func (r *DBRecallRepository) KnownItemIDs(ctx context.Context, userID int64, q catalog.Query) ([]string, error) {
	query := "SELECT p.item_id FROM recall_progress p"
	conds, condArgs := catalogConditions(q)
	if conds != "" {
		query += catalogJoin
	}
	query += " WHERE p.user_id = ?" + conds + " ORDER BY p.item_id"

	query, args, err := expandIn(r.ext(), query, append([]any{userID}, condArgs...)...)
	if err != nil {
		return nil, err
	}
	var ids []string
	if err := r.ext().SelectContext(ctx, &ids, query, args...); err != nil {
		return nil, fmt.Errorf("db.SelectContext(recall_progress item ids) > %w", err)
	}
	return ids, nil
}
