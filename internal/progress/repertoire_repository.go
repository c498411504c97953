package progress

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/at-ishikawa/openings/internal/catalog"
)

// RepertoireRepository stores the groups each user plays.
type RepertoireRepository interface {
	// ActiveGroupIDs returns the active groups of the user, restricted to side when it is not nil.
	ActiveGroupIDs(ctx context.Context, userID int64, side *catalog.Side) ([]string, error)
	// List returns the active entries.
	List(ctx context.Context, userID int64) ([]RepertoireEntry, error)
	SetActive(ctx context.Context, entry RepertoireEntry) error
}

// DBRepertoireRepository implements RepertoireRepository using MySQL.
type DBRepertoireRepository struct {
	conn
}

// NewDBRepertoireRepository creates a new DBRepertoireRepository.
func NewDBRepertoireRepository(db *sqlx.DB) *DBRepertoireRepository {
	return &DBRepertoireRepository{conn: conn{db: db}}
}

func (r *DBRepertoireRepository) ActiveGroupIDs(ctx context.Context, userID int64, side *catalog.Side) ([]string, error) {
	query := "SELECT group_id FROM repertoire WHERE user_id = ? AND active = TRUE"
	args := []any{userID}
	if side != nil {
		query += " AND side = ?"
		args = append(args, string(*side))
	}
	query += " ORDER BY group_id"

	var ids []string
	if err := r.ext().SelectContext(ctx, &ids, query, args...); err != nil {
		return nil, fmt.Errorf("db.SelectContext(repertoire group ids) > %w", err)
	}
	return ids, nil
}

func (r *DBRepertoireRepository) List(ctx context.Context, userID int64) ([]RepertoireEntry, error) {
	var entries []RepertoireEntry
	if err := r.ext().SelectContext(ctx, &entries,
		"SELECT user_id, group_id, side, active FROM repertoire WHERE user_id = ? AND active = TRUE ORDER BY side DESC, group_id",
		userID); err != nil {
		return nil, fmt.Errorf("db.SelectContext(repertoire) > %w", err)
	}
	return entries, nil
}

func (r *DBRepertoireRepository) SetActive(ctx context.Context, entry RepertoireEntry) error {
	if _, err := r.ext().ExecContext(ctx,
		`INSERT INTO repertoire (user_id, group_id, side, active) VALUES (?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE active = VALUES(active)`,
		entry.UserID, entry.GroupID, string(entry.Side), entry.Active); err != nil {
		return fmt.Errorf("db.ExecContext(upsert repertoire) > %w", err)
	}
	return nil
}
