package progress

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

//go:generate mockgen -source=mistake_repository.go -destination=../mocks/progress/mock_mistake_repository.go -package=mock_progress

// MistakeRepository stores mistakes. A mistake is unique per user, item and position.
type MistakeRepository interface {
	// Upsert inserts the mistake, or reopens the existing one at the same position with a fresh
	// created_at. The stored id is written back to m.
	Upsert(ctx context.Context, m *Mistake) error
	// FindByID returns the mistake of the user or nil if not found.
	FindByID(ctx context.Context, userID, id int64) (*Mistake, error)
	// ListUnresolved returns the unresolved mistakes oldest first.
	ListUnresolved(ctx context.Context, userID int64) ([]Mistake, error)
	// ListAll returns every mistake including resolved ones.
	ListAll(ctx context.Context, userID int64) ([]Mistake, error)
	Resolve(ctx context.Context, userID, id int64) error
	// DeleteUnresolved removes the unresolved mistakes and returns how many were removed.
	DeleteUnresolved(ctx context.Context, userID int64) (int64, error)
	// Delete removes one mistake and reports whether it existed.
	Delete(ctx context.Context, userID, id int64) (bool, error)
}

// DBMistakeRepository implements MistakeRepository using MySQL.
type DBMistakeRepository struct {
	conn
}

// NewDBMistakeRepository creates a new DBMistakeRepository.
func NewDBMistakeRepository(db *sqlx.DB) *DBMistakeRepository {
	return &DBMistakeRepository{conn: conn{db: db}}
}

const mistakeColumns = "id, user_id, item_id, position_key, wrong_move, correct_move, resolved, created_at"

func (r *DBMistakeRepository) Upsert(ctx context.Context, m *Mistake) error {
	result, err := r.ext().ExecContext(ctx,
		`INSERT INTO mistakes (user_id, item_id, position_key, wrong_move, correct_move, resolved, created_at)
		VALUES (?, ?, ?, ?, ?, FALSE, ?)
		ON DUPLICATE KEY UPDATE id = LAST_INSERT_ID(id), resolved = FALSE, created_at = VALUES(created_at)`,
		m.UserID, m.ItemID, m.PositionKey, m.WrongMove, m.CorrectMove, m.CreatedAt)
	if err != nil {
		return fmt.Errorf("db.ExecContext(upsert mistake) > %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("result.LastInsertId() > %w", err)
	}
	m.ID = id
	m.Resolved = false
	return nil
}

func (r *DBMistakeRepository) FindByID(ctx context.Context, userID, id int64) (*Mistake, error) {
	var m Mistake
	err := r.ext().GetContext(ctx, &m,
		"SELECT "+mistakeColumns+" FROM mistakes WHERE id = ? AND user_id = ?", id, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("db.GetContext(mistake) > %w", err)
	}
	return &m, nil
}

func (r *DBMistakeRepository) ListUnresolved(ctx context.Context, userID int64) ([]Mistake, error) {
	var mistakes []Mistake
	if err := r.ext().SelectContext(ctx, &mistakes,
		"SELECT "+mistakeColumns+" FROM mistakes WHERE user_id = ? AND resolved = FALSE ORDER BY created_at, id",
		userID); err != nil {
		return nil, fmt.Errorf("db.SelectContext(unresolved mistakes) > %w", err)
	}
	return mistakes, nil
}

func (r *DBMistakeRepository) ListAll(ctx context.Context, userID int64) ([]Mistake, error) {
	var mistakes []Mistake
	if err := r.ext().SelectContext(ctx, &mistakes,
		"SELECT "+mistakeColumns+" FROM mistakes WHERE user_id = ? ORDER BY created_at, id",
		userID); err != nil {
		return nil, fmt.Errorf("db.SelectContext(mistakes) > %w", err)
	}
	return mistakes, nil
}

func (r *DBMistakeRepository) Resolve(ctx context.Context, userID, id int64) error {
	if _, err := r.ext().ExecContext(ctx,
		"UPDATE mistakes SET resolved = TRUE WHERE id = ? AND user_id = ?", id, userID); err != nil {
		return fmt.Errorf("db.ExecContext(resolve mistake) > %w", err)
	}
	return nil
}

func (r *DBMistakeRepository) DeleteUnresolved(ctx context.Context, userID int64) (int64, error) {
	result, err := r.ext().ExecContext(ctx,
		"DELETE FROM mistakes WHERE user_id = ? AND resolved = FALSE", userID)
	if err != nil {
		return 0, fmt.Errorf("db.ExecContext(delete unresolved mistakes) > %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("result.RowsAffected() > %w", err)
	}
	return n, nil
}

func (r *DBMistakeRepository) Delete(ctx context.Context, userID, id int64) (bool, error) {
	result, err := r.ext().ExecContext(ctx,
		"DELETE FROM mistakes WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return false, fmt.Errorf("db.ExecContext(delete mistake) > %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("result.RowsAffected() > %w", err)
	}
	return n > 0, nil
}
