package progress

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

)

// ProfileRepository stores user profiles.
type ProfileRepository interface {
	// Find returns the stored profile or DefaultProfile when there is none.
	Find(ctx context.Context, userID int64) (Profile, error)
	// Update atomically applies fn to the profile and stores the result. An error from fn aborts the update.
	Update(ctx context.Context, userID int64, fn func(p *Profile) error) (Profile, error)
}

// DBProfileRepository implements ProfileRepository using MySQL.
type DBProfileRepository struct {
	conn
}

// NewDBProfileRepository creates a new DBProfileRepository.
func NewDBProfileRepository(db *sqlx.DB) *DBProfileRepository {
	return &DBProfileRepository{conn: conn{db: db}}
}

const profileColumns = "user_id, is_premium, is_staff, daily_moves_remaining, last_stamina_reset, one_move_current_streak, one_move_best_streak"

func (r *DBProfileRepository) Find(ctx context.Context, userID int64) (Profile, error) {
	var p Profile
	err := r.ext().GetContext(ctx, &p, "SELECT "+profileColumns+" FROM profiles WHERE user_id = ?", userID)
	if errors.Is(err, sql.ErrNoRows) {
		return DefaultProfile(userID), nil
	}
	if err != nil {
		return Profile{}, fmt.Errorf("db.GetContext(profile) > %w", err)
	}
	return p, nil
}

func (r *DBProfileRepository) Update(ctx context.Context, userID int64, fn func(p *Profile) error) (Profile, error) {
	var updated Profile
	err := r.runInTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		p := DefaultProfile(userID)
		err := tx.GetContext(ctx, &p, "SELECT "+profileColumns+" FROM profiles WHERE user_id = ? FOR UPDATE", userID)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("tx.GetContext(profile) > %w", err)
		}
		if err := fn(&p); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO profiles (user_id, is_premium, is_staff, daily_moves_remaining, last_stamina_reset, one_move_current_streak, one_move_best_streak)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			ON DUPLICATE KEY UPDATE is_premium = VALUES(is_premium), is_staff = VALUES(is_staff),
			daily_moves_remaining = VALUES(daily_moves_remaining), last_stamina_reset = VALUES(last_stamina_reset),
			one_move_current_streak = VALUES(one_move_current_streak), one_move_best_streak = VALUES(one_move_best_streak)`,
			userID, p.IsPremium, p.IsStaff, p.DailyMovesRemaining, p.LastStaminaReset,
			p.OneMoveCurrentStreak, p.OneMoveBestStreak); err != nil {
			return fmt.Errorf("tx.ExecContext(upsert profile) > %w", err)
		}
		updated = p
		return nil
	})
	if err != nil {
		return Profile{}, err
	}
	return updated, nil
}
