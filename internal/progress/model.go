// Package progress stores the per-user state of the trainer: scheduling records, mistakes,
// repertoire, completions, drill attempts and profiles.
package progress

import (
	"strings"
	"time"

	"github.com/at-ishikawa/openings/internal/catalog"
	"github.com/at-ishikawa/openings/internal/srs"
)

// GuestUserID identifies an anonymous caller. Guests have no persisted state.
const GuestUserID int64 = 0

// RecallEntry is a recall record together with its key.
type RecallEntry struct {
	UserID int64  `db:"user_id"`
	ItemID string `db:"item_id"`
	srs.RecallRecord
}

// DrillEntry is a drill record together with its key.
type DrillEntry struct {
	UserID int64  `db:"user_id"`
	ItemID string `db:"item_id"`
	srs.DrillRecord
}

// Mistake is a failed move at a board position. ItemID is empty when the item is unknown.
type Mistake struct {
	ID          int64     `db:"id" json:"id"`
	UserID      int64     `db:"user_id" json:"-"`
	ItemID      string    `db:"item_id" json:"variation_id,omitempty"`
	PositionKey string    `db:"position_key" json:"fen"`
	WrongMove   string    `db:"wrong_move" json:"wrong_move"`
	CorrectMove string    `db:"correct_move" json:"correct_move"`
	Resolved    bool      `db:"resolved" json:"resolved"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// HasItem reports whether the mistake belongs to a known item.
func (m Mistake) HasItem() bool {
	return m.ItemID != ""
}

// Orientation is the side to move in the position, read from the second field of the FEN.
func (m Mistake) Orientation() catalog.Side {
	fields := strings.Fields(m.PositionKey)
	if len(fields) > 1 && fields[1] == "b" {
		return catalog.SideBlack
	}
	return catalog.SideWhite
}

// RepertoireEntry marks a group as part of what a user plays with a side.
type RepertoireEntry struct {
	UserID  int64        `db:"user_id" json:"-"`
	GroupID string       `db:"group_id" json:"opening_id"`
	Side    catalog.Side `db:"side" json:"side"`
	Active  bool         `db:"active" json:"active"`
}

// Completion counts the hint-free recall completions of an item.
type Completion struct {
	UserID         int64     `db:"user_id"`
	ItemID         string    `db:"item_id"`
	TimesCompleted int       `db:"times_completed"`
	CompletedAt    time.Time `db:"completed_at"`
}

// DrillAttempt is one logged drill outcome.
type DrillAttempt struct {
	ID        int64     `db:"id"`
	UserID    int64     `db:"user_id"`
	ItemID    string    `db:"item_id"`
	GroupID   string    `db:"group_id"`
	Success   bool      `db:"success"`
	Mode      srs.Mode  `db:"mode"`
	CreatedAt time.Time `db:"created_at"`
}

// Profile holds the entitlement and one-move streak state of a user.
type Profile struct {
	UserID               int64     `db:"user_id" json:"-"`
	IsPremium            bool      `db:"is_premium" json:"is_premium"`
	IsStaff              bool      `db:"is_staff" json:"is_staff"`
	DailyMovesRemaining  int       `db:"daily_moves_remaining" json:"daily_moves_remaining"`
	LastStaminaReset     time.Time `db:"last_stamina_reset" json:"last_stamina_reset"`
	OneMoveCurrentStreak int       `db:"one_move_current_streak" json:"one_move_current_streak"`
	OneMoveBestStreak    int       `db:"one_move_best_streak" json:"one_move_best_streak"`
}

// DefaultProfile is the profile of a user that has never been persisted. Its stamina has never been reset.
func DefaultProfile(userID int64) Profile {
	return Profile{UserID: userID, LastStaminaReset: time.Unix(0, 0).UTC()}
}

// RecordOneMove applies a one-move outcome to the streak counters.
func (p *Profile) RecordOneMove(success bool) {
	if !success {
		p.OneMoveCurrentStreak = 0
		return
	}
	p.OneMoveCurrentStreak++
	if p.OneMoveCurrentStreak > p.OneMoveBestStreak {
		p.OneMoveBestStreak = p.OneMoveCurrentStreak
	}
}
