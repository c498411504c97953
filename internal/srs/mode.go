// Package srs implements the two spaced-repetition schedulers: the recall scheduler and the
// stricter opening drill scheduler. All functions are pure; callers supply the current time.
package srs

import "github.com/at-ishikawa/openings/internal/apperr"

// Mode selects the training flavor. Each mode owns its own record type.
type Mode string

const (
	// ModeRecall is the default training mode backed by RecallRecord.
	ModeRecall Mode = "recall"
	// ModeDrill is the opening drill backed by DrillRecord.
	ModeDrill Mode = "opening_drill"
	// ModeOneMove picks uniformly at random and ignores scheduling state.
	ModeOneMove Mode = "one_move"
)

// ParseMode parses a mode name. An empty name and "opening" are recall.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", "opening", ModeRecall:
		return ModeRecall, nil
	case ModeDrill, ModeOneMove:
		return Mode(s), nil
	}
	return "", apperr.InvalidArgument("unknown mode %q", s)
}
