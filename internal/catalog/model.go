// Package catalog provides the read-only opening content: groups (openings) and items (variations).
package catalog

import (
	"fmt"
	"slices"
	"strings"
)

// Difficulty is the training difficulty of an item.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
	DifficultyElite        Difficulty = "elite"
)

// Goal is the training goal of an item.
type Goal string

const (
	GoalTactics  Goal = "tactics"
	GoalStrategy Goal = "strategy"
	GoalAttack   Goal = "attack"
	GoalDefense  Goal = "defense"
	GoalEndgame  Goal = "endgame"
)

// Side is the side to move the user trains.
type Side string

const (
	SideWhite Side = "white"
	SideBlack Side = "black"
)

// blackTag marks a group played from the black side.
const blackTag = "Black"

// ParseSide parses "white" or "black".
func ParseSide(s string) (Side, error) {
	switch Side(s) {
	case SideWhite, SideBlack:
		return Side(s), nil
	}
	return "", fmt.Errorf("unknown side %q", s)
}

// Move is a single move of a variation with its annotation.
type Move struct {
	SAN         string `json:"san" yaml:"san"`
	Description string `json:"desc,omitempty" yaml:"desc,omitempty"`
}

// Group is an opening. It owns a list of items.
type Group struct {
	ID       string   `db:"id" json:"id" yaml:"id"`
	Name     string   `db:"name" json:"name" yaml:"name"`
	Category string   `db:"category" json:"category" yaml:"-"`
	Tags     []string `db:"-" json:"tags" yaml:"tags"`
	// Position is the order of the group in the catalog.
	Position int `db:"position" json:"-" yaml:"-"`
}

// Side infers the trained side from the group tags. Groups without a Black tag are white.
func (g Group) Side() Side {
	if slices.Contains(g.Tags, blackTag) {
		return SideBlack
	}
	return SideWhite
}

// ParseTags splits a comma-separated tag list.
func ParseTags(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		tags = append(tags, strings.TrimSpace(p))
	}
	return tags
}

// Item is a variation, the unit scheduled for review.
type Item struct {
	ID         string     `json:"id"`
	GroupID    string     `json:"group_id"`
	Name       string     `json:"name"`
	Moves      []Move     `json:"moves"`
	Difficulty Difficulty `json:"difficulty"`
	Goal       Goal       `json:"training_goal"`
	Themes     []string   `json:"themes"`
	Side       Side       `json:"orientation"`
	// Position is the global order across categories, groups and items. Hard-lock gating counts in this order.
	Position int `json:"-"`
}

// HasAnyTheme reports whether the item carries at least one of themes.
func (i Item) HasAnyTheme(themes []string) bool {
	for _, t := range themes {
		if slices.Contains(i.Themes, t) {
			return true
		}
	}
	return false
}
