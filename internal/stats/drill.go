// Package stats aggregates training history into drill statistics, badges and theme accuracy.
package stats

import (
	"math"
	"time"

	"github.com/at-ishikawa/openings/internal/catalog"
	"github.com/at-ishikawa/openings/internal/progress"
	"github.com/at-ishikawa/openings/internal/srs"
)

// DrillStats summarizes the drill progress of one group.
type DrillStats struct {
	TotalVariations       int `json:"total_variations"`
	MasteredVariations    int `json:"mastered_variations"`
	DueCount              int `json:"due_count"`
	LearningCount         int `json:"learning_count"`
	ReviewsToday          int `json:"reviews_today"`
	ReviewsLast7Days      int `json:"reviews_last_7_days"`
	CurrentFlawlessStreak int `json:"current_flawless_streak"`
	LongestFlawlessStreak int `json:"longest_flawless_streak"`
	// MasteryPercentage is the mastered share in [0, 1], rounded to two decimals.
	MasteryPercentage float64 `json:"mastery_percentage"`
}

// Badge is an achievement of a group in drill mode.
type Badge struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Earned      bool   `json:"earned"`
}

const (
	firstStepsSuccesses = 5
	grinderStreak       = 10
	dailyWarriorReviews = 10
	halfwayMastery      = 0.5
)

// CalculateDrillStats computes the statistics of a group from its items, the user's drill records keyed
// by item id and the logged attempts in chronological order. Attempts of other modes are ignored.
func CalculateDrillStats(items []catalog.Item, records map[string]srs.DrillRecord, attempts []progress.DrillAttempt, now time.Time) DrillStats {
	var s DrillStats
	s.TotalVariations = len(items)
	for _, item := range items {
		var rec *srs.DrillRecord
		if r, ok := records[item.ID]; ok {
			rec = &r
		}
		switch srs.DrillStatus(rec, now) {
		case srs.StatusMastered:
			s.MasteredVariations++
		case srs.StatusDue:
			s.DueCount++
		default:
			s.LearningCount++
		}
	}

	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	weekAgo := now.AddDate(0, 0, -7)
	streak := 0
	for _, a := range drillAttempts(attempts) {
		if !a.CreatedAt.Before(todayStart) {
			s.ReviewsToday++
		}
		if !a.CreatedAt.Before(weekAgo) {
			s.ReviewsLast7Days++
		}
		if a.Success {
			streak++
			s.LongestFlawlessStreak = max(s.LongestFlawlessStreak, streak)
		} else {
			streak = 0
		}
	}
	s.CurrentFlawlessStreak = streak

	if s.TotalVariations > 0 {
		s.MasteryPercentage = math.Round(float64(s.MasteredVariations)/float64(s.TotalVariations)*100) / 100
	}
	return s
}

// DrillBadges evaluates the badges of a group.
func DrillBadges(s DrillStats, attempts []progress.DrillAttempt) []Badge {
	successes := 0
	for _, a := range drillAttempts(attempts) {
		if a.Success {
			successes++
		}
	}
	return []Badge{
		{
			ID:          "first_steps",
			Name:        "First Steps",
			Description: "Complete 5 successful drill attempts in this opening.",
			Earned:      successes >= firstStepsSuccesses,
		},
		{
			ID:          "line_collector",
			Name:        "Line Collector",
			Description: "Master all lines in this opening.",
			Earned:      s.TotalVariations > 0 && s.MasteredVariations == s.TotalVariations,
		},
		{
			ID:          "grinder",
			Name:        "Grinder",
			Description: "Achieve a flawless streak of 10 or more.",
			Earned:      s.LongestFlawlessStreak >= grinderStreak,
		},
		{
			ID:          "daily_warrior",
			Name:        "Daily Warrior",
			Description: "Review 10 or more lines today.",
			Earned:      s.ReviewsToday >= dailyWarriorReviews,
		},
		{
			ID:          "master_tactician",
			Name:        "Halfway There",
			Description: "Master at least 50% of the variations.",
			Earned:      s.MasteryPercentage >= halfwayMastery,
		},
	}
}

func drillAttempts(attempts []progress.DrillAttempt) []progress.DrillAttempt {
	var result []progress.DrillAttempt
	for _, a := range attempts {
		if a.Mode == srs.ModeDrill {
			result = append(result, a)
		}
	}
	return result
}
