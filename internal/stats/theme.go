package stats

import (
	"math"
	"sort"

	"github.com/at-ishikawa/openings/internal/catalog"
	"github.com/at-ishikawa/openings/internal/progress"
)

// minThemeAttempts hides themes with too little data to be meaningful.
const minThemeAttempts = 3

// ThemeStat is the accuracy of a user on the items carrying a theme.
type ThemeStat struct {
	Name      string  `json:"name"`
	Attempts  int     `json:"attempts"`
	Successes int     `json:"successes"`
	Accuracy  float64 `json:"accuracy"`
}

// CalculateThemeStats counts every hint-free completion as a successful attempt and every mistake of a known
// item as a failed attempt, for each theme of the item. Results are sorted weakest first.
func CalculateThemeStats(completions []progress.Completion, mistakes []progress.Mistake, items map[string]catalog.Item) []ThemeStat {
	byTheme := make(map[string]*ThemeStat)
	ensure := func(theme string) *ThemeStat {
		if byTheme[theme] == nil {
			byTheme[theme] = &ThemeStat{Name: theme}
		}
		return byTheme[theme]
	}

	for _, c := range completions {
		item, ok := items[c.ItemID]
		if !ok {
			continue
		}
		for _, theme := range item.Themes {
			s := ensure(theme)
			s.Successes += c.TimesCompleted
			s.Attempts += c.TimesCompleted
		}
	}
	for _, m := range mistakes {
		item, ok := items[m.ItemID]
		if !m.HasItem() || !ok {
			continue
		}
		for _, theme := range item.Themes {
			ensure(theme).Attempts++
		}
	}

	result := make([]ThemeStat, 0, len(byTheme))
	for _, s := range byTheme {
		if s.Attempts < minThemeAttempts {
			continue
		}
		s.Accuracy = math.Round(float64(s.Successes)/float64(s.Attempts)*1000) / 1000
		result = append(result, *s)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Accuracy != result[j].Accuracy {
			return result[i].Accuracy < result[j].Accuracy
		}
		return result[i].Name < result[j].Name
	})
	return result
}
