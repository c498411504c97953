package trainer

import (
	"context"
	"time"

	"github.com/at-ishikawa/openings/internal/apperr"
	"github.com/at-ishikawa/openings/internal/catalog"
	"github.com/at-ishikawa/openings/internal/srs"
	"github.com/at-ishikawa/openings/internal/stats"
)

// DrillStatusEntry is the drill state of one line of a group. Line names are not disclosed.
type DrillStatusEntry struct {
	ItemID       string     `json:"variation_id"`
	LineNumber   int        `json:"line_number"`
	IntervalDays float64    `json:"interval_days"`
	EaseFactor   float64    `json:"ease_factor"`
	Streak       int        `json:"streak"`
	DueDate      *time.Time `json:"due_date"`
	Status       srs.Status `json:"status"`
}

func newDrillStatusEntry(itemID string, line int, rec *srs.DrillRecord, now time.Time) DrillStatusEntry {
	e := DrillStatusEntry{
		ItemID:     itemID,
		LineNumber: line,
		EaseFactor: srs.DefaultEaseFactor,
		Status:     srs.DrillStatus(rec, now),
	}
	if rec != nil {
		due := rec.DueDate
		e.IntervalDays = rec.IntervalDays
		e.EaseFactor = rec.EaseFactor
		e.Streak = rec.Streak
		e.DueDate = &due
	}
	return e
}

func (s *Service) drillRecords(ctx context.Context, userID int64, items []catalog.Item) (map[string]srs.DrillRecord, error) {
	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}
	records, err := s.drill.FindByItems(ctx, userID, ids)
	if err != nil {
		return nil, apperr.Storage(err, "find drill records")
	}
	return records, nil
}

func (s *Service) groupItems(ctx context.Context, groupID string) ([]catalog.Item, error) {
	items, err := s.catalog.ItemsByGroup(ctx, groupID)
	if err != nil {
		return nil, apperr.Storage(err, "list items")
	}
	return items, nil
}

// GetDrillStatus returns the drill state of every line of a group in catalog order.
func (s *Service) GetDrillStatus(ctx context.Context, userID int64, groupID string) ([]DrillStatusEntry, error) {
	g, err := s.findGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if err := s.policy.RequirePremium(ctx, userID); err != nil {
		return nil, err
	}
	items, err := s.groupItems(ctx, g.ID)
	if err != nil {
		return nil, err
	}
	records, err := s.drillRecords(ctx, userID, items)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	entries := make([]DrillStatusEntry, 0, len(items))
	for i, item := range items {
		var rec *srs.DrillRecord
		if r, ok := records[item.ID]; ok {
			rec = &r
		}
		entries = append(entries, newDrillStatusEntry(item.ID, i+1, rec, now))
	}
	return entries, nil
}

// DrillGroup tells whether drilling a group is unlocked.
type DrillGroup struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Unlocked bool   `json:"drill_unlocked"`
}

// DrillGroups lists every group with its drill unlock state.
func (s *Service) DrillGroups(ctx context.Context, userID int64) ([]DrillGroup, error) {
	if err := s.policy.RequirePremium(ctx, userID); err != nil {
		return nil, err
	}
	groups, err := s.catalog.Groups(ctx)
	if err != nil {
		return nil, apperr.Storage(err, "list groups")
	}
	result := make([]DrillGroup, 0, len(groups))
	for _, g := range groups {
		ok, err := s.policy.DrillUnlocked(ctx, userID, g.ID)
		if err != nil {
			return nil, err
		}
		result = append(result, DrillGroup{ID: g.ID, Name: g.Name, Unlocked: ok})
	}
	return result, nil
}

// DrillSession is the next line to drill. The item name is hidden by the transport.
type DrillSession struct {
	Group  catalog.Group
	Item   catalog.Item
	Status DrillStatusEntry
}

// StartDrill picks the next line of a group to drill.
func (s *Service) StartDrill(ctx context.Context, userID int64, groupID string) (*DrillSession, error) {
	g, err := s.findGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if err := s.policy.RequirePremium(ctx, userID); err != nil {
		return nil, err
	}
	if err := s.policy.CheckStamina(ctx, userID); err != nil {
		return nil, err
	}
	if err := s.policy.RequireDrillUnlocked(ctx, userID, g.ID); err != nil {
		return nil, err
	}
	pick, err := s.selector.SelectDrill(ctx, userID, g.ID)
	if err != nil {
		return nil, err
	}
	if pick == nil {
		return nil, apperr.NotFound("no variations found")
	}
	return &DrillSession{
		Group:  *g,
		Item:   pick.Item,
		Status: newDrillStatusEntry(pick.Item.ID, 0, pick.Record, s.clock.Now()),
	}, nil
}

// DrillStatsReport is the drill statistics and badges of a group.
type DrillStatsReport struct {
	Group  catalog.Group
	Stats  stats.DrillStats
	Badges []stats.Badge
}

// DrillStats aggregates the drill history of a group.
func (s *Service) DrillStats(ctx context.Context, userID int64, groupID string) (*DrillStatsReport, error) {
	g, err := s.findGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if err := s.policy.RequirePremium(ctx, userID); err != nil {
		return nil, err
	}
	if err := s.policy.RequireDrillUnlocked(ctx, userID, g.ID); err != nil {
		return nil, err
	}
	items, err := s.groupItems(ctx, g.ID)
	if err != nil {
		return nil, err
	}
	records, err := s.drillRecords(ctx, userID, items)
	if err != nil {
		return nil, err
	}
	attempts, err := s.attempts.ListByGroup(ctx, userID, g.ID)
	if err != nil {
		return nil, apperr.Storage(err, "list drill attempts")
	}

	st := stats.CalculateDrillStats(items, records, attempts, s.clock.Now())
	return &DrillStatsReport{Group: *g, Stats: st, Badges: stats.DrillBadges(st, attempts)}, nil
}

// ThemeStats returns the accuracy per theme, weakest first.
func (s *Service) ThemeStats(ctx context.Context, userID int64) ([]stats.ThemeStat, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	completions, err := s.completions.List(ctx, userID)
	if err != nil {
		return nil, apperr.Storage(err, "list completions")
	}
	mistakes, err := s.mistakes.ListAll(ctx, userID)
	if err != nil {
		return nil, apperr.Storage(err, "list mistakes")
	}
	items, err := s.catalog.FindItems(ctx, catalog.Query{})
	if err != nil {
		return nil, apperr.Storage(err, "list items")
	}
	byID := make(map[string]catalog.Item, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}
	return stats.CalculateThemeStats(completions, mistakes, byID), nil
}

