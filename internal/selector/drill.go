package selector

import (
	"context"
	"sort"

	"github.com/at-ishikawa/openings/internal/apperr"
	"github.com/at-ishikawa/openings/internal/catalog"
	"github.com/at-ishikawa/openings/internal/srs"
)

// DrillPick is the item chosen for a drill session together with its current record.
type DrillPick struct {
	Item catalog.Item
	// Record is nil when the item was never drilled.
	Record *srs.DrillRecord
}

type drillCandidate struct {
	item   catalog.Item
	record *srs.DrillRecord
}

// SelectDrill picks the next item of a group to drill.
//
// Due items are drawn by a lottery weighted with srs.DrillRecord.Weight. Without due items a
// learning item is drawn uniformly. Otherwise the item due soonest is reviewed early, preferring
// the smaller interval on ties. It returns nil for a group without items.
func (s *Selector) SelectDrill(ctx context.Context, userID int64, groupID string) (*DrillPick, error) {
	items, err := s.catalog.ItemsByGroup(ctx, groupID)
	if err != nil {
		return nil, apperr.Storage(err, "list items")
	}
	if len(items) == 0 {
		return nil, nil
	}
	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}
	records, err := s.drill.FindByItems(ctx, userID, ids)
	if err != nil {
		return nil, apperr.Storage(err, "find drill records")
	}

	now := s.clock.Now()
	var due, learning, scheduled []drillCandidate
	for _, item := range items {
		c := drillCandidate{item: item}
		if rec, ok := records[item.ID]; ok {
			c.record = &rec
		}
		switch srs.DrillStatus(c.record, now) {
		case srs.StatusLearning:
			learning = append(learning, c)
		case srs.StatusDue:
			due = append(due, c)
		default:
			scheduled = append(scheduled, c)
		}
	}

	if len(due) > 0 {
		return s.drawWeighted(due).pick(), nil
	}
	if len(learning) > 0 {
		return learning[s.rand.IntN(len(learning))].pick(), nil
	}
	sort.SliceStable(scheduled, func(i, j int) bool {
		a, b := scheduled[i].record, scheduled[j].record
		if !a.DueDate.Equal(b.DueDate) {
			return a.DueDate.Before(b.DueDate)
		}
		return a.IntervalDays < b.IntervalDays
	})
	return scheduled[0].pick(), nil
}

func (s *Selector) drawWeighted(candidates []drillCandidate) drillCandidate {
	var total float64
	for _, c := range candidates {
		total += c.record.Weight()
	}
	r := s.rand.Float64() * total
	var upto float64
	for _, c := range candidates {
		w := c.record.Weight()
		if upto+w >= r {
			return c
		}
		upto += w
	}
	return candidates[len(candidates)-1]
}

func (c drillCandidate) pick() *DrillPick {
	return &DrillPick{Item: c.item, Record: c.record}
}
