package catalog

import (
	"context"
	"slices"
	"sort"
	"sync"
)

//go:generate mockgen -source=catalog.go -destination=../mocks/catalog/mock_catalog.go -package=mock_catalog

// Catalog provides read-only access to groups and items.
type Catalog interface {
	// Groups returns every group in catalog order.
	Groups(ctx context.Context) ([]Group, error)
	// FindGroup returns the group or nil if not found.
	FindGroup(ctx context.Context, id string) (*Group, error)
	// FindItem returns the item or nil if not found.
	FindItem(ctx context.Context, id string) (*Item, error)
	// FindItems returns the items matching the indexable fields of q in catalog order.
	FindItems(ctx context.Context, q Query) ([]Item, error)
	// ItemsByGroup returns the items of a group in catalog order.
	ItemsByGroup(ctx context.Context, groupID string) ([]Item, error)
}

// Query is the store-level part of a filter. It only references fields that a store can index;
// theme membership is refined in memory by the caller.
type Query struct {
	Difficulties []Difficulty
	Goals        []Goal
	GroupID      string
	// GroupIDs restricts to a set of groups when non-empty.
	GroupIDs []string
	Side     *Side
}

// Match reports whether item satisfies q.
func (q Query) Match(item Item) bool {
	if len(q.Difficulties) > 0 && !slices.Contains(q.Difficulties, item.Difficulty) {
		return false
	}
	if len(q.Goals) > 0 && !slices.Contains(q.Goals, item.Goal) {
		return false
	}
	if q.GroupID != "" && item.GroupID != q.GroupID {
		return false
	}
	if len(q.GroupIDs) > 0 && !slices.Contains(q.GroupIDs, item.GroupID) {
		return false
	}
	if q.Side != nil && item.Side != *q.Side {
		return false
	}
	return true
}

// Index is an in-memory Catalog. It is safe for concurrent use and can be replaced atomically on reload.
type Index struct {
	mu      sync.RWMutex
	groups  []Group
	items   []Item
	groupBy map[string]int
	itemBy  map[string]int
}

// NewIndex builds an index. Items are sorted by Position and their Side is derived from the owning group.
func NewIndex(groups []Group, items []Item) *Index {
	idx := &Index{}
	idx.Replace(groups, items)
	return idx
}

// Replace swaps the content of the index.
func (idx *Index) Replace(groups []Group, items []Item) {
	gs := slices.Clone(groups)
	sort.SliceStable(gs, func(i, j int) bool { return gs[i].Position < gs[j].Position })
	groupBy := make(map[string]int, len(gs))
	for i, g := range gs {
		groupBy[g.ID] = i
	}

	is := slices.Clone(items)
	sort.SliceStable(is, func(i, j int) bool { return is[i].Position < is[j].Position })
	itemBy := make(map[string]int, len(is))
	for i := range is {
		if gi, ok := groupBy[is[i].GroupID]; ok {
			is[i].Side = gs[gi].Side()
		}
		itemBy[is[i].ID] = i
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.groups = gs
	idx.items = is
	idx.groupBy = groupBy
	idx.itemBy = itemBy
}

// Len returns the number of items.
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.items)
}

// Snapshot returns copies of the groups and items in catalog order.
func (idx *Index) Snapshot() ([]Group, []Item) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return slices.Clone(idx.groups), slices.Clone(idx.items)
}

func (idx *Index) Groups(_ context.Context) ([]Group, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return slices.Clone(idx.groups), nil
}

func (idx *Index) FindGroup(_ context.Context, id string) (*Group, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	i, ok := idx.groupBy[id]
	if !ok {
		return nil, nil
	}
	g := idx.groups[i]
	return &g, nil
}

func (idx *Index) FindItem(_ context.Context, id string) (*Item, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	i, ok := idx.itemBy[id]
	if !ok {
		return nil, nil
	}
	item := idx.items[i]
	return &item, nil
}

func (idx *Index) FindItems(_ context.Context, q Query) ([]Item, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	var result []Item
	for _, item := range idx.items {
		if q.Match(item) {
			result = append(result, item)
		}
	}
	return result, nil
}

func (idx *Index) ItemsByGroup(ctx context.Context, groupID string) ([]Item, error) {
	return idx.FindItems(ctx, Query{GroupID: groupID})
}
