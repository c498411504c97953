// Package datasync provides import orchestration from the catalog YAML file into the database.
package datasync

import (
	"context"
	"fmt"
	"io"
	"slices"

	"github.com/at-ishikawa/openings/internal/catalog"
)

// ImportResult tracks counts for each import operation.
type ImportResult struct {
	GroupsNew     int
	GroupsUpdated int
	GroupsSkipped int
	ItemsNew      int
	ItemsUpdated  int
	ItemsSkipped  int
}

// Changed reports whether the import wrote or would write anything.
func (r ImportResult) Changed() bool {
	return r.GroupsNew+r.GroupsUpdated+r.ItemsNew+r.ItemsUpdated > 0
}

// ImportOptions controls import behavior.
type ImportOptions struct {
	DryRun         bool
	UpdateExisting bool
}

// Importer reads catalog content and writes it to a catalog store.
type Importer struct {
	store  catalog.Store
	writer io.Writer
}

// NewImporter creates a new Importer.
func NewImporter(store catalog.Store, writer io.Writer) *Importer {
	return &Importer{
		store:  store,
		writer: writer,
	}
}

// ImportCatalog upserts groups before items so that every item references a stored group.
// Rows identical to the stored ones are skipped; differing rows are only updated with UpdateExisting.
func (imp *Importer) ImportCatalog(ctx context.Context, groups []catalog.Group, items []catalog.Item, opts ImportOptions) (*ImportResult, error) {
	storedGroups, storedItems, err := imp.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("store.Load() > %w", err)
	}
	groupBy := make(map[string]catalog.Group, len(storedGroups))
	for _, g := range storedGroups {
		groupBy[g.ID] = g
	}
	itemBy := make(map[string]catalog.Item, len(storedItems))
	for _, item := range storedItems {
		itemBy[item.ID] = item
	}

	var result ImportResult
	for _, g := range groups {
		existing, ok := groupBy[g.ID]
		switch {
		case !ok:
			if err := imp.upsertGroup(ctx, g, opts); err != nil {
				return nil, err
			}
			fmt.Fprintf(imp.writer, "  [NEW]  opening %q (%s)\n", g.Name, g.ID)
			result.GroupsNew++
		case sameGroup(existing, g):
			result.GroupsSkipped++
		case !opts.UpdateExisting:
			fmt.Fprintf(imp.writer, "  [SKIP]  opening %q (%s)\n", g.Name, g.ID)
			result.GroupsSkipped++
		default:
			if err := imp.upsertGroup(ctx, g, opts); err != nil {
				return nil, err
			}
			fmt.Fprintf(imp.writer, "  [UPDATE]  opening %q (%s)\n", g.Name, g.ID)
			result.GroupsUpdated++
		}
	}

	for _, item := range items {
		existing, ok := itemBy[item.ID]
		switch {
		case !ok:
			if err := imp.upsertItem(ctx, item, opts); err != nil {
				return nil, err
			}
			fmt.Fprintf(imp.writer, "  [NEW]  variation %q (%s)\n", item.Name, item.ID)
			result.ItemsNew++
		case sameItem(existing, item):
			result.ItemsSkipped++
		case !opts.UpdateExisting:
			fmt.Fprintf(imp.writer, "  [SKIP]  variation %q (%s)\n", item.Name, item.ID)
			result.ItemsSkipped++
		default:
			if err := imp.upsertItem(ctx, item, opts); err != nil {
				return nil, err
			}
			fmt.Fprintf(imp.writer, "  [UPDATE]  variation %q (%s)\n", item.Name, item.ID)
			result.ItemsUpdated++
		}
	}
	return &result, nil
}

func (imp *Importer) upsertGroup(ctx context.Context, g catalog.Group, opts ImportOptions) error {
	if opts.DryRun {
		return nil
	}
	if err := imp.store.UpsertGroup(ctx, g); err != nil {
		return fmt.Errorf("UpsertGroup(%s) > %w", g.ID, err)
	}
	return nil
}

func (imp *Importer) upsertItem(ctx context.Context, item catalog.Item, opts ImportOptions) error {
	if opts.DryRun {
		return nil
	}
	if err := imp.store.UpsertItem(ctx, item); err != nil {
		return fmt.Errorf("UpsertItem(%s) > %w", item.ID, err)
	}
	return nil
}

func sameGroup(a, b catalog.Group) bool {
	return a.Name == b.Name &&
		a.Category == b.Category &&
		a.Position == b.Position &&
		slices.Equal(a.Tags, b.Tags)
}

// sameItem ignores Side, which is derived from the group.
func sameItem(a, b catalog.Item) bool {
	return a.GroupID == b.GroupID &&
		a.Name == b.Name &&
		a.Difficulty == b.Difficulty &&
		a.Goal == b.Goal &&
		a.Position == b.Position &&
		slices.Equal(a.Moves, b.Moves) &&
		slices.Equal(a.Themes, b.Themes)
}
