// Package selector picks the next thing a user should train.
//
// Selection walks ordered tiers and returns from the first tier that yields a candidate:
// an explicitly requested item or mistake, one-move random mode, the mistake queue, due recall
// records, unseen items and, for filtered requests, any matching item.
package selector

import (
	"context"
	"fmt"
	"slices"

	"github.com/at-ishikawa/openings/internal/apperr"
	"github.com/at-ishikawa/openings/internal/catalog"
	"github.com/at-ishikawa/openings/internal/clock"
	"github.com/at-ishikawa/openings/internal/entitlement"
	"github.com/at-ishikawa/openings/internal/filter"
	"github.com/at-ishikawa/openings/internal/mistake"
	"github.com/at-ishikawa/openings/internal/progress"
	"github.com/at-ishikawa/openings/internal/session"
	"github.com/at-ishikawa/openings/internal/srs"
)

// Type tells the client how to present a result.
type Type string

const (
	TypeNewLearn  Type = "new_learn"
	TypeSRSReview Type = "srs_review"
	TypeMistake   Type = "mistake"
)

// Request describes a "next item" request.
type Request struct {
	UserID    int64
	SessionID string
	Mode      srs.Mode
	Criteria  filter.Criteria
	// ItemID requests a specific item.
	ItemID string
	// MistakeID requests a specific unresolved mistake. It takes precedence over ItemID.
	MistakeID int64
}

// Result is the selected item or mistake.
type Result struct {
	Type Type
	// Item is nil for mistakes of an unknown item.
	Item    *catalog.Item
	Group   *catalog.Group
	Mistake *progress.Mistake
	// PoolSize is the number of eligible groups in one-move mode.
	PoolSize int
}

// Deps are the collaborators of a Selector.
type Deps struct {
	Catalog    catalog.Catalog
	Recall     progress.RecallRepository
	Drill      progress.DrillRepository
	Repertoire progress.RepertoireRepository
	Mistakes   *mistake.Queue
	Oracle     entitlement.Oracle
	Sessions   session.Store
	Clock      clock.Clock
	Rand       Rand
}

type Selector struct {
	catalog    catalog.Catalog
	recall     progress.RecallRepository
	drill      progress.DrillRepository
	repertoire progress.RepertoireRepository
	mistakes   *mistake.Queue
	oracle     entitlement.Oracle
	sessions   session.Store
	clock      clock.Clock
	rand       Rand
}

func New(deps Deps) *Selector {
	r := deps.Rand
	if r == nil {
		r = NewRand(0)
	}
	return &Selector{
		catalog:    deps.Catalog,
		recall:     deps.Recall,
		drill:      deps.Drill,
		repertoire: deps.Repertoire,
		mistakes:   deps.Mistakes,
		oracle:     deps.Oracle,
		sessions:   deps.Sessions,
		clock:      deps.Clock,
		rand:       r,
	}
}

// scope is a request after resolving its group, side and repertoire.
type scope struct {
	req      Request
	criteria filter.Criteria
	group    *catalog.Group
	// side is the trained side. Nil means both sides.
	side     *catalog.Side
	unlocked entitlement.Unlocked
}

func (s scope) isGuest() bool {
	return s.req.UserID == progress.GuestUserID
}

// Next selects the next item or mistake for the request.
func (s *Selector) Next(ctx context.Context, req Request) (*Result, error) {
	if req.MistakeID != 0 {
		return s.requestedMistake(ctx, req)
	}
	if err := req.Criteria.Validate(); err != nil {
		return nil, err
	}

	sc, err := s.resolveScope(ctx, req)
	if err != nil {
		return nil, err
	}
	if req.ItemID != "" {
		return s.requestedItem(ctx, sc)
	}
	if req.Mode == srs.ModeOneMove {
		return s.oneMove(ctx, sc)
	}

	hasFilters := sc.criteria.HasFilters()
	if !sc.isGuest() {
		result, err := s.nextMistake(ctx, sc, hasFilters)
		if err != nil || result != nil {
			return result, err
		}
		result, err = s.nextDue(ctx, sc)
		if err != nil || result != nil {
			return result, err
		}
	}

	known, err := s.knownItemIDs(ctx, sc)
	if err != nil {
		return nil, err
	}
	result, err := s.nextUnseen(ctx, sc, known)
	if err != nil || result != nil {
		return result, err
	}
	if hasFilters {
		result, err = s.fallback(ctx, sc, known)
		if err != nil || result != nil {
			return result, err
		}
	}
	return nil, apperr.New(apperr.KindNoContent, "no content available matching your criteria")
}

func (s *Selector) requestedMistake(ctx context.Context, req Request) (*Result, error) {
	if req.UserID == progress.GuestUserID {
		return nil, apperr.InvalidArgument("authentication required")
	}
	m, err := s.mistakes.Get(ctx, req.UserID, req.MistakeID)
	if err != nil {
		return nil, err
	}
	return s.mistakeResult(ctx, m)
}

func (s *Selector) resolveScope(ctx context.Context, req Request) (scope, error) {
	sc := scope{req: req, criteria: req.Criteria}
	if sc.isGuest() {
		sc.criteria.RepertoireOnly = false
	}

	if sc.criteria.GroupID != "" {
		g, err := s.catalog.FindGroup(ctx, sc.criteria.GroupID)
		if err != nil {
			return scope{}, apperr.Storage(err, "find group")
		}
		if g == nil {
			return scope{}, apperr.NotFound("opening %s not found", sc.criteria.GroupID)
		}
		sc.group = g
	}

	switch {
	case sc.criteria.Side != nil:
		sc.side = sc.criteria.Side
	case sc.group != nil:
		side := sc.group.Side()
		sc.side = &side
	case req.Mode != srs.ModeOneMove:
		side := catalog.SideWhite
		sc.side = &side
	}

	if sc.criteria.RepertoireOnly {
		ids, err := s.repertoire.ActiveGroupIDs(ctx, req.UserID, sc.side)
		if err != nil {
			return scope{}, apperr.Storage(err, "list repertoire")
		}
		if len(ids) == 0 {
			return scope{}, apperr.NotFound("no repertoire openings for this side")
		}
		sc.criteria.RepertoireGroupIDs = ids
	}

	unlocked, err := s.oracle.UnlockedItemIDs(ctx, req.UserID)
	if err != nil {
		return scope{}, err
	}
	sc.unlocked = unlocked
	return sc, nil
}

func (s *Selector) requestedItem(ctx context.Context, sc scope) (*Result, error) {
	item, err := s.catalog.FindItem(ctx, sc.req.ItemID)
	if err != nil {
		return nil, apperr.Storage(err, "find item")
	}
	if item == nil {
		return nil, apperr.NotFound("variation %s not found", sc.req.ItemID)
	}
	if !sc.unlocked.Contains(item.ID) {
		return nil, apperr.Forbidden("variation %s requires premium", item.ID)
	}
	if sc.group != nil && item.GroupID != sc.group.ID {
		return nil, apperr.NotFound("variation %s is not in opening %s", item.ID, sc.group.ID)
	}
	if sc.criteria.RepertoireOnly && !slices.Contains(sc.criteria.RepertoireGroupIDs, item.GroupID) {
		return nil, apperr.NotFound("variation %s is not in the repertoire for this side", item.ID)
	}
	return s.itemResult(ctx, *item, TypeNewLearn)
}

func (s *Selector) oneMove(ctx context.Context, sc scope) (*Result, error) {
	// Group scoping is applied below; the pinned group is checked against the repertoire instead.
	criteria := sc.criteria
	criteria.GroupID = ""
	criteria.RepertoireGroupIDs = nil
	criteria.RepertoireOnly = false
	criteria.Side = sc.side

	if sc.group != nil {
		if sc.criteria.RepertoireOnly && !slices.Contains(sc.criteria.RepertoireGroupIDs, sc.group.ID) {
			return nil, apperr.NotFound("opening %s is not in the repertoire for this side", sc.group.ID)
		}
		item, err := s.pickInGroup(ctx, sc, criteria, sc.group.ID)
		if err != nil {
			return nil, err
		}
		if item == nil {
			return nil, apperr.NotFound("no variations found for opening %s", sc.group.ID)
		}
		result, err := s.itemResult(ctx, *item, TypeNewLearn)
		if err != nil {
			return nil, err
		}
		result.PoolSize = 1
		return result, nil
	}

	groups, err := s.catalog.Groups(ctx)
	if err != nil {
		return nil, apperr.Storage(err, "list groups")
	}
	items, err := s.catalog.FindItems(ctx, criteria.Query())
	if err != nil {
		return nil, apperr.Storage(err, "list items")
	}
	withItems := make(map[string]struct{})
	for _, item := range criteria.Refine(items) {
		if sc.unlocked.Contains(item.ID) {
			withItems[item.GroupID] = struct{}{}
		}
	}
	var eligible []string
	for _, g := range groups {
		if _, ok := withItems[g.ID]; !ok {
			continue
		}
		if sc.criteria.RepertoireOnly && !slices.Contains(sc.criteria.RepertoireGroupIDs, g.ID) {
			continue
		}
		eligible = append(eligible, g.ID)
	}
	if len(eligible) == 0 {
		return nil, apperr.New(apperr.KindNoContent, "no eligible openings found")
	}

	candidates := eligible
	last, ok, err := s.sessions.LastGroup(ctx, sc.req.SessionID)
	if err != nil {
		return nil, apperr.Storage(err, "read session")
	}
	if ok && len(eligible) > 1 && slices.Contains(eligible, last) {
		candidates = slices.DeleteFunc(slices.Clone(eligible), func(id string) bool { return id == last })
	}
	groupID := candidates[s.rand.IntN(len(candidates))]
	if err := s.sessions.SetLastGroup(ctx, sc.req.SessionID, groupID); err != nil {
		return nil, apperr.Storage(err, "write session")
	}

	item, err := s.pickInGroup(ctx, sc, criteria, groupID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, apperr.NotFound("no variations found for opening %s", groupID)
	}
	result, err := s.itemResult(ctx, *item, TypeNewLearn)
	if err != nil {
		return nil, err
	}
	result.PoolSize = len(eligible)
	return result, nil
}

func (s *Selector) pickInGroup(ctx context.Context, sc scope, criteria filter.Criteria, groupID string) (*catalog.Item, error) {
	criteria.GroupID = groupID
	items, err := s.catalog.FindItems(ctx, criteria.Query())
	if err != nil {
		return nil, apperr.Storage(err, "list items")
	}
	candidates := s.unlockedOnly(sc, criteria.Refine(items))
	if len(candidates) == 0 {
		return nil, nil
	}
	item := candidates[s.rand.IntN(len(candidates))]
	return &item, nil
}

func (s *Selector) nextMistake(ctx context.Context, sc scope, hasFilters bool) (*Result, error) {
	var match mistake.MatchFunc
	if hasFilters {
		match = func(item *catalog.Item) bool { return sc.criteria.Match(*item) }
	}
	m, err := s.mistakes.Next(ctx, sc.req.UserID, s.catalog, match)
	if err != nil || m == nil {
		return nil, err
	}
	return s.mistakeResult(ctx, m)
}

func (s *Selector) nextDue(ctx context.Context, sc scope) (*Result, error) {
	entries, err := s.recall.FindDue(ctx, sc.req.UserID, s.clock.Now(), sc.criteria.Query())
	if err != nil {
		return nil, apperr.Storage(err, "find due records")
	}
	for _, e := range entries {
		if !sc.unlocked.Contains(e.ItemID) {
			continue
		}
		item, err := s.catalog.FindItem(ctx, e.ItemID)
		if err != nil {
			return nil, apperr.Storage(err, "find item")
		}
		if item == nil || !sc.criteria.MatchThemes(*item) {
			continue
		}
		return s.itemResult(ctx, *item, TypeSRSReview)
	}
	return nil, nil
}

func (s *Selector) knownItemIDs(ctx context.Context, sc scope) (map[string]struct{}, error) {
	known := make(map[string]struct{})
	if sc.isGuest() {
		return known, nil
	}
	ids, err := s.recall.KnownItemIDs(ctx, sc.req.UserID, sc.criteria.Query())
	if err != nil {
		return nil, apperr.Storage(err, "list known items")
	}
	for _, id := range ids {
		known[id] = struct{}{}
	}
	return known, nil
}

func (s *Selector) nextUnseen(ctx context.Context, sc scope, known map[string]struct{}) (*Result, error) {
	items, err := s.catalog.FindItems(ctx, sc.criteria.Query())
	if err != nil {
		return nil, apperr.Storage(err, "list items")
	}
	items = slices.DeleteFunc(items, func(item catalog.Item) bool {
		_, ok := known[item.ID]
		return ok
	})
	candidates := sc.criteria.Refine(s.unlockedOnly(sc, items))
	if len(candidates) == 0 {
		return nil, nil
	}
	return s.itemResult(ctx, candidates[s.rand.IntN(len(candidates))], TypeNewLearn)
}

func (s *Selector) fallback(ctx context.Context, sc scope, known map[string]struct{}) (*Result, error) {
	items, err := s.catalog.FindItems(ctx, sc.criteria.Query())
	if err != nil {
		return nil, apperr.Storage(err, "list items")
	}
	candidates := sc.criteria.Refine(s.unlockedOnly(sc, items))
	if len(candidates) == 0 {
		return nil, nil
	}
	item := candidates[s.rand.IntN(len(candidates))]
	t := TypeNewLearn
	if _, ok := known[item.ID]; ok {
		t = TypeSRSReview
	}
	return s.itemResult(ctx, item, t)
}

func (s *Selector) unlockedOnly(sc scope, items []catalog.Item) []catalog.Item {
	if sc.unlocked.All {
		return items
	}
	var result []catalog.Item
	for _, item := range items {
		if sc.unlocked.Contains(item.ID) {
			result = append(result, item)
		}
	}
	return result
}

func (s *Selector) itemResult(ctx context.Context, item catalog.Item, t Type) (*Result, error) {
	g, err := s.catalog.FindGroup(ctx, item.GroupID)
	if err != nil {
		return nil, apperr.Storage(err, fmt.Sprintf("find group %s", item.GroupID))
	}
	return &Result{Type: t, Item: &item, Group: g}, nil
}

func (s *Selector) mistakeResult(ctx context.Context, m *progress.Mistake) (*Result, error) {
	result := &Result{Type: TypeMistake, Mistake: m}
	if !m.HasItem() {
		return result, nil
	}
	item, err := s.catalog.FindItem(ctx, m.ItemID)
	if err != nil {
		return nil, apperr.Storage(err, "find item")
	}
	if item == nil {
		return result, nil
	}
	g, err := s.catalog.FindGroup(ctx, item.GroupID)
	if err != nil {
		return nil, apperr.Storage(err, "find group")
	}
	result.Item = item
	result.Group = g
	return result, nil
}
