// Package memstore keeps every progress repository in memory. It backs the development server and tests.
package memstore

import (
	"context"
	"maps"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/at-ishikawa/openings/internal/catalog"
	"github.com/at-ishikawa/openings/internal/progress"
	"github.com/at-ishikawa/openings/internal/srs"
)

type recordKey struct {
	userID int64
	itemID string
}

type mistakeKey struct {
	userID      int64
	itemID      string
	positionKey string
}

type repertoireKey struct {
	userID  int64
	groupID string
	side    catalog.Side
}

// Store holds the state. Every operation runs under one lock, so each record update is atomic.
type Store struct {
	mu      sync.Mutex
	catalog catalog.Catalog

	recall        map[recordKey]srs.RecallRecord
	drill         map[recordKey]srs.DrillRecord
	mistakes      map[int64]progress.Mistake
	mistakeIndex  map[mistakeKey]int64
	nextMistakeID int64
	repertoire    map[repertoireKey]progress.RepertoireEntry
	completions   map[recordKey]progress.Completion
	attempts      []progress.DrillAttempt
	profiles      map[int64]progress.Profile
}

// New creates an empty store. The catalog evaluates filters over item attributes.
func New(cat catalog.Catalog) *Store {
	return &Store{
		catalog:      cat,
		recall:       make(map[recordKey]srs.RecallRecord),
		drill:        make(map[recordKey]srs.DrillRecord),
		mistakes:     make(map[int64]progress.Mistake),
		mistakeIndex: make(map[mistakeKey]int64),
		repertoire:   make(map[repertoireKey]progress.RepertoireEntry),
		completions:  make(map[recordKey]progress.Completion),
		profiles:     make(map[int64]progress.Profile),
	}
}

func (s *Store) Recall() *RecallRepository { return &RecallRepository{view{s: s}} }

func (s *Store) Drill() *DrillRepository { return &DrillRepository{view{s: s}} }

func (s *Store) Mistakes() *MistakeRepository { return &MistakeRepository{view{s: s}} }

func (s *Store) Repertoire() *RepertoireRepository { return &RepertoireRepository{view{s: s}} }

func (s *Store) Completions() *CompletionRepository { return &CompletionRepository{view{s: s}} }

func (s *Store) Attempts() *AttemptRepository { return &AttemptRepository{view{s: s}} }

func (s *Store) Profiles() *ProfileRepository { return &ProfileRepository{view{s: s}} }

// view is how a repository reaches the store. A view created by Do runs with the lock already held.
type view struct {
	s    *Store
	held bool
}

func (v view) lock() func() {
	if v.held {
		return func() {}
	}
	v.s.mu.Lock()
	return v.s.mu.Unlock
}

// Do runs fn under the store lock. When fn fails the store is restored to its state before Do.
func (s *Store) Do(ctx context.Context, fn func(ctx context.Context, repos progress.Repositories) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	saved := s.snapshot()
	v := view{s: s, held: true}
	err := fn(ctx, progress.Repositories{
		Recall:      &RecallRepository{v},
		Drill:       &DrillRepository{v},
		Mistakes:    &MistakeRepository{v},
		Completions: &CompletionRepository{v},
		Attempts:    &AttemptRepository{v},
		Profiles:    &ProfileRepository{v},
	})
	if err != nil {
		s.restore(saved)
	}
	return err
}

type snapshot struct {
	recall        map[recordKey]srs.RecallRecord
	drill         map[recordKey]srs.DrillRecord
	mistakes      map[int64]progress.Mistake
	mistakeIndex  map[mistakeKey]int64
	nextMistakeID int64
	completions   map[recordKey]progress.Completion
	attempts      []progress.DrillAttempt
	profiles      map[int64]progress.Profile
}

func (s *Store) snapshot() snapshot {
	return snapshot{
		recall:        maps.Clone(s.recall),
		drill:         maps.Clone(s.drill),
		mistakes:      maps.Clone(s.mistakes),
		mistakeIndex:  maps.Clone(s.mistakeIndex),
		nextMistakeID: s.nextMistakeID,
		completions:   maps.Clone(s.completions),
		attempts:      slices.Clone(s.attempts),
		profiles:      maps.Clone(s.profiles),
	}
}

func (s *Store) restore(snap snapshot) {
	s.recall = snap.recall
	s.drill = snap.drill
	s.mistakes = snap.mistakes
	s.mistakeIndex = snap.mistakeIndex
	s.nextMistakeID = snap.nextMistakeID
	s.completions = snap.completions
	s.attempts = snap.attempts
	s.profiles = snap.profiles
}

func isEmptyQuery(q catalog.Query) bool {
	return len(q.Difficulties) == 0 && len(q.Goals) == 0 && q.GroupID == "" && len(q.GroupIDs) == 0 && q.Side == nil
}

// matchItem evaluates q against the catalog item. Items missing from the catalog never match a filter.
func (s *Store) matchItem(ctx context.Context, itemID string, q catalog.Query) (bool, error) {
	if isEmptyQuery(q) {
		return true, nil
	}
	item, err := s.catalog.FindItem(ctx, itemID)
	if err != nil {
		return false, err
	}
	return item != nil && q.Match(*item), nil
}

type RecallRepository struct{ view }

func (r *RecallRepository) Find(_ context.Context, userID int64, itemID string) (*srs.RecallRecord, error) {
	defer r.lock()()
	rec, ok := r.s.recall[recordKey{userID, itemID}]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (r *RecallRepository) Update(_ context.Context, userID int64, itemID string, fn progress.RecallUpdateFunc) (*srs.RecallRecord, error) {
	defer r.lock()()
	key := recordKey{userID, itemID}
	var current *srs.RecallRecord
	if rec, ok := r.s.recall[key]; ok {
		current = &rec
	}
	next, err := fn(current)
	if err != nil || next == nil {
		return nil, err
	}
	r.s.recall[key] = *next
	return next, nil
}

func (r *RecallRepository) FindDue(ctx context.Context, userID int64, now time.Time, q catalog.Query) ([]progress.RecallEntry, error) {
	defer r.lock()()
	var entries []progress.RecallEntry
	for key, rec := range r.s.recall {
		if key.userID != userID || !rec.IsDue(now) {
			continue
		}
		ok, err := r.s.matchItem(ctx, key.itemID, q)
		if err != nil {
			return nil, err
		}
		if ok {
			entries = append(entries, progress.RecallEntry{UserID: userID, ItemID: key.itemID, RecallRecord: rec})
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].NextReviewDate.Equal(entries[j].NextReviewDate) {
			return entries[i].NextReviewDate.Before(entries[j].NextReviewDate)
		}
		return entries[i].ItemID < entries[j].ItemID
	})
	return entries, nil
}

func (r *RecallRepository) KnownItemIDs(ctx context.Context, userID int64, q catalog.Query) ([]string, error) {
	defer r.lock()()
	var ids []string
	for key := range r.s.recall {
		if key.userID != userID {
			continue
		}
		ok, err := r.s.matchItem(ctx, key.itemID, q)
		if err != nil {
			return nil, err
		}
		if ok {
			ids = append(ids, key.itemID)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

type DrillRepository struct{ view }

func (r *DrillRepository) Find(_ context.Context, userID int64, itemID string) (*srs.DrillRecord, error) {
	defer r.lock()()
	rec, ok := r.s.drill[recordKey{userID, itemID}]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (r *DrillRepository) FindByItems(_ context.Context, userID int64, itemIDs []string) (map[string]srs.DrillRecord, error) {
	defer r.lock()()
	result := make(map[string]srs.DrillRecord, len(itemIDs))
	for _, id := range itemIDs {
		if rec, ok := r.s.drill[recordKey{userID, id}]; ok {
			result[id] = rec
		}
	}
	return result, nil
}

func (r *DrillRepository) Update(_ context.Context, userID int64, itemID string, fn progress.DrillUpdateFunc) (*srs.DrillRecord, error) {
	defer r.lock()()
	key := recordKey{userID, itemID}
	var current *srs.DrillRecord
	if rec, ok := r.s.drill[key]; ok {
		current = &rec
	}
	next, err := fn(current)
	if err != nil || next == nil {
		return nil, err
	}
	r.s.drill[key] = *next
	return next, nil
}

type MistakeRepository struct{ view }

func (r *MistakeRepository) Upsert(_ context.Context, m *progress.Mistake) error {
	defer r.lock()()
	key := mistakeKey{m.UserID, m.ItemID, m.PositionKey}
	if id, ok := r.s.mistakeIndex[key]; ok {
		existing := r.s.mistakes[id]
		existing.Resolved = false
		existing.CreatedAt = m.CreatedAt
		r.s.mistakes[id] = existing
		*m = existing
		return nil
	}
	r.s.nextMistakeID++
	m.ID = r.s.nextMistakeID
	m.Resolved = false
	r.s.mistakes[m.ID] = *m
	r.s.mistakeIndex[key] = m.ID
	return nil
}

func (r *MistakeRepository) FindByID(_ context.Context, userID, id int64) (*progress.Mistake, error) {
	defer r.lock()()
	m, ok := r.s.mistakes[id]
	if !ok || m.UserID != userID {
		return nil, nil
	}
	return &m, nil
}

func (r *MistakeRepository) list(userID int64, unresolvedOnly bool) []progress.Mistake {
	var result []progress.Mistake
	for _, m := range r.s.mistakes {
		if m.UserID != userID || (unresolvedOnly && m.Resolved) {
			continue
		}
		result = append(result, m)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return result[i].ID < result[j].ID
	})
	return result
}

func (r *MistakeRepository) ListUnresolved(_ context.Context, userID int64) ([]progress.Mistake, error) {
	defer r.lock()()
	return r.list(userID, true), nil
}

func (r *MistakeRepository) ListAll(_ context.Context, userID int64) ([]progress.Mistake, error) {
	defer r.lock()()
	return r.list(userID, false), nil
}

func (r *MistakeRepository) Resolve(_ context.Context, userID, id int64) error {
	defer r.lock()()
	if m, ok := r.s.mistakes[id]; ok && m.UserID == userID {
		m.Resolved = true
		r.s.mistakes[id] = m
	}
	return nil
}

func (r *MistakeRepository) remove(m progress.Mistake) {
	delete(r.s.mistakes, m.ID)
	delete(r.s.mistakeIndex, mistakeKey{m.UserID, m.ItemID, m.PositionKey})
}

func (r *MistakeRepository) DeleteUnresolved(_ context.Context, userID int64) (int64, error) {
	defer r.lock()()
	var n int64
	for _, m := range r.list(userID, true) {
		r.remove(m)
		n++
	}
	return n, nil
}

func (r *MistakeRepository) Delete(_ context.Context, userID, id int64) (bool, error) {
	defer r.lock()()
	m, ok := r.s.mistakes[id]
	if !ok || m.UserID != userID {
		return false, nil
	}
	r.remove(m)
	return true, nil
}

type RepertoireRepository struct{ view }

func (r *RepertoireRepository) entries(userID int64) []progress.RepertoireEntry {
	var result []progress.RepertoireEntry
	for key, e := range r.s.repertoire {
		if key.userID == userID && e.Active {
			result = append(result, e)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Side != result[j].Side {
			return result[i].Side > result[j].Side
		}
		return result[i].GroupID < result[j].GroupID
	})
	return result
}

func (r *RepertoireRepository) ActiveGroupIDs(_ context.Context, userID int64, side *catalog.Side) ([]string, error) {
	defer r.lock()()
	var ids []string
	for _, e := range r.entries(userID) {
		if side == nil || e.Side == *side {
			ids = append(ids, e.GroupID)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (r *RepertoireRepository) List(_ context.Context, userID int64) ([]progress.RepertoireEntry, error) {
	defer r.lock()()
	return r.entries(userID), nil
}

func (r *RepertoireRepository) SetActive(_ context.Context, entry progress.RepertoireEntry) error {
	defer r.lock()()
	r.s.repertoire[repertoireKey{entry.UserID, entry.GroupID, entry.Side}] = entry
	return nil
}

type CompletionRepository struct{ view }

func (r *CompletionRepository) Increment(_ context.Context, userID int64, itemID string, now time.Time) error {
	defer r.lock()()
	key := recordKey{userID, itemID}
	c := r.s.completions[key]
	c.UserID = userID
	c.ItemID = itemID
	c.TimesCompleted++
	c.CompletedAt = now
	r.s.completions[key] = c
	return nil
}

func (r *CompletionRepository) CompletedItemIDs(ctx context.Context, userID int64, groupID string) ([]string, error) {
	defer r.lock()()
	var ids []string
	for key, c := range r.s.completions {
		if key.userID != userID || c.TimesCompleted == 0 {
			continue
		}
		ok, err := r.s.matchItem(ctx, key.itemID, catalog.Query{GroupID: groupID})
		if err != nil {
			return nil, err
		}
		if ok {
			ids = append(ids, key.itemID)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (r *CompletionRepository) List(_ context.Context, userID int64) ([]progress.Completion, error) {
	defer r.lock()()
	var result []progress.Completion
	for key, c := range r.s.completions {
		if key.userID == userID {
			result = append(result, c)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ItemID < result[j].ItemID })
	return result, nil
}

type AttemptRepository struct{ view }

func (r *AttemptRepository) Create(_ context.Context, attempt *progress.DrillAttempt) error {
	defer r.lock()()
	attempt.ID = int64(len(r.s.attempts) + 1)
	r.s.attempts = append(r.s.attempts, *attempt)
	return nil
}

func (r *AttemptRepository) ListByGroup(_ context.Context, userID int64, groupID string) ([]progress.DrillAttempt, error) {
	defer r.lock()()
	var result []progress.DrillAttempt
	for _, a := range r.s.attempts {
		if a.UserID == userID && a.GroupID == groupID {
			result = append(result, a)
		}
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].CreatedAt.Before(result[j].CreatedAt) })
	return result, nil
}

type ProfileRepository struct{ view }

func (r *ProfileRepository) Find(_ context.Context, userID int64) (progress.Profile, error) {
	defer r.lock()()
	if p, ok := r.s.profiles[userID]; ok {
		return p, nil
	}
	return progress.DefaultProfile(userID), nil
}

func (r *ProfileRepository) Update(_ context.Context, userID int64, fn func(p *progress.Profile) error) (progress.Profile, error) {
	defer r.lock()()
	p, ok := r.s.profiles[userID]
	if !ok {
		p = progress.DefaultProfile(userID)
	}
	if err := fn(&p); err != nil {
		return progress.Profile{}, err
	}
	r.s.profiles[userID] = p
	return p, nil
}

var (
	_ progress.RecallRepository     = (*RecallRepository)(nil)
	_ progress.DrillRepository      = (*DrillRepository)(nil)
	_ progress.MistakeRepository    = (*MistakeRepository)(nil)
	_ progress.RepertoireRepository = (*RepertoireRepository)(nil)
	_ progress.CompletionRepository = (*CompletionRepository)(nil)
	_ progress.AttemptRepository    = (*AttemptRepository)(nil)
	_ progress.ProfileRepository    = (*ProfileRepository)(nil)
	_ progress.UnitOfWork           = (*Store)(nil)
)
