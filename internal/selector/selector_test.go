package selector

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/at-ishikawa/openings/internal/apperr"
	"github.com/at-ishikawa/openings/internal/catalog"
	"github.com/at-ishikawa/openings/internal/clock"
	"github.com/at-ishikawa/openings/internal/config"
	"github.com/at-ishikawa/openings/internal/entitlement"
	"github.com/at-ishikawa/openings/internal/filter"
	"github.com/at-ishikawa/openings/internal/mistake"
	mock_entitlement "github.com/at-ishikawa/openings/internal/mocks/entitlement"
	"github.com/at-ishikawa/openings/internal/progress"
	"github.com/at-ishikawa/openings/internal/progress/memstore"
	"github.com/at-ishikawa/openings/internal/session"
	"github.com/at-ishikawa/openings/internal/srs"
	"github.com/at-ishikawa/openings/internal/testutil"
)

const (
	freeUser    int64 = 1
	premiumUser int64 = 2

	startFEN = "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq - 0 1"
)

var now = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

var unlockedForFree = []string{"giuoco-piano", "evans-gambit", "two-knights", "caro-advance", "caro-classical"}

type fixture struct {
	selector *Selector
	store    *memstore.Store
	queue    *mistake.Queue
	sessions *session.MemoryStore
	clock    *clock.Fixed
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	cat := testutil.NewCatalog(t)
	store := memstore.New(cat)
	c := clock.NewFixed(now)
	_, err := store.Profiles().Update(context.Background(), premiumUser, func(p *progress.Profile) error {
		p.IsPremium = true
		return nil
	})
	require.NoError(t, err)

	policy := entitlement.NewPolicy(
		config.MonetizationConfig{Strategy: config.StrategyHardLock, FreeItemLimit: 5, DailyMoves: 20},
		cat, store.Profiles(), store.Completions(), c,
	)
	queue := mistake.NewQueue(store.Mistakes(), c)
	sessions := session.NewMemoryStore()
	sel := New(Deps{
		Catalog:    cat,
		Recall:     store.Recall(),
		Drill:      store.Drill(),
		Repertoire: store.Repertoire(),
		Mistakes:   queue,
		Oracle:     policy,
		Sessions:   sessions,
		Clock:      c,
		Rand:       NewRand(1),
	})
	return &fixture{selector: sel, store: store, queue: queue, sessions: sessions, clock: c}
}

// review stores a recall record for the item with the given next review date.
func (f *fixture) review(t *testing.T, userID int64, itemID string, next time.Time) {
	t.Helper()
	_, err := f.store.Recall().Update(context.Background(), userID, itemID, func(*srs.RecallRecord) (*srs.RecallRecord, error) {
		return &srs.RecallRecord{EaseFactor: srs.DefaultEaseFactor, Interval: 1, Streak: 1, NextReviewDate: next}, nil
	})
	require.NoError(t, err)
}

func (f *fixture) mistake(t *testing.T, userID int64, itemID string) *progress.Mistake {
	t.Helper()
	m, err := f.queue.RecordFailure(context.Background(), mistake.Failure{
		UserID: userID, ItemID: itemID, PositionKey: startFEN + " " + itemID, WrongMove: "d5", CorrectMove: "c6",
	})
	require.NoError(t, err)
	return m
}

func sidePtr(s catalog.Side) *catalog.Side {
	return &s
}

func TestSelector_Next_RequestedMistake(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	open := f.mistake(t, freeUser, "caro-advance")
	resolved := f.mistake(t, freeUser, "giuoco-piano")
	require.NoError(t, f.queue.Resolve(ctx, freeUser, resolved.ID))

	tests := []struct {
		name     string
		req      Request
		wantID   int64
		wantKind apperr.Kind
	}{
		{
			name:   "open mistake",
			req:    Request{UserID: freeUser, MistakeID: open.ID, ItemID: "giuoco-piano"},
			wantID: open.ID,
		},
		{
			name:     "resolved mistake",
			req:      Request{UserID: freeUser, MistakeID: resolved.ID},
			wantKind: apperr.KindNotFound,
		},
		{
			name:     "mistake of another user",
			req:      Request{UserID: premiumUser, MistakeID: open.ID},
			wantKind: apperr.KindNotFound,
		},
		{
			name:     "guest",
			req:      Request{UserID: progress.GuestUserID, MistakeID: open.ID},
			wantKind: apperr.KindInvalidArgument,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.selector.Next(ctx, tt.req)
			if tt.wantKind != apperr.KindUnknown {
				assert.Equal(t, tt.wantKind, apperr.KindOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, TypeMistake, got.Type)
			assert.Equal(t, tt.wantID, got.Mistake.ID)
			require.NotNil(t, got.Item)
			assert.Equal(t, "caro-advance", got.Item.ID)
			assert.Equal(t, "caro-kann", got.Group.ID)
		})
	}
}

func TestSelector_Next_RequestedItem(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.store.Repertoire().SetActive(ctx, progress.RepertoireEntry{
		UserID: freeUser, GroupID: "italian", Side: catalog.SideWhite, Active: true,
	}))

	tests := []struct {
		name     string
		req      Request
		wantKind apperr.Kind
	}{
		{
			name: "unlocked item",
			req:  Request{UserID: freeUser, ItemID: "two-knights"},
		},
		{
			name: "item in requested group",
			req:  Request{UserID: freeUser, ItemID: "caro-advance", Criteria: filter.Criteria{GroupID: "caro-kann"}},
		},
		{
			name: "item in repertoire",
			req:  Request{UserID: freeUser, ItemID: "two-knights", Criteria: filter.Criteria{RepertoireOnly: true}},
		},
		{
			name: "premium user gets a locked item",
			req:  Request{UserID: premiumUser, ItemID: "qga-central"},
		},
		{
			name:     "unknown item",
			req:      Request{UserID: freeUser, ItemID: "unknown"},
			wantKind: apperr.KindNotFound,
		},
		{
			name:     "locked item",
			req:      Request{UserID: freeUser, ItemID: "qga-central"},
			wantKind: apperr.KindForbidden,
		},
		{
			name:     "locked item for guest",
			req:      Request{UserID: progress.GuestUserID, ItemID: "qgd-orthodox"},
			wantKind: apperr.KindForbidden,
		},
		{
			name:     "item outside requested group",
			req:      Request{UserID: freeUser, ItemID: "two-knights", Criteria: filter.Criteria{GroupID: "caro-kann"}},
			wantKind: apperr.KindNotFound,
		},
		{
			name:     "item outside repertoire",
			req:      Request{UserID: freeUser, ItemID: "caro-advance", Criteria: filter.Criteria{RepertoireOnly: true, Side: sidePtr(catalog.SideWhite)}},
			wantKind: apperr.KindNotFound,
		},
		{
			name:     "unknown group",
			req:      Request{UserID: freeUser, ItemID: "two-knights", Criteria: filter.Criteria{GroupID: "unknown"}},
			wantKind: apperr.KindNotFound,
		},
		{
			name:     "empty repertoire for the side",
			req:      Request{UserID: freeUser, ItemID: "caro-advance", Criteria: filter.Criteria{RepertoireOnly: true, Side: sidePtr(catalog.SideBlack)}},
			wantKind: apperr.KindNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.selector.Next(ctx, tt.req)
			if tt.wantKind != apperr.KindUnknown {
				assert.Equal(t, tt.wantKind, apperr.KindOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, TypeNewLearn, got.Type)
			assert.Equal(t, tt.req.ItemID, got.Item.ID)
			assert.Equal(t, got.Item.GroupID, got.Group.ID)
		})
	}
}

func TestSelector_Next_TierOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := Request{UserID: freeUser}

	f.review(t, freeUser, "evans-gambit", now.Add(-time.Hour))
	f.review(t, freeUser, "giuoco-piano", now.Add(-2*time.Hour))
	m := f.mistake(t, freeUser, "caro-advance")

	got, err := f.selector.Next(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, TypeMistake, got.Type)
	assert.Equal(t, m.ID, got.Mistake.ID)

	require.NoError(t, f.queue.Resolve(ctx, freeUser, m.ID))
	got, err = f.selector.Next(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, TypeSRSReview, got.Type)
	assert.Equal(t, "giuoco-piano", got.Item.ID)

	f.review(t, freeUser, "giuoco-piano", now.Add(24*time.Hour))
	got, err = f.selector.Next(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, TypeSRSReview, got.Type)
	assert.Equal(t, "evans-gambit", got.Item.ID)

	f.review(t, freeUser, "evans-gambit", now.Add(24*time.Hour))
	got, err = f.selector.Next(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, TypeNewLearn, got.Type)
	assert.Contains(t, []string{"two-knights", "caro-advance", "caro-classical"}, got.Item.ID)
}

func TestSelector_Next_MistakeFilteredByCriteria(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.mistake(t, freeUser, "caro-advance")
	unknown, err := f.queue.RecordFailure(ctx, mistake.Failure{UserID: freeUser, PositionKey: startFEN})
	require.NoError(t, err)

	got, err := f.selector.Next(ctx, Request{UserID: freeUser, Criteria: filter.Criteria{
		Difficulties: []catalog.Difficulty{catalog.DifficultyBeginner},
	}})
	require.NoError(t, err)
	assert.Equal(t, TypeNewLearn, got.Type)
	assert.Equal(t, "giuoco-piano", got.Item.ID)

	got, err = f.selector.Next(ctx, Request{UserID: freeUser, Criteria: filter.Criteria{
		Difficulties: []catalog.Difficulty{catalog.DifficultyAdvanced},
	}})
	require.NoError(t, err)
	assert.Equal(t, TypeMistake, got.Type)
	assert.Equal(t, "caro-advance", got.Mistake.ItemID)

	// Without filters the oldest mistake wins.
	got, err = f.selector.Next(ctx, Request{UserID: freeUser})
	require.NoError(t, err)
	assert.Equal(t, TypeMistake, got.Type)
	assert.Equal(t, "caro-advance", got.Mistake.ItemID)
	assert.NotEqual(t, unknown.ID, got.Mistake.ID)
}

func TestSelector_Next_DueRefinedByTheme(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.review(t, freeUser, "giuoco-piano", now.Add(-3*time.Hour))
	f.review(t, freeUser, "caro-classical", now.Add(-2*time.Hour))
	f.review(t, freeUser, "caro-advance", now.Add(-time.Hour))

	got, err := f.selector.Next(ctx, Request{UserID: freeUser, Criteria: filter.Criteria{Themes: []string{"IQP"}}})
	require.NoError(t, err)
	assert.Equal(t, TypeSRSReview, got.Type)
	assert.Equal(t, "caro-classical", got.Item.ID)
}

func TestSelector_Next_DueLockedItemSkipped(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.review(t, freeUser, "qga-central", now.Add(-2*time.Hour))
	f.review(t, freeUser, "two-knights", now.Add(-time.Hour))

	got, err := f.selector.Next(ctx, Request{UserID: freeUser})
	require.NoError(t, err)
	assert.Equal(t, TypeSRSReview, got.Type)
	assert.Equal(t, "two-knights", got.Item.ID)
}

func TestSelector_Next_Unseen(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for _, id := range []string{"giuoco-piano", "evans-gambit", "caro-advance", "caro-classical"} {
		f.review(t, freeUser, id, now.Add(24*time.Hour))
	}

	got, err := f.selector.Next(ctx, Request{UserID: freeUser})
	require.NoError(t, err)
	assert.Equal(t, TypeNewLearn, got.Type)
	assert.Equal(t, "two-knights", got.Item.ID)
	assert.Equal(t, "italian", got.Group.ID)

	for range 20 {
		got, err := f.selector.Next(ctx, Request{UserID: progress.GuestUserID})
		require.NoError(t, err)
		assert.Contains(t, unlockedForFree, got.Item.ID)
	}

	got, err = f.selector.Next(ctx, Request{UserID: freeUser, Criteria: filter.Criteria{Themes: []string{"gambit"}}})
	require.NoError(t, err)
	assert.Equal(t, "two-knights", got.Item.ID)
}

func TestSelector_Next_Fallback(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for _, id := range unlockedForFree {
		f.review(t, freeUser, id, now.Add(24*time.Hour))
	}

	tests := []struct {
		name     string
		criteria filter.Criteria
		want     []string
		wantType Type
		wantKind apperr.Kind
	}{
		{
			name:     "no filter has no content",
			wantKind: apperr.KindNoContent,
		},
		{
			name:     "side alone is not a filter",
			criteria: filter.Criteria{Side: sidePtr(catalog.SideBlack)},
			wantKind: apperr.KindNoContent,
		},
		{
			name:     "filtered request falls back to known items",
			criteria: filter.Criteria{Difficulties: []catalog.Difficulty{catalog.DifficultyAdvanced}},
			want:     []string{"evans-gambit", "caro-advance"},
			wantType: TypeSRSReview,
		},
		{
			name:     "theme filter applies to fallback",
			criteria: filter.Criteria{Themes: []string{"center"}, GroupID: "italian"},
			want:     []string{"giuoco-piano", "two-knights"},
			wantType: TypeSRSReview,
		},
		{
			name:     "locked items are not served",
			criteria: filter.Criteria{GroupID: "queens-gambit"},
			wantKind: apperr.KindNoContent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.selector.Next(ctx, Request{UserID: freeUser, Criteria: tt.criteria})
			if tt.wantKind != apperr.KindUnknown {
				assert.Equal(t, tt.wantKind, apperr.KindOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantType, got.Type)
			assert.Contains(t, tt.want, got.Item.ID)
		})
	}
}

func TestSelector_Next_PremiumUnlocksEverything(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	got, err := f.selector.Next(ctx, Request{UserID: premiumUser, Criteria: filter.Criteria{GroupID: "queens-gambit"}})
	require.NoError(t, err)
	assert.Equal(t, TypeNewLearn, got.Type)
	assert.Equal(t, "queens-gambit", got.Item.GroupID)
}

func TestSelector_Next_InvalidCriteria(t *testing.T) {
	f := newFixture(t)
	_, err := f.selector.Next(context.Background(), Request{UserID: freeUser, Criteria: filter.Criteria{
		Difficulties: []catalog.Difficulty{"grandmaster"},
	}})
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)
}

func TestSelector_Next_RepertoireOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.store.Repertoire().SetActive(ctx, progress.RepertoireEntry{
		UserID: freeUser, GroupID: "caro-kann", Side: catalog.SideBlack, Active: true,
	}))

	_, err := f.selector.Next(ctx, Request{UserID: freeUser, Criteria: filter.Criteria{RepertoireOnly: true}})
	assert.ErrorIs(t, err, apperr.ErrNotFound, "the default side is white")

	got, err := f.selector.Next(ctx, Request{UserID: freeUser, Criteria: filter.Criteria{
		RepertoireOnly: true, Side: sidePtr(catalog.SideBlack),
	}})
	require.NoError(t, err)
	assert.Equal(t, "caro-kann", got.Item.GroupID)

	got, err = f.selector.Next(ctx, Request{UserID: progress.GuestUserID, Criteria: filter.Criteria{RepertoireOnly: true}})
	require.NoError(t, err, "guests ignore the repertoire flag")
	assert.Contains(t, unlockedForFree, got.Item.ID)
}

func TestSelector_Next_OneMove(t *testing.T) {
	t.Run("pinned group", func(t *testing.T) {
		f := newFixture(t)
		got, err := f.selector.Next(context.Background(), Request{
			UserID: freeUser, Mode: srs.ModeOneMove, Criteria: filter.Criteria{GroupID: "caro-kann"},
		})
		require.NoError(t, err)
		assert.Equal(t, TypeNewLearn, got.Type)
		assert.Equal(t, "caro-kann", got.Item.GroupID)
		assert.Equal(t, 1, got.PoolSize)
	})

	t.Run("pinned group without unlocked items", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.selector.Next(context.Background(), Request{
			UserID: freeUser, Mode: srs.ModeOneMove, Criteria: filter.Criteria{GroupID: "queens-gambit"},
		})
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})

	t.Run("pinned group outside repertoire", func(t *testing.T) {
		f := newFixture(t)
		ctx := context.Background()
		require.NoError(t, f.store.Repertoire().SetActive(ctx, progress.RepertoireEntry{
			UserID: freeUser, GroupID: "italian", Side: catalog.SideWhite, Active: true,
		}))
		_, err := f.selector.Next(ctx, Request{
			UserID: freeUser, Mode: srs.ModeOneMove,
			Criteria: filter.Criteria{GroupID: "queens-gambit", RepertoireOnly: true},
		})
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})

	t.Run("mistakes and due records are ignored", func(t *testing.T) {
		f := newFixture(t)
		f.mistake(t, freeUser, "caro-advance")
		f.review(t, freeUser, "giuoco-piano", now.Add(-time.Hour))
		got, err := f.selector.Next(context.Background(), Request{UserID: freeUser, Mode: srs.ModeOneMove})
		require.NoError(t, err)
		assert.Equal(t, TypeNewLearn, got.Type)
	})

	t.Run("both sides without explicit side and no immediate repeat", func(t *testing.T) {
		f := newFixture(t)
		ctx := context.Background()
		req := Request{UserID: freeUser, SessionID: "s1", Mode: srs.ModeOneMove}

		var previous string
		seen := map[string]bool{}
		for i := range 10 {
			got, err := f.selector.Next(ctx, req)
			require.NoError(t, err)
			assert.Equal(t, 2, got.PoolSize)
			assert.Contains(t, unlockedForFree, got.Item.ID)
			if i > 0 {
				assert.NotEqual(t, previous, got.Group.ID)
			}
			previous = got.Group.ID
			seen[got.Group.ID] = true

			last, ok, err := f.sessions.LastGroup(ctx, "s1")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, got.Group.ID, last)
		}
		assert.Equal(t, map[string]bool{"italian": true, "caro-kann": true}, seen)
	})

	t.Run("explicit side restricts groups", func(t *testing.T) {
		f := newFixture(t)
		for range 5 {
			got, err := f.selector.Next(context.Background(), Request{
				UserID: premiumUser, SessionID: "s1", Mode: srs.ModeOneMove,
				Criteria: filter.Criteria{Side: sidePtr(catalog.SideWhite)},
			})
			require.NoError(t, err)
			assert.Equal(t, 2, got.PoolSize)
			assert.Contains(t, []string{"italian", "queens-gambit"}, got.Group.ID)
		}
	})

	t.Run("single eligible group repeats", func(t *testing.T) {
		f := newFixture(t)
		for range 3 {
			got, err := f.selector.Next(context.Background(), Request{
				UserID: freeUser, SessionID: "s1", Mode: srs.ModeOneMove,
				Criteria: filter.Criteria{Side: sidePtr(catalog.SideBlack)},
			})
			require.NoError(t, err)
			assert.Equal(t, 1, got.PoolSize)
			assert.Equal(t, "caro-kann", got.Group.ID)
		}
	})

	t.Run("no eligible group", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.selector.Next(context.Background(), Request{
			UserID: freeUser, Mode: srs.ModeOneMove,
			Criteria: filter.Criteria{Themes: []string{"minority_attack"}},
		})
		assert.ErrorIs(t, err, apperr.ErrNoContent)
	})
}

func TestSelector_Next_OracleFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	oracle := mock_entitlement.NewMockOracle(ctrl)
	oracle.EXPECT().UnlockedItemIDs(gomock.Any(), freeUser).Return(entitlement.Unlocked{}, apperr.Storage(errors.New("connection lost"), "find profile"))

	cat := testutil.NewCatalog(t)
	store := memstore.New(cat)
	c := clock.NewFixed(now)
	sel := New(Deps{
		Catalog:    cat,
		Recall:     store.Recall(),
		Drill:      store.Drill(),
		Repertoire: store.Repertoire(),
		Mistakes:   mistake.NewQueue(store.Mistakes(), c),
		Oracle:     oracle,
		Sessions:   session.NewMemoryStore(),
		Clock:      c,
	})

	_, err := sel.Next(context.Background(), Request{UserID: freeUser})
	assert.ErrorIs(t, err, apperr.ErrStorage)
}
