package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestIndex() *Index {
	groups := []Group{
		{ID: "sicilian", Name: "Sicilian Defense", Tags: []string{"Black"}, Position: 1},
		{ID: "italian", Name: "Italian Game", Tags: []string{"White"}, Position: 0},
	}
	items := []Item{
		{ID: "najdorf", GroupID: "sicilian", Difficulty: DifficultyElite, Goal: GoalAttack, Position: 2},
		{ID: "giuoco-piano", GroupID: "italian", Difficulty: DifficultyBeginner, Goal: GoalStrategy, Position: 0},
		{ID: "evans-gambit", GroupID: "italian", Difficulty: DifficultyAdvanced, Goal: GoalAttack, Position: 1},
	}
	return NewIndex(groups, items)
}

func TestIndex_Order(t *testing.T) {
	idx := newTestIndex()
	groups, err := idx.Groups(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "italian", groups[0].ID)
	assert.Equal(t, "sicilian", groups[1].ID)

	items, err := idx.FindItems(context.Background(), Query{})
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, []string{"giuoco-piano", "evans-gambit", "najdorf"}, []string{items[0].ID, items[1].ID, items[2].ID})
	assert.Equal(t, SideBlack, items[2].Side)
	assert.Equal(t, SideWhite, items[0].Side)
}

func TestIndex_FindItems(t *testing.T) {
	black := SideBlack
	tests := []struct {
		name  string
		query Query
		want  []string
	}{
		{name: "difficulty any-of", query: Query{Difficulties: []Difficulty{DifficultyBeginner, DifficultyElite}}, want: []string{"giuoco-piano", "najdorf"}},
		{name: "goal and group", query: Query{Goals: []Goal{GoalAttack}, GroupID: "italian"}, want: []string{"evans-gambit"}},
		{name: "group set", query: Query{GroupIDs: []string{"sicilian"}}, want: []string{"najdorf"}},
		{name: "side", query: Query{Side: &black}, want: []string{"najdorf"}},
		{name: "no match", query: Query{GroupID: "italian", GroupIDs: []string{"sicilian"}}, want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := newTestIndex().FindItems(context.Background(), tt.query)
			require.NoError(t, err)
			var got []string
			for _, item := range items {
				got = append(got, item.ID)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIndex_Find(t *testing.T) {
	idx := newTestIndex()
	ctx := context.Background()

	item, err := idx.FindItem(ctx, "najdorf")
	require.NoError(t, err)
	require.NotNil(t, item)
	assert.Equal(t, "sicilian", item.GroupID)

	item, err = idx.FindItem(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, item)

	group, err := idx.FindGroup(ctx, "italian")
	require.NoError(t, err)
	require.NotNil(t, group)
	assert.Equal(t, "Italian Game", group.Name)

	group, err = idx.FindGroup(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, group)
}

func TestIndex_Replace(t *testing.T) {
	idx := newTestIndex()
	idx.Replace([]Group{{ID: "london"}}, []Item{{ID: "london-main", GroupID: "london"}})
	assert.Equal(t, 1, idx.Len())
	item, err := idx.FindItem(context.Background(), "najdorf")
	require.NoError(t, err)
	assert.Nil(t, item)
}
