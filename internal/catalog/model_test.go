package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGroup_Side(t *testing.T) {
	tests := []struct {
		name string
		tags []string
		want Side
	}{
		{name: "black tag", tags: []string{"Black", "Semi-Open Game"}, want: SideBlack},
		{name: "white tag", tags: []string{"White", "Open Game"}, want: SideWhite},
		{name: "no tags defaults to white", tags: nil, want: SideWhite},
		{name: "tag match is exact", tags: []string{"Blackmar"}, want: SideWhite},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Group{Tags: tt.tags}.Side())
		})
	}
}

func TestParseTags(t *testing.T) {
	assert.Equal(t, []string{"Black", "Open Game"}, ParseTags("Black, Open Game"))
	assert.Nil(t, ParseTags("  "))
}

func TestParseSide(t *testing.T) {
	got, err := ParseSide("black")
	assert.NoError(t, err)
	assert.Equal(t, SideBlack, got)

	_, err = ParseSide("red")
	assert.Error(t, err)
}

func TestItem_HasAnyTheme(t *testing.T) {
	item := Item{Themes: []string{"IQP", "pawn_storm"}}
	assert.True(t, item.HasAnyTheme([]string{"minority_attack", "IQP"}))
	assert.False(t, item.HasAnyTheme([]string{"minority_attack"}))
	assert.False(t, item.HasAnyTheme(nil))
}
