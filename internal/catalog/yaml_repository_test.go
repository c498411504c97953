package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCatalogYAML = `categories:
  - name: 1.e4 Openings
    openings:
      - id: italian
        name: Italian Game
        tags: [White, Open Game]
        variations:
          - id: giuoco-piano
            name: Giuoco Piano
            difficulty: beginner
            training_goal: strategy
            themes: [center]
            moves:
              - san: e4
                desc: King's pawn
              - san: e5
          - id: evans-gambit
            name: Evans Gambit
  - name: Defenses
    openings:
      - id: caro-kann
        name: Caro-Kann Defense
        tags: [Black, Semi-Open Game]
        variations:
          - id: caro-advance
            name: Advance Variation
            difficulty: advanced
            training_goal: defense
            themes: [IQP, pawn_storm]
            moves:
              - san: e4
              - san: c6
`

func TestDecode(t *testing.T) {
	groups, items, err := Decode(strings.NewReader(testCatalogYAML))
	require.NoError(t, err)

	require.Len(t, groups, 2)
	assert.Equal(t, Group{ID: "italian", Name: "Italian Game", Category: "1.e4 Openings", Tags: []string{"White", "Open Game"}, Position: 0}, groups[0])
	assert.Equal(t, SideBlack, groups[1].Side())

	require.Len(t, items, 3)
	assert.Equal(t, Item{
		ID:         "giuoco-piano",
		GroupID:    "italian",
		Name:       "Giuoco Piano",
		Moves:      []Move{{SAN: "e4", Description: "King's pawn"}, {SAN: "e5"}},
		Difficulty: DifficultyBeginner,
		Goal:       GoalStrategy,
		Themes:     []string{"center"},
		Side:       SideWhite,
		Position:   0,
	}, items[0])

	// defaults
	assert.Equal(t, DifficultyIntermediate, items[1].Difficulty)
	assert.Equal(t, GoalStrategy, items[1].Goal)

	assert.Equal(t, SideBlack, items[2].Side)
	assert.Equal(t, 2, items[2].Position)
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name: "duplicate variation",
			content: `categories:
  - name: c
    openings:
      - id: a
        variations:
          - id: x
          - id: x
`,
			wantErr: "duplicate variation id",
		},
		{
			name: "unknown difficulty",
			content: `categories:
  - name: c
    openings:
      - id: a
        variations:
          - id: x
            difficulty: grandmaster
`,
			wantErr: "unknown difficulty",
		},
		{
			name: "missing opening id",
			content: `categories:
  - name: c
    openings:
      - name: nameless
`,
			wantErr: "has no id",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Decode(strings.NewReader(tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestYAMLRepository_Load(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yml")
	require.NoError(t, os.WriteFile(path, []byte(testCatalogYAML), 0644))

	groups, items, err := NewYAMLRepository(path).Load()
	require.NoError(t, err)
	assert.Len(t, groups, 2)
	assert.Len(t, items, 3)

	_, _, err = NewYAMLRepository(filepath.Join(dir, "missing.yml")).Load()
	assert.Error(t, err)
}
