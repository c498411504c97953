// Package testutil provides shared test helpers for creating config files and catalog fixtures.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/openings/internal/catalog"
)

// CatalogYAML is a small catalog with two white groups and one black group.
// In catalog order the items are giuoco-piano, evans-gambit, two-knights, caro-advance,
// caro-classical, qgd-orthodox and qga-central; with a free limit of 5 the last two are locked.
const CatalogYAML = `categories:
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
              - san: e5
              - san: Nf3
              - san: Nc6
              - san: Bc4
              - san: Bc5
          - id: evans-gambit
            name: Evans Gambit
            difficulty: advanced
            training_goal: attack
            themes: [gambit]
            moves:
              - san: e4
              - san: e5
              - san: Nf3
              - san: Nc6
              - san: Bc4
              - san: Bc5
              - san: b4
          - id: two-knights
            name: Two Knights Defense
            difficulty: intermediate
            training_goal: tactics
            themes: [center, gambit]
            moves:
              - san: e4
              - san: e5
              - san: Nf3
              - san: Nc6
              - san: Bc4
              - san: Nf6
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
              - san: d4
              - san: d5
              - san: e5
          - id: caro-classical
            name: Classical Variation
            difficulty: intermediate
            training_goal: strategy
            themes: [IQP]
            moves:
              - san: e4
              - san: c6
              - san: d4
              - san: d5
              - san: Nc3
              - san: dxe4
  - name: 1.d4 Openings
    openings:
      - id: queens-gambit
        name: Queen's Gambit
        tags: [White, Closed Game]
        variations:
          - id: qgd-orthodox
            name: Orthodox Defense
            difficulty: intermediate
            training_goal: strategy
            themes: [minority_attack]
            moves:
              - san: d4
              - san: d5
              - san: c4
              - san: e6
          - id: qga-central
            name: Queen's Gambit Accepted
            difficulty: beginner
            training_goal: tactics
            themes: [IQP]
            moves:
              - san: d4
              - san: d5
              - san: c4
              - san: dxc4
`

// NewCatalog returns an index over CatalogYAML.
func NewCatalog(t *testing.T) *catalog.Index {
	t.Helper()
	groups, items, err := catalog.Decode(strings.NewReader(CatalogYAML))
	require.NoError(t, err)
	return catalog.NewIndex(groups, items)
}

// WriteCatalogFile writes CatalogYAML under dir and returns its path.
func WriteCatalogFile(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "openings.yml")
	require.NoError(t, os.WriteFile(path, []byte(CatalogYAML), 0644))
	return path
}

// SetupTestConfig creates a config file using the in-memory store and the fixture catalog.
// Returns the path to the generated config file.
func SetupTestConfig(t *testing.T, tmpDir string) string {
	t.Helper()

	configContent := fmt.Sprintf(`catalog:
  file: %s
storage:
  driver: memory
scheduler:
  random_seed: 1
`, WriteCatalogFile(t, tmpDir))

	cfgPath := filepath.Join(tmpDir, "config.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(configContent), 0644))
	return cfgPath
}
