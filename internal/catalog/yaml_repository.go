package catalog

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// File is the YAML layout of a catalog file.
type File struct {
	Categories []CategoryFile `yaml:"categories"`
}

// CategoryFile groups openings under a heading such as "1.e4 Openings".
type CategoryFile struct {
	Name     string        `yaml:"name"`
	Openings []OpeningFile `yaml:"openings"`
}

// OpeningFile is a group with its variations.
type OpeningFile struct {
	ID         string          `yaml:"id"`
	Name       string          `yaml:"name"`
	Tags       []string        `yaml:"tags"`
	Variations []VariationFile `yaml:"variations"`
}

// VariationFile is an item.
type VariationFile struct {
	ID           string   `yaml:"id"`
	Name         string   `yaml:"name"`
	Difficulty   string   `yaml:"difficulty,omitempty"`
	TrainingGoal string   `yaml:"training_goal,omitempty"`
	Themes       []string `yaml:"themes,omitempty"`
	Moves        []Move   `yaml:"moves"`
}

// YAMLRepository loads the catalog from a YAML file.
type YAMLRepository struct {
	path string
}

// NewYAMLRepository creates a new YAMLRepository.
func NewYAMLRepository(path string) *YAMLRepository {
	return &YAMLRepository{path: path}
}

// Load reads the file and returns its groups and items.
func (r *YAMLRepository) Load() ([]Group, []Item, error) {
	f, err := os.Open(r.path)
	if err != nil {
		return nil, nil, fmt.Errorf("os.Open(%s) > %w", r.path, err)
	}
	defer func() {
		_ = f.Close()
	}()

	groups, items, err := Decode(f)
	if err != nil {
		return nil, nil, fmt.Errorf("Decode(%s) > %w", r.path, err)
	}
	return groups, items, nil
}

// Decode parses a catalog document. Positions follow document order; missing difficulty and goal
// default to intermediate and strategy.
func Decode(reader io.Reader) ([]Group, []Item, error) {
	var file File
	if err := yaml.NewDecoder(reader).Decode(&file); err != nil {
		if err == io.EOF {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("yaml.Decode() > %w", err)
	}

	var groups []Group
	var items []Item
	seenGroups := make(map[string]struct{})
	seenItems := make(map[string]struct{})
	for _, category := range file.Categories {
		for _, opening := range category.Openings {
			if opening.ID == "" {
				return nil, nil, fmt.Errorf("opening %q in category %q has no id", opening.Name, category.Name)
			}
			if _, ok := seenGroups[opening.ID]; ok {
				return nil, nil, fmt.Errorf("duplicate opening id %q", opening.ID)
			}
			seenGroups[opening.ID] = struct{}{}

			group := Group{
				ID:       opening.ID,
				Name:     opening.Name,
				Category: category.Name,
				Tags:     opening.Tags,
				Position: len(groups),
			}
			groups = append(groups, group)

			for _, v := range opening.Variations {
				if v.ID == "" {
					return nil, nil, fmt.Errorf("variation %q in opening %q has no id", v.Name, opening.ID)
				}
				if _, ok := seenItems[v.ID]; ok {
					return nil, nil, fmt.Errorf("duplicate variation id %q", v.ID)
				}
				seenItems[v.ID] = struct{}{}

				item, err := v.toItem(group, len(items))
				if err != nil {
					return nil, nil, err
				}
				items = append(items, item)
			}
		}
	}
	return groups, items, nil
}

func (v VariationFile) toItem(group Group, position int) (Item, error) {
	difficulty := DifficultyIntermediate
	if v.Difficulty != "" {
		difficulty = Difficulty(v.Difficulty)
	}
	switch difficulty {
	case DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced, DifficultyElite:
	default:
		return Item{}, fmt.Errorf("variation %q has unknown difficulty %q", v.ID, v.Difficulty)
	}

	goal := GoalStrategy
	if v.TrainingGoal != "" {
		goal = Goal(v.TrainingGoal)
	}
	switch goal {
	case GoalTactics, GoalStrategy, GoalAttack, GoalDefense, GoalEndgame:
	default:
		return Item{}, fmt.Errorf("variation %q has unknown training goal %q", v.ID, v.TrainingGoal)
	}

	return Item{
		ID:         v.ID,
		GroupID:    group.ID,
		Name:       v.Name,
		Moves:      v.Moves,
		Difficulty: difficulty,
		Goal:       goal,
		Themes:     v.Themes,
		Side:       group.Side(),
		Position:   position,
	}, nil
}
