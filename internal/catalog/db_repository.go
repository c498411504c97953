package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

//go:generate mockgen -source=db_repository.go -destination=../mocks/catalog/mock_db_repository.go -package=mock_catalog

// Writer persists catalog content. It is used by the catalog import.
type Writer interface {
	UpsertGroup(ctx context.Context, group Group) error
	UpsertItem(ctx context.Context, item Item) error
}

// Store is a persisted catalog that can be read back and written.
type Store interface {
	Load(ctx context.Context) ([]Group, []Item, error)
	Writer
}

type groupRow struct {
	ID       string `db:"id"`
	Name     string `db:"name"`
	Category string `db:"category"`
	Tags     string `db:"tags"`
	Side     string `db:"side"`
	Position int    `db:"position"`
}

type itemRow struct {
	ID           string `db:"id"`
	GroupID      string `db:"group_id"`
	Name         string `db:"name"`
	Moves        string `db:"moves"`
	Difficulty   string `db:"difficulty"`
	TrainingGoal string `db:"training_goal"`
	Themes       string `db:"themes"`
	Position     int    `db:"position"`
}

// DBRepository reads and writes the catalog tables in MySQL.
type DBRepository struct {
	db *sqlx.DB
}

// NewDBRepository creates a new DBRepository.
func NewDBRepository(db *sqlx.DB) *DBRepository {
	return &DBRepository{db: db}
}

// Load returns every group and item in catalog order.
func (r *DBRepository) Load(ctx context.Context) ([]Group, []Item, error) {
	var groupRows []groupRow
	if err := r.db.SelectContext(ctx, &groupRows,
		"SELECT id, name, category, tags, side, position FROM opening_groups ORDER BY position"); err != nil {
		return nil, nil, fmt.Errorf("db.SelectContext(opening_groups) > %w", err)
	}
	var itemRows []itemRow
	if err := r.db.SelectContext(ctx, &itemRows,
		"SELECT id, group_id, name, moves, difficulty, training_goal, themes, position FROM variations ORDER BY position"); err != nil {
		return nil, nil, fmt.Errorf("db.SelectContext(variations) > %w", err)
	}

	groups := make([]Group, 0, len(groupRows))
	sides := make(map[string]Side, len(groupRows))
	for _, row := range groupRows {
		groups = append(groups, Group{
			ID:       row.ID,
			Name:     row.Name,
			Category: row.Category,
			Tags:     ParseTags(row.Tags),
			Position: row.Position,
		})
		sides[row.ID] = Side(row.Side)
	}

	items := make([]Item, 0, len(itemRows))
	for _, row := range itemRows {
		item := Item{
			ID:         row.ID,
			GroupID:    row.GroupID,
			Name:       row.Name,
			Difficulty: Difficulty(row.Difficulty),
			Goal:       Goal(row.TrainingGoal),
			Side:       sides[row.GroupID],
			Position:   row.Position,
		}
		if row.Moves != "" {
			if err := json.Unmarshal([]byte(row.Moves), &item.Moves); err != nil {
				return nil, nil, fmt.Errorf("json.Unmarshal(moves of %s) > %w", row.ID, err)
			}
		}
		if row.Themes != "" {
			if err := json.Unmarshal([]byte(row.Themes), &item.Themes); err != nil {
				return nil, nil, fmt.Errorf("json.Unmarshal(themes of %s) > %w", row.ID, err)
			}
		}
		items = append(items, item)
	}
	return groups, items, nil
}

// UpsertGroup inserts or updates a group.
func (r *DBRepository) UpsertGroup(ctx context.Context, group Group) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO opening_groups (id, name, category, tags, side, position) VALUES (?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE name = VALUES(name), category = VALUES(category), tags = VALUES(tags),
		side = VALUES(side), position = VALUES(position)`,
		group.ID, group.Name, group.Category, strings.Join(group.Tags, ", "), string(group.Side()), group.Position)
	if err != nil {
		return fmt.Errorf("db.ExecContext(upsert opening_group %s) > %w", group.ID, err)
	}
	return nil
}

// UpsertItem inserts or updates an item.
func (r *DBRepository) UpsertItem(ctx context.Context, item Item) error {
	moves, err := json.Marshal(item.Moves)
	if err != nil {
		return fmt.Errorf("json.Marshal(moves) > %w", err)
	}
	themes := item.Themes
	if themes == nil {
		themes = []string{}
	}
	themesJSON, err := json.Marshal(themes)
	if err != nil {
		return fmt.Errorf("json.Marshal(themes) > %w", err)
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO variations (id, group_id, name, moves, difficulty, training_goal, themes, position)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE group_id = VALUES(group_id), name = VALUES(name), moves = VALUES(moves),
		difficulty = VALUES(difficulty), training_goal = VALUES(training_goal), themes = VALUES(themes),
		position = VALUES(position)`,
		item.ID, item.GroupID, item.Name, string(moves), string(item.Difficulty), string(item.Goal),
		string(themesJSON), item.Position)
	if err != nil {
		return fmt.Errorf("db.ExecContext(upsert variation %s) > %w", item.ID, err)
	}
	return nil
}

var _ Store = (*DBRepository)(nil)
