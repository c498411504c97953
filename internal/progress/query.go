package progress

import (
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/at-ishikawa/openings/internal/catalog"
)

// catalogJoin joins a progress table aliased p with the catalog tables.
const catalogJoin = " JOIN variations v ON v.id = p.item_id JOIN opening_groups g ON g.id = v.group_id"

// catalogConditions translates the indexable part of a filter into SQL conditions over v and g.
func catalogConditions(q catalog.Query) (string, []any) {
	var conds []string
	var args []any
	if len(q.Difficulties) > 0 {
		values := make([]string, len(q.Difficulties))
		for i, d := range q.Difficulties {
			values[i] = string(d)
		}
		conds = append(conds, "v.difficulty IN (?)")
		args = append(args, values)
	}
	if len(q.Goals) > 0 {
		values := make([]string, len(q.Goals))
		for i, g := range q.Goals {
			values[i] = string(g)
		}
		conds = append(conds, "v.training_goal IN (?)")
		args = append(args, values)
	}
	if q.GroupID != "" {
		conds = append(conds, "v.group_id = ?")
		args = append(args, q.GroupID)
	}
	if len(q.GroupIDs) > 0 {
		conds = append(conds, "v.group_id IN (?)")
		args = append(args, q.GroupIDs)
	}
	if q.Side != nil {
		conds = append(conds, "g.side = ?")
		args = append(args, string(*q.Side))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " AND " + strings.Join(conds, " AND "), args
}

// expandIn expands slice arguments and rebinds the query for the driver.
func expandIn(db sqlx.ExtContext, query string, args ...any) (string, []any, error) {
	query, args, err := sqlx.In(query, args...)
	if err != nil {
		return "", nil, fmt.Errorf("sqlx.In() > %w", err)
	}
	return db.Rebind(query), args, nil
}
