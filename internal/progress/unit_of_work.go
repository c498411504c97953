package progress

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/at-ishikawa/openings/internal/database"
)

// Repositories are the repositories a unit of work writes through.
type Repositories struct {
	Recall      RecallRepository
	Drill       DrillRepository
	Mistakes    MistakeRepository
	Completions CompletionRepository
	Attempts    AttemptRepository
	Profiles    ProfileRepository
}

// UnitOfWork runs a group of writes that are stored together or not at all.
type UnitOfWork interface {
	// Do calls fn with repositories bound to one unit of work. When fn returns an error nothing fn wrote is kept.
	Do(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
}

// queryer is satisfied by both *sqlx.DB and *sqlx.Tx.
type queryer interface {
	sqlx.ExtContext
	GetContext(ctx context.Context, dest any, query string, args ...any) error
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
}

// conn is the handle of a DB repository: the pool, or the transaction of a unit of work when tx is set.
type conn struct {
	db *sqlx.DB
	tx *sqlx.Tx
}

func (c conn) ext() queryer {
	if c.tx != nil {
		return c.tx
	}
	return c.db
}

// runInTx runs fn in a transaction of its own, or in the enclosing one.
func (c conn) runInTx(ctx context.Context, fn func(ctx context.Context, tx *sqlx.Tx) error) error {
	if c.tx != nil {
		return fn(ctx, c.tx)
	}
	return database.RunInTx(ctx, c.db, fn)
}

// DBUnitOfWork implements UnitOfWork with one MySQL transaction.
type DBUnitOfWork struct {
	db *sqlx.DB
}

func NewDBUnitOfWork(db *sqlx.DB) *DBUnitOfWork {
	return &DBUnitOfWork{db: db}
}

func (u *DBUnitOfWork) Do(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error {
	return database.RunInTx(ctx, u.db, func(ctx context.Context, tx *sqlx.Tx) error {
		c := conn{db: u.db, tx: tx}
		return fn(ctx, Repositories{
			Recall:      &DBRecallRepository{conn: c},
			Drill:       &DBDrillRepository{conn: c},
			Mistakes:    &DBMistakeRepository{conn: c},
			Completions: &DBCompletionRepository{conn: c},
			Attempts:    &DBAttemptRepository{conn: c},
			Profiles:    &DBProfileRepository{conn: c},
		})
	})
}

var _ UnitOfWork = (*DBUnitOfWork)(nil)
