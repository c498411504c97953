// Package app assembles the trainer and its storage from the configuration.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/jmoiron/sqlx"
	goredis "github.com/redis/go-redis/v9"

	"github.com/at-ishikawa/openings/internal/catalog"
	"github.com/at-ishikawa/openings/internal/clock"
	"github.com/at-ishikawa/openings/internal/config"
	"github.com/at-ishikawa/openings/internal/database"
	"github.com/at-ishikawa/openings/internal/datasync"
	"github.com/at-ishikawa/openings/internal/entitlement"
	"github.com/at-ishikawa/openings/internal/mistake"
	"github.com/at-ishikawa/openings/internal/progress"
	"github.com/at-ishikawa/openings/internal/progress/memstore"
	"github.com/at-ishikawa/openings/internal/selector"
	"github.com/at-ishikawa/openings/internal/session"
	"github.com/at-ishikawa/openings/internal/trainer"
)

// App owns the trainer service and the connections behind it.
type App struct {
	cfg     *config.Config
	catalog *catalog.Index
	// yaml is nil when no catalog file is configured.
	yaml *catalog.YAMLRepository
	// store is nil with the in-memory storage driver.
	store   catalog.Store
	trainer *trainer.Service

	db  *sqlx.DB
	rdb *goredis.Client
}

type repositories struct {
	recall      progress.RecallRepository
	drill       progress.DrillRepository
	mistakes    progress.MistakeRepository
	repertoire  progress.RepertoireRepository
	completions progress.CompletionRepository
	attempts    progress.AttemptRepository
	profiles    progress.ProfileRepository
	uow         progress.UnitOfWork
}

// New connects the configured storage, loads the catalog and builds the trainer.
func New(ctx context.Context, cfg *config.Config, clk clock.Clock) (*App, error) {
	a := &App{cfg: cfg, catalog: catalog.NewIndex(nil, nil)}
	if cfg.Catalog.File != "" {
		a.yaml = catalog.NewYAMLRepository(cfg.Catalog.File)
	}

	repos, err := a.openStorage(ctx)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	if err := a.ReloadCatalog(ctx); err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("ReloadCatalog() > %w", err)
	}
	sessions, err := a.openSessions(ctx)
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	policy := entitlement.NewPolicy(cfg.Monetization, a.catalog, repos.profiles, repos.completions, clk)
	queue := mistake.NewQueue(repos.mistakes, clk)
	sel := selector.New(selector.Deps{
		Catalog:    a.catalog,
		Recall:     repos.recall,
		Drill:      repos.drill,
		Repertoire: repos.repertoire,
		Mistakes:   queue,
		Oracle:     policy,
		Sessions:   sessions,
		Clock:      clk,
		Rand:       selector.NewRand(cfg.Scheduler.RandomSeed),
	})
	a.trainer = trainer.NewService(trainer.Deps{
		Catalog:     a.catalog,
		Recall:      repos.recall,
		Drill:       repos.drill,
		Mistakes:    repos.mistakes,
		Repertoire:  repos.repertoire,
		Completions: repos.completions,
		Attempts:    repos.attempts,
		Profiles:    repos.profiles,
		UnitOfWork:  repos.uow,
		Queue:       queue,
		Policy:      policy,
		Selector:    sel,
		Clock:       clk,
	})
	return a, nil
}

func (a *App) openStorage(ctx context.Context) (*repositories, error) {
	switch a.cfg.Storage.Driver {
	case config.StorageMemory:
		if a.yaml == nil {
			return nil, errors.New("catalog.file is required with the memory storage driver")
		}
		store := memstore.New(a.catalog)
		return &repositories{
			recall:      store.Recall(),
			drill:       store.Drill(),
			mistakes:    store.Mistakes(),
			repertoire:  store.Repertoire(),
			completions: store.Completions(),
			attempts:    store.Attempts(),
			profiles:    store.Profiles(),
			uow:         store,
		}, nil
	case config.StorageMySQL:
		db, err := database.Connect(ctx, a.cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("database.Connect() > %w", err)
		}
		a.db = db
		a.store = catalog.NewDBRepository(db)
		return &repositories{
			recall:      progress.NewDBRecallRepository(db),
			drill:       progress.NewDBDrillRepository(db),
			mistakes:    progress.NewDBMistakeRepository(db),
			repertoire:  progress.NewDBRepertoireRepository(db),
			completions: progress.NewDBCompletionRepository(db),
			attempts:    progress.NewDBAttemptRepository(db),
			profiles:    progress.NewDBProfileRepository(db),
			uow:         progress.NewDBUnitOfWork(db),
		}, nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", a.cfg.Storage.Driver)
}

func (a *App) openSessions(ctx context.Context) (session.Store, error) {
	if a.cfg.Redis.Addr == "" {
		return session.NewMemoryStore(), nil
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     a.cfg.Redis.Addr,
		Password: a.cfg.Redis.Password,
		DB:       a.cfg.Redis.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("rdb.Ping(%s) > %w", a.cfg.Redis.Addr, err)
	}
	a.rdb = rdb
	return session.NewRedisStore(rdb, a.cfg.Redis.SessionTTL), nil
}

// ReloadCatalog refreshes the in-memory catalog. With MySQL storage the catalog file, if any,
// is imported first and the index is rebuilt from the database.
func (a *App) ReloadCatalog(ctx context.Context) error {
	var groups []catalog.Group
	var items []catalog.Item
	var err error
	if a.store != nil {
		if a.yaml != nil {
			if _, err := a.ImportCatalog(ctx, io.Discard, datasync.ImportOptions{UpdateExisting: true}); err != nil {
				return err
			}
		}
		groups, items, err = a.store.Load(ctx)
		if err != nil {
			return fmt.Errorf("store.Load() > %w", err)
		}
	} else {
		groups, items, err = a.yaml.Load()
		if err != nil {
			return fmt.Errorf("yaml.Load() > %w", err)
		}
	}
	a.catalog.Replace(groups, items)
	slog.Info("catalog loaded", "groups", len(groups), "items", a.catalog.Len())
	return nil
}

// ImportCatalog imports the catalog file into the database.
func (a *App) ImportCatalog(ctx context.Context, out io.Writer, opts datasync.ImportOptions) (*datasync.ImportResult, error) {
	if a.store == nil {
		return nil, errors.New("catalog import requires the mysql storage driver")
	}
	if a.yaml == nil {
		return nil, errors.New("catalog.file is not configured")
	}
	groups, items, err := a.yaml.Load()
	if err != nil {
		return nil, fmt.Errorf("yaml.Load() > %w", err)
	}
	result, err := datasync.NewImporter(a.store, out).ImportCatalog(ctx, groups, items, opts)
	if err != nil {
		return nil, fmt.Errorf("ImportCatalog() > %w", err)
	}
	return result, nil
}

// Trainer returns the trainer service.
func (a *App) Trainer() *trainer.Service {
	return a.trainer
}

// Catalog returns the in-memory catalog.
func (a *App) Catalog() *catalog.Index {
	return a.catalog
}

// Close releases the database and Redis connections.
func (a *App) Close() error {
	var errs []error
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("db.Close() > %w", err))
		}
	}
	if a.rdb != nil {
		if err := a.rdb.Close(); err != nil {
			errs = append(errs, fmt.Errorf("rdb.Close() > %w", err))
		}
	}
	return errors.Join(errs...)
}
