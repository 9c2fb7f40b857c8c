package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tasklist/internal/config"
	"tasklist/internal/repo"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// storage bundles the repos of one backend with its lifecycle hooks.
type storage struct {
	users repo.UserRepo
	tasks repo.TaskRepo
	close func()
}

// ping checks every repo that can report readiness.
func (s *storage) ping(ctx context.Context) error {
	var errs []error
	for _, r := range []any{s.users, s.tasks} {
		if p, ok := r.(repo.Pinger); ok {
			if err := p.Ping(ctx); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

func openStorage(cfg config.StorageConfig) (*storage, error) {
	switch cfg.Driver {
	case config.DriverCSV:
		if err := repo.EnsureCSVTables(cfg.UsersFile, cfg.TasksFile); err != nil {
			return nil, fmt.Errorf("csv tables: %w", err)
		}
		return &storage{
			users: repo.NewCSVUserRepo(cfg.UsersFile),
			tasks: repo.NewCSVTaskRepo(cfg.TasksFile),
			close: func() {},
		}, nil

	case config.DriverPostgres:
		db, err := newPostgres(cfg.PGDSN)
		if err != nil {
			return nil, err
		}
		if err := runMigrations(cfg.PGDSN, cfg.MigrationsDir); err != nil {
			db.Close()
			return nil, err
		}
		return &storage{
			users: repo.NewPGUserRepo(db),
			tasks: repo.NewPGTaskRepo(db),
			close: db.Close,
		}, nil

	case config.DriverSQLite:
		db, err := repo.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return &storage{
			users: repo.NewGormUserRepo(db),
			tasks: repo.NewGormTaskRepo(db),
			close: func() {
				if sqlDB, err := db.DB(); err == nil {
					_ = sqlDB.Close()
				}
			},
		}, nil

	case config.DriverMemory:
		return &storage{
			users: repo.NewMemoryUserRepo(),
			tasks: repo.NewMemoryTaskRepo(),
			close: func() {},
		}, nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
}

func newPostgres(dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("pg parse config: %w", err)
	}
	cfg.MaxConns = 10
	cfg.MinConns = 2
	cfg.MaxConnIdleTime = 5 * time.Minute
	cfg.MaxConnLifetime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(context.Background(), cfg)
	if err != nil {
		return nil, fmt.Errorf("pg connect: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pg ping: %w", err)
	}

	return pool, nil
}

func runMigrations(dsn string, migrationsDir string) error {
	db, err := goose.OpenDBWithDriver("pgx", dsn)
	if err != nil {
		return fmt.Errorf("goose open db: %w", err)
	}
	defer db.Close()

	if err := goose.Up(db, migrationsDir); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}
