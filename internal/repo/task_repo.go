package repo

import (
	"context"

	dom "tasklist/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PGTaskRepo implements TaskRepo with Postgres.
type PGTaskRepo struct {
	db *pgxpool.Pool
}

func NewPGTaskRepo(db *pgxpool.Pool) *PGTaskRepo {
	return &PGTaskRepo{db: db}
}

func (r *PGTaskRepo) Append(ctx context.Context, t dom.Task) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO tasks (task, deadline, username) VALUES ($1, $2, $3)`,
		t.Description, t.Deadline, t.Owner,
	)
	return err
}
