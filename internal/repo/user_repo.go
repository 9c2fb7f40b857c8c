package repo

import (
	"context"
	"errors"

	dom "tasklist/internal/domain"
	"tasklist/internal/utils"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGUserRepo implements UserRepo with Postgres. Tasks live in a TEXT[] column
// and read back split on the cell separator like the file-backed stores.
type PGUserRepo struct {
	db *pgxpool.Pool
}

// NewPGUserRepo returns a new PGUserRepo.
func NewPGUserRepo(db *pgxpool.Pool) *PGUserRepo {
	return &PGUserRepo{db: db}
}

// GetByUsername returns the user by username.
func (r *PGUserRepo) GetByUsername(ctx context.Context, username string) (dom.User, error) {
	var u dom.User
	err := r.db.QueryRow(ctx,
		`SELECT username, password_hash, tasks FROM users WHERE username = $1`,
		username,
	).Scan(&u.Username, &u.PasswordHash, &u.Tasks)
	if errors.Is(err, pgx.ErrNoRows) {
		return dom.User{}, ErrNotFound
	}
	if err != nil {
		return dom.User{}, err
	}
	u.Tasks = dom.NormalizeEntries(u.Tasks)
	return u, nil
}

// Create inserts a new user.
func (r *PGUserRepo) Create(ctx context.Context, u dom.User) error {
	tasks := u.Tasks
	if tasks == nil {
		tasks = []string{}
	}
	_, err := r.db.Exec(ctx,
		`INSERT INTO users (username, password_hash, tasks) VALUES ($1, $2, $3)`,
		u.Username, u.PasswordHash, tasks,
	)
	if utils.IsPGUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

// AppendTask appends entry to the user's tasks array in place.
func (r *PGUserRepo) AppendTask(ctx context.Context, username, entry string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE users SET tasks = array_append(tasks, $2), updated_at = NOW() WHERE username = $1`,
		username, entry,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Ping checks the pool.
func (r *PGUserRepo) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}
