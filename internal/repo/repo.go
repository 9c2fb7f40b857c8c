package repo

import (
	"context"
	"errors"

	dom "tasklist/internal/domain"
)

var (
	// ErrNotFound is returned when no user matches the username.
	ErrNotFound = errors.New("user not found")
	// ErrDuplicate is returned by Create when the username is taken.
	ErrDuplicate = errors.New("user already exists")
	// ErrTableMissing marks a backing table (file) that cannot be opened.
	ErrTableMissing = errors.New("table missing")
)

// UserRepo provides user persistence.
type UserRepo interface {
	GetByUsername(ctx context.Context, username string) (dom.User, error)
	Create(ctx context.Context, u dom.User) error
	// AppendTask adds entry to the end of the user's task list.
	AppendTask(ctx context.Context, username, entry string) error
}

// TaskRepo is the append-only task log.
type TaskRepo interface {
	Append(ctx context.Context, t dom.Task) error
}

// Pinger is implemented by repos that can report backend readiness.
type Pinger interface {
	Ping(ctx context.Context) error
}
