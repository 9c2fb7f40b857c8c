package repo

import (
	"context"
	"sync"

	dom "tasklist/internal/domain"
)

// MemoryUserRepo keeps users in a map. Safe for concurrent use.
type MemoryUserRepo struct {
	mu    sync.RWMutex
	users map[string]dom.User
}

func NewMemoryUserRepo() *MemoryUserRepo {
	return &MemoryUserRepo{users: make(map[string]dom.User)}
}

func (r *MemoryUserRepo) GetByUsername(ctx context.Context, username string) (dom.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[username]
	if !ok {
		return dom.User{}, ErrNotFound
	}
	u.Tasks = dom.NormalizeEntries(u.Tasks)
	return u, nil
}

func (r *MemoryUserRepo) Create(ctx context.Context, u dom.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.Username]; ok {
		return ErrDuplicate
	}
	u.Tasks = append([]string{}, u.Tasks...)
	r.users[u.Username] = u
	return nil
}

func (r *MemoryUserRepo) AppendTask(ctx context.Context, username, entry string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[username]
	if !ok {
		return ErrNotFound
	}
	u.Tasks = append(u.Tasks, entry)
	r.users[username] = u
	return nil
}

// MemoryTaskRepo is an in-memory task log.
type MemoryTaskRepo struct {
	mu    sync.RWMutex
	tasks []dom.Task
}

func NewMemoryTaskRepo() *MemoryTaskRepo {
	return &MemoryTaskRepo{}
}

func (r *MemoryTaskRepo) Append(ctx context.Context, t dom.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tasks = append(r.tasks, t)
	return nil
}

// All returns a copy of the log in insertion order.
func (r *MemoryTaskRepo) All() []dom.Task {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]dom.Task(nil), r.tasks...)
}
