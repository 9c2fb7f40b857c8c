package service

import (
	"context"
	"errors"
	"fmt"

	"tasklist/internal/cache"
	dom "tasklist/internal/domain"
	"tasklist/internal/metrics"
	"tasklist/internal/repo"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// TaskService appends and lists per-user tasks.
type TaskService struct {
	users repo.UserRepo
	tasks repo.TaskRepo
	cache *cache.TaskCache
	locks *KeyedMutex
	sf    singleflight.Group
	log   *zap.Logger
}

// NewTaskService creates a TaskService. If c is nil, caching is disabled.
func NewTaskService(users repo.UserRepo, tasks repo.TaskRepo, c *cache.TaskCache, locks *KeyedMutex, log *zap.Logger) *TaskService {
	if locks == nil {
		locks = NewKeyedMutex()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &TaskService{users: users, tasks: tasks, cache: c, locks: locks, log: log}
}

// CreateTask appends "<description> (Deadline: <deadline>)" to the user's list,
// then logs the task. It returns ErrUserNotFound without writing anything when
// the user does not exist. The two writes are not atomic as a pair.
func (s *TaskService) CreateTask(ctx context.Context, description, deadline, username string) error {
	unlock := s.locks.Lock(username)
	defer unlock()

	t := dom.Task{Description: description, Deadline: deadline, Owner: username}
	err := s.users.AppendTask(ctx, username, t.Entry())
	if errors.Is(err, repo.ErrNotFound) {
		metrics.IncrementOperation("create_task", "not_found")
		return ErrUserNotFound
	}
	if err != nil {
		metrics.IncrementOperation("create_task", "error")
		return fmt.Errorf("update user tasks: %w", err)
	}
	s.invalidateCache(ctx, username)

	if err := s.tasks.Append(ctx, t); err != nil {
		metrics.IncrementOperation("create_task", "error")
		s.log.Error("task log append failed after user update",
			zap.String("username", username),
			zap.Error(err),
		)
		return fmt.Errorf("append task: %w", err)
	}
	metrics.IncrementOperation("create_task", "created")
	return nil
}

// GetTasks returns the user's formatted task entries, never nil for a known user.
func (s *TaskService) GetTasks(ctx context.Context, username string) ([]string, error) {
	var (
		list []string
		err  error
	)
	if s.cache != nil {
		var v interface{}
		v, err, _ = s.sf.Do(cache.Key(username), func() (interface{}, error) {
			// shared by every waiter, so one caller going away must not fail the rest
			ctx := context.WithoutCancel(ctx)
			cached, err := s.cache.GetList(ctx, username)
			if err != nil {
				s.log.Warn("task cache get failed", zap.String("username", username), zap.Error(err))
			} else if cached != nil {
				return cached, nil
			}
			loaded, err := s.load(ctx, username)
			if err != nil {
				return nil, err
			}
			if err := s.cache.SetList(ctx, username, loaded); err != nil {
				s.log.Warn("task cache set failed", zap.String("username", username), zap.Error(err))
			}
			return loaded, nil
		})
		if err == nil {
			list = v.([]string)
		}
	} else {
		list, err = s.load(ctx, username)
	}

	switch {
	case errors.Is(err, ErrUserNotFound):
		metrics.IncrementOperation("get_tasks", "not_found")
		return nil, err
	case err != nil:
		metrics.IncrementOperation("get_tasks", "error")
		return nil, err
	}
	metrics.IncrementOperation("get_tasks", "found")
	return list, nil
}

func (s *TaskService) load(ctx context.Context, username string) ([]string, error) {
	u, err := s.users.GetByUsername(ctx, username)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if u.Tasks == nil {
		return []string{}, nil
	}
	return u.Tasks, nil
}

func (s *TaskService) invalidateCache(ctx context.Context, username string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, username); err != nil {
		s.log.Warn("task cache invalidate failed", zap.String("username", username), zap.Error(err))
	}
}
