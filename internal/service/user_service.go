package service

import (
	"context"
	"errors"
	"fmt"

	dom "tasklist/internal/domain"
	"tasklist/internal/metrics"
	"tasklist/internal/repo"

	"go.uber.org/zap"
)

var (
	ErrUserExists   = errors.New("user already exists")
	ErrUserNotFound = errors.New("user not found")
)

// UserService registers users.
type UserService struct {
	repo  repo.UserRepo
	cost  int
	locks *KeyedMutex
	log   *zap.Logger
}

// NewUserService returns a new UserService. locks may be shared with TaskService.
func NewUserService(r repo.UserRepo, bcryptCost int, locks *KeyedMutex, log *zap.Logger) *UserService {
	if locks == nil {
		locks = NewKeyedMutex()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &UserService{repo: r, cost: bcryptCost, locks: locks, log: log}
}

// CreateUser stores username with a bcrypt hash of password and an empty task list.
// It returns ErrUserExists if the username is taken.
func (s *UserService) CreateUser(ctx context.Context, username, password string) error {
	unlock := s.locks.Lock(username)
	defer unlock()

	_, err := s.repo.GetByUsername(ctx, username)
	if err == nil {
		metrics.IncrementOperation("create_user", "exists")
		return ErrUserExists
	}
	if !errors.Is(err, repo.ErrNotFound) {
		metrics.IncrementOperation("create_user", "error")
		return fmt.Errorf("lookup user: %w", err)
	}

	hash, err := HashPassword(password, s.cost)
	if err != nil {
		metrics.IncrementOperation("create_user", "error")
		return fmt.Errorf("hash password: %w", err)
	}
	err = s.repo.Create(ctx, dom.User{Username: username, PasswordHash: hash, Tasks: []string{}})
	if errors.Is(err, repo.ErrDuplicate) {
		metrics.IncrementOperation("create_user", "exists")
		return ErrUserExists
	}
	if err != nil {
		metrics.IncrementOperation("create_user", "error")
		return fmt.Errorf("create user: %w", err)
	}
	metrics.IncrementOperation("create_user", "created")
	s.log.Info("user created", zap.String("username", username))
	return nil
}
