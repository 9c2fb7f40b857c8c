package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	dom "tasklist/internal/domain"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// userModel keeps tasks as the same ";"-joined text used by the csv table.
type userModel struct {
	Username     string `gorm:"primaryKey"`
	PasswordHash string `gorm:"not null"`
	Tasks        string `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (userModel) TableName() string { return "users" }

type taskModel struct {
	ID        int64  `gorm:"primaryKey;autoIncrement"`
	Task      string `gorm:"not null"`
	Deadline  string `gorm:"not null"`
	Username  string `gorm:"not null;index"`
	CreatedAt time.Time
}

func (taskModel) TableName() string { return "tasks" }

// OpenSQLite opens (or creates) the database at path and migrates the schema.
// A single connection is used so ":memory:" databases stay consistent.
func OpenSQLite(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("sqlite open: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("sqlite handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(&userModel{}, &taskModel{}); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("sqlite migrate: %w", err)
	}
	return db, nil
}

// GormUserRepo implements UserRepo on top of gorm.
type GormUserRepo struct {
	db *gorm.DB
}

func NewGormUserRepo(db *gorm.DB) *GormUserRepo {
	return &GormUserRepo{db: db}
}

func (r *GormUserRepo) GetByUsername(ctx context.Context, username string) (dom.User, error) {
	var m userModel
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return dom.User{}, ErrNotFound
	}
	if err != nil {
		return dom.User{}, err
	}
	return dom.User{
		Username:     m.Username,
		PasswordHash: m.PasswordHash,
		Tasks:        dom.SplitEntries(m.Tasks),
	}, nil
}

func (r *GormUserRepo) Create(ctx context.Context, u dom.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing userModel
		err := tx.Where("username = ?", u.Username).First(&existing).Error
		if err == nil {
			return ErrDuplicate
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		err = tx.Create(&userModel{
			Username:     u.Username,
			PasswordHash: u.PasswordHash,
			Tasks:        dom.JoinEntries(u.Tasks),
		}).Error
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicate
		}
		return err
	})
}

func (r *GormUserRepo) AppendTask(ctx context.Context, username, entry string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m userModel
		err := tx.Where("username = ?", username).First(&m).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		tasks := append(dom.SplitEntries(m.Tasks), entry)
		return tx.Model(&userModel{}).
			Where("username = ?", username).
			Update("tasks", dom.JoinEntries(tasks)).Error
	})
}

func (r *GormUserRepo) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// GormTaskRepo implements TaskRepo on top of gorm.
type GormTaskRepo struct {
	db *gorm.DB
}

func NewGormTaskRepo(db *gorm.DB) *GormTaskRepo {
	return &GormTaskRepo{db: db}
}

func (r *GormTaskRepo) Append(ctx context.Context, t dom.Task) error {
	return r.db.WithContext(ctx).Create(&taskModel{
		Task:     t.Description,
		Deadline: t.Deadline,
		Username: t.Owner,
	}).Error
}
