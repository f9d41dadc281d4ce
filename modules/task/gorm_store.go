package task

import (
	"context"
	"errors"
	"fmt"
	"time"

	domain "github.com/example/task-management-service/domain/task"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// GormStore keeps tasks in SQLite through GORM.
type GormStore struct {
	db *gorm.DB
}

var _ Store = (*GormStore)(nil)

// OpenSQLite opens (or creates) the SQLite database at path and migrates the
// tasks table. debug turns on GORM SQL logging.
func OpenSQLite(path string, debug bool) (*GormStore, error) {
	logLevel := logger.Silent
	if debug {
		logLevel = logger.Info
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	// SQLite serialises writers; a single connection also keeps ":memory:"
	// databases shared across goroutines.
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&taskRecord{}); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return NewGormStore(db), nil
}

// NewGormStore wraps an already migrated *gorm.DB.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Driver() string {
	return "sqlite"
}

// Insert saves a new task; created_at comes from the column default.
func (s *GormStore) Insert(ctx context.Context, title string, description *string, status domain.Status) (*domain.Task, error) {
	id := uuid.New()
	err := s.db.WithContext(ctx).Exec(
		"INSERT INTO "+tableName+" ("+colID+", "+colTitle+", "+colDescription+", "+colStatus+") VALUES (?, ?, ?, ?)",
		id.String(), title, description, string(status),
	).Error
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return s.Get(ctx, id)
}

// Get retrieves a task by id.
func (s *GormStore) Get(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	var rec taskRecord
	if err := s.db.WithContext(ctx).First(&rec, colID+" = ?", id.String()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	t, err := toDomain(rec)
	if err != nil {
		return nil, fmt.Errorf("failed to decode task %s: %w", rec.ID, err)
	}
	return &t, nil
}

// Update loads the task row, applies patch and saves it back.
func (s *GormStore) Update(ctx context.Context, id uuid.UUID, patch domain.Patch) (*domain.Task, error) {
	t, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	t.Apply(patch, time.Now().UTC())

	rec := toRecord(*t)
	if err := s.db.WithContext(ctx).Save(&rec).Error; err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	return t, nil
}

// Delete removes a task row.
func (s *GormStore) Delete(ctx context.Context, id uuid.UUID) error {
	result := s.db.WithContext(ctx).Delete(&taskRecord{}, colID+" = ?", id.String())
	if err := result.Error; err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns one page of tasks in rowid (insertion) order.
func (s *GormStore) List(ctx context.Context, limit, offset int) ([]domain.Task, error) {
	var recs []taskRecord
	err := s.db.WithContext(ctx).
		Order("rowid").
		Limit(limit).
		Offset(offset).
		Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	tasks := make([]domain.Task, 0, len(recs))
	for _, rec := range recs {
		t, err := toDomain(rec)
		if err != nil {
			return nil, fmt.Errorf("failed to decode task %s: %w", rec.ID, err)
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

// Count returns the number of stored tasks.
func (s *GormStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&taskRecord{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count tasks: %w", err)
	}
	return n, nil
}

// WithinTx runs fn inside a GORM transaction.
func (s *GormStore) WithinTx(ctx context.Context, fn func(Repository) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}

// Ping runs SELECT 1 against the database.
func (s *GormStore) Ping(ctx context.Context) error {
	var one int
	if err := s.db.WithContext(ctx).Raw("SELECT 1").Scan(&one).Error; err != nil {
		return err
	}
	return nil
}

// Close closes the underlying connection pool.
func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}
