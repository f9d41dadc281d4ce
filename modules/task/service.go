package task

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	domain "github.com/example/task-management-service/domain/task"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Pagination bounds.
const (
	DefaultPage = 1
	DefaultSize = 10
	MaxSize     = 100
)

var (
	errTitleRequired       = errors.New("title is required")
	errDescriptionRequired = errors.New("description is required")
	errTitleEmpty          = errors.New("title must not be empty")
)

// Page is one slice of the task list plus its pagination metadata.
type Page struct {
	TotalTasks   int64
	TotalPages   int64
	CurrentPage  int
	TasksPerPage int
	Tasks        []domain.Task
}

// Service implements task use cases on top of a Store. It holds no
// per-request state and is safe for concurrent use.
type Service struct {
	store Store
}

// NewService creates a Service backed by store.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// ParseID converts a raw task id into a UUID.
func ParseID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, ErrInvalidID
	}
	return id, nil
}

// Create validates the input and inserts a new task.
func (s *Service) Create(ctx context.Context, title string, description *string, rawStatus string) (*domain.Task, error) {
	if title == "" {
		return nil, invalidInput(errTitleRequired)
	}
	if description == nil {
		return nil, invalidInput(errDescriptionRequired)
	}
	status, err := domain.ParseStatus(rawStatus)
	if err != nil {
		return nil, invalidInput(err)
	}

	t, err := s.store.Insert(ctx, title, description, status)
	if err != nil {
		return nil, storeFailure(err)
	}
	return t, nil
}

// Get returns a single task.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	t, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, storeFailure(err)
	}
	return t, nil
}

// List returns page number page of size tasks. The total count and the page
// slice are read independently, so a concurrent write may make them disagree.
func (s *Service) List(ctx context.Context, page, size int) (*Page, error) {
	if page < 1 {
		return nil, invalidInput(fmt.Errorf("page must be greater than or equal to 1, got %d", page))
	}
	if size < 1 || size > MaxSize {
		return nil, invalidInput(fmt.Errorf("size must be between 1 and %d, got %d", MaxSize, size))
	}
	offset, inRange := pageOffset(page, size)

	var (
		total int64
		tasks []domain.Task
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.store.Count(gctx)
		total = n
		return err
	})
	if inRange {
		g.Go(func() error {
			ts, err := s.store.List(gctx, size, offset)
			tasks = ts
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, storeFailure(err)
	}

	if tasks == nil {
		tasks = []domain.Task{}
	}
	return &Page{
		TotalTasks:   total,
		TotalPages:   totalPages(total, size),
		CurrentPage:  page,
		TasksPerPage: size,
		Tasks:        tasks,
	}, nil
}

// pageOffset returns (page-1)*size. ok is false when the product does not fit
// in an int; no store can hold that many rows, so the page is empty.
func pageOffset(page, size int) (offset int, ok bool) {
	if page-1 > math.MaxInt/size {
		return 0, false
	}
	return (page - 1) * size, true
}

// totalPages is ceil(total/size).
func totalPages(total int64, size int) int64 {
	n := int64(size)
	return (total + n - 1) / n
}

// Update applies patch to task id in one transaction. An empty patch is
// rejected before the task is looked up.
func (s *Service) Update(ctx context.Context, id uuid.UUID, patch domain.Patch) (*domain.Task, error) {
	if patch.Empty() {
		return nil, ErrInvalidPayload
	}
	if patch.Title != nil && *patch.Title == "" {
		return nil, invalidInput(errTitleEmpty)
	}
	if patch.Status != nil {
		if _, err := domain.ParseStatus(string(*patch.Status)); err != nil {
			return nil, invalidInput(err)
		}
	}

	var updated *domain.Task
	err := s.store.WithinTx(ctx, func(repo Repository) error {
		if _, err := repo.Get(ctx, id); err != nil {
			return err
		}
		t, err := repo.Update(ctx, id, patch)
		if err != nil {
			return err
		}
		updated = t
		return nil
	})
	if err != nil {
		return nil, storeFailure(err)
	}
	return updated, nil
}

// Delete removes task id in one transaction.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.store.WithinTx(ctx, func(repo Repository) error {
		if _, err := repo.Get(ctx, id); err != nil {
			return err
		}
		return repo.Delete(ctx, id)
	})
	return storeFailure(err)
}

// Health performs a trivial round trip to the store.
func (s *Service) Health(ctx context.Context) error {
	return s.store.Ping(ctx)
}
