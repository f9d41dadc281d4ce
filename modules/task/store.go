package task

import (
	"context"

	domain "github.com/example/task-management-service/domain/task"
	"github.com/google/uuid"
)

// Repository is the set of task row operations. Implementations return
// ErrNotFound for a missing row and plain errors for anything else.
type Repository interface {
	// Insert stores a new task with a fresh id and a store-assigned created_at.
	Insert(ctx context.Context, title string, description *string, status domain.Status) (*domain.Task, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Task, error)
	// Update assigns only the fields present in patch and sets updated_at to now.
	Update(ctx context.Context, id uuid.UUID, patch domain.Patch) (*domain.Task, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// List returns tasks in insertion order.
	List(ctx context.Context, limit, offset int) ([]domain.Task, error)
	Count(ctx context.Context) (int64, error)
}

// Store is a Repository bound to a live connection. WithinTx runs fn against
// a transaction-scoped Repository, committing when fn returns nil and rolling
// back otherwise. The transaction is released on every exit path.
type Store interface {
	Repository
	WithinTx(ctx context.Context, fn func(Repository) error) error
	Ping(ctx context.Context) error
	Close() error
	Driver() string
}
