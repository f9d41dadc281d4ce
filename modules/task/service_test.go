package task

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"testing"
	"time"

	domain "github.com/example/task-management-service/domain/task"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockStore is an in-memory Store with injectable errors.
type mockStore struct {
	mu        sync.Mutex
	tasks     []domain.Task
	getCalls  int
	listCalls int

	insertErr error
	getErr    error
	updateErr error
	deleteErr error
	listErr   error
	countErr  error
	pingErr   error
}

var _ Store = (*mockStore)(nil)

func newMockStore() *mockStore {
	return &mockStore{}
}

func (m *mockStore) Driver() string { return "mock" }

func (m *mockStore) Insert(_ context.Context, title string, description *string, status domain.Status) (*domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.insertErr != nil {
		return nil, m.insertErr
	}
	t := domain.Task{
		ID:          uuid.New(),
		Title:       title,
		Description: description,
		Status:      status,
		CreatedAt:   time.Now().UTC(),
	}
	m.tasks = append(m.tasks, t)
	return &t, nil
}

func (m *mockStore) Get(_ context.Context, id uuid.UUID) (*domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getCalls++
	if m.getErr != nil {
		return nil, m.getErr
	}
	for _, t := range m.tasks {
		if t.ID == id {
			return &t, nil
		}
	}
	return nil, ErrNotFound
}

func (m *mockStore) Update(_ context.Context, id uuid.UUID, patch domain.Patch) (*domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updateErr != nil {
		return nil, m.updateErr
	}
	for i := range m.tasks {
		if m.tasks[i].ID == id {
			m.tasks[i].Apply(patch, time.Now().UTC())
			t := m.tasks[i]
			return &t, nil
		}
	}
	return nil, ErrNotFound
}

func (m *mockStore) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.deleteErr != nil {
		return m.deleteErr
	}
	for i := range m.tasks {
		if m.tasks[i].ID == id {
			m.tasks = append(m.tasks[:i], m.tasks[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (m *mockStore) List(_ context.Context, limit, offset int) ([]domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listCalls++
	if m.listErr != nil {
		return nil, m.listErr
	}
	if offset >= len(m.tasks) {
		return []domain.Task{}, nil
	}
	end := offset + limit
	if end > len(m.tasks) {
		end = len(m.tasks)
	}
	out := make([]domain.Task, end-offset)
	copy(out, m.tasks[offset:end])
	return out, nil
}

func (m *mockStore) Count(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.countErr != nil {
		return 0, m.countErr
	}
	return int64(len(m.tasks)), nil
}

func (m *mockStore) WithinTx(_ context.Context, fn func(Repository) error) error {
	return fn(m)
}

func (m *mockStore) Ping(_ context.Context) error { return m.pingErr }

func (m *mockStore) Close() error { return nil }

func seed(t *testing.T, svc *Service, n int) []*domain.Task {
	t.Helper()
	out := make([]*domain.Task, 0, n)
	for i := 0; i < n; i++ {
		created, err := svc.Create(context.Background(), fmt.Sprintf("task-%d", i), strPtr("d"), "pending")
		require.NoError(t, err)
		out = append(out, created)
	}
	return out
}

func TestService_Create(t *testing.T) {
	tests := []struct {
		name        string
		title       string
		description *string
		status      string
		wantCode    Code
	}{
		{name: "valid", title: "T", description: strPtr("D"), status: "pending"},
		{name: "empty description allowed", title: "T", description: strPtr(""), status: "in-progress"},
		{name: "unknown status", title: "T", description: strPtr("D"), status: "archived", wantCode: CodeInvalidInput},
		{name: "missing title", title: "", description: strPtr("D"), status: "pending", wantCode: CodeInvalidInput},
		{name: "missing description", title: "T", description: nil, status: "pending", wantCode: CodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMockStore()
			svc := NewService(store)

			created, err := svc.Create(context.Background(), tt.title, tt.description, tt.status)

			if tt.wantCode != "" {
				require.Error(t, err)
				var te *Error
				require.ErrorAs(t, err, &te)
				assert.Equal(t, tt.wantCode, te.Code)
				assert.Empty(t, store.tasks, "no row may be persisted")
				return
			}
			require.NoError(t, err)
			assert.NotEqual(t, uuid.Nil, created.ID)
			assert.Len(t, store.tasks, 1)
		})
	}
}

func TestService_CreateStoreFailure(t *testing.T) {
	store := newMockStore()
	store.insertErr = errors.New("connection reset by peer")
	svc := NewService(store)

	_, err := svc.Create(context.Background(), "T", strPtr("D"), "pending")

	var te *Error
	require.ErrorAs(t, err, &te)
	assert.Equal(t, CodeStore, te.Code)
	assert.Equal(t, "connection reset by peer", te.Message)
}

func TestService_ListPagination(t *testing.T) {
	store := newMockStore()
	svc := NewService(store)
	seed(t, svc, 23)

	tests := []struct {
		page, size    int
		wantPages     int64
		wantLen       int
		wantFirstName string
	}{
		{page: 1, size: 10, wantPages: 3, wantLen: 10, wantFirstName: "task-0"},
		{page: 3, size: 10, wantPages: 3, wantLen: 3, wantFirstName: "task-20"},
		{page: 4, size: 10, wantPages: 3, wantLen: 0},
		{page: 1, size: 100, wantPages: 1, wantLen: 23, wantFirstName: "task-0"},
		{page: 23, size: 1, wantPages: 23, wantLen: 1, wantFirstName: "task-22"},
		{page: 2, size: 7, wantPages: 4, wantLen: 7, wantFirstName: "task-7"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("page=%d,size=%d", tt.page, tt.size), func(t *testing.T) {
			p, err := svc.List(context.Background(), tt.page, tt.size)
			require.NoError(t, err)

			assert.Equal(t, int64(23), p.TotalTasks)
			assert.Equal(t, tt.wantPages, p.TotalPages)
			assert.Equal(t, tt.page, p.CurrentPage)
			assert.Equal(t, tt.size, p.TasksPerPage)
			assert.Len(t, p.Tasks, tt.wantLen)
			assert.LessOrEqual(t, len(p.Tasks), tt.size)
			assert.NotNil(t, p.Tasks)
			if tt.wantFirstName != "" {
				assert.Equal(t, tt.wantFirstName, p.Tasks[0].Title)
			}
		})
	}
}

func TestService_ListPageBeyondIntRange(t *testing.T) {
	store := newMockStore()
	svc := NewService(store)
	seed(t, svc, 3)

	for _, tc := range []struct {
		page, size int
		skipsRead  bool
	}{
		{page: math.MaxInt, size: 1},
		{page: math.MaxInt, size: MaxSize, skipsRead: true},
		{page: math.MaxInt/4 + 2, size: 4, skipsRead: true},
	} {
		t.Run(fmt.Sprintf("page=%d,size=%d", tc.page, tc.size), func(t *testing.T) {
			store.listCalls = 0

			p, err := svc.List(context.Background(), tc.page, tc.size)

			require.NoError(t, err)
			assert.Equal(t, int64(3), p.TotalTasks)
			assert.Equal(t, totalPages(3, tc.size), p.TotalPages)
			assert.Equal(t, tc.page, p.CurrentPage)
			assert.Equal(t, tc.size, p.TasksPerPage)
			assert.NotNil(t, p.Tasks)
			assert.Empty(t, p.Tasks)
			if tc.skipsRead {
				assert.Zero(t, store.listCalls)
			}
		})
	}
}

func TestPageOffset(t *testing.T) {
	offset, ok := pageOffset(3, 10)
	assert.True(t, ok)
	assert.Equal(t, 20, offset)

	offset, ok = pageOffset(math.MaxInt/MaxSize+1, MaxSize)
	assert.True(t, ok)
	assert.Equal(t, (math.MaxInt/MaxSize)*MaxSize, offset)

	_, ok = pageOffset(math.MaxInt/MaxSize+2, MaxSize)
	assert.False(t, ok)
}

func TestService_ListEmptyStore(t *testing.T) {
	svc := NewService(newMockStore())

	p, err := svc.List(context.Background(), 1, 10)

	require.NoError(t, err)
	assert.Equal(t, int64(0), p.TotalTasks)
	assert.Equal(t, int64(0), p.TotalPages)
	assert.NotNil(t, p.Tasks)
	assert.Empty(t, p.Tasks)
}

func TestService_ListValidation(t *testing.T) {
	svc := NewService(newMockStore())

	for _, tc := range []struct{ page, size int }{{0, 10}, {-1, 10}, {1, 0}, {1, 101}} {
		_, err := svc.List(context.Background(), tc.page, tc.size)
		var te *Error
		require.ErrorAs(t, err, &te, "page=%d size=%d", tc.page, tc.size)
		assert.Equal(t, CodeInvalidInput, te.Code)
	}
}

func TestService_ListStoreFailure(t *testing.T) {
	store := newMockStore()
	store.countErr = errors.New("count failed")
	svc := NewService(store)

	_, err := svc.List(context.Background(), 1, 10)

	var te *Error
	require.ErrorAs(t, err, &te)
	assert.Equal(t, CodeStore, te.Code)
	assert.Contains(t, te.Message, "count failed")
}

func TestTotalPages(t *testing.T) {
	tests := []struct {
		total int64
		size  int
		want  int64
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{100, 1, 100},
		{101, 100, 2},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, totalPages(tt.total, tt.size), "total=%d size=%d", tt.total, tt.size)
	}
}

func TestService_UpdateTitleOnly(t *testing.T) {
	store := newMockStore()
	svc := NewService(store)
	created := seed(t, svc, 1)[0]

	updated, err := svc.Update(context.Background(), created.ID, domain.Patch{Title: strPtr("new title")})

	require.NoError(t, err)
	assert.Equal(t, "new title", updated.Title)
	assert.Equal(t, created.Status, updated.Status)
	require.NotNil(t, updated.UpdatedAt)
	assert.False(t, updated.UpdatedAt.Before(updated.CreatedAt))
}

func TestService_UpdateEmptyPayload(t *testing.T) {
	store := newMockStore()
	svc := NewService(store)
	existing := seed(t, svc, 1)[0]

	for name, id := range map[string]uuid.UUID{"existing": existing.ID, "missing": uuid.New()} {
		t.Run(name, func(t *testing.T) {
			store.getCalls = 0

			_, err := svc.Update(context.Background(), id, domain.Patch{})

			assert.ErrorIs(t, err, ErrInvalidPayload)
			assert.Zero(t, store.getCalls, "empty payload must be rejected before lookup")
		})
	}
}

func TestService_UpdateRejectsBadFields(t *testing.T) {
	svc := NewService(newMockStore())
	created := seed(t, svc, 1)[0]

	_, err := svc.Update(context.Background(), created.ID, domain.Patch{Title: strPtr("")})
	var te *Error
	require.ErrorAs(t, err, &te)
	assert.Equal(t, CodeInvalidInput, te.Code)

	_, err = svc.Update(context.Background(), created.ID, domain.Patch{Status: statusPtr("archived")})
	require.ErrorAs(t, err, &te)
	assert.Equal(t, CodeInvalidInput, te.Code)
}

func TestService_UpdateNotFound(t *testing.T) {
	svc := NewService(newMockStore())

	_, err := svc.Update(context.Background(), uuid.New(), domain.Patch{Status: statusPtr(domain.StatusCompleted)})

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_DeleteTwice(t *testing.T) {
	svc := NewService(newMockStore())
	created := seed(t, svc, 1)[0]

	require.NoError(t, svc.Delete(context.Background(), created.ID))
	assert.ErrorIs(t, svc.Delete(context.Background(), created.ID), ErrNotFound)
}

func TestService_DeleteStoreFailure(t *testing.T) {
	store := newMockStore()
	svc := NewService(store)
	created := seed(t, svc, 1)[0]
	store.deleteErr = errors.New("disk I/O error")

	err := svc.Delete(context.Background(), created.ID)

	var te *Error
	require.ErrorAs(t, err, &te)
	assert.Equal(t, CodeStore, te.Code)
	assert.Equal(t, "disk I/O error", te.Message)
}

func TestService_Health(t *testing.T) {
	store := newMockStore()
	svc := NewService(store)

	assert.NoError(t, svc.Health(context.Background()))

	store.pingErr = errors.New("connection refused")
	assert.EqualError(t, svc.Health(context.Background()), "connection refused")
}

func TestParseID(t *testing.T) {
	id := uuid.New()

	got, err := ParseID(id.String())
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = ParseID("not-a-uuid")
	assert.ErrorIs(t, err, ErrInvalidID)
}
