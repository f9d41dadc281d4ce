package task

import (
	"context"
	"errors"
	"testing"

	"github.com/go-monolith/mono"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clientModule depends on the task module and keeps the TaskPort it receives.
type clientModule struct {
	port TaskPort
}

var _ mono.DependentModule = (*clientModule)(nil)

func (c *clientModule) Name() string                  { return "client" }
func (c *clientModule) Dependencies() []string        { return []string{"task"} }
func (c *clientModule) Start(_ context.Context) error { return nil }
func (c *clientModule) Stop(_ context.Context) error  { return nil }

func (c *clientModule) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	if dependency == "task" {
		c.port = NewTaskAdapter(container)
	}
}

// startTaskApp runs the task module over in-memory SQLite inside a mono
// application and returns a TaskPort wired through the service container.
func startTaskApp(t *testing.T) TaskPort {
	t.Helper()

	store, err := OpenSQLite(":memory:", false)
	require.NoError(t, err)

	app, err := mono.NewMonoApplication(
		mono.WithLogLevel(mono.LogLevelError), // Suppress logs in tests
	)
	require.NoError(t, err)

	client := &clientModule{}
	app.Register(NewModuleWithStore(store, &mockLogger{}))
	app.Register(client)

	require.NoError(t, app.Start(context.Background()))
	t.Cleanup(func() {
		_ = app.Stop(context.Background())
	})

	require.NotNil(t, client.port, "task service container was not injected")
	return client.port
}

func TestTaskAdapter_Lifecycle(t *testing.T) {
	port := startTaskApp(t)
	ctx := context.Background()

	taskID, err := port.CreateTask(ctx, &CreateTaskRequest{
		Title:       "Write report",
		Description: strPtr("Q3 numbers"),
		Status:      "pending",
	})
	require.NoError(t, err)
	require.NotEmpty(t, taskID)

	got, err := port.GetTask(ctx, taskID)
	require.NoError(t, err)
	assert.Equal(t, "Write report", got.Title)
	assert.Nil(t, got.UpdatedAt)

	status := "completed"
	updated, err := port.UpdateTask(ctx, &UpdateTaskRequest{TaskID: taskID, Status: &status})
	require.NoError(t, err)
	assert.Equal(t, "completed", string(updated.Status))
	assert.Equal(t, "Write report", updated.Title)
	require.NotNil(t, updated.UpdatedAt)

	page, err := port.ListTasks(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.TotalTasks)
	assert.Equal(t, int64(1), page.TotalPages)
	require.Len(t, page.Tasks, 1)
	assert.Equal(t, taskID, page.Tasks[0].ID.String())

	_, err = port.UpdateTask(ctx, &UpdateTaskRequest{TaskID: taskID})
	assert.True(t, errors.Is(err, ErrInvalidPayload), "empty patch: %v", err)

	require.NoError(t, port.DeleteTask(ctx, taskID))

	err = port.DeleteTask(ctx, taskID)
	assert.True(t, errors.Is(err, ErrNotFound), "second delete: %v", err)
	assert.Equal(t, "task not found", err.Error())

	_, err = port.GetTask(ctx, taskID)
	assert.True(t, errors.Is(err, ErrNotFound), "get after delete: %v", err)
}

func TestTaskAdapter_Failures(t *testing.T) {
	port := startTaskApp(t)
	ctx := context.Background()

	_, err := port.CreateTask(ctx, &CreateTaskRequest{Title: "T", Description: strPtr("D"), Status: "archived"})
	var te *Error
	require.ErrorAs(t, err, &te)
	assert.Equal(t, CodeInvalidInput, te.Code)

	err = port.DeleteTask(ctx, "not-a-uuid")
	assert.True(t, errors.Is(err, ErrInvalidID), "malformed id: %v", err)

	_, err = port.ListTasks(ctx, 1, MaxSize+1)
	require.ErrorAs(t, err, &te)
	assert.Equal(t, CodeInvalidInput, te.Code)

	page, err := port.ListTasks(ctx, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultPage, page.CurrentPage)
	assert.Equal(t, DefaultSize, page.TasksPerPage)
	assert.NotNil(t, page.Tasks)
}

func TestTaskAdapter_CheckHealth(t *testing.T) {
	port := startTaskApp(t)

	resp, err := port.CheckHealth(context.Background())

	require.NoError(t, err)
	assert.True(t, resp.Healthy)
	assert.Equal(t, "sqlite", resp.Driver)
	assert.Empty(t, resp.Error)
}
