package task

import (
	"context"

	domain "github.com/example/task-management-service/domain/task"
)

// Service names registered by the task module. The framework prefixes them
// with "services.task.".
const (
	ServiceCreate = "create"
	ServiceGet    = "get"
	ServiceList   = "list"
	ServiceUpdate = "update"
	ServiceDelete = "delete"
	ServiceHealth = "health"
)

// CreateTaskRequest is the request for creating a task.
type CreateTaskRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Status      string  `json:"status"`
}

// CreateTaskResponse carries the new task id or a failure.
type CreateTaskResponse struct {
	TaskID  string   `json:"task_id,omitempty"`
	Failure *Failure `json:"failure,omitempty"`
}

// GetTaskRequest is the request for getting a task.
type GetTaskRequest struct {
	TaskID string `json:"task_id"`
}

// GetTaskResponse carries one task or a failure.
type GetTaskResponse struct {
	Task    *domain.Task `json:"task,omitempty"`
	Failure *Failure     `json:"failure,omitempty"`
}

// ListTasksRequest is the request for one page of tasks.
type ListTasksRequest struct {
	Page int `json:"page"`
	Size int `json:"size"`
}

// ListTasksResponse is the pagination envelope.
type ListTasksResponse struct {
	TotalTasks   int64         `json:"total_tasks"`
	TotalPages   int64         `json:"total_pages"`
	CurrentPage  int           `json:"current_page"`
	TasksPerPage int           `json:"tasks_per_page"`
	Tasks        []domain.Task `json:"tasks"`
	Failure      *Failure      `json:"failure,omitempty"`
}

// UpdateTaskRequest is a partial update. Nil fields are not changed.
type UpdateTaskRequest struct {
	TaskID string  `json:"task_id"`
	Title  *string `json:"title,omitempty"`
	Status *string `json:"status,omitempty"`
}

// UpdateTaskResponse carries the updated task or a failure.
type UpdateTaskResponse struct {
	Task    *domain.Task `json:"task,omitempty"`
	Failure *Failure     `json:"failure,omitempty"`
}

// DeleteTaskRequest is the request for deleting a task.
type DeleteTaskRequest struct {
	TaskID string `json:"task_id"`
}

// DeleteTaskResponse reports whether the task was removed.
type DeleteTaskResponse struct {
	Deleted bool     `json:"deleted"`
	Failure *Failure `json:"failure,omitempty"`
}

// HealthRequest is the request for a store round trip.
type HealthRequest struct{}

// HealthResponse reports the store round trip result.
type HealthResponse struct {
	Healthy bool   `json:"healthy"`
	Driver  string `json:"driver"`
	Error   string `json:"error,omitempty"`
}

// TaskPort is the contract driving adapters use to reach the task module.
// Failures come back as *Error values, so callers can match them with
// errors.Is against ErrNotFound, ErrInvalidPayload and ErrInvalidID.
type TaskPort interface {
	CreateTask(ctx context.Context, req *CreateTaskRequest) (string, error)
	GetTask(ctx context.Context, taskID string) (*domain.Task, error)
	ListTasks(ctx context.Context, page, size int) (*ListTasksResponse, error)
	UpdateTask(ctx context.Context, req *UpdateTaskRequest) (*domain.Task, error)
	DeleteTask(ctx context.Context, taskID string) error
	CheckHealth(ctx context.Context) (*HealthResponse, error)
}
