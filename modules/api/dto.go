package api

import (
	"time"

	domain "github.com/example/task-management-service/domain/task"
)

// CreateTaskRequest is the HTTP request for creating a task.
type CreateTaskRequest struct {
	Title       string  `json:"title" validate:"required"`
	Description *string `json:"description" validate:"required"`
	Status      string  `json:"status" validate:"required,oneof=pending in-progress completed"`
}

// UpdateTaskRequest is the HTTP request for a partial update. Absent and null
// fields are left unchanged.
type UpdateTaskRequest struct {
	Title  *string `json:"title" validate:"omitnil,min=1"`
	Status *string `json:"status" validate:"omitnil,oneof=pending in-progress completed"`
}

// ListTasksQuery holds the pagination query parameters.
type ListTasksQuery struct {
	Page int `query:"page" validate:"min=1"`
	Size int `query:"size" validate:"min=1,max=100"`
}

// TaskResponse is the HTTP representation of a task.
type TaskResponse struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
}

// ListTasksResponse is the pagination envelope.
type ListTasksResponse struct {
	TotalTasks   int64          `json:"total_tasks"`
	TotalPages   int64          `json:"total_pages"`
	CurrentPage  int            `json:"current_page"`
	TasksPerPage int            `json:"tasks_per_page"`
	Tasks        []TaskResponse `json:"tasks"`
}

// TaskIDResponse acknowledges a create or update.
type TaskIDResponse struct {
	Message string `json:"message"`
	TaskID  string `json:"task_id"`
}

// MessageResponse is a bare message body, used for deletes and errors.
type MessageResponse struct {
	Message string `json:"message"`
}

// HealthResponse is the HTTP response for the health check.
type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// ValidationErrorResponse is the 422 body.
type ValidationErrorResponse struct {
	Message string       `json:"message"`
	Detail  []FieldError `json:"detail"`
}

// FieldError describes one rejected input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func toTaskResponse(t domain.Task) TaskResponse {
	return TaskResponse{
		ID:          t.ID.String(),
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}
