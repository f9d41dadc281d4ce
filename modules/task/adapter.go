package task

import (
	"context"
	"encoding/json"
	"fmt"

	domain "github.com/example/task-management-service/domain/task"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// taskAdapter implements TaskPort over the task module's request-reply
// services.
type taskAdapter struct {
	container mono.ServiceContainer
}

// NewTaskAdapter creates a TaskPort for the container received through
// SetDependencyServiceContainer.
func NewTaskAdapter(container mono.ServiceContainer) TaskPort {
	if container == nil {
		panic("task adapter requires non-nil ServiceContainer")
	}
	return &taskAdapter{container: container}
}

// CreateTask creates a task and returns its id.
func (a *taskAdapter) CreateTask(ctx context.Context, req *CreateTaskRequest) (string, error) {
	var resp CreateTaskResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		ServiceCreate,
		json.Marshal,
		json.Unmarshal,
		req,
		&resp,
	); err != nil {
		return "", fmt.Errorf("%s service call failed: %w", ServiceCreate, err)
	}
	if err := resp.Failure.Err(); err != nil {
		return "", err
	}
	return resp.TaskID, nil
}

// GetTask fetches one task.
func (a *taskAdapter) GetTask(ctx context.Context, taskID string) (*domain.Task, error) {
	var resp GetTaskResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		ServiceGet,
		json.Marshal,
		json.Unmarshal,
		&GetTaskRequest{TaskID: taskID},
		&resp,
	); err != nil {
		return nil, fmt.Errorf("%s service call failed: %w", ServiceGet, err)
	}
	if err := resp.Failure.Err(); err != nil {
		return nil, err
	}
	return resp.Task, nil
}

// ListTasks fetches one page of tasks.
func (a *taskAdapter) ListTasks(ctx context.Context, page, size int) (*ListTasksResponse, error) {
	var resp ListTasksResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		ServiceList,
		json.Marshal,
		json.Unmarshal,
		&ListTasksRequest{Page: page, Size: size},
		&resp,
	); err != nil {
		return nil, fmt.Errorf("%s service call failed: %w", ServiceList, err)
	}
	if err := resp.Failure.Err(); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UpdateTask applies a partial update.
func (a *taskAdapter) UpdateTask(ctx context.Context, req *UpdateTaskRequest) (*domain.Task, error) {
	var resp UpdateTaskResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		ServiceUpdate,
		json.Marshal,
		json.Unmarshal,
		req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("%s service call failed: %w", ServiceUpdate, err)
	}
	if err := resp.Failure.Err(); err != nil {
		return nil, err
	}
	return resp.Task, nil
}

// DeleteTask removes a task.
func (a *taskAdapter) DeleteTask(ctx context.Context, taskID string) error {
	var resp DeleteTaskResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		ServiceDelete,
		json.Marshal,
		json.Unmarshal,
		&DeleteTaskRequest{TaskID: taskID},
		&resp,
	); err != nil {
		return fmt.Errorf("%s service call failed: %w", ServiceDelete, err)
	}
	if err := resp.Failure.Err(); err != nil {
		return err
	}
	if !resp.Deleted {
		return fmt.Errorf("task not deleted: %s", taskID)
	}
	return nil
}

// CheckHealth asks the task module for a store round trip.
func (a *taskAdapter) CheckHealth(ctx context.Context) (*HealthResponse, error) {
	var resp HealthResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		ServiceHealth,
		json.Marshal,
		json.Unmarshal,
		&HealthRequest{},
		&resp,
	); err != nil {
		return nil, fmt.Errorf("%s service call failed: %w", ServiceHealth, err)
	}
	return &resp, nil
}
