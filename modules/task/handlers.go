package task

import (
	"context"
	"errors"
	"time"

	domain "github.com/example/task-management-service/domain/task"
	"github.com/example/task-management-service/events"
	"github.com/go-monolith/mono"
)

// createTask handles the services.task.create request.
func (m *TaskModule) createTask(ctx context.Context, req CreateTaskRequest, _ *mono.Msg) (CreateTaskResponse, error) {
	t, err := m.svc.Create(ctx, req.Title, req.Description, req.Status)
	if err != nil {
		m.logFailure("create", "", err)
		return CreateTaskResponse{Failure: toFailure(err)}, nil
	}

	m.logger.Info("Task created", "task_id", t.ID.String(), "status", string(t.Status))
	if m.eventBus != nil {
		event := events.TaskCreatedEvent{
			TaskID:    t.ID.String(),
			Title:     t.Title,
			Status:    string(t.Status),
			CreatedAt: t.CreatedAt,
		}
		if err := events.TaskCreatedV1.Publish(m.eventBus, event, nil); err != nil {
			m.logger.Warn("Failed to publish TaskCreated event", "task_id", t.ID.String(), "error", err)
		}
	}

	return CreateTaskResponse{TaskID: t.ID.String()}, nil
}

// getTask handles the services.task.get request.
func (m *TaskModule) getTask(ctx context.Context, req GetTaskRequest, _ *mono.Msg) (GetTaskResponse, error) {
	id, err := ParseID(req.TaskID)
	if err != nil {
		return GetTaskResponse{Failure: toFailure(err)}, nil
	}
	t, err := m.svc.Get(ctx, id)
	if err != nil {
		m.logFailure("get", req.TaskID, err)
		return GetTaskResponse{Failure: toFailure(err)}, nil
	}
	return GetTaskResponse{Task: t}, nil
}

// listTasks handles the services.task.list request. Zero page or size fall
// back to the defaults.
func (m *TaskModule) listTasks(ctx context.Context, req ListTasksRequest, _ *mono.Msg) (ListTasksResponse, error) {
	page, size := req.Page, req.Size
	if page == 0 {
		page = DefaultPage
	}
	if size == 0 {
		size = DefaultSize
	}

	p, err := m.svc.List(ctx, page, size)
	if err != nil {
		m.logFailure("list", "", err)
		return ListTasksResponse{Tasks: []domain.Task{}, Failure: toFailure(err)}, nil
	}

	return ListTasksResponse{
		TotalTasks:   p.TotalTasks,
		TotalPages:   p.TotalPages,
		CurrentPage:  p.CurrentPage,
		TasksPerPage: p.TasksPerPage,
		Tasks:        p.Tasks,
	}, nil
}

// updateTask handles the services.task.update request.
func (m *TaskModule) updateTask(ctx context.Context, req UpdateTaskRequest, _ *mono.Msg) (UpdateTaskResponse, error) {
	id, err := ParseID(req.TaskID)
	if err != nil {
		return UpdateTaskResponse{Failure: toFailure(err)}, nil
	}

	var patch domain.Patch
	var changed []string
	if req.Title != nil {
		patch.Title = req.Title
		changed = append(changed, "title")
	}
	if req.Status != nil {
		status := domain.Status(*req.Status)
		patch.Status = &status
		changed = append(changed, "status")
	}

	t, err := m.svc.Update(ctx, id, patch)
	if err != nil {
		m.logFailure("update", req.TaskID, err)
		return UpdateTaskResponse{Failure: toFailure(err)}, nil
	}

	updatedAt := time.Now().UTC()
	if t.UpdatedAt != nil {
		updatedAt = *t.UpdatedAt
	}
	m.logger.Info("Task updated", "task_id", req.TaskID, "changed", changed)
	if m.eventBus != nil {
		event := events.TaskUpdatedEvent{
			TaskID:    t.ID.String(),
			Title:     t.Title,
			Status:    string(t.Status),
			Changed:   changed,
			UpdatedAt: updatedAt,
		}
		if err := events.TaskUpdatedV1.Publish(m.eventBus, event, nil); err != nil {
			m.logger.Warn("Failed to publish TaskUpdated event", "task_id", req.TaskID, "error", err)
		}
	}

	return UpdateTaskResponse{Task: t}, nil
}

// deleteTask handles the services.task.delete request.
func (m *TaskModule) deleteTask(ctx context.Context, req DeleteTaskRequest, _ *mono.Msg) (DeleteTaskResponse, error) {
	id, err := ParseID(req.TaskID)
	if err != nil {
		return DeleteTaskResponse{Failure: toFailure(err)}, nil
	}
	if err := m.svc.Delete(ctx, id); err != nil {
		m.logFailure("delete", req.TaskID, err)
		return DeleteTaskResponse{Failure: toFailure(err)}, nil
	}

	m.logger.Info("Task deleted", "task_id", req.TaskID)
	if m.eventBus != nil {
		event := events.TaskDeletedEvent{
			TaskID:    req.TaskID,
			DeletedAt: time.Now().UTC(),
		}
		if err := events.TaskDeletedV1.Publish(m.eventBus, event, nil); err != nil {
			m.logger.Warn("Failed to publish TaskDeleted event", "task_id", req.TaskID, "error", err)
		}
	}

	return DeleteTaskResponse{Deleted: true}, nil
}

// checkHealth handles the services.task.health request. A failed round trip is
// reported in the response, never as a handler error.
func (m *TaskModule) checkHealth(ctx context.Context, _ HealthRequest, _ *mono.Msg) (HealthResponse, error) {
	resp := HealthResponse{Healthy: true, Driver: m.store.Driver()}
	if err := m.svc.Health(ctx); err != nil {
		m.logger.Error("Database health check failed", "error", err)
		resp.Healthy = false
		resp.Error = err.Error()
	}
	return resp, nil
}

func (m *TaskModule) logFailure(op, taskID string, err error) {
	var te *Error
	if errors.As(err, &te) && te.Code != CodeStore {
		m.logger.Debug("Task request rejected", "op", op, "task_id", taskID, "code", string(te.Code))
		return
	}
	m.logger.Error("Task request failed", "op", op, "task_id", taskID, "error", err)
}
