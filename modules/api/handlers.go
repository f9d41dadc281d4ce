package api

import (
	"errors"

	"github.com/example/task-management-service/modules/task"
	"github.com/gofiber/fiber/v2"
)

const (
	msgTaskCreated    = "task has been created"
	msgTaskUpdated    = "task has been updated"
	msgTaskDeleted    = "task has been deleted"
	msgDatabaseOK     = "database is healthy"
	msgDatabaseFailed = "database connection failed: "
)

var errInvalidInput = &task.Error{Code: task.CodeInvalidInput}

// setupRoutes configures all HTTP routes.
func (m *APIModule) setupRoutes(app *fiber.App) {
	app.Get("/", m.rootRedirect)
	app.Get("/docs/", m.docsPage)
	app.Get("/openapi.json", m.openAPISpec)
	app.Get("/health_check", m.healthCheck)

	tasks := app.Group("/task")
	tasks.Get("/all", m.listTasks)
	tasks.Post("/new", m.createTask)
	tasks.Patch("/update/:taskId", m.updateTask)
	tasks.Delete("/delete/:taskId", m.deleteTask)
}

// rootRedirect handles GET /.
func (m *APIModule) rootRedirect(c *fiber.Ctx) error {
	return c.Redirect("/docs/", fiber.StatusTemporaryRedirect)
}

// listTasks handles GET /task/all.
func (m *APIModule) listTasks(c *fiber.Ctx) error {
	q := ListTasksQuery{Page: task.DefaultPage, Size: task.DefaultSize}
	if err := c.QueryParser(&q); err != nil {
		return validationFailed(c, "invalid query parameters", FieldError{Field: "query", Message: err.Error()})
	}
	if details := m.checkStruct(&q); details != nil {
		return validationFailed(c, "invalid query parameters", details...)
	}

	resp, err := m.taskPort.ListTasks(c.UserContext(), q.Page, q.Size)
	if err != nil {
		return m.respondError(c, err)
	}

	tasks := make([]TaskResponse, 0, len(resp.Tasks))
	for _, t := range resp.Tasks {
		tasks = append(tasks, toTaskResponse(t))
	}

	return c.JSON(ListTasksResponse{
		TotalTasks:   resp.TotalTasks,
		TotalPages:   resp.TotalPages,
		CurrentPage:  resp.CurrentPage,
		TasksPerPage: resp.TasksPerPage,
		Tasks:        tasks,
	})
}

// createTask handles POST /task/new.
func (m *APIModule) createTask(c *fiber.Ctx) error {
	var req CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return validationFailed(c, "invalid request body", FieldError{Field: "body", Message: err.Error()})
	}
	if details := m.checkStruct(&req); details != nil {
		return validationFailed(c, "invalid request body", details...)
	}

	taskID, err := m.taskPort.CreateTask(c.UserContext(), &task.CreateTaskRequest{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
	})
	if err != nil {
		return m.respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(TaskIDResponse{
		Message: msgTaskCreated,
		TaskID:  taskID,
	})
}

// updateTask handles PATCH /task/update/:taskId.
func (m *APIModule) updateTask(c *fiber.Ctx) error {
	id, err := task.ParseID(c.Params("taskId"))
	if err != nil {
		return validationFailed(c, err.Error(), FieldError{Field: "taskId", Message: "must be a UUID"})
	}

	var req UpdateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return validationFailed(c, "invalid request body", FieldError{Field: "body", Message: err.Error()})
	}
	if details := m.checkStruct(&req); details != nil {
		return validationFailed(c, "invalid request body", details...)
	}

	updated, err := m.taskPort.UpdateTask(c.UserContext(), &task.UpdateTaskRequest{
		TaskID: id.String(),
		Title:  req.Title,
		Status: req.Status,
	})
	if err != nil {
		return m.respondError(c, err)
	}

	taskID := id.String()
	if updated != nil {
		taskID = updated.ID.String()
	}
	return c.JSON(TaskIDResponse{
		Message: msgTaskUpdated,
		TaskID:  taskID,
	})
}

// deleteTask handles DELETE /task/delete/:taskId.
func (m *APIModule) deleteTask(c *fiber.Ctx) error {
	id, err := task.ParseID(c.Params("taskId"))
	if err != nil {
		return validationFailed(c, err.Error(), FieldError{Field: "taskId", Message: "must be a UUID"})
	}

	if err := m.taskPort.DeleteTask(c.UserContext(), id.String()); err != nil {
		return m.respondError(c, err)
	}

	return c.JSON(MessageResponse{Message: msgTaskDeleted})
}

// healthCheck handles GET /health_check. Any failure, including an
// unreachable task module, is reported as a 400 body.
func (m *APIModule) healthCheck(c *fiber.Ctx) error {
	resp, err := m.taskPort.CheckHealth(c.UserContext())
	if err == nil && !resp.Healthy {
		err = errors.New(resp.Error)
	}
	if err != nil {
		m.logger.Warn("Health check failed", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(HealthResponse{
			Status:  "error",
			Message: msgDatabaseFailed + err.Error(),
		})
	}

	return c.JSON(HealthResponse{
		Status:  "ok",
		Message: msgDatabaseOK,
	})
}

// respondError maps a TaskPort error onto the HTTP error taxonomy.
func (m *APIModule) respondError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, task.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(MessageResponse{Message: task.ErrNotFound.Message})
	case errors.Is(err, task.ErrInvalidPayload):
		return c.Status(fiber.StatusBadRequest).JSON(MessageResponse{Message: task.ErrInvalidPayload.Message})
	case errors.Is(err, task.ErrInvalidID), errors.Is(err, errInvalidInput):
		return validationFailed(c, err.Error())
	}

	m.logger.Error("Task request failed", "path", c.Path(), "error", err)
	return c.Status(fiber.StatusBadRequest).JSON(MessageResponse{Message: err.Error()})
}
