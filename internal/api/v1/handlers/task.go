package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"taskboard/internal/middleware"
	"taskboard/internal/models"
	"taskboard/pkg/logger"
)

// TaskManager is the ownership-scoped task API the handlers drive.
type TaskManager interface {
	List(ctx context.Context, ownerID string) ([]models.Task, error)
	Get(ctx context.Context, ownerID, taskID string) (*models.Task, error)
	Create(ctx context.Context, ownerID string, fields models.TaskFields) (*models.Task, error)
	Update(ctx context.Context, ownerID, taskID string, patch models.TaskPatch) (*models.Task, error)
	Delete(ctx context.Context, ownerID, taskID string) error
}

type TaskHandler struct {
	tasks TaskManager
}

func NewTaskHandler(tasks TaskManager) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

// ListTasks handles GET /api/tasks.
func (h *TaskHandler) ListTasks(c *fiber.Ctx) error {
	tasks, err := h.tasks.List(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return respondError(c, err, "Error fetching tasks")
	}
	return c.JSON(tasks)
}

// GetTask handles GET /api/tasks/:id.
func (h *TaskHandler) GetTask(c *fiber.Ctx) error {
	task, err := h.tasks.Get(c.UserContext(), middleware.UserID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err, "Error fetching task")
	}
	return c.JSON(task)
}

// CreateTask handles POST /api/tasks. Any owner field in the body is ignored.
func (h *TaskHandler) CreateTask(c *fiber.Ctx) error {
	var fields models.TaskFields
	if err := c.BodyParser(&fields); err != nil {
		logger.RequestLogger.Info("Bad request in create task", zap.Error(err))
		return fail(c, fiber.StatusBadRequest, "Error creating task")
	}

	userID := middleware.UserID(c)
	task, err := h.tasks.Create(c.UserContext(), userID, fields)
	if err != nil {
		return respondError(c, err, "Error creating task")
	}

	logger.SystemLogger.Info("Task created", zap.String("task_id", task.ID), zap.String("user_id", userID))
	return c.Status(fiber.StatusCreated).JSON(task)
}

// UpdateTask handles PUT /api/tasks/:id with a partial body.
func (h *TaskHandler) UpdateTask(c *fiber.Ctx) error {
	var patch models.TaskPatch
	if err := c.BodyParser(&patch); err != nil {
		logger.RequestLogger.Info("Bad request in update task", zap.Error(err))
		return fail(c, fiber.StatusBadRequest, "Error updating task")
	}

	task, err := h.tasks.Update(c.UserContext(), middleware.UserID(c), c.Params("id"), patch)
	if err != nil {
		return respondError(c, err, "Error updating task")
	}
	return c.JSON(task)
}

// DeleteTask handles DELETE /api/tasks/:id.
func (h *TaskHandler) DeleteTask(c *fiber.Ctx) error {
	if err := h.tasks.Delete(c.UserContext(), middleware.UserID(c), c.Params("id")); err != nil {
		return respondError(c, err, "Error deleting task")
	}
	return c.JSON(fiber.Map{"message": "Task deleted successfully"})
}
