package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"taskboard/internal/apperrors"
	"taskboard/internal/models"
	"taskboard/internal/repository"
)

type TaskService struct {
	tasks repository.TaskRepository
	now   func() time.Time
}

func NewTaskService(tasks repository.TaskRepository) *TaskService {
	return &TaskService{tasks: tasks, now: time.Now}
}

type taskInput struct {
	Title       string          `json:"title" validate:"required,max=255"`
	Description string          `json:"description"`
	Priority    models.Priority `json:"priority" validate:"priority"`
}

func validateTask(t *models.Task) error {
	t.Title = strings.TrimSpace(t.Title)
	return validateStruct(taskInput{Title: t.Title, Description: t.Description, Priority: t.Priority})
}

func (s *TaskService) List(ctx context.Context, ownerID string) ([]models.Task, error) {
	return s.tasks.ListByOwner(ctx, ownerID)
}

func (s *TaskService) Get(ctx context.Context, ownerID, taskID string) (*models.Task, error) {
	if !validID(taskID) {
		return nil, apperrors.ErrNotFound
	}
	return s.tasks.FindOwned(ctx, ownerID, taskID)
}

// Create stores a new task owned by ownerID. Priority defaults to medium.
func (s *TaskService) Create(ctx context.Context, ownerID string, fields models.TaskFields) (*models.Task, error) {
	now := s.now().UTC()
	task := &models.Task{
		ID:          uuid.NewString(),
		UserID:      ownerID,
		Title:       fields.Title,
		Description: fields.Description,
		Priority:    fields.Priority,
		DueDate:     fields.DueDate,
		Completed:   false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if task.Priority == "" {
		task.Priority = models.PriorityMedium
	}
	if err := validateTask(task); err != nil {
		return nil, err
	}
	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// Update runs in two steps: an ownership-checked lookup, then a write that
// repeats the ownership predicate. If the task is deleted or changes hands in
// between, the write matches nothing and the caller gets ErrNotFound.
func (s *TaskService) Update(ctx context.Context, ownerID, taskID string, patch models.TaskPatch) (*models.Task, error) {
	if !validID(taskID) {
		return nil, apperrors.ErrNotFound
	}
	task, err := s.tasks.FindOwned(ctx, ownerID, taskID)
	if err != nil {
		return nil, err
	}

	patch.Apply(task)
	if err := validateTask(task); err != nil {
		return nil, err
	}
	task.UpdatedAt = s.now().UTC()

	if err := s.tasks.UpdateOwned(ctx, ownerID, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *TaskService) Delete(ctx context.Context, ownerID, taskID string) error {
	if !validID(taskID) {
		return apperrors.ErrNotFound
	}
	return s.tasks.DeleteOwned(ctx, ownerID, taskID)
}

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
