package repository

import (
	"context"

	"taskboard/internal/models"
)

// UserRepository persists credentials. Implementations must enforce email
// uniqueness themselves and report a clash as apperrors.ErrDuplicateEmail.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// TaskRepository is ownership-scoped: every method takes the owner id and
// includes it in the predicate, so another user's task is indistinguishable
// from a missing one (apperrors.ErrNotFound).
type TaskRepository interface {
	ListByOwner(ctx context.Context, ownerID string) ([]models.Task, error)
	Create(ctx context.Context, task *models.Task) error
	FindOwned(ctx context.Context, ownerID, taskID string) (*models.Task, error)
	// UpdateOwned writes task only if a row with task.ID and ownerID still
	// exists; the check and the write happen in one store operation.
	UpdateOwned(ctx context.Context, ownerID string, task *models.Task) error
	DeleteOwned(ctx context.Context, ownerID, taskID string) error
}
