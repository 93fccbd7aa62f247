package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskboard/internal/apperrors"
	"taskboard/internal/models"
)

// Every backend runs the same behavioural checks.

func newUser(t *testing.T, users UserRepository) *models.User {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Millisecond)
	id := uuid.NewString()
	u := &models.User{
		ID:           id,
		Name:         "User " + id[:8],
		Email:        id + "@example.com",
		PasswordHash: "$2a$10$abcdefghijklmnopqrstuu",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, users.Create(context.Background(), u))
	return u
}

func newTask(ownerID, title string, createdAt time.Time) *models.Task {
	return &models.Task{
		ID:        uuid.NewString(),
		UserID:    ownerID,
		Title:     title,
		Priority:  models.PriorityMedium,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

func testUserRepository(t *testing.T, users UserRepository) {
	ctx := context.Background()

	t.Run("FindByEmailAndID", func(t *testing.T) {
		u := newUser(t, users)

		byEmail, err := users.FindByEmail(ctx, u.Email)
		require.NoError(t, err)
		assert.Equal(t, u.ID, byEmail.ID)
		assert.Equal(t, u.Name, byEmail.Name)
		assert.Equal(t, u.PasswordHash, byEmail.PasswordHash)

		byID, err := users.FindByID(ctx, u.ID)
		require.NoError(t, err)
		assert.Equal(t, u.Email, byID.Email)
	})

	t.Run("DuplicateEmail", func(t *testing.T) {
		u := newUser(t, users)
		dup := *u
		dup.ID = uuid.NewString()
		err := users.Create(ctx, &dup)
		assert.ErrorIs(t, err, apperrors.ErrDuplicateEmail)

		_, err = users.FindByID(ctx, dup.ID)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("Missing", func(t *testing.T) {
		_, err := users.FindByEmail(ctx, "nobody-"+uuid.NewString()+"@example.com")
		assert.ErrorIs(t, err, apperrors.ErrNotFound)

		_, err = users.FindByID(ctx, uuid.NewString())
		assert.ErrorIs(t, err, apperrors.ErrNotFound)

		_, err = users.FindByID(ctx, "not-a-uuid")
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}

func testTaskRepository(t *testing.T, users UserRepository, tasks TaskRepository) {
	ctx := context.Background()

	t.Run("ListIsScopedAndOrdered", func(t *testing.T) {
		alice := newUser(t, users)
		bob := newUser(t, users)
		base := time.Now().UTC().Truncate(time.Millisecond)

		second := newTask(alice.ID, "second", base.Add(time.Second))
		first := newTask(alice.ID, "first", base)
		other := newTask(bob.ID, "bob's", base)
		for _, task := range []*models.Task{second, first, other} {
			require.NoError(t, tasks.Create(ctx, task))
		}

		list, err := tasks.ListByOwner(ctx, alice.ID)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "first", list[0].Title)
		assert.Equal(t, "second", list[1].Title)
		for _, task := range list {
			assert.Equal(t, alice.ID, task.UserID)
			assert.False(t, task.Completed)
		}

		list, err = tasks.ListByOwner(ctx, bob.ID)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, other.ID, list[0].ID)
	})

	t.Run("EmptyList", func(t *testing.T) {
		u := newUser(t, users)
		list, err := tasks.ListByOwner(ctx, u.ID)
		require.NoError(t, err)
		assert.NotNil(t, list)
		assert.Empty(t, list)
	})

	t.Run("FindOwned", func(t *testing.T) {
		alice := newUser(t, users)
		bob := newUser(t, users)
		due := models.NewDate(2030, time.March, 14)
		task := newTask(alice.ID, "with due date", time.Now().UTC().Truncate(time.Millisecond))
		task.Description = "details"
		task.Priority = models.PriorityHigh
		task.DueDate = &due
		require.NoError(t, tasks.Create(ctx, task))

		got, err := tasks.FindOwned(ctx, alice.ID, task.ID)
		require.NoError(t, err)
		assert.Equal(t, "details", got.Description)
		assert.Equal(t, models.PriorityHigh, got.Priority)
		require.NotNil(t, got.DueDate)
		assert.Equal(t, "2030-03-14", got.DueDate.String())
		assert.WithinDuration(t, task.CreatedAt, got.CreatedAt, time.Millisecond)

		_, err = tasks.FindOwned(ctx, bob.ID, task.ID)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)

		_, err = tasks.FindOwned(ctx, alice.ID, uuid.NewString())
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("UpdateOwned", func(t *testing.T) {
		alice := newUser(t, users)
		bob := newUser(t, users)
		created := time.Now().UTC().Truncate(time.Millisecond)
		task := newTask(alice.ID, "original", created)
		require.NoError(t, tasks.Create(ctx, task))

		hijack := *task
		hijack.Title = "hijacked"
		err := tasks.UpdateOwned(ctx, bob.ID, &hijack)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)

		due := models.NewDate(2031, time.January, 2)
		updated := *task
		updated.Title = "renamed"
		updated.Completed = true
		updated.DueDate = &due
		updated.UpdatedAt = created.Add(time.Minute)
		require.NoError(t, tasks.UpdateOwned(ctx, alice.ID, &updated))

		got, err := tasks.FindOwned(ctx, alice.ID, task.ID)
		require.NoError(t, err)
		assert.Equal(t, "renamed", got.Title)
		assert.True(t, got.Completed)
		require.NotNil(t, got.DueDate)
		assert.Equal(t, "2031-01-02", got.DueDate.String())
		assert.WithinDuration(t, created, got.CreatedAt, time.Millisecond)
		assert.WithinDuration(t, updated.UpdatedAt, got.UpdatedAt, time.Millisecond)

		updated.DueDate = nil
		require.NoError(t, tasks.UpdateOwned(ctx, alice.ID, &updated))
		got, err = tasks.FindOwned(ctx, alice.ID, task.ID)
		require.NoError(t, err)
		assert.Nil(t, got.DueDate)

		missing := newTask(alice.ID, "ghost", created)
		assert.ErrorIs(t, tasks.UpdateOwned(ctx, alice.ID, missing), apperrors.ErrNotFound)
	})

	t.Run("DeleteOwned", func(t *testing.T) {
		alice := newUser(t, users)
		bob := newUser(t, users)
		task := newTask(alice.ID, "doomed", time.Now().UTC().Truncate(time.Millisecond))
		require.NoError(t, tasks.Create(ctx, task))

		assert.ErrorIs(t, tasks.DeleteOwned(ctx, bob.ID, task.ID), apperrors.ErrNotFound)

		require.NoError(t, tasks.DeleteOwned(ctx, alice.ID, task.ID))
		assert.ErrorIs(t, tasks.DeleteOwned(ctx, alice.ID, task.ID), apperrors.ErrNotFound)

		list, err := tasks.ListByOwner(ctx, alice.ID)
		require.NoError(t, err)
		assert.Empty(t, list)
	})
}
