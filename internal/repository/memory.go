package repository

import (
	"context"
	"sort"
	"sync"

	"taskboard/internal/apperrors"
	"taskboard/internal/models"
)

// MemoryStore keeps users and tasks in process memory. It backs the HTTP
// tests and local runs without a database.
type MemoryStore struct {
	mu      sync.RWMutex
	users   map[string]models.User
	byEmail map[string]string
	tasks   map[string]models.Task
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:   make(map[string]models.User),
		byEmail: make(map[string]string),
		tasks:   make(map[string]models.Task),
	}
}

func (m *MemoryStore) Users() UserRepository { return memoryUsers{m} }
func (m *MemoryStore) Tasks() TaskRepository { return memoryTasks{m} }

type memoryUsers struct{ m *MemoryStore }

func (r memoryUsers) Create(_ context.Context, user *models.User) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if _, ok := r.m.byEmail[user.Email]; ok {
		return apperrors.ErrDuplicateEmail
	}
	r.m.users[user.ID] = *user
	r.m.byEmail[user.Email] = user.ID
	return nil
}

func (r memoryUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	id, ok := r.m.byEmail[email]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	u := r.m.users[id]
	return &u, nil
}

func (r memoryUsers) FindByID(_ context.Context, id string) (*models.User, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	u, ok := r.m.users[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &u, nil
}

type memoryTasks struct{ m *MemoryStore }

func (r memoryTasks) ListByOwner(_ context.Context, ownerID string) ([]models.Task, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	tasks := []models.Task{}
	for _, t := range r.m.tasks {
		if t.UserID == ownerID {
			tasks = append(tasks, t)
		}
	}
	sort.SliceStable(tasks, func(i, j int) bool {
		if tasks[i].CreatedAt.Equal(tasks[j].CreatedAt) {
			return tasks[i].ID < tasks[j].ID
		}
		return tasks[i].CreatedAt.Before(tasks[j].CreatedAt)
	})
	return tasks, nil
}

func (r memoryTasks) Create(_ context.Context, task *models.Task) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	r.m.tasks[task.ID] = *task
	return nil
}

func (r memoryTasks) FindOwned(_ context.Context, ownerID, taskID string) (*models.Task, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	t, ok := r.m.tasks[taskID]
	if !ok || t.UserID != ownerID {
		return nil, apperrors.ErrNotFound
	}
	return &t, nil
}

func (r memoryTasks) UpdateOwned(_ context.Context, ownerID string, task *models.Task) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	existing, ok := r.m.tasks[task.ID]
	if !ok || existing.UserID != ownerID {
		return apperrors.ErrNotFound
	}
	updated := *task
	updated.UserID = ownerID
	updated.CreatedAt = existing.CreatedAt
	r.m.tasks[task.ID] = updated
	return nil
}

func (r memoryTasks) DeleteOwned(_ context.Context, ownerID, taskID string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	t, ok := r.m.tasks[taskID]
	if !ok || t.UserID != ownerID {
		return apperrors.ErrNotFound
	}
	delete(r.m.tasks, taskID)
	return nil
}
