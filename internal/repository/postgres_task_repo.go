package repository

import (
	"context"
	"database/sql"
	"fmt"

	"taskboard/internal/apperrors"
	"taskboard/internal/models"
)

const taskColumns = "id, user_id, title, description, priority, due_date, completed, created_at, updated_at"

type PostgresTaskRepo struct {
	db *sql.DB
}

func NewPostgresTaskRepo(db *sql.DB) *PostgresTaskRepo {
	return &PostgresTaskRepo{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(s rowScanner) (*models.Task, error) {
	var t models.Task
	err := s.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &t.Priority, &t.DueDate, &t.Completed, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *PostgresTaskRepo) ListByOwner(ctx context.Context, ownerID string) ([]models.Task, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+taskColumns+" FROM tasks WHERE user_id = $1 ORDER BY created_at, id", ownerID)
	if err != nil {
		return nil, mapPQReadError(err, "query tasks")
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tasks: %w", err)
	}
	return tasks, nil
}

func (r *PostgresTaskRepo) Create(ctx context.Context, task *models.Task) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO tasks ("+taskColumns+") VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)",
		task.ID, task.UserID, task.Title, task.Description, task.Priority, task.DueDate,
		task.Completed, task.CreatedAt, task.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

func (r *PostgresTaskRepo) FindOwned(ctx context.Context, ownerID, taskID string) (*models.Task, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+taskColumns+" FROM tasks WHERE id = $1 AND user_id = $2", taskID, ownerID)
	t, err := scanTask(row)
	if err != nil {
		return nil, mapPQReadError(err, "scan task")
	}
	return t, nil
}

func (r *PostgresTaskRepo) UpdateOwned(ctx context.Context, ownerID string, task *models.Task) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE tasks
		SET title = $1, description = $2, priority = $3, due_date = $4, completed = $5, updated_at = $6
		WHERE id = $7 AND user_id = $8`,
		task.Title, task.Description, task.Priority, task.DueDate, task.Completed, task.UpdatedAt,
		task.ID, ownerID,
	)
	if err != nil {
		return mapPQReadError(err, "update task")
	}
	return expectOneRow(res)
}

func (r *PostgresTaskRepo) DeleteOwned(ctx context.Context, ownerID, taskID string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM tasks WHERE id = $1 AND user_id = $2", taskID, ownerID)
	if err != nil {
		return mapPQReadError(err, "delete task")
	}
	return expectOneRow(res)
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
