package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/louisbranch/taskhub/internal/storage"
	"github.com/louisbranch/taskhub/internal/task"
)

// PutTask upserts a task record. The owner column never changes after
// the first insert.
func (s *Store) PutTask(ctx context.Context, t task.Task) error {
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(t.ID) == "" {
		return fmt.Errorf("task id is required")
	}
	if strings.TrimSpace(t.OwnerID) == "" {
		return fmt.Errorf("task owner id is required")
	}

	completed := int64(0)
	if t.Completed {
		completed = 1
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO tasks (id, user_id, title, description, completed, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		    title = excluded.title,
		    description = excluded.description,
		    completed = excluded.completed,
		    updated_at = excluded.updated_at
		 WHERE tasks.user_id = excluded.user_id`,
		t.ID,
		t.OwnerID,
		t.Title,
		t.Description,
		completed,
		toMillis(t.CreatedAt),
		toMillis(t.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("put task: %w", err)
	}
	return nil
}

// GetTask loads a task by id, scoped to its owner. A task owned by
// another user is reported as missing.
func (s *Store) GetTask(ctx context.Context, ownerID, taskID string) (task.Task, error) {
	if s == nil || s.sqlDB == nil {
		return task.Task{}, fmt.Errorf("storage is not configured")
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, user_id, title, description, completed, created_at, updated_at
		 FROM tasks
		 WHERE id = ? AND user_id = ?`,
		taskID,
		ownerID,
	)

	var t task.Task
	var completed int64
	var createdAt int64
	var updatedAt int64
	if err := row.Scan(&t.ID, &t.OwnerID, &t.Title, &t.Description, &completed, &createdAt, &updatedAt); err != nil {
		if err == sql.ErrNoRows {
			return task.Task{}, storage.ErrNotFound
		}
		return task.Task{}, fmt.Errorf("get task: %w", err)
	}
	t.Completed = completed != 0
	t.CreatedAt = fromMillis(createdAt)
	t.UpdatedAt = fromMillis(updatedAt)
	return t, nil
}

// ListTasks returns all tasks owned by the user, newest first. Ties on
// the creation timestamp fall back to id order so listing is stable.
func (s *Store) ListTasks(ctx context.Context, ownerID string) ([]task.Task, error) {
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, user_id, title, description, completed, created_at, updated_at
		 FROM tasks
		 WHERE user_id = ?
		 ORDER BY created_at DESC, id DESC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	tasks := []task.Task{}
	for rows.Next() {
		var t task.Task
		var completed int64
		var createdAt int64
		var updatedAt int64
		if err := rows.Scan(&t.ID, &t.OwnerID, &t.Title, &t.Description, &completed, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		t.Completed = completed != 0
		t.CreatedAt = fromMillis(createdAt)
		t.UpdatedAt = fromMillis(updatedAt)
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tasks: %w", err)
	}
	return tasks, nil
}

// DeleteTask permanently removes a task, scoped to its owner.
func (s *Store) DeleteTask(ctx context.Context, ownerID, taskID string) error {
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}

	result, err := s.sqlDB.ExecContext(
		ctx,
		`DELETE FROM tasks WHERE id = ? AND user_id = ?`,
		taskID,
		ownerID,
	)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete task rows affected: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}
