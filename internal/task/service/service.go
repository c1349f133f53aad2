// Package service implements caller-scoped task CRUD.
//
// Every operation takes the authenticated caller id and filters by it
// before touching a row. A task that exists but belongs to another user
// produces the same not-found outcome as a task that does not exist.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	apperrors "github.com/louisbranch/taskhub/internal/platform/errors"
	"github.com/louisbranch/taskhub/internal/platform/id"
	"github.com/louisbranch/taskhub/internal/storage"
	"github.com/louisbranch/taskhub/internal/task"
)

// ErrTaskNotFound covers both a task id that does not exist and a task
// owned by another user.
var ErrTaskNotFound = apperrors.New(apperrors.CodeNotFound, "Task not found")

// TaskService performs CRUD against the task store scoped to a caller.
type TaskService struct {
	tasks       storage.TaskStore
	clock       func() time.Time
	idGenerator func() (string, error)
}

// NewTaskService creates a TaskService with default dependencies.
func NewTaskService(tasks storage.TaskStore) *TaskService {
	return &TaskService{
		tasks:       tasks,
		clock:       time.Now,
		idGenerator: id.NewID,
	}
}

// List returns the caller's tasks ordered by creation time, newest
// first. A caller with no tasks gets an empty slice, not an error.
func (s *TaskService) List(ctx context.Context, callerID string) ([]task.Task, error) {
	if s.tasks == nil {
		return nil, fmt.Errorf("task store is not configured")
	}
	found, err := s.tasks.ListTasks(ctx, callerID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	if found == nil {
		found = []task.Task{}
	}
	return found, nil
}

// Create persists a new task owned by the caller.
func (s *TaskService) Create(ctx context.Context, callerID, title, description string) (task.Task, error) {
	if s.tasks == nil {
		return task.Task{}, fmt.Errorf("task store is not configured")
	}
	created, err := task.CreateTask(task.CreateTaskInput{
		OwnerID:     callerID,
		Title:       title,
		Description: description,
	}, s.clock, s.idGenerator)
	if err != nil {
		return task.Task{}, err
	}
	if err := s.tasks.PutTask(ctx, created); err != nil {
		return task.Task{}, fmt.Errorf("persist task: %w", err)
	}
	return created, nil
}

// Get returns the caller's task with the given id.
func (s *TaskService) Get(ctx context.Context, callerID, taskID string) (task.Task, error) {
	if s.tasks == nil {
		return task.Task{}, fmt.Errorf("task store is not configured")
	}
	found, err := s.tasks.GetTask(ctx, callerID, taskID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return task.Task{}, ErrTaskNotFound
		}
		return task.Task{}, fmt.Errorf("get task: %w", err)
	}
	return found, nil
}

// Update applies a partial update to the caller's task. Absent fields
// are left unchanged; the updated timestamp is always refreshed.
func (s *TaskService) Update(ctx context.Context, callerID, taskID string, in task.UpdateTaskInput) (task.Task, error) {
	if s.tasks == nil {
		return task.Task{}, fmt.Errorf("task store is not configured")
	}
	current, err := s.tasks.GetTask(ctx, callerID, taskID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return task.Task{}, ErrTaskNotFound
		}
		return task.Task{}, fmt.Errorf("get task: %w", err)
	}
	updated, err := task.ApplyUpdate(current, in, s.clock)
	if err != nil {
		return task.Task{}, err
	}
	if err := s.tasks.PutTask(ctx, updated); err != nil {
		return task.Task{}, fmt.Errorf("persist task: %w", err)
	}
	return updated, nil
}

// Delete permanently removes the caller's task with the given id.
func (s *TaskService) Delete(ctx context.Context, callerID, taskID string) error {
	if s.tasks == nil {
		return fmt.Errorf("task store is not configured")
	}
	if err := s.tasks.DeleteTask(ctx, callerID, taskID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}
