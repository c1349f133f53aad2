// Package task provides per-user task records and the operations on them.
package task

import (
	"fmt"
	"strings"
	"time"

	apperrors "github.com/louisbranch/taskhub/internal/platform/errors"
	"github.com/louisbranch/taskhub/internal/platform/id"
)

// ErrEmptyTitle indicates a missing task title.
var ErrEmptyTitle = apperrors.New(apperrors.CodeTaskTitleRequired, "Title is required")

// Task represents a single task record owned by exactly one user.
type Task struct {
	ID          string
	OwnerID     string
	Title       string
	Description string
	Completed   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CreateTaskInput describes the metadata needed to create a task.
type CreateTaskInput struct {
	OwnerID     string
	Title       string
	Description string
}

// UpdateTaskInput describes a partial task update. Nil fields are left
// unchanged.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Completed   *bool
}

// CreateTask creates a new task with a generated ID and timestamps. The
// completed flag starts false and the description defaults to empty.
func CreateTask(input CreateTaskInput, now func() time.Time, idGenerator func() (string, error)) (Task, error) {
	if now == nil {
		now = time.Now
	}
	if idGenerator == nil {
		idGenerator = id.NewID
	}

	normalized, err := NormalizeCreateTaskInput(input)
	if err != nil {
		return Task{}, err
	}

	taskID, err := idGenerator()
	if err != nil {
		return Task{}, fmt.Errorf("generate task id: %w", err)
	}

	createdAt := now().UTC()
	return Task{
		ID:          taskID,
		OwnerID:     normalized.OwnerID,
		Title:       normalized.Title,
		Description: normalized.Description,
		Completed:   false,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}, nil
}

// NormalizeCreateTaskInput trims and validates task creation input.
func NormalizeCreateTaskInput(input CreateTaskInput) (CreateTaskInput, error) {
	input.OwnerID = strings.TrimSpace(input.OwnerID)
	if input.OwnerID == "" {
		return CreateTaskInput{}, fmt.Errorf("owner id is required")
	}
	input.Title = strings.TrimSpace(input.Title)
	if input.Title == "" {
		return CreateTaskInput{}, ErrEmptyTitle
	}
	return input, nil
}

// ApplyUpdate applies the present fields of a partial update to the task.
// The updated timestamp is always refreshed, even when no field changed.
func ApplyUpdate(t Task, input UpdateTaskInput, now func() time.Time) (Task, error) {
	if now == nil {
		now = time.Now
	}
	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return Task{}, ErrEmptyTitle
		}
		t.Title = title
	}
	if input.Description != nil {
		t.Description = *input.Description
	}
	if input.Completed != nil {
		t.Completed = *input.Completed
	}
	t.UpdatedAt = now().UTC()
	return t, nil
}
