// Package storage defines the persistence contracts for users and tasks.
package storage

import (
	"context"

	"github.com/louisbranch/taskhub/internal/auth/user"
	"github.com/louisbranch/taskhub/internal/platform/errors"
	"github.com/louisbranch/taskhub/internal/task"
)

// ErrNotFound indicates a requested record is missing. Task lookups
// return it both when the id does not exist and when the record belongs
// to another user, so the two cases are indistinguishable to callers.
var ErrNotFound = errors.New(errors.CodeNotFound, "record not found")

// UserStore persists credential records.
type UserStore interface {
	PutUser(ctx context.Context, u user.User) error
	GetUser(ctx context.Context, userID string) (user.User, error)
	GetUserByUsername(ctx context.Context, username string) (user.User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	EmailExists(ctx context.Context, email string) (bool, error)
}

// TaskStore persists task records. Every read and write that addresses a
// single task filters by both task id and owner id.
type TaskStore interface {
	PutTask(ctx context.Context, t task.Task) error
	GetTask(ctx context.Context, ownerID, taskID string) (task.Task, error)
	ListTasks(ctx context.Context, ownerID string) ([]task.Task, error)
	DeleteTask(ctx context.Context, ownerID, taskID string) error
}
