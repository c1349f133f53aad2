package server

import (
	"time"

	"github.com/louisbranch/taskhub/internal/auth/user"
	"github.com/louisbranch/taskhub/internal/task"
)

// userPayload is the public user summary. The password hash never
// appears here.
type userPayload struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

func userToPayload(u user.User) userPayload {
	return userPayload{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}

// taskPayload is the wire form of a task record.
type taskPayload struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func taskToPayload(t task.Task) taskPayload {
	return taskPayload{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Completed:   t.Completed,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// authResponse is the success envelope for register and login.
type authResponse struct {
	Message     string      `json:"message"`
	AccessToken string      `json:"access_token"`
	User        userPayload `json:"user"`
}

// taskResponse is the success envelope for task create and update.
type taskResponse struct {
	Message string      `json:"message"`
	Task    taskPayload `json:"task"`
}

// taskListResponse is the success envelope for task listing.
type taskListResponse struct {
	Tasks []taskPayload `json:"tasks"`
	Count int           `json:"count"`
}

// messageResponse carries a bare confirmation message.
type messageResponse struct {
	Message string `json:"message"`
}

// registerRequest is the register request body.
type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// loginRequest is the login request body.
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// createTaskRequest is the task creation request body.
type createTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// updateTaskRequest is the partial task update request body. Nil fields
// were absent from the request and must not change the record.
type updateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`
}
