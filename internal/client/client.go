// Package client is a Go client for the task-tracking HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// User is the public user summary returned by the API.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// Task is a task record returned by the API.
type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Session is the outcome of a successful register or login call.
type Session struct {
	Token string
	User  User
}

// UpdateTaskInput is a partial task update. Nil fields are left
// unchanged by the server.
type UpdateTaskInput struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Completed   *bool   `json:"completed,omitempty"`
}

// APIError is a non-success response from the API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("api error: status %d", e.StatusCode)
}

// Client calls the task-tracking API. It is safe for concurrent use
// once the token is set.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// New creates a client for the API at baseURL.
func New(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// SetToken stores the bearer token used on task requests.
func (c *Client) SetToken(token string) {
	c.token = token
}

// Register creates an account and stores the returned token.
func (c *Client) Register(ctx context.Context, username, email, password string) (Session, error) {
	var resp struct {
		AccessToken string `json:"access_token"`
		User        User   `json:"user"`
	}
	body := map[string]string{"username": username, "email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", body, &resp); err != nil {
		return Session{}, err
	}
	c.token = resp.AccessToken
	return Session{Token: resp.AccessToken, User: resp.User}, nil
}

// Login authenticates and stores the returned token.
func (c *Client) Login(ctx context.Context, username, password string) (Session, error) {
	var resp struct {
		AccessToken string `json:"access_token"`
		User        User   `json:"user"`
	}
	body := map[string]string{"username": username, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", body, &resp); err != nil {
		return Session{}, err
	}
	c.token = resp.AccessToken
	return Session{Token: resp.AccessToken, User: resp.User}, nil
}

// ListTasks returns the caller's tasks, newest first.
func (c *Client) ListTasks(ctx context.Context) ([]Task, error) {
	var resp struct {
		Tasks []Task `json:"tasks"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/tasks", nil, &resp); err != nil {
		return nil, err
	}
	if resp.Tasks == nil {
		resp.Tasks = []Task{}
	}
	return resp.Tasks, nil
}

// CreateTask creates a task owned by the caller.
func (c *Client) CreateTask(ctx context.Context, title, description string) (Task, error) {
	var resp struct {
		Task Task `json:"task"`
	}
	body := map[string]string{"title": title, "description": description}
	if err := c.do(ctx, http.MethodPost, "/api/tasks", body, &resp); err != nil {
		return Task{}, err
	}
	return resp.Task, nil
}

// GetTask returns one of the caller's tasks by id.
func (c *Client) GetTask(ctx context.Context, taskID string) (Task, error) {
	var resp Task
	if err := c.do(ctx, http.MethodGet, c.taskPath(taskID), nil, &resp); err != nil {
		return Task{}, err
	}
	return resp, nil
}

// UpdateTask applies a partial update to one of the caller's tasks.
func (c *Client) UpdateTask(ctx context.Context, taskID string, in UpdateTaskInput) (Task, error) {
	var resp struct {
		Task Task `json:"task"`
	}
	if err := c.do(ctx, http.MethodPut, c.taskPath(taskID), in, &resp); err != nil {
		return Task{}, err
	}
	return resp.Task, nil
}

// DeleteTask permanently removes one of the caller's tasks.
func (c *Client) DeleteTask(ctx context.Context, taskID string) error {
	return c.do(ctx, http.MethodDelete, c.taskPath(taskID), nil, nil)
}

func (c *Client) taskPath(taskID string) string {
	return "/api/tasks/" + url.PathEscape(taskID)
}

func (c *Client) do(ctx context.Context, method, path string, body, target any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var envelope struct {
			Error string `json:"error"`
		}
		if err := json.Unmarshal(payload, &envelope); err == nil {
			apiErr.Message = envelope.Error
		}
		return apiErr
	}

	if target == nil {
		return nil
	}
	if err := json.Unmarshal(payload, target); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
