package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/louisbranch/taskhub/internal/platform/httpx"
	"github.com/louisbranch/taskhub/internal/platform/requestctx"
	"github.com/louisbranch/taskhub/internal/task"
)

func (s *Server) handleTasks(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listTasks(w, r)
	case http.MethodPost:
		s.createTask(w, r)
	default:
		writeMethodNotAllowed(w, "GET, POST")
	}
}

func (s *Server) handleTaskByID(w http.ResponseWriter, r *http.Request) {
	taskID := strings.TrimPrefix(r.URL.Path, "/api/tasks/")
	if taskID == "" || strings.Contains(taskID, "/") {
		writeEndpointNotFound(w)
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.getTask(w, r, taskID)
	case http.MethodPut:
		s.updateTask(w, r, taskID)
	case http.MethodDelete:
		s.deleteTask(w, r, taskID)
	default:
		writeMethodNotAllowed(w, "GET, PUT, DELETE")
	}
}

func (s *Server) listTasks(w http.ResponseWriter, r *http.Request) {
	callerID := requestctx.UserIDFromContext(r.Context())

	tasks, err := s.tasks.List(r.Context(), callerID)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}

	payload := taskListResponse{
		Tasks: make([]taskPayload, 0, len(tasks)),
		Count: len(tasks),
	}
	for _, t := range tasks {
		payload.Tasks = append(payload.Tasks, taskToPayload(t))
	}
	_ = httpx.WriteJSON(w, http.StatusOK, payload)
}

func (s *Server) createTask(w http.ResponseWriter, r *http.Request) {
	callerID := requestctx.UserIDFromContext(r.Context())

	var req createTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = httpx.WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	created, err := s.tasks.Create(r.Context(), callerID, req.Title, req.Description)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}

	_ = httpx.WriteJSON(w, http.StatusCreated, taskResponse{
		Message: "Task created successfully",
		Task:    taskToPayload(created),
	})
}

func (s *Server) getTask(w http.ResponseWriter, r *http.Request, taskID string) {
	callerID := requestctx.UserIDFromContext(r.Context())

	found, err := s.tasks.Get(r.Context(), callerID, taskID)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, taskToPayload(found))
}

func (s *Server) updateTask(w http.ResponseWriter, r *http.Request, taskID string) {
	callerID := requestctx.UserIDFromContext(r.Context())

	var req updateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = httpx.WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	updated, err := s.tasks.Update(r.Context(), callerID, taskID, task.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
	})
	if err != nil {
		httpx.WriteError(w, err)
		return
	}

	_ = httpx.WriteJSON(w, http.StatusOK, taskResponse{
		Message: "Task updated successfully",
		Task:    taskToPayload(updated),
	})
}

func (s *Server) deleteTask(w http.ResponseWriter, r *http.Request, taskID string) {
	callerID := requestctx.UserIDFromContext(r.Context())

	if err := s.tasks.Delete(r.Context(), callerID, taskID); err != nil {
		httpx.WriteError(w, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, messageResponse{Message: "Task deleted successfully"})
}
