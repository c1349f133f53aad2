// Package server exposes the auth and task services over HTTP/JSON.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	authservice "github.com/louisbranch/taskhub/internal/auth/service"
	"github.com/louisbranch/taskhub/internal/platform/httpx"
	taskservice "github.com/louisbranch/taskhub/internal/task/service"
)

// Version is reported by the service metadata route.
const Version = "1.0"

// serviceName identifies this server in trace spans.
const serviceName = "taskhub-api"

// shutdownTimeout caps the graceful drain on stop.
const shutdownTimeout = 5 * time.Second

// Server hosts the task-tracking HTTP API.
type Server struct {
	addr       string
	auth       *authservice.AuthService
	tasks      *taskservice.TaskService
	httpServer *http.Server
}

// New creates a configured server for the given address and services.
func New(addr string, auth *authservice.AuthService, tasks *taskservice.TaskService) (*Server, error) {
	if auth == nil {
		return nil, fmt.Errorf("auth service is required")
	}
	if tasks == nil {
		return nil, fmt.Errorf("task service is required")
	}

	s := &Server{
		addr:  addr,
		auth:  auth,
		tasks: tasks,
	}
	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: s.Handler(),
	}
	return s, nil
}

// Handler builds the routed HTTP handler with the ambient middleware
// applied. It is exposed so tests can drive the full stack in-process.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/auth/register", s.handleRegister)
	mux.HandleFunc("/api/auth/login", s.handleLogin)
	mux.Handle("/api/tasks", s.requireAuth(http.HandlerFunc(s.handleTasks)))
	mux.Handle("/api/tasks/", s.requireAuth(http.HandlerFunc(s.handleTaskByID)))
	mux.HandleFunc("/", s.handleHome)

	return httpx.Chain(mux,
		httpx.RequestID(),
		httpx.RecoverPanic(),
		httpx.Trace(serviceName),
	)
}

// Serve starts the server and blocks until it stops or the context ends.
func (s *Server) Serve(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.addr, err)
	}

	log.Printf("task API listening at %v", listener.Addr())
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.httpServer.Serve(listener)
	}()

	select {
	case err := <-serveErr:
		if err == nil || errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http: %w", err)
	}
	if err := <-serveErr; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve http: %w", err)
	}
	return nil
}
