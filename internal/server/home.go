package server

import (
	"net/http"

	"github.com/louisbranch/taskhub/internal/platform/httpx"
)

// homeResponse describes the API for unauthenticated discovery.
type homeResponse struct {
	Message   string            `json:"message"`
	Version   string            `json:"version"`
	Endpoints map[string]string `json:"endpoints"`
}

// handleHome answers the root route with service metadata. The catch-all
// registration means it also fields every unknown path.
func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeEndpointNotFound(w)
		return
	}
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w, http.MethodGet)
		return
	}

	_ = httpx.WriteJSON(w, http.StatusOK, homeResponse{
		Message: "Task Manager API",
		Version: Version,
		Endpoints: map[string]string{
			"auth":  "/api/auth/",
			"tasks": "/api/tasks/",
		},
	})
}
