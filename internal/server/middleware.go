package server

import (
	"net/http"

	"github.com/louisbranch/taskhub/internal/platform/httpx"
	"github.com/louisbranch/taskhub/internal/platform/requestctx"
)

// requireAuth rejects requests without a valid bearer token and records
// the authenticated user id on the request context for handlers.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := s.auth.Verify(httpx.BearerToken(r))
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(requestctx.WithUserID(r.Context(), userID)))
	})
}

func writeMethodNotAllowed(w http.ResponseWriter, allow string) {
	w.Header().Set("Allow", allow)
	_ = httpx.WriteJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
}

func writeEndpointNotFound(w http.ResponseWriter) {
	_ = httpx.WriteJSONError(w, http.StatusNotFound, "Endpoint not found")
}
