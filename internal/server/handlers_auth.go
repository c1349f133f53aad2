package server

import (
	"encoding/json"
	"net/http"

	authservice "github.com/louisbranch/taskhub/internal/auth/service"
	"github.com/louisbranch/taskhub/internal/platform/httpx"
)

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w, http.MethodPost)
		return
	}

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = httpx.WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	session, err := s.auth.Register(r.Context(), authservice.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		httpx.WriteError(w, err)
		return
	}

	_ = httpx.WriteJSON(w, http.StatusCreated, authResponse{
		Message:     "User created successfully",
		AccessToken: session.Token,
		User:        userToPayload(session.User),
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w, http.MethodPost)
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = httpx.WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	session, err := s.auth.Login(r.Context(), authservice.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		httpx.WriteError(w, err)
		return
	}

	_ = httpx.WriteJSON(w, http.StatusOK, authResponse{
		Message:     "Login successful",
		AccessToken: session.Token,
		User:        userToPayload(session.User),
	})
}
