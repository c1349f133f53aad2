package server

import (
	"bytes"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	authservice "github.com/louisbranch/taskhub/internal/auth/service"
	"github.com/louisbranch/taskhub/internal/auth/token"
	"github.com/louisbranch/taskhub/internal/storage/sqlite"
	taskservice "github.com/louisbranch/taskhub/internal/task/service"
)

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()

	store, err := sqlite.Open(filepath.Join(t.TempDir(), "taskhub.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Fatalf("close store: %v", err)
		}
	})

	publicKey, privateKey, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	tokens := token.Config{
		Issuer:     "taskhub",
		Audience:   "taskhub-api",
		PrivateKey: privateKey,
		PublicKey:  publicKey,
		TTL:        token.DefaultTTL,
	}

	srv, err := New("127.0.0.1:0", authservice.NewAuthService(store, tokens), taskservice.NewTaskService(store))
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	return srv.Handler()
}

func doJSON(t *testing.T, handler http.Handler, method, path, bearer string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var reader bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&reader).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &reader)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	decoded := map[string]any{}
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &decoded); err != nil {
			t.Fatalf("decode %s %s response %q: %v", method, path, rec.Body.String(), err)
		}
	}
	return rec, decoded
}

func registerUser(t *testing.T, handler http.Handler, username, email string) string {
	t.Helper()
	rec, body := doJSON(t, handler, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": username,
		"email":    email,
		"password": "secret123",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register %s: status = %d, body = %v", username, rec.Code, body)
	}
	bearer, _ := body["access_token"].(string)
	if bearer == "" {
		t.Fatalf("register %s: missing access_token in %v", username, body)
	}
	return bearer
}

func TestHomeReportsMetadata(t *testing.T) {
	handler := newTestHandler(t)

	rec, body := doJSON(t, handler, http.MethodGet, "/", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if body["message"] != "Task Manager API" || body["version"] != Version {
		t.Fatalf("body = %v", body)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Fatalf("content type = %q", ct)
	}
}

func TestUnknownPathIsJSONNotFound(t *testing.T) {
	handler := newTestHandler(t)

	rec, body := doJSON(t, handler, http.MethodGet, "/nope", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
	if body["error"] != "Endpoint not found" {
		t.Fatalf("body = %v", body)
	}
}

func TestRegisterEnvelope(t *testing.T) {
	handler := newTestHandler(t)

	rec, body := doJSON(t, handler, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": "alice", "email": "alice@x.com", "password": "pw1",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %v", rec.Code, body)
	}
	if body["message"] != "User created successfully" {
		t.Fatalf("message = %v", body["message"])
	}
	userBody, ok := body["user"].(map[string]any)
	if !ok {
		t.Fatalf("body = %v", body)
	}
	if userBody["username"] != "alice" || userBody["email"] != "alice@x.com" {
		t.Fatalf("user = %v", userBody)
	}
	for _, leak := range []string{"password", "password_hash"} {
		if _, present := userBody[leak]; present {
			t.Fatalf("user payload leaks %q: %v", leak, userBody)
		}
	}
}

func TestRegisterValidationAndConflicts(t *testing.T) {
	handler := newTestHandler(t)
	registerUser(t, handler, "alice", "alice@x.com")

	cases := []struct {
		name    string
		payload map[string]string
		message string
	}{
		{"missing fields", map[string]string{"username": "bob"}, "Username, email, and password are required"},
		{"username taken", map[string]string{"username": "alice", "email": "other@x.com", "password": "pw"}, "Username already exists"},
		{"email taken", map[string]string{"username": "bob", "email": "alice@x.com", "password": "pw"}, "Email already exists"},
	}
	for _, tc := range cases {
		rec, body := doJSON(t, handler, http.MethodPost, "/api/auth/register", "", tc.payload)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: status = %d, body = %v", tc.name, rec.Code, body)
		}
		if body["error"] != tc.message {
			t.Fatalf("%s: error = %v, want %q", tc.name, body["error"], tc.message)
		}
	}
}

func TestLoginRoutes(t *testing.T) {
	handler := newTestHandler(t)
	registerUser(t, handler, "alice", "alice@x.com")

	rec, body := doJSON(t, handler, http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": "alice", "password": "secret123",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login: status = %d, body = %v", rec.Code, body)
	}
	if body["message"] != "Login successful" {
		t.Fatalf("message = %v", body["message"])
	}
	if bearer, _ := body["access_token"].(string); bearer == "" {
		t.Fatalf("missing access_token in %v", body)
	}

	rec, body = doJSON(t, handler, http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": "alice", "password": "wrong",
	})
	if rec.Code != http.StatusUnauthorized || body["error"] != "Invalid credentials" {
		t.Fatalf("bad password: status = %d, body = %v", rec.Code, body)
	}

	rec, body = doJSON(t, handler, http.MethodPost, "/api/auth/login", "", map[string]string{"username": "alice"})
	if rec.Code != http.StatusBadRequest || body["error"] != "Username and password are required" {
		t.Fatalf("missing password: status = %d, body = %v", rec.Code, body)
	}
}

func TestTasksRequireAuthentication(t *testing.T) {
	handler := newTestHandler(t)

	rec, body := doJSON(t, handler, http.MethodGet, "/api/tasks", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("missing token: status = %d, body = %v", rec.Code, body)
	}

	rec, body = doJSON(t, handler, http.MethodGet, "/api/tasks", "garbage", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("garbage token: status = %d, body = %v", rec.Code, body)
	}
	if _, ok := body["error"].(string); !ok {
		t.Fatalf("expected error envelope, got %v", body)
	}
}

func TestTaskLifecycle(t *testing.T) {
	handler := newTestHandler(t)
	bearer := registerUser(t, handler, "alice", "alice@x.com")

	rec, body := doJSON(t, handler, http.MethodPost, "/api/tasks", bearer, map[string]string{
		"title": "Buy milk", "description": "2%",
	})
	if rec.Code != http.StatusCreated || body["message"] != "Task created successfully" {
		t.Fatalf("create: status = %d, body = %v", rec.Code, body)
	}
	created := body["task"].(map[string]any)
	taskID := created["id"].(string)
	if created["title"] != "Buy milk" || created["completed"] != false {
		t.Fatalf("task = %v", created)
	}

	rec, body = doJSON(t, handler, http.MethodGet, "/api/tasks", bearer, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list: status = %d", rec.Code)
	}
	if body["count"] != float64(1) {
		t.Fatalf("count = %v", body["count"])
	}

	rec, body = doJSON(t, handler, http.MethodPut, "/api/tasks/"+taskID, bearer, map[string]any{
		"completed": true,
	})
	if rec.Code != http.StatusOK || body["message"] != "Task updated successfully" {
		t.Fatalf("update: status = %d, body = %v", rec.Code, body)
	}
	updated := body["task"].(map[string]any)
	if updated["completed"] != true || updated["title"] != "Buy milk" {
		t.Fatalf("updated task = %v", updated)
	}

	rec, body = doJSON(t, handler, http.MethodGet, "/api/tasks/"+taskID, bearer, nil)
	if rec.Code != http.StatusOK || body["completed"] != true {
		t.Fatalf("get: status = %d, body = %v", rec.Code, body)
	}

	rec, body = doJSON(t, handler, http.MethodDelete, "/api/tasks/"+taskID, bearer, nil)
	if rec.Code != http.StatusOK || body["message"] != "Task deleted successfully" {
		t.Fatalf("delete: status = %d, body = %v", rec.Code, body)
	}

	rec, body = doJSON(t, handler, http.MethodGet, "/api/tasks", bearer, nil)
	if rec.Code != http.StatusOK || body["count"] != float64(0) {
		t.Fatalf("list after delete: status = %d, body = %v", rec.Code, body)
	}
	if tasks, ok := body["tasks"].([]any); !ok || len(tasks) != 0 {
		t.Fatalf("tasks = %v", body["tasks"])
	}
}

func TestTaskOwnershipCollapsesToNotFound(t *testing.T) {
	handler := newTestHandler(t)
	alice := registerUser(t, handler, "alice", "alice@x.com")
	mallory := registerUser(t, handler, "mallory", "mallory@x.com")

	_, body := doJSON(t, handler, http.MethodPost, "/api/tasks", alice, map[string]string{"title": "Buy milk"})
	taskID := body["task"].(map[string]any)["id"].(string)

	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
		var payload any
		if method == http.MethodPut {
			payload = map[string]any{"completed": true}
		}
		rec, body := doJSON(t, handler, method, "/api/tasks/"+taskID, mallory, payload)
		if rec.Code != http.StatusNotFound || body["error"] != "Task not found" {
			t.Fatalf("%s as other user: status = %d, body = %v", method, rec.Code, body)
		}
	}

	// Still intact for the owner.
	rec, _ := doJSON(t, handler, http.MethodGet, "/api/tasks/"+taskID, alice, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("owner get: status = %d", rec.Code)
	}
}

func TestCreateTaskRequiresTitle(t *testing.T) {
	handler := newTestHandler(t)
	bearer := registerUser(t, handler, "alice", "alice@x.com")

	rec, body := doJSON(t, handler, http.MethodPost, "/api/tasks", bearer, map[string]string{"description": "no title"})
	if rec.Code != http.StatusBadRequest || body["error"] != "Title is required" {
		t.Fatalf("status = %d, body = %v", rec.Code, body)
	}

	rec, body = doJSON(t, handler, http.MethodPost, "/api/tasks", bearer, map[string]string{"title": "   "})
	if rec.Code != http.StatusBadRequest || body["error"] != "Title is required" {
		t.Fatalf("blank title: status = %d, body = %v", rec.Code, body)
	}
}

func TestUpdateRejectsBlankTitle(t *testing.T) {
	handler := newTestHandler(t)
	bearer := registerUser(t, handler, "alice", "alice@x.com")

	_, body := doJSON(t, handler, http.MethodPost, "/api/tasks", bearer, map[string]string{"title": "Buy milk"})
	taskID := body["task"].(map[string]any)["id"].(string)

	rec, body := doJSON(t, handler, http.MethodPut, "/api/tasks/"+taskID, bearer, map[string]any{"title": ""})
	if rec.Code != http.StatusBadRequest || body["error"] != "Title is required" {
		t.Fatalf("status = %d, body = %v", rec.Code, body)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	handler := newTestHandler(t)
	bearer := registerUser(t, handler, "alice", "alice@x.com")

	rec, body := doJSON(t, handler, http.MethodGet, "/api/auth/register", "", nil)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("register GET: status = %d, body = %v", rec.Code, body)
	}
	if rec.Header().Get("Allow") != http.MethodPost {
		t.Fatalf("Allow = %q", rec.Header().Get("Allow"))
	}

	rec, _ = doJSON(t, handler, http.MethodPatch, "/api/tasks", bearer, nil)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("tasks PATCH: status = %d", rec.Code)
	}
}

func TestMalformedJSONBody(t *testing.T) {
	handler := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["error"] != "Invalid request body" {
		t.Fatalf("body = %v", body)
	}
}

func TestRequestIDHeader(t *testing.T) {
	handler := newTestHandler(t)

	rec, _ := doJSON(t, handler, http.MethodGet, "/", "", nil)
	if rec.Header().Get("X-Request-ID") == "" {
		t.Fatal("expected request id header")
	}
}
