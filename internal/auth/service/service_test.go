package service

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/louisbranch/taskhub/internal/auth/token"
	"github.com/louisbranch/taskhub/internal/auth/user"
	apperrors "github.com/louisbranch/taskhub/internal/platform/errors"
	"github.com/louisbranch/taskhub/internal/storage/sqlite"
)

func testTokenConfig(t *testing.T) token.Config {
	t.Helper()
	publicKey, privateKey, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	return token.Config{
		Issuer:     "taskhub",
		Audience:   "taskhub-api",
		PrivateKey: privateKey,
		PublicKey:  publicKey,
		TTL:        token.DefaultTTL,
	}
}

func newTestService(t *testing.T) *AuthService {
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
	return NewAuthService(store, testTokenConfig(t))
}

func TestRegisterIssuesVerifiableToken(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	session, err := svc.Register(ctx, RegisterInput{Username: "alice", Email: "alice@x.com", Password: "pw1"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if session.Token == "" {
		t.Fatal("expected token")
	}
	if session.User.Username != "alice" || session.User.Email != "alice@x.com" {
		t.Fatalf("user = %+v", session.User)
	}
	if session.User.PasswordHash == "pw1" {
		t.Fatal("expected hashed password")
	}

	userID, err := svc.Verify(session.Token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if userID != session.User.ID {
		t.Fatalf("verified id = %q, want %q", userID, session.User.ID)
	}
}

func TestRegisterRequiresAllFields(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	cases := []RegisterInput{
		{Email: "a@x.com", Password: "pw"},
		{Username: "a", Password: "pw"},
		{Username: "a", Email: "a@x.com"},
	}
	for _, in := range cases {
		_, err := svc.Register(ctx, in)
		if apperrors.HTTPStatus(err) != 400 {
			t.Fatalf("register(%+v) err = %v, want validation failure", in, err)
		}
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterInput{Username: "alice", Email: "alice@x.com", Password: "pw1"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	// Conflict regardless of the other field values.
	_, err := svc.Register(ctx, RegisterInput{Username: "alice", Email: "other@x.com", Password: "pw2"})
	if !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("err = %v, want %v", err, ErrUsernameTaken)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterInput{Username: "alice", Email: "alice@x.com", Password: "pw1"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	_, err := svc.Register(ctx, RegisterInput{Username: "bob", Email: "alice@x.com", Password: "pw2"})
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("err = %v, want %v", err, ErrEmailTaken)
	}
}

func TestRegisterChecksUsernameBeforeEmail(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterInput{Username: "alice", Email: "alice@x.com", Password: "pw1"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	// Both collide; the username conflict wins.
	_, err := svc.Register(ctx, RegisterInput{Username: "alice", Email: "alice@x.com", Password: "pw2"})
	if !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("err = %v, want %v", err, ErrUsernameTaken)
	}
}

func TestLoginSuccess(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, RegisterInput{Username: "alice", Email: "alice@x.com", Password: "pw1"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	session, err := svc.Login(ctx, LoginInput{Username: "alice", Password: "pw1"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	userID, err := svc.Verify(session.Token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if userID != registered.User.ID {
		t.Fatalf("verified id = %q, want %q", userID, registered.User.ID)
	}
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterInput{Username: "alice", Email: "alice@x.com", Password: "pw1"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	_, wrongPassword := svc.Login(ctx, LoginInput{Username: "alice", Password: "nope"})
	_, unknownUser := svc.Login(ctx, LoginInput{Username: "mallory", Password: "pw1"})

	if !errors.Is(wrongPassword, ErrInvalidCredentials) {
		t.Fatalf("wrong password err = %v, want %v", wrongPassword, ErrInvalidCredentials)
	}
	if !errors.Is(unknownUser, ErrInvalidCredentials) {
		t.Fatalf("unknown user err = %v, want %v", unknownUser, ErrInvalidCredentials)
	}
	if wrongPassword.Error() != unknownUser.Error() {
		t.Fatalf("expected identical messages, got %q and %q", wrongPassword.Error(), unknownUser.Error())
	}
}

func TestLoginRequiresFields(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	for _, in := range []LoginInput{{}, {Username: "alice"}, {Password: "pw1"}} {
		_, err := svc.Login(ctx, in)
		if !errors.Is(err, ErrMissingLoginFields) {
			t.Fatalf("login(%+v) err = %v, want %v", in, err, ErrMissingLoginFields)
		}
	}
}

func TestVerifyRejectsTamperedToken(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	session, err := svc.Register(ctx, RegisterInput{Username: "alice", Email: "alice@x.com", Password: "pw1"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := svc.Verify(session.Token + "x"); err == nil {
		t.Fatal("expected tampered token to fail verification")
	}
	if _, err := svc.Verify(""); !errors.Is(err, token.ErrTokenMissing) {
		t.Fatalf("err = %v, want %v", err, token.ErrTokenMissing)
	}
}

func TestRegisterNormalizesInput(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	session, err := svc.Register(ctx, RegisterInput{Username: "  alice ", Email: " alice@x.com ", Password: "pw1"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if session.User.Username != "alice" {
		t.Fatalf("username = %q, want trimmed", session.User.Username)
	}
	if !user.VerifyPassword(session.User.PasswordHash, "pw1") {
		t.Fatal("expected password to verify")
	}

	var zero time.Time
	if session.User.CreatedAt == zero {
		t.Fatal("expected creation timestamp")
	}
}
