// Package token issues and verifies stateless identity tokens.
//
// Tokens are EdDSA-signed JWTs carrying the owner user id and a fixed
// expiry. No server-side session state exists; validity is determined by
// signature and expiry alone.
package token

import (
	"crypto/ed25519"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/louisbranch/taskhub/internal/platform/errors"
	"github.com/louisbranch/taskhub/internal/platform/id"
)

// DefaultTTL is the identity token lifetime when none is configured.
const DefaultTTL = 24 * time.Hour

var (
	// ErrTokenMissing indicates an absent bearer token.
	ErrTokenMissing = apperrors.New(apperrors.CodeTokenMissing, "authorization token is required")
	// ErrTokenInvalid indicates a malformed or badly signed token.
	ErrTokenInvalid = apperrors.New(apperrors.CodeTokenInvalid, "token is invalid")
	// ErrTokenExpired indicates a token past its expiry instant.
	ErrTokenExpired = apperrors.New(apperrors.CodeTokenExpired, "token is expired")
)

// tokenEnv holds raw env values before post-parse validation.
type tokenEnv struct {
	Issuer     string        `env:"TASKHUB_TOKEN_ISSUER" envDefault:"taskhub"`
	Audience   string        `env:"TASKHUB_TOKEN_AUDIENCE" envDefault:"taskhub-api"`
	PrivateKey string        `env:"TASKHUB_TOKEN_PRIVATE_KEY"`
	PublicKey  string        `env:"TASKHUB_TOKEN_PUBLIC_KEY"`
	TTL        time.Duration `env:"TASKHUB_TOKEN_TTL" envDefault:"24h"`
}

// Config defines how identity tokens are issued and verified.
type Config struct {
	Issuer     string
	Audience   string
	PrivateKey ed25519.PrivateKey
	PublicKey  ed25519.PublicKey
	TTL        time.Duration
	Now        func() time.Time
}

// Claims captures validated identity token claims.
type Claims struct {
	UserID    string
	ExpiresAt time.Time
	IssuedAt  time.Time
}

// identityClaims is the internal claims type used for JWT parsing.
type identityClaims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
}

// LoadConfigFromEnv reads token configuration from environment variables.
// The private key is required; the public key defaults to the one derived
// from it when unset.
func LoadConfigFromEnv(now func() time.Time) (Config, error) {
	var raw tokenEnv
	if err := env.Parse(&raw); err != nil {
		return Config{}, fmt.Errorf("parse token env: %w", err)
	}
	privateKey := strings.TrimSpace(raw.PrivateKey)
	if privateKey == "" {
		return Config{}, fmt.Errorf("TASKHUB_TOKEN_PRIVATE_KEY is required")
	}
	privateBytes, err := decodeBase64(privateKey)
	if err != nil {
		return Config{}, fmt.Errorf("decode token private key: %w", err)
	}
	if len(privateBytes) != ed25519.PrivateKeySize {
		return Config{}, fmt.Errorf("token private key must be %d bytes", ed25519.PrivateKeySize)
	}

	cfg := Config{
		Issuer:     strings.TrimSpace(raw.Issuer),
		Audience:   strings.TrimSpace(raw.Audience),
		PrivateKey: ed25519.PrivateKey(privateBytes),
		TTL:        raw.TTL,
		Now:        now,
	}

	publicKey := strings.TrimSpace(raw.PublicKey)
	if publicKey != "" {
		publicBytes, err := decodeBase64(publicKey)
		if err != nil {
			return Config{}, fmt.Errorf("decode token public key: %w", err)
		}
		if len(publicBytes) != ed25519.PublicKeySize {
			return Config{}, fmt.Errorf("token public key must be %d bytes", ed25519.PublicKeySize)
		}
		cfg.PublicKey = ed25519.PublicKey(publicBytes)
	} else {
		cfg.PublicKey = cfg.PrivateKey.Public().(ed25519.PublicKey)
	}

	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return cfg, nil
}

// Issue signs a new identity token for the given user id.
func Issue(userID string, cfg Config) (string, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return "", fmt.Errorf("user id is required")
	}
	if len(cfg.PrivateKey) != ed25519.PrivateKeySize {
		return "", fmt.Errorf("token signer is not configured")
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	jti, err := id.NewID()
	if err != nil {
		return "", fmt.Errorf("generate token id: %w", err)
	}

	issuedAt := now().UTC()
	claims := identityClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cfg.Issuer,
			Audience:  jwt.ClaimStrings{cfg.Audience},
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(ttl)),
			ID:        jti,
		},
		UserID: userID,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims).SignedString(cfg.PrivateKey)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks a token's signature and expiry and returns its claims.
func Verify(tokenString string, cfg Config) (Claims, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return Claims{}, ErrTokenMissing
	}
	if len(cfg.PublicKey) != ed25519.PublicKeySize {
		return Claims{}, errors.New("token verifier is not configured")
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	var parsed identityClaims
	_, err := jwt.ParseWithClaims(tokenString, &parsed, func(t *jwt.Token) (any, error) {
		return cfg.PublicKey, nil
	},
		jwt.WithValidMethods([]string{"EdDSA"}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		return Claims{}, mapJWTError(err)
	}

	if cfg.Issuer != "" && parsed.Issuer != cfg.Issuer {
		return Claims{}, ErrTokenInvalid
	}
	if cfg.Audience != "" && !audienceContains(parsed.Audience, cfg.Audience) {
		return Claims{}, ErrTokenInvalid
	}
	if parsed.ExpiresAt == nil {
		return Claims{}, ErrTokenInvalid
	}
	if !parsed.ExpiresAt.Time.UTC().After(now().UTC()) {
		return Claims{}, ErrTokenExpired
	}
	if strings.TrimSpace(parsed.UserID) == "" {
		return Claims{}, ErrTokenInvalid
	}

	claims := Claims{
		UserID:    parsed.UserID,
		ExpiresAt: parsed.ExpiresAt.Time.UTC(),
	}
	if parsed.IssuedAt != nil {
		claims.IssuedAt = parsed.IssuedAt.Time.UTC()
	}
	return claims, nil
}

// mapJWTError translates jwt library errors to application errors.
func mapJWTError(err error) error {
	if errors.Is(err, jwt.ErrTokenSignatureInvalid) || errors.Is(err, jwt.ErrEd25519Verification) {
		return ErrTokenInvalid
	}
	if errors.Is(err, jwt.ErrTokenUnverifiable) {
		return ErrTokenInvalid
	}
	return ErrTokenInvalid
}

// audienceContains reports whether the audience list contains the given value.
func audienceContains(aud jwt.ClaimStrings, value string) bool {
	for _, item := range aud {
		if item == value {
			return true
		}
	}
	return false
}

func decodeBase64(value string) ([]byte, error) {
	if value == "" {
		return nil, errors.New("empty base64 value")
	}
	decoded, err := base64.RawStdEncoding.DecodeString(value)
	if err == nil {
		return decoded, nil
	}
	return base64.StdEncoding.DecodeString(value)
}
