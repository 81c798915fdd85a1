// Package auth is the credential boundary: it issues and verifies HS256
// bearer tokens, hashes passwords, and injects a normalized identity into the
// request context. Handlers never see raw tokens or raw role strings.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/tracknarino/backend/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrNoAuthHeader  = errors.New("authorization header missing")
	ErrEmptyToken    = errors.New("bearer token missing")
	ErrBadSigningAlg = errors.New("unexpected signing method")
	ErrInvalidToken  = errors.New("invalid or expired token")
)

// Manager signs and verifies access tokens.
type Manager struct {
	secret []byte
	ttl    time.Duration
}

// NewManager creates a token manager. The secret must be non-empty; startup
// validation rejects blank configuration before this is reached.
func NewManager(secret string, ttl time.Duration) (*Manager, error) {
	s := strings.TrimSpace(secret)
	if s == "" {
		return nil, errors.New("auth: empty JWT secret")
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Manager{secret: []byte(s), ttl: ttl}, nil
}

// Issue returns a signed access token for the user.
func (m *Manager) Issue(userID string, role models.Role) (string, error) {
	if !role.Valid() {
		return "", fmt.Errorf("auth: invalid role %q", role)
	}
	claims := NewClaims(userID, role, m.ttl)
	tok := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	return tok.SignedString(m.secret)
}

// Parse verifies the signature and standard claims and returns the payload.
func (m *Manager) Parse(raw string) (*Claims, error) {
	parser := jwtlib.NewParser(jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}))
	claims := &Claims{}
	tok, err := parser.ParseWithClaims(raw, claims, func(t *jwtlib.Token) (any, error) {
		if t.Method != jwtlib.SigningMethodHS256 {
			return nil, ErrBadSigningAlg
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !tok.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// FromAuthorization extracts the bearer token from the Authorization header.
func FromAuthorization(r *http.Request) (string, error) {
	h := r.Header.Get("Authorization")
	if h == "" {
		return "", ErrNoAuthHeader
	}
	raw := strings.TrimPrefix(h, "Bearer ")
	if raw == h || strings.TrimSpace(raw) == "" {
		return "", ErrEmptyToken
	}
	return strings.TrimSpace(raw), nil
}

// HashPassword hashes a plaintext password for storage.
func HashPassword(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CheckPassword reports whether plain matches the stored hash.
func CheckPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// Identity is the authenticated actor placed in the request context.
type Identity struct {
	UserID primitive.ObjectID
	Role   models.Role
}

type ctxKey struct{}

// WithIdentity returns a context carrying the identity. Exposed for tests.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// CurrentIdentity returns the identity injected by the middleware.
func CurrentIdentity(r *http.Request) (Identity, bool) {
	id, ok := r.Context().Value(ctxKey{}).(Identity)
	return id, ok
}
