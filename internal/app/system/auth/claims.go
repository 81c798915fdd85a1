package auth

import (
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/tracknarino/backend/internal/app/system/normalize"
	"github.com/tracknarino/backend/internal/domain/models"
)

// Claims is the bearer-token payload. Tokens issued by older releases carry
// the role as "tipo", current ones as "tipoUsuario"; both fields are kept on
// the struct so either token parses, and Role() is the only way the rest of
// the code reads them.
type Claims struct {
	TipoUsuario string `json:"tipoUsuario,omitempty"`
	Tipo        string `json:"tipo,omitempty"`
	jwtlib.RegisteredClaims
}

var _ jwtlib.Claims = (*Claims)(nil)

// Role returns the normalized role from whichever claim key is present.
func (c *Claims) Role() (models.Role, bool) {
	if r, ok := normalize.Role(c.TipoUsuario); ok {
		return r, true
	}
	return normalize.Role(c.Tipo)
}

// UserID returns the subject claim (the user's ObjectID hex).
func (c *Claims) UserID() string { return c.Subject }

// NewClaims builds the claims for a fresh token. New tokens only write the
// current key; the legacy key exists for parsing old tokens.
func NewClaims(userID string, role models.Role, ttl time.Duration) *Claims {
	now := time.Now().UTC()
	return &Claims{
		TipoUsuario: string(role),
		RegisteredClaims: jwtlib.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwtlib.NewNumericDate(now),
			ExpiresAt: jwtlib.NewNumericDate(now.Add(ttl)),
		},
	}
}
