// Package normalize folds raw request input into canonical forms before it
// reaches stores or handlers.
package normalize

import (
	"strings"

	"github.com/tracknarino/backend/internal/domain/models"
)

// Email lowercases and trims an email address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims surrounding whitespace but preserves case.
func Name(s string) string {
	return strings.TrimSpace(s)
}

// Role folds a raw role string (from a request body or a token claim) into a
// typed role. The legacy token format carried the role under two different
// keys with inconsistent casing; everything is normalized here, once, so the
// rest of the codebase only ever compares models.Role values.
func Role(s string) (models.Role, bool) {
	r := models.Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", false
	}
	return r, true
}
