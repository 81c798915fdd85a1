package auth

import (
	"net/http"

	"github.com/tracknarino/backend/internal/app/system/apierr"
	"github.com/tracknarino/backend/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// RequireAuth verifies the bearer token and injects the normalized Identity.
// Tokens with a malformed subject or an unknown role are rejected here so
// handlers can trust everything in the context.
func RequireAuth(m *Manager, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, err := FromAuthorization(r)
			if err != nil {
				apierr.Write(w, log, apierr.Unauthenticated("token no proporcionado"))
				return
			}

			claims, err := m.Parse(raw)
			if err != nil {
				apierr.Write(w, log, apierr.Unauthenticated("token inválido o expirado"))
				return
			}

			userID, err := primitive.ObjectIDFromHex(claims.UserID())
			if err != nil {
				log.Warn("token with malformed subject", zap.String("subject", claims.UserID()))
				apierr.Write(w, log, apierr.Unauthenticated("token inválido o expirado"))
				return
			}

			role, ok := claims.Role()
			if !ok {
				log.Warn("token without recognizable role", zap.String("user_id", claims.UserID()))
				apierr.Write(w, log, apierr.Forbidden("rol no encontrado en token"))
				return
			}

			ctx := WithIdentity(r.Context(), Identity{UserID: userID, Role: role})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole allows only the listed roles past. It must be mounted after
// RequireAuth.
func RequireRole(log *zap.Logger, allowed ...models.Role) func(http.Handler) http.Handler {
	set := make(map[models.Role]struct{}, len(allowed))
	for _, r := range allowed {
		set[r] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := CurrentIdentity(r)
			if !ok {
				apierr.Write(w, log, apierr.Unauthenticated("token no proporcionado"))
				return
			}
			if _, has := set[id.Role]; !has {
				apierr.Write(w, log, apierr.Forbidden("rol insuficiente"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
