package notifications

import (
	"github.com/go-chi/chi/v5"
	sysauth "github.com/tracknarino/backend/internal/app/system/auth"
	"go.uber.org/zap"
)

// Routes returns a subrouter for the notification endpoints, mounted under
// /notificaciones.
func Routes(h *Handler, tokens *sysauth.Manager, log *zap.Logger) chi.Router {
	r := chi.NewRouter()
	r.Use(sysauth.RequireAuth(tokens, log))
	r.Post("/registrar-token", h.RegisterToken)
	return r
}
