package directory

import (
	"github.com/go-chi/chi/v5"
	sysauth "github.com/tracknarino/backend/internal/app/system/auth"
	"go.uber.org/zap"
)

// Routes returns a subrouter for the directory endpoints, mounted under
// /admin.
func Routes(h *Handler, tokens *sysauth.Manager, log *zap.Logger) chi.Router {
	r := chi.NewRouter()
	r.Use(sysauth.RequireAuth(tokens, log))
	r.Get("/camioneros", h.Drivers)
	r.Get("/contratistas", h.Contractors)
	return r
}
