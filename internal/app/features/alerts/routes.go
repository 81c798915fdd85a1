package alerts

import (
	"github.com/go-chi/chi/v5"
	sysauth "github.com/tracknarino/backend/internal/app/system/auth"
	"go.uber.org/zap"
)

// Routes returns a subrouter for the alert endpoints, mounted under /alertas.
// The crear/listar/recientes paths are aliases older app builds call.
func Routes(h *Handler, tokens *sysauth.Manager, log *zap.Logger) chi.Router {
	r := chi.NewRouter()
	r.Use(sysauth.RequireAuth(tokens, log))
	r.Post("/", h.Create)
	r.Post("/crear", h.Create)
	r.Get("/", h.List)
	r.Get("/listar", h.List)
	r.Get("/recientes", h.List)
	r.Get("/cercanas", h.Nearby)
	r.Post("/cercanas", h.NearbyBody)
	return r
}
