package routing

import (
	"github.com/go-chi/chi/v5"
	sysauth "github.com/tracknarino/backend/internal/app/system/auth"
	"go.uber.org/zap"
)

// Routes returns a subrouter for the route lookup endpoint, mounted under
// /ors. The path survives from when OpenRouteService backed it.
func Routes(h *Handler, tokens *sysauth.Manager, log *zap.Logger) chi.Router {
	r := chi.NewRouter()
	r.Use(sysauth.RequireAuth(tokens, log))
	r.Post("/ruta", h.Route)
	return r
}
