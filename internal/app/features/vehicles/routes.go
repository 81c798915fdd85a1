package vehicles

import (
	"github.com/go-chi/chi/v5"
	sysauth "github.com/tracknarino/backend/internal/app/system/auth"
	"github.com/tracknarino/backend/internal/domain/models"
	"go.uber.org/zap"
)

// Routes returns a subrouter for the vehicle endpoints, mounted under
// /vehiculos.
func Routes(h *Handler, tokens *sysauth.Manager, log *zap.Logger) chi.Router {
	r := chi.NewRouter()
	r.Use(sysauth.RequireAuth(tokens, log))
	r.Use(sysauth.RequireRole(log, models.RoleDriver))
	r.Post("/", h.Register)
	r.Post("/registrar", h.Register)
	r.Get("/ver", h.Mine)
	r.Get("/mis", h.Mine)
	return r
}
