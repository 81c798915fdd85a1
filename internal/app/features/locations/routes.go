package locations

import (
	"github.com/go-chi/chi/v5"
	sysauth "github.com/tracknarino/backend/internal/app/system/auth"
	"github.com/tracknarino/backend/internal/domain/models"
	"go.uber.org/zap"
)

// Routes returns a subrouter for the location endpoints, mounted under
// /ubicacion. Drivers report positions; only contractors look them up.
func Routes(h *Handler, tokens *sysauth.Manager, log *zap.Logger) chi.Router {
	r := chi.NewRouter()
	r.Use(sysauth.RequireAuth(tokens, log))

	r.Group(func(r chi.Router) {
		r.Use(sysauth.RequireRole(log, models.RoleContractor))
		r.Get("/ultima/{id}", h.Latest)
	})

	r.Group(func(r chi.Router) {
		r.Use(sysauth.RequireRole(log, models.RoleDriver))
		r.Post("/actualizar", h.Update)
	})
	return r
}
