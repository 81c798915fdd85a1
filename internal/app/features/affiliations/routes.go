package affiliations

import (
	"github.com/go-chi/chi/v5"
	sysauth "github.com/tracknarino/backend/internal/app/system/auth"
	"github.com/tracknarino/backend/internal/domain/models"
	"go.uber.org/zap"
)

// Routes returns a subrouter for the affiliation endpoints, mounted under
// /contratistas.
func Routes(h *Handler, tokens *sysauth.Manager, log *zap.Logger) chi.Router {
	r := chi.NewRouter()
	r.Use(sysauth.RequireAuth(tokens, log))

	r.Group(func(r chi.Router) {
		r.Use(sysauth.RequireRole(log, models.RoleContractor))
		r.Post("/afiliar/{id}", h.Affiliate)
		r.Post("/rechazar/{id}", h.Unaffiliate)
		r.Delete("/afiliar/{id}", h.Unaffiliate)
		r.Get("/camioneros", h.MyDrivers)
	})

	r.Group(func(r chi.Router) {
		r.Use(sysauth.RequireRole(log, models.RoleDriver))
		r.Get("/mis", h.MyContractors)
	})

	return r
}
