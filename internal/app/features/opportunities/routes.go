package opportunities

import (
	"github.com/go-chi/chi/v5"
	sysauth "github.com/tracknarino/backend/internal/app/system/auth"
	"github.com/tracknarino/backend/internal/domain/models"
	"go.uber.org/zap"
)

// Routes returns a subrouter for the opportunity endpoints, mounted under
// /oportunidades. The POST asignar/{id} and finalizar/{id} path shapes predate
// the {id}/action convention and are kept because shipped app builds call
// them; asignar doubles as the older driver accept path.
func Routes(h *Handler, tokens *sysauth.Manager, log *zap.Logger) chi.Router {
	r := chi.NewRouter()
	r.Use(sysauth.RequireAuth(tokens, log))

	r.Get("/", h.ListAvailable)
	r.Get("/disponibles", h.ListAvailable)
	r.Get("/{id}", h.Get)

	// Drivers post loads on behalf of a contractor, so both roles create.
	r.With(sysauth.RequireRole(log, models.RoleContractor, models.RoleDriver)).
		Post("/crear", h.Create)

	r.Group(func(r chi.Router) {
		r.Use(sysauth.RequireRole(log, models.RoleContractor))
		r.Get("/mis", h.ListMine)
		r.Put("/asignar/{id}", h.Assign)
		r.Post("/finalizar/{id}", h.FinishByContractor)
		r.Put("/finalizar/{id}", h.FinishByContractor)
	})

	r.Group(func(r chi.Router) {
		r.Use(sysauth.RequireRole(log, models.RoleDriver))
		r.Get("/viaje-activo", h.ActiveTrip)
		r.Get("/historial", h.History)
		r.Post("/asignar/{id}", h.Accept)
		r.Put("/{id}/aceptar", h.Accept)
		r.Put("/{id}/iniciar", h.Start)
		r.Put("/{id}/cancelar", h.Cancel)
		r.Put("/{id}/finalizar", h.FinishByDriver)
	})

	return r
}

// HistoryRoutes returns the trip history subrouter, mounted under /historial.
// Drivers see the loads they hauled, contractors the loads they posted.
func HistoryRoutes(h *Handler, tokens *sysauth.Manager, log *zap.Logger) chi.Router {
	r := chi.NewRouter()
	r.Use(sysauth.RequireAuth(tokens, log))
	r.With(sysauth.RequireRole(log, models.RoleDriver)).Get("/camionero", h.History)
	r.With(sysauth.RequireRole(log, models.RoleContractor)).Get("/contratista", h.ListMine)
	return r
}
