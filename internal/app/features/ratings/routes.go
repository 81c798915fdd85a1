package ratings

import (
	"github.com/go-chi/chi/v5"
	sysauth "github.com/tracknarino/backend/internal/app/system/auth"
	"go.uber.org/zap"
)

// Routes returns a subrouter for the rating endpoints, mounted under
// /calificaciones. The crear and listar paths are what shipped app builds
// call; the shorter forms are kept alongside.
func Routes(h *Handler, tokens *sysauth.Manager, log *zap.Logger) chi.Router {
	r := chi.NewRouter()
	r.Use(sysauth.RequireAuth(tokens, log))
	r.Post("/", h.Create)
	r.Post("/crear", h.Create)
	r.Get("/listar/{id}", h.ListForUser)
	r.Get("/{id}", h.ListForUser)
	r.Get("/{id}/promedio", h.Average)
	return r
}
