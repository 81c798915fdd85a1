package auth

import (
	"github.com/go-chi/chi/v5"
	sysauth "github.com/tracknarino/backend/internal/app/system/auth"
)

// Routes returns a subrouter for the auth endpoints, mounted under /auth.
// The /register path is an alias kept for older app builds.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/registro", h.Register)
	r.Post("/register", h.Register)
	r.Post("/login", h.Login)

	r.Group(func(r chi.Router) {
		r.Use(sysauth.RequireAuth(h.Tokens, h.Log))
		r.Get("/perfil", h.Profile)
		r.Put("/actualizar-pago", h.UpdatePayment)
	})
	return r
}
