// Package directory serves the user listings the admin screens consume.
package directory

import (
	"context"
	"net/http"

	userstore "github.com/tracknarino/backend/internal/app/store/users"
	"github.com/tracknarino/backend/internal/app/system/apierr"
	"github.com/tracknarino/backend/internal/app/system/timeouts"
	"github.com/tracknarino/backend/internal/domain/models"
	"go.uber.org/zap"
)

type Handler struct {
	Users *userstore.Store
	Log   *zap.Logger
}

func NewHandler(users *userstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Users: users, Log: logger}
}

// Drivers handles GET /admin/camioneros.
func (h *Handler) Drivers(w http.ResponseWriter, r *http.Request) {
	h.listByRole(w, r, models.RoleDriver)
}

// Contractors handles GET /admin/contratistas.
func (h *Handler) Contractors(w http.ResponseWriter, r *http.Request) {
	h.listByRole(w, r, models.RoleContractor)
}

func (h *Handler) listByRole(w http.ResponseWriter, r *http.Request, role models.Role) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	users, err := h.Users.ListByRole(ctx, role)
	if err != nil {
		apierr.Write(w, h.Log, err)
		return
	}
	apierr.JSON(w, http.StatusOK, users)
}
