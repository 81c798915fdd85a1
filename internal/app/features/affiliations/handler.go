// Package affiliations serves the contractor↔driver affiliation endpoints.
package affiliations

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	affilstore "github.com/tracknarino/backend/internal/app/store/affiliations"
	userstore "github.com/tracknarino/backend/internal/app/store/users"
	"github.com/tracknarino/backend/internal/app/system/apierr"
	sysauth "github.com/tracknarino/backend/internal/app/system/auth"
	"github.com/tracknarino/backend/internal/app/system/timeouts"
	"github.com/tracknarino/backend/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type Handler struct {
	Affiliations *affilstore.Store
	Users        *userstore.Store
	Log          *zap.Logger
}

func NewHandler(affiliations *affilstore.Store, users *userstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Affiliations: affiliations, Users: users, Log: logger}
}

// Affiliate handles POST /contratistas/afiliar/{id}; {id} is the driver.
func (h *Handler) Affiliate(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	id, _ := sysauth.CurrentIdentity(r)
	driverID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		apierr.Write(w, h.Log, apierr.Validation("id inválido"))
		return
	}

	driver, err := h.Users.GetByID(ctx, driverID)
	if err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			apierr.Write(w, h.Log, apierr.NotFound("camionero no encontrado"))
			return
		}
		apierr.Write(w, h.Log, err)
		return
	}
	if !driver.IsDriver() {
		apierr.Write(w, h.Log, apierr.Validation("el usuario no es un camionero"))
		return
	}

	edge, err := h.Affiliations.Affiliate(ctx, id.UserID, driverID)
	if err != nil {
		if errors.Is(err, affilstore.ErrDuplicateAffiliation) {
			apierr.Write(w, h.Log, apierr.Conflict(err.Error()))
			return
		}
		apierr.Write(w, h.Log, err)
		return
	}
	apierr.JSON(w, http.StatusCreated, edge)
}

// Unaffiliate handles POST /contratistas/rechazar/{id} and its DELETE
// /afiliar/{id} form. Removing an edge that is already gone still answers
// 200; the end state is identical.
func (h *Handler) Unaffiliate(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	id, _ := sysauth.CurrentIdentity(r)
	driverID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		apierr.Write(w, h.Log, apierr.Validation("id inválido"))
		return
	}
	if err := h.Affiliations.Unaffiliate(ctx, id.UserID, driverID); err != nil {
		apierr.Write(w, h.Log, err)
		return
	}
	apierr.JSON(w, http.StatusOK, map[string]string{"mensaje": "afiliación eliminada"})
}

// MyDrivers handles GET /contratistas/camioneros: the drivers affiliated to
// the calling contractor.
func (h *Handler) MyDrivers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	id, _ := sysauth.CurrentIdentity(r)
	ids, err := h.Affiliations.DriversFor(ctx, id.UserID)
	if err != nil {
		apierr.Write(w, h.Log, err)
		return
	}
	apierr.JSON(w, http.StatusOK, h.loadUsers(ctx, ids))
}

// MyContractors handles GET /contratistas/mis: the contractors the calling
// driver is affiliated to.
func (h *Handler) MyContractors(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	id, _ := sysauth.CurrentIdentity(r)
	ids, err := h.Affiliations.ContractorsFor(ctx, id.UserID)
	if err != nil {
		apierr.Write(w, h.Log, err)
		return
	}
	apierr.JSON(w, http.StatusOK, h.loadUsers(ctx, ids))
}

// loadUsers resolves edge ids to user records. Ids whose user has since been
// deleted are skipped.
func (h *Handler) loadUsers(ctx context.Context, ids []primitive.ObjectID) []models.User {
	users := make([]models.User, 0, len(ids))
	for _, uid := range ids {
		u, err := h.Users.GetByID(ctx, uid)
		if err != nil {
			continue
		}
		users = append(users, *u)
	}
	return users
}
