// Package locations serves driver position reporting and lookup.
package locations

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	locationstore "github.com/tracknarino/backend/internal/app/store/locations"
	"github.com/tracknarino/backend/internal/app/system/apierr"
	sysauth "github.com/tracknarino/backend/internal/app/system/auth"
	"github.com/tracknarino/backend/internal/app/system/timeouts"
	"github.com/tracknarino/backend/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type Handler struct {
	Locations *locationstore.Store
	Log       *zap.Logger
}

func NewHandler(locations *locationstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Locations: locations, Log: logger}
}

// updateRequest accepts both key pairs the mobile clients have shipped with:
// lat/lng and latitud/longitud.
type updateRequest struct {
	Lat       *float64 `json:"lat"`
	Lng       *float64 `json:"lng"`
	Latitude  *float64 `json:"latitud"`
	Longitude *float64 `json:"longitud"`
}

// Update handles POST /ubicacion/actualizar for drivers.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	id, _ := sysauth.CurrentIdentity(r)

	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.Write(w, h.Log, apierr.Validation("cuerpo de solicitud inválido"))
		return
	}
	lat, lng := req.Lat, req.Lng
	if lat == nil {
		lat = req.Latitude
	}
	if lng == nil {
		lng = req.Longitude
	}
	if lat == nil || lng == nil {
		apierr.Write(w, h.Log, apierr.Validation("lat y lng son requeridos"))
		return
	}

	ping, err := h.Locations.Append(ctx, id.UserID, models.Coord{Lat: *lat, Lng: *lng})
	if err != nil {
		apierr.Write(w, h.Log, apierr.Validation(err.Error()))
		return
	}
	apierr.JSON(w, http.StatusCreated, ping)
}

// Latest handles GET /ubicacion/ultima/{id}.
func (h *Handler) Latest(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	driverID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		apierr.Write(w, h.Log, apierr.Validation("id inválido"))
		return
	}

	ping, err := h.Locations.Latest(ctx, driverID)
	if err != nil {
		if errors.Is(err, locationstore.ErrNoLocation) {
			apierr.Write(w, h.Log, apierr.NotFound(err.Error()))
			return
		}
		apierr.Write(w, h.Log, err)
		return
	}
	apierr.JSON(w, http.StatusOK, ping)
}
