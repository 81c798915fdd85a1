// Package vehicles serves standalone vehicle registration for drivers.
package vehicles

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	vehiclestore "github.com/tracknarino/backend/internal/app/store/vehicles"
	"github.com/tracknarino/backend/internal/app/system/apierr"
	sysauth "github.com/tracknarino/backend/internal/app/system/auth"
	"github.com/tracknarino/backend/internal/app/system/timeouts"
	"github.com/tracknarino/backend/internal/domain/models"
	"go.uber.org/zap"
)

type Handler struct {
	Vehicles *vehiclestore.Store
	Log      *zap.Logger
}

func NewHandler(vehicles *vehiclestore.Store, logger *zap.Logger) *Handler {
	return &Handler{Vehicles: vehicles, Log: logger}
}

type registerRequest struct {
	VehicleType   string  `json:"tipoVehiculo"`
	CargoCapacity float64 `json:"capacidadCarga"`
	Brand         string  `json:"marca"`
	Model         string  `json:"modelo"`
	Plate         string  `json:"placa"`
	PapersCurrent bool    `json:"papelesAlDia"`
}

// Register handles POST /vehiculos/registrar.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	id, _ := sysauth.CurrentIdentity(r)

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.Write(w, h.Log, apierr.Validation("cuerpo de solicitud inválido"))
		return
	}

	created, err := h.Vehicles.Register(ctx, models.Vehicle{
		Driver:        id.UserID,
		VehicleType:   req.VehicleType,
		CargoCapacity: req.CargoCapacity,
		Brand:         req.Brand,
		Model:         req.Model,
		Plate:         req.Plate,
		PapersCurrent: req.PapersCurrent,
	})
	if err != nil {
		if errors.Is(err, vehiclestore.ErrDuplicatePlate) {
			apierr.Write(w, h.Log, apierr.Conflict(err.Error()))
			return
		}
		apierr.Write(w, h.Log, apierr.Validation(err.Error()))
		return
	}
	apierr.JSON(w, http.StatusCreated, created)
}

// Mine handles GET /vehiculos/ver.
func (h *Handler) Mine(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	id, _ := sysauth.CurrentIdentity(r)
	vehicles, err := h.Vehicles.ListByDriver(ctx, id.UserID)
	if err != nil {
		apierr.Write(w, h.Log, err)
		return
	}
	apierr.JSON(w, http.StatusOK, vehicles)
}
