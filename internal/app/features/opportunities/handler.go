// Package opportunities serves the freight lifecycle endpoints: contractors
// post and close loads, drivers take, start, cancel and finish them.
package opportunities

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/microcosm-cc/bluemonday"
	oppstore "github.com/tracknarino/backend/internal/app/store/opportunities"
	userstore "github.com/tracknarino/backend/internal/app/store/users"
	"github.com/tracknarino/backend/internal/app/system/apierr"
	sysauth "github.com/tracknarino/backend/internal/app/system/auth"
	"github.com/tracknarino/backend/internal/app/system/metrics"
	"github.com/tracknarino/backend/internal/app/system/notify"
	"github.com/tracknarino/backend/internal/app/system/timeouts"
	"github.com/tracknarino/backend/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type Handler struct {
	Opps      *oppstore.Store
	Users     *userstore.Store
	Notify    *notify.Dispatcher
	Log       *zap.Logger
	sanitizer *bluemonday.Policy
}

func NewHandler(opps *oppstore.Store, users *userstore.Store, dispatcher *notify.Dispatcher, logger *zap.Logger) *Handler {
	return &Handler{
		Opps:      opps,
		Users:     users,
		Notify:    dispatcher,
		Log:       logger,
		sanitizer: bluemonday.StrictPolicy(),
	}
}

type createRequest struct {
	Title       string  `json:"titulo"`
	Description string  `json:"descripcion"`
	Origin      string  `json:"origen"`
	Destination string  `json:"destino"`
	PickupAddr  string  `json:"direccionCargue"`
	DropoffAddr string  `json:"direccionDescargue"`
	Date        string  `json:"fecha"`
	Price       float64 `json:"precio"`
	CargoWeight float64 `json:"pesoCarga"`
	CargoType   string  `json:"tipoCarga"`
	SpecialReqs string  `json:"requisitosEspeciales"`
	DistanceKm  float64 `json:"distanciaKm"`
	DurationHrs float64 `json:"duracionEstimadaHoras"`
}

// Create handles POST /oportunidades/crear.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	id, _ := sysauth.CurrentIdentity(r)

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.Write(w, h.Log, apierr.Validation("cuerpo de solicitud inválido"))
		return
	}

	o := models.Opportunity{
		Title:       h.sanitizer.Sanitize(req.Title),
		Description: h.sanitizer.Sanitize(req.Description),
		Origin:      req.Origin,
		Destination: req.Destination,
		PickupAddr:  req.PickupAddr,
		DropoffAddr: req.DropoffAddr,
		Price:       req.Price,
		CargoWeight: req.CargoWeight,
		CargoType:   req.CargoType,
		SpecialReqs: h.sanitizer.Sanitize(req.SpecialReqs),
		DistanceKm:  req.DistanceKm,
		DurationHrs: req.DurationHrs,
		Contractor:  id.UserID,
	}
	if req.Date != "" {
		if err := o.Date.UnmarshalText([]byte(req.Date)); err != nil {
			apierr.Write(w, h.Log, apierr.Validation("fecha inválida, se espera RFC 3339"))
			return
		}
	}

	created, err := h.Opps.Create(ctx, o)
	if err != nil {
		apierr.Write(w, h.Log, apierr.Validation(err.Error()))
		return
	}

	h.broadcastToDrivers(created)
	apierr.JSON(w, http.StatusCreated, created)
}

// ListAvailable handles GET /oportunidades.
func (h *Handler) ListAvailable(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	opps, err := h.Opps.FindAvailable(ctx)
	if err != nil {
		apierr.Write(w, h.Log, err)
		return
	}
	apierr.JSON(w, http.StatusOK, opps)
}

// ListMine handles GET /oportunidades/mis for contractors.
func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	id, _ := sysauth.CurrentIdentity(r)
	opps, err := h.Opps.FindByContractor(ctx, id.UserID)
	if err != nil {
		apierr.Write(w, h.Log, err)
		return
	}
	apierr.JSON(w, http.StatusOK, opps)
}

// History handles GET /oportunidades/historial for drivers.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	id, _ := sysauth.CurrentIdentity(r)
	opps, err := h.Opps.FindByDriver(ctx, id.UserID)
	if err != nil {
		apierr.Write(w, h.Log, err)
		return
	}
	apierr.JSON(w, http.StatusOK, opps)
}

// ActiveTrip handles GET /oportunidades/viaje-activo for drivers.
func (h *Handler) ActiveTrip(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	id, _ := sysauth.CurrentIdentity(r)
	trip, err := h.Opps.FindActiveForDriver(ctx, id.UserID)
	if err != nil {
		if errors.Is(err, oppstore.ErrNotFound) {
			apierr.Write(w, h.Log, apierr.NotFound("sin viaje activo"))
			return
		}
		apierr.Write(w, h.Log, err)
		return
	}
	apierr.JSON(w, http.StatusOK, trip)
}

// Get handles GET /oportunidades/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	oppID, err := pathID(r, "id")
	if err != nil {
		apierr.Write(w, h.Log, apierr.Validation("id inválido"))
		return
	}
	o, err := h.Opps.GetByID(ctx, oppID)
	if err != nil {
		h.writeLifecycleError(w, "get", err)
		return
	}
	apierr.JSON(w, http.StatusOK, o)
}

// Accept handles PUT /oportunidades/{id}/aceptar and the legacy
// POST /oportunidades/asignar/{id} for drivers.
func (h *Handler) Accept(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "accept", func(ctx context.Context, oppID primitive.ObjectID, id sysauth.Identity) (*models.Opportunity, error) {
		return h.Opps.Accept(ctx, oppID, id.UserID)
	}, func(o *models.Opportunity) {
		h.notifyContractor(o, "Oportunidad aceptada",
			fmt.Sprintf("Un camionero aceptó la carga %q", o.Title))
	})
}

type assignRequest struct {
	DriverID string `json:"camioneroId"`
}

// Assign handles PUT /oportunidades/asignar/{id} for contractors.
func (h *Handler) Assign(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	id, _ := sysauth.CurrentIdentity(r)
	oppID, err := pathID(r, "id")
	if err != nil {
		apierr.Write(w, h.Log, apierr.Validation("id inválido"))
		return
	}

	var req assignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.Write(w, h.Log, apierr.Validation("cuerpo de solicitud inválido"))
		return
	}
	driverID, err := primitive.ObjectIDFromHex(req.DriverID)
	if err != nil {
		apierr.Write(w, h.Log, apierr.Validation("camioneroId inválido"))
		return
	}

	driver, err := h.Users.GetByID(ctx, driverID)
	if err != nil || !driver.IsDriver() {
		apierr.Write(w, h.Log, apierr.Validation("camioneroId no corresponde a un camionero"))
		return
	}

	o, err := h.Opps.Assign(ctx, oppID, id.UserID, driverID)
	if err != nil {
		metrics.TransitionsTotal.WithLabelValues("assign", "error").Inc()
		h.writeLifecycleError(w, "assign", err)
		return
	}
	metrics.TransitionsTotal.WithLabelValues("assign", "ok").Inc()

	h.Notify.Send(context.WithoutCancel(ctx), driver.DeviceToken, "Carga asignada",
		fmt.Sprintf("Te asignaron la carga %q", o.Title))
	apierr.JSON(w, http.StatusOK, o)
}

// Start handles PUT /oportunidades/{id}/iniciar for drivers.
func (h *Handler) Start(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "start", func(ctx context.Context, oppID primitive.ObjectID, id sysauth.Identity) (*models.Opportunity, error) {
		return h.Opps.Start(ctx, oppID, id.UserID)
	}, nil)
}

// Cancel handles PUT /oportunidades/{id}/cancelar for drivers.
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "cancel", func(ctx context.Context, oppID primitive.ObjectID, id sysauth.Identity) (*models.Opportunity, error) {
		return h.Opps.Cancel(ctx, oppID, id.UserID)
	}, func(o *models.Opportunity) {
		h.notifyContractor(o, "Viaje cancelado",
			fmt.Sprintf("El camionero canceló la carga %q; vuelve a estar disponible", o.Title))
	})
}

// FinishByDriver handles PUT /oportunidades/{id}/finalizar for drivers.
func (h *Handler) FinishByDriver(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "finish_driver", func(ctx context.Context, oppID primitive.ObjectID, id sysauth.Identity) (*models.Opportunity, error) {
		return h.Opps.FinishByDriver(ctx, oppID, id.UserID)
	}, func(o *models.Opportunity) {
		h.notifyContractor(o, "Viaje finalizado",
			fmt.Sprintf("La carga %q llegó a su destino", o.Title))
	})
}

// FinishByContractor handles POST /oportunidades/finalizar/{id} (and its PUT
// alias) for contractors.
func (h *Handler) FinishByContractor(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "finish_contractor", func(ctx context.Context, oppID primitive.ObjectID, id sysauth.Identity) (*models.Opportunity, error) {
		return h.Opps.FinishByContractor(ctx, oppID, id.UserID)
	}, func(o *models.Opportunity) {
		if o.AssignedDriver == nil {
			return
		}
		h.notifyUser(*o.AssignedDriver, "Carga cerrada",
			fmt.Sprintf("El contratista cerró la carga %q", o.Title))
	})
}

// transition runs one lifecycle operation and renders the outcome. The
// after hook fires only on success.
func (h *Handler) transition(
	w http.ResponseWriter,
	r *http.Request,
	name string,
	op func(context.Context, primitive.ObjectID, sysauth.Identity) (*models.Opportunity, error),
	after func(*models.Opportunity),
) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	id, _ := sysauth.CurrentIdentity(r)
	oppID, err := pathID(r, "id")
	if err != nil {
		apierr.Write(w, h.Log, apierr.Validation("id inválido"))
		return
	}

	o, err := op(ctx, oppID, id)
	if err != nil {
		metrics.TransitionsTotal.WithLabelValues(name, "error").Inc()
		h.writeLifecycleError(w, name, err)
		return
	}
	metrics.TransitionsTotal.WithLabelValues(name, "ok").Inc()

	if after != nil {
		after(o)
	}
	apierr.JSON(w, http.StatusOK, o)
}

func (h *Handler) writeLifecycleError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, oppstore.ErrNotFound):
		apierr.Write(w, h.Log, apierr.NotFound(err.Error()))
	case errors.Is(err, oppstore.ErrNotAvailable):
		apierr.Write(w, h.Log, apierr.InvalidState(err.Error()))
	case errors.Is(err, oppstore.ErrInvalidState):
		apierr.Write(w, h.Log, apierr.InvalidState(err.Error()))
	case errors.Is(err, oppstore.ErrDriverBusy):
		apierr.Write(w, h.Log, apierr.InvalidState(err.Error()))
	case errors.Is(err, oppstore.ErrForbidden):
		apierr.Write(w, h.Log, apierr.Forbidden(err.Error()))
	default:
		h.Log.Error("opportunity operation failed", zap.String("op", op), zap.Error(err))
		apierr.Write(w, h.Log, err)
	}
}

// broadcastToDrivers pushes a new-load notice to every registered driver.
// Lookup and dispatch failures are logged; the create already succeeded.
func (h *Handler) broadcastToDrivers(o models.Opportunity) {
	ctx, cancel := context.WithTimeout(context.Background(), timeouts.External())
	defer cancel()

	drivers, err := h.Users.ListByRole(ctx, models.RoleDriver)
	if err != nil {
		h.Log.Warn("listing drivers for broadcast failed", zap.Error(err))
		return
	}
	title := "Nueva oportunidad de carga"
	body := fmt.Sprintf("%s: %s a %s", o.Title, o.Origin, o.Destination)
	for _, d := range drivers {
		h.Notify.Send(ctx, d.DeviceToken, title, body)
	}
}

func (h *Handler) notifyContractor(o *models.Opportunity, title, body string) {
	h.notifyUser(o.Contractor, title, body)
}

func (h *Handler) notifyUser(userID primitive.ObjectID, title, body string) {
	ctx, cancel := context.WithTimeout(context.Background(), timeouts.External())
	defer cancel()

	user, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		h.Log.Warn("loading user for notification failed", zap.Error(err))
		return
	}
	h.Notify.Send(ctx, user.DeviceToken, title, body)
}

func pathID(r *http.Request, key string) (primitive.ObjectID, error) {
	return primitive.ObjectIDFromHex(chi.URLParam(r, key))
}
