// Package alerts serves road safety alert reporting and proximity queries.
package alerts

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	alertstore "github.com/tracknarino/backend/internal/app/store/alerts"
	"github.com/tracknarino/backend/internal/app/system/apierr"
	sysauth "github.com/tracknarino/backend/internal/app/system/auth"
	"github.com/tracknarino/backend/internal/app/system/timeouts"
	"github.com/tracknarino/backend/internal/domain/models"
	"go.uber.org/zap"
)

type Handler struct {
	Alerts *alertstore.Store
	Log    *zap.Logger

	// DefaultRadiusMeters applies when a nearby query omits radio.
	DefaultRadiusMeters float64
	// RecentWindow bounds how far back nearby and list queries look.
	RecentWindow time.Duration
}

func NewHandler(alerts *alertstore.Store, radiusMeters float64, window time.Duration, logger *zap.Logger) *Handler {
	if radiusMeters <= 0 {
		radiusMeters = 50_000
	}
	if window <= 0 {
		window = 24 * time.Hour
	}
	return &Handler{
		Alerts:              alerts,
		Log:                 logger,
		DefaultRadiusMeters: radiusMeters,
		RecentWindow:        window,
	}
}

type createRequest struct {
	Type        string       `json:"tipo"`
	Description string       `json:"descripcion"`
	Coords      models.Coord `json:"coords"`
	Shared      *bool        `json:"compartir"`
	ImageURL    string       `json:"imagenUrl"`
}

// Create handles POST /alertas.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	id, _ := sysauth.CurrentIdentity(r)

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.Write(w, h.Log, apierr.Validation("cuerpo de solicitud inválido"))
		return
	}

	shared := true
	if req.Shared != nil {
		shared = *req.Shared
	}
	created, err := h.Alerts.Create(ctx, models.SafetyAlert{
		Type:        req.Type,
		Description: req.Description,
		User:        id.UserID,
		Coords:      req.Coords,
		Shared:      shared,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		apierr.Write(w, h.Log, apierr.Validation(err.Error()))
		return
	}
	apierr.JSON(w, http.StatusCreated, created)
}

// List handles GET /alertas.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	alerts, err := h.Alerts.ListRecent(ctx, h.RecentWindow)
	if err != nil {
		apierr.Write(w, h.Log, err)
		return
	}
	apierr.JSON(w, http.StatusOK, alerts)
}

// Nearby handles GET /alertas/cercanas?lat=&lng=&radio=. The radio parameter
// is in meters, matching the mobile clients.
func (h *Handler) Nearby(w http.ResponseWriter, r *http.Request) {
	lat, errLat := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	lng, errLng := strconv.ParseFloat(r.URL.Query().Get("lng"), 64)
	if errLat != nil || errLng != nil {
		apierr.Write(w, h.Log, apierr.Validation("lat y lng son requeridos"))
		return
	}

	radius := h.DefaultRadiusMeters
	if raw := r.URL.Query().Get("radio"); raw != "" {
		meters, err := strconv.ParseFloat(raw, 64)
		if err != nil || meters <= 0 {
			apierr.Write(w, h.Log, apierr.Validation("radio inválido"))
			return
		}
		radius = meters
	}
	h.nearby(w, r, models.Coord{Lat: lat, Lng: lng}, radius)
}

type nearbyRequest struct {
	Lat    float64  `json:"lat"`
	Lng    float64  `json:"lng"`
	Radius *float64 `json:"radio"`
}

// NearbyBody handles POST /alertas/cercanas with {lat, lng, radio} in the
// body; radio is in meters and falls back to the configured default.
func (h *Handler) NearbyBody(w http.ResponseWriter, r *http.Request) {
	var req nearbyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.Write(w, h.Log, apierr.Validation("cuerpo de solicitud inválido"))
		return
	}
	radius := h.DefaultRadiusMeters
	if req.Radius != nil {
		if *req.Radius <= 0 {
			apierr.Write(w, h.Log, apierr.Validation("radio inválido"))
			return
		}
		radius = *req.Radius
	}
	h.nearby(w, r, models.Coord{Lat: req.Lat, Lng: req.Lng}, radius)
}

func (h *Handler) nearby(w http.ResponseWriter, r *http.Request, center models.Coord, radiusMeters float64) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	alerts, err := h.Alerts.Nearby(ctx, center, radiusMeters, h.RecentWindow)
	if err != nil {
		apierr.Write(w, h.Log, apierr.Validation(err.Error()))
		return
	}
	apierr.JSON(w, http.StatusOK, alerts)
}
