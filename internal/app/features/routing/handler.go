// Package routing serves the route lookup endpoint backed by OSRM.
package routing

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/tracknarino/backend/internal/app/system/apierr"
	sysrouting "github.com/tracknarino/backend/internal/app/system/routing"
	"github.com/tracknarino/backend/internal/app/system/timeouts"
	"github.com/tracknarino/backend/internal/domain/models"
	"go.uber.org/zap"
)

type Handler struct {
	Routes *sysrouting.Client
	Log    *zap.Logger
}

func NewHandler(routes *sysrouting.Client, logger *zap.Logger) *Handler {
	return &Handler{Routes: routes, Log: logger}
}

type routeRequest struct {
	Origin      models.Coord `json:"origen"`
	Destination models.Coord `json:"destino"`
}

// Route handles POST /ors/ruta. A degraded (straight-line) answer is still a
// 200; the aproximada flag tells clients the geometry is an estimate.
func (h *Handler) Route(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.External())
	defer cancel()

	var req routeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.Write(w, h.Log, apierr.Validation("cuerpo de solicitud inválido"))
		return
	}

	route, err := h.Routes.Resolve(ctx, req.Origin, req.Destination)
	if err != nil {
		apierr.Write(w, h.Log, apierr.Validation("coordenadas inválidas"))
		return
	}
	apierr.JSON(w, http.StatusOK, route)
}
