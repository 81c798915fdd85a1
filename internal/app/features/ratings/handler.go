// Package ratings serves service rating submission and lookup.
package ratings

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	ratingstore "github.com/tracknarino/backend/internal/app/store/ratings"
	"github.com/tracknarino/backend/internal/app/system/apierr"
	sysauth "github.com/tracknarino/backend/internal/app/system/auth"
	"github.com/tracknarino/backend/internal/app/system/timeouts"
	"github.com/tracknarino/backend/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type Handler struct {
	Ratings *ratingstore.Store
	Log     *zap.Logger
}

func NewHandler(ratings *ratingstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Ratings: ratings, Log: logger}
}

type createRequest struct {
	ServiceType string `json:"tipoServicio"`
	Score       int    `json:"calificacion"`
	Comment     string `json:"comentario"`
}

// Create handles POST /calificaciones/crear. The rating is recorded under the
// authenticated caller, who is the one scoring the service they received.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	id, _ := sysauth.CurrentIdentity(r)

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.Write(w, h.Log, apierr.Validation("cuerpo de solicitud inválido"))
		return
	}

	created, err := h.Ratings.Create(ctx, models.Rating{
		User:        id.UserID,
		ServiceType: req.ServiceType,
		Score:       req.Score,
		Comment:     req.Comment,
	})
	if err != nil {
		apierr.Write(w, h.Log, apierr.Validation(err.Error()))
		return
	}
	apierr.JSON(w, http.StatusCreated, created)
}

// ListForUser handles GET /calificaciones/listar/{id}: the ratings the given
// user has submitted.
func (h *Handler) ListForUser(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	userID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		apierr.Write(w, h.Log, apierr.Validation("id inválido"))
		return
	}

	ratings, err := h.Ratings.ListForUser(ctx, userID)
	if err != nil {
		apierr.Write(w, h.Log, err)
		return
	}
	apierr.JSON(w, http.StatusOK, ratings)
}

type averageResponse struct {
	Average float64 `json:"promedio"`
	Count   int     `json:"total"`
}

// Average handles GET /calificaciones/{id}/promedio.
func (h *Handler) Average(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	userID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		apierr.Write(w, h.Log, apierr.Validation("id inválido"))
		return
	}

	avg, count, err := h.Ratings.AverageForUser(ctx, userID)
	if err != nil {
		apierr.Write(w, h.Log, err)
		return
	}
	apierr.JSON(w, http.StatusOK, averageResponse{Average: avg, Count: count})
}
