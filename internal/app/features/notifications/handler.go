// Package notifications serves device token registration for push delivery.
package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	userstore "github.com/tracknarino/backend/internal/app/store/users"
	"github.com/tracknarino/backend/internal/app/system/apierr"
	sysauth "github.com/tracknarino/backend/internal/app/system/auth"
	"github.com/tracknarino/backend/internal/app/system/timeouts"
	"go.uber.org/zap"
)

type Handler struct {
	Users *userstore.Store
	Log   *zap.Logger
}

func NewHandler(users *userstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Users: users, Log: logger}
}

type tokenRequest struct {
	Token string `json:"token"`
}

// RegisterToken handles POST /notificaciones/registrar-token. Registering
// replaces whatever token the user had; a device switch just re-registers.
func (h *Handler) RegisterToken(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	id, _ := sysauth.CurrentIdentity(r)

	var req tokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.Write(w, h.Log, apierr.Validation("cuerpo de solicitud inválido"))
		return
	}
	if strings.TrimSpace(req.Token) == "" {
		apierr.Write(w, h.Log, apierr.Validation("token es requerido"))
		return
	}

	if err := h.Users.UpdateDeviceToken(ctx, id.UserID, strings.TrimSpace(req.Token)); err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			apierr.Write(w, h.Log, apierr.NotFound("usuario no encontrado"))
			return
		}
		apierr.Write(w, h.Log, err)
		return
	}
	apierr.JSON(w, http.StatusOK, map[string]string{"mensaje": "token registrado"})
}
