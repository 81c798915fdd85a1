// Package auth serves registration, login and profile endpoints.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	userstore "github.com/tracknarino/backend/internal/app/store/users"
	sysauth "github.com/tracknarino/backend/internal/app/system/auth"
	"github.com/tracknarino/backend/internal/app/system/apierr"
	"github.com/tracknarino/backend/internal/app/system/normalize"
	"github.com/tracknarino/backend/internal/app/system/timeouts"
	"github.com/tracknarino/backend/internal/domain/models"
	"go.uber.org/zap"
)

type Handler struct {
	Users  *userstore.Store
	Tokens *sysauth.Manager
	Log    *zap.Logger
}

func NewHandler(users *userstore.Store, tokens *sysauth.Manager, logger *zap.Logger) *Handler {
	return &Handler{Users: users, Tokens: tokens, Log: logger}
}

type registerRequest struct {
	Name          string        `json:"nombre"`
	Email         string        `json:"correo"`
	Password      string        `json:"contrasena"`
	Role          string        `json:"tipoUsuario"`
	Phone         string        `json:"telefono"`
	Truck         *models.Truck `json:"camion"`
	NationalID    string        `json:"numeroCedula"`
	AffiliatedCo  string        `json:"empresaAfiliada"`
	LicenseIssued *time.Time    `json:"licenciaExpedicion"`
	Company       string        `json:"empresa"`
	OpenToDrivers *bool         `json:"disponibleParaSolicitarCamioneros"`
	PaymentMethod string        `json:"metodoPago"`
}

type authResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"usuario"`
}

// Register handles POST /auth/registro.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.Write(w, h.Log, apierr.Validation("cuerpo de solicitud inválido"))
		return
	}
	if req.Password == "" {
		apierr.Write(w, h.Log, apierr.Validation("contrasena es requerida"))
		return
	}
	role, ok := normalize.Role(req.Role)
	if !ok {
		apierr.Write(w, h.Log, apierr.Validation("tipoUsuario desconocido"))
		return
	}

	hash, err := sysauth.HashPassword(req.Password)
	if err != nil {
		apierr.Write(w, h.Log, err)
		return
	}

	created, err := h.Users.Create(ctx, models.User{
		Name:          req.Name,
		Email:         req.Email,
		PasswordHash:  hash,
		Role:          role,
		Phone:         req.Phone,
		Truck:         req.Truck,
		NationalID:    req.NationalID,
		AffiliatedCo:  req.AffiliatedCo,
		LicenseIssued: req.LicenseIssued,
		Company:       req.Company,
		OpenToDrivers: req.OpenToDrivers,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		if errors.Is(err, userstore.ErrDuplicateEmail) {
			apierr.Write(w, h.Log, apierr.Conflict(err.Error()))
			return
		}
		apierr.Write(w, h.Log, apierr.Validation(err.Error()))
		return
	}

	token, err := h.Tokens.Issue(created.ID.Hex(), created.Role)
	if err != nil {
		apierr.Write(w, h.Log, err)
		return
	}
	apierr.JSON(w, http.StatusCreated, authResponse{Token: token, User: created})
}

type loginRequest struct {
	Email    string `json:"correo"`
	Password string `json:"contrasena"`
}

// Login handles POST /auth/login. Unknown email and wrong password return
// the same message so the endpoint does not leak which emails exist.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.Write(w, h.Log, apierr.Validation("cuerpo de solicitud inválido"))
		return
	}

	user, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			apierr.Write(w, h.Log, apierr.Unauthenticated("credenciales inválidas"))
			return
		}
		apierr.Write(w, h.Log, err)
		return
	}
	if !sysauth.CheckPassword(user.PasswordHash, req.Password) {
		apierr.Write(w, h.Log, apierr.Unauthenticated("credenciales inválidas"))
		return
	}

	token, err := h.Tokens.Issue(user.ID.Hex(), user.Role)
	if err != nil {
		apierr.Write(w, h.Log, err)
		return
	}
	apierr.JSON(w, http.StatusOK, authResponse{Token: token, User: *user})
}

// Profile handles GET /auth/perfil.
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	id, ok := sysauth.CurrentIdentity(r)
	if !ok {
		apierr.Write(w, h.Log, apierr.Unauthenticated("token no proporcionado"))
		return
	}
	user, err := h.Users.GetByID(ctx, id.UserID)
	if err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			apierr.Write(w, h.Log, apierr.NotFound("usuario no encontrado"))
			return
		}
		apierr.Write(w, h.Log, err)
		return
	}
	apierr.JSON(w, http.StatusOK, user)
}

type paymentRequest struct {
	Method string `json:"metodoPago"`
}

// UpdatePayment handles PUT /auth/actualizar-pago.
func (h *Handler) UpdatePayment(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	id, ok := sysauth.CurrentIdentity(r)
	if !ok {
		apierr.Write(w, h.Log, apierr.Unauthenticated("token no proporcionado"))
		return
	}
	var req paymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.Write(w, h.Log, apierr.Validation("cuerpo de solicitud inválido"))
		return
	}
	if err := h.Users.UpdatePaymentMethod(ctx, id.UserID, req.Method); err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			apierr.Write(w, h.Log, apierr.NotFound("usuario no encontrado"))
			return
		}
		apierr.Write(w, h.Log, apierr.Validation(err.Error()))
		return
	}
	apierr.JSON(w, http.StatusOK, map[string]string{"mensaje": "método de pago actualizado"})
}
