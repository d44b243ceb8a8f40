package api

import (
	"net/http"

	"github.com/Umesh-Verma07/AynaForm/internal/services"
	"github.com/Umesh-Verma07/AynaForm/pkg/models"
)

type AuthHandler struct {
	auth      *services.AuthService
	validator *Validator
}

// NewAuthHandler creates a new AuthHandler with required dependencies.
func NewAuthHandler(svc *services.AuthService, v *Validator) *AuthHandler {
	return &AuthHandler{auth: svc, validator: v}
}

type authResponse struct {
	Token string `json:"token"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.Credentials
	if err := h.validator.Decode(w, r, schemaCredentials, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if _, err := h.auth.Register(r.Context(), req.Username, req.Password); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, messageResponse{Message: "User registered successfully"}, http.StatusCreated)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.Credentials
	if err := h.validator.Decode(w, r, schemaCredentials, &req); err != nil {
		writeError(w, r, err)
		return
	}
	token, err := h.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, authResponse{Token: token}, http.StatusOK)
}
