package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"voltpoint/internal/service"
)

// AuthHandlers exposes signup and login.
type AuthHandlers struct {
	svc    *service.AuthService
	logger *zap.Logger
}

// NewAuthHandlers builds the handler set.
func NewAuthHandlers(svc *service.AuthService, logger *zap.Logger) *AuthHandlers {
	return &AuthHandlers{svc: svc, logger: logger}
}

type authResponse struct {
	Token string `json:"token"`
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Signup handles POST /api/auth/signup.
func (h *AuthHandlers) Signup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	token, user, err := h.svc.Signup(r.Context(), req.Name, req.Email, strings.TrimSpace(req.Password))
	if err != nil {
		var verr *service.ValidationError
		switch {
		case errors.As(err, &verr):
			writeMessage(w, http.StatusBadRequest, verr.Error())
		case errors.Is(err, service.ErrEmailInUse):
			writeMessage(w, http.StatusConflict, "Email already registered")
		default:
			h.logger.Error("signup failed", zap.Error(err))
			writeMessage(w, http.StatusInternalServerError, "Server error")
		}
		return
	}

	writeJSON(w, http.StatusCreated, authResponse{
		Token: token,
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
	})
}

// Login handles POST /api/auth/login.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	token, user, err := h.svc.Login(r.Context(), req.Email, strings.TrimSpace(req.Password))
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			writeMessage(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		h.logger.Error("login failed", zap.Error(err))
		writeMessage(w, http.StatusInternalServerError, "Server error")
		return
	}

	writeJSON(w, http.StatusOK, authResponse{
		Token: token,
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
	})
}
