package handler

import (
	"encoding/json"
	"net/http"

	"votely-be/internal/domain"
	"votely-be/internal/service"
	"votely-be/pkg/errors"
	"votely-be/pkg/logger"
)

// AuthHandler serves signup and login.
type AuthHandler struct {
	users *service.UserService
	log   *logger.Logger
}

func NewAuthHandler(users *service.UserService, log *logger.Logger) *AuthHandler {
	return &AuthHandler{users: users, log: log}
}

// Signup handles POST /auth/signup.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req domain.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondAppError(w, errors.NewValidationError("Please provide email and password", nil))
		return
	}

	resp, err := h.users.Signup(r.Context(), &req)
	if err != nil {
		h.log.WithError(err).Debug("signup rejected")
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, resp)
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondAppError(w, errors.NewValidationError("Please provide email and password", nil))
		return
	}

	resp, err := h.users.Login(r.Context(), &req)
	if err != nil {
		h.log.WithError(err).Debug("login rejected")
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, resp)
}
