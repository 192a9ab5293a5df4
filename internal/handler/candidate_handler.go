package handler

import (
	"encoding/json"
	"net/http"

	"votely-be/internal/domain"
	"votely-be/internal/service"
	"votely-be/pkg/errors"
	"votely-be/pkg/logger"

	"github.com/go-chi/chi/v5"
)

// CandidateHandler serves catalog management and reads over HTTP. The
// realtime layer serves the same data over websockets; tallies mutate
// only through the vote coordinator.
type CandidateHandler struct {
	candidates *service.CandidateService
	log        *logger.Logger
}

func NewCandidateHandler(candidates *service.CandidateService, log *logger.Logger) *CandidateHandler {
	return &CandidateHandler{candidates: candidates, log: log}
}

// Create handles POST /auth/create (admin only).
func (h *CandidateHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateCandidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondAppError(w, errors.NewValidationError("Please fill in all required fields!", nil))
		return
	}

	candidate, err := h.candidates.Create(r.Context(), &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"status":  true,
		"data":    candidate,
		"message": "Candidate added successfully!",
	})
}

// List handles GET /auth/get_candidates.
func (h *CandidateHandler) List(w http.ResponseWriter, r *http.Request) {
	candidates, err := h.candidates.List(r.Context())
	if err != nil {
		h.log.WithError(err).Error("failed to list candidates")
		respondAppError(w, errors.NewInternalError("An error occurred while fetching candidates!", err))
		return
	}

	if len(candidates) == 0 {
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"status":  true,
			"data":    []domain.Candidate{},
			"message": "No available candidates yet, check back later!",
		})
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  true,
		"data":    candidates,
		"message": "Candidates fetched successfully!",
	})
}

// Get handles GET /auth/candidates/{id}.
func (h *CandidateHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		respondAppError(w, errors.NewValidationError("ID cannot be empty", nil))
		return
	}

	candidate, err := h.candidates.GetByID(r.Context(), id)
	if err != nil {
		respondAppError(w, errors.NewInternalError("An error occurred!", err))
		return
	}
	if candidate == nil {
		respondAppError(w, errors.NewNotFoundError("There is no such existing candidate!"))
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": true,
		"data":   candidate,
	})
}
