package handler

import (
	"encoding/json"
	goerrors "errors"
	"net/http"
	"time"

	"votely-be/pkg/errors"
)

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// respondAppError writes the standard error envelope for an AppError.
func respondAppError(w http.ResponseWriter, appErr *errors.AppError) {
	response := &errors.ErrorResponse{}
	response.Error.Type = appErr.Type
	response.Error.Message = appErr.Message
	response.Error.Details = appErr.Details
	response.Error.Timestamp = time.Now().UTC().Format(time.RFC3339)

	respondJSON(w, appErr.StatusCode, response)
}

// respondServiceError maps any service error to a response; errors that
// aren't AppErrors become a generic internal error.
func respondServiceError(w http.ResponseWriter, err error) {
	var appErr *errors.AppError
	if goerrors.As(err, &appErr) {
		respondAppError(w, appErr)
		return
	}
	respondAppError(w, errors.NewInternalError("An unexpected error occurred please try again!", err))
}
