package handlers

import (
	"encoding/json"
	"net/http"

	apperrors "github.com/heritagecrafts/platform/backend/pkg/errors"
)

// Helper functions shared by all handlers

func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, map[string]string{
		"error": message,
	})
}

// respondWithAppError maps the error taxonomy onto HTTP status codes.
// Internal and external errors are masked so details stay in the logs.
func respondWithAppError(w http.ResponseWriter, err error) {
	if appErr, ok := err.(*apperrors.AppError); ok {
		switch appErr.Type {
		case apperrors.ErrorTypeNotFound:
			respondWithError(w, http.StatusNotFound, appErr.Message)
		case apperrors.ErrorTypeValidation:
			respondWithError(w, http.StatusBadRequest, appErr.Message)
		case apperrors.ErrorTypeConflict:
			respondWithError(w, http.StatusConflict, appErr.Message)
		case apperrors.ErrorTypeUnavailable:
			respondWithError(w, http.StatusServiceUnavailable, appErr.Message)
		default:
			respondWithError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}
	respondWithError(w, http.StatusInternalServerError, "internal server error")
}
