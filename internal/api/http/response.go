package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"closet-backend/internal/domain"
	"closet-backend/internal/logger"
)

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("encode response", "error", err)
	}
}

// writeError maps service error kinds to HTTP status codes. Messages from the
// business layer are written as-is; they are staff-facing by contract.
func writeError(w http.ResponseWriter, err error) {
	var (
		validation  *domain.ValidationError
		notFound    *domain.NotFoundError
		conflict    *domain.AvailabilityConflictError
		referential *domain.ReferentialConflictError
		transition  *domain.InvalidTransitionError
		blocked     *domain.CustomerBlockedError
	)

	switch {
	case errors.As(err, &validation):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "validation", Message: err.Error()})
	case errors.As(err, &notFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not_found", Message: err.Error()})
	case errors.As(err, &conflict):
		writeJSON(w, http.StatusConflict, errorResponse{Error: "availability_conflict", Message: err.Error()})
	case errors.As(err, &referential):
		writeJSON(w, http.StatusConflict, errorResponse{Error: "referential_conflict", Message: err.Error()})
	case errors.As(err, &transition):
		writeJSON(w, http.StatusConflict, errorResponse{Error: "invalid_transition", Message: err.Error()})
	case errors.As(err, &blocked):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: "customer_blocked", Message: err.Error()})
	default:
		logger.Error("request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal", Message: "internal server error"})
	}
}
