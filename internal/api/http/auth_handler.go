package http

import (
	"encoding/json"
	"net/http"

	"closet-backend/internal/domain"
	"closet-backend/internal/service"
)

type AuthHandler struct {
	sessions service.SessionService
}

func NewAuthHandler(sessions service.SessionService) *AuthHandler {
	return &AuthHandler{sessions: sessions}
}

type loginRequest struct {
	Email string `json:"email"`
}

type loginResponse struct {
	Token string `json:"token"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.NewValidationError("invalid request body: %v", err))
		return
	}
	token, role, err := h.sessions.Login(r.Context(), req.Email)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{Token: token, Email: req.Email, Role: role})
}
