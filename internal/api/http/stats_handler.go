package http

import (
	"encoding/json"
	"net/http"

	"closet-backend/internal/domain"
	"closet-backend/internal/service"
)

type StatsHandler struct {
	stats service.StatsService
}

func NewStatsHandler(stats service.StatsService) *StatsHandler {
	return &StatsHandler{stats: stats}
}

func (h *StatsHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.stats.GetDashboard(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

type upsertProjectionRequest struct {
	Month              string `json:"month"`
	ExpectedValueCents int64  `json:"expected_value_cents"`
}

func (h *StatsHandler) UpsertProjection(w http.ResponseWriter, r *http.Request) {
	var req upsertProjectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.NewValidationError("invalid request body: %v", err))
		return
	}
	projection, err := h.stats.UpsertProjection(r.Context(), req.Month, req.ExpectedValueCents)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, projection)
}
