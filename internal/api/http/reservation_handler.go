package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"closet-backend/internal/domain"
	"closet-backend/internal/service"
)

type ReservationHandler struct {
	reservations service.ReservationService
}

func NewReservationHandler(reservations service.ReservationService) *ReservationHandler {
	return &ReservationHandler{reservations: reservations}
}

func (h *ReservationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input service.CreateReservationInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, domain.NewValidationError("invalid request body: %v", err))
		return
	}
	reservation, err := h.reservations.Create(r.Context(), input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, reservation)
}

func (h *ReservationHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	reservation, err := h.reservations.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reservation)
}

func (h *ReservationHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := paging(r)
	status := domain.ReservationStatus(r.URL.Query().Get("status"))
	if status != "" && !domain.ValidReservationStatus(status) {
		writeError(w, domain.NewValidationError("unknown reservation status %q", status))
		return
	}
	reservations, total, err := h.reservations.List(r.Context(), status, page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse[domain.Reservation]{
		Items: reservations, Total: total, Page: page, PageSize: pageSize,
	})
}

func (h *ReservationHandler) ConvertQuotation(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	reservation, err := h.reservations.ConvertQuotation(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reservation)
}

type updateStatusRequest struct {
	Status domain.ReservationStatus `json:"status"`
}

func (h *ReservationHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.NewValidationError("invalid request body: %v", err))
		return
	}
	reservation, err := h.reservations.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reservation)
}

type recordPaymentRequest struct {
	AmountCents int32 `json:"amount_cents"`
}

func (h *ReservationHandler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req recordPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.NewValidationError("invalid request body: %v", err))
		return
	}
	reservation, err := h.reservations.RecordPayment(r.Context(), id, req.AmountCents)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reservation)
}

func (h *ReservationHandler) SetReturnChecklist(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var checklist domain.ReturnChecklist
	if err := json.NewDecoder(r.Body).Decode(&checklist); err != nil {
		writeError(w, domain.NewValidationError("invalid request body: %v", err))
		return
	}
	reservation, err := h.reservations.SetReturnChecklist(r.Context(), id, checklist)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reservation)
}

type availabilityResponse struct {
	GarmentID int32  `json:"garment_id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Available bool   `json:"available"`
}

// CheckAvailability answers whether a garment is free for a date range. The
// exclude parameter lets an edit flow ignore the reservation being edited.
func (h *ReservationHandler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	garmentID, err := strconv.ParseInt(q.Get("garment_id"), 10, 32)
	if err != nil || garmentID <= 0 {
		writeError(w, domain.NewValidationError("invalid garment_id %q", q.Get("garment_id")))
		return
	}

	var excludeID int32
	if raw := q.Get("exclude"); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 32)
		if err != nil || v <= 0 {
			writeError(w, domain.NewValidationError("invalid exclude %q", raw))
			return
		}
		excludeID = int32(v)
	}

	start, end := q.Get("start_date"), q.Get("end_date")
	available, err := h.reservations.IsAvailable(r.Context(), int32(garmentID), start, end, excludeID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, availabilityResponse{
		GarmentID: int32(garmentID),
		StartDate: start,
		EndDate:   end,
		Available: available,
	})
}
