package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"closet-backend/internal/domain"
	"closet-backend/internal/service"
)

// maxImageUploadBytes bounds multipart image uploads.
const maxImageUploadBytes = 10 << 20

type GarmentHandler struct {
	garments service.GarmentService
}

func NewGarmentHandler(garments service.GarmentService) *GarmentHandler {
	return &GarmentHandler{garments: garments}
}

func (h *GarmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input service.CreateGarmentInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, domain.NewValidationError("invalid request body: %v", err))
		return
	}
	garment, err := h.garments.Create(r.Context(), input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, garment)
}

func (h *GarmentHandler) BulkImport(w http.ResponseWriter, r *http.Request) {
	var inputs []service.CreateGarmentInput
	if err := json.NewDecoder(r.Body).Decode(&inputs); err != nil {
		writeError(w, domain.NewValidationError("invalid request body: %v", err))
		return
	}
	garments, err := h.garments.BulkImport(r.Context(), inputs)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, garments)
}

func (h *GarmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	garment, err := h.garments.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, garment)
}

func (h *GarmentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var input service.CreateGarmentInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, domain.NewValidationError("invalid request body: %v", err))
		return
	}
	garment, err := h.garments.Update(r.Context(), id, input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, garment)
}

func (h *GarmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.garments.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (h *GarmentHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := paging(r)
	garments, total, err := h.garments.List(r.Context(), r.URL.Query().Get("q"), page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse[domain.Garment]{
		Items: garments, Total: total, Page: page, PageSize: pageSize,
	})
}

type setGarmentStatusRequest struct {
	Status domain.GarmentStatus `json:"status"`
	Note   string               `json:"note"`
}

func (h *GarmentHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req setGarmentStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.NewValidationError("invalid request body: %v", err))
		return
	}
	garment, err := h.garments.SetStatus(r.Context(), id, req.Status, req.Note)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, garment)
}

// UploadImage accepts a multipart form with a "file" part and an optional
// "primary" flag.
func (h *GarmentHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxImageUploadBytes)
	if err := r.ParseMultipartForm(maxImageUploadBytes); err != nil {
		writeError(w, domain.NewValidationError("invalid multipart upload: %v", err))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, domain.NewValidationError("missing file part"))
		return
	}
	defer file.Close()

	setPrimary, _ := strconv.ParseBool(r.FormValue("primary"))

	image, err := h.garments.AttachImage(r.Context(), id, header.Filename, file, setPrimary)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, image)
}

type listResponse[T any] struct {
	Items    []T   `json:"items"`
	Total    int32 `json:"total"`
	Page     int32 `json:"page"`
	PageSize int32 `json:"page_size"`
}

func pathID(r *http.Request) (int32, error) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || id <= 0 {
		return 0, domain.NewValidationError("invalid id %q", raw)
	}
	return int32(id), nil
}

func paging(r *http.Request) (page, pageSize int32) {
	page, pageSize = 1, 20
	if v, err := strconv.ParseInt(r.URL.Query().Get("page"), 10, 32); err == nil && v > 0 {
		page = int32(v)
	}
	if v, err := strconv.ParseInt(r.URL.Query().Get("page_size"), 10, 32); err == nil && v > 0 && v <= 100 {
		pageSize = int32(v)
	}
	return page, pageSize
}
