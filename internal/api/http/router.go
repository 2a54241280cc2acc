package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"closet-backend/internal/security"
	"closet-backend/internal/service"
	"closet-backend/internal/storage"
)

type RouterDeps struct {
	Garments     service.GarmentService
	Customers    service.CustomerService
	Reservations service.ReservationService
	Stats        service.StatsService
	Sessions     service.SessionService
	Tokens       security.TokenManager
	Blobs        storage.Storage
}

// NewRouter wires every API route. Login and file downloads are public; the
// rest sits behind bearer auth.
func NewRouter(deps RouterDeps) *mux.Router {
	root := mux.NewRouter()
	root.Use(loggingMiddleware)

	root.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	public := root.PathPrefix("/api/v1").Subrouter()
	auth := NewAuthHandler(deps.Sessions)
	public.HandleFunc("/auth/login", auth.Login).Methods(http.MethodPost)

	files := http.StripPrefix("/api/v1/files/", NewFilesHandler(deps.Blobs))
	public.PathPrefix("/files/").Handler(files).Methods(http.MethodGet)

	api := root.PathPrefix("/api/v1").Subrouter()
	api.Use(authMiddleware(deps.Tokens))

	garments := NewGarmentHandler(deps.Garments)
	api.HandleFunc("/garments", garments.List).Methods(http.MethodGet)
	api.HandleFunc("/garments", garments.Create).Methods(http.MethodPost)
	api.HandleFunc("/garments/import", garments.BulkImport).Methods(http.MethodPost)
	api.HandleFunc("/garments/{id}", garments.Get).Methods(http.MethodGet)
	api.HandleFunc("/garments/{id}", garments.Update).Methods(http.MethodPut)
	api.HandleFunc("/garments/{id}", garments.Delete).Methods(http.MethodDelete)
	api.HandleFunc("/garments/{id}/status", garments.SetStatus).Methods(http.MethodPost)
	api.HandleFunc("/garments/{id}/images", garments.UploadImage).Methods(http.MethodPost)

	customers := NewCustomerHandler(deps.Customers)
	api.HandleFunc("/customers", customers.List).Methods(http.MethodGet)
	api.HandleFunc("/customers", customers.Create).Methods(http.MethodPost)
	api.HandleFunc("/customers/{id}", customers.Get).Methods(http.MethodGet)
	api.HandleFunc("/customers/{id}", customers.Update).Methods(http.MethodPut)
	api.HandleFunc("/customers/{id}", customers.Delete).Methods(http.MethodDelete)

	reservations := NewReservationHandler(deps.Reservations)
	api.HandleFunc("/reservations", reservations.List).Methods(http.MethodGet)
	api.HandleFunc("/reservations", reservations.Create).Methods(http.MethodPost)
	api.HandleFunc("/reservations/availability", reservations.CheckAvailability).Methods(http.MethodGet)
	api.HandleFunc("/reservations/{id}", reservations.Get).Methods(http.MethodGet)
	api.HandleFunc("/reservations/{id}/convert", reservations.ConvertQuotation).Methods(http.MethodPost)
	api.HandleFunc("/reservations/{id}/status", reservations.UpdateStatus).Methods(http.MethodPost)
	api.HandleFunc("/reservations/{id}/payments", reservations.RecordPayment).Methods(http.MethodPost)
	api.HandleFunc("/reservations/{id}/checklist", reservations.SetReturnChecklist).Methods(http.MethodPut)

	stats := NewStatsHandler(deps.Stats)
	api.HandleFunc("/stats/dashboard", stats.Dashboard).Methods(http.MethodGet)
	api.HandleFunc("/stats/projections", stats.UpsertProjection).Methods(http.MethodPut)

	return root
}
