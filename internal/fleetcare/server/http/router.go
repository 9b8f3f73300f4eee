package http

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter mounts the API under /api next to the health checks and /metrics.
func NewRouter(h *Handler) http.Handler {
	r := mux.NewRouter()
	r.Use(withRequestID, instrument)

	r.HandleFunc("/health", h.health).Methods(http.MethodGet)
	r.HandleFunc("/healthz", healthCheck).Methods(http.MethodGet)
	r.HandleFunc("/readyz", healthCheck).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/vehicles", h.listVehicles).Methods(http.MethodGet)
	api.HandleFunc("/vehicles/{id}", h.getVehicle).Methods(http.MethodGet)

	api.HandleFunc("/tracking/{vehicleId}", h.getTracking).Methods(http.MethodGet)
	api.HandleFunc("/tracking/{vehicleId}/history", h.getTrackingHistory).Methods(http.MethodGet)
	api.HandleFunc("/tracking/{vehicleId}/stream", h.streamTracking).Methods(http.MethodGet)

	api.HandleFunc("/contracts", h.listContracts).Methods(http.MethodGet)
	api.HandleFunc("/contracts/{id}/renew", h.renewContract).Methods(http.MethodPost)

	api.HandleFunc("/billing", h.listBills).Methods(http.MethodGet)
	api.HandleFunc("/billing/{id}/generate-duplicate", h.generateDuplicate).Methods(http.MethodPost)

	api.HandleFunc("/quotes", h.submitQuote).Methods(http.MethodPost)
	api.HandleFunc("/quotes", h.listQuotes).Methods(http.MethodGet)

	api.HandleFunc("/auth/login", h.login).Methods(http.MethodPost)
	api.HandleFunc("/auth/profile", h.getProfile).Methods(http.MethodGet)
	api.HandleFunc("/auth/profile", h.updateProfile).Methods(http.MethodPut)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, envelope{Message: "Rota não encontrada"})
	})

	return withCORS(r)
}

func healthCheck(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}
