package router

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	v1 "github.com/tinoosan/ja4gate/api/v1"
	"github.com/tinoosan/ja4gate/internal/auth"
	"github.com/tinoosan/ja4gate/internal/ja4h"
	"github.com/tinoosan/ja4gate/internal/service"
	"github.com/tinoosan/ja4gate/internal/stream"
)

// New sets up the admin API routes and required middleware.
func New(logger *slog.Logger, svc service.Sightings, opts ja4h.Options, bc *stream.Broadcaster) *mux.Router {

	r := mux.NewRouter()
	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("ok")); err != nil {
			logger.Error("write healthz response", "err", err)
		}
	}).Methods("GET")

	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	sightingHandler := v1.NewSightingHandler(logger, svc, opts)

	r.Use(sightingHandler.Log)
	r.Use(v1.RequestID)
	r.Use(auth.Middleware)

	api := r.PathPrefix("/v1").Subrouter()

	// GETs
	get := api.Methods("GET").Subrouter()
	get.HandleFunc("/fingerprints", sightingHandler.GetFingerprints)
	get.HandleFunc("/fingerprints/{fp}", sightingHandler.GetFingerprint)
	get.Handle("/events", stream.Handler(logger, bc))

	// POSTs
	post := api.Methods("POST").Subrouter()
	post.HandleFunc("/compute", sightingHandler.Compute)
	post.Use(v1.MiddlewareComputeValidation)

	return r
}
