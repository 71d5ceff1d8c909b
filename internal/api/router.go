package api

import (
	"eld-trip-planner/internal/api/handlers"
	"eld-trip-planner/internal/ports"
	"net/http"

	"go.uber.org/zap"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(resolver ports.GeoResolver, logger *zap.Logger) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	mux := http.NewServeMux()

	trips := &handlers.TripHandler{Resolver: resolver, Logger: logger}

	mux.HandleFunc("GET /health", handlers.Health)

	// Routes are served with and without the trailing slash.
	mux.HandleFunc("GET /api/geocode", trips.Geocode)
	mux.HandleFunc("GET /api/geocode/{$}", trips.Geocode)
	mux.HandleFunc("POST /api/calculate-route", trips.CalculateRoute)
	mux.HandleFunc("POST /api/calculate-route/{$}", trips.CalculateRoute)
	mux.HandleFunc("POST /api/generate-eld-logs", trips.GenerateLogs)
	mux.HandleFunc("POST /api/generate-eld-logs/{$}", trips.GenerateLogs)

	return requestIDMiddleware(loggingMiddleware(logger, mux))
}
