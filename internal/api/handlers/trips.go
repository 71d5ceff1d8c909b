package handlers

import (
	"eld-trip-planner/internal/api/dto"
	"eld-trip-planner/internal/domain"
	"eld-trip-planner/internal/ports"
	"eld-trip-planner/internal/services"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

type TripHandler struct {
	Resolver ports.GeoResolver
	Logger   *zap.Logger
	// Now supplies the default first log day. Defaults to time.Now.
	Now func() time.Time
}

func (h *TripHandler) logger() *zap.Logger {
	if h.Logger == nil {
		return zap.NewNop()
	}
	return h.Logger
}

func (h *TripHandler) now() time.Time {
	if h.Now == nil {
		return time.Now()
	}
	return h.Now()
}

// Geocode resolves the address query parameter to a coordinate.
func (h *TripHandler) Geocode(w http.ResponseWriter, r *http.Request) {
	address := strings.TrimSpace(r.URL.Query().Get("address"))
	if address == "" {
		writeError(w, r, h.logger(), http.StatusBadRequest, "address is required")
		return
	}

	c, err := h.Resolver.Resolve(r.Context(), address)
	if err != nil {
		writeDomainError(w, r, h.logger(), "geocode", fmt.Errorf("geocode %q: %w", address, err))
		return
	}

	writeJSON(w, r, h.logger(), http.StatusOK, dto.GeocodeResponse{Lat: c.Lat, Lng: c.Lon})
}

// CalculateRoute resolves the trip locations and returns the planned route
// with its rest and fuel stops.
func (h *TripHandler) CalculateRoute(w http.ResponseWriter, r *http.Request) {
	var req dto.CalculateRouteRequest
	if !decodeJSON(w, r, h.logger(), &req) {
		return
	}

	plan, err := services.PlanTrip(r.Context(), services.PlanTripRequest{
		CurrentLocation:   req.CurrentLocation,
		PickupLocation:    req.PickupLocation,
		DropoffLocation:   req.DropoffLocation,
		CurrentCycleHours: req.CurrentCycleHours,
	}, h.Resolver)
	if err != nil {
		writeDomainError(w, r, h.logger(), "calculate route", err)
		return
	}

	writeJSON(w, r, h.logger(), http.StatusOK, dto.NewRoutePlanResponse(plan))
}

// GenerateLogs turns a previously calculated route plan into daily duty
// logs.
func (h *TripHandler) GenerateLogs(w http.ResponseWriter, r *http.Request) {
	var req dto.GenerateLogsRequest
	if !decodeJSON(w, r, h.logger(), &req) {
		return
	}

	start, err := req.ParseStartDate(h.now())
	if err != nil {
		writeDomainError(w, r, h.logger(), "generate logs", err)
		return
	}

	plan, err := req.ToDomain()
	if err != nil {
		writeDomainError(w, r, h.logger(), "generate logs", err)
		return
	}

	if plan.CurrentCycleHours > services.MaxCycleHours {
		writeDomainError(w, r, h.logger(), "generate logs",
			fmt.Errorf("%w: current_cycle_hours must not exceed %v", domain.ErrInvalidInput, services.MaxCycleHours))
		return
	}

	tripLog, err := services.BuildDutyLog(plan, start)
	if err != nil {
		writeDomainError(w, r, h.logger(), "generate logs", err)
		return
	}

	writeJSON(w, r, h.logger(), http.StatusOK, dto.NewTripLogResponse(tripLog))
}
