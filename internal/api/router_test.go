package api

import (
	"context"
	"eld-trip-planner/internal/adapters/geocode"
	"eld-trip-planner/internal/api/dto"
	"eld-trip-planner/internal/domain"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestRouter() http.Handler {
	return NewRouter(geocode.NewGazetteer(), zap.NewNop())
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

const crossCountry = `{
	"current_location": "New York, NY",
	"pickup_location": "Chicago, IL",
	"dropoff_location": "Los Angeles, CA",
	"current_cycle_hours": 0
}`

func TestHealth(t *testing.T) {
	rec := do(t, newTestRouter(), http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestGeocode(t *testing.T) {
	h := newTestRouter()

	for _, target := range []string{"/api/geocode/?address=Chicago", "/api/geocode?address=Chicago"} {
		rec := do(t, h, http.MethodGet, target, "")
		require.Equal(t, http.StatusOK, rec.Code, target)

		got := decode[dto.GeocodeResponse](t, rec)
		assert.Equal(t, dto.GeocodeResponse{Lat: 41.8781, Lng: -87.6298}, got)
	}
}

func TestGeocodeErrors(t *testing.T) {
	h := newTestRouter()

	rec := do(t, h, http.MethodGet, "/api/geocode/", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/geocode/?address=Atlantis", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestCalculateRoute(t *testing.T) {
	rec := do(t, newTestRouter(), http.MethodPost, "/api/calculate-route/", crossCountry)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	got := decode[dto.RoutePlanResponse](t, rec)

	assert.Equal(t, "New York, NY", got.StartLocation)
	assert.Equal(t, []float64{40.7128, -74.0060}, got.StartCoordinates)
	assert.Equal(t, []float64{41.8781, -87.6298}, got.PickupCoordinates)
	assert.Len(t, got.RouteCoordinates, 51)
	assert.Equal(t, got.PickupCoordinates, got.RouteCoordinates[20])
	assert.Len(t, got.FuelStops, 2)
	assert.NotEmpty(t, got.RestStops)

	for _, s := range got.RestStops {
		assert.NotEmpty(t, s.Reason)
		assert.NotEmpty(t, s.ReasonCode)
		assert.Len(t, s.Coordinates, 2)
	}

	rest := 0.0
	for _, s := range got.RestStops {
		rest += s.Duration
	}
	assert.InDelta(t, got.DrivingTime+rest+2, got.TotalTripTime, 1e-9)
}

func TestCalculateRouteRejectsBadRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{"malformed json", `{"current_location":`, http.StatusBadRequest},
		{"unknown field", `{"current_location":"Chicago","pickup_location":"Dallas","dropoff_location":"Denver","speed":60}`, http.StatusBadRequest},
		{"two objects", `{"current_location":"Chicago","pickup_location":"Dallas","dropoff_location":"Denver"}{}`, http.StatusBadRequest},
		{"missing location", `{"current_location":"","pickup_location":"Dallas","dropoff_location":"Denver"}`, http.StatusBadRequest},
		{"negative cycle", `{"current_location":"Chicago","pickup_location":"Dallas","dropoff_location":"Denver","current_cycle_hours":-1}`, http.StatusBadRequest},
		{"cycle over cap", `{"current_location":"Chicago","pickup_location":"Dallas","dropoff_location":"Denver","current_cycle_hours":71}`, http.StatusBadRequest},
		{"unresolvable", `{"current_location":"Atlantis","pickup_location":"Dallas","dropoff_location":"Denver"}`, http.StatusUnprocessableEntity},
	}

	h := newTestRouter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/api/calculate-route/", tt.body)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())

			body := decode[map[string]string](t, rec)
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestCalculateRouteBodyTooLarge(t *testing.T) {
	body := `{"current_location":"` + strings.Repeat("x", 2<<20) + `"}`

	rec := do(t, newTestRouter(), http.MethodPost, "/api/calculate-route/", body)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestMethodNotAllowed(t *testing.T) {
	rec := do(t, newTestRouter(), http.MethodGet, "/api/calculate-route/", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestGenerateLogsFromCalculatedRoute(t *testing.T) {
	h := newTestRouter()

	rec := do(t, h, http.MethodPost, "/api/calculate-route/", crossCountry)
	require.Equal(t, http.StatusOK, rec.Code)
	plan := decode[dto.RoutePlanResponse](t, rec)

	plan.CurrentCycleHours = 40
	body, err := json.Marshal(dto.GenerateLogsRequest{RoutePlanResponse: plan, StartDate: "2026-03-01"})
	require.NoError(t, err)

	rec = do(t, h, http.MethodPost, "/api/generate-eld-logs/", string(body))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	got := decode[dto.TripLogResponse](t, rec)
	require.Len(t, got.Days, int(math.Ceil(plan.TotalTripTime/24)))

	assert.Equal(t, "2026-03-01", got.Days[0].Date)
	assert.Equal(t, "Sun, Mar 01", got.Days[0].CalendarDate)
	assert.Equal(t, "2026-03-02", got.Days[1].Date)

	assert.Equal(t, 40.0, got.PriorCycleHours)
	day0 := got.Days[0]
	assert.InDelta(t, day0.DrivingHours+day0.OnDutyHours, day0.CycleHoursUsed, 1e-9)

	first := got.Days[0].StatusBlocks[0]
	assert.Equal(t, dto.StatusBlockResponse{Status: "ON", StartHour: 0, EndHour: 1}, first)

	prevCycle := 0.0
	for _, d := range got.Days {
		assert.InDelta(t, 24, d.DrivingHours+d.OnDutyHours+d.OffDutyHours, 1e-9, d.Date)
		assert.GreaterOrEqual(t, d.CycleHoursUsed, prevCycle)
		prevCycle = d.CycleHoursUsed

		for _, b := range d.StatusBlocks {
			assert.Contains(t, []string{"OFF", "SB", "D", "ON"}, b.Status)
		}
	}
}

func TestGenerateLogsAcceptsReasonLabels(t *testing.T) {
	body := `{
		"total_distance": 550,
		"driving_time": 10,
		"total_trip_time": 12.5,
		"rest_stops": [{"coordinates": [35, -100], "duration": 0.5, "reason": "30-minute break (8-hour driving limit)"}],
		"fuel_stops": [],
		"route_coordinates": [],
		"start_date": "2026-01-05"
	}`

	rec := do(t, newTestRouter(), http.MethodPost, "/api/generate-eld-logs", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	got := decode[dto.TripLogResponse](t, rec)
	require.Len(t, got.Days, 1)

	var descriptions []string
	for _, e := range got.Days[0].Events {
		descriptions = append(descriptions, e.Description)
	}
	assert.Contains(t, descriptions, "30-minute break (8-hour driving limit) (0.5 hours)")
}

func TestGenerateLogsRejectsBadRequests(t *testing.T) {
	tests := map[string]string{
		"bad start date":   `{"driving_time":1,"total_trip_time":3,"start_date":"03/01/2026"}`,
		"unknown reason":   `{"driving_time":9,"total_trip_time":11.5,"rest_stops":[{"coordinates":[1,2],"duration":0.5,"reason":"nap"}]}`,
		"bad coordinate":   `{"driving_time":1,"total_trip_time":3,"route_coordinates":[[1]]}`,
		"negative driving": `{"driving_time":-1,"total_trip_time":3}`,
		"zero rest":        `{"driving_time":9,"total_trip_time":11,"rest_stops":[{"coordinates":[1,2],"duration":0,"reason_code":"short_break"}]}`,
		"cycle over cap":   `{"driving_time":1,"total_trip_time":3,"current_cycle_hours":80}`,
		"unknown field":    `{"driving_time":1,"total_trip_time":3,"trip_id":7}`,
		"runaway trip":     `{"driving_time":1,"total_trip_time":1e10}`,
	}

	h := newTestRouter()
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/api/generate-eld-logs/", body)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
		})
	}
}

type brokenResolver struct{}

func (brokenResolver) Resolve(context.Context, string) (domain.Coordinate, error) {
	return domain.Coordinate{}, errors.New("upstream exploded")
}

func TestInternalErrorsAreHiddenAndLogged(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	h := NewRouter(brokenResolver{}, zap.New(core))

	req := httptest.NewRequest(http.MethodPost, "/api/calculate-route/", strings.NewReader(crossCountry))
	req.Header.Set(requestIDHeader, "req-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, rec.Body.String())
	assert.NotContains(t, rec.Body.String(), "exploded")

	failures := logs.FilterMessage("calculate route failed").All()
	require.Len(t, failures, 1)
	assert.Equal(t, "req-123", failures[0].ContextMap()["req_id"])

	requests := logs.FilterMessage("request").All()
	require.Len(t, requests, 1)
	assert.EqualValues(t, http.StatusInternalServerError, requests[0].ContextMap()["status"])
}

func TestRequestIDHeader(t *testing.T) {
	h := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(requestIDHeader, "abc")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "abc", rec.Header().Get(requestIDHeader))

	rec = do(t, h, http.MethodGet, "/health", "")
	assert.Len(t, rec.Header().Get(requestIDHeader), 36)
}
