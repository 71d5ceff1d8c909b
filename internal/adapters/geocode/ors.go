package geocode

import (
	"context"
	"eld-trip-planner/internal/domain"
	"eld-trip-planner/internal/platform/obs"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

const DefaultORSBaseURL = "https://api.openrouteservice.org"

type geocodeResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"features"`
}

// ORSResolver resolves descriptors with the OpenRouteService
// /geocode/search endpoint. It is safe for concurrent use.
type ORSResolver struct {
	session *http.Client
	apiKey  string
	baseURL string
	backoff time.Duration
	logger  *zap.Logger
}

func NewORSResolver(apiKey string, baseURL string, logger *zap.Logger) (*ORSResolver, error) {
	if apiKey == "" {
		return nil, errors.New("ORS api key is empty")
	}
	if baseURL == "" {
		baseURL = DefaultORSBaseURL
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &ORSResolver{
		session: &http.Client{Timeout: 10 * time.Second},
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		backoff: 200 * time.Millisecond,
		logger:  logger,
	}, nil
}

func (o *ORSResolver) Resolve(ctx context.Context, descriptor string) (_ domain.Coordinate, err error) {
	defer obs.Time(ctx, o.logger, "ors.Resolve")(&err)

	if c, ok := ParseLatLng(descriptor); ok {
		return c, nil
	}

	text := strings.Join(strings.Fields(descriptor), " ")
	if text == "" {
		return domain.Coordinate{}, fmt.Errorf("ors geocode: %w: empty descriptor", domain.ErrUnresolvableLocation)
	}

	query := url.Values{}
	query.Set("text", text)
	query.Set("boundary.country", "US")
	query.Set("size", "1")

	body, err := o.fetchJSON(ctx, o.baseURL+"/geocode/search", query)
	if err != nil {
		return domain.Coordinate{}, fmt.Errorf("ors geocode %q: %w", text, err)
	}

	var decoded geocodeResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return domain.Coordinate{}, fmt.Errorf("ors geocode %q: decode response: %w", text, err)
	}

	if len(decoded.Features) == 0 {
		return domain.Coordinate{}, fmt.Errorf("ors geocode: %w: no results for %q", domain.ErrUnresolvableLocation, text)
	}

	coords := decoded.Features[0].Geometry.Coordinates
	if len(coords) != 2 {
		return domain.Coordinate{}, fmt.Errorf("ors geocode %q: invalid coordinate format", text)
	}

	// GeoJSON order is [lng, lat].
	return domain.Coordinate{Lon: coords[0], Lat: coords[1]}, nil
}
