package geocode

import (
	"context"
	"eld-trip-planner/internal/domain"
	"fmt"
	"strconv"
	"strings"
)

// A named place and its coordinate.
type GazetteerEntry struct {
	Name string  `json:"name" yaml:"name"`
	Lat  float64 `json:"lat" yaml:"lat"`
	Lng  float64 `json:"lng" yaml:"lng"`
}

func (e GazetteerEntry) Coordinate() domain.Coordinate {
	return domain.Coordinate{Lat: e.Lat, Lon: e.Lng}
}

// Built-in places, matched in this order.
var defaultEntries = []GazetteerEntry{
	{Name: "new york", Lat: 40.7128, Lng: -74.0060},
	{Name: "los angeles", Lat: 34.0522, Lng: -118.2437},
	{Name: "chicago", Lat: 41.8781, Lng: -87.6298},
	{Name: "houston", Lat: 29.7604, Lng: -95.3698},
	{Name: "phoenix", Lat: 33.4484, Lng: -112.0740},
	{Name: "philadelphia", Lat: 39.9526, Lng: -75.1652},
	{Name: "san antonio", Lat: 29.4241, Lng: -98.4936},
	{Name: "san diego", Lat: 32.7157, Lng: -117.1611},
	{Name: "dallas", Lat: 32.7767, Lng: -96.7970},
	{Name: "san francisco", Lat: 37.7749, Lng: -122.4194},
	{Name: "austin", Lat: 30.2672, Lng: -97.7431},
	{Name: "seattle", Lat: 47.6062, Lng: -122.3321},
	{Name: "denver", Lat: 39.7392, Lng: -104.9903},
}

func DefaultEntries() []GazetteerEntry {
	out := make([]GazetteerEntry, len(defaultEntries))
	copy(out, defaultEntries)
	return out
}

// Gazetteer is an offline, deterministic GeoResolver.
//
// A descriptor of the form "lat,lng" resolves to itself. Otherwise the
// first entry whose name occurs in the descriptor (case-insensitive) wins.
// Extra entries are consulted before the built-in ones.
type Gazetteer struct {
	entries []GazetteerEntry
}

func NewGazetteer(extra ...GazetteerEntry) *Gazetteer {
	entries := make([]GazetteerEntry, 0, len(extra)+len(defaultEntries))
	for _, e := range extra {
		e.Name = NormalizeKey(e.Name)
		if e.Name == "" {
			continue
		}
		entries = append(entries, e)
	}
	entries = append(entries, defaultEntries...)

	return &Gazetteer{entries: entries}
}

func (g *Gazetteer) Entries() []GazetteerEntry {
	out := make([]GazetteerEntry, len(g.entries))
	copy(out, g.entries)
	return out
}

func (g *Gazetteer) Resolve(ctx context.Context, descriptor string) (domain.Coordinate, error) {
	if err := ctx.Err(); err != nil {
		return domain.Coordinate{}, err
	}

	if c, ok := ParseLatLng(descriptor); ok {
		return c, nil
	}

	key := NormalizeKey(descriptor)
	if key == "" {
		return domain.Coordinate{}, fmt.Errorf("gazetteer: %w: empty descriptor", domain.ErrUnresolvableLocation)
	}

	for _, e := range g.entries {
		if strings.Contains(key, e.Name) {
			return e.Coordinate(), nil
		}
	}

	return domain.Coordinate{}, fmt.Errorf("gazetteer: %w: no match for %q", domain.ErrUnresolvableLocation, descriptor)
}

// ParseLatLng parses "lat,lng" in decimal degrees.
func ParseLatLng(s string) (domain.Coordinate, bool) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return domain.Coordinate{}, false
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return domain.Coordinate{}, false
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return domain.Coordinate{}, false
	}

	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return domain.Coordinate{}, false
	}

	return domain.Coordinate{Lat: lat, Lon: lng}, true
}

// NormalizeKey collapses whitespace and lower-cases s so that equivalent
// descriptors share cache keys.
func NormalizeKey(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
