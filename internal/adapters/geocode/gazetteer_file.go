package geocode

import (
	"context"
	"eld-trip-planner/internal/domain"
	"eld-trip-planner/internal/ports"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadGazetteerFile reads gazetteer entries from a JSON or YAML file,
// chosen by extension.
func LoadGazetteerFile(path string) ([]GazetteerEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load gazetteer: read %q: %w", path, err)
	}

	var entries []GazetteerEntry
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(data, &entries); err != nil {
			return nil, fmt.Errorf("load gazetteer: parse json: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &entries); err != nil {
			return nil, fmt.Errorf("load gazetteer: parse yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("load gazetteer: unsupported file type %q", filepath.Ext(path))
	}

	for i, e := range entries {
		if strings.TrimSpace(e.Name) == "" {
			return nil, fmt.Errorf("load gazetteer: entry at index %d: name cannot be empty", i+1)
		}
		if e.Lat < -90 || e.Lat > 90 || e.Lng < -180 || e.Lng > 180 {
			return nil, fmt.Errorf("load gazetteer: entry %q: coordinate out of range", e.Name)
		}
	}

	return entries, nil
}

// Seed writes entries into a geocode cache under their normalized names.
func Seed(ctx context.Context, cache ports.GeocodeCache, entries []GazetteerEntry) error {
	if cache == nil {
		return errors.New("seed geocode cache: cache is nil")
	}

	results := make(map[string]domain.Coordinate, len(entries))
	for _, e := range entries {
		key := NormalizeKey(e.Name)
		if key == "" {
			continue
		}
		results[key] = e.Coordinate()
	}

	if err := cache.PutMany(ctx, results); err != nil {
		return fmt.Errorf("seed geocode cache: %w", err)
	}
	return nil
}
