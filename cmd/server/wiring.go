package main

import (
	"context"
	"database/sql"
	"eld-trip-planner/internal/adapters/cache"
	"eld-trip-planner/internal/adapters/geocode"
	"eld-trip-planner/internal/config"
	"eld-trip-planner/internal/platform/db"
	"eld-trip-planner/internal/ports"
	"fmt"

	"go.uber.org/zap"
)

// buildResolver assembles the upstream resolver and its cache layers:
// Redis first when enabled, then the SQL cache. The returned cleanup
// closes whatever was opened.
func buildResolver(ctx context.Context, cfg *config.Config, logger *zap.Logger) (ports.GeoResolver, func(), error) {
	var closers []func() error
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil {
				logger.Warn("close resource", zap.Error(err))
			}
		}
	}

	upstream, err := buildUpstream(cfg, logger)
	if err != nil {
		return nil, cleanup, err
	}

	var layers []ports.GeocodeCache

	if cfg.RedisEnabled {
		client, err := cache.DialRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			cleanup()
			return nil, func() {}, fmt.Errorf("build resolver: %w", err)
		}
		rc := cache.NewRedisGeocodeCache(client, cfg.CacheTTL, logger)
		closers = append(closers, rc.Close)
		layers = append(layers, rc)
	}

	var conn *sql.DB
	switch cfg.GeocodeCache {
	case config.CacheSQLite:
		conn, err = db.OpenSQLite(ctx, cfg.DBPath)
		if err == nil {
			layers = append(layers, cache.NewSqliteGeocodeCache(conn, logger))
		}
	case config.CachePostgres:
		conn, err = db.Open(ctx, cfg.DatabaseURL)
		if err == nil {
			layers = append(layers, cache.NewSQLGeocodeCache(conn, logger))
		}
	}
	if err != nil {
		cleanup()
		return nil, func() {}, fmt.Errorf("build resolver: %w", err)
	}
	if conn != nil {
		closers = append(closers, conn.Close)
		if err := cache.InitSchema(ctx, conn); err != nil {
			cleanup()
			return nil, func() {}, fmt.Errorf("build resolver: %w", err)
		}
	}

	if len(layers) == 0 {
		return upstream, cleanup, nil
	}

	resolver, err := geocode.NewCachedResolver(upstream, logger, layers...)
	if err != nil {
		cleanup()
		return nil, func() {}, fmt.Errorf("build resolver: %w", err)
	}
	return resolver, cleanup, nil
}

func buildUpstream(cfg *config.Config, logger *zap.Logger) (ports.GeoResolver, error) {
	switch cfg.Geocoder {
	case config.GeocoderORS:
		return geocode.NewORSResolver(cfg.ORSAPIKey, cfg.ORSBaseURL, logger)
	default:
		var extra []geocode.GazetteerEntry
		if cfg.GazetteerPath != "" {
			entries, err := geocode.LoadGazetteerFile(cfg.GazetteerPath)
			if err != nil {
				return nil, fmt.Errorf("build resolver: %w", err)
			}
			extra = entries
		}
		return geocode.NewGazetteer(extra...), nil
	}
}
