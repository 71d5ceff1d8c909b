package main

import (
	"context"
	"database/sql"
	"eld-trip-planner/internal/adapters/cache"
	"eld-trip-planner/internal/adapters/geocode"
	"eld-trip-planner/internal/config"
	"eld-trip-planner/internal/platform/db"
	"eld-trip-planner/internal/platform/obs"
	"eld-trip-planner/internal/ports"
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// dbtool creates the geocode cache schema and seeds it with gazetteer
// entries, from GAZETTEER_PATH when set or the built-in list otherwise.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	logger, err := obs.NewLogger(config.Get("LOG_LEVEL", "info"))
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()

	backend := config.Get("GEOCODE_CACHE", config.CacheSQLite)
	conn, store, err := open(ctx, backend, logger)
	if err != nil {
		logger.Fatal("open database", zap.Error(err))
	}
	defer conn.Close()

	if err := initAndSeed(ctx, conn, store, config.Get("GAZETTEER_PATH", ""), logger); err != nil {
		logger.Fatal("init and seed", zap.Error(err))
	}
}

func open(ctx context.Context, backend string, logger *zap.Logger) (*sql.DB, ports.GeocodeCache, error) {
	switch backend {
	case config.CachePostgres:
		databaseURL := config.Get("DATABASE_URL", "")
		if databaseURL == "" {
			return nil, nil, fmt.Errorf("DATABASE_URL is required")
		}
		conn, err := db.Open(ctx, databaseURL)
		if err != nil {
			return nil, nil, err
		}
		return conn, cache.NewSQLGeocodeCache(conn, logger), nil
	case config.CacheSQLite:
		conn, err := db.OpenSQLite(ctx, config.Get("DB_PATH", "data/app.db"))
		if err != nil {
			return nil, nil, err
		}
		return conn, cache.NewSqliteGeocodeCache(conn, logger), nil
	default:
		return nil, nil, fmt.Errorf("unsupported GEOCODE_CACHE %q", backend)
	}
}

func initAndSeed(ctx context.Context, conn *sql.DB, store ports.GeocodeCache, seedPath string, logger *zap.Logger) error {
	logger.Info("initializing database schema")
	if err := cache.InitSchema(ctx, conn); err != nil {
		return fmt.Errorf("schema initialization failed: %w", err)
	}

	entries := geocode.DefaultEntries()
	if seedPath != "" {
		extra, err := geocode.LoadGazetteerFile(seedPath)
		if err != nil {
			return fmt.Errorf("seeding failed: %w", err)
		}
		entries = append(entries, extra...)
	}

	logger.Info("seeding geocode cache", zap.Int("entries", len(entries)))
	if err := geocode.Seed(ctx, store, entries); err != nil {
		return fmt.Errorf("seeding failed: %w", err)
	}
	logger.Info("seeding complete")

	return nil
}
