package geocode

import (
	"context"
	"eld-trip-planner/internal/domain"
	"eld-trip-planner/internal/platform/obs"
	"eld-trip-planner/internal/ports"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// CachedResolver consults its cache layers in order before falling back to
// the upstream resolver. A hit in a later layer, or an upstream result, is
// written back to every earlier layer.
//
// Cache read failures are returned. Write-back failures are logged and
// otherwise ignored, since the resolved coordinate is still correct.
type CachedResolver struct {
	layers   []ports.GeocodeCache
	upstream ports.GeoResolver
	logger   *zap.Logger
}

func NewCachedResolver(upstream ports.GeoResolver, logger *zap.Logger, layers ...ports.GeocodeCache) (*CachedResolver, error) {
	if upstream == nil {
		return nil, errors.New("cached resolver: upstream is nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	kept := make([]ports.GeocodeCache, 0, len(layers))
	for _, l := range layers {
		if l != nil {
			kept = append(kept, l)
		}
	}

	return &CachedResolver{layers: kept, upstream: upstream, logger: logger}, nil
}

func (r *CachedResolver) Resolve(ctx context.Context, descriptor string) (_ domain.Coordinate, err error) {
	defer obs.Time(ctx, r.logger, "geocode.cached.Resolve")(&err)

	key := NormalizeKey(descriptor)
	if key == "" {
		return domain.Coordinate{}, fmt.Errorf("cached resolver: %w: empty descriptor", domain.ErrUnresolvableLocation)
	}

	for i, layer := range r.layers {
		hits, err := layer.GetMany(ctx, []string{key})
		if err != nil {
			return domain.Coordinate{}, fmt.Errorf("cached resolver: read layer %d: %w", i, err)
		}
		if c, ok := hits[key]; ok {
			r.backfill(ctx, r.layers[:i], key, c)
			return c, nil
		}
	}

	c, err := r.upstream.Resolve(ctx, descriptor)
	if err != nil {
		return domain.Coordinate{}, err
	}

	r.backfill(ctx, r.layers, key, c)
	return c, nil
}

func (r *CachedResolver) backfill(ctx context.Context, layers []ports.GeocodeCache, key string, c domain.Coordinate) {
	for i, layer := range layers {
		if err := layer.PutMany(ctx, map[string]domain.Coordinate{key: c}); err != nil {
			r.logger.Warn("geocode cache write failed",
				zap.String("req_id", obs.RequestID(ctx)),
				zap.Int("layer", i),
				zap.String("key", key),
				zap.Error(err),
			)
		}
	}
}
