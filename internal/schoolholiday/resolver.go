package schoolholiday

import (
	"context"

	"github.com/username/urlaubsplaner/internal/holiday"
	"go.uber.org/zap"
)

// RemoteSource fetches school holiday periods from a live service
type RemoteSource interface {
	Fetch(ctx context.Context, year int, region holiday.Region) ([]Period, error)
}

// Resolver resolves school holidays with fallback strategy.
// Order: local cache, then the remote source, then the static table.
// Remote failure is never surfaced to the caller.
type Resolver struct {
	remote RemoteSource
	cache  *Cache
	logger *zap.Logger
}

// NewResolver creates a new Resolver. Both remote and cache may be nil,
// in which case only the static table is consulted.
func NewResolver(remote RemoteSource, cache *Cache, logger *zap.Logger) *Resolver {
	return &Resolver{
		remote: remote,
		cache:  cache,
		logger: logger,
	}
}

// Resolve returns the per-day school holiday map of one region for one
// year. A successful remote result supersedes the static table and is
// cached; on any remote failure the static table answers instead.
func (r *Resolver) Resolve(ctx context.Context, year int, region holiday.Region) (holiday.Map, error) {
	periods, err := r.resolvePeriods(ctx, year, region)
	if err != nil {
		return nil, err
	}
	return ExpandPeriods(periods, year), nil
}

func (r *Resolver) resolvePeriods(ctx context.Context, year int, region holiday.Region) ([]Period, error) {
	if r.cache != nil {
		if periods, ok := r.cache.Get(year, region); ok {
			r.logger.Debug("Using cached school holidays",
				zap.Int("year", year),
				zap.String("region", string(region)))
			return periods, nil
		}
	}

	if r.remote != nil {
		periods, err := r.remote.Fetch(ctx, year, region)
		if err == nil {
			if r.cache != nil {
				r.cache.Put(year, region, periods)
			}
			return periods, nil
		}

		// Cancellation is the caller abandoning the request, not a
		// degraded service; report it instead of answering statically.
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		r.logger.Warn("Remote school holiday source failed, falling back to static table",
			zap.Int("year", year),
			zap.String("region", string(region)),
			zap.Error(err))
	}

	return StaticPeriods(year, region), nil
}
