// Package search implements the restaurant search orchestration:
// paginated provider queries, result normalization, distance-sorted
// merging, TTL caching, timeout racing, and superseded-request gating.
package search

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/forkcast/forkcast/internal/geo"
	"github.com/forkcast/forkcast/internal/provider"
	"github.com/forkcast/forkcast/internal/types"
	"github.com/forkcast/forkcast/pkg/observability"
)

const (
	// searchQuery is the fixed text query sent to the provider.
	searchQuery = "restaurants"

	defaultTimeout   = 30 * time.Second
	defaultPageDelay = 200 * time.Millisecond
	defaultCacheTTL  = 5 * time.Minute
)

var _ Service = (*ServiceImpl)(nil)

// Service is the search surface exposed to the UI layer.
type Service interface {
	// Search returns restaurants around center sorted ascending by
	// distance. A call superseded by a newer one settles with
	// types.ErrSuperseded and leaves Latest untouched.
	Search(ctx context.Context, center types.Coordinate, radiusMiles float64) ([]types.Restaurant, error)

	// Latest returns the result list of the most recent search that
	// settled while still current.
	Latest() []types.Restaurant
}

// Options tune the orchestrator; zero values fall back to production
// defaults.
type Options struct {
	Timeout   time.Duration
	PageDelay time.Duration
	CacheTTL  time.Duration
}

type ServiceImpl struct {
	logger    *slog.Logger
	places    provider.Places
	cache     *cache.Cache
	timeout   time.Duration
	pageDelay time.Duration

	// seq tags every Search call; only the call holding the latest
	// token may publish its outcome.
	seq atomic.Uint64

	mu      sync.Mutex
	visible []types.Restaurant
}

func NewServiceImpl(places provider.Places, logger *slog.Logger, opts Options) *ServiceImpl {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.PageDelay <= 0 {
		opts.PageDelay = defaultPageDelay
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = defaultCacheTTL
	}

	return &ServiceImpl{
		logger:    logger,
		places:    places,
		cache:     cache.New(opts.CacheTTL, 10*time.Minute),
		timeout:   opts.Timeout,
		pageDelay: opts.PageDelay,
	}
}

func (s *ServiceImpl) Search(ctx context.Context, center types.Coordinate, radiusMiles float64) ([]types.Restaurant, error) {
	token := s.seq.Add(1)
	start := time.Now()

	ctx, span := otel.Tracer("SearchService").Start(ctx, "Search", trace.WithAttributes(
		attribute.Float64("location.lat", center.Lat),
		attribute.Float64("location.lng", center.Lng),
		attribute.Float64("radius_miles", radiusMiles),
	))
	defer span.End()

	l := s.logger.With(
		slog.String("service", "Search"),
		slog.String("request_id", uuid.NewString()),
	)

	if !types.ValidRadius(radiusMiles) {
		return nil, fmt.Errorf("%w: radius %g miles is not one of the supported options", types.ErrInvalidInput, radiusMiles)
	}

	key := searchCacheKey(types.SearchQuery{Center: center, RadiusMiles: radiusMiles})
	span.SetAttributes(attribute.String("cache.key", key))

	if cached, found := s.cache.Get(key); found {
		if list, ok := cached.([]types.Restaurant); ok {
			observability.SearchCacheLookups.WithLabelValues("hit").Inc()
			l.InfoContext(ctx, "Serving restaurants from cache", slog.String("key", key))
			return s.settle(ctx, l, token, list, nil)
		}
	}
	observability.SearchCacheLookups.WithLabelValues("miss").Inc()

	l.InfoContext(ctx, "Querying provider for restaurants",
		slog.Float64("lat", center.Lat),
		slog.Float64("lng", center.Lng),
		slog.Float64("radius_miles", radiusMiles),
	)

	type fetchResult struct {
		list []types.Restaurant
		err  error
	}
	resultCh := make(chan fetchResult, 1)

	// The fetch races the timeout; the slower side is discarded, never
	// aborted. A fetch that loses the race keeps running detached and
	// still populates the cache on success.
	go func() {
		list, err := s.fetchAllPages(context.WithoutCancel(ctx), center, radiusMiles, key)
		resultCh <- fetchResult{list: list, err: err}
	}()

	timer := time.NewTimer(s.timeout)
	defer timer.Stop()

	var res fetchResult
	select {
	case res = <-resultCh:
	case <-timer.C:
		res = fetchResult{err: types.ErrRequestTimedOut}
	case <-ctx.Done():
		res = fetchResult{err: ctx.Err()}
	}

	if res.err != nil {
		span.RecordError(res.err)
		span.SetStatus(codes.Error, "search failed")
	} else {
		span.SetAttributes(attribute.Int("results.count", len(res.list)))
		observability.SearchDuration.Observe(time.Since(start).Seconds())
	}

	return s.settle(ctx, l, token, res.list, res.err)
}

func (s *ServiceImpl) Latest() []types.Restaurant {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.visible
}

// settle publishes the outcome of one Search call, but only if no newer
// call was issued while it was in flight.
func (s *ServiceImpl) settle(ctx context.Context, l *slog.Logger, token uint64, list []types.Restaurant, err error) ([]types.Restaurant, error) {
	s.mu.Lock()
	// The currency check and the publish must share the critical
	// section; checked outside it, a stale call could pass and then
	// overwrite a newer call's results.
	if token != s.seq.Load() {
		s.mu.Unlock()
		l.DebugContext(ctx, "Discarding superseded search result", slog.Uint64("token", token))
		return nil, types.ErrSuperseded
	}
	if err != nil {
		s.visible = nil
	} else {
		s.visible = list
	}
	s.mu.Unlock()

	if err != nil {
		l.ErrorContext(ctx, "Search failed", slog.Any("error", err))
		return nil, err
	}

	l.InfoContext(ctx, "Search completed", slog.Int("count", len(list)))
	return list, nil
}

// fetchAllPages walks the provider's paginated response, normalizes
// every page into the accumulator, and on exhaustion sorts and caches
// the merged list.
func (s *ServiceImpl) fetchAllPages(ctx context.Context, center types.Coordinate, radiusMiles float64, key string) ([]types.Restaurant, error) {
	req := provider.TextSearchRequest{
		Lat:          center.Lat,
		Lng:          center.Lng,
		RadiusMeters: geo.MilesToMeters(radiusMiles),
		Query:        searchQuery,
	}

	// One token per page-delay interval spaces consecutive pages of
	// this fetch by the provider's courtesy delay. Scoped per fetch so
	// an earlier search never delays the first page of the next one.
	limiter := rate.NewLimiter(rate.Every(s.pageDelay), 1)

	all := make([]types.Restaurant, 0, 60)
	for {
		if err := limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("page pacing interrupted: %w", err)
		}

		resp, err := s.places.TextSearch(ctx, req)
		if err != nil {
			observability.ProviderRequests.WithLabelValues("textsearch", "transport_error").Inc()
			return nil, fmt.Errorf("text search request failed: %w", err)
		}
		observability.ProviderRequests.WithLabelValues("textsearch", string(resp.Status)).Inc()

		switch resp.Status {
		case provider.StatusOK:
		case provider.StatusZeroResults:
			return []types.Restaurant{}, nil
		case provider.StatusOverQueryLimit:
			return nil, types.ErrRateLimited
		case provider.StatusRequestDenied:
			return nil, types.ErrAccessDenied
		default:
			return nil, &types.ProviderError{Status: string(resp.Status), Message: resp.ErrorMessage}
		}

		for _, p := range resp.Results {
			all = append(all, normalizeRestaurant(p, center))
		}

		if resp.NextPageToken == "" {
			break
		}
		req = provider.TextSearchRequest{PageToken: resp.NextPageToken}
	}

	sortByDistance(all)
	s.cache.Set(key, all, cache.DefaultExpiration)
	return all, nil
}

// searchCacheKey derives the cache key from the rounded coordinate cell
// and radius, so nearby repeat searches share an entry.
func searchCacheKey(q types.SearchQuery) string {
	return fmt.Sprintf("%.4f_%.4f_%g", q.Center.Lat, q.Center.Lng, q.RadiusMiles)
}

// sortByDistance orders ascending by distance; entries without a
// distance sort last.
func sortByDistance(list []types.Restaurant) {
	dist := func(r types.Restaurant) float64 {
		if r.DistanceMiles == nil {
			return math.Inf(1)
		}
		return *r.DistanceMiles
	}
	sort.SliceStable(list, func(i, j int) bool {
		return dist(list[i]) < dist(list[j])
	})
}
