// Package location resolves the user's position, either from a
// geolocation sensor or by geocoding a free-text address.
package location

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/forkcast/forkcast/internal/provider"
	"github.com/forkcast/forkcast/internal/types"
)

const (
	defaultSensorTimeout = 10 * time.Second
	defaultMaxFixAge     = 5 * time.Minute
)

// Sensor yields the device's current position. Implementations signal
// failures with the sentinel errors in the types package where they can
// tell them apart.
type Sensor interface {
	CurrentPosition(ctx context.Context) (types.Coordinate, error)
}

var _ Service = (*ServiceImpl)(nil)

// Service is the location surface exposed to the UI layer.
type Service interface {
	// Locate returns the device position, reusing a recent fix when
	// one is younger than the staleness tolerance.
	Locate(ctx context.Context) (types.Coordinate, error)

	// Refresh bypasses the recent fix and forces a sensor read.
	Refresh(ctx context.Context) (types.Coordinate, error)

	// Geocode resolves a street address into a coordinate.
	Geocode(ctx context.Context, address string) (types.GeocodeResult, error)
}

// Options tune the service; zero values fall back to defaults.
type Options struct {
	SensorTimeout time.Duration
	MaxFixAge     time.Duration
}

type ServiceImpl struct {
	logger   *slog.Logger
	sensor   Sensor
	geocoder provider.Geocoder
	timeout  time.Duration
	maxAge   time.Duration
	now      func() time.Time

	mu        sync.Mutex
	lastFix   types.Coordinate
	lastFixAt time.Time
}

func NewServiceImpl(sensor Sensor, geocoder provider.Geocoder, logger *slog.Logger, opts Options) *ServiceImpl {
	if opts.SensorTimeout <= 0 {
		opts.SensorTimeout = defaultSensorTimeout
	}
	if opts.MaxFixAge <= 0 {
		opts.MaxFixAge = defaultMaxFixAge
	}
	return &ServiceImpl{
		logger:   logger,
		sensor:   sensor,
		geocoder: geocoder,
		timeout:  opts.SensorTimeout,
		maxAge:   opts.MaxFixAge,
		now:      time.Now,
	}
}

func (s *ServiceImpl) Locate(ctx context.Context) (types.Coordinate, error) {
	s.mu.Lock()
	if !s.lastFixAt.IsZero() && s.now().Sub(s.lastFixAt) < s.maxAge {
		fix := s.lastFix
		s.mu.Unlock()
		s.logger.DebugContext(ctx, "Reusing recent position fix")
		return fix, nil
	}
	s.mu.Unlock()

	return s.Refresh(ctx)
}

func (s *ServiceImpl) Refresh(ctx context.Context) (types.Coordinate, error) {
	l := s.logger.With(slog.String("service", "Refresh"))

	if s.sensor == nil {
		return types.Coordinate{}, types.ErrSensorUnavailable
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	coord, err := s.sensor.CurrentPosition(ctx)
	if err != nil {
		err = mapSensorError(err)
		l.ErrorContext(ctx, "Sensor read failed", slog.Any("error", err))
		return types.Coordinate{}, err
	}

	s.mu.Lock()
	s.lastFix = coord
	s.lastFixAt = s.now()
	s.mu.Unlock()

	l.InfoContext(ctx, "Position acquired",
		slog.Float64("lat", coord.Lat),
		slog.Float64("lng", coord.Lng),
	)
	return coord, nil
}

func (s *ServiceImpl) Geocode(ctx context.Context, address string) (types.GeocodeResult, error) {
	l := s.logger.With(slog.String("service", "Geocode"))

	if strings.TrimSpace(address) == "" {
		return types.GeocodeResult{}, fmt.Errorf("%w: empty address", types.ErrInvalidInput)
	}

	resp, err := s.geocoder.Geocode(ctx, address)
	if err != nil {
		l.ErrorContext(ctx, "Geocode request failed", slog.Any("error", err))
		return types.GeocodeResult{}, fmt.Errorf("geocode request failed: %w", err)
	}

	switch resp.Status {
	case provider.StatusOK:
		if len(resp.Results) == 0 {
			return types.GeocodeResult{}, &types.ProviderError{Status: string(resp.Status), Message: "empty result set"}
		}
	case provider.StatusZeroResults:
		return types.GeocodeResult{}, &types.ProviderError{Status: string(resp.Status), Message: "address not found"}
	case provider.StatusOverQueryLimit:
		return types.GeocodeResult{}, types.ErrRateLimited
	case provider.StatusRequestDenied:
		return types.GeocodeResult{}, types.ErrAccessDenied
	default:
		return types.GeocodeResult{}, &types.ProviderError{Status: string(resp.Status), Message: resp.ErrorMessage}
	}

	top := resp.Results[0]
	result := types.GeocodeResult{
		Location: types.Coordinate{
			Lat: top.Geometry.Location.Lat,
			Lng: top.Geometry.Location.Lng,
		},
		FormattedAddress: top.FormattedAddress,
	}

	l.InfoContext(ctx, "Address geocoded", slog.String("formatted", result.FormattedAddress))
	return result, nil
}

// mapSensorError folds transport-level failures into the sensor error
// taxonomy; errors that are already classified pass through.
func mapSensorError(err error) error {
	switch {
	case errors.Is(err, types.ErrSensorPermissionDenied),
		errors.Is(err, types.ErrSensorTimeout),
		errors.Is(err, types.ErrSensorUnavailable):
		return err
	case errors.Is(err, context.DeadlineExceeded):
		return types.ErrSensorTimeout
	default:
		return fmt.Errorf("%w: %s", types.ErrSensorUnavailable, err)
	}
}

// StaticSensor reports a fixed position. It stands in for a real
// device sensor in headless runs.
type StaticSensor struct {
	Position types.Coordinate
}

func (s StaticSensor) CurrentPosition(context.Context) (types.Coordinate, error) {
	return s.Position, nil
}
