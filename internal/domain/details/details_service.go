// Package details implements the lazy place-detail orchestration:
// on-demand provider lookups behind a no-expiry per-place cache.
package details

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/forkcast/forkcast/internal/provider"
	"github.com/forkcast/forkcast/internal/types"
	"github.com/forkcast/forkcast/pkg/observability"
)

const (
	maxPhotos     = 5
	maxReviews    = 3
	photoMaxWidth = 400
)

// detailFields is the fixed field set requested from the provider.
var detailFields = []string{
	"formatted_phone_number",
	"opening_hours",
	"photos",
	"reviews",
	"website",
	"url",
}

var _ Service = (*ServiceImpl)(nil)

// Service is the detail surface exposed to the UI layer.
type Service interface {
	// GetDetails returns the extended record for one place. Details
	// are fetched at most once per place per process lifetime; the
	// cache never expires.
	GetDetails(ctx context.Context, placeID string) (*types.PlaceDetails, error)
}

type ServiceImpl struct {
	logger *slog.Logger
	places provider.Places
	cache  *cache.Cache
}

func NewServiceImpl(places provider.Places, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger: logger,
		places: places,
		cache:  cache.New(cache.NoExpiration, 0),
	}
}

func (s *ServiceImpl) GetDetails(ctx context.Context, placeID string) (*types.PlaceDetails, error) {
	ctx, span := otel.Tracer("DetailsService").Start(ctx, "GetDetails", trace.WithAttributes(
		attribute.String("place.id", placeID),
	))
	defer span.End()

	l := s.logger.With(slog.String("service", "GetDetails"), slog.String("place_id", placeID))

	if placeID == "" {
		return nil, fmt.Errorf("%w: empty place id", types.ErrInvalidInput)
	}

	if cached, found := s.cache.Get(placeID); found {
		if d, ok := cached.(*types.PlaceDetails); ok {
			observability.DetailCacheLookups.WithLabelValues("hit").Inc()
			l.DebugContext(ctx, "Serving place details from cache")
			return d, nil
		}
	}
	observability.DetailCacheLookups.WithLabelValues("miss").Inc()

	resp, err := s.places.Details(ctx, provider.DetailsRequest{
		PlaceID: placeID,
		Fields:  detailFields,
	})
	if err != nil {
		observability.ProviderRequests.WithLabelValues("details", "transport_error").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "details request failed")
		l.ErrorContext(ctx, "Details request failed", slog.Any("error", err))
		return nil, fmt.Errorf("details request failed: %w", err)
	}
	observability.ProviderRequests.WithLabelValues("details", string(resp.Status)).Inc()

	if resp.Status == provider.StatusOK && resp.Result == nil {
		resp.Status = provider.StatusUnknownError
		resp.ErrorMessage = "missing result payload"
	}
	if resp.Status != provider.StatusOK {
		err := statusError(resp.Status, resp.ErrorMessage)
		span.RecordError(err)
		span.SetStatus(codes.Error, "details request rejected")
		l.ErrorContext(ctx, "Details request rejected", slog.Any("error", err))
		return nil, err
	}

	d := s.normalizeDetails(resp.Result)
	s.cache.Set(placeID, d, cache.NoExpiration)

	l.InfoContext(ctx, "Place details fetched",
		slog.Int("photos", len(d.Photos)),
		slog.Int("reviews", len(d.Reviews)),
	)
	return d, nil
}

// normalizeDetails maps the raw record into the domain shape, bounding
// photos and reviews.
func (s *ServiceImpl) normalizeDetails(p *provider.Place) *types.PlaceDetails {
	d := &types.PlaceDetails{
		Phone:   p.FormattedPhoneNumber,
		Website: p.Website,
		MapURL:  p.URL,
	}

	if p.OpeningHours != nil {
		d.Hours = p.OpeningHours.WeekdayText
		d.OpenNow = p.OpeningHours.OpenNow
	}

	for _, photo := range p.Photos {
		if len(d.Photos) == maxPhotos {
			break
		}
		attribution := ""
		if len(photo.HTMLAttributions) > 0 {
			attribution = photo.HTMLAttributions[0]
		}
		d.Photos = append(d.Photos, types.PlacePhoto{
			URL:         s.places.PhotoURL(photo.PhotoReference, photoMaxWidth),
			Attribution: attribution,
		})
	}

	for _, review := range p.Reviews {
		if len(d.Reviews) == maxReviews {
			break
		}
		d.Reviews = append(d.Reviews, types.PlaceReview{
			Author:       review.AuthorName,
			Rating:       review.Rating,
			Text:         review.Text,
			RelativeTime: review.RelativeTimeDescription,
		})
	}

	return d
}

func statusError(status provider.Status, message string) error {
	switch status {
	case provider.StatusOverQueryLimit:
		return types.ErrRateLimited
	case provider.StatusRequestDenied:
		return types.ErrAccessDenied
	default:
		return &types.ProviderError{Status: string(status), Message: message}
	}
}
