// Package suggest implements the debounced location-autocomplete
// orchestration: keystroke debouncing, suggestion panel state, and
// resolving a selected suggestion into a coordinate.
package suggest

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/forkcast/forkcast/internal/provider"
	"github.com/forkcast/forkcast/internal/types"
)

const (
	defaultDebounce       = 300 * time.Millisecond
	defaultRequestTimeout = 10 * time.Second
	minInputLength        = 2
)

var _ Service = (*ServiceImpl)(nil)

// Sink receives the orchestrator's UI-facing notifications.
type Sink interface {
	ShowSuggestions(suggestions []types.Suggestion)
	HideSuggestions()
	LocationResolved(coord types.Coordinate)
}

// Service is the suggestion surface exposed to the UI layer.
type Service interface {
	// SetInput reports the current free-text input. Fetches are
	// debounced; inputs shorter than two characters close the panel.
	SetInput(text string)

	// Select resolves one suggestion into a coordinate and suppresses
	// suggestion fetches while the selection is being finalized.
	Select(ctx context.Context, suggestion types.Suggestion) error
}

// Options tune the orchestrator; zero values fall back to defaults.
type Options struct {
	Debounce       time.Duration
	RequestTimeout time.Duration
}

type ServiceImpl struct {
	logger         *slog.Logger
	places         provider.Places
	sink           Sink
	debounce       time.Duration
	requestTimeout time.Duration

	mu        sync.Mutex
	input     string
	selecting bool
	timer     *time.Timer
	// gen invalidates debounce timers raced by later keystrokes.
	gen uint64
}

func NewServiceImpl(places provider.Places, sink Sink, logger *slog.Logger, opts Options) *ServiceImpl {
	if opts.Debounce <= 0 {
		opts.Debounce = defaultDebounce
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = defaultRequestTimeout
	}
	return &ServiceImpl{
		logger:         logger,
		places:         places,
		sink:           sink,
		debounce:       opts.Debounce,
		requestTimeout: opts.RequestTimeout,
	}
}

func (s *ServiceImpl) SetInput(text string) {
	s.mu.Lock()

	// Editing the text away from the just-selected description ends
	// the selection and restores normal suggestion behavior.
	if s.selecting && text != s.input {
		s.selecting = false
	}
	s.input = text

	trimmed := strings.TrimSpace(text)
	if len([]rune(trimmed)) < minInputLength || s.selecting {
		s.invalidatePendingLocked()
		s.mu.Unlock()
		s.sink.HideSuggestions()
		return
	}

	s.invalidatePendingLocked()
	gen := s.gen
	s.timer = time.AfterFunc(s.debounce, func() {
		s.fetchSuggestions(gen, trimmed)
	})
	s.mu.Unlock()
}

func (s *ServiceImpl) Select(ctx context.Context, suggestion types.Suggestion) error {
	ctx, span := otel.Tracer("SuggestService").Start(ctx, "Select", trace.WithAttributes(
		attribute.String("place.id", suggestion.PlaceID),
	))
	defer span.End()

	l := s.logger.With(slog.String("service", "Select"))

	s.mu.Lock()
	s.invalidatePendingLocked()
	s.selecting = true
	s.input = suggestion.Description
	s.mu.Unlock()
	s.sink.HideSuggestions()

	l.DebugContext(ctx, "Resolving selected suggestion", slog.String("description", suggestion.Description))

	resp, err := s.places.Details(ctx, provider.DetailsRequest{
		PlaceID: suggestion.PlaceID,
		Fields:  []string{"geometry"},
	})
	if err != nil {
		s.exitSelecting()
		span.RecordError(err)
		span.SetStatus(codes.Error, "details lookup failed")
		l.ErrorContext(ctx, "Failed to resolve suggestion", slog.Any("error", err))
		return fmt.Errorf("failed to resolve suggestion: %w", err)
	}
	if resp.Status != provider.StatusOK {
		s.exitSelecting()
		err := detailsStatusError(resp.Status, resp.ErrorMessage)
		span.RecordError(err)
		span.SetStatus(codes.Error, "details lookup rejected")
		l.ErrorContext(ctx, "Failed to resolve suggestion", slog.Any("error", err))
		return err
	}
	if resp.Result == nil || resp.Result.Geometry == nil {
		s.exitSelecting()
		err := &types.ProviderError{Status: string(resp.Status), Message: "place has no geometry"}
		l.ErrorContext(ctx, "Failed to resolve suggestion", slog.Any("error", err))
		return err
	}

	coord := types.Coordinate{
		Lat: resp.Result.Geometry.Location.Lat,
		Lng: resp.Result.Geometry.Location.Lng,
	}
	l.InfoContext(ctx, "Suggestion resolved",
		slog.Float64("lat", coord.Lat),
		slog.Float64("lng", coord.Lng),
	)

	// Selecting stays set on success so the description now shown in
	// the input does not re-trigger a suggestion fetch.
	s.sink.LocationResolved(coord)
	return nil
}

// fetchSuggestions runs after the debounce interval with the input that
// scheduled it. Stale generations and in-progress selections bail out.
func (s *ServiceImpl) fetchSuggestions(gen uint64, text string) {
	s.mu.Lock()
	if gen != s.gen || s.selecting {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), s.requestTimeout)
	defer cancel()

	l := s.logger.With(slog.String("service", "fetchSuggestions"))
	l.DebugContext(ctx, "Fetching suggestions", slog.String("input", text))

	resp, err := s.places.Autocomplete(ctx, text)
	if err != nil {
		l.ErrorContext(ctx, "Autocomplete request failed", slog.Any("error", err))
		s.sink.HideSuggestions()
		return
	}

	switch resp.Status {
	case provider.StatusOK:
		s.mu.Lock()
		current := gen == s.gen && !s.selecting
		s.mu.Unlock()
		if !current {
			return
		}
		suggestions := make([]types.Suggestion, 0, len(resp.Predictions))
		for _, p := range resp.Predictions {
			suggestions = append(suggestions, types.Suggestion{
				PlaceID:       p.PlaceID,
				PrimaryText:   p.StructuredFormatting.MainText,
				SecondaryText: p.StructuredFormatting.SecondaryText,
				Description:   p.Description,
			})
		}
		l.DebugContext(ctx, "Suggestions received", slog.Int("count", len(suggestions)))
		s.sink.ShowSuggestions(suggestions)
	case provider.StatusZeroResults:
		s.sink.HideSuggestions()
	default:
		l.WarnContext(ctx, "Autocomplete returned unexpected status",
			slog.String("status", string(resp.Status)),
			slog.String("message", resp.ErrorMessage),
		)
		s.sink.HideSuggestions()
	}
}

func (s *ServiceImpl) exitSelecting() {
	s.mu.Lock()
	s.selecting = false
	s.mu.Unlock()
}

// invalidatePendingLocked cancels any scheduled fetch. Callers hold mu.
func (s *ServiceImpl) invalidatePendingLocked() {
	s.gen++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func detailsStatusError(status provider.Status, message string) error {
	switch status {
	case provider.StatusOverQueryLimit:
		return types.ErrRateLimited
	case provider.StatusRequestDenied:
		return types.ErrAccessDenied
	default:
		return &types.ProviderError{Status: string(status), Message: message}
	}
}
