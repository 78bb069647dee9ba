package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/forkcast/forkcast/internal/domain/details"
	"github.com/forkcast/forkcast/internal/geo"
	"github.com/forkcast/forkcast/internal/types"
	"github.com/forkcast/forkcast/pkg/config"
	"github.com/forkcast/forkcast/pkg/observability"
)

const topDetailCount = 3

func main() {
	address := flag.String("address", "", "street address to search around (geocoded)")
	suggestInput := flag.String("suggest", "", "free-text location input resolved via autocomplete")
	lat := flag.Float64("lat", 0, "latitude to search around")
	lng := flag.Float64("lng", 0, "longitude to search around")
	radius := flag.Float64("radius", 0, "search radius in miles (1, 5, 10 or 25)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg)
	deps := InitDependencies(cfg, logger)

	if cfg.Metrics.Addr != "" {
		go observability.ServeMetrics(cfg.Metrics.Addr, logger)
	}

	ctx := context.Background()

	center, err := resolveCenter(ctx, deps, *address, *suggestInput, *lat, *lng)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", friendlyError(err))
		os.Exit(1)
	}

	r := *radius
	if r == 0 {
		r = cfg.Search.RadiusMiles
	}

	restaurants, err := deps.SearchSvc.Search(ctx, center, r)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", friendlyError(err))
		os.Exit(1)
	}

	if len(restaurants) == 0 {
		fmt.Println("No restaurants found in this area. Try a larger radius.")
		return
	}

	printRestaurants(restaurants)
	printTopDetails(ctx, deps.DetailsSvc, restaurants)
}

// resolveCenter picks the search origin: an explicit coordinate, a
// geocoded address, an autocomplete selection, or the device sensor.
func resolveCenter(ctx context.Context, deps *Dependencies, address, suggestInput string, lat, lng float64) (types.Coordinate, error) {
	switch {
	case lat != 0 || lng != 0:
		return types.Coordinate{Lat: lat, Lng: lng}, nil
	case address != "":
		res, err := deps.LocationSvc.Geocode(ctx, address)
		if err != nil {
			return types.Coordinate{}, err
		}
		fmt.Printf("Searching near %s\n\n", res.FormattedAddress)
		return res.Location, nil
	case suggestInput != "":
		return resolveViaSuggestions(ctx, deps, suggestInput)
	default:
		return deps.LocationSvc.Locate(ctx)
	}
}

// consoleSink bridges the suggestion orchestrator to the terminal.
type consoleSink struct {
	suggestions chan []types.Suggestion
	resolved    chan types.Coordinate
}

func (c *consoleSink) ShowSuggestions(s []types.Suggestion) { c.suggestions <- s }
func (c *consoleSink) HideSuggestions()                     {}
func (c *consoleSink) LocationResolved(p types.Coordinate)  { c.resolved <- p }

// resolveViaSuggestions feeds the input through the suggestion
// orchestrator and selects the top prediction.
func resolveViaSuggestions(ctx context.Context, deps *Dependencies, input string) (types.Coordinate, error) {
	sink := &consoleSink{
		suggestions: make(chan []types.Suggestion, 1),
		resolved:    make(chan types.Coordinate, 1),
	}
	svc := deps.NewSuggestService(sink)

	svc.SetInput(input)

	var suggestions []types.Suggestion
	select {
	case suggestions = <-sink.suggestions:
	case <-time.After(deps.Config.Suggest.Debounce + deps.Config.Provider.Timeout):
		return types.Coordinate{}, fmt.Errorf("no location suggestions for %q", input)
	}
	if len(suggestions) == 0 {
		return types.Coordinate{}, fmt.Errorf("no location suggestions for %q", input)
	}

	for _, s := range suggestions {
		fmt.Printf("  %s - %s\n", s.PrimaryText, s.SecondaryText)
	}

	top := suggestions[0]
	fmt.Printf("Using %s\n\n", top.Description)

	if err := svc.Select(ctx, top); err != nil {
		return types.Coordinate{}, err
	}
	return <-sink.resolved, nil
}

func printRestaurants(restaurants []types.Restaurant) {
	fmt.Printf("Found %d restaurants:\n\n", len(restaurants))
	for i, r := range restaurants {
		line := fmt.Sprintf("%2d. %s (%s, %s)", i+1, r.Name, r.CuisineType, geo.FormatDistance(r.DistanceMiles))
		if r.Rating != nil {
			line += fmt.Sprintf(" %.1f★ (%d)", *r.Rating, r.RatingCount)
		}
		if r.PriceTier != nil {
			line += " " + *r.PriceTier
		}
		fmt.Println(line)
		fmt.Printf("    %s\n", r.Address)
	}
}

// printTopDetails fetches details for the closest results concurrently.
func printTopDetails(ctx context.Context, svc details.Service, restaurants []types.Restaurant) {
	n := min(topDetailCount, len(restaurants))

	fetched := make([]*types.PlaceDetails, n)
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			d, err := svc.GetDetails(gctx, restaurants[i].ID)
			if err != nil {
				return err
			}
			fetched[i] = d
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		fmt.Fprintf(os.Stderr, "details: %s\n", friendlyError(err))
		return
	}

	fmt.Printf("\nDetails for the top %d:\n", n)
	for i, d := range fetched {
		fmt.Printf("\n%s\n", restaurants[i].Name)
		if d.Phone != "" {
			fmt.Printf("  phone:   %s\n", d.Phone)
		}
		if d.Website != "" {
			fmt.Printf("  website: %s\n", d.Website)
		}
		for _, h := range d.Hours {
			fmt.Printf("  %s\n", h)
		}
	}
}

// friendlyError renders a taxonomy error as a retry-capable notice.
func friendlyError(err error) string {
	switch {
	case errors.Is(err, types.ErrRateLimited):
		return "The search provider is rate limiting requests. Please try again in a minute."
	case errors.Is(err, types.ErrAccessDenied):
		return "The search provider rejected the request. Check the configured API key."
	case errors.Is(err, types.ErrRequestTimedOut):
		return "The search timed out. Please try again."
	case errors.Is(err, types.ErrInvalidInput):
		return fmt.Sprintf("Invalid input: %v", err)
	case errors.Is(err, types.ErrSensorPermissionDenied),
		errors.Is(err, types.ErrSensorUnavailable),
		errors.Is(err, types.ErrSensorTimeout):
		return "Could not determine your location. Pass -address or -lat/-lng instead."
	default:
		return fmt.Sprintf("Search failed: %v", err)
	}
}
