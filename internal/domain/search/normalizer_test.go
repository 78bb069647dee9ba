package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forkcast/forkcast/internal/provider"
	"github.com/forkcast/forkcast/internal/types"
)

func TestClassifyCuisine(t *testing.T) {
	tests := []struct {
		name string
		tags []string
		want string
	}{
		{"first matching tag wins", []string{"point_of_interest", "italian_restaurant", "restaurant"}, "Italian"},
		{"generic tag falls back", []string{"restaurant"}, "Restaurant"},
		{"no tags falls back", nil, "Restaurant"},
		{"order decides between matches", []string{"sushi_restaurant", "japanese_restaurant"}, "Sushi"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classifyCuisine(tt.tags))
		})
	}
}

func TestClassifyPriceTier(t *testing.T) {
	level := func(n int) *int { return &n }

	assert.Nil(t, classifyPriceTier(nil))
	assert.Nil(t, classifyPriceTier(level(0)))
	assert.Nil(t, classifyPriceTier(level(7)))

	tier := classifyPriceTier(level(3))
	require.NotNil(t, tier)
	assert.Equal(t, "$$$", *tier)

	tier = classifyPriceTier(level(1))
	require.NotNil(t, tier)
	assert.Equal(t, "$", *tier)
}

func TestNormalizeRestaurantFull(t *testing.T) {
	rating := 4.5
	ratings := 321
	price := 2
	open := true

	p := provider.Place{
		PlaceID:          "place-1",
		Name:             "Luigi's",
		Vicinity:         "12 Mulberry St",
		Types:            []string{"italian_restaurant", "restaurant"},
		Rating:           &rating,
		UserRatingsTotal: &ratings,
		PriceLevel:       &price,
		OpeningHours:     &provider.OpeningHours{OpenNow: &open},
		Geometry:         &provider.Geometry{Location: provider.Location{Lat: 40.7193, Lng: -73.9975}},
	}
	origin := types.Coordinate{Lat: 40.7128, Lng: -74.0060}

	r := normalizeRestaurant(p, origin)

	assert.Equal(t, "place-1", r.ID)
	assert.Equal(t, "Luigi's", r.Name)
	assert.Equal(t, "12 Mulberry St", r.Address)
	assert.Equal(t, "Italian", r.CuisineType)
	require.NotNil(t, r.Rating)
	assert.Equal(t, 4.5, *r.Rating)
	assert.Equal(t, 321, r.RatingCount)
	require.NotNil(t, r.PriceTier)
	assert.Equal(t, "$$", *r.PriceTier)
	require.NotNil(t, r.OpenNow)
	assert.True(t, *r.OpenNow)
	require.NotNil(t, r.Location)
	require.NotNil(t, r.DistanceMiles)
	assert.Greater(t, *r.DistanceMiles, 0.0)
	assert.Less(t, *r.DistanceMiles, 1.0)
}

func TestNormalizeRestaurantSparseRecord(t *testing.T) {
	r := normalizeRestaurant(provider.Place{PlaceID: "bare"}, types.Coordinate{})

	assert.Equal(t, "Unknown Restaurant", r.Name)
	assert.Equal(t, "Address not available", r.Address)
	assert.Equal(t, "Restaurant", r.CuisineType)
	assert.Nil(t, r.Rating)
	assert.Zero(t, r.RatingCount)
	assert.Nil(t, r.PriceTier)
	assert.Nil(t, r.Location)
	assert.Nil(t, r.DistanceMiles)
	assert.Nil(t, r.OpenNow)
}

func TestNormalizeRestaurantAddressFallsBackToFormatted(t *testing.T) {
	r := normalizeRestaurant(provider.Place{
		PlaceID:          "p",
		FormattedAddress: "1 Main St, Springfield",
	}, types.Coordinate{})

	assert.Equal(t, "1 Main St, Springfield", r.Address)
}
