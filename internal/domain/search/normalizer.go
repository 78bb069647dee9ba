package search

import (
	"github.com/forkcast/forkcast/internal/geo"
	"github.com/forkcast/forkcast/internal/provider"
	"github.com/forkcast/forkcast/internal/types"
)

const (
	fallbackCuisine = "Restaurant"
	fallbackName    = "Unknown Restaurant"
	fallbackAddress = "Address not available"
)

// cuisineTypeMap maps provider category tags to display labels. The
// first tag of a record that appears here wins.
var cuisineTypeMap = map[string]string{
	"american_restaurant":       "American",
	"asian_restaurant":          "Asian",
	"barbecue_restaurant":       "BBQ",
	"brazilian_restaurant":      "Brazilian",
	"chinese_restaurant":        "Chinese",
	"french_restaurant":         "French",
	"greek_restaurant":          "Greek",
	"indian_restaurant":         "Indian",
	"italian_restaurant":        "Italian",
	"japanese_restaurant":       "Japanese",
	"korean_restaurant":         "Korean",
	"mediterranean_restaurant":  "Mediterranean",
	"mexican_restaurant":        "Mexican",
	"middle_eastern_restaurant": "Middle Eastern",
	"pizza_restaurant":          "Pizza",
	"seafood_restaurant":        "Seafood",
	"spanish_restaurant":        "Spanish",
	"steak_house":               "Steakhouse",
	"sushi_restaurant":          "Sushi",
	"thai_restaurant":           "Thai",
	"turkish_restaurant":        "Turkish",
	"vietnamese_restaurant":     "Vietnamese",
	"cafe":                      "Café",
	"coffee_shop":               "Coffee",
	"bakery":                    "Bakery",
	"fast_food_restaurant":      "Fast Food",
	"fine_dining_restaurant":    "Fine Dining",
}

var priceTiers = map[int]string{
	1: "$",
	2: "$$",
	3: "$$$",
	4: "$$$$",
}

// normalizeRestaurant maps one raw provider record into the domain
// representation, deriving the distance from the search origin when the
// record exposes geometry.
func normalizeRestaurant(p provider.Place, origin types.Coordinate) types.Restaurant {
	r := types.Restaurant{
		ID:          p.PlaceID,
		Name:        fallbackName,
		Address:     fallbackAddress,
		CuisineType: classifyCuisine(p.Types),
		Rating:      p.Rating,
		PriceTier:   classifyPriceTier(p.PriceLevel),
	}

	if p.Name != "" {
		r.Name = p.Name
	}
	if p.Vicinity != "" {
		r.Address = p.Vicinity
	} else if p.FormattedAddress != "" {
		r.Address = p.FormattedAddress
	}
	if p.UserRatingsTotal != nil {
		r.RatingCount = *p.UserRatingsTotal
	}
	if p.OpeningHours != nil {
		r.OpenNow = p.OpeningHours.OpenNow
	}
	if p.Geometry != nil {
		loc := types.Coordinate{Lat: p.Geometry.Location.Lat, Lng: p.Geometry.Location.Lng}
		dist := geo.Distance(origin, loc)
		r.Location = &loc
		r.DistanceMiles = &dist
	}

	return r
}

func classifyCuisine(tags []string) string {
	for _, tag := range tags {
		if label, ok := cuisineTypeMap[tag]; ok {
			return label
		}
	}
	return fallbackCuisine
}

func classifyPriceTier(level *int) *string {
	if level == nil {
		return nil
	}
	tier, ok := priceTiers[*level]
	if !ok {
		return nil
	}
	return &tier
}
