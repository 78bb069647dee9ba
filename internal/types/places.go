package types

// Coordinate is a WGS84 point. Values are never compared directly;
// search caching compares rounded cache keys instead.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// SearchQuery identifies one logical restaurant search.
type SearchQuery struct {
	Center      Coordinate `json:"center"`
	RadiusMiles float64    `json:"radius_miles"`
}

// RadiusOptions are the radii the search accepts, in miles.
var RadiusOptions = []float64{1, 5, 10, 25}

// DefaultRadiusMiles is used when the caller does not pick a radius.
const DefaultRadiusMiles = 5

// ValidRadius reports whether r is one of RadiusOptions.
func ValidRadius(r float64) bool {
	for _, opt := range RadiusOptions {
		if r == opt {
			return true
		}
	}
	return false
}

// Restaurant is the normalized search result. Immutable after
// normalization; ID is the provider-stable join key to details.
type Restaurant struct {
	ID            string      `json:"id"`
	Name          string      `json:"name"`
	Address       string      `json:"address"`
	DistanceMiles *float64    `json:"distance_miles,omitempty"`
	CuisineType   string      `json:"cuisine_type"`
	Rating        *float64    `json:"rating,omitempty"`
	RatingCount   int         `json:"rating_count"`
	PriceTier     *string     `json:"price_tier,omitempty"`
	Location      *Coordinate `json:"location,omitempty"`
	OpenNow       *bool       `json:"open_now,omitempty"`
}

// GeocodeResult is a resolved street address.
type GeocodeResult struct {
	Location         Coordinate `json:"location"`
	FormattedAddress string     `json:"formatted_address"`
}
