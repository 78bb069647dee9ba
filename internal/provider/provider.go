// Package provider defines the contracts of the external places and
// geocoding service. Orchestrators consume the interfaces here; the
// googleplaces subpackage carries the HTTP implementation.
package provider

import "context"

// Status is the provider-reported outcome of a request.
type Status string

const (
	StatusOK             Status = "OK"
	StatusZeroResults    Status = "ZERO_RESULTS"
	StatusOverQueryLimit Status = "OVER_QUERY_LIMIT"
	StatusRequestDenied  Status = "REQUEST_DENIED"
	StatusInvalidRequest Status = "INVALID_REQUEST"
	StatusUnknownError   Status = "UNKNOWN_ERROR"
)

// Location is the provider's raw coordinate shape.
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type Geometry struct {
	Location Location `json:"location"`
}

type OpeningHours struct {
	OpenNow     *bool    `json:"open_now,omitempty"`
	WeekdayText []string `json:"weekday_text,omitempty"`
}

type Photo struct {
	PhotoReference   string   `json:"photo_reference"`
	Width            int      `json:"width"`
	Height           int      `json:"height"`
	HTMLAttributions []string `json:"html_attributions"`
}

type Review struct {
	AuthorName              string  `json:"author_name"`
	Rating                  float64 `json:"rating"`
	Text                    string  `json:"text"`
	RelativeTimeDescription string  `json:"relative_time_description"`
}

// Place is one raw provider record, shared by text search and details.
type Place struct {
	PlaceID              string        `json:"place_id"`
	Name                 string        `json:"name"`
	Vicinity             string        `json:"vicinity,omitempty"`
	FormattedAddress     string        `json:"formatted_address,omitempty"`
	Geometry             *Geometry     `json:"geometry,omitempty"`
	Types                []string      `json:"types,omitempty"`
	Rating               *float64      `json:"rating,omitempty"`
	UserRatingsTotal     *int          `json:"user_ratings_total,omitempty"`
	PriceLevel           *int          `json:"price_level,omitempty"`
	OpeningHours         *OpeningHours `json:"opening_hours,omitempty"`
	Photos               []Photo       `json:"photos,omitempty"`
	Reviews              []Review      `json:"reviews,omitempty"`
	FormattedPhoneNumber string        `json:"formatted_phone_number,omitempty"`
	Website              string        `json:"website,omitempty"`
	URL                  string        `json:"url,omitempty"`
}

// TextSearchRequest asks for places around a center. PageToken, when
// set, continues a previous response and overrides the other fields.
type TextSearchRequest struct {
	Lat          float64
	Lng          float64
	RadiusMeters float64
	Query        string
	PageToken    string
}

type TextSearchResponse struct {
	Status        Status  `json:"status"`
	Results       []Place `json:"results"`
	NextPageToken string  `json:"next_page_token,omitempty"`
	ErrorMessage  string  `json:"error_message,omitempty"`
}

// DetailsRequest names the place and the fields wanted back.
type DetailsRequest struct {
	PlaceID string
	Fields  []string
}

type DetailsResponse struct {
	Status       Status `json:"status"`
	Result       *Place `json:"result,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
}

type Prediction struct {
	PlaceID              string `json:"place_id"`
	Description          string `json:"description"`
	StructuredFormatting struct {
		MainText      string `json:"main_text"`
		SecondaryText string `json:"secondary_text"`
	} `json:"structured_formatting"`
}

type AutocompleteResponse struct {
	Status       Status       `json:"status"`
	Predictions  []Prediction `json:"predictions"`
	ErrorMessage string       `json:"error_message,omitempty"`
}

type GeocodeResult struct {
	FormattedAddress string   `json:"formatted_address"`
	Geometry         Geometry `json:"geometry"`
}

type GeocodeResponse struct {
	Status       Status          `json:"status"`
	Results      []GeocodeResult `json:"results"`
	ErrorMessage string          `json:"error_message,omitempty"`
}

// Places is the search/details/autocomplete surface of the provider.
type Places interface {
	TextSearch(ctx context.Context, req TextSearchRequest) (*TextSearchResponse, error)
	Details(ctx context.Context, req DetailsRequest) (*DetailsResponse, error)
	Autocomplete(ctx context.Context, input string) (*AutocompleteResponse, error)
	// PhotoURL renders a bounded-width URL for a photo reference.
	PhotoURL(photoReference string, maxWidth int) string
}

// Geocoder resolves free-text addresses into coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (*GeocodeResponse, error)
}
