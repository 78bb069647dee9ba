package types

// PlaceDetails is the extended record fetched lazily per restaurant.
// Keyed by the restaurant ID and fetched at most once per process
// lifetime; provider data is assumed stable within a session.
type PlaceDetails struct {
	Phone   string        `json:"phone,omitempty"`
	Hours   []string      `json:"hours,omitempty"`
	OpenNow *bool         `json:"open_now,omitempty"`
	Photos  []PlacePhoto  `json:"photos,omitempty"`
	Reviews []PlaceReview `json:"reviews,omitempty"`
	Website string        `json:"website,omitempty"`
	MapURL  string        `json:"map_url,omitempty"`
}

type PlacePhoto struct {
	URL         string `json:"url"`
	Attribution string `json:"attribution,omitempty"`
}

type PlaceReview struct {
	Author       string  `json:"author"`
	Rating       float64 `json:"rating"`
	Text         string  `json:"text"`
	RelativeTime string  `json:"relative_time"`
}
