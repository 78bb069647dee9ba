package types

// Suggestion is one autocomplete prediction. Transient; never kept
// beyond the active input session.
type Suggestion struct {
	PlaceID       string `json:"place_id"`
	PrimaryText   string `json:"primary_text"`
	SecondaryText string `json:"secondary_text,omitempty"`
	Description   string `json:"description"`
}
