package models

const (
	SuggestionTypeSuggestion = "suggestion"
	SuggestionTypeSimilar    = "similar"
)

type Suggestion struct {
	ID    string `json:"_id"`
	Title string `json:"title"`
	Type  string `json:"type"`
}

// SuggestionEnvelope is the search endpoint's response.
type SuggestionEnvelope struct {
	Data *struct {
		Suggestions []Suggestion `json:"suggestions"`
		Similar     []Suggestion `json:"similar"`
	} `json:"data"`
}
