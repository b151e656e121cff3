// Package search fetches typeahead suggestions for the search box.
package search

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"

	"storefront/internal/apiclient"
	"storefront/internal/models"
)

const (
	// MinQueryLength is the shortest query that triggers a fetch.
	MinQueryLength = 2
	// SuggestionLimit is sent as the limit parameter.
	SuggestionLimit = 5
)

// Groups holds suggestions split by their type tag.
type Groups struct {
	Suggestions []models.Suggestion `json:"suggestions"`
	Similar     []models.Suggestion `json:"similar"`
}

// Empty reports whether neither group has entries.
func (g Groups) Empty() bool {
	return len(g.Suggestions) == 0 && len(g.Similar) == 0
}

// Eligible reports whether query is long enough to be searched.
func Eligible(query string) bool {
	return utf8.RuneCountInString(query) >= MinQueryLength
}

// Fetch requests suggestions for query and partitions the combined result
// by type. Entries with an unknown type are dropped.
func Fetch(ctx context.Context, client apiclient.Doer, query string) (Groups, error) {
	endpoint := apiclient.EndpointSuggestions + "?query=" + url.QueryEscape(query) + "&limit=" + strconv.Itoa(SuggestionLimit)
	res, err := client.Do(ctx, http.MethodGet, endpoint, nil, nil)
	if err != nil {
		return Groups{}, err
	}

	var envelope models.SuggestionEnvelope
	if err := apiclient.DecodeJSON(res, &envelope); err != nil {
		return Groups{}, err
	}

	var all []models.Suggestion
	if envelope.Data != nil {
		all = append(all, envelope.Data.Suggestions...)
		all = append(all, envelope.Data.Similar...)
	}
	return Partition(all), nil
}

// Partition splits suggestions into the two display groups.
func Partition(all []models.Suggestion) Groups {
	groups := Groups{
		Suggestions: []models.Suggestion{},
		Similar:     []models.Suggestion{},
	}
	for _, s := range all {
		switch s.Type {
		case models.SuggestionTypeSuggestion:
			groups.Suggestions = append(groups.Suggestions, s)
		case models.SuggestionTypeSimilar:
			groups.Similar = append(groups.Similar, s)
		}
	}
	return groups
}

// SearchURL is where selecting a suggestion navigates: every other filter
// is dropped and only the free-text query remains.
func SearchURL(query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return "/"
	}
	q := url.Values{}
	q.Set("query", query)
	return "/?" + q.Encode()
}
