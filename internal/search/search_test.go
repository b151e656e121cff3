package search

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"storefront/internal/apiclient"
	"storefront/internal/models"
)

type suggestionServer struct {
	mu      sync.Mutex
	queries []string
}

func (s *suggestionServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.queries = append(s.queries, r.URL.Query().Get("query"))
	s.mu.Unlock()

	_ = json.NewEncoder(w).Encode(map[string]any{
		"data": map[string]any{
			"suggestions": []models.Suggestion{{ID: "1", Title: "Smart Watch", Type: "suggestion"}},
			"similar": []models.Suggestion{
				{ID: "2", Title: "Watch Strap", Type: "similar"},
				{ID: "3", Title: "Odd", Type: "other"},
			},
		},
	})
}

func (s *suggestionServer) Queries() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.queries...)
}

func newClient(t *testing.T, handler http.Handler) *apiclient.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return apiclient.New(server.URL, nil)
}

func TestFetchPartitionsByType(t *testing.T) {
	backend := &suggestionServer{}

	groups, err := Fetch(context.Background(), newClient(t, backend), "wa")
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if len(groups.Suggestions) != 1 || groups.Suggestions[0].Title != "Smart Watch" {
		t.Fatalf("unexpected suggestions %+v", groups.Suggestions)
	}
	if len(groups.Similar) != 1 || groups.Similar[0].Title != "Watch Strap" {
		t.Fatalf("unexpected similar %+v", groups.Similar)
	}
}

func TestBoxSkipsSingleCharacterInput(t *testing.T) {
	backend := &suggestionServer{}
	results := make(chan Result, 4)
	box := NewBox(newClient(t, backend), 20*time.Millisecond, func(r Result) { results <- r })
	defer box.Close()

	box.Type("w")

	select {
	case r := <-results:
		if !r.Groups.Empty() {
			t.Fatalf("expected empty result, got %+v", r)
		}
	case <-time.After(time.Second):
		t.Fatal("expected a cleared result")
	}
	if queries := backend.Queries(); len(queries) != 0 {
		t.Fatalf("expected no fetch, got %v", queries)
	}
}

func TestBoxFetchesOncePerQuietPeriod(t *testing.T) {
	backend := &suggestionServer{}
	results := make(chan Result, 4)
	box := NewBox(newClient(t, backend), 50*time.Millisecond, func(r Result) { results <- r })
	defer box.Close()

	box.Type("wa")
	box.Type("wat")
	box.Type("watc")

	select {
	case r := <-results:
		if r.Query != "watc" {
			t.Fatalf("expected latest query, got %q", r.Query)
		}
	case <-time.After(time.Second):
		t.Fatal("expected a result")
	}

	time.Sleep(100 * time.Millisecond)
	if queries := backend.Queries(); len(queries) != 1 || queries[0] != "watc" {
		t.Fatalf("expected exactly one fetch for the final query, got %v", queries)
	}

	box.Type("watch")
	<-results
	if queries := backend.Queries(); len(queries) != 2 {
		t.Fatalf("expected a second fetch after another quiet period, got %v", queries)
	}
}

func TestBoxCloseStopsPendingFetch(t *testing.T) {
	backend := &suggestionServer{}
	box := NewBox(newClient(t, backend), 20*time.Millisecond, func(Result) {
		t.Error("no result expected after Close")
	})

	box.Type("watch")
	box.Close()
	time.Sleep(60 * time.Millisecond)

	if queries := backend.Queries(); len(queries) != 0 {
		t.Fatalf("expected no fetch after Close, got %v", queries)
	}
}

func TestSearchURLReplacesFilters(t *testing.T) {
	if got := SearchURL("smart watch"); got != "/?query=smart+watch" {
		t.Fatalf("unexpected url %s", got)
	}
	if got := SearchURL("  "); got != "/" {
		t.Fatalf("expected root for empty query, got %s", got)
	}
}
