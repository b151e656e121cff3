package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"storefront/internal/credentials"
	"storefront/internal/models"
)

func TestGetReusesSession(t *testing.T) {
	m := NewManager("http://backend.invalid", credentials.MemoryProvider(), time.Minute)

	a := m.Get("sid-1")
	b := m.Get("sid-1")
	c := m.Get("sid-2")
	if a != b || a == c {
		t.Fatal("expected one session per id")
	}
	if m.Len() != 2 {
		t.Fatalf("expected 2 sessions, got %d", m.Len())
	}
}

func TestEvictDropsIdleSessions(t *testing.T) {
	m := NewManager("http://backend.invalid", credentials.MemoryProvider(), time.Minute)
	m.Get("sid-1")

	if n := m.Evict(time.Now()); n != 0 {
		t.Fatalf("expected nothing evicted, got %d", n)
	}
	if n := m.Evict(time.Now().Add(2 * time.Minute)); n != 1 {
		t.Fatalf("expected one eviction, got %d", n)
	}
	if m.Len() != 0 {
		t.Fatalf("expected no sessions left, got %d", m.Len())
	}
}

func TestMountLoadsProfileOnceAndFeedsCart(t *testing.T) {
	var hits atomic.Int32
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_ = json.NewEncoder(w).Encode(models.ProfileEnvelope{
			Status: 200,
			Data: &models.Profile{
				Name: "Ravi",
				Cart: &models.CartPayload{
					Items:       []models.CartLine{{Product: models.CartLineProduct{ID: "p1"}, Quantity: 2, Price: 40}},
					TotalItems:  2,
					TotalAmount: 80,
				},
			},
		})
	}))
	defer backend.Close()

	m := NewManager(backend.URL, credentials.MemoryProvider(), time.Minute)
	s := m.Get("sid")
	s.Mount(context.Background(), "")
	s.Mount(context.Background(), "")

	if hits.Load() != 1 {
		t.Fatalf("expected one profile fetch, got %d", hits.Load())
	}
	if cart := s.Cart.Snapshot(); cart.TotalItems != 2 || len(cart.Items) != 1 {
		t.Fatalf("expected cart mirrored from profile, got %+v", cart)
	}
}

func TestMountAdoptsCookieTokenAfterEviction(t *testing.T) {
	var auth atomic.Value
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth.Store(r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer backend.Close()

	m := NewManager(backend.URL, credentials.MemoryProvider(), 30*time.Minute)
	first := m.Get("sid")
	first.Mount(context.Background(), "")
	_ = first.Credentials.Save(context.Background(), "tok")

	m.Evict(time.Now().Add(31 * time.Minute))

	again := m.Get("sid")
	if again == first {
		t.Fatal("expected a new session after eviction")
	}
	again.Mount(context.Background(), "tok")

	if token, _ := again.Credentials.Token(context.Background()); token != "tok" {
		t.Fatalf("expected cookie token restored, got %q", token)
	}
	if got, _ := auth.Load().(string); got != "Bearer tok" {
		t.Fatalf("expected profile load with restored token, got %q", got)
	}
}

func TestListingsAreSeparatePerEpochAndBounded(t *testing.T) {
	m := NewManager("http://backend.invalid", credentials.MemoryProvider(), time.Minute)
	s := m.Get("sid")

	firstID, first := s.NewListing()
	secondID, second := s.NewListing()
	if firstID == secondID || first == second {
		t.Fatal("expected a paginator per epoch")
	}
	if got, ok := s.Listing(firstID); !ok || got != first {
		t.Fatal("expected first epoch to be found")
	}

	for i := 0; i < MaxListings; i++ {
		s.NewListing()
	}
	if _, ok := s.Listing(firstID); ok {
		t.Fatal("expected oldest epoch to be dropped")
	}
	if _, ok := s.Listing("unknown"); ok {
		t.Fatal("expected unknown epoch to miss")
	}
}
