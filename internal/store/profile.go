package store

import (
	"context"
	"log"
	"net/http"
	"sync"

	"storefront/internal/apiclient"
	"storefront/internal/models"
)

const (
	profileStatusError    = "Failed to fetch profile"
	profileTransportError = "Error fetching profile"
)

// ProfileListener is told about every applied profile.
type ProfileListener func(profile *models.Profile, version uint64)

// ProfileStore caches the signed-in user's profile. A nil profile means the
// user is unknown or unauthenticated; the two are not distinguished.
type ProfileStore struct {
	client apiclient.Doer
	seq    *Sequence

	mu        sync.RWMutex
	profile   *models.Profile
	loading   bool
	err       string
	version   uint64
	listeners []ProfileListener
}

func NewProfileStore(client apiclient.Doer, seq *Sequence) *ProfileStore {
	return &ProfileStore{client: client, seq: seq, loading: true}
}

// OnChange registers fn for every profile applied after a successful fetch.
func (s *ProfileStore) OnChange(fn ProfileListener) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

// Load fetches the profile. The loading flag is cleared whatever the outcome.
func (s *ProfileStore) Load(ctx context.Context) {
	version := s.seq.Next()

	res, err := s.client.Do(ctx, http.MethodGet, apiclient.EndpointProfile, nil, nil)
	if err != nil {
		log.Println("[PROFILE] [ERROR] fetch failed:", err)
		s.fail(version, profileTransportError)
		return
	}
	if !apiclient.OK(res) {
		log.Printf("[PROFILE] [ERROR] fetch returned status %d", res.StatusCode)
		apiclient.Drain(res)
		s.fail(version, profileStatusError)
		return
	}

	var envelope models.ProfileEnvelope
	if err := apiclient.DecodeJSON(res, &envelope); err != nil {
		log.Println("[PROFILE] [ERROR] decode failed:", err)
		s.fail(version, profileTransportError)
		return
	}

	s.mu.Lock()
	if version <= s.version {
		s.loading = false
		s.mu.Unlock()
		log.Printf("[PROFILE] [INFO] discarding stale profile v%d", version)
		return
	}
	s.profile = envelope.Data
	s.err = ""
	s.loading = false
	s.version = version
	listeners := append([]ProfileListener(nil), s.listeners...)
	profile := s.profile
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(profile, version)
	}
}

// Refetch sets loading and loads again.
func (s *ProfileStore) Refetch(ctx context.Context) {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()
	s.Load(ctx)
}

// Snapshot returns the cached profile, the loading flag and the last error.
func (s *ProfileStore) Snapshot() (*models.Profile, bool, string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile, s.loading, s.err
}

func (s *ProfileStore) fail(version uint64, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if version <= s.version {
		return
	}
	s.profile = nil
	s.err = message
	s.version = version
}
