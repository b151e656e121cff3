// Package session keeps the per-browser state of the storefront: one
// credential store, API client and set of stores per sid cookie.
package session

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"storefront/internal/account"
	"storefront/internal/apiclient"
	"storefront/internal/credentials"
	"storefront/internal/listing"
	"storefront/internal/store"
)

type Session struct {
	ID          string
	Credentials credentials.Store
	Client      *apiclient.Client
	Account     *account.Service
	Profile     *store.ProfileStore
	Cart        *store.CartStore

	mountOnce sync.Once
	mu        sync.Mutex
	lastSeen  time.Time
	listings  map[string]*listing.Paginator
	epochs    []string
}

// MaxListings is how many rendered listings a session keeps paging for.
// Older ones answer load-more with a miss.
const MaxListings = 8

func newSession(id, baseURL string, creds credentials.Store) *Session {
	client := apiclient.New(baseURL, creds)
	seq := &store.Sequence{}
	profile := store.NewProfileStore(client, seq)
	cart := store.NewCartStore(client, seq)
	profile.OnChange(cart.MirrorProfile)

	return &Session{
		ID:          id,
		Credentials: creds,
		Client:      client,
		Account:     account.NewService(client, creds),
		Profile:     profile,
		Cart:        cart,
		lastSeen:    time.Now(),
		listings:    make(map[string]*listing.Paginator),
	}
}

// Mount runs once, on the first request of the session. The browser's
// token cookie seeds an empty credential store so that a session rebuilt
// after eviction or a restart keeps the sign in. The profile is then loaded.
func (s *Session) Mount(ctx context.Context, cookieToken string) {
	s.mountOnce.Do(func() {
		adopted, err := credentials.Adopt(ctx, s.Credentials, cookieToken)
		switch {
		case err != nil:
			log.Println("[SESSION] [ERROR] cookie token not adopted:", err)
		case adopted:
			log.Println("[SESSION] [INFO] restored credentials from cookie")
		}
		s.Profile.Load(ctx)
	})
}

// NewListing starts a paginator for one rendered listing page and returns
// the epoch id the page pages with. Each tab and each navigation gets its
// own.
func (s *Session) NewListing() (string, *listing.Paginator) {
	id := uuid.NewString()
	p := listing.NewPaginator(s.Client)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.listings[id] = p
	s.epochs = append(s.epochs, id)
	for len(s.epochs) > MaxListings {
		delete(s.listings, s.epochs[0])
		s.epochs = s.epochs[1:]
	}
	return id, p
}

// Listing returns the paginator of a rendered listing.
func (s *Session) Listing(id string) (*listing.Paginator, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.listings[id]
	return p, ok
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastSeen)
}

type Manager struct {
	baseURL  string
	provider credentials.Provider
	idleTTL  time.Duration

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewManager(baseURL string, provider credentials.Provider, idleTTL time.Duration) *Manager {
	return &Manager{
		baseURL:  baseURL,
		provider: provider,
		idleTTL:  idleTTL,
		sessions: make(map[string]*Session),
	}
}

// Get returns the session for id, creating it on first use.
func (m *Manager) Get(id string) *Session {
	now := time.Now()

	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[id]; ok {
		s.touch(now)
		return s
	}
	s := newSession(id, m.baseURL, m.provider(id))
	m.sessions[id] = s
	log.Printf("[SESSION] [INFO] opened session, active=%d", len(m.sessions))
	return s
}

// Len reports the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Evict drops sessions idle for longer than the idle TTL. A returning
// browser gets a new session whose credentials come from the persisted
// store or, in memory mode, from its token cookie.
func (m *Manager) Evict(now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	evicted := 0
	for id, s := range m.sessions {
		if s.idleSince(now) > m.idleTTL {
			delete(m.sessions, id)
			evicted++
		}
	}
	return evicted
}

// Run evicts idle sessions until ctx is done.
func (m *Manager) Run(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := m.Evict(now); n > 0 {
				log.Printf("[SESSION] [INFO] evicted %d idle sessions", n)
			}
		}
	}
}
