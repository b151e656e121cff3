// Package credentials keeps the auth token in one persisted store per browser
// session. The "token" cookie is only a cache of that store and is rewritten
// at explicit sync points.
package credentials

import (
	"context"
	"sync"
)

type Store interface {
	Token(ctx context.Context) (string, error)
	Save(ctx context.Context, token string) error
	Delete(ctx context.Context) error
}

// Provider opens the store belonging to one browser session.
type Provider func(sessionID string) Store

type MemoryStore struct {
	mu    sync.RWMutex
	token string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func MemoryProvider() Provider {
	return func(string) Store {
		return NewMemoryStore()
	}
}

func (s *MemoryStore) Token(context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, nil
}

func (s *MemoryStore) Save(_ context.Context, token string) error {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Delete(context.Context) error {
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()
	return nil
}

// Adopt seeds an empty store with token, typically the browser's cookie
// from before the store was created. A store that already holds a token
// keeps it. It reports whether token was saved.
func Adopt(ctx context.Context, store Store, token string) (bool, error) {
	if token == "" {
		return false, nil
	}
	current, err := store.Token(ctx)
	if err != nil {
		return false, err
	}
	if current != "" {
		return false, nil
	}
	if err := store.Save(ctx, token); err != nil {
		return false, err
	}
	return true, nil
}
