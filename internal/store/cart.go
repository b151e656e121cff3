package store

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"

	"storefront/internal/apiclient"
	"storefront/internal/models"
)

// ErrStale is returned when a successful response arrived after a newer
// state had already been applied.
var ErrStale = errors.New("cart response superseded")

type addRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// CartStore is the single authoritative cart state of a session. It is fed
// passively from the profile and actively from the cart endpoints.
type CartStore struct {
	client apiclient.Doer
	seq    *Sequence

	mu          sync.RWMutex
	cart        models.Cart
	subscribers map[int]chan models.Cart
	nextSub     int
}

func NewCartStore(client apiclient.Doer, seq *Sequence) *CartStore {
	return &CartStore{
		client:      client,
		seq:         seq,
		cart:        models.Cart{Items: []models.CartItem{}},
		subscribers: make(map[int]chan models.Cart),
	}
}

// MirrorProfile replaces the cart with the profile's embedded cart. Profiles
// without a cart leave the state untouched.
func (s *CartStore) MirrorProfile(profile *models.Profile, version uint64) {
	if profile == nil || profile.Cart == nil {
		return
	}
	if !s.apply(models.CartFromPayload(profile.Cart), version) {
		log.Printf("[CART] [INFO] discarding profile cart v%d", version)
	}
}

// Add posts one unit of item. The quantity on item is ignored.
func (s *CartStore) Add(ctx context.Context, item models.CartItem) error {
	return s.mutate(ctx, "add", http.MethodPost, apiclient.EndpointCart, addRequest{
		ProductID: item.ID,
		Quantity:  1,
	})
}

func (s *CartStore) Remove(ctx context.Context, productID string) error {
	return s.mutate(ctx, "remove", http.MethodDelete, apiclient.CartItemEndpoint(productID), nil)
}

// Update sets the quantity of a line. Non-positive quantities are sent as is.
func (s *CartStore) Update(ctx context.Context, productID string, quantity int) error {
	return s.mutate(ctx, "update", http.MethodPut, apiclient.CartItemEndpoint(productID), addRequest{
		ProductID: productID,
		Quantity:  quantity,
	})
}

// Refetch loads the cart from its own endpoint. A transport failure empties
// the cart; a non-OK status leaves it untouched.
func (s *CartStore) Refetch(ctx context.Context) error {
	version := s.seq.Next()

	res, err := s.client.Do(ctx, http.MethodGet, apiclient.EndpointCart, nil, nil)
	if err != nil {
		log.Println("[CART] [ERROR] fetch failed:", err)
		s.apply(models.Cart{Items: []models.CartItem{}}, version)
		return err
	}

	cart, err := decodeCart(res)
	if err != nil {
		log.Println("[CART] [ERROR] fetch failed:", err)
		return err
	}
	if !s.apply(cart, version) {
		return ErrStale
	}
	return nil
}

// Clear resets the local state only. The backend cart is untouched, so the
// next profile refresh brings the items back.
func (s *CartStore) Clear() {
	s.apply(models.Cart{Items: []models.CartItem{}}, s.seq.Next())
}

func (s *CartStore) Snapshot() models.Cart {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneCart(s.cart)
}

// Subscribe delivers every applied snapshot. Slow subscribers miss
// intermediate snapshots rather than block the store.
func (s *CartStore) Subscribe() (<-chan models.Cart, func()) {
	ch := make(chan models.Cart, 1)

	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subscribers[id] = ch
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subscribers[id]; ok {
			delete(s.subscribers, id)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

func (s *CartStore) mutate(ctx context.Context, op, method, endpoint string, body any) error {
	version := s.seq.Next()

	res, err := s.client.Do(ctx, method, endpoint, body, nil)
	if err != nil {
		log.Printf("[CART] [ERROR] %s failed: %v", op, err)
		return err
	}

	cart, err := decodeCart(res)
	if err != nil {
		log.Printf("[CART] [ERROR] %s failed: %v", op, err)
		return err
	}
	if !s.apply(cart, version) {
		log.Printf("[CART] [INFO] %s response v%d superseded", op, version)
		return ErrStale
	}
	log.Printf("[CART] [INFO] %s applied v%d items=%d", op, version, len(cart.Items))
	return nil
}

func (s *CartStore) apply(cart models.Cart, version uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if version <= s.cart.Version {
		return false
	}
	cart.Version = version
	s.cart = cart

	for _, ch := range s.subscribers {
		snapshot := cloneCart(cart)
		select {
		case ch <- snapshot:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- snapshot
		}
	}
	return true
}

func decodeCart(res *http.Response) (models.Cart, error) {
	var envelope models.CartEnvelope
	if err := apiclient.DecodeJSON(res, &envelope); err != nil {
		return models.Cart{}, err
	}
	if envelope.Data == nil {
		return models.Cart{}, fmt.Errorf("cart response without data")
	}
	return models.CartFromPayload(envelope.Data), nil
}

func cloneCart(cart models.Cart) models.Cart {
	cart.Items = append([]models.CartItem(nil), cart.Items...)
	if cart.Items == nil {
		cart.Items = []models.CartItem{}
	}
	return cart
}
