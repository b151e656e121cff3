package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sync"
	"testing"

	"storefront/internal/apiclient"
	"storefront/internal/models"
)

type recordedCall struct {
	Method   string
	Endpoint string
	Body     []byte
}

// fakeBackend answers Do calls through a per-test handler and records them.
type fakeBackend struct {
	mu      sync.Mutex
	calls   []recordedCall
	respond func(call recordedCall) (*http.Response, error)
}

func (f *fakeBackend) Do(_ context.Context, method, endpoint string, body any, _ http.Header) (*http.Response, error) {
	var raw []byte
	if body != nil {
		raw, _ = json.Marshal(body)
	}
	call := recordedCall{Method: method, Endpoint: endpoint, Body: raw}
	f.mu.Lock()
	f.calls = append(f.calls, call)
	f.mu.Unlock()
	return f.respond(call)
}

func (f *fakeBackend) Calls() []recordedCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recordedCall(nil), f.calls...)
}

func jsonResponse(status int, v any) *http.Response {
	body, _ := json.Marshal(v)
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{},
		Body:       io.NopCloser(bytes.NewReader(body)),
	}
}

func cartPayload(totalItems int, totalAmount float64, ids ...string) *models.CartPayload {
	payload := &models.CartPayload{TotalItems: totalItems, TotalAmount: totalAmount}
	for _, id := range ids {
		payload.Items = append(payload.Items, models.CartLine{
			Product:  models.CartLineProduct{ID: id, Title: "title-" + id, Images: []string{id + ".png"}},
			Quantity: 1,
			Price:    10,
		})
	}
	return payload
}

func profileResponse(cart *models.CartPayload) *http.Response {
	return jsonResponse(http.StatusOK, models.ProfileEnvelope{
		Status: 200,
		Data:   &models.Profile{ID: "u1", Name: "Asha", Email: "asha@example.com", Cart: cart},
	})
}

func cartResponse(cart *models.CartPayload) *http.Response {
	return jsonResponse(http.StatusOK, models.CartEnvelope{Status: 200, Data: cart})
}

func newLinkedStores(backend apiclient.Doer) (*ProfileStore, *CartStore) {
	seq := &Sequence{}
	profile := NewProfileStore(backend, seq)
	cart := NewCartStore(backend, seq)
	profile.OnChange(cart.MirrorProfile)
	return profile, cart
}

func TestCartMirrorsProfileWithServerTotals(t *testing.T) {
	backend := &fakeBackend{respond: func(recordedCall) (*http.Response, error) {
		return profileResponse(cartPayload(9, 1234.75, "a", "b", "c")), nil
	}}
	profile, cart := newLinkedStores(backend)

	profile.Load(context.Background())

	snapshot := cart.Snapshot()
	if len(snapshot.Items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(snapshot.Items))
	}
	if snapshot.TotalItems != 9 || snapshot.TotalAmount != 1234.75 {
		t.Fatalf("expected server totals 9/1234.75, got %d/%v", snapshot.TotalItems, snapshot.TotalAmount)
	}
}

func TestAddAlwaysSendsQuantityOne(t *testing.T) {
	backend := &fakeBackend{respond: func(recordedCall) (*http.Response, error) {
		return cartResponse(cartPayload(1, 10, "p1")), nil
	}}
	_, cart := newLinkedStores(backend)

	if err := cart.Add(context.Background(), models.CartItem{ID: "p1", Quantity: 5}); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}

	calls := backend.Calls()
	if len(calls) != 1 || calls[0].Method != http.MethodPost || calls[0].Endpoint != "/users/cart" {
		t.Fatalf("unexpected calls: %+v", calls)
	}
	var body map[string]any
	_ = json.Unmarshal(calls[0].Body, &body)
	if body["productId"] != "p1" || body["quantity"] != float64(1) {
		t.Fatalf("expected productId=p1 quantity=1, got %v", body)
	}
}

func TestRemoveAndUpdateHitItemEndpoints(t *testing.T) {
	backend := &fakeBackend{respond: func(recordedCall) (*http.Response, error) {
		return cartResponse(cartPayload(0, 0)), nil
	}}
	_, cart := newLinkedStores(backend)

	_ = cart.Remove(context.Background(), "p1")
	_ = cart.Update(context.Background(), "p2", -3)

	calls := backend.Calls()
	if calls[0].Method != http.MethodDelete || calls[0].Endpoint != "/users/cart/p1" {
		t.Fatalf("unexpected remove call: %+v", calls[0])
	}
	if calls[1].Method != http.MethodPut || calls[1].Endpoint != "/users/cart/p2" {
		t.Fatalf("unexpected update call: %+v", calls[1])
	}
	var body map[string]any
	_ = json.Unmarshal(calls[1].Body, &body)
	if body["quantity"] != float64(-3) {
		t.Fatalf("expected non-positive quantity passed through, got %v", body)
	}
}

func TestFailedMutationKeepsState(t *testing.T) {
	fail := false
	backend := &fakeBackend{respond: func(recordedCall) (*http.Response, error) {
		if fail {
			return nil, errors.New("connection refused")
		}
		return cartResponse(cartPayload(2, 20, "a", "b")), nil
	}}
	_, cart := newLinkedStores(backend)
	_ = cart.Add(context.Background(), models.CartItem{ID: "a"})
	before := cart.Snapshot()

	fail = true
	if err := cart.Add(context.Background(), models.CartItem{ID: "c"}); err == nil {
		t.Fatal("expected transport error")
	}
	after := cart.Snapshot()
	if after.Version != before.Version || len(after.Items) != 2 {
		t.Fatalf("expected state untouched, before=%+v after=%+v", before, after)
	}
}

func TestNonOKMutationKeepsState(t *testing.T) {
	backend := &fakeBackend{respond: func(recordedCall) (*http.Response, error) {
		return jsonResponse(http.StatusBadRequest, map[string]string{"message": "out of stock"}), nil
	}}
	_, cart := newLinkedStores(backend)

	if err := cart.Add(context.Background(), models.CartItem{ID: "a"}); err == nil {
		t.Fatal("expected status error")
	}
	if snapshot := cart.Snapshot(); snapshot.Version != 0 || len(snapshot.Items) != 0 {
		t.Fatalf("expected empty initial state, got %+v", snapshot)
	}
}

func TestStaleProfileDoesNotOverwriteNewerMutation(t *testing.T) {
	release := make(chan struct{})
	profileIssued := make(chan struct{})
	backend := &fakeBackend{respond: func(call recordedCall) (*http.Response, error) {
		if call.Endpoint == "/users/profile" {
			close(profileIssued)
			<-release
			return profileResponse(cartPayload(1, 10, "old")), nil
		}
		return cartResponse(cartPayload(2, 20, "old", "new")), nil
	}}
	profile, cart := newLinkedStores(backend)

	done := make(chan struct{})
	go func() {
		profile.Load(context.Background())
		close(done)
	}()
	<-profileIssued

	if err := cart.Add(context.Background(), models.CartItem{ID: "new"}); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	close(release)
	<-done

	snapshot := cart.Snapshot()
	if len(snapshot.Items) != 2 || snapshot.TotalItems != 2 {
		t.Fatalf("expected mutation result to survive, got %+v", snapshot)
	}
}

func TestClearIsLocalAndProfileRefreshRestores(t *testing.T) {
	backend := &fakeBackend{respond: func(recordedCall) (*http.Response, error) {
		return profileResponse(cartPayload(1, 10, "a")), nil
	}}
	profile, cart := newLinkedStores(backend)
	profile.Load(context.Background())

	cart.Clear()
	if snapshot := cart.Snapshot(); len(snapshot.Items) != 0 || snapshot.TotalAmount != 0 {
		t.Fatalf("expected cleared cart, got %+v", snapshot)
	}
	if calls := backend.Calls(); len(calls) != 1 {
		t.Fatalf("expected clear to skip the backend, got %d calls", len(calls))
	}

	profile.Refetch(context.Background())
	if snapshot := cart.Snapshot(); len(snapshot.Items) != 1 {
		t.Fatalf("expected profile refresh to restore the cart, got %+v", snapshot)
	}
}

func TestRefetchTransportFailureEmptiesCart(t *testing.T) {
	fail := false
	backend := &fakeBackend{respond: func(recordedCall) (*http.Response, error) {
		if fail {
			return nil, errors.New("network down")
		}
		return cartResponse(cartPayload(1, 10, "a")), nil
	}}
	_, cart := newLinkedStores(backend)
	_ = cart.Refetch(context.Background())

	fail = true
	_ = cart.Refetch(context.Background())
	if snapshot := cart.Snapshot(); len(snapshot.Items) != 0 || snapshot.TotalItems != 0 {
		t.Fatalf("expected empty cart, got %+v", snapshot)
	}
}

func TestProfileLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		respond func(recordedCall) (*http.Response, error)
		want    string
	}{
		{
			name: "status",
			respond: func(recordedCall) (*http.Response, error) {
				return jsonResponse(http.StatusUnauthorized, map[string]string{}), nil
			},
			want: "Failed to fetch profile",
		},
		{
			name: "transport",
			respond: func(recordedCall) (*http.Response, error) {
				return nil, errors.New("dial tcp: refused")
			},
			want: "Error fetching profile",
		},
	}

	for _, tt := range tests {
		backend := &fakeBackend{respond: tt.respond}
		profile, _ := newLinkedStores(backend)

		profile.Load(context.Background())
		got, loading, errMsg := profile.Snapshot()
		if got != nil || loading || errMsg != tt.want {
			t.Fatalf("%s: expected nil profile, not loading, %q; got %v %v %q", tt.name, tt.want, got, loading, errMsg)
		}
	}
}

func TestProfileSuccessClearsError(t *testing.T) {
	ok := false
	backend := &fakeBackend{respond: func(recordedCall) (*http.Response, error) {
		if !ok {
			return nil, errors.New("offline")
		}
		return profileResponse(nil), nil
	}}
	profile, _ := newLinkedStores(backend)
	profile.Load(context.Background())

	ok = true
	profile.Refetch(context.Background())
	got, loading, errMsg := profile.Snapshot()
	if got == nil || got.Name != "Asha" || loading || errMsg != "" {
		t.Fatalf("expected loaded profile, got %v %v %q", got, loading, errMsg)
	}
}

func TestSubscribeReceivesAppliedSnapshots(t *testing.T) {
	backend := &fakeBackend{respond: func(recordedCall) (*http.Response, error) {
		return cartResponse(cartPayload(1, 10, "a")), nil
	}}
	_, cart := newLinkedStores(backend)
	updates, cancel := cart.Subscribe()
	defer cancel()

	_ = cart.Add(context.Background(), models.CartItem{ID: "a"})

	snapshot := <-updates
	if len(snapshot.Items) != 1 || snapshot.Version == 0 {
		t.Fatalf("unexpected snapshot: %+v", snapshot)
	}
}
