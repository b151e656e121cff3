package listing

import (
	"context"
	"errors"
	"log"
	"net/http"
	"sync"

	"storefront/internal/apiclient"
	"storefront/internal/models"
)

// PageSize is the fixed page length. A page this long is taken to mean
// more pages may follow.
const PageSize = 10

// ErrSuperseded is returned when a response belongs to an epoch that has
// since been replaced.
var ErrSuperseded = errors.New("listing request superseded")

// State is a copy of the paginator for rendering.
type State struct {
	Key      string           `json:"key"`
	Page     int              `json:"page"`
	Products []models.Product `json:"products"`
	HasMore  bool             `json:"hasMore"`
	Loading  bool             `json:"loading"`
	Error    string           `json:"error,omitempty"`
}

// Paginator accumulates catalog pages for one filter epoch at a time.
type Paginator struct {
	client apiclient.Doer

	// loadMu orders load-more calls so pages append in page order.
	loadMu sync.Mutex

	mu         sync.Mutex
	filters    FilterState
	key        string
	generation uint64
	page       int
	products   []models.Product
	hasMore    bool
	loading    bool
	err        string
}

func NewPaginator(client apiclient.Doer) *Paginator {
	return &Paginator{client: client, products: []models.Product{}}
}

// Key returns the current epoch key.
func (p *Paginator) Key() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.key
}

// Reset starts a new epoch for f and fetches page 1, replacing whatever was
// accumulated.
func (p *Paginator) Reset(ctx context.Context, f FilterState) ([]models.Product, error) {
	p.mu.Lock()
	p.generation++
	generation := p.generation
	p.filters = f
	p.key = f.Key()
	p.page = 1
	p.products = []models.Product{}
	p.hasMore = true
	p.loading = true
	p.err = ""
	p.mu.Unlock()

	return p.fetch(ctx, generation, 1, f, true)
}

// LoadMore fetches the next page and appends it. It does nothing once the
// last page was shorter than PageSize. Concurrent calls run one at a time.
func (p *Paginator) LoadMore(ctx context.Context) ([]models.Product, error) {
	p.loadMu.Lock()
	defer p.loadMu.Unlock()

	p.mu.Lock()
	if !p.hasMore {
		p.mu.Unlock()
		return []models.Product{}, nil
	}
	p.page++
	page := p.page
	generation := p.generation
	f := p.filters
	p.loading = true
	p.mu.Unlock()

	return p.fetch(ctx, generation, page, f, false)
}

// State returns a snapshot of the epoch.
func (p *Paginator) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return State{
		Key:      p.key,
		Page:     p.page,
		Products: append([]models.Product(nil), p.products...),
		HasMore:  p.hasMore,
		Loading:  p.loading,
		Error:    p.err,
	}
}

func (p *Paginator) fetch(ctx context.Context, generation uint64, page int, f FilterState, replace bool) ([]models.Product, error) {
	endpoint := apiclient.EndpointProducts + "?" + BuildQuery(f, page, PageSize)
	log.Printf("[LISTING] [INFO] fetching page=%d replace=%v", page, replace)

	products, err := p.request(ctx, endpoint)

	p.mu.Lock()
	defer p.mu.Unlock()

	if generation != p.generation {
		log.Printf("[LISTING] [INFO] dropping page=%d of superseded epoch", page)
		return nil, ErrSuperseded
	}
	p.loading = false
	if err != nil {
		log.Println("[LISTING] [ERROR] fetch failed:", err)
		p.err = err.Error()
		return nil, err
	}

	if replace {
		p.products = products
	} else {
		p.products = append(p.products, products...)
	}
	p.hasMore = len(products) >= PageSize
	return products, nil
}

func (p *Paginator) request(ctx context.Context, endpoint string) ([]models.Product, error) {
	res, err := p.client.Do(ctx, http.MethodGet, endpoint, nil, nil)
	if err != nil {
		return nil, err
	}
	var page models.ProductPage
	if err := apiclient.DecodeJSON(res, &page); err != nil {
		return nil, err
	}
	return page.Items(), nil
}
