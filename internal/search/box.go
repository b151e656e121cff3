package search

import (
	"context"
	"log"
	"sync"
	"time"

	"storefront/internal/apiclient"
)

// DebounceDelay is the quiet period before a fetch is issued.
const DebounceDelay = 300 * time.Millisecond

// Result is delivered once per quiet period.
type Result struct {
	Query  string `json:"query"`
	Groups Groups `json:"groups"`
	Err    error  `json:"-"`
}

// Box debounces keystrokes into suggestion fetches. Every Type call restarts
// the timer; when it fires a single fetch is made for the latest query.
// Results of superseded queries are dropped.
type Box struct {
	client  apiclient.Doer
	delay   time.Duration
	deliver func(Result)

	mu         sync.Mutex
	timer      *time.Timer
	generation uint64
	closed     bool
	ctx        context.Context
	cancel     context.CancelFunc
}

func NewBox(client apiclient.Doer, delay time.Duration, deliver func(Result)) *Box {
	ctx, cancel := context.WithCancel(context.Background())
	return &Box{
		client:  client,
		delay:   delay,
		deliver: deliver,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Type records the current input.
func (b *Box) Type(query string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}

	b.generation++
	generation := b.generation
	if b.timer != nil {
		b.timer.Stop()
	}
	b.timer = time.AfterFunc(b.delay, func() {
		b.fire(generation, query)
	})
}

// Close stops pending timers and drops in-flight results.
func (b *Box) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	if b.timer != nil {
		b.timer.Stop()
	}
	b.cancel()
}

func (b *Box) fire(generation uint64, query string) {
	if !b.current(generation) {
		return
	}

	if !Eligible(query) {
		b.emit(generation, Result{Query: query, Groups: Partition(nil)})
		return
	}

	groups, err := Fetch(b.ctx, b.client, query)
	if err != nil {
		log.Println("[SEARCH] [ERROR] suggestions fetch failed:", err)
		groups = Partition(nil)
	}
	b.emit(generation, Result{Query: query, Groups: groups, Err: err})
}

func (b *Box) current(generation uint64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return !b.closed && generation == b.generation
}

func (b *Box) emit(generation uint64, result Result) {
	if !b.current(generation) {
		return
	}
	b.deliver(result)
}
