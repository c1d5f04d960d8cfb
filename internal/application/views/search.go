package views

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/zatekoja/boulevard/internal/domain/entities"
	"github.com/zatekoja/boulevard/internal/infrastructure/observability"
)

const (
	DefaultSearchDebounce  = 300 * time.Millisecond
	DefaultSearchMinLength = 2
)

// SearchState is what the search overlay renders
type SearchState struct {
	Query   string
	Results []entities.Establishment
	Pending bool
	Err     error
}

// SearchOption configures a SearchController
type SearchOption func(*SearchController)

// WithDebounce sets the quiet period before a query is sent
func WithDebounce(d time.Duration) SearchOption {
	return func(c *SearchController) {
		if d > 0 {
			c.debounce = d
		}
	}
}

// WithMinLength sets the shortest trimmed input that is sent
func WithMinLength(n int) SearchOption {
	return func(c *SearchController) {
		if n > 0 {
			c.minLength = n
		}
	}
}

// OnSearchChange registers a callback invoked after every state change
func OnSearchChange(fn func(SearchState)) SearchOption {
	return func(c *SearchController) {
		c.onChange = fn
	}
}

// SearchController turns keystrokes into backend queries. Every keystroke
// restarts the debounce window, each sent query gets an increasing id, and only
// the response to the latest id is applied; superseded requests are cancelled.
type SearchController struct {
	scope     *Scope
	search    func(ctx context.Context, term string) ([]entities.Establishment, error)
	metrics   *observability.Metrics
	debounce  time.Duration
	minLength int
	onChange  func(SearchState)

	mu       sync.Mutex
	seq      uint64
	timer    *time.Timer
	cancel   context.CancelFunc
	query    string
	results  []entities.Establishment
	pending  bool
	err      error
	closed   bool
	inflight sync.WaitGroup
}

// NewSearchController creates a search controller over the establishment search endpoint
func NewSearchController(scope *Scope, deps Deps, opts ...SearchOption) *SearchController {
	c := &SearchController{
		scope:     scope,
		search:    deps.Establishments.Search,
		metrics:   deps.Metrics,
		debounce:  DefaultSearchDebounce,
		minLength: DefaultSearchMinLength,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Input records the current text of the search box
func (c *SearchController) Input(text string) {
	term := strings.TrimSpace(text)

	c.mu.Lock()
	if c.closed || !c.scope.Alive() {
		c.mu.Unlock()
		return
	}
	c.seq++
	id := c.seq
	c.query = text
	c.stopLocked()

	if utf8.RuneCountInString(term) < c.minLength {
		c.results = nil
		c.pending = false
		c.err = nil
		state := c.stateLocked()
		c.mu.Unlock()
		c.changed(state)
		return
	}

	c.pending = true
	c.timer = time.AfterFunc(c.debounce, func() { c.fire(id, term) })
	state := c.stateLocked()
	c.mu.Unlock()
	c.changed(state)
}

// Clear empties the search box
func (c *SearchController) Clear() {
	c.Input("")
}

func (c *SearchController) fire(id uint64, term string) {
	c.mu.Lock()
	if id != c.seq || !c.scope.Alive() {
		c.mu.Unlock()
		return
	}
	ctx, cancel := c.scope.Bind(context.Background())
	c.cancel = cancel
	c.inflight.Add(1)
	c.mu.Unlock()
	defer c.inflight.Done()
	defer cancel()

	observability.RecordSearch(ctx, c.metrics, false)
	results, err := c.search(ctx, term)

	c.mu.Lock()
	if id != c.seq || !c.scope.Alive() {
		c.mu.Unlock()
		observability.RecordSearch(ctx, c.metrics, true)
		observability.LoggerFromContext(ctx).Debug().Str("term", term).Msg("discarding superseded search response")
		return
	}
	c.cancel = nil
	c.pending = false
	if err != nil {
		c.results = nil
		c.err = err
		if !errors.Is(err, context.Canceled) {
			observability.LoggerFromContext(ctx).Warn().Err(err).Str("term", term).Msg("search failed")
		}
	} else {
		c.results = results
		c.err = nil
	}
	state := c.stateLocked()
	c.mu.Unlock()
	c.changed(state)
}

// stopLocked drops the pending timer and cancels the in-flight request
func (c *SearchController) stopLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

func (c *SearchController) stateLocked() SearchState {
	return SearchState{
		Query:   c.query,
		Results: c.results,
		Pending: c.pending,
		Err:     c.err,
	}
}

func (c *SearchController) changed(state SearchState) {
	if c.onChange != nil {
		c.onChange(state)
	}
}

// State returns the current state
func (c *SearchController) State() SearchState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stateLocked()
}

// Query returns the raw input text
func (c *SearchController) Query() string {
	return c.State().Query
}

// Results returns the results of the latest applied query
func (c *SearchController) Results() []entities.Establishment {
	return c.State().Results
}

// Pending reports whether a query is waiting for its debounce window or response
func (c *SearchController) Pending() bool {
	return c.State().Pending
}

// Close stops the timer and cancels any request. Later input is ignored.
func (c *SearchController) Close() {
	c.mu.Lock()
	c.closed = true
	c.seq++
	c.stopLocked()
	c.pending = false
	c.mu.Unlock()
	c.inflight.Wait()
}
