package views

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/zatekoja/boulevard/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/boulevard/pkg/errors"
	"github.com/zatekoja/boulevard/pkg/retry"
)

// Status is the load state of a Resource
type Status int

const (
	Pending Status = iota // not loaded yet
	Loading
	Ready
	Failed
)

func (s Status) String() string {
	switch s {
	case Pending:
		return "pending"
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Failed:
		return "error"
	default:
		return "unknown"
	}
}

// ErrNotRetryable is returned by Retry when the resource's loader is not idempotent
var ErrNotRetryable = errors.New("resource load is not retryable")

// Snapshot is a consistent view of a Resource
type Snapshot[T any] struct {
	Status Status
	Data   T
	Err    error
	Empty  bool
}

// ResourceOption configures a Resource
type ResourceOption[T any] func(*Resource[T])

// WithLoadRetry retries failed network or server loads up to attempts times in total
func WithLoadRetry[T any](attempts int) ResourceOption[T] {
	return func(r *Resource[T]) {
		r.retry = retry.DefaultConfig(attempts)
	}
}

// WithEmpty sets how an empty result is recognized
func WithEmpty[T any](empty func(T) bool) ResourceOption[T] {
	return func(r *Resource[T]) {
		r.empty = empty
	}
}

// WithReady is called after each applied successful load
func WithReady[T any](fn func(T)) ResourceOption[T] {
	return func(r *Resource[T]) {
		r.onReady = fn
	}
}

// NonIdempotent disables Retry and load retries
func NonIdempotent[T any]() ResourceOption[T] {
	return func(r *Resource[T]) {
		r.idempotent = false
		r.retry = retry.DefaultConfig(1)
	}
}

// Resource holds data fetched from the backend and the state of the last fetch.
// A successful load replaces the data entirely; only the latest fetch is applied.
type Resource[T any] struct {
	scope      *Scope
	name       string
	loader     func(ctx context.Context) (T, error)
	retry      retry.Config
	idempotent bool
	empty      func(T) bool
	onReady    func(T)

	readyMu sync.Mutex

	mu      sync.Mutex
	status  Status
	data    T
	err     error
	fetchID uint64
	applied uint64
}

// NewResource creates a resource in the Pending state
func NewResource[T any](scope *Scope, name string, loader func(ctx context.Context) (T, error), opts ...ResourceOption[T]) *Resource[T] {
	r := &Resource[T]{
		scope:      scope,
		name:       name,
		loader:     loader,
		retry:      retry.DefaultConfig(1),
		idempotent: true,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Snapshot returns the current state
func (r *Resource[T]) Snapshot() Snapshot[T] {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Snapshot[T]{
		Status: r.status,
		Data:   r.data,
		Err:    r.err,
		Empty:  r.status == Ready && r.isEmpty(r.data),
	}
}

// Status returns the current load status
func (r *Resource[T]) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

// Data returns the last loaded data
func (r *Resource[T]) Data() T {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.data
}

// IsEmpty reports a successful load that returned nothing. A failure is never empty.
func (r *Resource[T]) IsEmpty() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status == Ready && r.isEmpty(r.data)
}

func (r *Resource[T]) isEmpty(data T) bool {
	if r.empty == nil {
		return false
	}
	return r.empty(data)
}

// Load fetches the data. Results of a fetch superseded by a newer one, or
// completing after the scope closed, are dropped.
func (r *Resource[T]) Load(ctx context.Context) error {
	r.mu.Lock()
	r.fetchID++
	id := r.fetchID
	r.status = Loading
	r.err = nil
	r.mu.Unlock()

	ctx, cancel := r.scope.Bind(ctx)
	defer cancel()

	logger := observability.LoggerFromContext(ctx)

	cfg := r.retry
	cfg.OnRetry = func(attempt int, err error, next time.Duration) {
		logger.Warn().Err(err).Str("resource", r.name).Int("attempt", attempt).Dur("next_delay", next).Msg("load failed, retrying")
	}

	var data T
	err := retry.Do(ctx, cfg, func(ctx context.Context) error {
		d, err := r.loader(ctx)
		if err != nil {
			if !retryable(err) {
				return retry.Permanent(err)
			}
			return err
		}
		data = d
		return nil
	})

	r.mu.Lock()
	if id != r.fetchID || !r.scope.Alive() {
		r.mu.Unlock()
		logger.Debug().Str("resource", r.name).Msg("discarding outdated load")
		return err
	}
	if err != nil {
		r.status = Failed
		r.err = err
		r.mu.Unlock()
		logger.Warn().Err(err).Str("resource", r.name).Msg("load failed")
		return err
	}
	r.status = Ready
	r.data = data
	r.applied = id
	r.mu.Unlock()

	r.ready(id, data)
	return nil
}

// ready runs onReady for fetch id unless a newer load's data has been applied since.
// Callbacks run one at a time so an older one never lands after a newer one.
func (r *Resource[T]) ready(id uint64, data T) {
	if r.onReady == nil {
		return
	}
	r.readyMu.Lock()
	defer r.readyMu.Unlock()

	r.mu.Lock()
	current := id == r.applied
	r.mu.Unlock()
	if !current {
		return
	}
	r.onReady(data)
}

// Reload is Load for a resource that has already been loaded
func (r *Resource[T]) Reload(ctx context.Context) error {
	return r.Load(ctx)
}

// Retry reloads after a failure. Only idempotent loads may be retried.
func (r *Resource[T]) Retry(ctx context.Context) error {
	if !r.idempotent {
		return ErrNotRetryable
	}
	return r.Load(ctx)
}

// Mutate edits the loaded data in place after a confirmed backend change
func (r *Resource[T]) Mutate(fn func(data T) T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.status != Ready {
		return
	}
	r.data = fn(r.data)
}

func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	apiErr, ok := apperrors.As(err)
	if !ok {
		return false
	}
	return apiErr.Type == apperrors.ErrorTypeNetwork || apiErr.Type == apperrors.ErrorTypeServer
}
