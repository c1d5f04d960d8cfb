package views

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/zatekoja/boulevard/pkg/errors"
)

func TestResource_StatesAndEmpty(t *testing.T) {
	scope := NewScope(context.Background())
	defer scope.Close()

	var items []string
	r := NewResource(scope, "test", func(ctx context.Context) ([]string, error) {
		return items, nil
	}, WithEmpty(func(s []string) bool { return len(s) == 0 }))

	assert.Equal(t, Pending, r.Status())
	assert.False(t, r.IsEmpty())

	require.NoError(t, r.Load(context.Background()))
	assert.Equal(t, Ready, r.Status())
	assert.True(t, r.IsEmpty())

	items = []string{"a"}
	require.NoError(t, r.Reload(context.Background()))
	assert.False(t, r.IsEmpty())
	assert.Equal(t, []string{"a"}, r.Data())
}

func TestResource_FailureIsNotEmpty(t *testing.T) {
	scope := NewScope(context.Background())
	defer scope.Close()

	r := NewResource(scope, "test", func(ctx context.Context) ([]string, error) {
		return nil, apperrors.NewNotFoundError("missing")
	}, WithEmpty(func(s []string) bool { return len(s) == 0 }))

	err := r.Load(context.Background())
	require.Error(t, err)

	snap := r.Snapshot()
	assert.Equal(t, Failed, snap.Status)
	assert.False(t, snap.Empty)
	assert.Equal(t, err, snap.Err)
	assert.Equal(t, "error", snap.Status.String())
}

func TestResource_RetriesOnlyTransientFailures(t *testing.T) {
	scope := NewScope(context.Background())
	defer scope.Close()

	var calls atomic.Int32
	r := NewResource(scope, "test", func(ctx context.Context) (int, error) {
		if calls.Add(1) == 1 {
			return 0, apperrors.NewNetworkError("request failed", errors.New("reset"))
		}
		return 42, nil
	}, WithLoadRetry[int](3))

	require.NoError(t, r.Load(context.Background()))
	assert.Equal(t, 42, r.Data())
	assert.Equal(t, int32(2), calls.Load())

	calls.Store(0)
	r = NewResource(scope, "test", func(ctx context.Context) (int, error) {
		calls.Add(1)
		return 0, apperrors.NewValidationError("bad")
	}, WithLoadRetry[int](3))

	err := r.Load(context.Background())
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
	assert.Equal(t, int32(1), calls.Load())
}

func TestResource_OutdatedLoadIsDiscarded(t *testing.T) {
	scope := NewScope(context.Background())
	defer scope.Close()

	gate := make(chan struct{})
	entered := make(chan struct{})
	var calls atomic.Int32
	r := NewResource(scope, "test", func(ctx context.Context) (string, error) {
		if calls.Add(1) == 1 {
			close(entered)
			<-gate
			return "old", nil
		}
		return "new", nil
	})

	done := make(chan error)
	go func() { done <- r.Load(context.Background()) }()
	<-entered

	require.NoError(t, r.Load(context.Background()))
	close(gate)
	<-done

	assert.Equal(t, "new", r.Data())
	assert.Equal(t, Ready, r.Status())
}

func TestResource_ClosedScopeDropsResult(t *testing.T) {
	scope := NewScope(context.Background())

	r := NewResource(scope, "test", func(ctx context.Context) (string, error) {
		scope.Close()
		return "late", nil
	})

	_ = r.Load(context.Background())
	assert.Equal(t, Loading, r.Status())
	assert.Empty(t, r.Data())
}

func TestResource_ScopeCloseCancelsRequest(t *testing.T) {
	scope := NewScope(context.Background())
	entered := make(chan struct{})

	r := NewResource(scope, "test", func(ctx context.Context) (string, error) {
		close(entered)
		<-ctx.Done()
		return "", ctx.Err()
	})

	done := make(chan error)
	go func() { done <- r.Load(context.Background()) }()
	<-entered
	scope.Close()

	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestResource_NonIdempotentCannotRetry(t *testing.T) {
	scope := NewScope(context.Background())
	defer scope.Close()

	r := NewResource(scope, "test", func(ctx context.Context) (int, error) {
		return 0, errors.New("boom")
	}, NonIdempotent[int]())

	require.Error(t, r.Load(context.Background()))
	assert.ErrorIs(t, r.Retry(context.Background()), ErrNotRetryable)
}

func TestResource_MutateOnlyWhenReady(t *testing.T) {
	scope := NewScope(context.Background())
	defer scope.Close()

	r := NewResource(scope, "test", func(ctx context.Context) (int, error) { return 1, nil })
	r.Mutate(func(n int) int { return n + 1 })
	assert.Equal(t, 0, r.Data())

	require.NoError(t, r.Load(context.Background()))
	r.Mutate(func(n int) int { return n + 1 })
	assert.Equal(t, 2, r.Data())
}

func TestResource_OlderReadyCallbackNeverLandsLast(t *testing.T) {
	scope := NewScope(context.Background())
	defer scope.Close()

	var calls atomic.Int32
	gate := make(chan struct{})
	entered := make(chan struct{})
	var mu sync.Mutex
	var bound []string

	r := NewResource(scope, "test", func(ctx context.Context) (string, error) {
		if calls.Add(1) == 1 {
			return "old", nil
		}
		return "new", nil
	}, WithReady(func(s string) {
		if s == "old" {
			close(entered)
			<-gate
		}
		mu.Lock()
		bound = append(bound, s)
		mu.Unlock()
	}))

	first := make(chan error, 1)
	go func() { first <- r.Load(context.Background()) }()
	<-entered

	second := make(chan error, 1)
	go func() { second <- r.Load(context.Background()) }()
	require.Eventually(t, func() bool { return r.Data() == "new" }, time.Second, 5*time.Millisecond)

	close(gate)
	require.NoError(t, <-first)
	require.NoError(t, <-second)

	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, bound)
	assert.Equal(t, "new", bound[len(bound)-1])
	assert.Equal(t, "new", r.Data())
}
