package optimistic

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/boulevard/internal/adapters/notify"
	"github.com/zatekoja/boulevard/internal/domain/entities"
	"github.com/zatekoja/boulevard/internal/domain/providers"
	apperrors "github.com/zatekoja/boulevard/pkg/errors"
	"github.com/zatekoja/boulevard/tests/mocks"
)

// backend is a fake relation endpoint. When gate is set every call blocks until released.
type backend struct {
	calls   atomic.Int32
	err     error
	gate    chan struct{}
	entered chan struct{}
}

func newBackend() *backend {
	return &backend{}
}

func (b *backend) blocking() *backend {
	b.gate = make(chan struct{})
	b.entered = make(chan struct{}, 4)
	return b
}

func (b *backend) call(ctx context.Context, id string) error {
	b.calls.Add(1)
	if b.gate != nil {
		b.entered <- struct{}{}
		<-b.gate
	}
	return b.err
}

func likeRelation(b *backend) Relation[*entities.Establishment] {
	return Relation[*entities.Establishment]{
		Name:      "like",
		SubjectID: func(e *entities.Establishment) string { return e.ID },
		Holds:     Members((*entities.Establishment).LikerIDs),
		Count:     func(e *entities.Establishment) int { return len(e.LikerIDs()) },
		Add:       b.call,
		Remove:    b.call,
	}
}

func establishment(likers ...string) *entities.Establishment {
	e := &entities.Establishment{ID: "e1", Name: "Pizzeria Roma"}
	for _, id := range likers {
		e.Likes = append(e.Likes, entities.Ref{ID: id})
	}
	return e
}

func TestToggle_LikeThenFailureReverts(t *testing.T) {
	ctx := context.Background()
	b := newBackend().blocking()
	b.err = apperrors.NewNetworkError("request failed", errors.New("connection refused"))
	rec := notify.NewRecorder()
	c := NewController(mocks.LoggedIn("u1"), rec)

	toggle := likeRelation(b).Bind(c, establishment(), "u1")
	assert.Equal(t, State{On: false, Count: 0}, toggle.State())

	done := make(chan error, 1)
	go func() {
		_, err := toggle.Toggle(ctx)
		done <- err
	}()

	<-b.entered
	assert.Equal(t, State{On: true, Count: 1}, toggle.State())
	assert.True(t, toggle.Pending())

	close(b.gate)
	err := <-done

	require.Error(t, err)
	assert.Equal(t, State{On: false, Count: 0}, toggle.State())
	assert.False(t, toggle.Pending())
	last, ok := rec.Last()
	require.True(t, ok)
	assert.Equal(t, providers.LevelError, last.Level)
	assert.NotContains(t, last.Message, "connection refused")
}

func TestToggle_SuccessKeepsOptimisticState(t *testing.T) {
	b := newBackend()
	rec := notify.NewRecorder()
	toggle := likeRelation(b).Bind(NewController(mocks.LoggedIn("u1"), rec), establishment("u2"), "u1")

	state, err := toggle.Toggle(context.Background())

	require.NoError(t, err)
	assert.Equal(t, State{On: true, Count: 2}, state)
	assert.Equal(t, int32(1), b.calls.Load())
	assert.Empty(t, rec.Notices())
}

func TestToggle_UnauthenticatedMakesNoCall(t *testing.T) {
	b := newBackend()
	rec := notify.NewRecorder()
	toggle := likeRelation(b).Bind(NewController(&mocks.Session{}, rec), establishment("u2"), "")

	state, err := toggle.Toggle(context.Background())

	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeUnauthenticated))
	assert.Equal(t, State{On: false, Count: 1}, state)
	assert.Equal(t, State{On: false, Count: 1}, toggle.State())
	assert.Zero(t, b.calls.Load())
	assert.Equal(t, []notify.Notice{{Level: providers.LevelWarning, Message: LoginRequiredMessage}}, rec.Notices())
}

func TestToggle_SessionReadFailureIsNotALoginPrompt(t *testing.T) {
	b := newBackend()
	rec := notify.NewRecorder()
	storeErr := apperrors.NewInternalError("failed to read session", errors.New("redis: connection refused"))
	toggle := likeRelation(b).Bind(NewController(&mocks.Session{Err: storeErr}, rec), establishment("u2"), "")

	state, err := toggle.Toggle(context.Background())

	assert.Same(t, storeErr, err)
	assert.Equal(t, State{On: false, Count: 1}, state)
	assert.Zero(t, b.calls.Load())
	last, ok := rec.Last()
	require.True(t, ok)
	assert.Equal(t, providers.LevelError, last.Level)
	assert.Equal(t, storeErr.UserMessage(), last.Message)
	assert.NotEqual(t, LoginRequiredMessage, last.Message)
}

func TestToggle_SetSameStateIsNoop(t *testing.T) {
	b := newBackend()
	toggle := likeRelation(b).Bind(NewController(mocks.LoggedIn("u1"), nil), establishment("u1"), "u1")

	state, err := toggle.Set(context.Background(), true)

	require.NoError(t, err)
	assert.Equal(t, State{On: true, Count: 1}, state)
	assert.Zero(t, b.calls.Load())
}

func TestToggle_SecondToggleWhileInFlightIsRejected(t *testing.T) {
	ctx := context.Background()
	b := newBackend().blocking()
	toggle := likeRelation(b).Bind(NewController(mocks.LoggedIn("u1"), nil), establishment(), "u1")

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = toggle.Toggle(ctx)
	}()
	<-b.entered

	state, err := toggle.Toggle(ctx)
	assert.ErrorIs(t, err, ErrToggleInFlight)
	assert.Equal(t, State{On: true, Count: 1}, state)

	close(b.gate)
	wg.Wait()

	assert.Equal(t, int32(1), b.calls.Load())
	assert.Equal(t, State{On: true, Count: 1}, toggle.State())
}

func TestToggle_SharedRegistrySerializesAcrossViews(t *testing.T) {
	ctx := context.Background()
	b := newBackend().blocking()
	registry := NewRegistry()
	rel := likeRelation(b)

	card := rel.Bind(NewController(mocks.LoggedIn("u1"), nil, WithRegistry(registry)), establishment(), "u1")
	header := rel.Bind(NewController(mocks.LoggedIn("u1"), nil, WithRegistry(registry)), establishment(), "u1")

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = card.Toggle(ctx)
	}()
	<-b.entered
	assert.True(t, registry.InFlight(Key("like", "e1", "u1")))

	_, err := header.Toggle(ctx)
	assert.ErrorIs(t, err, ErrToggleInFlight)
	assert.Equal(t, State{On: false, Count: 0}, header.State())

	close(b.gate)
	<-done
	assert.False(t, registry.InFlight(Key("like", "e1", "u1")))
}

func TestToggle_CountFloorsAtZero(t *testing.T) {
	b := newBackend()
	rel := likeRelation(b)
	rel.Count = func(*entities.Establishment) int { return 0 }
	toggle := rel.Bind(NewController(mocks.LoggedIn("u1"), nil), establishment("u1"), "u1")

	state, err := toggle.Toggle(context.Background())

	require.NoError(t, err)
	assert.Equal(t, State{On: false, Count: 0}, state)
}

func TestToggle_LateCompletionAfterCloseIsDropped(t *testing.T) {
	ctx := context.Background()
	b := newBackend().blocking()
	b.err = errors.New("boom")
	var alive atomic.Bool
	alive.Store(true)
	rec := notify.NewRecorder()
	toggle := likeRelation(b).Bind(NewController(mocks.LoggedIn("u1"), rec, WithAlive(alive.Load)), establishment(), "u1")

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = toggle.Toggle(ctx)
	}()
	<-b.entered
	alive.Store(false)
	close(b.gate)
	<-done

	assert.Equal(t, State{On: true, Count: 1}, toggle.State())
	assert.Empty(t, rec.Notices())
}

func TestToggle_UncountedRelation(t *testing.T) {
	b := newBackend()
	rel := likeRelation(b)
	rel.Count = nil
	toggle := rel.Bind(NewController(mocks.LoggedIn("u1"), nil), establishment("u1"), "u1")

	state, err := toggle.Toggle(context.Background())

	require.NoError(t, err)
	assert.Equal(t, State{On: false, Count: 0}, state)
}

func TestMembers_IgnoresAnonymous(t *testing.T) {
	holds := Members((*entities.Establishment).LikerIDs)
	assert.False(t, holds(establishment(""), ""))
	assert.True(t, holds(establishment("u1", "u1"), "u1"))
}
