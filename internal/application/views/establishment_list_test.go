package views

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/boulevard/internal/adapters/notify"
	"github.com/zatekoja/boulevard/internal/application/optimistic"
	"github.com/zatekoja/boulevard/internal/domain/entities"
	"github.com/zatekoja/boulevard/internal/domain/providers"
	apperrors "github.com/zatekoja/boulevard/pkg/errors"
	"github.com/zatekoja/boulevard/tests/mocks"
)

func TestEstablishmentListView_LoadAndPaginate(t *testing.T) {
	f := newFixture(t, mocks.LoggedIn("u1"))
	f.establishments.On("ListApproved", mock.Anything).
		Return([]entities.Establishment{est("e1", "u1"), est("e2"), est("e3", "u2", "u3")}, nil).Once()

	v := NewEstablishmentListView(f.scope, f.deps, ListApproved)
	require.NoError(t, v.Load(context.Background()))

	assert.Equal(t, 2, v.PageCount())
	cards := v.Cards()
	require.Len(t, cards, 2)
	assert.Equal(t, optimistic.State{On: true, Count: 1}, cards[0].Like)
	assert.Equal(t, optimistic.State{On: false, Count: 0}, cards[1].Like)

	assert.Equal(t, 1, v.SetPage(5))
	cards = v.Cards()
	require.Len(t, cards, 1)
	assert.Equal(t, "e3", cards[0].Establishment.ID)
	assert.Equal(t, optimistic.State{On: false, Count: 2}, cards[0].Like)
}

func TestEstablishmentListView_EmptyIsNotAnError(t *testing.T) {
	f := newFixture(t, nil)
	f.establishments.On("List", mock.Anything).Return([]entities.Establishment{}, nil).Once()

	v := NewEstablishmentListView(f.scope, f.deps, ListAll)
	require.NoError(t, v.Load(context.Background()))

	snap := v.Snapshot()
	assert.Equal(t, Ready, snap.Status)
	assert.True(t, snap.Empty)
	assert.Nil(t, snap.Err)
	assert.Zero(t, v.PageCount())
	assert.Empty(t, v.Cards())
}

func TestEstablishmentListView_LoadFailureThenRetry(t *testing.T) {
	f := newFixture(t, nil)
	f.establishments.On("ListApproved", mock.Anything).
		Return(nil, apperrors.NewNotFoundError("gone")).Once()
	f.establishments.On("ListApproved", mock.Anything).
		Return([]entities.Establishment{est("e1")}, nil).Once()

	v := NewEstablishmentListView(f.scope, f.deps, ListApproved)
	require.Error(t, v.Load(context.Background()))
	snap := v.Snapshot()
	assert.Equal(t, Failed, snap.Status)
	assert.False(t, snap.Empty)

	require.NoError(t, v.Retry(context.Background()))
	assert.Len(t, v.Cards(), 1)
}

func TestEstablishmentListView_LikeThenLikeFails(t *testing.T) {
	f := newFixture(t, mocks.LoggedIn("u1"))
	f.establishments.On("ListApproved", mock.Anything).Return([]entities.Establishment{est("e1")}, nil).Once()

	gate := make(chan struct{})
	entered := make(chan struct{})
	f.establishments.On("Like", mock.Anything, "e1").
		Run(func(mock.Arguments) {
			close(entered)
			<-gate
		}).
		Return(apperrors.NewNetworkError("request failed", errors.New("timeout"))).Once()

	v := NewEstablishmentListView(f.scope, f.deps, ListApproved)
	require.NoError(t, v.Load(context.Background()))

	done := make(chan error)
	go func() {
		_, err := v.ToggleLike(context.Background(), "e1")
		done <- err
	}()
	<-entered

	card := v.Cards()[0]
	assert.Equal(t, optimistic.State{On: true, Count: 1}, card.Like)
	assert.True(t, card.LikePending)

	close(gate)
	require.Error(t, <-done)

	card = v.Cards()[0]
	assert.Equal(t, optimistic.State{On: false, Count: 0}, card.Like)
	assert.False(t, card.LikePending)
	last, ok := f.notices.Last()
	require.True(t, ok)
	assert.Equal(t, providers.LevelError, last.Level)
}

func TestEstablishmentListView_UnauthenticatedLike(t *testing.T) {
	f := newFixture(t, nil)
	f.establishments.On("ListApproved", mock.Anything).Return([]entities.Establishment{est("e1", "u2")}, nil).Once()

	v := NewEstablishmentListView(f.scope, f.deps, ListApproved)
	require.NoError(t, v.Load(context.Background()))

	_, err := v.ToggleLike(context.Background(), "e1")

	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeUnauthenticated))
	f.establishments.AssertNotCalled(t, "Like", mock.Anything, mock.Anything)
	assert.Equal(t, optimistic.State{On: false, Count: 1}, v.Cards()[0].Like)
	assert.Equal(t, []notify.Notice{{Level: providers.LevelWarning, Message: optimistic.LoginRequiredMessage}}, f.notices.Notices())
}

func TestEstablishmentListView_FollowUnfollow(t *testing.T) {
	f := newFixture(t, mocks.LoggedIn("u1"))
	e := est("e1")
	e.Followers = []entities.Ref{{ID: "u1"}, {ID: "u9"}}
	f.establishments.On("ListApproved", mock.Anything).Return([]entities.Establishment{e}, nil).Once()
	f.establishments.On("Unfollow", mock.Anything, "e1").Return(nil).Once()

	v := NewEstablishmentListView(f.scope, f.deps, ListApproved)
	require.NoError(t, v.Load(context.Background()))

	state, err := v.ToggleFollow(context.Background(), "e1")
	require.NoError(t, err)
	assert.Equal(t, optimistic.State{On: false, Count: 1}, state)
}

func TestEstablishmentListView_UnknownCard(t *testing.T) {
	f := newFixture(t, mocks.LoggedIn("u1"))
	v := NewEstablishmentListView(f.scope, f.deps, ListApproved)

	_, err := v.ToggleLike(context.Background(), "nope")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
}
