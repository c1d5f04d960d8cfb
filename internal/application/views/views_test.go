package views

import (
	"context"
	"testing"

	"github.com/zatekoja/boulevard/internal/adapters/notify"
	"github.com/zatekoja/boulevard/internal/application/optimistic"
	"github.com/zatekoja/boulevard/internal/domain/entities"
	"github.com/zatekoja/boulevard/internal/domain/providers"
	"github.com/zatekoja/boulevard/tests/mocks"
)

type fixture struct {
	deps           Deps
	establishments *mocks.EstablishmentRepository
	comments       *mocks.CommentRepository
	notifications  *mocks.NotificationRepository
	chat           *mocks.ChatRepository
	notices        *notify.Recorder
	scope          *Scope
}

func newFixture(t *testing.T, session providers.SessionProvider) *fixture {
	t.Helper()
	f := &fixture{
		establishments: &mocks.EstablishmentRepository{},
		comments:       &mocks.CommentRepository{},
		notifications:  &mocks.NotificationRepository{},
		chat:           &mocks.ChatRepository{},
		notices:        notify.NewRecorder(),
		scope:          NewScope(context.Background()),
	}
	if session == nil {
		session = &mocks.Session{}
	}
	f.deps = Deps{
		Establishments:    f.establishments,
		Comments:          f.comments,
		Notifications:     f.notifications,
		Chat:              f.chat,
		Session:           session,
		Notifier:          f.notices,
		Registry:          optimistic.NewRegistry(),
		PageSize:          2,
		LoadRetryAttempts: 1,
	}
	t.Cleanup(func() {
		f.scope.Close()
		f.establishments.AssertExpectations(t)
		f.comments.AssertExpectations(t)
		f.notifications.AssertExpectations(t)
		f.chat.AssertExpectations(t)
	})
	return f
}

func est(id string, likers ...string) entities.Establishment {
	e := entities.Establishment{ID: id, Name: "Place " + id, ModerationState: entities.ModerationApproved}
	for _, u := range likers {
		e.Likes = append(e.Likes, entities.Ref{ID: u})
	}
	return e
}
