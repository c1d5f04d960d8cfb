package views

import (
	"context"

	"github.com/zatekoja/boulevard/internal/application/optimistic"
	"github.com/zatekoja/boulevard/internal/application/services"
	"github.com/zatekoja/boulevard/internal/domain/providers"
	"github.com/zatekoja/boulevard/internal/domain/repositories"
	"github.com/zatekoja/boulevard/internal/infrastructure/observability"
)

// Deps are the collaborators shared by every view
type Deps struct {
	Establishments repositories.EstablishmentRepository
	Comments       repositories.CommentRepository
	Notifications  repositories.NotificationRepository
	Chat           repositories.ChatRepository
	Session        providers.SessionProvider
	Notifier       providers.Notifier
	Registry       *optimistic.Registry
	Metrics        *observability.Metrics
	Validator      *services.Validator

	PageSize          int
	LoadRetryAttempts int
}

func (d Deps) controller(scope *Scope) *optimistic.Controller {
	return optimistic.NewController(d.Session, d.Notifier,
		optimistic.WithRegistry(d.Registry),
		optimistic.WithMetrics(d.Metrics),
		optimistic.WithAlive(scope.Alive),
	)
}

func (d Deps) notify(level providers.Level, message string) {
	if d.Notifier != nil {
		d.Notifier.Notify(level, message)
	}
}

// userID returns the logged-in user's id, or "" for anonymous browsing
func (d Deps) userID(ctx context.Context) string {
	if d.Session == nil {
		return ""
	}
	session, err := d.Session.Current(ctx)
	if err != nil {
		return ""
	}
	return session.UserID()
}

func (d Deps) validator() *services.Validator {
	if d.Validator == nil {
		return services.NewValidator()
	}
	return d.Validator
}

func (d Deps) retryAttempts() int {
	if d.LoadRetryAttempts < 1 {
		return 1
	}
	return d.LoadRetryAttempts
}
