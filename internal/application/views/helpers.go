package views

import (
	"context"
	"errors"

	"github.com/zatekoja/boulevard/internal/application/optimistic"
	"github.com/zatekoja/boulevard/internal/domain/entities"
	"github.com/zatekoja/boulevard/internal/domain/providers"
	"github.com/zatekoja/boulevard/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/boulevard/pkg/errors"
)

var errNotLoaded = apperrors.NewInternalError("view is not loaded", nil)

// requireSession short-circuits actions that need a logged-in user
func requireSession(ctx context.Context, deps Deps) (*entities.Session, error) {
	if deps.Session == nil {
		deps.notify(providers.LevelWarning, optimistic.LoginRequiredMessage)
		return nil, apperrors.NewUnauthenticatedError(optimistic.LoginRequiredMessage)
	}
	session, err := deps.Session.Current(ctx)
	if err != nil {
		if apperrors.IsType(err, apperrors.ErrorTypeUnauthenticated) {
			deps.notify(providers.LevelWarning, optimistic.LoginRequiredMessage)
		} else {
			observability.LoggerFromContext(ctx).Warn().Err(err).Msg("failed to read session")
			deps.notify(providers.LevelError, apperrors.UserMessage(err))
		}
		return nil, err
	}
	return session, nil
}

// reportFailure logs a failed action and shows a display-safe notice.
// Nothing is shown once the view has been closed.
func reportFailure(ctx context.Context, scope *Scope, deps Deps, action string, err error) error {
	observability.LoggerFromContext(ctx).Warn().Err(err).Str("action", action).Msg("action failed")
	if scope.Alive() && !errors.Is(err, context.Canceled) {
		deps.notify(providers.LevelError, apperrors.UserMessage(err))
	}
	return err
}
