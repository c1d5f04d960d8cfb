package views

import (
	"context"

	"github.com/zatekoja/boulevard/internal/domain/entities"
	"github.com/zatekoja/boulevard/internal/domain/providers"
	apperrors "github.com/zatekoja/boulevard/pkg/errors"
)

// CreateEstablishment validates and submits a new listing. Nothing is sent
// when the form fails validation or nobody is logged in.
func CreateEstablishment(ctx context.Context, scope *Scope, deps Deps, form *entities.EstablishmentForm) (*entities.Establishment, error) {
	if _, err := requireSession(ctx, deps); err != nil {
		return nil, err
	}
	if err := deps.validator().Establishment(form); err != nil {
		deps.notify(providers.LevelWarning, apperrors.UserMessage(err))
		return nil, err
	}

	ctx, cancel := scope.Bind(ctx)
	defer cancel()
	created, err := deps.Establishments.Create(ctx, form)
	if err != nil {
		return nil, reportFailure(ctx, scope, deps, "create establishment", err)
	}
	if scope.Alive() {
		deps.notify(providers.LevelSuccess, "Establishment submitted for review.")
	}
	return created, nil
}
