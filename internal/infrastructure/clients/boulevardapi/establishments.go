package boulevardapi

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/zatekoja/boulevard/internal/domain/entities"
	apperrors "github.com/zatekoja/boulevard/pkg/errors"
)

// EstablishmentAPI implements repositories.EstablishmentRepository over HTTP
type EstablishmentAPI struct {
	c *HTTPClient
}

func (a *EstablishmentAPI) List(ctx context.Context) ([]entities.Establishment, error) {
	var out []entities.Establishment
	err := a.c.doJSON(ctx, request{method: http.MethodGet, path: "/establecimientos", route: "/establecimientos"}, &out)
	return out, err
}

func (a *EstablishmentAPI) ListApproved(ctx context.Context) ([]entities.Establishment, error) {
	var out []entities.Establishment
	err := a.c.doJSON(ctx, request{method: http.MethodGet, path: "/establecimientos/aprobados", route: "/establecimientos/aprobados"}, &out)
	return out, err
}

func (a *EstablishmentAPI) GetByID(ctx context.Context, id string) (*entities.Establishment, error) {
	if err := requireID("establishment", id); err != nil {
		return nil, err
	}
	out := &entities.Establishment{}
	err := a.c.doJSON(ctx, request{
		method: http.MethodGet,
		path:   "/establecimientos/" + escape(id),
		route:  "/establecimientos/{id}",
	}, out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Search queries by name. An empty term never reaches the network.
func (a *EstablishmentAPI) Search(ctx context.Context, name string) ([]entities.Establishment, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}
	query := url.Values{}
	query.Set("nombre", name)

	var out []entities.Establishment
	err := a.c.doJSON(ctx, request{
		method: http.MethodGet,
		path:   "/establecimientos/buscar?" + query.Encode(),
		route:  "/establecimientos/buscar",
	}, &out)
	return out, err
}

func (a *EstablishmentAPI) Create(ctx context.Context, form *entities.EstablishmentForm) (*entities.Establishment, error) {
	if form == nil {
		return nil, apperrors.NewValidationError("establishment form is required")
	}
	body, err := newEstablishmentMultipart(form)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to encode establishment form", err)
	}
	out := &entities.Establishment{}
	if err := a.c.doJSON(ctx, request{
		method: http.MethodPost,
		path:   "/establecimientos",
		route:  "/establecimientos",
		body:   body,
	}, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Update sends JSON, switching to multipart only when files are attached
func (a *EstablishmentAPI) Update(ctx context.Context, id string, form *entities.EstablishmentForm) (*entities.Establishment, error) {
	if err := requireID("establishment", id); err != nil {
		return nil, err
	}
	if form == nil {
		return nil, apperrors.NewValidationError("establishment form is required")
	}

	var body interface{} = form
	if form.HasFiles() {
		mp, err := newEstablishmentMultipart(form)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to encode establishment form", err)
		}
		body = mp
	}

	out := &entities.Establishment{}
	if err := a.c.doJSON(ctx, request{
		method: http.MethodPatch,
		path:   "/establecimientos/" + escape(id),
		route:  "/establecimientos/{id}",
		body:   body,
	}, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *EstablishmentAPI) DeleteImage(ctx context.Context, id, imageID string) error {
	if err := requireID("establishment", id); err != nil {
		return err
	}
	if err := requireID("image", imageID); err != nil {
		return err
	}
	return a.c.doJSON(ctx, request{
		method: http.MethodDelete,
		path:   "/establecimientos/" + escape(id) + "/imagenes/" + escape(imageID),
		route:  "/establecimientos/{id}/imagenes/{imageId}",
	}, nil)
}

func (a *EstablishmentAPI) Like(ctx context.Context, id string) error {
	return a.relation(ctx, id, "like")
}

func (a *EstablishmentAPI) Unlike(ctx context.Context, id string) error {
	return a.relation(ctx, id, "quitar-like")
}

func (a *EstablishmentAPI) Follow(ctx context.Context, id string) error {
	return a.relation(ctx, id, "seguir")
}

func (a *EstablishmentAPI) Unfollow(ctx context.Context, id string) error {
	return a.relation(ctx, id, "dejar-de-seguir")
}

func (a *EstablishmentAPI) relation(ctx context.Context, id, action string) error {
	if err := requireID("establishment", id); err != nil {
		return err
	}
	return a.c.doJSON(ctx, request{
		method: http.MethodPost,
		path:   "/establecimientos/" + escape(id) + "/" + action,
		route:  "/establecimientos/{id}/" + action,
	}, nil)
}

func (a *EstablishmentAPI) SetModerationState(ctx context.Context, id string, state entities.ModerationState) error {
	if err := requireID("establishment", id); err != nil {
		return err
	}
	if !state.Valid() {
		return apperrors.NewValidationError("unknown moderation state: " + string(state))
	}
	return a.c.doJSON(ctx, request{
		method: http.MethodPut,
		path:   "/establecimientos/" + escape(id) + "/estado",
		route:  "/establecimientos/{id}/estado",
		body:   map[string]string{"estado": string(state)},
	}, nil)
}

func (a *EstablishmentAPI) SetVerified(ctx context.Context, id string, verified bool) error {
	if err := requireID("establishment", id); err != nil {
		return err
	}
	return a.c.doJSON(ctx, request{
		method: http.MethodPut,
		path:   "/establecimientos/" + escape(id) + "/verificado",
		route:  "/establecimientos/{id}/verificado",
		body:   map[string]bool{"verificado": verified},
	}, nil)
}
