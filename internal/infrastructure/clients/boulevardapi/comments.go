package boulevardapi

import (
	"context"
	"net/http"

	"github.com/zatekoja/boulevard/internal/domain/entities"
	apperrors "github.com/zatekoja/boulevard/pkg/errors"
)

// CommentAPI implements repositories.CommentRepository over HTTP
type CommentAPI struct {
	c *HTTPClient
}

func (a *CommentAPI) ListByEstablishment(ctx context.Context, establishmentID string) ([]entities.Comment, error) {
	if err := requireID("establishment", establishmentID); err != nil {
		return nil, err
	}
	var out []entities.Comment
	err := a.c.doJSON(ctx, request{
		method: http.MethodGet,
		path:   "/comentarios/establecimiento/" + escape(establishmentID),
		route:  "/comentarios/establecimiento/{id}",
	}, &out)
	return out, err
}

func (a *CommentAPI) Create(ctx context.Context, input *entities.CommentInput) (*entities.Comment, error) {
	if input == nil {
		return nil, apperrors.NewValidationError("comment is required")
	}
	out := &entities.Comment{}
	if err := a.c.doJSON(ctx, request{
		method: http.MethodPost,
		path:   "/comentarios",
		route:  "/comentarios",
		body:   input,
	}, out); err != nil {
		return nil, err
	}
	if out.Establishment.ID == "" {
		out.Establishment = entities.Ref{ID: input.EstablishmentID}
	}
	return out, nil
}

func (a *CommentAPI) Update(ctx context.Context, id string, input *entities.CommentInput) (*entities.Comment, error) {
	if err := requireID("comment", id); err != nil {
		return nil, err
	}
	if input == nil {
		return nil, apperrors.NewValidationError("comment is required")
	}
	out := &entities.Comment{}
	if err := a.c.doJSON(ctx, request{
		method: http.MethodPatch,
		path:   "/comentarios/" + escape(id),
		route:  "/comentarios/{id}",
		body:   input,
	}, out); err != nil {
		return nil, err
	}
	if out.Establishment.ID == "" {
		out.Establishment = entities.Ref{ID: input.EstablishmentID}
	}
	return out, nil
}

func (a *CommentAPI) Delete(ctx context.Context, id string) error {
	if err := requireID("comment", id); err != nil {
		return err
	}
	return a.c.doJSON(ctx, request{
		method: http.MethodDelete,
		path:   "/comentarios/" + escape(id),
		route:  "/comentarios/{id}",
	}, nil)
}
