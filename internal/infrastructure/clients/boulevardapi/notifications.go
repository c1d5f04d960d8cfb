package boulevardapi

import (
	"context"
	"net/http"

	"github.com/zatekoja/boulevard/internal/domain/entities"
)

// NotificationAPI implements repositories.NotificationRepository over HTTP
type NotificationAPI struct {
	c *HTTPClient
}

func (a *NotificationAPI) List(ctx context.Context) ([]entities.Notification, error) {
	var out []entities.Notification
	err := a.c.doJSON(ctx, request{method: http.MethodGet, path: "/notificaciones", route: "/notificaciones"}, &out)
	return out, err
}

func (a *NotificationAPI) MarkRead(ctx context.Context, id string, read bool) error {
	if err := requireID("notification", id); err != nil {
		return err
	}
	return a.c.doJSON(ctx, request{
		method: http.MethodPatch,
		path:   "/notificaciones/" + escape(id),
		route:  "/notificaciones/{id}",
		body:   map[string]bool{"leida": read},
	}, nil)
}

func (a *NotificationAPI) MarkAllRead(ctx context.Context) error {
	return a.c.doJSON(ctx, request{
		method: http.MethodPatch,
		path:   "/notificaciones/leer-todas",
		route:  "/notificaciones/leer-todas",
	}, nil)
}

func (a *NotificationAPI) Delete(ctx context.Context, id string) error {
	if err := requireID("notification", id); err != nil {
		return err
	}
	return a.c.doJSON(ctx, request{
		method: http.MethodDelete,
		path:   "/notificaciones/" + escape(id),
		route:  "/notificaciones/{id}",
	}, nil)
}
