package providers

import (
	"context"

	"github.com/zatekoja/boulevard/internal/domain/entities"
)

// SessionProvider exposes the authenticated identity to the rest of the client
type SessionProvider interface {
	// Current returns the session, or an Unauthenticated error when no valid token is stored
	Current(ctx context.Context) (*entities.Session, error)

	// Token returns the bearer token to attach to requests, or "" when none is usable
	Token(ctx context.Context) string
}
