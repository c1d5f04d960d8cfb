package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/zatekoja/boulevard/internal/domain/entities"
	"github.com/zatekoja/boulevard/internal/domain/providers"
	"github.com/zatekoja/boulevard/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/boulevard/pkg/errors"
)

// SessionService reads and writes the bearer token and user object.
// Only Login and Logout write; every other caller treats the session as read-only.
type SessionService struct {
	store providers.KeyValueStore
	now   func() time.Time
}

// NewSessionService creates a session service over the given store
func NewSessionService(store providers.KeyValueStore) *SessionService {
	return &SessionService{
		store: store,
		now:   time.Now,
	}
}

// Login persists the token and user returned by the backend's login endpoint
func (s *SessionService) Login(ctx context.Context, token string, user entities.User) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return apperrors.NewValidationError("token is required")
	}
	if user.ID == "" {
		return apperrors.NewValidationError("user id is required")
	}

	data, err := json.Marshal(user)
	if err != nil {
		return apperrors.NewInternalError("failed to encode user", err)
	}
	if err := s.store.Set(ctx, providers.KeyToken, token); err != nil {
		return err
	}
	if err := s.store.Set(ctx, providers.KeyUser, string(data)); err != nil {
		return err
	}
	observability.LoggerFromContext(ctx).Info().Str("user_id", user.ID).Msg("session stored")
	return nil
}

// Logout clears the stored session
func (s *SessionService) Logout(ctx context.Context) error {
	return errors.Join(
		s.store.Delete(ctx, providers.KeyToken),
		s.store.Delete(ctx, providers.KeyUser),
	)
}

// Current returns the stored session, failing with Unauthenticated when there is
// no token, the user object is missing, or the token is a JWT past its expiry.
func (s *SessionService) Current(ctx context.Context) (*entities.Session, error) {
	token, err := s.store.Get(ctx, providers.KeyToken)
	if errors.Is(err, providers.ErrKeyNotFound) || (err == nil && strings.TrimSpace(token) == "") {
		return nil, apperrors.NewUnauthenticatedError("You must log in to do that.")
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to read session", err)
	}

	if expired, at := s.tokenExpired(token); expired {
		observability.LoggerFromContext(ctx).Debug().Time("expired_at", at).Msg("stored token is expired")
		return nil, apperrors.NewUnauthenticatedError("Your session has expired. Please log in again.")
	}

	raw, err := s.store.Get(ctx, providers.KeyUser)
	if errors.Is(err, providers.ErrKeyNotFound) {
		return nil, apperrors.NewUnauthenticatedError("You must log in to do that.")
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to read session", err)
	}

	var user entities.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil || user.ID == "" {
		observability.LoggerFromContext(ctx).Warn().Err(err).Msg("stored user object is unreadable")
		return nil, apperrors.NewUnauthenticatedError("You must log in to do that.")
	}

	return &entities.Session{Token: token, User: user}, nil
}

// Token implements boulevardapi.TokenSource. Expired or unreadable sessions yield "".
func (s *SessionService) Token(ctx context.Context) string {
	session, err := s.Current(ctx)
	if err != nil {
		return ""
	}
	return session.Token
}

// tokenExpired inspects the exp claim without verifying the signature; the
// backend remains the authority. Opaque non-JWT tokens never expire client-side.
func (s *SessionService) tokenExpired(token string) (bool, time.Time) {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false, time.Time{}
	}
	if claims.ExpiresAt == nil {
		return false, time.Time{}
	}
	exp := claims.ExpiresAt.Time
	return !s.now().Before(exp), exp
}

// String implements fmt.Stringer for debugging without leaking the token
func (s *SessionService) String() string {
	return fmt.Sprintf("SessionService{store: %T}", s.store)
}
