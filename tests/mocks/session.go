package mocks

import (
	"context"

	"github.com/zatekoja/boulevard/internal/domain/entities"
	apperrors "github.com/zatekoja/boulevard/pkg/errors"
)

// Session is a fixed SessionProvider. A zero value is logged out; a non-nil Err
// is returned from Current as is.
type Session struct {
	AccessToken string
	User        entities.User
	Err         error
}

// LoggedIn returns a session for userID
func LoggedIn(userID string) *Session {
	return &Session{AccessToken: "token-" + userID, User: entities.User{ID: userID, Name: userID}}
}

// Admin returns an administrator session for userID
func Admin(userID string) *Session {
	s := LoggedIn(userID)
	s.User.RawRole = "admin"
	return s
}

func (s *Session) Current(ctx context.Context) (*entities.Session, error) {
	if s != nil && s.Err != nil {
		return nil, s.Err
	}
	if s == nil || s.AccessToken == "" {
		return nil, apperrors.NewUnauthenticatedError("You must log in to do that.")
	}
	return &entities.Session{Token: s.AccessToken, User: s.User}, nil
}

func (s *Session) Token(ctx context.Context) string {
	if s == nil {
		return ""
	}
	return s.AccessToken
}
