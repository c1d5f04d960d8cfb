package main

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/boulevard/internal/domain/entities"
	apperrors "github.com/zatekoja/boulevard/pkg/errors"
)

func TestParseSchedule(t *testing.T) {
	s, err := parseSchedule("lunes=08:00-18:30")
	require.NoError(t, err)
	assert.Equal(t, entities.Schedule{Day: "lunes", Opens: "08:00", Closes: "18:30"}, s)

	for _, bad := range []string{"lunes", "lunes=0800", ""} {
		_, err := parseSchedule(bad)
		assert.Error(t, err, bad)
	}
}

func TestDescribe(t *testing.T) {
	err := apperrors.NewValidationError("Please review your comment.", "calificacion must be at most 5")
	assert.Equal(t, "Please review your comment.\n  - calificacion must be at most 5", describe(fmt.Errorf("wrapped: %w", err)))

	assert.Equal(t, "interrupted", describe(context.Canceled))
	assert.Equal(t, "plain", describe(errors.New("plain")))
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Ana", displayName(entities.User{ID: "u1", Name: "Ana", Email: "a@x.mx"}))
	assert.Equal(t, "a@x.mx", displayName(entities.User{ID: "u1", Email: "a@x.mx"}))
	assert.Equal(t, "u1", displayName(entities.User{ID: "u1"}))
}
