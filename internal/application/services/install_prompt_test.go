package services

import (
	"bytes"
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/boulevard/internal/adapters/storage"
	"github.com/zatekoja/boulevard/internal/domain/providers"
	"github.com/zatekoja/boulevard/internal/infrastructure/observability"
)

func TestInstallPrompt(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC)

	t.Run("fresh store prompts", func(t *testing.T) {
		p := NewInstallPrompt(storage.NewMemoryStore())
		assert.True(t, p.ShouldPrompt(ctx, now))
	})

	t.Run("recent dismissal hides prompt", func(t *testing.T) {
		p := NewInstallPrompt(storage.NewMemoryStore())
		require.NoError(t, p.Dismiss(ctx, now.Add(-6*24*time.Hour)))
		assert.False(t, p.ShouldPrompt(ctx, now))
	})

	t.Run("old dismissal is cleared", func(t *testing.T) {
		store := storage.NewMemoryStore()
		p := NewInstallPrompt(store)
		require.NoError(t, p.Dismiss(ctx, now.Add(-8*24*time.Hour)))

		assert.True(t, p.ShouldPrompt(ctx, now))
		_, err := store.Get(ctx, providers.KeyInstallPromptDismissedAt)
		assert.ErrorIs(t, err, providers.ErrKeyNotFound)
	})

	t.Run("installed never prompts", func(t *testing.T) {
		p := NewInstallPrompt(storage.NewMemoryStore())
		require.NoError(t, p.MarkInstalled(ctx))
		assert.False(t, p.ShouldPrompt(ctx, now))
	})

	t.Run("garbage timestamp is cleared", func(t *testing.T) {
		store := storage.NewMemoryStore()
		require.NoError(t, store.Set(ctx, providers.KeyInstallPromptDismissedAt, "yesterday"))
		assert.True(t, NewInstallPrompt(store).ShouldPrompt(ctx, now))
	})

	t.Run("stored as unix millis", func(t *testing.T) {
		store := storage.NewMemoryStore()
		require.NoError(t, NewInstallPrompt(store).Dismiss(ctx, now))
		v, err := store.Get(ctx, providers.KeyInstallPromptDismissedAt)
		require.NoError(t, err)
		assert.Equal(t, strconv.FormatInt(now.UnixMilli(), 10), v)
	})
}

type failingDeleteStore struct {
	providers.KeyValueStore
}

func (s failingDeleteStore) Delete(ctx context.Context, key string) error {
	return errors.New("redis: connection reset")
}

func TestInstallPrompt_LogsFailedDismissalCleanup(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC)

	previous := log.Logger
	t.Cleanup(func() { log.Logger = previous })
	var buf bytes.Buffer
	observability.InitLoggerTo(&buf, "test", "production")

	store := storage.NewMemoryStore()
	require.NoError(t, store.Set(ctx, providers.KeyInstallPromptDismissedAt, strconv.FormatInt(now.Add(-8*24*time.Hour).UnixMilli(), 10)))

	assert.True(t, NewInstallPrompt(failingDeleteStore{store}).ShouldPrompt(ctx, now))
	assert.Contains(t, buf.String(), `"level":"warn"`)
	assert.Contains(t, buf.String(), "connection reset")
	assert.Contains(t, buf.String(), "failed to clear install prompt dismissal")
}
