package services

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/zatekoja/boulevard/internal/domain/providers"
	"github.com/zatekoja/boulevard/internal/infrastructure/observability"
)

// InstallPromptCooldown is how long a dismissed install prompt stays hidden
const InstallPromptCooldown = 7 * 24 * time.Hour

// InstallPrompt decides whether to offer installing the app
type InstallPrompt struct {
	store providers.KeyValueStore
}

// NewInstallPrompt creates an install prompt service
func NewInstallPrompt(store providers.KeyValueStore) *InstallPrompt {
	return &InstallPrompt{store: store}
}

// ShouldPrompt returns false once installed, or while a dismissal is within the cooldown.
// Dismissals older than the cooldown are cleared.
func (p *InstallPrompt) ShouldPrompt(ctx context.Context, now time.Time) bool {
	installed, err := p.store.Get(ctx, providers.KeyInstallPromptInstalled)
	if err == nil && installed == "true" {
		return false
	}

	raw, err := p.store.Get(ctx, providers.KeyInstallPromptDismissedAt)
	if errors.Is(err, providers.ErrKeyNotFound) {
		return true
	}
	if err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Msg("failed to read install prompt state")
		return false
	}

	ms, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		p.clearDismissal(ctx)
		return true
	}
	if now.Sub(time.UnixMilli(ms)) < InstallPromptCooldown {
		return false
	}
	p.clearDismissal(ctx)
	return true
}

func (p *InstallPrompt) clearDismissal(ctx context.Context) {
	if err := p.store.Delete(ctx, providers.KeyInstallPromptDismissedAt); err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Msg("failed to clear install prompt dismissal")
	}
}

// Dismiss hides the prompt for the cooldown period
func (p *InstallPrompt) Dismiss(ctx context.Context, now time.Time) error {
	return p.store.Set(ctx, providers.KeyInstallPromptDismissedAt, strconv.FormatInt(now.UnixMilli(), 10))
}

// MarkInstalled hides the prompt permanently
func (p *InstallPrompt) MarkInstalled(ctx context.Context) error {
	return p.store.Set(ctx, providers.KeyInstallPromptInstalled, "true")
}
