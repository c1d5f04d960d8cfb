package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/zatekoja/boulevard/internal/adapters/notify"
	"github.com/zatekoja/boulevard/internal/adapters/storage"
	"github.com/zatekoja/boulevard/internal/application/optimistic"
	"github.com/zatekoja/boulevard/internal/application/services"
	"github.com/zatekoja/boulevard/internal/application/views"
	"github.com/zatekoja/boulevard/internal/domain/entities"
	"github.com/zatekoja/boulevard/internal/domain/providers"
	"github.com/zatekoja/boulevard/internal/infrastructure/clients/boulevardapi"
	"github.com/zatekoja/boulevard/internal/infrastructure/clients/redis"
	"github.com/zatekoja/boulevard/internal/infrastructure/observability"
	"github.com/zatekoja/boulevard/pkg/config"
	apperrors "github.com/zatekoja/boulevard/pkg/errors"
)

// app wires configuration, storage, the backend client and the views for one invocation
type app struct {
	cfg     *config.Config
	store   providers.KeyValueStore
	session *services.SessionService
	prompt  *services.InstallPrompt
	client  *boulevardapi.HTTPClient
	deps    views.Deps

	closeOnce sync.Once
	closers   []func(context.Context) error
}

func newApp(ctx context.Context, errOut io.Writer) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	observability.InitLoggerTo(errOut, cfg.OTEL.ServiceName, cfg.App.Env)
	if cfg.App.Env == "development" {
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	}
	logger := observability.GetLogger()

	a := &app{cfg: cfg}

	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to set up OpenTelemetry")
		} else {
			a.closers = append(a.closers, shutdown)
		}
	}
	metrics := observability.DefaultMetrics()

	switch cfg.Session.Store {
	case "redis":
		rc, err := redis.NewClient(ctx, &cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("failed to connect session store: %w", err)
		}
		a.closers = append(a.closers, func(context.Context) error { return rc.Close() })
		a.store = storage.NewRedisStore(rc, cfg.Session.KeyPrefix)
	default:
		a.store = storage.NewMemoryStore()
		logger.Debug().Msg("using in-memory session store, session ends with the process")
	}

	a.session = services.NewSessionService(a.store)
	if cfg.Session.SeedToken != "" {
		if err := a.seedSession(ctx); err != nil {
			return nil, err
		}
	}
	a.prompt = services.NewInstallPrompt(a.store)
	a.client = boulevardapi.NewClient(cfg.API.BaseURL, a.session,
		boulevardapi.WithTimeout(cfg.API.Timeout),
		boulevardapi.WithMetrics(metrics),
	)

	var notifier providers.Notifier = notify.NewWriterNotifier(errOut)
	if cfg.App.Env != "development" {
		notifier = notify.NewLogNotifier(logger)
	}

	a.deps = views.Deps{
		Establishments:    a.client.Establishments(),
		Comments:          a.client.Comments(),
		Notifications:     a.client.Notifications(),
		Chat:              a.client.Chat(),
		Session:           a.session,
		Notifier:          notifier,
		Registry:          optimistic.NewRegistry(),
		Metrics:           metrics,
		Validator:         services.NewValidator(),
		PageSize:          cfg.Views.PageSize,
		LoadRetryAttempts: cfg.Views.LoadRetryAttempts,
	}
	return a, nil
}

func (a *app) seedSession(ctx context.Context) error {
	var user entities.User
	if a.cfg.Session.SeedUser != "" {
		if err := json.Unmarshal([]byte(a.cfg.Session.SeedUser), &user); err != nil {
			return fmt.Errorf("invalid BOULEVARD_USER: %w", err)
		}
	}
	if user.ID == "" {
		return fmt.Errorf("BOULEVARD_USER must carry the user id when BOULEVARD_TOKEN is set")
	}
	return a.session.Login(ctx, a.cfg.Session.SeedToken, user)
}

// scope opens a view lifetime bound to ctx
func (a *app) scope(ctx context.Context) *views.Scope {
	return views.NewScope(ctx)
}

// Close releases the session store and flushes telemetry
func (a *app) Close(ctx context.Context) error {
	var err error
	a.closeOnce.Do(func() {
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		for i := len(a.closers) - 1; i >= 0; i-- {
			err = errors.Join(err, a.closers[i](ctx))
		}
	})
	return err
}

// describe renders an error for the terminal without technical detail
func describe(err error) string {
	if apiErr, ok := apperrors.As(err); ok {
		msg := apiErr.UserMessage()
		for _, d := range apiErr.Details {
			msg += "\n  - " + d
		}
		return msg
	}
	if errors.Is(err, context.Canceled) {
		return "interrupted"
	}
	return err.Error()
}
