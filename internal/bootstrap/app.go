package bootstrap

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/mediwound/wardview/config"
	"github.com/mediwound/wardview/internal/adapters/filestore"
	"github.com/mediwound/wardview/internal/adapters/memstore"
	"github.com/mediwound/wardview/internal/adapters/redisstore"
	"github.com/mediwound/wardview/internal/adapters/restapi"
	"github.com/mediwound/wardview/internal/api"
	"github.com/mediwound/wardview/internal/console"
	"github.com/mediwound/wardview/internal/observability/statsd"
	"github.com/mediwound/wardview/internal/ports"
	"github.com/mediwound/wardview/internal/service"
)

// App bundles the wired application graph.
type App struct {
	Config config.AppConfig
	Logger *slog.Logger
	Auth   *service.AuthService
	Client *api.Client
	Shell  *console.Shell
}

// NewPersistentStore builds the persistent-scope state store selected by
// configuration. The returned closer is nil for the file backend.
func NewPersistentStore(cfg config.StateConfig) (ports.StateStore, io.Closer, error) {
	switch cfg.Backend {
	case config.StateBackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		return redisstore.New(client, cfg.Redis.KeyPrefix), client, nil
	default:
		store, err := filestore.New(cfg.Dir)
		if err != nil {
			return nil, nil, fmt.Errorf("open state dir %s: %w", cfg.Dir, err)
		}
		return store, nil, nil
	}
}

// NewVault builds the two-scope vault: the configured persistent store
// plus an in-memory session scope that dies with the process.
func NewVault(cfg config.StateConfig) (*service.Vault, io.Closer, error) {
	persistent, closer, err := NewPersistentStore(cfg)
	if err != nil {
		return nil, nil, err
	}
	return service.NewVault(persistent, memstore.New()), closer, nil
}

// closers closes a set of resources in reverse order of acquisition.
type closers []io.Closer

func (cs closers) Close() error {
	var firstErr error
	for i := len(cs) - 1; i >= 0; i-- {
		if err := cs[i].Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// NewMetricsSink builds the StatsD sink, or a noop when disabled.
func NewMetricsSink(cfg config.MetricsConfig, logger *slog.Logger) (statsd.Sink, io.Closer, error) {
	if !cfg.Enabled {
		return statsd.Noop{}, nil, nil
	}
	client, err := statsd.NewClient(statsd.Config{
		Address: cfg.Address,
		Prefix:  cfg.Prefix,
		Logger:  logger,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("build metrics sink: %w", err)
	}
	return client, client, nil
}

// BuildApp wires the full interactive application: vault, auth service,
// api client, and shell, reading from in and rendering to out.
func BuildApp(cfg config.AppConfig, logger *slog.Logger, in io.Reader, out io.Writer) (*App, io.Closer, error) {
	var toClose closers

	vault, storeCloser, err := NewVault(cfg.State)
	if err != nil {
		return nil, nil, err
	}
	if storeCloser != nil {
		toClose = append(toClose, storeCloser)
	}

	metrics, metricsCloser, err := NewMetricsSink(cfg.Metrics, logger)
	if err != nil {
		_ = toClose.Close()
		return nil, nil, err
	}
	if metricsCloser != nil {
		toClose = append(toClose, metricsCloser)
	}

	backend, err := restapi.New(restapi.Config{
		BaseURL:   cfg.API.BaseURL,
		UserAgent: cfg.API.UserAgent,
	})
	if err != nil {
		_ = toClose.Close()
		return nil, nil, fmt.Errorf("build auth backend: %w", err)
	}

	auth := service.NewAuthService(service.AuthServiceOptions{
		Backend: backend,
		Vault:   vault,
		Logger:  logger,
	})

	// The expiry callback reaches the shell through this indirection
	// because the shell needs the client to exist first.
	var shell *console.Shell
	client, err := api.NewClient(api.Options{
		BaseURL:     cfg.API.BaseURL,
		UserAgent:   cfg.API.UserAgent,
		Timeout:     cfg.API.Timeout,
		RefreshSkew: cfg.API.RefreshSkew,
		Session:     auth,
		Logger:      logger,
		Metrics:     metrics,
		OnSessionExpired: func() {
			if shell != nil {
				shell.NotifySessionExpired()
			}
		},
	})
	if err != nil {
		_ = toClose.Close()
		return nil, nil, fmt.Errorf("build api client: %w", err)
	}

	shell = console.NewShell(console.ShellOptions{
		Auth:   auth,
		Client: client,
		Pages:  console.NewPages(client),
		Logger: logger,
		In:     in,
		Out:    out,
	})

	app := &App{
		Config: cfg,
		Logger: logger,
		Auth:   auth,
		Client: client,
		Shell:  shell,
	}
	if len(toClose) == 0 {
		return app, nil, nil
	}
	return app, toClose, nil
}

// Run executes the interactive shell until exit.
func (a *App) Run(ctx context.Context) error {
	return a.Shell.Run(ctx)
}
