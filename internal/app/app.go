// Package app wires the client core from configuration: snapshot backend,
// API client, notification bus, session store and services.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/smartfarming/farm-client/internal/core/fetcher"
	"github.com/smartfarming/farm-client/internal/core/notify"
	"github.com/smartfarming/farm-client/internal/core/ports"
	"github.com/smartfarming/farm-client/internal/core/service"
	"github.com/smartfarming/farm-client/internal/infrastructure/config"
	"github.com/smartfarming/farm-client/internal/infrastructure/db/file"
	"github.com/smartfarming/farm-client/internal/infrastructure/db/memory"
	mongostore "github.com/smartfarming/farm-client/internal/infrastructure/db/mongo"
	redisstore "github.com/smartfarming/farm-client/internal/infrastructure/db/redis"
	"github.com/smartfarming/farm-client/internal/infrastructure/http/apiclient"
	"github.com/smartfarming/farm-client/internal/infrastructure/sealer"
)

type App struct {
	Config    *config.Config
	Log       zerolog.Logger
	Client    *apiclient.Client
	Bus       *notify.Bus
	Snapshots ports.SnapshotStore
	Session   *service.SessionStore
	Auth      *service.AuthService
	Cart      *service.CartService

	closers []func(context.Context) error
}

// New builds the application. The session store is not initialized; call
// Start before mounting views.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*App, error) {
	a := &App{Config: cfg, Log: log}

	snapshots, err := a.openSnapshots(ctx)
	if err != nil {
		_ = a.Close(ctx)
		return nil, err
	}
	a.Snapshots = snapshots

	a.Client = apiclient.New(cfg.APIURL,
		apiclient.WithTimeout(cfg.RequestTimeout),
		apiclient.WithLogger(log),
	)
	a.Bus = notify.NewBus(log)
	a.Session = service.NewSessionStore(a.Snapshots, a.Client, a.Bus, log)
	a.Auth = service.NewAuthService(a.Client, a.Session, log)
	a.Cart = service.NewCartService(a.Client, a.Bus, log)
	return a, nil
}

// Start restores the persisted session.
func (a *App) Start(ctx context.Context) {
	a.Session.Initialize(ctx)
}

// FetchOptions are the fetcher options every view is built with.
func (a *App) FetchOptions() []fetcher.Option {
	return []fetcher.Option{fetcher.WithTimeout(a.Config.RequestTimeout)}
}

// Pinger returns the snapshot backend's health check, if it has one.
func (a *App) Pinger() ports.Pinger {
	if p, ok := a.Snapshots.(ports.Pinger); ok {
		return p
	}
	return nil
}

// Close releases backend connections.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *App) openSnapshots(ctx context.Context) (ports.SnapshotStore, error) {
	cfg := a.Config
	var store ports.SnapshotStore

	switch cfg.Snapshot.Backend {
	case config.BackendFile:
		fs, err := file.NewSnapshotStore(cfg.SnapshotDir())
		if err != nil {
			return nil, err
		}
		store = fs
	case config.BackendRedis:
		client, err := redisstore.Connect(ctx, redisstore.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			return nil, fmt.Errorf("snapshot backend: %w", err)
		}
		a.closers = append(a.closers, func(context.Context) error { return client.Close() })
		store = redisstore.NewSnapshotStore(client)
	case config.BackendMongo:
		client, db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, fmt.Errorf("snapshot backend: %w", err)
		}
		a.closers = append(a.closers, client.Disconnect)
		store = mongostore.NewSnapshotStore(client, db)
	case config.BackendMemory:
		store = memory.NewSnapshotStore()
	default:
		return nil, fmt.Errorf("snapshot backend: unknown %q", cfg.Snapshot.Backend)
	}

	if cfg.Snapshot.Key != "" {
		key, err := sealer.ParseKey(cfg.Snapshot.Key)
		if err != nil {
			return nil, fmt.Errorf("snapshot backend: %w", err)
		}
		store = sealer.New(store, key)
	}

	a.Log.Debug().Str("backend", cfg.Snapshot.Backend).Bool("sealed", cfg.Snapshot.Key != "").Msg("snapshot backend ready")
	return store, nil
}
