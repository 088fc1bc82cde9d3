package main

import (
	"context"
	"fmt"

	"github.com/spf13/viper"

	"github.com/mbellec/bocage/internal/config"
	"github.com/mbellec/bocage/internal/engine"
	"github.com/mbellec/bocage/internal/postgrest"
	"github.com/mbellec/bocage/internal/service"
	"github.com/mbellec/bocage/internal/storage"
)

// backend bundles everything a command needs to talk to the campaign data.
type backend struct {
	store    service.Store
	identity service.Identity
	settings *config.Settings
}

func (b *backend) close() {
	_ = b.store.Close()
}

// openBackend builds the store and identity provider selected by the
// configuration.
func openBackend(ctx context.Context) (*backend, error) {
	settings, err := config.Load()
	if err != nil {
		return nil, err
	}

	switch settings.Backend {
	case config.BackendSQLite:
		store, err := storage.NewSQLiteStorage(settings.DatabasePath, settings.Limits)
		if err != nil {
			return nil, err
		}
		if err := store.Migrate(ctx); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		return &backend{
			store:    store,
			identity: &storage.LocalIdentity{Email: settings.ActorEmail},
			settings: settings,
		}, nil

	case config.BackendSupabase:
		auth, err := postgrest.NewAuthClient(settings.SupabaseURL, settings.SupabaseKey, settings.SessionPath)
		if err != nil {
			return nil, err
		}
		client, err := postgrest.NewClient(postgrest.Config{
			BaseURL: settings.SupabaseURL,
			APIKey:  settings.SupabaseKey,
			Limits:  settings.Limits,
		}, auth.TokenSource(ctx))
		if err != nil {
			return nil, err
		}
		return &backend{store: client, identity: auth, settings: settings}, nil
	}

	return nil, fmt.Errorf("unknown backend %q", settings.Backend)
}

// newCoordinator wires a coordinator with the configured reconciliation
// strategy.
func newCoordinator(b *backend) (*engine.Coordinator, error) {
	strategy := viper.GetString("engine.reconcile")

	var opts []engine.Option
	switch strategy {
	case "", "patch":
		// Default.
	case "revalidate":
		opts = append(opts, engine.WithReconciler(engine.RevalidateReconciler{}))
	default:
		return nil, fmt.Errorf("unknown reconcile strategy %q (want patch or revalidate)", strategy)
	}

	return engine.New(b.store, b.identity, opts...), nil
}

// loadSnapshot opens the backend, runs one load, and hands back the
// coordinator plus its published snapshot.
func loadSnapshot(ctx context.Context) (*backend, *engine.Coordinator, *engine.Snapshot, error) {
	b, err := openBackend(ctx)
	if err != nil {
		return nil, nil, nil, err
	}

	coordinator, err := newCoordinator(b)
	if err != nil {
		b.close()
		return nil, nil, nil, err
	}

	snap, err := coordinator.Load(ctx, false)
	if err != nil {
		b.close()
		return nil, nil, nil, err
	}
	return b, coordinator, snap, nil
}
