// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"portal/cli/internal/auth"
	"portal/cli/internal/backend"
	"portal/cli/internal/config"
	"portal/cli/internal/keychain"
	"portal/cli/internal/logging"
	"portal/cli/internal/session"
	"portal/cli/internal/ui"
)

// Annotation values for annSession on a command.
const (
	annSession = "portal/session"
	// sessionNone: the command never touches stored credentials.
	sessionNone = "none"
	// sessionLazy: credentials are opened but Initialize is not run.
	sessionLazy = "lazy"
)

// app is everything a command needs, built once per invocation.
type app struct {
	cfg    config.Config
	log    *logging.Logger
	api    *backend.HTTP
	notify *ui.Notifier
	nav    *ui.Navigator

	// Set only for commands that use the session.
	store  *keychain.Manager
	keeper *session.Keeper
	auth   *auth.Manager
}

func newApp(cfg config.Config) *app {
	log := logging.New(logging.Options{Level: cfg.LogLevel, Format: logging.Format(cfg.LogFormat)})
	return &app{
		cfg:    cfg,
		log:    log,
		api:    backend.New(cfg.APIURL, cfg.Endpoints, cfg.Timeout(), backend.WithLogger(log), backend.WithUserAgent("portal-cli/"+Version)),
		notify: ui.NewNotifier(log),
		nav:    ui.NewNavigator(),
	}
}

// openSession opens the credential store and wires the session manager.
func (a *app) openSession(ctx context.Context) error {
	store, err := keychain.Open(ctx, a.cfg)
	if err != nil {
		return err
	}
	a.store = store
	a.keeper = session.NewKeeper(store, a.api, session.WithLogger(a.log))
	a.auth = auth.NewManager(a.api, a.keeper, store,
		auth.WithNotifier(a.notify),
		auth.WithNavigator(a.nav),
		auth.WithLogger(a.log),
	)
	return nil
}

// initialize restores the persisted session behind a loading spinner.
func (a *app) initialize(ctx context.Context) auth.State {
	ctx, cancel := context.WithTimeout(ctx, a.cfg.Timeout())
	defer cancel()
	return ui.WhileLoading("Loading session", func() auth.State {
		return a.auth.Initialize(ctx)
	})
}

// Close stops the expiry timer and releases the store. Credentials stay persisted.
func (a *app) Close() {
	if a == nil {
		return
	}
	if a.auth != nil {
		a.auth.Close()
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.log.WithError(err).Debug("close credential store")
		}
	}
}

type appKey struct{}

func withApp(ctx context.Context, a *app) context.Context {
	return context.WithValue(ctx, appKey{}, a)
}

func appFrom(cmd *cobra.Command) *app {
	a, _ := cmd.Context().Value(appKey{}).(*app)
	return a
}
