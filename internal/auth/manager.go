// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package auth

import (
	"context"
	"errors"
	"sync"

	"portal/cli/internal/backend"
	perrors "portal/cli/internal/errors"
	"portal/cli/internal/logging"
	"portal/cli/internal/session"
	"portal/cli/internal/token"
)

// Manager owns the session state and the operations that change it.
// It is safe for concurrent use; events are applied in the order they are
// dispatched, so the last one wins.
type Manager struct {
	api    backend.API
	keeper *session.Keeper
	store  CredentialStore
	notify Notifier
	nav    Navigator
	log    *logging.Logger

	mu    sync.Mutex
	state State

	subsMu sync.Mutex
	subs   map[int]func(State)
	nextID int
}

// Option customizes a Manager.
type Option func(*Manager)

// WithNotifier sets where user-visible messages go.
func WithNotifier(n Notifier) Option { return func(m *Manager) { m.notify = n } }

// WithNavigator sets the navigation target.
func WithNavigator(n Navigator) Option { return func(m *Manager) { m.nav = n } }

// WithLogger sets the manager's logger.
func WithLogger(l *logging.Logger) Option { return func(m *Manager) { m.log = l } }

// NewManager creates a Manager in the initial state (not initialized, not
// authenticated) and takes over keeper's expiry hook.
func NewManager(api backend.API, keeper *session.Keeper, store CredentialStore, opts ...Option) *Manager {
	m := &Manager{
		api:    api,
		keeper: keeper,
		store:  store,
		nav:    nopNavigator{},
		log:    logging.Discard(),
		subs:   map[int]func(State){},
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.notify == nil {
		m.notify = logNotifier{log: m.log}
	}
	keeper.OnExpire(m.expired)
	return m
}

// State returns a snapshot of the current state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.clone()
}

func (m *Manager) IsInitialized() bool   { return m.State().Initialized }
func (m *Manager) IsAuthenticated() bool { return m.State().Authenticated }

// User returns a copy of the signed-in user, or nil.
func (m *Manager) User() *User { return m.State().User }

// Subscribe registers fn to receive every new state. The returned function
// removes the subscription. fn runs on the goroutine that caused the change.
func (m *Manager) Subscribe(fn func(State)) (unsubscribe func()) {
	m.subsMu.Lock()
	defer m.subsMu.Unlock()
	id := m.nextID
	m.nextID++
	m.subs[id] = fn
	return func() {
		m.subsMu.Lock()
		defer m.subsMu.Unlock()
		delete(m.subs, id)
	}
}

// Dispatch applies ev and notifies subscribers.
func (m *Manager) Dispatch(ev Event) State {
	m.mu.Lock()
	m.state = Reduce(m.state, ev)
	snap := m.state.clone()
	m.mu.Unlock()

	m.subsMu.Lock()
	fns := make([]func(State), 0, len(m.subs))
	for _, fn := range m.subs {
		fns = append(fns, fn)
	}
	m.subsMu.Unlock()

	m.log.Debug("session state", "event", eventName(ev), "initialized", snap.Initialized, "authenticated", snap.Authenticated)
	for _, fn := range fns {
		fn(snap.clone())
	}
	return snap
}

// Initialize rebuilds the session from the persisted token. A missing, malformed
// or expired token, or a failed profile fetch, ends in the unauthenticated state;
// none of them is reported as an error.
func (m *Manager) Initialize(ctx context.Context) State {
	tok, err := m.store.LoadAccessToken()
	if err != nil {
		m.log.Debug("no persisted access token", "reason", err.Error())
		return m.Dispatch(Initial{})
	}
	if err := token.Check(tok, m.keeper.Now()); err != nil {
		m.log.WithError(err).Debug("persisted access token rejected")
		return m.Dispatch(Initial{})
	}

	if err := m.keeper.Set(tok); err != nil {
		m.log.WithError(err).Warn("could not install access token")
		return m.Dispatch(Initial{})
	}

	profile, err := m.api.GetMe(ctx)
	if err != nil {
		// The token stays persisted so the next start can retry.
		m.keeper.Detach()
		m.log.WithError(err).Warn("fetch current user failed")
		return m.Dispatch(Initial{})
	}

	claims, _ := token.Decode(tok)
	user := mergeProfile(userFromClaims(claims), profile)
	return m.Dispatch(Initial{Authenticated: true, User: &user})
}

// Login authenticates against the API, installs the returned token and moves
// to the home view. On failure the user is notified, the state is left as it
// was, and the error is returned.
//
// The login payload already carries the profile, so the bootstrap phase that
// LoggedIn reopens is closed right away with that user instead of fetching it
// again.
func (m *Manager) Login(ctx context.Context, email, password string) error {
	resp, err := m.api.Login(ctx, email, password)
	if err != nil {
		m.notify.Error("Error logging in", err)
		return err
	}
	if err := m.keeper.Set(resp.AccessToken); err != nil {
		m.notify.Error("Error logging in", err)
		return err
	}

	user := userFromProfile(resp.User)
	m.log.Info("logged in", "user_id", user.ID)
	m.Dispatch(LoggedIn{User: &user})
	m.Dispatch(Initial{Authenticated: true, User: &user})
	m.nav.Navigate(PathHome)
	return nil
}

// Logout clears the admin-view flag and the credential and drops the user.
// The state always ends unauthenticated; storage errors are returned after that.
func (m *Manager) Logout() error {
	errAdmin := m.store.ClearAdminView()
	errCred := m.keeper.Set("")
	m.Dispatch(LoggedOut{})
	return errors.Join(errAdmin, errCred)
}

// SetAdminView toggles the persisted admin-view flag of a signed-in super admin.
func (m *Manager) SetAdminView(on bool) error {
	u := m.User()
	if u == nil {
		return perrors.New(perrors.Misuse, "admin view requires a signed-in user")
	}
	if on && !u.IsSuperAdmin {
		return perrors.New(perrors.Misuse, "admin view is only available to super admins")
	}
	return m.store.SetAdminView(on)
}

// AdminView reports the persisted admin-view flag.
func (m *Manager) AdminView() bool { return m.store.AdminView() }

// Close cancels the pending expiry. The persisted credential is untouched.
func (m *Manager) Close() { m.keeper.Stop() }

// expired runs after the keeper has cleared an expired credential.
func (m *Manager) expired() {
	m.Dispatch(LoggedOut{})
	m.notify.Error("token expired", nil)
	m.nav.Navigate(PathLogin)
}

func eventName(ev Event) string {
	switch ev.(type) {
	case Initial:
		return "INITIAL"
	case LoggedIn:
		return "LOGIN"
	case LoggedOut:
		return "LOGOUT"
	}
	return "UNKNOWN"
}
