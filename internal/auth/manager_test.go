// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package auth

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/99designs/keyring"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portal/cli/internal/backend"
	"portal/cli/internal/config"
	perrors "portal/cli/internal/errors"
	"portal/cli/internal/keychain"
	"portal/cli/internal/session"
	"portal/cli/internal/session/sessiontest"
)

var start = time.Unix(1_760_000_000, 0)

// fakeAPI answers login and me from fixed values and counts calls.
type fakeAPI struct {
	mu       sync.Mutex
	login    backend.LoginResponse
	loginErr error
	me       backend.Profile
	meErr    error
	meCalls  int
}

func (f *fakeAPI) Login(ctx context.Context, email, password string) (backend.LoginResponse, error) {
	return f.login, f.loginErr
}

func (f *fakeAPI) GetMe(ctx context.Context) (backend.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.meCalls++
	return f.me, f.meErr
}

func (f *fakeAPI) GetVersion(ctx context.Context) (string, error) { return "test", nil }

func (f *fakeAPI) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.meCalls
}

type recorder struct {
	mu     sync.Mutex
	errors []string
	infos  []string
	paths  []string
}

func (r *recorder) Error(msg string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors = append(r.errors, msg)
}

func (r *recorder) Info(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.infos = append(r.infos, msg)
}

func (r *recorder) Navigate(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paths = append(r.paths, path)
}

type harness struct {
	api    *fakeAPI
	http   *backend.HTTP
	store  *keychain.Manager
	clock  *sessiontest.Clock
	keeper *session.Keeper
	ui     *recorder
	mgr    *Manager
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		api:   &fakeAPI{},
		http:  backend.New("http://portal.invalid", config.Default().Endpoints, time.Second),
		store: keychain.NewManager(keychain.NewRingBackend(keyring.NewArrayKeyring(nil))),
		clock: sessiontest.NewClock(start),
		ui:    &recorder{},
	}
	h.keeper = session.NewKeeper(h.store, h.http, session.WithClock(h.clock))
	h.mgr = NewManager(h.api, h.keeper, h.store, WithNotifier(h.ui), WithNavigator(h.ui))
	t.Cleanup(h.mgr.Close)
	return h
}

func mint(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return tok
}

func TestInitializeWithoutToken(t *testing.T) {
	h := newHarness(t)

	got := h.mgr.Initialize(context.Background())

	assert.Equal(t, State{Initialized: true}, got)
	assert.Equal(t, 0, h.api.calls())
}

func TestInitializeWithValidToken(t *testing.T) {
	h := newHarness(t)
	tok := mint(t, jwt.MapClaims{
		"id":        "u1",
		"companyId": "c-from-token",
		"email":     "a@b.com",
		"exp":       start.Add(time.Hour).Unix(),
	})
	require.NoError(t, h.store.SaveAccessToken(tok))
	h.api.me = backend.Profile{
		ID:          "u1",
		CompanyID:   "c1",
		CompanyName: "Acme",
		Name:        "A",
		Role:        "admin",
	}

	got := h.mgr.Initialize(context.Background())

	assert.Equal(t, State{
		Initialized:   true,
		Authenticated: true,
		User: &User{
			ID:          "u1",
			CompanyID:   "c1",
			CompanyName: "Acme",
			Email:       "a@b.com",
			Name:        "A",
			Role:        "admin",
		},
	}, got)
	assert.Equal(t, tok, h.http.Bearer())
	assert.Equal(t, 1, h.keeper.Pending())
	assert.Equal(t, 1, h.api.calls())
}

func TestInitializeRejectsBadTokens(t *testing.T) {
	tests := []struct {
		name string
		tok  func(t *testing.T) string
	}{
		{name: "expired", tok: func(t *testing.T) string {
			return mint(t, jwt.MapClaims{"id": "u1", "exp": start.Add(-time.Minute).Unix()})
		}},
		{name: "malformed", tok: func(t *testing.T) string { return "not-a-token" }},
		{name: "no exp", tok: func(t *testing.T) string { return mint(t, jwt.MapClaims{"id": "u1"}) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			require.NoError(t, h.store.SaveAccessToken(tt.tok(t)))

			got := h.mgr.Initialize(context.Background())

			assert.Equal(t, State{Initialized: true}, got)
			assert.Equal(t, 0, h.api.calls())
			assert.Equal(t, "", h.http.Bearer())
			assert.Empty(t, h.ui.errors, "bad tokens are not user-visible errors")
		})
	}
}

func TestInitializeProfileFailure(t *testing.T) {
	h := newHarness(t)
	tok := mint(t, jwt.MapClaims{"id": "u1", "exp": start.Add(time.Hour).Unix()})
	require.NoError(t, h.store.SaveAccessToken(tok))
	h.api.meErr = perrors.Wrap(perrors.NetworkFailure, "get-me", errors.New("connection refused"))

	got := h.mgr.Initialize(context.Background())

	assert.Equal(t, State{Initialized: true}, got)
	assert.Equal(t, 1, h.api.calls(), "no retry")
	assert.Equal(t, 0, h.keeper.Pending())
	assert.Equal(t, "", h.http.Bearer(), "no header without a session")
	assert.Empty(t, h.ui.errors)

	stored, err := h.store.LoadAccessToken()
	require.NoError(t, err)
	assert.Equal(t, tok, stored)
}

func TestLogin(t *testing.T) {
	h := newHarness(t)
	h.api.login = backend.LoginResponse{
		AccessToken: "tok",
		User:        backend.Profile{ID: "u1", Name: "A"},
	}
	var seen []State
	h.mgr.Subscribe(func(s State) { seen = append(seen, s) })

	require.NoError(t, h.mgr.Login(context.Background(), "a@b.com", "pw"))

	got := h.mgr.State()
	assert.True(t, got.Authenticated)
	assert.True(t, got.Initialized)
	assert.Equal(t, &User{ID: "u1", Name: "A"}, got.User)

	stored, err := h.store.LoadAccessToken()
	require.NoError(t, err)
	assert.Equal(t, "tok", stored)
	assert.Equal(t, "tok", h.http.Bearer())
	assert.Equal(t, []string{PathHome}, h.ui.paths)
	assert.Equal(t, 0, h.api.calls(), "login does not refetch the profile")

	require.Len(t, seen, 2)
	assert.Equal(t, State{Authenticated: true, User: &User{ID: "u1", Name: "A"}}, seen[0])
	assert.Equal(t, got, seen[1])
}

func TestLoginFailureLeavesState(t *testing.T) {
	h := newHarness(t)
	h.api.loginErr = perrors.Wrap(perrors.NetworkFailure, "login", backend.ErrUnauthorized)
	before := h.mgr.Initialize(context.Background())

	err := h.mgr.Login(context.Background(), "a@b.com", "wrong")

	require.Error(t, err)
	assert.Equal(t, before, h.mgr.State())
	assert.Equal(t, []string{"Error logging in"}, h.ui.errors)
	assert.Empty(t, h.ui.paths)
	_, err = h.store.LoadAccessToken()
	assert.ErrorIs(t, err, keychain.ErrNotFound)
}

func TestLogout(t *testing.T) {
	setups := map[string]func(t *testing.T, h *harness){
		"fresh": func(t *testing.T, h *harness) {},
		"initialized anonymous": func(t *testing.T, h *harness) {
			h.mgr.Initialize(context.Background())
		},
		"logged in as admin": func(t *testing.T, h *harness) {
			h.api.login = backend.LoginResponse{
				AccessToken: mint(t, jwt.MapClaims{"exp": start.Add(time.Hour).Unix()}),
				User:        backend.Profile{ID: "u1", IsSuperAdmin: true},
			}
			require.NoError(t, h.mgr.Login(context.Background(), "a@b.com", "pw"))
			require.NoError(t, h.mgr.SetAdminView(true))
		},
	}

	for name, setup := range setups {
		t.Run(name, func(t *testing.T) {
			h := newHarness(t)
			setup(t, h)
			initialized := h.mgr.IsInitialized()

			require.NoError(t, h.mgr.Logout())

			got := h.mgr.State()
			assert.False(t, got.Authenticated)
			assert.Nil(t, got.User)
			assert.Equal(t, initialized, got.Initialized)
			_, err := h.store.LoadAccessToken()
			assert.ErrorIs(t, err, keychain.ErrNotFound)
			assert.False(t, h.store.AdminView())
			assert.Equal(t, "", h.http.Bearer())
			assert.Equal(t, 0, h.keeper.Pending())
		})
	}
}

func TestExpiryForcesLogout(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.store.SaveAccessToken(mint(t, jwt.MapClaims{"id": "u1", "exp": start.Add(time.Hour).Unix()})))
	h.api.me = backend.Profile{ID: "u1"}
	require.True(t, h.mgr.Initialize(context.Background()).Authenticated)

	h.clock.Advance(time.Hour)

	got := h.mgr.State()
	assert.False(t, got.Authenticated)
	assert.Nil(t, got.User)
	assert.Equal(t, []string{"token expired"}, h.ui.errors)
	assert.Equal(t, []string{PathLogin}, h.ui.paths)
	_, err := h.store.LoadAccessToken()
	assert.ErrorIs(t, err, keychain.ErrNotFound)
	assert.Equal(t, "", h.http.Bearer())
}

func TestReloginSupersedesExpiry(t *testing.T) {
	h := newHarness(t)
	h.api.login = backend.LoginResponse{
		AccessToken: mint(t, jwt.MapClaims{"exp": start.Add(time.Minute).Unix()}),
		User:        backend.Profile{ID: "u1"},
	}
	require.NoError(t, h.mgr.Login(context.Background(), "a@b.com", "pw"))

	h.api.login.AccessToken = mint(t, jwt.MapClaims{"exp": start.Add(time.Hour).Unix()})
	require.NoError(t, h.mgr.Login(context.Background(), "a@b.com", "pw"))
	assert.Equal(t, 1, h.clock.Active())

	h.clock.Advance(2 * time.Minute)
	assert.True(t, h.mgr.IsAuthenticated())
	assert.Empty(t, h.ui.errors)
}

func TestSetAdminView(t *testing.T) {
	h := newHarness(t)
	err := h.mgr.SetAdminView(true)
	assert.True(t, perrors.IsKind(err, perrors.Misuse))

	h.api.login = backend.LoginResponse{AccessToken: "tok", User: backend.Profile{ID: "u1"}}
	require.NoError(t, h.mgr.Login(context.Background(), "a@b.com", "pw"))
	err = h.mgr.SetAdminView(true)
	assert.True(t, perrors.IsKind(err, perrors.Misuse), "regular users cannot switch to admin view: %v", err)
	assert.False(t, h.mgr.AdminView())
}

func TestSubscribeAndUnsubscribe(t *testing.T) {
	h := newHarness(t)
	var n int
	unsubscribe := h.mgr.Subscribe(func(State) { n++ })

	h.mgr.Initialize(context.Background())
	unsubscribe()
	require.NoError(t, h.mgr.Logout())

	assert.Equal(t, 1, n)
}

func TestConcurrentDispatchLastWins(t *testing.T) {
	h := newHarness(t)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				h.mgr.Dispatch(LoggedIn{User: &User{ID: "u1"}})
			} else {
				h.mgr.Dispatch(LoggedOut{})
			}
		}(i)
	}
	wg.Wait()

	final := h.mgr.Dispatch(LoggedOut{})
	assert.Equal(t, State{}, final)
}

func TestMustFromContext(t *testing.T) {
	h := newHarness(t)
	ctx := WithContract(context.Background(), h.mgr)
	assert.Same(t, h.mgr, MustFromContext(ctx))

	defer func() {
		r := recover()
		require.NotNil(t, r, "expected panic outside provider")
		err, ok := r.(error)
		require.True(t, ok)
		assert.True(t, perrors.IsKind(err, perrors.Misuse))
	}()
	MustFromContext(context.Background())
}
