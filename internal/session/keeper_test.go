// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package session_test

import (
	"errors"
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

type fixture struct {
	clock  *sessiontest.Clock
	store  *keychain.Manager
	api    *backend.HTTP
	keeper *session.Keeper
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		clock: sessiontest.NewClock(start),
		store: keychain.NewManager(keychain.NewRingBackend(keyring.NewArrayKeyring(nil))),
		api:   backend.New("http://portal.invalid", config.Default().Endpoints, time.Second),
	}
	f.keeper = session.NewKeeper(f.store, f.api, session.WithClock(f.clock))
	return f
}

func mint(t *testing.T, exp time.Time) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":  "u1",
		"iat": start.Unix(),
		"exp": exp.Unix(),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return tok
}

func TestSetPersistsAndAuthorizes(t *testing.T) {
	f := newFixture(t)
	tok := mint(t, start.Add(time.Hour))

	require.NoError(t, f.keeper.Set(tok))

	stored, err := f.store.LoadAccessToken()
	require.NoError(t, err)
	assert.Equal(t, tok, stored)
	assert.Equal(t, tok, f.api.Bearer())
	assert.Equal(t, 1, f.keeper.Pending())
	assert.Equal(t, 1, f.clock.Active())
}

func TestSetEmptyClears(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.keeper.Set(mint(t, start.Add(time.Hour))))

	require.NoError(t, f.keeper.Set(""))

	_, err := f.store.LoadAccessToken()
	assert.ErrorIs(t, err, keychain.ErrNotFound)
	assert.Equal(t, "", f.api.Bearer())
	assert.Equal(t, 0, f.keeper.Pending())
	assert.Equal(t, 0, f.clock.Active())
}

func TestSetTwiceLeavesOneTimer(t *testing.T) {
	f := newFixture(t)
	expired := 0
	f.keeper.OnExpire(func() { expired++ })

	require.NoError(t, f.keeper.Set(mint(t, start.Add(time.Minute))))
	second := mint(t, start.Add(time.Hour))
	require.NoError(t, f.keeper.Set(second))

	assert.Equal(t, 1, f.clock.Active())
	assert.Equal(t, 1, f.keeper.Pending())

	// The first token's deadline passes without effect.
	f.clock.Advance(2 * time.Minute)
	assert.Equal(t, 0, expired)
	stored, err := f.store.LoadAccessToken()
	require.NoError(t, err)
	assert.Equal(t, second, stored)

	f.clock.Advance(time.Hour)
	assert.Equal(t, 1, expired)
}

func TestExpiryClearsCredential(t *testing.T) {
	f := newFixture(t)
	var calls int
	f.keeper.OnExpire(func() {
		calls++
		_, err := f.store.LoadAccessToken()
		assert.ErrorIs(t, err, keychain.ErrNotFound, "token must be gone before the hook runs")
	})

	require.NoError(t, f.keeper.Set(mint(t, start.Add(30*time.Second))))
	f.clock.Advance(29 * time.Second)
	assert.Equal(t, 0, calls)

	f.clock.Advance(time.Second)
	assert.Equal(t, 1, calls)
	assert.Equal(t, "", f.api.Bearer())
	assert.Equal(t, 0, f.keeper.Pending())

	f.clock.Advance(time.Hour)
	assert.Equal(t, 1, calls, "expiry runs once")
}

func TestPastExpiryFiresOnNextTick(t *testing.T) {
	f := newFixture(t)
	var calls int
	f.keeper.OnExpire(func() { calls++ })

	require.NoError(t, f.keeper.Set(mint(t, start.Add(-time.Minute))))
	f.clock.Advance(0)
	assert.Equal(t, 1, calls)
}

func TestTokenWithoutExpIsInstalledUntracked(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.keeper.Set(mint(t, start.Add(time.Hour))))

	require.NoError(t, f.keeper.Set("tok"))

	stored, err := f.store.LoadAccessToken()
	require.NoError(t, err)
	assert.Equal(t, "tok", stored)
	assert.Equal(t, "tok", f.api.Bearer())
	assert.Equal(t, 0, f.keeper.Pending(), "the previous token's timer is cancelled")
	assert.Equal(t, 0, f.clock.Active())
}

func TestStopKeepsCredential(t *testing.T) {
	f := newFixture(t)
	tok := mint(t, start.Add(time.Hour))
	require.NoError(t, f.keeper.Set(tok))

	f.keeper.Stop()

	assert.Equal(t, 0, f.clock.Active())
	assert.Equal(t, tok, f.api.Bearer())
}

type failingStore struct{}

func (failingStore) SaveAccessToken(string) error { return errors.New("keychain locked") }
func (failingStore) ClearAccessToken() error      { return errors.New("keychain locked") }

func TestDetachKeepsTokenDropsHeader(t *testing.T) {
	f := newFixture(t)
	tok := mint(t, start.Add(time.Hour))
	require.NoError(t, f.keeper.Set(tok))

	f.keeper.Detach()

	stored, err := f.store.LoadAccessToken()
	require.NoError(t, err)
	assert.Equal(t, tok, stored)
	assert.Equal(t, "", f.api.Bearer())
	assert.Equal(t, 0, f.keeper.Pending())
	assert.Equal(t, 0, f.clock.Active())
}

func TestStoreFailureIsReported(t *testing.T) {
	api := backend.New("http://portal.invalid", config.Default().Endpoints, time.Second)
	k := session.NewKeeper(failingStore{}, api, session.WithClock(sessiontest.NewClock(start)))

	err := k.Set(mint(t, start.Add(time.Hour)))
	assert.True(t, perrors.IsKind(err, perrors.StorageFailure))
	assert.Equal(t, "", api.Bearer(), "header is only set once the token is persisted")

	err = k.Set("")
	assert.True(t, perrors.IsKind(err, perrors.StorageFailure))
}
