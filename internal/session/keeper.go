// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package session applies a bearer token to the process: it persists it, attaches
// it to outbound requests, and schedules the forced logout that happens when it
// expires. A Keeper owns the single expiry timer; every Set cancels the previous
// one before anything new is scheduled.
package session

import (
	"sync"
	"time"

	"portal/cli/internal/backend"
	perrors "portal/cli/internal/errors"
	"portal/cli/internal/logging"
	"portal/cli/internal/token"
)

// CredentialStore persists the raw access token.
type CredentialStore interface {
	SaveAccessToken(token string) error
	ClearAccessToken() error
}

// Keeper holds the active credential's side effects.
type Keeper struct {
	store CredentialStore
	auth  backend.Authorizer
	clock Clock
	log   *logging.Logger

	mu       sync.Mutex
	onExpire func()
	timer    Timer
	// gen invalidates callbacks of timers that were cancelled but already fired.
	gen uint64
}

// Option customizes a Keeper.
type Option func(*Keeper)

// WithClock replaces the system clock.
func WithClock(c Clock) Option { return func(k *Keeper) { k.clock = c } }

// WithLogger sets the keeper's logger.
func WithLogger(l *logging.Logger) Option { return func(k *Keeper) { k.log = l } }

// NewKeeper creates a Keeper writing to store and auth.
func NewKeeper(store CredentialStore, auth backend.Authorizer, opts ...Option) *Keeper {
	k := &Keeper{
		store: store,
		auth:  auth,
		clock: SystemClock{},
		log:   logging.Discard(),
	}
	for _, opt := range opts {
		opt(k)
	}
	return k
}

// OnExpire registers the hook run after an expired token has been cleared.
// It replaces any previous hook.
func (k *Keeper) OnExpire(fn func()) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.onExpire = fn
}

// Now returns the keeper's current time.
func (k *Keeper) Now() time.Time { return k.clock.Now() }

// Set installs tok as the active credential. An empty tok clears it: the
// persisted token and the default Authorization header are removed and the
// pending expiry is cancelled.
//
// For a non-empty tok the expiry is scheduled from its exp claim. A token
// without a readable exp is still installed, with no expiry scheduled.
func (k *Keeper) Set(tok string) error {
	if tok == "" {
		return k.Clear()
	}

	if err := k.store.SaveAccessToken(tok); err != nil {
		return perrors.Wrap(perrors.StorageFailure, "persist access token", err)
	}
	k.auth.SetBearer(tok)

	claims, err := token.Decode(tok)
	exp, ok := claims.ExpiresAt()
	if err != nil || !ok {
		k.cancel()
		k.log.WithError(err).Warn("access token has no readable exp; expiry not tracked")
		return nil
	}
	k.ScheduleExpiry(exp, k.expire)
	return nil
}

// Clear removes the active credential.
func (k *Keeper) Clear() error {
	k.cancel()
	k.auth.ClearBearer()
	if err := k.store.ClearAccessToken(); err != nil {
		return perrors.Wrap(perrors.StorageFailure, "clear access token", err)
	}
	return nil
}

// ScheduleExpiry arranges for fn to run once at exp, cancelling whatever was
// pending. An exp in the past fires immediately.
func (k *Keeper) ScheduleExpiry(exp time.Time, fn func()) {
	k.mu.Lock()
	defer k.mu.Unlock()

	k.stopLocked()
	k.gen++
	gen := k.gen
	delay := exp.Sub(k.clock.Now())
	k.timer = k.clock.AfterFunc(delay, func() {
		k.mu.Lock()
		if k.gen != gen {
			k.mu.Unlock()
			return
		}
		k.timer = nil
		k.mu.Unlock()
		fn()
	})
	k.log.Debug("expiry scheduled", "at", exp.UTC().Format(time.RFC3339), "in", delay.Round(time.Second))
}

// Pending returns the number of scheduled expiries: 0 or 1.
func (k *Keeper) Pending() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.timer == nil {
		return 0
	}
	return 1
}

// Stop cancels the pending expiry without touching the credential.
func (k *Keeper) Stop() { k.cancel() }

// Detach cancels the pending expiry and removes the Authorization header but
// keeps the persisted token, so a later start can try it again.
func (k *Keeper) Detach() {
	k.cancel()
	k.auth.ClearBearer()
}

func (k *Keeper) cancel() {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.stopLocked()
}

func (k *Keeper) stopLocked() {
	if k.timer != nil {
		k.timer.Stop()
		k.timer = nil
	}
	k.gen++
}

// expire is the callback of a token's own expiry.
func (k *Keeper) expire() {
	k.log.Info("access token expired")
	k.auth.ClearBearer()
	if err := k.store.ClearAccessToken(); err != nil {
		k.log.WithError(err).Warn("clear expired access token")
	}

	k.mu.Lock()
	hook := k.onExpire
	k.mu.Unlock()
	if hook != nil {
		hook()
	}
}
