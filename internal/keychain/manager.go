// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package keychain is the persisted-credential boundary of portal. It stores the
// access token and the admin-view flag in the OS keychain, an encrypted file
// keyring, or a shared Redis instance, behind one thread-safe Manager.
//
// It is the only process-wide state the session relies on: everything in memory
// is rebuilt from here on every start.
package keychain

import (
	"errors"
	"io"
	"sync"
)

// ServiceName identifies our keychain/credential store namespace.
const ServiceName = "portal"

// Keys used for storing values in the credential store.
const (
	KeyAccessToken = "accessToken"
	KeyAdminView   = "toAdmin"
)

// ErrNotFound is returned when a key has no stored value.
var ErrNotFound = errors.New("key not found")

// Backend is the minimal storage contract. Get returns ErrNotFound for a
// missing key; Delete of a missing key is not an error.
type Backend interface {
	Set(key, value string) error
	Get(key string) (string, error)
	Delete(key string) error
}

// Manager provides centralized, thread-safe operations on the credential store.
type Manager struct {
	mu      sync.RWMutex
	backend Backend
}

// NewManager wraps an already opened backend.
func NewManager(b Backend) *Manager {
	return &Manager{backend: b}
}

// SaveAccessToken stores the raw bearer token.
// This method is thread-safe.
func (m *Manager) SaveAccessToken(token string) error {
	if token == "" {
		return errors.New("empty access token")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.backend.Set(KeyAccessToken, token)
}

// LoadAccessToken retrieves the access token. A missing or empty entry yields ErrNotFound.
// This method is thread-safe.
func (m *Manager) LoadAccessToken() (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	token, err := m.backend.Get(KeyAccessToken)
	if err != nil {
		return "", err
	}
	if token == "" {
		return "", ErrNotFound
	}
	return token, nil
}

// ClearAccessToken removes the stored access token.
// This method is thread-safe.
func (m *Manager) ClearAccessToken() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.backend.Delete(KeyAccessToken)
}

// SetAdminView persists the admin-view flag.
// This method is thread-safe.
func (m *Manager) SetAdminView(on bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !on {
		return m.backend.Delete(KeyAdminView)
	}
	return m.backend.Set(KeyAdminView, "true")
}

// AdminView reports whether the admin-view flag is set. Storage errors read as false.
// This method is thread-safe.
func (m *Manager) AdminView() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, err := m.backend.Get(KeyAdminView)
	return err == nil && v == "true"
}

// ClearAdminView removes the admin-view flag.
// This method is thread-safe.
func (m *Manager) ClearAdminView() error {
	return m.SetAdminView(false)
}

// Close releases the backend's connection, if it holds one.
func (m *Manager) Close() error {
	if c, ok := m.backend.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
