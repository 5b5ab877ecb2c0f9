// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package keychain

import (
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/99designs/keyring"

	"portal/cli/internal/xdg"
)

// ringBackend adapts a keyring.Keyring to Backend.
type ringBackend struct {
	ring keyring.Keyring
}

// NewRingBackend wraps an opened keyring. Tests pass keyring.NewArrayKeyring.
func NewRingBackend(ring keyring.Keyring) Backend {
	return &ringBackend{ring: ring}
}

func (r *ringBackend) Set(key, value string) error {
	return r.ring.Set(keyring.Item{Key: key, Data: []byte(value), Label: ServiceName + " " + key})
}

func (r *ringBackend) Get(key string) (string, error) {
	it, err := r.ring.Get(key)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return string(it.Data), nil
}

func (r *ringBackend) Delete(key string) error {
	err := r.ring.Remove(key)
	if errors.Is(err, keyring.ErrKeyNotFound) || errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// OpenNative opens the OS keyring using native platform backends only:
// macOS Keychain (pass as fallback), Windows Credential Manager, or the
// Secret Service on Linux desktops.
func OpenNative() (Backend, error) {
	var allowedBackends []keyring.BackendType
	switch runtime.GOOS {
	case "darwin":
		// Pass requires 'pass' utility installed: brew install pass
		allowedBackends = []keyring.BackendType{keyring.KeychainBackend, keyring.PassBackend}
	case "windows":
		allowedBackends = []keyring.BackendType{keyring.WinCredBackend}
	default:
		allowedBackends = []keyring.BackendType{keyring.SecretServiceBackend, keyring.KWalletBackend, keyring.PassBackend}
	}

	ring, err := keyring.Open(keyring.Config{
		ServiceName:     ServiceName,
		AllowedBackends: allowedBackends,
		PassPrefix:      ServiceName,
		WinCredPrefix:   ServiceName,
		// Headless sessions must not block on a keychain unlock prompt.
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("no native secret store available (set store to %q to use an encrypted file): %w", "file", err)
	}
	return NewRingBackend(ring), nil
}

// OpenFile opens an encrypted file keyring under the XDG state dir. The
// passphrase comes from PORTAL_KEYRING_PASSWORD.
func OpenFile() (Backend, error) {
	dir, err := xdg.StateDir()
	if err != nil {
		return nil, err
	}
	pass := os.Getenv("PORTAL_KEYRING_PASSWORD")
	if pass == "" {
		return nil, errors.New("PORTAL_KEYRING_PASSWORD must be set for the file store")
	}
	ring, err := keyring.Open(keyring.Config{
		ServiceName:      ServiceName,
		AllowedBackends:  []keyring.BackendType{keyring.FileBackend},
		FileDir:          dir,
		FilePasswordFunc: keyring.FixedStringPrompt(pass),
	})
	if err != nil {
		return nil, err
	}
	return NewRingBackend(ring), nil
}
