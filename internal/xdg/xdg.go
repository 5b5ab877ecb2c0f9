// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package xdg resolves XDG Base Directory paths for portal.
// Configuration lives under the config dir; the encrypted file keyring used on
// machines without a native secret store lives under the state dir.
//
// Both fall back to the traditional locations when the XDG variables are unset,
// and both are created private (0700).
package xdg

import (
	"os"
	"path/filepath"
)

const appName = "portal"

// ConfigDir returns the XDG config directory for portal.
// It falls back to ~/.config/portal when XDG_CONFIG_HOME is unset.
func ConfigDir() (string, error) {
	return resolve("XDG_CONFIG_HOME", ".config")
}

// StateDir returns the XDG state directory for portal.
// It falls back to ~/.local/state/portal when XDG_STATE_HOME is unset.
func StateDir() (string, error) {
	return resolve("XDG_STATE_HOME", filepath.Join(".local", "state"))
}

func resolve(envVar, homeRel string) (string, error) {
	base := os.Getenv(envVar)
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, homeRel)
	}
	dir := filepath.Join(base, appName)
	if err := os.MkdirAll(dir, 0o700); err != nil { // private dir
		return "", err
	}
	return dir, nil
}
