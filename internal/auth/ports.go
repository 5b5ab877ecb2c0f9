// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package auth

import (
	"portal/cli/internal/logging"
)

// Navigation targets requested by the manager.
const (
	PathHome  = "/"
	PathLogin = "/login"
)

// Notifier shows messages to the user.
type Notifier interface {
	Error(msg string, err error)
	Info(msg string)
}

// Navigator moves the user interface to another view.
type Navigator interface {
	Navigate(path string)
}

// CredentialStore is the persisted part of the session the manager reads directly.
type CredentialStore interface {
	LoadAccessToken() (string, error)
	SetAdminView(on bool) error
	AdminView() bool
	ClearAdminView() error
}

// logNotifier is the default Notifier: it only logs.
type logNotifier struct{ log *logging.Logger }

func (n logNotifier) Error(msg string, err error) { n.log.WithError(err).Error(msg) }
func (n logNotifier) Info(msg string)             { n.log.Info(msg) }

type nopNavigator struct{}

func (nopNavigator) Navigate(string) {}
