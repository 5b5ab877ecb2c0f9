// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package ui renders session events in the terminal.
package ui

import (
	"sync"

	"github.com/pterm/pterm"

	perrors "portal/cli/internal/errors"
	"portal/cli/internal/httperrors"
	"portal/cli/internal/logging"
)

// Notifier prints user-visible messages with pterm.
type Notifier struct {
	mu     sync.Mutex
	action string
	log    *logging.Logger
}

// NewNotifier returns a Notifier that also logs every error to log.
func NewNotifier(log *logging.Logger) *Notifier {
	if log == nil {
		log = logging.Discard()
	}
	return &Notifier{action: "talking to the portal", log: log}
}

// SetAction names what the CLI is doing, for network error hints ("logging in").
func (n *Notifier) SetAction(action string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.action = action
}

// Error prints msg and, for network failures, troubleshooting hints.
func (n *Notifier) Error(msg string, err error) {
	n.mu.Lock()
	action := n.action
	n.mu.Unlock()

	if err == nil {
		pterm.Error.Println(msg)
		return
	}
	n.log.WithError(err).Debug(msg)
	pterm.Error.Println(logging.PresentError(msg, err))
	if perrors.IsKind(err, perrors.NetworkFailure) {
		httperrors.Print(httperrors.Describe(err, action))
	}
}

func (n *Notifier) Info(msg string) {
	pterm.Info.Println(msg)
}
