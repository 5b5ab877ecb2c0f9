// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package ui

import (
	"sync"

	"github.com/pterm/pterm"

	"portal/cli/internal/auth"
)

// Navigator maps view changes onto terminal hints. A CLI has no views, so
// "/login" becomes a prompt to run the login command and "/" is silent.
type Navigator struct {
	mu     sync.Mutex
	hooks  map[int]func(path string)
	nextID int
}

func NewNavigator() *Navigator { return &Navigator{hooks: map[int]func(string){}} }

// OnNavigate registers fn to run after every navigation. The returned
// function removes it.
func (n *Navigator) OnNavigate(fn func(path string)) (remove func()) {
	n.mu.Lock()
	defer n.mu.Unlock()
	id := n.nextID
	n.nextID++
	n.hooks[id] = fn
	return func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		delete(n.hooks, id)
	}
}

// Navigate prints the hint for path and runs the hooks.
func (n *Navigator) Navigate(path string) {
	n.mu.Lock()
	hooks := make([]func(string), 0, len(n.hooks))
	for _, fn := range n.hooks {
		hooks = append(hooks, fn)
	}
	n.mu.Unlock()

	if path == auth.PathLogin {
		pterm.Warning.Println("Your session has ended. Run 'portal login' to sign in again.")
	}
	for _, fn := range hooks {
		fn(path)
	}
}
