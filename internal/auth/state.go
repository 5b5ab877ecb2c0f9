// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package auth holds the in-memory authentication state of the CLI and the
// operations that change it: Initialize (rebuild from the persisted token),
// Login and Logout. State changes go through a pure transition function and
// are broadcast to subscribers.
//
// The persisted token is the source of truth; State is a cache of it plus the
// user's profile, rebuilt by Initialize on every start.
package auth

// User is the signed-in user as shown by the CLI.
type User struct {
	ID           string `json:"id"`
	CompanyID    string `json:"companyId"`
	CompanyName  string `json:"companyName"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	Role         string `json:"role"`
	IsSuperAdmin bool   `json:"isSuperAdmin"`
	Logo         string `json:"logo,omitempty"`
}

// State is a snapshot of the session.
// User is non-nil only while Authenticated is true.
type State struct {
	Initialized   bool  `json:"isInitialized"`
	Authenticated bool  `json:"isAuthenticated"`
	User          *User `json:"user"`
}

// clone returns a copy that shares nothing with s.
func (s State) clone() State {
	if s.User != nil {
		u := *s.User
		s.User = &u
	}
	return s
}
