// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package backend provides interfaces and implementations for communicating with the portal API.
// It defines the API contract for logging in, fetching the current user and version checking,
// and owns the default request headers, including the bearer credential attached to every call.
package backend

import "context"

// API defines backend operations the CLI depends on.
// Implementations may call real HTTP endpoints or provide mocks for tests.
type API interface {
	// Login exchanges credentials for an access token and the user it belongs to.
	Login(ctx context.Context, email, password string) (LoginResponse, error)
	// GetMe retrieves the profile of the user the default bearer credential belongs to.
	GetMe(ctx context.Context) (Profile, error)
	GetVersion(ctx context.Context) (string, error)
}

// Authorizer manages the default Authorization header applied to every request.
type Authorizer interface {
	SetBearer(token string)
	ClearBearer()
}
