// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package auth

import (
	"context"

	perrors "portal/cli/internal/errors"
)

// Contract is what commands see of the session.
type Contract interface {
	State() State
	IsInitialized() bool
	IsAuthenticated() bool
	User() *User
	Login(ctx context.Context, email, password string) error
	Logout() error
}

var _ Contract = (*Manager)(nil)

type contractKey struct{}

// WithContract returns a context that provides c to everything below it.
func WithContract(ctx context.Context, c Contract) context.Context {
	return context.WithValue(ctx, contractKey{}, c)
}

// FromContext returns the contract provided by an enclosing WithContract.
func FromContext(ctx context.Context) (Contract, bool) {
	c, ok := ctx.Value(contractKey{}).(Contract)
	return c, ok && c != nil
}

// MustFromContext is FromContext for code that cannot run without a session.
// A missing contract is a wiring bug, so it panics with a Misuse error.
func MustFromContext(ctx context.Context) Contract {
	c, ok := FromContext(ctx)
	if !ok {
		panic(perrors.New(perrors.Misuse, "auth contract must be used within a context provided by WithContract"))
	}
	return c
}
