// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package errors defines typed errors with categories for user-friendly reporting.
// It provides a structured approach to error handling with machine-readable error kinds
// and human-friendly messages, so callers can decide whether a failure is absorbed
// (an expired or malformed token simply means "logged out") or surfaced to the user.
//
// The package supports wrapping underlying errors while maintaining error kind information.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind is a machine-readable error category.
type Kind string

const (
	// DecodeFailure indicates a token that could not be split, base64-decoded or parsed.
	DecodeFailure Kind = "decode_failure"
	// ExpiredToken indicates a well-formed token whose exp claim is in the past.
	ExpiredToken Kind = "expired_token"
	// NetworkFailure indicates the login or profile call did not succeed.
	NetworkFailure Kind = "network_failure"
	// StorageFailure indicates the credential store could not be read or written.
	StorageFailure Kind = "storage_failure"
	// Misuse indicates the session contract was consumed outside its provider.
	// It is a wiring bug and is never recovered from.
	Misuse Kind = "misuse"
)

// E wraps an error with kind and human-friendly message.
type E struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *E) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes the underlying cause.
func (e *E) Unwrap() error { return e.Err }

// Is matches any *E with the same Kind, so errors.Is(err, errors.New(kind, "")) works.
func (e *E) Is(target error) bool {
	t, ok := target.(*E)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

func Wrap(kind Kind, msg string, err error) *E { return &E{Kind: kind, Message: msg, Err: err} }
func New(kind Kind, msg string) *E             { return &E{Kind: kind, Message: msg} }

// KindOf returns the Kind of the first *E in err's chain, or "" when there is none.
func KindOf(err error) Kind {
	var e *E
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind reports whether err carries the given kind anywhere in its chain.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
