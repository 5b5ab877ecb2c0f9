// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package httperrors

import (
	"context"
	"errors"
	"fmt"
	"net"
	"syscall"
	"testing"

	"portal/cli/internal/backend"
	perrors "portal/cli/internal/errors"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Category
	}{
		{"nil", nil, Generic},
		{"deadline", fmt.Errorf("get-me: %w", context.DeadlineExceeded), Timeout},
		{"dns", &net.DNSError{Err: "no such host", Name: "portal.invalid"}, DNS},
		{"refused", &net.OpError{Op: "dial", Err: syscall.ECONNREFUSED}, ConnectionRefused},
		{"tls", errors.New("tls: failed to verify certificate: x509: unknown authority"), TLS},
		{"5xx", &backend.StatusError{Op: "login", Status: 502}, Server},
		{"401", &backend.StatusError{Op: "login", Status: 401}, Unauthorized},
		{"400", &backend.StatusError{Op: "login", Status: 400, Body: "bad email"}, Rejected},
		{"wrapped 401", perrors.Wrap(perrors.NetworkFailure, "login", &backend.StatusError{Op: "login", Status: 401}), Unauthorized},
		{"other", errors.New("boom"), Generic},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.err); got != tt.want {
				t.Errorf("Classify(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestDescribeUsesContext(t *testing.T) {
	m := Describe(&backend.StatusError{Op: "login", Status: 503}, "logging in")
	if m.Headline != "⚠️  Server error while logging in" {
		t.Errorf("headline = %q", m.Headline)
	}
	if m.Details == "" {
		t.Error("server errors carry details")
	}
}
