// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package httperrors provides user-friendly error handling for HTTP requests.
package httperrors

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"syscall"

	"github.com/pterm/pterm"

	"portal/cli/internal/backend"
)

// Category is the user-facing class of a request failure.
type Category int

const (
	Generic Category = iota
	Timeout
	DNS
	ConnectionRefused
	TLS
	Server
	Unauthorized
	Rejected
)

// Message is what gets shown for a failed request.
type Message struct {
	Headline string
	Hints    []string
	Details  string
}

// Print writes m with pterm.
func Print(m Message) {
	pterm.Println(m.Headline)
	if len(m.Hints) > 0 {
		pterm.Println()
		for _, h := range m.Hints {
			pterm.Println(h)
		}
	}
	pterm.Println()
	if m.Details != "" {
		pterm.Debug.Printf("Technical details: %s\n", m.Details)
	}
}

// Classify maps err onto a Category. Status codes win over transport errors.
func Classify(err error) Category {
	if err == nil {
		return Generic
	}

	var se *backend.StatusError
	if errors.As(err, &se) {
		switch {
		case se.Status == 401 || se.Status == 403:
			return Unauthorized
		case se.Status >= 500:
			return Server
		default:
			return Rejected
		}
	}
	if errors.Is(err, backend.ErrUnauthorized) {
		return Unauthorized
	}

	switch {
	case isTimeoutError(err):
		return Timeout
	case isDNSError(err):
		return DNS
	case isConnectionRefusedError(err):
		return ConnectionRefused
	case isSSLError(err):
		return TLS
	}
	return Generic
}

// Describe builds the message for err.
func Describe(err error, context string) Message {
	switch Classify(err) {
	case Timeout:
		return Message{
			Headline: fmt.Sprintf("⏱️  Connection timeout while %s", context),
			Hints: []string{
				"The server took too long to respond. This could mean:",
				"  • Slow internet connection",
				"  • Server is under heavy load",
				"",
				"Please try again in a few moments.",
			},
		}
	case DNS:
		return Message{
			Headline: fmt.Sprintf("🌐 Cannot resolve server address while %s", context),
			Hints: []string{
				"Please check:",
				"  • Your internet connection is working",
				"  • PORTAL_API_URL points at the right host",
			},
		}
	case ConnectionRefused:
		return Message{
			Headline: fmt.Sprintf("🚫 Connection refused while %s", context),
			Hints: []string{
				"The server is not accepting connections. This could mean:",
				"  • The service is temporarily down",
				"  • Wrong server address or port",
			},
		}
	case TLS:
		return Message{
			Headline: fmt.Sprintf("🔒 Secure connection failed while %s", context),
			Hints: []string{
				"Try:",
				"  • Check your system date and time",
				"  • Verify network proxy settings",
			},
		}
	case Server:
		return Message{
			Headline: fmt.Sprintf("⚠️  Server error while %s", context),
			Hints: []string{
				"The portal server encountered an internal error.",
				"Please try again in a few minutes.",
			},
			Details: shorten(err.Error()),
		}
	case Unauthorized:
		return Message{
			Headline: fmt.Sprintf("🔑 Not authorized while %s", context),
			Hints: []string{
				"Check your email and password, or run 'portal login' again.",
			},
		}
	case Rejected:
		return Message{
			Headline: fmt.Sprintf("❌ Request rejected while %s", context),
			Details:  shorten(err.Error()),
		}
	}
	return Message{
		Headline: fmt.Sprintf("❌ Cannot connect to the portal service while %s", context),
		Hints: []string{
			"Please check:",
			"  • Your internet connection",
			"  • Firewall settings that might block HTTPS requests",
		},
		Details: shorten(err.Error()),
	}
}

func isTimeoutError(err error) bool {
	errStr := strings.ToLower(err.Error())
	if strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "deadline exceeded") {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func isDNSError(err error) bool {
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr)
}

func isConnectionRefusedError(err error) bool {
	var opErr *net.OpError
	if errors.As(err, &opErr) && errors.Is(opErr.Err, syscall.ECONNREFUSED) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "connection refused")
}

func isSSLError(err error) bool {
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "tls") ||
		strings.Contains(errStr, "x509") ||
		strings.Contains(errStr, "certificate") ||
		strings.Contains(errStr, "handshake")
}

func shorten(s string) string {
	if len(s) > 100 {
		return s[:100] + "..."
	}
	return s
}
