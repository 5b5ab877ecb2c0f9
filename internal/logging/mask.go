// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package logging provides utilities for secure logging and error presentation.
// It includes a structured logger, functions for masking sensitive information in
// log messages, and formatting errors for user-friendly display while protecting
// credentials and secrets.
//
// The package helps ensure that bearer tokens and passwords are not accidentally
// exposed in logs or error messages shown to users.
package logging

import (
	"regexp"
)

var (
	rePassword  = regexp.MustCompile(`(?i)(password=)([^\s;&]+)`)
	reToken     = regexp.MustCompile(`(?i)(token=|bearer\s+)([A-Za-z0-9._-]+)`)
	reJSONField = regexp.MustCompile(`(?i)("(?:accessToken|access_token|password)"\s*:\s*")([^"]*)(")`)
	reJWT       = regexp.MustCompile(`\beyJ[A-Za-z0-9_-]*\.[A-Za-z0-9_-]+\.[A-Za-z0-9_-]*`)
)

// Mask replaces sensitive values in the input string with "***".
func Mask(s string) string {
	out := s
	out = rePassword.ReplaceAllString(out, "$1***")
	out = reToken.ReplaceAllString(out, "$1***")
	out = reJSONField.ReplaceAllString(out, "$1***$3")
	out = reJWT.ReplaceAllString(out, "***")
	return out
}
