// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"net/http"
	"strings"
)

// accessTokenFields are the payload keys an access token may arrive under,
// in order of preference.
var accessTokenFields = []string{"accessToken", "access_token", "token"}

// parseBearerToken extracts token from a value like "Bearer <token>" case-insensitively.
// Returns the token string without the "Bearer " prefix, or empty string if invalid format.
func parseBearerToken(value string) string {
	v := strings.TrimSpace(value)
	if len(v) < 7 || !strings.EqualFold(v[:6], "bearer") || v[6] != ' ' {
		return ""
	}
	return strings.TrimSpace(v[7:])
}

// findBearerTokenInHeaders returns the token of a "Bearer" Authorization
// response header, or empty string if there is none.
func findBearerTokenInHeaders(h http.Header) string {
	for _, v := range h.Values("Authorization") {
		if t := parseBearerToken(v); t != "" {
			return t
		}
	}
	return ""
}

// extractAccessToken removes the access token from a login payload and returns it.
// The remaining keys are the user fields.
func extractAccessToken(payload map[string]any) string {
	token := ""
	for _, key := range accessTokenFields {
		v, ok := payload[key].(string)
		if !ok {
			continue
		}
		delete(payload, key)
		if token == "" && strings.TrimSpace(v) != "" {
			token = strings.TrimSpace(v)
		}
	}
	return token
}
