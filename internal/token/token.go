// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package token decodes the portal's bearer tokens and decides whether they are
// still usable. Nothing here verifies signatures: the token is trusted as issued
// by the login endpoint and only its payload is read, to learn who the user is
// and when the session ends.
package token

import (
	"encoding/json"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/golang-jwt/jwt/v5"

	perrors "portal/cli/internal/errors"
)

// ErrMalformed is returned by Decode for anything that is not a readable token.
var ErrMalformed = perrors.New(perrors.DecodeFailure, "malformed token")

// ErrExpired is reported when a token decodes fine but its exp is not in the future.
var ErrExpired = perrors.New(perrors.ExpiredToken, "token expired")

// segmentParser decodes the payload segment. Padded segments are accepted
// alongside the raw URL-safe encoding that most issuers emit.
var segmentParser = jwt.NewParser(jwt.WithPaddingAllowed())

// toURLAlphabet lets payloads written in the standard base64 alphabet decode too.
var toURLAlphabet = strings.NewReplacer("+", "-", "/", "_")

// Decode reads the payload segment of tok. On failure it returns claims holding
// only status=false together with ErrMalformed; it never panics.
func Decode(tok string) (Claims, error) {
	parts := strings.Split(tok, ".")
	if len(parts) < 2 || parts[1] == "" {
		return failed(), ErrMalformed
	}

	raw, err := segmentParser.DecodeSegment(toURLAlphabet.Replace(parts[1]))
	if err != nil {
		return failed(), perrors.Wrap(perrors.DecodeFailure, "payload is not base64", err)
	}
	if !utf8.Valid(raw) {
		return failed(), perrors.Wrap(perrors.DecodeFailure, "payload is not UTF-8", ErrMalformed)
	}

	payload := jwt.MapClaims{}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return failed(), perrors.Wrap(perrors.DecodeFailure, "payload is not a JSON object", err)
	}

	payload[claimStatus] = true
	return Claims{payload}, nil
}

// Check decodes tok and reports why it cannot be used at now, or nil when it can.
func Check(tok string, now time.Time) error {
	if tok == "" {
		return ErrMalformed
	}
	claims, err := Decode(tok)
	if err != nil {
		return err
	}
	exp, ok := claims.ExpiresAt()
	if !ok || !exp.After(now) {
		return ErrExpired
	}
	return nil
}

// IsValid reports whether tok decodes and its exp lies strictly after now.
// Decode failures and tokens without an exp are invalid.
func IsValid(tok string, now time.Time) bool {
	return Check(tok, now) == nil
}

func failed() Claims {
	return Claims{jwt.MapClaims{claimStatus: false}}
}
