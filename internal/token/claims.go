// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	claimStatus      = "status"
	claimID          = "id"
	claimCompanyID   = "companyId"
	claimCompanyName = "companyName"
	claimEmail       = "email"
	claimName        = "name"
	claimRole        = "role"
)

// Claims is the decoded token payload plus the status marker added by Decode.
// Unknown claims are kept as-is so a decode/encode cycle loses nothing.
type Claims struct {
	jwt.MapClaims
}

// Status is true for claims produced by a successful Decode.
func (c Claims) Status() bool {
	ok, _ := c.MapClaims[claimStatus].(bool)
	return ok
}

// ExpiresAt returns the exp claim. ok is false when it is missing or not numeric.
func (c Claims) ExpiresAt() (time.Time, bool) {
	return numericDate(c.MapClaims.GetExpirationTime)
}

// IssuedAt returns the iat claim.
func (c Claims) IssuedAt() (time.Time, bool) {
	return numericDate(c.MapClaims.GetIssuedAt)
}

func (c Claims) ID() string          { return c.str(claimID) }
func (c Claims) CompanyID() string   { return c.str(claimCompanyID) }
func (c Claims) CompanyName() string { return c.str(claimCompanyName) }
func (c Claims) Email() string       { return c.str(claimEmail) }
func (c Claims) Name() string        { return c.str(claimName) }

// Role returns the role claim, which issuers send either as a plain string or
// as an object of the form {"role": "admin"}.
func (c Claims) Role() string {
	switch v := c.MapClaims[claimRole].(type) {
	case string:
		return v
	case map[string]any:
		s, _ := v[claimRole].(string)
		return s
	}
	return ""
}

func (c Claims) str(key string) string {
	s, _ := c.MapClaims[key].(string)
	return s
}

func numericDate(get func() (*jwt.NumericDate, error)) (time.Time, bool) {
	d, err := get()
	if err != nil || d == nil {
		return time.Time{}, false
	}
	return d.Time, true
}
