// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package auth

import (
	"portal/cli/internal/backend"
	"portal/cli/internal/token"
)

// userFromClaims builds the identity part of a User from token claims.
func userFromClaims(c token.Claims) User {
	return User{
		ID:          c.ID(),
		CompanyID:   c.CompanyID(),
		CompanyName: c.CompanyName(),
		Email:       c.Email(),
		Name:        c.Name(),
		Role:        c.Role(),
	}
}

// userFromProfile maps an API profile onto a User.
func userFromProfile(p backend.Profile) User {
	return User{
		ID:           p.ID,
		CompanyID:    p.CompanyID,
		CompanyName:  p.CompanyName,
		Email:        p.Email,
		Name:         p.Name,
		Role:         string(p.Role),
		IsSuperAdmin: p.IsSuperAdmin,
		Logo:         p.Logo,
	}
}

// mergeProfile overlays the non-empty profile fields on base.
func mergeProfile(base User, p backend.Profile) User {
	prof := userFromProfile(p)
	for _, f := range []struct{ dst, src *string }{
		{&base.ID, &prof.ID},
		{&base.CompanyID, &prof.CompanyID},
		{&base.CompanyName, &prof.CompanyName},
		{&base.Email, &prof.Email},
		{&base.Name, &prof.Name},
		{&base.Role, &prof.Role},
		{&base.Logo, &prof.Logo},
	} {
		if *f.src != "" {
			*f.dst = *f.src
		}
	}
	base.IsSuperAdmin = prof.IsSuperAdmin
	return base
}
