// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
)

// Profile is the user record returned by the me and login endpoints.
type Profile struct {
	ID           string `json:"id"`
	CompanyID    string `json:"companyId"`
	CompanyName  string `json:"companyName"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	Role         Role   `json:"role"`
	IsSuperAdmin bool   `json:"isSuperAdmin"`
	Logo         string `json:"logo,omitempty"`
}

// Role is the user's role name. The me endpoint nests it as {"role": "admin"}
// while login returns it flat; both decode to the name.
type Role string

// UnmarshalJSON accepts a string, an object with a role field, or null.
func (r *Role) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*r = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*r = Role(s)
		return nil
	}
	var obj struct {
		Role string `json:"role"`
	}
	if err := json.Unmarshal(b, &obj); err != nil {
		return err
	}
	*r = Role(obj.Role)
	return nil
}

// GetMe calls GET <me> with the default Authorization header.
func (h *HTTP) GetMe(ctx context.Context) (Profile, error) {
	var p Profile
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.baseURL+h.endpoints.Me, nil)
	if err != nil {
		return p, err
	}

	resp, err := h.do(req)
	if err != nil {
		return p, networkFailure("get-me", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return p, networkFailure("get-me", statusError("get-me", resp))
	}
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return p, networkFailure("get-me: decode profile", err)
	}
	return p, nil
}
