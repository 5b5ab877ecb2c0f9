// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

// LoginResponse splits the login payload into the token and the user fields.
type LoginResponse struct {
	AccessToken string
	User        Profile
}

// Login posts {email, password} to <login>. The access token is taken from the
// payload, falling back to a Bearer Authorization response header.
func (h *HTTP) Login(ctx context.Context, email, password string) (LoginResponse, error) {
	var out LoginResponse

	body, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return out, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.baseURL+h.endpoints.Login, bytes.NewReader(body))
	if err != nil {
		return out, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.do(req)
	if err != nil {
		return out, networkFailure("login", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return out, networkFailure("login", statusError("login", resp))
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return out, networkFailure("login: read body", err)
	}
	out, err = parseLoginResponse(raw, resp.Header)
	if err != nil {
		return out, networkFailure("login", err)
	}
	return out, nil
}

func parseLoginResponse(raw []byte, header http.Header) (LoginResponse, error) {
	var out LoginResponse

	payload := map[string]any{}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return out, err
	}
	out.AccessToken = extractAccessToken(payload)
	if out.AccessToken == "" {
		out.AccessToken = findBearerTokenInHeaders(header)
	}
	if out.AccessToken == "" {
		return out, errors.New("no access token in response")
	}

	rest, err := json.Marshal(payload)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(rest, &out.User); err != nil {
		return out, err
	}
	return out, nil
}
