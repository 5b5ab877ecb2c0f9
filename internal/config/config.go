// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package config loads and stores CLI configuration in the XDG config dir.
// Only non-secret settings are kept here; the access token goes to the credential store.
// Environment variables override whatever the file says.
package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"portal/cli/internal/xdg"
)

// Store backends understood by internal/keychain.
const (
	StoreKeyring = "keyring"
	StoreFile    = "file"
	StoreRedis   = "redis"
)

// Config holds non-sensitive CLI settings.
type Config struct {
	APIURL    string      `json:"api_url"`
	Endpoints Endpoints   `json:"endpoints"`
	Store     string      `json:"store"`
	Redis     RedisConfig `json:"redis"`
	LogLevel  string      `json:"log_level"`
	LogFormat string      `json:"log_format"`
	// TimeoutSeconds bounds every HTTP request.
	TimeoutSeconds int `json:"timeout_seconds"`
}

// Endpoints contains REST API paths relative to APIURL.
type Endpoints struct {
	Login   string `json:"login"`   // e.g., "/auth/login"
	Me      string `json:"me"`      // e.g., "/users/me"
	Version string `json:"version"` // e.g., "/version"
}

// RedisConfig selects the shared credential store.
type RedisConfig struct {
	Addr   string `json:"addr"`
	DB     int    `json:"db"`
	Prefix string `json:"prefix"`
}

// Default returns the settings used when no config file exists.
func Default() Config {
	return Config{
		APIURL: "http://localhost:8080/api",
		Endpoints: Endpoints{
			Login:   "/auth/login",
			Me:      "/users/me",
			Version: "/version",
		},
		Store:          StoreKeyring,
		Redis:          RedisConfig{Addr: "localhost:6379", Prefix: "portal:"},
		LogLevel:       "warn",
		LogFormat:      "text",
		TimeoutSeconds: 10,
	}
}

// Timeout returns the HTTP timeout as a duration.
func (c Config) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// path returns the path to the config file.
func path() (string, error) {
	dir, err := xdg.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads configuration; missing file returns defaults. Environment
// overrides are applied in both cases.
func Load() (Config, error) {
	c, err := LoadFile()
	if err != nil {
		return c, err
	}
	applyEnv(&c)
	return c, nil
}

// LoadFile reads the config file over the defaults, without environment
// overrides. It is the base for anything that writes the file back.
func LoadFile() (Config, error) {
	c := Default()
	p, err := path()
	if err != nil {
		return c, err
	}
	data, err := os.ReadFile(p)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return c, err
	default:
		if err := json.Unmarshal(data, &c); err != nil {
			return c, err
		}
	}
	return c, nil
}

// RememberAPIURL stores url as the API URL in the config file and leaves every
// other saved setting as it was.
func RememberAPIURL(url string) error {
	c, err := LoadFile()
	if err != nil {
		return err
	}
	c.APIURL = url
	return Save(c)
}

// Save writes configuration with 0600 permissions.
func Save(c Config) error {
	p, err := path()
	if err != nil {
		return err
	}
	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(p, b, 0o600)
}

func applyEnv(c *Config) {
	setString(&c.APIURL, "PORTAL_API_URL")
	setString(&c.Endpoints.Login, "PORTAL_LOGIN_PATH")
	setString(&c.Endpoints.Me, "PORTAL_ME_PATH")
	setString(&c.Store, "PORTAL_STORE")
	setString(&c.Redis.Addr, "PORTAL_REDIS_ADDR")
	setString(&c.LogLevel, "PORTAL_LOG_LEVEL")
	setString(&c.LogFormat, "PORTAL_LOG_FORMAT")
	if v, err := strconv.Atoi(os.Getenv("PORTAL_TIMEOUT_SECONDS")); err == nil && v > 0 {
		c.TimeoutSeconds = v
	}
}

func setString(dst *string, env string) {
	if v := os.Getenv(env); v != "" {
		*dst = v
	}
}
