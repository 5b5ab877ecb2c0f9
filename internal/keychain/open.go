// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package keychain

import (
	"context"
	"fmt"

	"portal/cli/internal/config"
)

// Open builds a Manager for the store selected in cfg.
func Open(ctx context.Context, cfg config.Config) (*Manager, error) {
	var (
		b   Backend
		err error
	)
	switch cfg.Store {
	case config.StoreKeyring, "":
		b, err = OpenNative()
	case config.StoreFile:
		b, err = OpenFile()
	case config.StoreRedis:
		b, err = OpenRedis(ctx, cfg.Redis.Addr, cfg.Redis.DB, cfg.Redis.Prefix)
	default:
		return nil, fmt.Errorf("unknown credential store %q", cfg.Store)
	}
	if err != nil {
		return nil, err
	}
	return NewManager(b), nil
}
