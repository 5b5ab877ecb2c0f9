// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package keychain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisOpTimeout = 3 * time.Second

// ErrRedisUnavailable wraps connection failures of the Redis store.
var ErrRedisUnavailable = errors.New("redis unavailable")

// redisBackend keeps credentials in Redis under a key prefix, for shared
// workstations and CI runners that have no native secret store.
type redisBackend struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisBackend wraps an existing client. Keys are stored as prefix+key.
func NewRedisBackend(client redis.UniversalClient, prefix string) Backend {
	return &redisBackend{client: client, prefix: prefix}
}

// OpenRedis connects to addr and verifies the connection with PING.
func OpenRedis(ctx context.Context, addr string, db int, prefix string) (Backend, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, DB: db})
	pctx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()
	if err := client.Ping(pctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return NewRedisBackend(client, prefix), nil
}

func (r *redisBackend) Set(key, value string) error {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()
	return r.client.Set(ctx, r.prefix+key, value, 0).Err()
}

func (r *redisBackend) Get(key string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()
	v, err := r.client.Get(ctx, r.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	return v, err
}

func (r *redisBackend) Delete(key string) error {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()
	return r.client.Del(ctx, r.prefix+key).Err()
}

func (r *redisBackend) Close() error { return r.client.Close() }
