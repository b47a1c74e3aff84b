// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// payloadKeyPrefix is the Valkey key prefix for cached upstream payloads.
const payloadKeyPrefix = "upstream:"

// PayloadCache stores raw upstream JSON payloads in Valkey. Cache errors
// are logged and treated as misses so a Valkey outage never fails a request.
type PayloadCache struct {
	client *redis.Client
}

// NewPayloadCache creates a payload cache backed by the given Valkey client.
func NewPayloadCache(client *redis.Client) *PayloadCache {
	return &PayloadCache{client: client}
}

// Get returns the cached payload for key. The bool is false on a miss.
func (pc *PayloadCache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := pc.client.Get(ctx, payloadKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		slog.Warn("payload cache get error", "key", key, "error", err)
		return nil, false
	}
	slog.Debug("payload cache hit", "key", key)
	return val, true
}

// Set stores payload under key. A zero ttl keeps it until overwritten.
func (pc *PayloadCache) Set(ctx context.Context, key string, payload []byte, ttl time.Duration) {
	if err := pc.client.Set(ctx, payloadKeyPrefix+key, payload, ttl).Err(); err != nil {
		slog.Warn("payload cache set error", "key", key, "error", err)
	}
}
