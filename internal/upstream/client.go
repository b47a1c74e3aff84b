// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package upstream talks to the POS ordering platform's client-and-menu
// endpoint. Payloads are cached in Valkey with a TTL, kept as a
// non-expiring stale copy, and optionally snapshotted to S3 so the public
// site can still bootstrap while the platform is down.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/tidwall/gjson"
	"golang.org/x/sync/singleflight"
)

// DefaultURL is the platform endpoint used when MAXORDER_UPSTREAM is unset.
const DefaultURL = "https://australia-southeast1-maxordering.cloudfunctions.net/thirdpartyaccess/getClientAndMenu"

var (
	// ErrNotConfigured is returned when the URL, API key or client ID is missing.
	ErrNotConfigured = errors.New("MAXORDER upstream config is not set")

	// ErrBadPayload is returned when the platform answers with something
	// other than the expected JSON shape.
	ErrBadPayload = errors.New("invalid upstream payload")
)

// Config holds the platform credentials and cache policy.
type Config struct {
	URL      string
	APIKey   string
	ClientID string
	CacheTTL time.Duration
	Timeout  time.Duration
}

// Configured reports whether every field needed for a request is set.
func (c Config) Configured() bool {
	return c.URL != "" && c.APIKey != "" && c.ClientID != ""
}

// Cache is the payload cache. A zero ttl means no expiry.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, payload []byte, ttl time.Duration)
}

// Snapshots is durable storage for the last good payload.
// GetSnapshot returns (nil, nil) when nothing was stored.
type Snapshots interface {
	PutSnapshot(ctx context.Context, key string, doc []byte) error
	GetSnapshot(ctx context.Context, key string) ([]byte, error)
}

// Client fetches and caches upstream payloads. Concurrent fetches for the
// same client are collapsed into one request.
type Client struct {
	cfg       Config
	http      *http.Client
	cache     Cache
	snapshots Snapshots
	group     singleflight.Group
}

// New creates a Client. cache and snapshots may be nil.
func New(cfg Config, cache Cache, snapshots Snapshots) *Client {
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = time.Hour
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Client{
		cfg:       cfg,
		http:      &http.Client{Timeout: cfg.Timeout},
		cache:     cache,
		snapshots: snapshots,
	}
}

func (c *Client) freshKey() string    { return "client:" + c.cfg.ClientID }
func (c *Client) staleKey() string    { return "client-stale:" + c.cfg.ClientID }
func (c *Client) snapshotKey() string { return "upstream/" + c.cfg.ClientID + ".json" }

// Payload returns the cached payload, fetching it when the cache is cold.
func (c *Client) Payload(ctx context.Context) ([]byte, error) {
	if !c.cfg.Configured() {
		return nil, ErrNotConfigured
	}
	if c.cache != nil {
		if payload, ok := c.cache.Get(ctx, c.freshKey()); ok {
			return payload, nil
		}
	}
	return c.Live(ctx)
}

// Live always asks the platform, then refreshes every cache layer.
func (c *Client) Live(ctx context.Context) ([]byte, error) {
	if !c.cfg.Configured() {
		return nil, ErrNotConfigured
	}

	v, err, _ := c.group.Do(c.cfg.ClientID, func() (any, error) {
		// Detached from the first caller so its cancellation does not fail
		// the callers sharing this fetch.
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.cfg.Timeout)
		defer cancel()

		payload, err := c.fetch(fctx)
		if err != nil {
			return nil, err
		}
		c.remember(fctx, payload)
		return payload, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

// Bootstrap returns a payload for page rendering. When the platform
// cannot be reached it falls back to the stale cache copy and then to the
// S3 snapshot; stale reports that a fallback was used.
func (c *Client) Bootstrap(ctx context.Context) (payload []byte, stale bool, err error) {
	payload, err = c.Payload(ctx)
	if err == nil {
		return payload, false, nil
	}
	if errors.Is(err, ErrNotConfigured) {
		return nil, false, err
	}

	if c.cache != nil {
		if p, ok := c.cache.Get(ctx, c.staleKey()); ok {
			slog.Warn("upstream unavailable, serving stale cache", "error", err)
			return p, true, nil
		}
	}

	if c.snapshots != nil {
		p, serr := c.snapshots.GetSnapshot(ctx, c.snapshotKey())
		if serr != nil {
			slog.Error("read upstream snapshot", "error", serr)
		}
		if p != nil {
			slog.Warn("upstream unavailable, serving snapshot", "error", err)
			return p, true, nil
		}
	}

	return nil, false, err
}

func (c *Client) fetch(ctx context.Context) ([]byte, error) {
	body, err := json.Marshal(map[string]string{"clientId": c.cfg.ClientID})
	if err != nil {
		return nil, fmt.Errorf("upstream marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("upstream request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.cfg.APIKey)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upstream http: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("upstream read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("upstream status %d", resp.StatusCode)
	}
	if !gjson.ValidBytes(respBody) {
		return nil, fmt.Errorf("%w: response is not JSON", ErrBadPayload)
	}

	slog.Debug("upstream fetched", "bytes", len(respBody), "duration", time.Since(start).String())
	return respBody, nil
}

// remember writes a fresh payload to the TTL key, the stale key and the
// snapshot. Failures are logged only.
func (c *Client) remember(ctx context.Context, payload []byte) {
	if c.cache != nil {
		c.cache.Set(ctx, c.freshKey(), payload, c.cfg.CacheTTL)
		c.cache.Set(ctx, c.staleKey(), payload, 0)
	}
	if c.snapshots != nil {
		if err := c.snapshots.PutSnapshot(ctx, c.snapshotKey(), payload); err != nil {
			slog.Warn("write upstream snapshot", "error", err)
		}
	}
}
