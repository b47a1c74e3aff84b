// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"tavola/internal/layout"
	"tavola/internal/models"
	"tavola/internal/theme"
	"tavola/internal/upstream"
)

// Upstream is the POS platform client.
type Upstream interface {
	Payload(ctx context.Context) ([]byte, error)
	Live(ctx context.Context) ([]byte, error)
	Bootstrap(ctx context.Context) ([]byte, bool, error)
}

// VideoStore persists the hero video playlist.
type VideoStore interface {
	List(ctx context.Context) ([]models.SiteVideo, error)
	Replace(ctx context.Context, urls []string) ([]models.SiteVideo, error)
}

// Public groups the unauthenticated site data handlers.
type Public struct {
	upstream Upstream
	layouts  *layout.Manager
	themes   *theme.Service
	videos   VideoStore
}

// NewPublic creates a new Public handler group.
func NewPublic(up Upstream, layouts *layout.Manager, themes *theme.Service, videos VideoStore) *Public {
	return &Public{upstream: up, layouts: layouts, themes: themes, videos: videos}
}

// Client returns the upstream client record.
func (p *Public) Client(w http.ResponseWriter, r *http.Request) {
	payload, err := p.upstream.Payload(r.Context())
	if err != nil {
		internalError(w, "fetch upstream client", err)
		return
	}
	writeJSON(w, http.StatusOK, upstream.ClientRecord(payload))
}

// Menu returns {"menuItems": [...]}.
func (p *Public) Menu(w http.ResponseWriter, r *http.Request) {
	payload, err := p.upstream.Payload(r.Context())
	if err != nil {
		internalError(w, "fetch upstream menu", err)
		return
	}
	items, err := upstream.MenuItems(payload)
	if err != nil {
		internalError(w, "extract menu items", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]json.RawMessage{"menuItems": items})
}

// Categories returns {"categories": [...]}.
func (p *Public) Categories(w http.ResponseWriter, r *http.Request) {
	payload, err := p.upstream.Payload(r.Context())
	if err != nil {
		internalError(w, "fetch upstream categories", err)
		return
	}
	cats, err := upstream.Categories(payload)
	if err != nil {
		internalError(w, "extract categories", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]json.RawMessage{"categories": cats})
}

// Theme returns the effective theme: upstream colors with admin overrides
// applied.
func (p *Public) Theme(w http.ResponseWriter, r *http.Request) {
	payload, _, err := p.upstream.Bootstrap(r.Context())
	if err != nil {
		internalError(w, "fetch upstream theme", err)
		return
	}
	effective, _, err := p.themes.Effective(r.Context(), theme.Extract(upstream.ClientRecord(payload)))
	if err != nil {
		internalError(w, "read theme overrides", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"effectiveTheme": effective})
}

// Layout returns the live layout of the requested page.
func (p *Public) Layout(w http.ResponseWriter, r *http.Request) {
	pageKey, ok := requestPageKey(w, r)
	if !ok {
		return
	}
	current, err := p.layouts.ReadCurrent(r.Context(), pageKey)
	if err != nil {
		internalError(w, "read current layout", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"pageKey": pageKey, "current": current})
}

// Videos returns the playlist URLs in order.
func (p *Public) Videos(w http.ResponseWriter, r *http.Request) {
	videos, err := p.videos.List(r.Context())
	if err != nil {
		internalError(w, "list videos", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"videoUrls": models.VideoURLs(videos)})
}

// siteResponse is everything the home page needs in one round trip.
type siteResponse struct {
	Client    json.RawMessage       `json:"client"`
	Theme     theme.Values          `json:"theme"`
	Layout    *models.CurrentLayout `json:"layout"`
	VideoURLs []string              `json:"videoUrls"`
	Stale     bool                  `json:"stale"`
}

// Site returns the combined bootstrap for the home page. Each part
// degrades on its own: a failed part falls back to its empty or default
// value instead of failing the whole response.
func (p *Public) Site(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	resp := siteResponse{Client: json.RawMessage("null"), VideoURLs: []string{}}

	pos := theme.Values{}
	payload, stale, err := p.upstream.Bootstrap(ctx)
	if err != nil {
		slog.Error("site bootstrap upstream", "error", err)
		resp.Stale = true
	} else {
		resp.Client = upstream.ClientRecord(payload)
		resp.Stale = stale
		pos = theme.Extract(resp.Client)
	}

	effective, _, err := p.themes.Effective(ctx, pos)
	if err != nil {
		slog.Error("site bootstrap theme overrides", "error", err)
		effective = pos
	}
	resp.Theme = effective

	current, err := p.layouts.ReadCurrent(ctx, layout.PageHome)
	if err != nil {
		slog.Error("site bootstrap layout", "error", err)
		def, _ := layout.DefaultLayout(layout.PageHome)
		current = &models.CurrentLayout{Layout: def}
	}
	resp.Layout = current

	if videos, err := p.videos.List(ctx); err != nil {
		slog.Error("site bootstrap videos", "error", err)
	} else {
		resp.VideoURLs = models.VideoURLs(videos)
	}

	writeJSON(w, http.StatusOK, resp)
}

// requestPageKey reads ?page= (default "home") and answers 400 for an
// unknown page.
func requestPageKey(w http.ResponseWriter, r *http.Request) (string, bool) {
	pageKey := r.URL.Query().Get("page")
	if pageKey == "" {
		pageKey = layout.PageHome
	}
	if !layout.IsPageKey(pageKey) {
		writeError(w, http.StatusBadRequest, "Invalid page key")
		return "", false
	}
	return pageKey, true
}
