// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	"tavola/internal/layout"
	"tavola/internal/models"
	"tavola/internal/theme"
	"tavola/internal/upstream"
)

// adminAuthor is recorded as created_by on layouts saved from the admin.
const adminAuthor = "admin"

// Admin groups the authenticated editor handlers.
type Admin struct {
	upstream Upstream
	layouts  *layout.Manager
	themes   *theme.Service
	videos   VideoStore
}

// NewAdmin creates a new Admin handler group.
func NewAdmin(up Upstream, layouts *layout.Manager, themes *theme.Service, videos VideoStore) *Admin {
	return &Admin{upstream: up, layouts: layouts, themes: themes, videos: videos}
}

// LayoutGet returns the section catalog, the current layout and the full
// history of a page. A failed current read falls back to the default
// layout so the editor still opens.
func (a *Admin) LayoutGet(w http.ResponseWriter, r *http.Request) {
	pageKey, ok := requestPageKey(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	current, err := a.layouts.ReadCurrent(ctx, pageKey)
	if err != nil {
		slog.Warn("read current layout, using default", "page", pageKey, "error", err)
		def, _ := layout.DefaultLayout(pageKey)
		current = &models.CurrentLayout{Layout: def}
	}

	history, err := a.layouts.ListHistory(ctx, pageKey)
	if err != nil {
		internalError(w, "list layout history", err)
		return
	}

	sections, _ := layout.Sections(pageKey)

	writeJSON(w, http.StatusOK, map[string]any{
		"pageKey":  pageKey,
		"sections": sections,
		"current":  current,
		"history":  history,
	})
}

// LayoutPost saves a new layout version, or restores an old one when the
// body is {"action":"restore","versionId":...}.
func (a *Admin) LayoutPost(w http.ResponseWriter, r *http.Request) {
	pageKey, ok := requestPageKey(w, r)
	if !ok {
		return
	}
	body, ok := readJSON(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	if gjson.GetBytes(body, "action").String() == "restore" {
		raw := gjson.GetBytes(body, "versionId")
		if !raw.Exists() || raw.Type == gjson.Null || raw.Type == gjson.False || raw.String() == "" {
			writeError(w, http.StatusUnprocessableEntity, "versionId is required")
			return
		}
		id, err := uuid.Parse(raw.String())
		if err != nil {
			writeError(w, http.StatusNotFound, "Version not found")
			return
		}

		restored, err := a.layouts.Restore(ctx, pageKey, id)
		if errors.Is(err, layout.ErrVersionNotFound) {
			writeError(w, http.StatusNotFound, "Version not found")
			return
		}
		if err != nil {
			internalError(w, "restore layout", err)
			return
		}

		slog.Info("layout restored", "page", pageKey, "version", id)
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "current": restored})
		return
	}

	saved, err := a.layouts.Save(ctx, pageKey, objectOr(body, "layout"), adminAuthor)
	if err != nil {
		internalError(w, "save layout", err)
		return
	}

	slog.Info("layout saved", "page", pageKey, "version", saved.VersionID)
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "current": saved})
}

// ThemeGet returns the live upstream theme, the stored overrides and
// their merge. Always asks the platform so the editor never shows a
// stale POS theme.
func (a *Admin) ThemeGet(w http.ResponseWriter, r *http.Request) {
	payload, err := a.upstream.Live(r.Context())
	if err != nil {
		internalError(w, "fetch upstream theme", err)
		return
	}

	pos := theme.Extract(upstream.ClientRecord(payload))
	effective, overrides, err := a.themes.Effective(r.Context(), pos)
	if err != nil {
		internalError(w, "read theme overrides", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"posTheme":       pos,
		"overrides":      overrides,
		"effectiveTheme": effective,
	})
}

// ThemePost replaces the overrides, or clears them for {"action":"reset"}.
// Invalid colors are dropped; the response carries what was stored.
func (a *Admin) ThemePost(w http.ResponseWriter, r *http.Request) {
	body, ok := readJSON(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	if gjson.GetBytes(body, "action").String() == "reset" {
		if err := a.themes.Reset(ctx); err != nil {
			internalError(w, "reset theme overrides", err)
			return
		}
		slog.Info("theme overrides reset")
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "overrides": theme.Overrides{}})
		return
	}

	saved, err := a.themes.WriteOverrides(ctx, theme.SanitizeJSON(objectOr(body, "overrides")))
	if err != nil {
		internalError(w, "write theme overrides", err)
		return
	}

	slog.Info("theme overrides saved", "keys", len(saved))
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "overrides": saved})
}

// VideoSave replaces the playlist.
func (a *Admin) VideoSave(w http.ResponseWriter, r *http.Request) {
	body, ok := readJSON(w, r)
	if !ok {
		return
	}

	urls, msg := validateVideoURLs(body)
	if msg != "" {
		writeError(w, http.StatusUnprocessableEntity, msg)
		return
	}

	saved, err := a.videos.Replace(r.Context(), urls)
	if err != nil {
		internalError(w, "replace videos", err)
		return
	}

	slog.Info("video playlist saved", "videos", len(saved))
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "videoUrls": models.VideoURLs(saved)})
}
