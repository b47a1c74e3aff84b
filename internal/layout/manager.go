// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package layout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"tavola/internal/models"
)

// ErrVersionNotFound is returned by Restore when the version does not
// exist for the page. The current pointer is left untouched.
var ErrVersionNotFound = errors.New("layout version not found")

// Store persists the version log and the per-page current pointer.
// Lookups that find nothing return (nil, nil).
type Store interface {
	// Current returns the version the page pointer references.
	Current(ctx context.Context, pageKey string) (*models.LayoutRecord, error)
	// History returns every version of a page, newest first.
	History(ctx context.Context, pageKey string) ([]models.LayoutRecord, error)
	// Append inserts rec and repoints the page at it in one transaction.
	// CreatedAt is filled in from the database.
	Append(ctx context.Context, rec *models.LayoutRecord) error
	// Restore repoints the page at an existing version of that page.
	Restore(ctx context.Context, pageKey string, id uuid.UUID) (*models.LayoutRecord, error)
}

// Manager implements save, restore and history over a Store.
type Manager struct {
	store Store
	newID func() uuid.UUID
}

// NewManager creates a Manager backed by store.
func NewManager(store Store) *Manager {
	return &Manager{store: store, newID: uuid.New}
}

// ReadCurrent returns the live layout for pageKey. A page that was never
// saved yields the default layout and a nil version ID.
func (m *Manager) ReadCurrent(ctx context.Context, pageKey string) (*models.CurrentLayout, error) {
	def, err := DefaultLayout(pageKey)
	if err != nil {
		return nil, err
	}

	rec, err := m.store.Current(ctx, pageKey)
	if err != nil {
		return nil, fmt.Errorf("read current layout: %w", err)
	}
	if rec == nil {
		return &models.CurrentLayout{Layout: def}, nil
	}

	id := rec.ID
	return &models.CurrentLayout{VersionID: &id, Layout: Normalize(rec.Layout, pageKey)}, nil
}

// ListHistory returns all versions for pageKey, newest first, each with a
// normalized layout.
func (m *Manager) ListHistory(ctx context.Context, pageKey string) ([]models.LayoutVersion, error) {
	if !IsPageKey(pageKey) {
		return nil, ErrInvalidPageKey
	}

	records, err := m.store.History(ctx, pageKey)
	if err != nil {
		return nil, fmt.Errorf("list layout history: %w", err)
	}

	versions := make([]models.LayoutVersion, 0, len(records))
	for _, rec := range records {
		versions = append(versions, models.LayoutVersion{
			ID:        rec.ID,
			PageKey:   rec.PageKey,
			Layout:    Normalize(rec.Layout, pageKey),
			CreatedAt: rec.CreatedAt,
			CreatedBy: rec.CreatedBy,
		})
	}
	return versions, nil
}

// Save normalizes raw, stores it as a new version and makes it current.
// The returned layout is what was stored, which may differ from raw.
func (m *Manager) Save(ctx context.Context, pageKey string, raw []byte, createdBy string) (*models.CurrentLayout, error) {
	if !IsPageKey(pageKey) {
		return nil, ErrInvalidPageKey
	}

	cfg := Normalize(raw, pageKey)
	payload, err := json.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("marshal layout: %w", err)
	}

	rec := &models.LayoutRecord{
		ID:      m.newID(),
		PageKey: pageKey,
		Layout:  payload,
	}
	if createdBy != "" {
		rec.CreatedBy = &createdBy
	}

	if err := m.store.Append(ctx, rec); err != nil {
		return nil, fmt.Errorf("save layout version: %w", err)
	}

	id := rec.ID
	return &models.CurrentLayout{VersionID: &id, Layout: cfg}, nil
}

// Restore makes an existing version current again without copying it.
func (m *Manager) Restore(ctx context.Context, pageKey string, versionID uuid.UUID) (*models.CurrentLayout, error) {
	if !IsPageKey(pageKey) {
		return nil, ErrInvalidPageKey
	}

	rec, err := m.store.Restore(ctx, pageKey, versionID)
	if err != nil {
		return nil, fmt.Errorf("restore layout version: %w", err)
	}
	if rec == nil {
		return nil, ErrVersionNotFound
	}

	id := rec.ID
	return &models.CurrentLayout{VersionID: &id, Layout: Normalize(rec.Layout, pageKey)}, nil
}
