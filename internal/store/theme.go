// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
)

// ThemeStore persists the singleton theme overrides row (id = 1).
type ThemeStore struct {
	db *sql.DB
}

// NewThemeStore creates a new ThemeStore.
func NewThemeStore(db *sql.DB) *ThemeStore {
	return &ThemeStore{db: db}
}

// Overrides returns the stored overrides document, or nil if the row has
// never been written.
func (s *ThemeStore) Overrides(ctx context.Context) ([]byte, error) {
	var doc []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT overrides FROM site_theme_settings WHERE id = 1`,
	).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, unavailable("read theme overrides", err)
	}
	return doc, nil
}

// ReplaceOverrides overwrites the whole overrides document.
func (s *ThemeStore) ReplaceOverrides(ctx context.Context, doc []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO site_theme_settings (id, overrides, updated_at)
		VALUES (1, $1::jsonb, NOW())
		ON CONFLICT (id) DO UPDATE
		SET overrides = EXCLUDED.overrides, updated_at = NOW()
	`, string(doc))
	if err != nil {
		return unavailable("write theme overrides", err)
	}
	return nil
}
