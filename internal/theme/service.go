// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package theme

import (
	"context"
	"encoding/json"
	"fmt"
)

// Store persists the singleton overrides document as raw JSON.
// Overrides returns nil when nothing has been stored yet.
type Store interface {
	Overrides(ctx context.Context) ([]byte, error)
	ReplaceOverrides(ctx context.Context, doc []byte) error
}

// Service reads and writes theme overrides.
type Service struct {
	store Store
}

// NewService creates a Service backed by store.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// ReadOverrides returns the stored overrides, sanitized. An empty set is
// returned when none are stored.
func (s *Service) ReadOverrides(ctx context.Context) (Overrides, error) {
	doc, err := s.store.Overrides(ctx)
	if err != nil {
		return nil, fmt.Errorf("read theme overrides: %w", err)
	}
	return SanitizeJSON(doc), nil
}

// WriteOverrides sanitizes o and replaces the stored overrides with the
// result. Callers should use the return value; sanitizing may drop keys.
func (s *Service) WriteOverrides(ctx context.Context, o Overrides) (Overrides, error) {
	clean := o.Sanitize()
	doc, err := json.Marshal(clean)
	if err != nil {
		return nil, fmt.Errorf("marshal theme overrides: %w", err)
	}
	if err := s.store.ReplaceOverrides(ctx, doc); err != nil {
		return nil, fmt.Errorf("write theme overrides: %w", err)
	}
	return clean, nil
}

// Reset clears all overrides so the effective theme is the POS theme.
func (s *Service) Reset(ctx context.Context) error {
	_, err := s.WriteOverrides(ctx, Overrides{})
	return err
}

// Effective merges the stored overrides over pos.
func (s *Service) Effective(ctx context.Context, pos Values) (Values, Overrides, error) {
	overrides, err := s.ReadOverrides(ctx)
	if err != nil {
		return Values{}, nil, err
	}
	return Merge(pos, overrides), overrides, nil
}
