// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store implements the PostgreSQL-backed configuration store:
// layout versions and their per-page pointer, theme overrides and the
// video playlist.
package store

import (
	"errors"
	"fmt"
)

// ErrUnavailable wraps every failure to reach or query the database.
// Callers branch on it with errors.Is; the cause is kept in the chain.
var ErrUnavailable = errors.New("config store unavailable")

func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrUnavailable, err)
}
