// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"tavola/internal/models"
)

// LayoutStore handles the layout version log and the current pointers.
type LayoutStore struct {
	db *sql.DB
}

// NewLayoutStore creates a new LayoutStore.
func NewLayoutStore(db *sql.DB) *LayoutStore {
	return &LayoutStore{db: db}
}

// layoutColumns lists the columns selected in layout version queries.
const layoutColumns = `v.id, v.page_key, v.layout, v.created_at, v.created_by`

// scanLayout scans a layout version row from the result set.
func scanLayout(scanner interface{ Scan(...any) error }) (*models.LayoutRecord, error) {
	var (
		rec       models.LayoutRecord
		layout    []byte
		createdBy sql.NullString
	)
	if err := scanner.Scan(&rec.ID, &rec.PageKey, &layout, &rec.CreatedAt, &createdBy); err != nil {
		return nil, err
	}
	rec.Layout = layout
	if createdBy.Valid {
		rec.CreatedBy = &createdBy.String
	}
	return &rec, nil
}

// Current returns the version the page's pointer references, or nil if
// the page has never been saved.
func (s *LayoutStore) Current(ctx context.Context, pageKey string) (*models.LayoutRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+layoutColumns+`
		FROM site_layout_current c
		JOIN site_layout_versions v ON v.id = c.version_id
		WHERE c.page_key = $1
	`, pageKey)
	rec, err := scanLayout(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, unavailable("find current layout", err)
	}
	return rec, nil
}

// History returns every version of a page, newest first.
func (s *LayoutStore) History(ctx context.Context, pageKey string) ([]models.LayoutRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+layoutColumns+`
		FROM site_layout_versions v
		WHERE v.page_key = $1
		ORDER BY v.created_at DESC, v.id DESC
	`, pageKey)
	if err != nil {
		return nil, unavailable("list layout history", err)
	}
	defer rows.Close()

	items := []models.LayoutRecord{}
	for rows.Next() {
		rec, err := scanLayout(rows)
		if err != nil {
			return nil, unavailable("scan layout version", err)
		}
		items = append(items, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("list layout history", err)
	}
	return items, nil
}

// Append inserts a new version and points the page at it.
// Uses a transaction so the log and the pointer never disagree.
func (s *LayoutStore) Append(ctx context.Context, rec *models.LayoutRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return unavailable("begin append layout", err)
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx, `
		INSERT INTO site_layout_versions (id, page_key, layout, created_by)
		VALUES ($1, $2, $3::jsonb, $4)
		RETURNING created_at
	`, rec.ID, rec.PageKey, string(rec.Layout), rec.CreatedBy).Scan(&rec.CreatedAt)
	if err != nil {
		return unavailable("insert layout version", err)
	}

	if err := upsertPointer(ctx, tx, rec.PageKey, rec.ID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return unavailable("commit append layout", err)
	}
	return nil
}

// Restore points the page at an existing version of that same page and
// returns it. Returns nil if no such version exists; the pointer is then
// left as it was.
func (s *LayoutStore) Restore(ctx context.Context, pageKey string, id uuid.UUID) (*models.LayoutRecord, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, unavailable("begin restore layout", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx, `
		SELECT `+layoutColumns+`
		FROM site_layout_versions v
		WHERE v.id = $1 AND v.page_key = $2
	`, id, pageKey)
	rec, err := scanLayout(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, unavailable("find layout version", err)
	}

	if err := upsertPointer(ctx, tx, pageKey, id); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, unavailable("commit restore layout", err)
	}
	return rec, nil
}

func upsertPointer(ctx context.Context, tx *sql.Tx, pageKey string, id uuid.UUID) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO site_layout_current (page_key, version_id, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (page_key) DO UPDATE
		SET version_id = EXCLUDED.version_id, updated_at = NOW()
	`, pageKey, id)
	if err != nil {
		return unavailable("update layout pointer", err)
	}
	return nil
}
