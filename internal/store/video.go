// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"

	"tavola/internal/models"
)

// VideoStore handles the background video playlist.
type VideoStore struct {
	db *sql.DB
}

// NewVideoStore creates a new VideoStore.
func NewVideoStore(db *sql.DB) *VideoStore {
	return &VideoStore{db: db}
}

// List returns the playlist in play order.
func (s *VideoStore) List(ctx context.Context) ([]models.SiteVideo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, url, position, created_at
		FROM site_videos
		ORDER BY position ASC, created_at ASC
	`)
	if err != nil {
		return nil, unavailable("list videos", err)
	}
	defer rows.Close()

	items := []models.SiteVideo{}
	for rows.Next() {
		var v models.SiteVideo
		if err := rows.Scan(&v.ID, &v.URL, &v.Position, &v.CreatedAt); err != nil {
			return nil, unavailable("scan video", err)
		}
		items = append(items, v)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("list videos", err)
	}
	return items, nil
}

// Replace swaps the whole playlist for urls, keeping their order.
func (s *VideoStore) Replace(ctx context.Context, urls []string) ([]models.SiteVideo, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, unavailable("begin replace videos", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM site_videos`); err != nil {
		return nil, unavailable("clear videos", err)
	}

	items := make([]models.SiteVideo, 0, len(urls))
	for i, url := range urls {
		v := models.SiteVideo{URL: url, Position: i}
		err := tx.QueryRowContext(ctx, `
			INSERT INTO site_videos (url, position)
			VALUES ($1, $2)
			RETURNING id, created_at
		`, url, i).Scan(&v.ID, &v.CreatedAt)
		if err != nil {
			return nil, unavailable("insert video", err)
		}
		items = append(items, v)
	}

	if err := tx.Commit(); err != nil {
		return nil, unavailable("commit replace videos", err)
	}
	return items, nil
}
