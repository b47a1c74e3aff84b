package database

import (
	"database/sql"
	"fmt"
	"log/slog"
)

// DefaultVideoURLs is the playlist seeded into an empty development database.
var DefaultVideoURLs = []string{
	"https://cdn.tavola.local/videos/kitchen.mp4",
	"https://cdn.tavola.local/videos/dining-room.mp4",
}

// Seed populates the database with initial development data.
// It inserts the default video playlist if the playlist is empty.
// Layouts and theme overrides are not seeded: an empty store already
// resolves to the default layout and the upstream theme.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM site_videos").Scan(&count); err != nil {
		return fmt.Errorf("seed check videos: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed begin: %w", err)
	}
	defer tx.Rollback()

	for i, url := range DefaultVideoURLs {
		if _, err := tx.Exec(
			"INSERT INTO site_videos (url, position) VALUES ($1, $2)", url, i,
		); err != nil {
			return fmt.Errorf("seed insert video: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed commit: %w", err)
	}

	slog.Info("database seeded with default video playlist", "videos", len(DefaultVideoURLs))
	return nil
}
