// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// LayoutSectionID identifies one homepage block that can be toggled and reordered.
type LayoutSectionID string

// Known section IDs.
const (
	SectionTicker     LayoutSectionID = "ticker"
	SectionStory      LayoutSectionID = "story"
	SectionSeasonal   LayoutSectionID = "seasonal"
	SectionCategories LayoutSectionID = "categories"
	SectionContact    LayoutSectionID = "contact"
)

// LayoutSection describes a catalog entry shown in the admin layout editor.
type LayoutSection struct {
	ID          LayoutSectionID `json:"id"`
	Label       string          `json:"label"`
	Description string          `json:"description"`
}

// LayoutItem is a single positioned section in a layout.
type LayoutItem struct {
	ID      LayoutSectionID `json:"id"`
	Enabled bool            `json:"enabled"`
}

// LayoutConfig is an ordered arrangement of sections. Position in Items
// is the display order.
type LayoutConfig struct {
	Items []LayoutItem `json:"items"`
}

// LayoutRecord is a site_layout_versions row as stored. Layout holds the
// raw JSON document, which may predate the current section catalog.
type LayoutRecord struct {
	ID        uuid.UUID
	PageKey   string
	Layout    json.RawMessage
	CreatedAt time.Time
	CreatedBy *string
}

// LayoutVersion is an immutable entry in a page's layout history.
type LayoutVersion struct {
	ID        uuid.UUID    `json:"id"`
	PageKey   string       `json:"page_key"`
	Layout    LayoutConfig `json:"layout"`
	CreatedAt time.Time    `json:"created_at"`
	CreatedBy *string      `json:"created_by"`
}

// CurrentLayout is the layout a page currently displays. VersionID is nil
// when no version has ever been saved and Layout is the built-in default.
type CurrentLayout struct {
	VersionID *uuid.UUID   `json:"versionId"`
	Layout    LayoutConfig `json:"layout"`
}
