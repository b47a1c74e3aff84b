// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package layout manages versioned homepage section arrangements. Every
// save appends an immutable version; a per-page pointer selects which
// version is live, so restoring an old arrangement never grows history.
package layout

import (
	"errors"

	"tavola/internal/models"
)

// PageHome is the only page with a configurable layout today.
const PageHome = "home"

// ErrInvalidPageKey is returned for page keys outside the known catalog.
var ErrInvalidPageKey = errors.New("invalid page key")

// sections is the fixed section catalog per page key, in default order.
var sections = map[string][]models.LayoutSection{
	PageHome: {
		{ID: models.SectionTicker, Label: "Ticker", Description: "Scrolling announcement banner."},
		{ID: models.SectionStory, Label: "Our Story", Description: "Brand story with image."},
		{ID: models.SectionSeasonal, Label: "Seasonal Offers", Description: "Showcase specials section."},
		{ID: models.SectionCategories, Label: "Categories", Description: "Category carousel."},
		{ID: models.SectionContact, Label: "Contact", Description: "Contact details and map."},
	},
}

// IsPageKey reports whether key names a page with a section catalog.
func IsPageKey(key string) bool {
	_, ok := sections[key]
	return ok
}

// Sections returns a copy of the section catalog for pageKey.
func Sections(pageKey string) ([]models.LayoutSection, error) {
	list, ok := sections[pageKey]
	if !ok {
		return nil, ErrInvalidPageKey
	}
	out := make([]models.LayoutSection, len(list))
	copy(out, list)
	return out, nil
}

// DefaultLayout is every catalog section, enabled, in catalog order.
func DefaultLayout(pageKey string) (models.LayoutConfig, error) {
	list, ok := sections[pageKey]
	if !ok {
		return models.LayoutConfig{}, ErrInvalidPageKey
	}
	items := make([]models.LayoutItem, 0, len(list))
	for _, s := range list {
		items = append(items, models.LayoutItem{ID: s.ID, Enabled: true})
	}
	return models.LayoutConfig{Items: items}, nil
}

// known reports whether id belongs to the catalog of pageKey.
func known(pageKey string, id models.LayoutSectionID) bool {
	for _, s := range sections[pageKey] {
		if s.ID == id {
			return true
		}
	}
	return false
}
