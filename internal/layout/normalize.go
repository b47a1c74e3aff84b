// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package layout

import (
	"github.com/tidwall/gjson"

	"tavola/internal/models"
)

// Normalize turns an arbitrary JSON document into a valid layout for
// pageKey. Both {"items": [...]} and a bare array are accepted. Entries
// with a missing or unknown id are dropped, later duplicates are dropped,
// and enabled is true unless it is literally false. Input order is kept
// and missing sections are never added back.
//
// Malformed input never fails; it degrades to an empty layout.
func Normalize(raw []byte, pageKey string) models.LayoutConfig {
	doc := gjson.ParseBytes(raw)

	var list gjson.Result
	switch {
	case doc.IsArray():
		list = doc
	case doc.IsObject() && doc.Get("items").IsArray():
		list = doc.Get("items")
	}

	items := make([]models.LayoutItem, 0, len(sections[pageKey]))
	seen := make(map[models.LayoutSectionID]bool)

	list.ForEach(func(_, entry gjson.Result) bool {
		if !entry.IsObject() {
			return true
		}
		idField := entry.Get("id")
		if idField.Type != gjson.String || idField.Str == "" {
			return true
		}
		id := models.LayoutSectionID(idField.Str)
		if !known(pageKey, id) || seen[id] {
			return true
		}
		seen[id] = true
		items = append(items, models.LayoutItem{
			ID:      id,
			Enabled: entry.Get("enabled").Type != gjson.False,
		})
		return true
	})

	return models.LayoutConfig{Items: items}
}
