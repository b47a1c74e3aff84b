// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package theme computes the site color theme. The upstream POS platform
// is the source of truth; admins may override individual colors, and an
// override always wins over the upstream value for its key.
package theme

import (
	"github.com/tidwall/gjson"
)

// Key names one theme color.
type Key string

// Theme color keys.
const (
	PrimaryColor          Key = "primaryColor"
	SecondaryColor        Key = "secondaryColor"
	HeadingPrimaryColor   Key = "headingPrimaryColor"
	HeadingSecondaryColor Key = "headingSecondaryColor"
	TextColor             Key = "textColor"
	CoverTextColor        Key = "coverTextColor"
	BackgroundColor       Key = "backgroundColor"
)

// Keys lists every theme key in display order.
var Keys = []Key{
	PrimaryColor,
	SecondaryColor,
	HeadingPrimaryColor,
	HeadingSecondaryColor,
	TextColor,
	CoverTextColor,
	BackgroundColor,
}

// Values is a complete theme. Every key is present; an unresolvable color
// is the empty string.
type Values struct {
	PrimaryColor          string `json:"primaryColor"`
	SecondaryColor        string `json:"secondaryColor"`
	HeadingPrimaryColor   string `json:"headingPrimaryColor"`
	HeadingSecondaryColor string `json:"headingSecondaryColor"`
	TextColor             string `json:"textColor"`
	CoverTextColor        string `json:"coverTextColor"`
	BackgroundColor       string `json:"backgroundColor"`
}

func (v *Values) field(k Key) *string {
	switch k {
	case PrimaryColor:
		return &v.PrimaryColor
	case SecondaryColor:
		return &v.SecondaryColor
	case HeadingPrimaryColor:
		return &v.HeadingPrimaryColor
	case HeadingSecondaryColor:
		return &v.HeadingSecondaryColor
	case TextColor:
		return &v.TextColor
	case CoverTextColor:
		return &v.CoverTextColor
	case BackgroundColor:
		return &v.BackgroundColor
	}
	return nil
}

// Overrides holds admin-set colors. Only keys with a valid color are present.
type Overrides map[Key]string

// Sanitize re-normalizes every known key and drops the rest.
func (o Overrides) Sanitize() Overrides {
	out := make(Overrides)
	for _, k := range Keys {
		if c := NormalizeHexColor(o[k]); c != "" {
			out[k] = c
		}
	}
	return out
}

// SanitizeJSON builds overrides from an arbitrary JSON object. Invalid or
// missing values are omitted, never defaulted.
func SanitizeJSON(raw []byte) Overrides {
	doc := gjson.ParseBytes(raw)
	out := make(Overrides)
	if !doc.IsObject() {
		return out
	}
	for _, k := range Keys {
		if c := normalizeValue(doc.Get(string(k))); c != "" {
			out[k] = c
		}
	}
	return out
}

// Extract pulls the theme out of an upstream client record. Heading colors
// fall back to the matching brand color and then to the text color.
func Extract(record []byte) Values {
	doc := gjson.ParseBytes(record)
	get := func(name string) string {
		return normalizeValue(doc.Get(name))
	}

	primary := get(string(PrimaryColor))
	secondary := get(string(SecondaryColor))
	text := get(string(TextColor))

	bg := doc.Get(string(BackgroundColor))
	if !truthy(bg) {
		bg = doc.Get("bgColor")
	}

	return Values{
		PrimaryColor:          primary,
		SecondaryColor:        secondary,
		HeadingPrimaryColor:   firstNonEmpty(get(string(HeadingPrimaryColor)), primary, text),
		HeadingSecondaryColor: firstNonEmpty(get(string(HeadingSecondaryColor)), secondary, text),
		TextColor:             text,
		CoverTextColor:        get(string(CoverTextColor)),
		BackgroundColor:       normalizeValue(bg),
	}
}

// Merge overlays overrides on the POS theme, key by key.
func Merge(pos Values, overrides Overrides) Values {
	out := pos
	for _, k := range Keys {
		if c := overrides[k]; c != "" {
			*out.field(k) = c
		}
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
