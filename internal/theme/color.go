// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package theme

import (
	"strings"

	"github.com/tidwall/gjson"
)

// NormalizeHexColor converts a color string to "#RRGGBB", or returns ""
// when it cannot. Accepted shapes are "#RRGGBB", "RRGGBB" and the POS
// platform's ARGB form "0xAARRGGBB", whose alpha byte is discarded.
func NormalizeHexColor(value string) string {
	raw := strings.TrimSpace(value)
	if raw == "" {
		return ""
	}

	if strings.HasPrefix(raw, "0x") && len(raw) >= 8 {
		rgb := raw[len(raw)-6:]
		if !isHex(rgb) {
			return ""
		}
		return "#" + rgb
	}
	if len(raw) == 7 && raw[0] == '#' && isHex(raw[1:]) {
		return raw
	}
	if len(raw) == 6 && isHex(raw) {
		return "#" + raw
	}
	return ""
}

// normalizeValue applies NormalizeHexColor to an arbitrary JSON value,
// coercing scalars to their string form. Falsy values and objects or
// arrays are never colors.
func normalizeValue(v gjson.Result) string {
	if !truthy(v) || v.Type == gjson.JSON {
		return ""
	}
	return NormalizeHexColor(v.String())
}

// truthy mirrors the loose truthiness the POS payloads are written against:
// missing, null, false, 0 and "" are all "unset".
func truthy(v gjson.Result) bool {
	switch v.Type {
	case gjson.Null, gjson.False:
		return false
	case gjson.String:
		return v.Str != ""
	case gjson.Number:
		return v.Num != 0
	default:
		return true
	}
}

func isHex(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') && (c < 'A' || c > 'F') {
			return false
		}
	}
	return s != ""
}
