package handlers

import (
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/tidwall/gjson"
)

// Validation limits for admin inputs.
const (
	maxBodyBytes = 1 << 20
	maxVideoURLs = 20
	maxURLLen    = 2_000
)

// validateVideoURLs checks the videoUrls field of a request body and
// returns the cleaned list: entries trimmed, empty ones dropped, order
// kept. The string is the first error found.
func validateVideoURLs(body []byte) ([]string, string) {
	list := gjson.GetBytes(body, "videoUrls")
	if !list.IsArray() || len(list.Array()) == 0 {
		return nil, "videoUrls must be a non-empty array"
	}

	var cleaned []string
	for _, v := range list.Array() {
		if v.Type == gjson.Null || v.Type == gjson.False {
			continue
		}
		if s := strings.TrimSpace(v.String()); s != "" {
			cleaned = append(cleaned, s)
		}
	}

	if len(cleaned) == 0 {
		return nil, "videoUrls must contain at least one URL"
	}
	if len(cleaned) > maxVideoURLs {
		return nil, fmt.Sprintf("videoUrls may contain at most %d URLs", maxVideoURLs)
	}
	for _, u := range cleaned {
		if utf8.RuneCountInString(u) > maxURLLen || !isHTTPSURL(u) {
			return nil, "Invalid https URL: " + u
		}
	}
	return cleaned, ""
}

// isHTTPSURL reports whether s parses as an absolute https URL with a host.
func isHTTPSURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return u.Scheme == "https" && u.Host != ""
}
