// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers implements the JSON API: public site data, admin
// authentication, and the admin layout, theme and video editors.
package handlers

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/tidwall/gjson"
)

// writeJSON encodes v as the response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

// writeError writes {"error": msg}.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// internalError logs err under msg and writes a generic 500. The cause
// stays in the log; it may name hosts or queries.
func internalError(w http.ResponseWriter, msg string, err error) {
	slog.Error(msg, "error", err)
	writeError(w, http.StatusInternalServerError, "Internal Server Error")
}

// readJSON reads the request body, capped at maxBodyBytes, and checks
// that it is well-formed JSON. On failure it writes a 400 and returns false.
func readJSON(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil || !gjson.ValidBytes(body) {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return nil, false
	}
	return body, true
}

// objectOr returns the raw value of field when it is present and not
// null, and the whole document otherwise.
func objectOr(body []byte, field string) []byte {
	if v := gjson.GetBytes(body, field); v.Exists() && v.Type != gjson.Null {
		return []byte(v.Raw)
	}
	return body
}
