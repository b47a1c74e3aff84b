package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
	qrcode "github.com/skip2/go-qrcode"
	"github.com/tidwall/gjson"
	"golang.org/x/crypto/bcrypt"

	"tavola/internal/middleware"
	"tavola/internal/session"
)

// totpIssuer is the issuer shown in authenticator apps.
const totpIssuer = "Tavola"

// Auth groups the admin authentication handlers.
type Auth struct {
	sessions     *session.Manager
	passwordHash []byte
	totpSecret   string
}

// NewAuth creates a new Auth handler group. passwordHash is a bcrypt hash;
// when empty and password is set, password is hashed once here so every
// login goes through the same constant-time compare. totpSecret enables
// the second factor when non-empty.
func NewAuth(sessions *session.Manager, password, passwordHash, totpSecret string) (*Auth, error) {
	a := &Auth{sessions: sessions, totpSecret: strings.TrimSpace(totpSecret)}
	switch {
	case passwordHash != "":
		a.passwordHash = []byte(passwordHash)
	case password != "":
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash admin password: %w", err)
		}
		a.passwordHash = hash
	}
	return a, nil
}

// Login checks the admin password (and TOTP code when enabled) and sets
// the session cookie. Rate limiting is applied by the router.
func (a *Auth) Login(w http.ResponseWriter, r *http.Request) {
	if !a.sessions.Configured() {
		writeError(w, http.StatusInternalServerError, session.ErrMissingSecret.Error())
		return
	}
	if len(a.passwordHash) == 0 {
		writeError(w, http.StatusInternalServerError, "ADMIN_PASSWORD is not set")
		return
	}

	body, ok := readJSON(w, r)
	if !ok {
		return
	}

	supplied := gjson.GetBytes(body, "password").String()
	if bcrypt.CompareHashAndPassword(a.passwordHash, []byte(supplied)) != nil {
		slog.Warn("admin login failed", "reason", "password")
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	if a.totpSecret != "" {
		code := strings.TrimSpace(gjson.GetBytes(body, "code").String())
		if !totp.Validate(code, a.totpSecret) {
			slog.Warn("admin login failed", "reason", "totp")
			writeError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
	}

	if _, err := a.sessions.Issue(w); err != nil {
		internalError(w, "issue admin session", err)
		return
	}

	slog.Info("admin logged in")
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// Logout expires the session cookie.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	a.sessions.Clear(w)
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// Session reports the current session. Only reachable behind RequireAdmin.
func (a *Auth) Session(w http.ResponseWriter, r *http.Request) {
	claims := middleware.SessionFromCtx(r.Context())
	if claims == nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"authenticated": true,
		"expiresAt":     claims.ExpiresAt.Time,
	})
}

// TOTPQRCode renders the configured TOTP secret as a QR code PNG for
// enrolling an authenticator app.
func (a *Auth) TOTPQRCode(w http.ResponseWriter, r *http.Request) {
	if a.totpSecret == "" {
		writeError(w, http.StatusNotFound, "TOTP is not enabled")
		return
	}

	key, err := totpKey(a.totpSecret)
	if err != nil {
		internalError(w, "build totp key", err)
		return
	}

	png, err := qrcode.Encode(key.URL(), qrcode.Medium, 256)
	if err != nil {
		internalError(w, "qr code generation failed", err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

// totpKey builds the otpauth key for the admin account from a base32 secret.
func totpKey(secret string) (*otp.Key, error) {
	q := url.Values{}
	q.Set("secret", secret)
	q.Set("issuer", totpIssuer)
	u := url.URL{
		Scheme:   "otpauth",
		Host:     "totp",
		Path:     "/" + totpIssuer + ":" + session.Subject,
		RawQuery: q.Encode(),
	}
	return otp.NewKeyFromURL(u.String())
}
