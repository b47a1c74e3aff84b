// Package session provides stateless admin sessions. A session is an
// HS256-signed token carried in an HTTP-only cookie; nothing is stored
// server-side, so logging out just overwrites the cookie.
package session

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	// CookieName is the name of the session cookie sent to the browser.
	CookieName = "admin_session"

	// DefaultTTL is how long an issued token stays valid.
	DefaultTTL = 2 * time.Hour

	// Subject is the only subject a valid token may carry.
	Subject = "admin"
)

var (
	// ErrInvalidToken covers every reason a token fails verification.
	ErrInvalidToken = errors.New("invalid session token")

	// ErrMissingSecret is returned when no signing secret is configured.
	ErrMissingSecret = errors.New("ADMIN_SECRET is not set")
)

// Claims is the token payload: sub, exp and jti.
type Claims struct {
	jwt.RegisteredClaims
}

// CreateToken signs a new admin token valid for ttl from now.
func CreateToken(secret []byte, ttl time.Duration, now time.Time) (string, *Claims, error) {
	if len(secret) == 0 {
		return "", nil, ErrMissingSecret
	}

	claims := &Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   Subject,
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		ID:        uuid.NewString(),
	}}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", nil, fmt.Errorf("sign session token: %w", err)
	}
	return signed, claims, nil
}

// VerifyToken checks the signature, subject, expiry and token ID of a
// token at time now. Any failure, including malformed input, yields
// ErrInvalidToken. Signatures are compared in constant time.
func VerifyToken(secret []byte, token string, now time.Time) (*Claims, error) {
	if len(secret) == 0 {
		return nil, ErrMissingSecret
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithSubject(Subject),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)

	claims := &Claims{}
	parsed, err := parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid || claims.ID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Manager issues and checks session cookies with a fixed secret.
type Manager struct {
	secret []byte
	ttl    time.Duration
	secure bool
	now    func() time.Time
}

// NewManager creates a Manager. secure marks cookies HTTPS-only.
func NewManager(secret []byte, secure bool) *Manager {
	return &Manager{
		secret: secret,
		ttl:    DefaultTTL,
		secure: secure,
		now:    time.Now,
	}
}

// Configured reports whether a signing secret is available.
func (m *Manager) Configured() bool {
	return len(m.secret) > 0
}

// Issue creates a token and sets it as the session cookie.
func (m *Manager) Issue(w http.ResponseWriter) (*Claims, error) {
	token, claims, err := CreateToken(m.secret, m.ttl, m.now())
	if err != nil {
		return nil, err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(m.ttl.Seconds()),
	})
	return claims, nil
}

// Verify checks a raw token against the manager's secret and clock.
func (m *Manager) Verify(token string) (*Claims, error) {
	return VerifyToken(m.secret, token, m.now())
}

// FromRequest returns the verified claims of the request's session
// cookie. A missing cookie is reported as ErrInvalidToken.
func (m *Manager) FromRequest(r *http.Request) (*Claims, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return nil, ErrInvalidToken
	}
	return m.Verify(cookie.Value)
}

// Clear overwrites the session cookie with an empty, already-expired value.
func (m *Manager) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}
