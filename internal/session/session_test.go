package session

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var testSecret = []byte("test-secret-with-enough-entropy")

func TestCreateAndVerifyToken(t *testing.T) {
	now := time.Now()
	token, issued, err := CreateToken(testSecret, DefaultTTL, now)
	if err != nil {
		t.Fatalf("CreateToken: %v", err)
	}

	if parts := strings.Split(token, "."); len(parts) != 3 {
		t.Fatalf("expected 3 segments, got %d", len(parts))
	}

	claims, err := VerifyToken(testSecret, token, now)
	if err != nil {
		t.Fatalf("VerifyToken: %v", err)
	}
	if claims.Subject != "admin" {
		t.Errorf("sub: got %q, want admin", claims.Subject)
	}
	if claims.ID == "" || claims.ID != issued.ID {
		t.Errorf("jti: got %q, want %q", claims.ID, issued.ID)
	}
	wantExp := now.Add(DefaultTTL).Truncate(time.Second)
	if !claims.ExpiresAt.Time.Equal(wantExp) {
		t.Errorf("exp: got %v, want %v", claims.ExpiresAt.Time, wantExp)
	}
}

func TestVerifyTokenExpired(t *testing.T) {
	now := time.Now()
	token, _, err := CreateToken(testSecret, time.Hour, now.Add(-3*time.Hour))
	if err != nil {
		t.Fatalf("CreateToken: %v", err)
	}

	if _, err := VerifyToken(testSecret, token, now); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("got %v, want ErrInvalidToken", err)
	}
}

func TestVerifyTokenTamperedSignature(t *testing.T) {
	now := time.Now()
	token, _, _ := CreateToken(testSecret, DefaultTTL, now)

	// Flip a character in the middle of the signature segment so every
	// bit it carries is part of the decoded MAC.
	b := []byte(token)
	i := len(b) - 10
	if b[i] == 'A' {
		b[i] = 'B'
	} else {
		b[i] = 'A'
	}

	if _, err := VerifyToken(testSecret, string(b), now); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("got %v, want ErrInvalidToken", err)
	}
}

func TestVerifyTokenRejects(t *testing.T) {
	now := time.Now()
	sign := func(method jwt.SigningMethod, key any, claims jwt.Claims) string {
		t.Helper()
		s, err := jwt.NewWithClaims(method, claims).SignedString(key)
		if err != nil {
			t.Fatalf("sign: %v", err)
		}
		return s
	}
	exp := jwt.NewNumericDate(now.Add(time.Hour))

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"two segments", "aaa.bbb"},
		{"four segments", "a.b.c.d"},
		{"garbage payload", "eyJhbGciOiJIUzI1NiJ9.!!!.sig"},
		{"wrong secret", sign(jwt.SigningMethodHS256, []byte("other"), jwt.RegisteredClaims{Subject: "admin", ExpiresAt: exp, ID: "x"})},
		{"wrong subject", sign(jwt.SigningMethodHS256, testSecret, jwt.RegisteredClaims{Subject: "user", ExpiresAt: exp, ID: "x"})},
		{"missing exp", sign(jwt.SigningMethodHS256, testSecret, jwt.RegisteredClaims{Subject: "admin", ID: "x"})},
		{"non-numeric exp", sign(jwt.SigningMethodHS256, testSecret, jwt.MapClaims{"sub": "admin", "exp": "tomorrow", "jti": "x"})},
		{"missing jti", sign(jwt.SigningMethodHS256, testSecret, jwt.RegisteredClaims{Subject: "admin", ExpiresAt: exp})},
		{"other hmac alg", sign(jwt.SigningMethodHS512, testSecret, jwt.RegisteredClaims{Subject: "admin", ExpiresAt: exp, ID: "x"})},
		{"alg none", sign(jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, jwt.RegisteredClaims{Subject: "admin", ExpiresAt: exp, ID: "x"})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := VerifyToken(testSecret, tt.token, now); !errors.Is(err, ErrInvalidToken) {
				t.Errorf("got %v, want ErrInvalidToken", err)
			}
		})
	}
}

func TestMissingSecret(t *testing.T) {
	if _, _, err := CreateToken(nil, DefaultTTL, time.Now()); !errors.Is(err, ErrMissingSecret) {
		t.Errorf("CreateToken: got %v", err)
	}
	if _, err := VerifyToken(nil, "a.b.c", time.Now()); !errors.Is(err, ErrMissingSecret) {
		t.Errorf("VerifyToken: got %v", err)
	}
	if NewManager(nil, false).Configured() {
		t.Error("manager without secret should not be configured")
	}
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == CookieName {
			return c
		}
	}
	t.Fatal("expected session cookie to be set")
	return nil
}

func TestManagerIssueSetsCookie(t *testing.T) {
	m := NewManager(testSecret, true)
	w := httptest.NewRecorder()

	claims, err := m.Issue(w)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	c := sessionCookie(t, w)
	if !c.HttpOnly {
		t.Error("expected HttpOnly cookie")
	}
	if !c.Secure {
		t.Error("expected Secure cookie")
	}
	if c.SameSite != http.SameSiteLaxMode {
		t.Errorf("SameSite: got %v, want Lax", c.SameSite)
	}
	if c.MaxAge != 7200 {
		t.Errorf("MaxAge: got %d, want 7200", c.MaxAge)
	}
	if c.Path != "/" {
		t.Errorf("Path: got %q, want /", c.Path)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(c)
	got, err := m.FromRequest(req)
	if err != nil {
		t.Fatalf("FromRequest: %v", err)
	}
	if got.ID != claims.ID {
		t.Errorf("jti: got %q, want %q", got.ID, claims.ID)
	}
}

func TestManagerFromRequestNoCookie(t *testing.T) {
	m := NewManager(testSecret, false)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if _, err := m.FromRequest(req); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("got %v, want ErrInvalidToken", err)
	}

	req.AddCookie(&http.Cookie{Name: CookieName, Value: ""})
	if _, err := m.FromRequest(req); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("empty cookie: got %v, want ErrInvalidToken", err)
	}
}

func TestManagerExpiryUsesClock(t *testing.T) {
	m := NewManager(testSecret, false)
	start := time.Now()
	m.now = func() time.Time { return start }

	w := httptest.NewRecorder()
	if _, err := m.Issue(w); err != nil {
		t.Fatalf("Issue: %v", err)
	}
	c := sessionCookie(t, w)

	m.now = func() time.Time { return start.Add(DefaultTTL + time.Second) }
	if _, err := m.Verify(c.Value); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expired token: got %v, want ErrInvalidToken", err)
	}
}

func TestManagerClear(t *testing.T) {
	m := NewManager(testSecret, false)
	w := httptest.NewRecorder()
	m.Clear(w)

	header := w.Header().Get("Set-Cookie")
	if !strings.HasPrefix(header, CookieName+"=;") {
		t.Errorf("expected empty cookie value, got %q", header)
	}
	if !strings.Contains(header, "Max-Age=0") {
		t.Errorf("expected Max-Age=0, got %q", header)
	}
	if !strings.Contains(header, "HttpOnly") {
		t.Errorf("expected HttpOnly, got %q", header)
	}
}
