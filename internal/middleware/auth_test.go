package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"tavola/internal/session"
)

func TestRequireAdmin(t *testing.T) {
	m := session.NewManager([]byte("test-secret"), false)

	var reached bool
	handler := LoadSession(m)(RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		if SessionFromCtx(r.Context()) == nil {
			t.Error("expected session claims in context")
		}
		w.WriteHeader(http.StatusOK)
	})))

	t.Run("no cookie", func(t *testing.T) {
		reached = false
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/admin/layout", nil))

		if rr.Code != http.StatusUnauthorized {
			t.Errorf("status: got %d, want 401", rr.Code)
		}
		if rr.Body.String() != "{\"error\":\"Unauthorized\"}\n" {
			t.Errorf("body: got %q", rr.Body.String())
		}
		if reached {
			t.Error("handler must not run without a session")
		}
	})

	t.Run("garbage cookie", func(t *testing.T) {
		reached = false
		req := httptest.NewRequest(http.MethodGet, "/api/admin/layout", nil)
		req.AddCookie(&http.Cookie{Name: session.CookieName, Value: "not.a.token"})
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		if rr.Code != http.StatusUnauthorized {
			t.Errorf("status: got %d, want 401", rr.Code)
		}
	})

	t.Run("valid cookie", func(t *testing.T) {
		reached = false
		issue := httptest.NewRecorder()
		if _, err := m.Issue(issue); err != nil {
			t.Fatalf("Issue: %v", err)
		}

		req := httptest.NewRequest(http.MethodGet, "/api/admin/layout", nil)
		for _, c := range issue.Result().Cookies() {
			req.AddCookie(c)
		}
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Errorf("status: got %d, want 200", rr.Code)
		}
		if !reached {
			t.Error("handler should run with a valid session")
		}
	})
}

func TestLoadSessionWithoutSecret(t *testing.T) {
	m := session.NewManager(nil, false)
	handler := LoadSession(m)(RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})))

	req := httptest.NewRequest(http.MethodGet, "/api/admin/session", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: "a.b.c"})
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want 401", rr.Code)
	}
}

func TestSessionFromCtxEmpty(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if SessionFromCtx(req.Context()) != nil {
		t.Error("expected nil claims for a bare context")
	}
}
