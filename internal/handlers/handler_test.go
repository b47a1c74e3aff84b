package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"tavola/internal/layout"
	"tavola/internal/models"
	"tavola/internal/theme"
)

var errStoreDown = errors.New("store down")

// fakeLayoutStore is an in-memory layout.Store.
type fakeLayoutStore struct {
	mu       sync.Mutex
	versions []models.LayoutRecord
	current  map[string]uuid.UUID
	clock    time.Time
	errRead  error
	errWrite error
}

func newFakeLayoutStore() *fakeLayoutStore {
	return &fakeLayoutStore{
		current: map[string]uuid.UUID{},
		clock:   time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}
}

func (s *fakeLayoutStore) Current(_ context.Context, pageKey string) (*models.LayoutRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.errRead != nil {
		return nil, s.errRead
	}
	id, ok := s.current[pageKey]
	if !ok {
		return nil, nil
	}
	return s.find(pageKey, id), nil
}

func (s *fakeLayoutStore) History(_ context.Context, pageKey string) ([]models.LayoutRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.LayoutRecord{}
	for _, v := range s.versions {
		if v.PageKey == pageKey {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *fakeLayoutStore) Append(_ context.Context, rec *models.LayoutRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.errWrite != nil {
		return s.errWrite
	}
	s.clock = s.clock.Add(time.Minute)
	rec.CreatedAt = s.clock
	s.versions = append(s.versions, *rec)
	s.current[rec.PageKey] = rec.ID
	return nil
}

func (s *fakeLayoutStore) Restore(_ context.Context, pageKey string, id uuid.UUID) (*models.LayoutRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := s.find(pageKey, id)
	if rec == nil {
		return nil, nil
	}
	s.current[pageKey] = id
	return rec, nil
}

func (s *fakeLayoutStore) find(pageKey string, id uuid.UUID) *models.LayoutRecord {
	for _, v := range s.versions {
		if v.ID == id && v.PageKey == pageKey {
			rec := v
			return &rec
		}
	}
	return nil
}

// fakeThemeStore is an in-memory theme.Store.
type fakeThemeStore struct {
	mu  sync.Mutex
	doc []byte
	err error
}

func (s *fakeThemeStore) Overrides(context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc, s.err
}

func (s *fakeThemeStore) ReplaceOverrides(_ context.Context, doc []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.doc = doc
	return nil
}

// fakeVideoStore is an in-memory VideoStore.
type fakeVideoStore struct {
	mu     sync.Mutex
	videos []models.SiteVideo
	err    error
}

func (s *fakeVideoStore) List(context.Context) ([]models.SiteVideo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	return append([]models.SiteVideo(nil), s.videos...), nil
}

func (s *fakeVideoStore) Replace(_ context.Context, urls []string) ([]models.SiteVideo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	s.videos = s.videos[:0]
	for i, u := range urls {
		s.videos = append(s.videos, models.SiteVideo{ID: uuid.New(), URL: u, Position: i})
	}
	return append([]models.SiteVideo(nil), s.videos...), nil
}

// fakeUpstream serves a fixed payload.
type fakeUpstream struct {
	payload   string
	stale     bool
	err       error
	liveCalls int
}

func (u *fakeUpstream) Payload(context.Context) ([]byte, error) {
	if u.err != nil {
		return nil, u.err
	}
	return []byte(u.payload), nil
}

func (u *fakeUpstream) Live(context.Context) ([]byte, error) {
	u.liveCalls++
	return u.Payload(context.Background())
}

func (u *fakeUpstream) Bootstrap(ctx context.Context) ([]byte, bool, error) {
	p, err := u.Payload(ctx)
	return p, u.stale, err
}

const posPayload = `{
	"client": {"name": "Balibu", "primaryColor": "0xFFF33550", "textColor": "222222", "bgColor": "#FFFFFF"},
	"menuItems": [{"id": 1, "name": "Latte"}],
	"categories": [{"id": "drinks"}]
}`

// testEnv bundles handlers wired to in-memory fakes.
type testEnv struct {
	layouts  *fakeLayoutStore
	themes   *fakeThemeStore
	videos   *fakeVideoStore
	upstream *fakeUpstream
	admin    *Admin
	public   *Public
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		layouts:  newFakeLayoutStore(),
		themes:   &fakeThemeStore{},
		videos:   &fakeVideoStore{},
		upstream: &fakeUpstream{payload: posPayload},
	}
	lm := layout.NewManager(env.layouts)
	ts := theme.NewService(env.themes)
	env.admin = NewAdmin(env.upstream, lm, ts, env.videos)
	env.public = NewPublic(env.upstream, lm, ts, env.videos)
	return env
}

// do runs handler against a request and returns the recorder.
func do(t *testing.T, handler http.HandlerFunc, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	handler(rr, req)
	return rr
}

// decode unmarshals the recorder body into a generic map.
func decode(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode body %q: %v", rr.Body.String(), err)
	}
	return out
}

func expectStatus(t *testing.T, rr *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rr.Code != want {
		t.Fatalf("status: got %d, want %d (body %s)", rr.Code, want, bytes.TrimSpace(rr.Body.Bytes()))
	}
}
