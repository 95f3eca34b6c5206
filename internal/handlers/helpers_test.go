package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/abrezinsky/spwtrack/internal/auth"
	"github.com/abrezinsky/spwtrack/internal/handlers"
	"github.com/abrezinsky/spwtrack/internal/logger"
	"github.com/abrezinsky/spwtrack/internal/services"
	"github.com/abrezinsky/spwtrack/internal/testutil"
)

func createTestTemplatesFS() fstest.MapFS {
	return fstest.MapFS{
		"index.html": &fstest.MapFile{Data: []byte(`<html><body>Index {{.UserName}}</body></html>`)},
		"login.html": &fstest.MapFile{Data: []byte(`<html><body>Login</body></html>`)},
	}
}

// testServer is a router over real services backed by an in-memory database
type testServer struct {
	t       *testing.T
	h       *handlers.Handlers
	router  http.Handler
	state   *services.State
	routine *services.RoutineService
	cookie  *http.Cookie
}

func newTestServer(t *testing.T, coaching services.CoachingConfig) *testServer {
	t.Helper()
	ctx := context.Background()
	log := logger.Discard()
	repo := testutil.NewTestRepository(t)

	bridge := services.NewPersistenceBridge(log, repo, services.DefaultSeed())
	state := services.NewState(bridge.Load(ctx))
	roster := services.NewRosterService(log, state, bridge)
	routines := services.NewRoutineService(log, roster, repo)

	svc := handlers.Services{
		Roster:    roster,
		Catalog:   services.NewCatalogService(log, state, bridge),
		Dashboard: services.NewDashboardService(state),
		Coaching:  services.NewCoachingService(log, state, coaching),
		Badge:     services.NewBadgeService(state),
		Routines:  routines,
	}
	h, err := handlers.New(svc, createTestTemplatesFS(), handlers.NewStaticServer(fstest.MapFS{
		"app.css": &fstest.MapFile{Data: []byte("body{}")},
	}), auth.New(), nil, handlers.NoopHTTPLogger{})
	if err != nil {
		t.Fatalf("handlers.New() error = %v", err)
	}

	return &testServer{t: t, h: h, router: h.Router(), state: state, routine: routines}
}

// newAPIServer is a signed-in server with the rule-based coach enabled
func newAPIServer(t *testing.T) *testServer {
	t.Helper()
	s := newTestServer(t, services.CoachingConfig{FallbackEnabled: true})
	s.login()
	return s
}

func (s *testServer) login() {
	s.t.Helper()
	rr := s.do("POST", "/api/auth/login", map[string]any{"email": "sup@spw.com", "password": "x", "name": "Rita"})
	if rr.Code != http.StatusOK {
		s.t.Fatalf("login status = %d: %s", rr.Code, rr.Body.String())
	}
	for _, c := range rr.Result().Cookies() {
		if c.Name == auth.CookieName {
			s.cookie = c
		}
	}
	if s.cookie == nil {
		s.t.Fatal("login did not set a session cookie")
	}
}

// do sends body as JSON unless it is nil or already an io.Reader
func (s *testServer) do(method, path string, body any) *httptest.ResponseRecorder {
	s.t.Helper()
	var r io.Reader
	switch b := body.(type) {
	case nil:
	case io.Reader:
		r = b
	default:
		data, err := json.Marshal(b)
		if err != nil {
			s.t.Fatalf("marshal body: %v", err)
		}
		r = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, r)
	if r != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return s.send(req)
}

func (s *testServer) send(req *http.Request) *httptest.ResponseRecorder {
	if s.cookie != nil {
		req.AddCookie(s.cookie)
	}
	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rr.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rr.Body.String(), err)
	}
	return v
}

func expectStatus(t *testing.T, rr *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rr.Code != want {
		t.Fatalf("status = %d, want %d; body: %s", rr.Code, want, rr.Body.String())
	}
}
