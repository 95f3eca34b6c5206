package handlers_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/abrezinsky/spwtrack/internal/auth"
	"github.com/abrezinsky/spwtrack/internal/handlers"
	"github.com/abrezinsky/spwtrack/internal/services"
)

var validCredentials = auth.Credentials{Email: "sup@spw.com", Password: "x"}

func TestLogin(t *testing.T) {
	tests := []struct {
		name       string
		body       map[string]any
		wantStatus int
		wantName   string
		wantError  string
	}{
		{"sign in", map[string]any{"email": "a@b.c", "password": "x"}, 200, auth.DefaultDisplayName, ""},
		{"register", map[string]any{"email": "a@b.c", "password": "x", "name": "Rita", "register": true}, 200, "Rita", ""},
		{"missing password", map[string]any{"email": "a@b.c"}, 400, "", "Por favor, preencha todos os campos."},
		{"register without name", map[string]any{"email": "a@b.c", "password": "x", "register": true}, 400, "", "Por favor, insira seu nome."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, services.CoachingConfig{})
			rr := s.do("POST", "/api/auth/login", tt.body)
			expectStatus(t, rr, tt.wantStatus)

			if tt.wantError != "" {
				if got := decode[handlers.APIError](t, rr); got.Message != tt.wantError {
					t.Errorf("error = %q, want %q", got.Message, tt.wantError)
				}
				if len(rr.Result().Cookies()) != 0 {
					t.Error("failed login should not set a cookie")
				}
				return
			}
			if got := decode[handlers.SessionResponse](t, rr); got.Name != tt.wantName {
				t.Errorf("name = %q, want %q", got.Name, tt.wantName)
			}
		})
	}
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	s := newTestServer(t, services.CoachingConfig{})

	for _, path := range []string{"/api/session", "/api/dashboard", "/api/leaders", "/api/catalog/kais", "/api/admin/status"} {
		rr := s.do("GET", path, nil)
		if rr.Code != http.StatusUnauthorized {
			t.Errorf("GET %s status = %d, want 401", path, rr.Code)
		}
	}
}

func TestSessionAndLogout(t *testing.T) {
	s := newAPIServer(t)

	rr := s.do("GET", "/api/session", nil)
	expectStatus(t, rr, http.StatusOK)
	if got := decode[handlers.SessionResponse](t, rr); got.Name != "Rita" || got.Email != "sup@spw.com" {
		t.Errorf("session = %+v", got)
	}

	rr = s.do("POST", "/api/auth/logout", nil)
	expectStatus(t, rr, http.StatusOK)

	rr = s.do("GET", "/api/session", nil)
	expectStatus(t, rr, http.StatusUnauthorized)
}

func TestPages(t *testing.T) {
	s := newTestServer(t, services.CoachingConfig{})

	rr := s.do("GET", "/", nil)
	expectStatus(t, rr, http.StatusFound)
	if loc := rr.Header().Get("Location"); loc != "/login" {
		t.Errorf("redirect = %q, want /login", loc)
	}

	rr = s.do("GET", "/login", nil)
	expectStatus(t, rr, http.StatusOK)
	if !strings.Contains(rr.Body.String(), "Login") {
		t.Errorf("login page body = %q", rr.Body.String())
	}

	s.login()
	rr = s.do("GET", "/", nil)
	expectStatus(t, rr, http.StatusOK)
	if !strings.Contains(rr.Body.String(), "Index Rita") {
		t.Errorf("index body = %q", rr.Body.String())
	}

	rr = s.do("GET", "/login", nil)
	expectStatus(t, rr, http.StatusFound)

	rr = s.do("GET", "/static/app.css", nil)
	expectStatus(t, rr, http.StatusOK)
}

func TestNew_MissingTemplate(t *testing.T) {
	fs := createTestTemplatesFS()
	delete(fs, "login.html")

	_, err := handlers.New(handlers.Services{}, fs, nil, auth.New(), nil, handlers.NoopHTTPLogger{})
	if err == nil || !strings.Contains(err.Error(), "login template") {
		t.Errorf("expected login template error, got %v", err)
	}
}
