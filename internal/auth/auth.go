// Package auth is the sign-in gate in front of the dashboard. Any non-empty
// email and password are accepted: there is no user store, so this is a
// convenience gate and not a security boundary.
package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/abrezinsky/spwtrack/internal/errors"
)

const (
	CookieName    = "spwtrack_session"
	SessionExpiry = 24 * time.Hour
	// DefaultDisplayName greets a supervisor who signed in without a name
	DefaultDisplayName = "Supervisor"
)

// Sign-in validation errors
var (
	ErrMissingCredentials = errors.Validation("Por favor, preencha todos os campos.")
	ErrMissingName        = errors.Validation("Por favor, insira seu nome.")
)

// Session is a signed-in supervisor
type Session struct {
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Credentials is a login or registration attempt
type Credentials struct {
	Name     string
	Email    string
	Password string
	Register bool
}

// Auth tracks signed-in sessions
type Auth struct {
	sessions map[string]Session
	mu       sync.RWMutex
	now      func() time.Time
}

// New creates a new Auth instance
func New() *Auth {
	return &Auth{
		sessions: make(map[string]Session),
		now:      time.Now,
	}
}

// Login checks the required fields and opens a session. Email and password
// are always required; registering also requires a name.
func (a *Auth) Login(c Credentials) (string, *Session, error) {
	email := strings.TrimSpace(c.Email)
	name := strings.TrimSpace(c.Name)
	if email == "" || c.Password == "" {
		return "", nil, ErrMissingCredentials
	}
	if c.Register && name == "" {
		return "", nil, ErrMissingName
	}
	if name == "" {
		name = DefaultDisplayName
	}

	session := Session{Name: name, Email: email, ExpiresAt: a.now().Add(SessionExpiry)}
	token := generateToken()
	a.mu.Lock()
	a.sessions[token] = session
	a.mu.Unlock()

	return token, &session, nil
}

// Logout invalidates a session token
func (a *Auth) Logout(token string) {
	a.mu.Lock()
	delete(a.sessions, token)
	a.mu.Unlock()
}

// ValidateSession returns the session for token if it exists and has not expired
func (a *Auth) ValidateSession(token string) (*Session, bool) {
	a.mu.RLock()
	session, exists := a.sessions[token]
	a.mu.RUnlock()

	if !exists {
		return nil, false
	}

	if a.now().After(session.ExpiresAt) {
		a.mu.Lock()
		delete(a.sessions, token)
		a.mu.Unlock()
		return nil, false
	}

	return &session, true
}

// GetSessionFromRequest extracts and validates the session from a request
func (a *Auth) GetSessionFromRequest(r *http.Request) (*Session, bool) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return nil, false
	}
	return a.ValidateSession(cookie.Value)
}

type sessionKey struct{}

// FromContext returns the session stored by RequireAuth or RequireAuthAPI
func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(*Session)
	return s, ok
}

// RequireAuth middleware for pages (redirects to login)
func (a *Auth) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if session, ok := a.GetSessionFromRequest(r); ok {
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey{}, session)))
			return
		}
		http.Redirect(w, r, "/login", http.StatusFound)
	})
}

// RequireAuthAPI middleware for API endpoints (returns 401)
func (a *Auth) RequireAuthAPI(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if session, ok := a.GetSessionFromRequest(r); ok {
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey{}, session)))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"code":"UNAUTHORIZED","error":"Unauthorized - please log in"}`))
	})
}

// SetSessionCookie sets the session cookie on the response
func SetSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(SessionExpiry.Seconds()),
	})
}

// ClearSessionCookie removes the session cookie
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}

// generateToken creates a random session token
func generateToken() string {
	bytes := make([]byte, 32)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}
