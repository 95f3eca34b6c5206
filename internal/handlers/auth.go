package handlers

import (
	"net/http"

	"github.com/abrezinsky/spwtrack/internal/auth"
)

// handleLoginPage renders the sign-in form
func (h *Handlers) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	// If already logged in, go straight to the dashboard
	if _, ok := h.Auth.GetSessionFromRequest(r); ok {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	h.templates.Login.Execute(w, PageData{Title: "SPW Track"})
}

// handleLogin processes a JSON sign-in or registration
func (h *Handlers) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	token, session, err := h.Auth.Login(auth.Credentials{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Register: req.Register,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	auth.SetSessionCookie(w, token)
	respondOK(w, SessionResponse{Name: session.Name, Email: session.Email})
}

// handleLogout clears the session
func (h *Handlers) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(auth.CookieName); err == nil {
		h.Auth.Logout(cookie.Value)
	}

	auth.ClearSessionCookie(w)
	respondSuccess(w, "Signed out")
}

// handleSession returns the signed-in supervisor
func (h *Handlers) handleSession(w http.ResponseWriter, r *http.Request) {
	session, ok := auth.FromContext(r.Context())
	if !ok {
		respondError(w, ErrUnauthorized)
		return
	}
	respondOK(w, SessionResponse{Name: session.Name, Email: session.Email})
}
