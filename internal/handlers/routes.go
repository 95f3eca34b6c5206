package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Request deadlines. Coaching waits on a remote model.
const (
	requestTimeout  = 30 * time.Second
	coachingTimeout = 90 * time.Second
)

// conditionalHTTPLogger only logs HTTP requests when HTTP logging is enabled
func (h *Handlers) conditionalHTTPLogger(next http.Handler) http.Handler {
	logger := middleware.Logger(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.Log != nil && h.Log.IsHTTPLoggingEnabled() {
			logger.ServeHTTP(w, r)
		} else {
			next.ServeHTTP(w, r)
		}
	})
}

// Router returns a configured chi router with all routes
func (h *Handlers) Router() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(h.conditionalHTTPLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RedirectSlashes)

	// Static files (served from embedded filesystem)
	if h.staticServer != nil {
		r.Handle("/static/*", http.StripPrefix("/static/", h.staticServer))
	}

	// WebSocket
	if h.Hub != nil {
		r.With(h.Auth.RequireAuthAPI).Get("/ws", h.Hub.ServeWs)
	}

	// Pages
	if h.templates != nil {
		r.Get("/login", h.handleLoginPage)
		r.With(h.Auth.RequireAuth).Get("/", h.handleIndex)
	}

	// Auth API (public)
	r.Post("/api/auth/login", h.handleLogin)
	r.Post("/api/auth/logout", h.handleLogout)

	// Protected API
	r.Group(func(r chi.Router) {
		r.Use(h.Auth.RequireAuthAPI)

		r.With(middleware.Timeout(coachingTimeout)).Post("/api/leaders/{id}/coaching", h.handleGenerateCoaching)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(requestTimeout))

			r.Get("/api/session", h.handleSession)

			// Dashboard & reports
			r.Get("/api/dashboard", h.handleGetDashboard)
			r.Get("/api/reports/efficiency", h.handleGetEfficiencyReport)

			// Leaders
			r.Get("/api/leaders", h.handleListLeaders)
			r.Post("/api/leaders", h.handleCreateLeader)
			r.Get("/api/leaders/selected", h.handleGetSelectedLeader) // Must come before /api/leaders/{id}
			r.Delete("/api/leaders/selected", h.handleClearSelection)
			r.Get("/api/leaders/{id}", h.handleGetLeader)
			r.Put("/api/leaders/{id}/select", h.handleSelectLeader)
			r.Patch("/api/leaders/{id}", h.handleUpdateLeader)
			r.Delete("/api/leaders/{id}", h.handleDeleteLeader)
			r.Post("/api/leaders/{id}/kais/{kaiID}/toggle", h.handleToggleKAI)
			r.Put("/api/leaders/{id}/kpis/{kpiID}", h.handleUpdateKPIActual)
			r.Post("/api/leaders/{id}/photo", h.handleUploadPhoto)
			r.Get("/api/leaders/{id}/badge.png", h.handleGetBadge)

			// Catalog
			r.Get("/api/catalog/kais", h.handleListKAIs)
			r.Post("/api/catalog/kais", h.handleCreateKAI)
			r.Patch("/api/catalog/kais/{id}", h.handleUpdateKAI)
			r.Delete("/api/catalog/kais/{id}", h.handleDeleteKAI)
			r.Get("/api/catalog/kpis", h.handleListKPIs)
			r.Post("/api/catalog/kpis", h.handleCreateKPI)
			r.Patch("/api/catalog/kpis/{id}", h.handleUpdateKPI)
			r.Delete("/api/catalog/kpis/{id}", h.handleDeleteKPI)

			// Administration
			r.Get("/api/admin/status", h.handleGetStatus)
			r.Post("/api/admin/reset", h.handleResetData)
			r.Post("/api/admin/reset-routines", h.handleResetRoutines)
		})
	})

	return r
}
