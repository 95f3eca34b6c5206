package handlers

import (
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/abrezinsky/spwtrack/internal/auth"
	"github.com/abrezinsky/spwtrack/internal/services"
)

// NewStaticServer creates a static file server from an fs.FS
func NewStaticServer(staticFS fs.FS) http.Handler {
	return http.FileServer(http.FS(staticFS))
}

// PageData holds the data passed to page templates
type PageData struct {
	Title    string
	UserName string
	Error    string
}

// Templates holds all parsed HTML templates
type Templates struct {
	Index *template.Template
	Login *template.Template
}

// Services groups the domain services the handlers call
type Services struct {
	Roster    services.RosterServicer
	Catalog   services.CatalogServicer
	Dashboard services.DashboardServicer
	Coaching  services.CoachingServicer
	Badge     services.BadgeServicer
	Routines  services.RoutineServicer
}

// WSHub is the websocket endpoint and its connection count
type WSHub interface {
	ServeWs(w http.ResponseWriter, r *http.Request)
	ClientCount() int
}

// Handlers holds all HTTP handler dependencies
type Handlers struct {
	Roster       services.RosterServicer
	Catalog      services.CatalogServicer
	Dashboard    services.DashboardServicer
	Coaching     services.CoachingServicer
	Badge        services.BadgeServicer
	Routines     services.RoutineServicer
	Auth         *auth.Auth
	Hub          WSHub
	Log          HTTPLogger
	templates    *Templates
	staticServer http.Handler
}

// HTTPLogger is an interface for loggers that support HTTP logging control
type HTTPLogger interface {
	IsHTTPLoggingEnabled() bool
}

// New creates a new Handlers instance with all dependencies
func New(
	svc Services,
	templatesFS fs.FS,
	staticServer http.Handler,
	sessions *auth.Auth,
	hub WSHub,
	log HTTPLogger,
) (*Handlers, error) {
	templates, err := loadTemplates(templatesFS)
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}

	h := NewForTesting(svc)
	h.Auth = sessions
	h.Hub = hub
	h.Log = log
	h.templates = templates
	h.staticServer = staticServer
	return h, nil
}

// NoopHTTPLogger is a test logger that always returns false for HTTP logging
type NoopHTTPLogger struct{}

func (NoopHTTPLogger) IsHTTPLoggingEnabled() bool { return false }

// NewForTesting creates a Handlers instance without templates or a websocket
// hub, which is enough for the JSON API
func NewForTesting(svc Services) *Handlers {
	return &Handlers{
		Roster:    svc.Roster,
		Catalog:   svc.Catalog,
		Dashboard: svc.Dashboard,
		Coaching:  svc.Coaching,
		Badge:     svc.Badge,
		Routines:  svc.Routines,
		Auth:      auth.New(),
		Log:       NoopHTTPLogger{},
	}
}

// loadTemplates parses all templates once at startup
func loadTemplates(templatesFS fs.FS) (*Templates, error) {
	t := &Templates{}
	var err error

	if t.Index, err = template.ParseFS(templatesFS, "index.html"); err != nil {
		return nil, fmt.Errorf("index template: %w", err)
	}
	if t.Login, err = template.ParseFS(templatesFS, "login.html"); err != nil {
		return nil, fmt.Errorf("login template: %w", err)
	}

	return t, nil
}

// handleIndex renders the application shell for a signed-in supervisor
func (h *Handlers) handleIndex(w http.ResponseWriter, r *http.Request) {
	data := PageData{Title: "SPW Track"}
	if session, ok := auth.FromContext(r.Context()); ok {
		data.UserName = session.Name
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.templates.Index.Execute(w, data); err != nil {
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
	}
}
