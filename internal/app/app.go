package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/abrezinsky/spwtrack/internal/auth"
	"github.com/abrezinsky/spwtrack/internal/handlers"
	"github.com/abrezinsky/spwtrack/internal/logger"
	"github.com/abrezinsky/spwtrack/internal/repository"
	"github.com/abrezinsky/spwtrack/internal/services"
	"github.com/abrezinsky/spwtrack/internal/websocket"
)

const shutdownTimeout = 5 * time.Second

// Options configures storage, seed data, scheduling and coaching
type Options struct {
	DBPath        string
	SeedPath      string // built-in seed when empty
	ResetSchedule string // cron expression; no scheduled reset when empty
	Coaching      services.CoachingConfig
}

// App holds all application dependencies
type App struct {
	log      logger.Logger
	handlers *handlers.Handlers
	repo     *repository.Repository
	state    *services.State
	routines *services.RoutineService
	coaching *services.CoachingService
	stopHub  context.CancelFunc

	mu        sync.Mutex
	server    *http.Server
	closeOnce sync.Once
}

// New opens storage, loads the persisted state and wires the services,
// websocket hub and HTTP handlers
func New(log logger.Logger, opts Options, templatesFS, staticFS fs.FS) (*App, error) {
	seed := services.DefaultSeed()
	if opts.SeedPath != "" {
		var err error
		if seed, err = services.LoadSeedFile(opts.SeedPath); err != nil {
			return nil, err
		}
		log.Info("Seed dataset loaded", "path", opts.SeedPath, "leaders", len(seed.Leaders))
	}

	repo, err := repository.New(opts.DBPath)
	if err != nil {
		return nil, err
	}

	bridge := services.NewPersistenceBridge(log.With("component", "store"), repo, seed)
	state := services.NewState(bridge.Load(context.Background()))

	roster := services.NewRosterService(log.With("component", "roster"), state, bridge)
	catalog := services.NewCatalogService(log.With("component", "catalog"), state, bridge)
	coaching := services.NewCoachingService(log.With("component", "coach"), state, opts.Coaching)
	routines := services.NewRoutineService(log.With("component", "routines"), roster, repo)

	// Initialize WebSocket hub; cancelling its context disconnects clients
	ctx, cancel := context.WithCancel(context.Background())
	hub := websocket.New(log.With("component", "ws"), state)
	hub.Start(ctx)
	roster.SetBroadcaster(hub)
	catalog.SetBroadcaster(hub)

	h, err := handlers.New(
		handlers.Services{
			Roster:    roster,
			Catalog:   catalog,
			Dashboard: services.NewDashboardService(state),
			Coaching:  coaching,
			Badge:     services.NewBadgeService(state),
			Routines:  routines,
		},
		templatesFS,
		handlers.NewStaticServer(staticFS),
		auth.New(),
		hub,
		log,
	)
	if err != nil {
		cancel()
		repo.Close()
		return nil, fmt.Errorf("failed to initialize handlers: %w", err)
	}

	if err := routines.Start(opts.ResetSchedule); err != nil {
		cancel()
		repo.Close()
		return nil, fmt.Errorf("invalid reset schedule: %w", err)
	}

	log.Info("Coaching strategy", "strategy", coaching.Strategy())

	return &App{
		log:      log,
		handlers: h,
		repo:     repo,
		state:    state,
		routines: routines,
		coaching: coaching,
		stopHub:  cancel,
	}, nil
}

// Router returns the configured HTTP router
func (a *App) Router() chi.Router {
	return a.handlers.Router()
}

// ResetRoutines clears every leader's checklist, as the scheduled job does
func (a *App) ResetRoutines(ctx context.Context) (int, error) {
	return a.routines.ResetNow(ctx)
}

// Run serves HTTP on addr until Shutdown is called. It returns nil after a
// clean shutdown.
func (a *App) Run(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return a.Serve(ln)
}

// Serve serves HTTP on an existing listener
func (a *App) Serve(ln net.Listener) error {
	srv := &http.Server{
		Handler:           a.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	a.mu.Lock()
	a.server = srv
	a.mu.Unlock()

	a.log.Info("Server starting", "url", LANURL(ln.Addr()))
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones
func (a *App) Shutdown(ctx context.Context) error {
	a.mu.Lock()
	srv := a.server
	a.mu.Unlock()
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

// Close stops the server, the scheduler and the hub, then closes storage.
// Calls after the first do nothing.
func (a *App) Close() {
	a.closeOnce.Do(a.close)
}

func (a *App) close() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := a.Shutdown(ctx); err != nil {
		a.log.Warn("HTTP shutdown incomplete", "error", err)
	}

	a.routines.Stop()
	if a.stopHub != nil {
		a.stopHub()
	}
	if err := a.coaching.Close(); err != nil {
		a.log.Warn("Failed to close coaching client", "error", err)
	}
	if err := a.repo.Close(); err != nil {
		a.log.Warn("Failed to close database", "error", err)
	}
}
