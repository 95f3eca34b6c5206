package services

import (
	"context"
	"time"

	"github.com/abrezinsky/spwtrack/internal/models"
)

// Broadcaster defines the interface for broadcasting messages to clients
type Broadcaster interface {
	BroadcastMessage(msgType string, payload interface{})
}

// RosterServicer defines the interface for team leader operations
type RosterServicer interface {
	ListLeaders(ctx context.Context, search string) ([]models.TeamLeader, error)
	GetLeader(ctx context.Context, id string) (*models.TeamLeader, error)
	SelectedLeader(ctx context.Context) (*models.TeamLeader, error)
	SelectLeader(ctx context.Context, id string) error
	CreateLeader(ctx context.Context, opts CreateLeaderOptions) (*CreateLeaderResult, error)
	UpdateLeaderField(ctx context.Context, id, field, value string) (*models.TeamLeader, error)
	DeleteLeader(ctx context.Context, id string, confirmed bool) error
	ToggleKAI(ctx context.Context, leaderID, kaiID string) (*models.TeamLeader, error)
	UpdateKPIActual(ctx context.Context, leaderID, kpiID, raw string) (*models.TeamLeader, error)
	UpdateAvatar(ctx context.Context, id string, data []byte) (*models.TeamLeader, error)
	ResetRoutines(ctx context.Context) (int, error)
	SetBroadcaster(b Broadcaster)
}

// CatalogServicer defines the interface for KAI/KPI definition operations
type CatalogServicer interface {
	ListKAIs(ctx context.Context) ([]models.KAI, error)
	ListKPIs(ctx context.Context) ([]models.KPI, error)
	CreateKAI(ctx context.Context) (*models.KAI, error)
	CreateKPI(ctx context.Context) (*models.KPI, error)
	UpdateKAIField(ctx context.Context, id, field, value string) (*models.KAI, error)
	UpdateKPIField(ctx context.Context, id, field, value string) (*models.KPI, error)
	DeleteKAI(ctx context.Context, id string) error
	DeleteKPI(ctx context.Context, id string) error
	ResetToSeed(ctx context.Context) error
	SetBroadcaster(b Broadcaster)
}

// DashboardServicer defines the interface for read-only dashboard views
type DashboardServicer interface {
	Summary(ctx context.Context, search string) (*DashboardSummary, error)
	Report(ctx context.Context) ([]ReportEntry, error)
}

// CoachingServicer defines the interface for coaching summaries
type CoachingServicer interface {
	Generate(ctx context.Context, leaderID string) (*CoachingReport, error)
	Strategy() string
}

// BadgeServicer defines the interface for leader badge images
type BadgeServicer interface {
	BadgePNG(ctx context.Context, leaderID string, size int) ([]byte, error)
}

// RoutineServicer defines the interface for routine resets
type RoutineServicer interface {
	ResetNow(ctx context.Context) (int, error)
	LastReset(ctx context.Context) (time.Time, error)
}

// Ensure concrete types implement interfaces
var (
	_ RosterServicer    = (*RosterService)(nil)
	_ CatalogServicer   = (*CatalogService)(nil)
	_ DashboardServicer = (*DashboardService)(nil)
	_ CoachingServicer  = (*CoachingService)(nil)
	_ BadgeServicer     = (*BadgeService)(nil)
	_ RoutineServicer   = (*RoutineService)(nil)
	_ StateReader       = (*State)(nil)
)
