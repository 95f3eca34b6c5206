package services

import (
	"context"
	"strings"

	"github.com/abrezinsky/spwtrack/internal/metrics"
	"github.com/abrezinsky/spwtrack/internal/models"
)

// LeaderRow is one card on the dashboard
type LeaderRow struct {
	ID                 string         `json:"id"`
	Name               string         `json:"name"`
	RegistrationNumber string         `json:"registrationNumber"`
	Shift              models.Shift   `json:"shift"`
	AvatarURL          string         `json:"avatarUrl"`
	EfficiencyScore    int            `json:"efficiencyScore"`
	Status             metrics.Status `json:"status"`
	KAIsDone           int            `json:"kaisDone"`
	KAIsTotal          int            `json:"kaisTotal"`
	OutOfTarget        int            `json:"outOfTarget"`
}

// DashboardSummary holds the header statistics and the filtered leader cards.
// Statistics always cover the whole roster.
type DashboardSummary struct {
	TotalLeaders     int         `json:"totalLeaders"`
	GlobalEfficiency int         `json:"globalEfficiency"`
	CriticalCount    int         `json:"criticalCount"`
	Leaders          []LeaderRow `json:"leaders"`
}

// ReportEntry is one bar of the efficiency chart
type ReportEntry struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// DashboardService builds read-only views of the roster
type DashboardService struct {
	state StateReader
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(state StateReader) *DashboardService {
	return &DashboardService{state: state}
}

// Summary returns header statistics and the leaders matching search
func (s *DashboardService) Summary(ctx context.Context, search string) (*DashboardSummary, error) {
	leaders := s.state.Snapshot().Leaders

	filtered := filterLeaders(leaders, search)
	rows := make([]LeaderRow, len(filtered))
	for i, l := range filtered {
		done := 0
		for _, k := range l.KAIs {
			if k.IsDone {
				done++
			}
		}
		rows[i] = LeaderRow{
			ID:                 l.ID,
			Name:               l.Name,
			RegistrationNumber: l.RegistrationNumber,
			Shift:              l.Shift,
			AvatarURL:          l.AvatarURL,
			EfficiencyScore:    l.EfficiencyScore,
			Status:             metrics.StatusFor(l.EfficiencyScore),
			KAIsDone:           done,
			KAIsTotal:          len(l.KAIs),
			OutOfTarget:        metrics.CountOutOfTarget(l.KPIs),
		}
	}

	return &DashboardSummary{
		TotalLeaders:     len(leaders),
		GlobalEfficiency: metrics.Average(leaders),
		CriticalCount:    metrics.CountCritical(leaders),
		Leaders:          rows,
	}, nil
}

// Report returns chart data: each leader's first name and score
func (s *DashboardService) Report(ctx context.Context) ([]ReportEntry, error) {
	leaders := s.state.Snapshot().Leaders
	out := make([]ReportEntry, len(leaders))
	for i, l := range leaders {
		name := ""
		if fields := strings.Fields(l.Name); len(fields) > 0 {
			name = fields[0]
		}
		out[i] = ReportEntry{Name: name, Score: l.EfficiencyScore}
	}
	return out, nil
}
