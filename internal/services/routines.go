package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/abrezinsky/spwtrack/internal/logger"
	"github.com/abrezinsky/spwtrack/internal/repository"
)

// SettingLastRoutineReset records when routines were last cleared (RFC3339)
const SettingLastRoutineReset = "last_routine_reset"

// RoutineResetter clears KAI completion across the roster
type RoutineResetter interface {
	ResetRoutines(ctx context.Context) (int, error)
}

// RoutineService resets daily routines on demand or on a cron schedule
type RoutineService struct {
	log      logger.Logger
	roster   RoutineResetter
	settings repository.SettingsRepository
	now      func() time.Time

	mu   sync.Mutex
	cron *cron.Cron
}

// NewRoutineService creates a new RoutineService
func NewRoutineService(log logger.Logger, roster RoutineResetter, settings repository.SettingsRepository) *RoutineService {
	return &RoutineService{log: log, roster: roster, settings: settings, now: time.Now}
}

// ResetNow clears every leader's routine and records the time
func (s *RoutineService) ResetNow(ctx context.Context) (int, error) {
	n, err := s.roster.ResetRoutines(ctx)
	if err != nil {
		return 0, err
	}
	if err := s.settings.SetSetting(ctx, SettingLastRoutineReset, s.now().UTC().Format(time.RFC3339)); err != nil {
		s.log.Warn("Failed to record routine reset time", "error", err)
	}
	return n, nil
}

// LastReset returns when routines were last reset, or the zero time if never
func (s *RoutineService) LastReset(ctx context.Context) (time.Time, error) {
	value, err := s.settings.GetSetting(ctx, SettingLastRoutineReset)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return time.Time{}, nil
		}
		return time.Time{}, err
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, nil // Invalid value, treat as never reset
	}
	return t, nil
}

// Start schedules ResetNow with a standard five-field cron expression
// (e.g. "0 6 * * *"). An empty schedule does nothing.
func (s *RoutineService) Start(schedule string) error {
	if schedule == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cron != nil {
		return fmt.Errorf("routine schedule already started")
	}

	c := cron.New()
	if _, err := c.AddFunc(schedule, s.scheduledReset); err != nil {
		return fmt.Errorf("invalid reset schedule %q: %w", schedule, err)
	}
	c.Start()
	s.cron = c
	s.log.Info("Routine reset scheduled", "schedule", schedule)
	return nil
}

// Stop cancels the schedule and waits for a running reset to finish
func (s *RoutineService) Stop() {
	s.mu.Lock()
	c := s.cron
	s.cron = nil
	s.mu.Unlock()

	if c != nil {
		<-c.Stop().Done()
	}
}

func (s *RoutineService) scheduledReset() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	n, err := s.ResetNow(ctx)
	if err != nil {
		s.log.Error("Scheduled routine reset failed", "error", err)
		return
	}
	s.log.Info("Scheduled routine reset", "leaders", n)
}
