package services_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	apperrors "github.com/abrezinsky/spwtrack/internal/errors"
	"github.com/abrezinsky/spwtrack/internal/logger"
	"github.com/abrezinsky/spwtrack/internal/services"
	"github.com/abrezinsky/spwtrack/pkg/coach"
)

func newCoaching(cfg services.CoachingConfig) (*services.CoachingService, *services.State) {
	state := services.NewState(services.DefaultSeed().Snapshot())
	return services.NewCoachingService(logger.Discard(), state, cfg), state
}

func remoteFactory(g coach.Generator) services.RemoteFactory {
	return func(ctx context.Context, apiKey, model string) (coach.Generator, error) {
		return g, nil
	}
}

func TestCoaching_UsesRemoteWhenKeyConfigured(t *testing.T) {
	svc, _ := newCoaching(services.CoachingConfig{APIKey: "key", FallbackEnabled: true})
	mockGen := coach.NewMockGenerator(coach.WithResponse("remote text"), coach.WithName("gemini:test"))
	svc.SetRemoteFactory(remoteFactory(mockGen))

	report, err := svc.Generate(context.Background(), "tl-001")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if report.Text != "remote text" || report.Source != "gemini:test" || report.LeaderID != "tl-001" {
		t.Errorf("report = %+v", report)
	}
	if report.GeneratedAt.IsZero() {
		t.Error("GeneratedAt not set")
	}
	if mockGen.LastLeader().Name != "Carlos Mendes" {
		t.Error("generator should receive the leader snapshot")
	}
}

func TestCoaching_RemoteClientCreatedOnce(t *testing.T) {
	svc, _ := newCoaching(services.CoachingConfig{APIKey: "key"})
	created := 0
	svc.SetRemoteFactory(func(ctx context.Context, apiKey, model string) (coach.Generator, error) {
		created++
		return coach.NewMockGenerator(), nil
	})

	svc.Generate(context.Background(), "tl-001")
	svc.Generate(context.Background(), "tl-002")
	if created != 1 {
		t.Errorf("factory called %d times, want 1", created)
	}
}

func TestCoaching_FallbackWithoutKey(t *testing.T) {
	svc, _ := newCoaching(services.CoachingConfig{FallbackEnabled: true})

	report, err := svc.Generate(context.Background(), "tl-003")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if report.Source != "rule-based" {
		t.Errorf("Source = %q", report.Source)
	}
	for _, section := range []string{coach.SectionStrength, coach.SectionAttention, coach.SectionAction} {
		if !strings.Contains(report.Text, section) {
			t.Errorf("text missing %q", section)
		}
	}
	if !strings.Contains(report.Text, "Auditoria de EPIs da equipe") {
		t.Error("attention should name Roberto's first pending KAI")
	}
	if svc.Strategy() != "rule-based" {
		t.Errorf("Strategy() = %q", svc.Strategy())
	}
}

func TestCoaching_NoKeyNoFallback(t *testing.T) {
	svc, _ := newCoaching(services.CoachingConfig{})

	_, err := svc.Generate(context.Background(), "tl-001")
	if apperrors.KindOf(err) != apperrors.ErrUnavailable {
		t.Fatalf("error = %v, want unavailable", err)
	}
	if !errors.Is(err, coach.ErrNoCredential) {
		t.Error("error should wrap ErrNoCredential")
	}
	if svc.Strategy() != "unavailable" {
		t.Errorf("Strategy() = %q", svc.Strategy())
	}
}

func TestCoaching_RemoteFailure(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		message string
	}{
		{"transport", errors.New("connection refused"), "Erro ao conectar"},
		{"empty", coach.ErrEmptyResponse, "Não foi possível gerar"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fallback := coach.NewMockGenerator()
			svc, _ := newCoaching(services.CoachingConfig{APIKey: "key", FallbackEnabled: true})
			svc.SetRemoteFactory(remoteFactory(coach.NewMockGenerator(coach.WithError(tt.err))))
			svc.SetFallback(fallback)

			_, err := svc.Generate(context.Background(), "tl-001")
			if apperrors.KindOf(err) != apperrors.ErrUnavailable {
				t.Fatalf("error = %v, want unavailable", err)
			}
			if !strings.Contains(err.Error(), tt.message) {
				t.Errorf("error = %q, want %q", err.Error(), tt.message)
			}
			if fallback.Calls() != 0 {
				t.Error("a remote failure should not silently fall back")
			}
		})
	}
}

func TestCoaching_FactoryFailure(t *testing.T) {
	svc, _ := newCoaching(services.CoachingConfig{APIKey: "key"})
	svc.SetRemoteFactory(func(ctx context.Context, apiKey, model string) (coach.Generator, error) {
		return nil, errors.New("bad key")
	})

	_, err := svc.Generate(context.Background(), "tl-001")
	if apperrors.KindOf(err) != apperrors.ErrUnavailable {
		t.Errorf("error = %v, want unavailable", err)
	}
}

func TestCoaching_UnknownLeader(t *testing.T) {
	svc, _ := newCoaching(services.CoachingConfig{FallbackEnabled: true})
	if _, err := svc.Generate(context.Background(), "nope"); !errors.Is(err, services.ErrLeaderNotFound) {
		t.Errorf("error = %v, want ErrLeaderNotFound", err)
	}
}

func TestCoaching_InFlightGuard(t *testing.T) {
	gate := make(chan struct{})
	started := make(chan struct{}, 1)
	mockGen := coach.NewMockGenerator(coach.WithGate(gate, started))

	svc, _ := newCoaching(services.CoachingConfig{APIKey: "key"})
	svc.SetRemoteFactory(remoteFactory(mockGen))

	var wg sync.WaitGroup
	var firstErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, firstErr = svc.Generate(context.Background(), "tl-001")
	}()

	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("first generation did not start")
	}

	// Same leader is rejected while the first request is pending
	_, err := svc.Generate(context.Background(), "tl-001")
	if !errors.Is(err, services.ErrGenerationInProgress) {
		t.Errorf("second request error = %v, want ErrGenerationInProgress", err)
	}

	close(gate)
	wg.Wait()
	if firstErr != nil {
		t.Fatalf("first request error = %v", firstErr)
	}

	// Guard is released afterwards; the gate is closed so this returns at once
	go func() { <-started }()
	if _, err := svc.Generate(context.Background(), "tl-001"); err != nil {
		t.Errorf("request after completion error = %v", err)
	}
}

func TestCoaching_DoesNotMutateState(t *testing.T) {
	svc, state := newCoaching(services.CoachingConfig{FallbackEnabled: true})
	before := state.Snapshot()

	svc.Generate(context.Background(), "tl-001")

	if state.Snapshot().Version != before.Version {
		t.Error("coaching should never change state")
	}
}

func TestCoaching_StrategyRemote(t *testing.T) {
	svc, _ := newCoaching(services.CoachingConfig{APIKey: "key", Model: "gemini-x"})
	if svc.Strategy() != "gemini:gemini-x" {
		t.Errorf("Strategy() = %q", svc.Strategy())
	}
	svc, _ = newCoaching(services.CoachingConfig{APIKey: "key"})
	if svc.Strategy() != "gemini:"+coach.DefaultModel {
		t.Errorf("Strategy() = %q", svc.Strategy())
	}
	if err := svc.Close(); err != nil {
		t.Errorf("Close() without client error = %v", err)
	}
}
