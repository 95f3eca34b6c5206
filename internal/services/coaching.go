package services

import (
	"context"
	"errors"
	"sync"
	"time"

	apperrors "github.com/abrezinsky/spwtrack/internal/errors"
	"github.com/abrezinsky/spwtrack/internal/logger"
	"github.com/abrezinsky/spwtrack/pkg/coach"
)

// Messages shown when a summary cannot be produced
const (
	msgGenerationFailed = "Não foi possível gerar a análise."
	msgConnectionFailed = "Erro ao conectar com o assistente inteligente. Verifique a chave de API."
	msgNoCredential     = "Assistente indisponível: nenhuma chave de API configurada."
)

// CoachingConfig selects how summaries are produced
type CoachingConfig struct {
	APIKey          string
	Model           string
	FallbackEnabled bool
	FallbackDelay   time.Duration
}

// RemoteFactory builds the remote generator for an API key
type RemoteFactory func(ctx context.Context, apiKey, model string) (coach.Generator, error)

// CoachingReport is a generated coaching summary
type CoachingReport struct {
	LeaderID    string    `json:"leaderId"`
	Text        string    `json:"text"`
	Source      string    `json:"source"`
	GeneratedAt time.Time `json:"generatedAt"`
}

// CoachingService produces coaching summaries for leaders. It only reads
// state and never changes it.
type CoachingService struct {
	log       logger.Logger
	state     StateReader
	cfg       CoachingConfig
	newRemote RemoteFactory
	fallback  coach.Generator
	now       func() time.Time

	mu       sync.Mutex
	remote   coach.Generator
	inFlight map[string]struct{}
}

// NewCoachingService creates a new CoachingService. The Gemini client is
// created on first use.
func NewCoachingService(log logger.Logger, state StateReader, cfg CoachingConfig) *CoachingService {
	return &CoachingService{
		log:   log,
		state: state,
		cfg:   cfg,
		newRemote: func(ctx context.Context, apiKey, model string) (coach.Generator, error) {
			return coach.NewGeminiClient(ctx, apiKey, model, log)
		},
		fallback: coach.NewRuleBased(cfg.FallbackDelay),
		now:      time.Now,
		inFlight: make(map[string]struct{}),
	}
}

// SetRemoteFactory replaces how the remote generator is built
func (s *CoachingService) SetRemoteFactory(f RemoteFactory) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.newRemote = f
	s.remote = nil
}

// SetFallback replaces the generator used when no API key is configured
func (s *CoachingService) SetFallback(g coach.Generator) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fallback = g
}

// Strategy names the generator the next request will use, or "unavailable"
func (s *CoachingService) Strategy() string {
	switch {
	case s.cfg.APIKey != "":
		model := s.cfg.Model
		if model == "" {
			model = coach.DefaultModel
		}
		return "gemini:" + model
	case s.cfg.FallbackEnabled:
		return s.fallbackGenerator().Name()
	default:
		return "unavailable"
	}
}

// Generate produces a coaching summary for one leader. Only one request
// per leader may be pending at a time.
func (s *CoachingService) Generate(ctx context.Context, leaderID string) (*CoachingReport, error) {
	snap := s.state.Snapshot()
	i := snap.findLeader(leaderID)
	if i < 0 {
		return nil, ErrLeaderNotFound
	}
	leader := snap.Leaders[i]

	if !s.acquire(leaderID) {
		return nil, ErrGenerationInProgress
	}
	defer s.release(leaderID)

	gen, err := s.generator(ctx)
	if err != nil {
		return nil, err
	}

	start := s.now()
	text, err := gen.Generate(ctx, leader)
	if err != nil {
		s.log.Error("Coaching generation failed", "leader_id", leaderID, "generator", gen.Name(), "error", err)
		if errors.Is(err, coach.ErrEmptyResponse) {
			return nil, apperrors.Unavailable(msgGenerationFailed, err)
		}
		return nil, apperrors.Unavailable(msgConnectionFailed, err)
	}

	s.log.Info("Coaching summary generated", "leader_id", leaderID, "generator", gen.Name(), "duration", s.now().Sub(start))
	return &CoachingReport{
		LeaderID:    leaderID,
		Text:        text,
		Source:      gen.Name(),
		GeneratedAt: s.now(),
	}, nil
}

// generator picks the strategy: remote when an API key is configured,
// otherwise the fallback when enabled
func (s *CoachingService) generator(ctx context.Context) (coach.Generator, error) {
	if s.cfg.APIKey == "" {
		if s.cfg.FallbackEnabled {
			return s.fallbackGenerator(), nil
		}
		return nil, apperrors.Unavailable(msgNoCredential, coach.ErrNoCredential)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.remote != nil {
		return s.remote, nil
	}
	remote, err := s.newRemote(ctx, s.cfg.APIKey, s.cfg.Model)
	if err != nil {
		s.log.Error("Failed to create coaching client", "error", err)
		return nil, apperrors.Unavailable(msgConnectionFailed, err)
	}
	s.remote = remote
	return remote, nil
}

func (s *CoachingService) fallbackGenerator() coach.Generator {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fallback
}

func (s *CoachingService) acquire(leaderID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[leaderID]; busy {
		return false
	}
	s.inFlight[leaderID] = struct{}{}
	return true
}

func (s *CoachingService) release(leaderID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, leaderID)
}

// Close releases the remote generator when it holds resources
func (s *CoachingService) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.remote.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}
