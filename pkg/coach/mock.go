package coach

import (
	"context"
	"sync"

	"github.com/abrezinsky/spwtrack/internal/models"
)

// MockGenerator is a mock Generator for testing
type MockGenerator struct {
	mu       sync.Mutex
	name     string
	response string
	err      error
	gate     chan struct{}
	started  chan struct{}
	calls    int
	lastSeen models.TeamLeader
}

// MockOption configures the mock generator
type MockOption func(*MockGenerator)

// WithResponse sets the text to return
func WithResponse(text string) MockOption {
	return func(m *MockGenerator) {
		m.response = text
	}
}

// WithError sets an error to return from Generate
func WithError(err error) MockOption {
	return func(m *MockGenerator) {
		m.err = err
	}
}

// WithName sets the generator name
func WithName(name string) MockOption {
	return func(m *MockGenerator) {
		m.name = name
	}
}

// WithGate makes Generate block until gate is closed (or ctx is done).
// started receives one value per call once the call is blocked.
func WithGate(gate chan struct{}, started chan struct{}) MockOption {
	return func(m *MockGenerator) {
		m.gate = gate
		m.started = started
	}
}

// NewMockGenerator creates a new mock generator
func NewMockGenerator(opts ...MockOption) *MockGenerator {
	m := &MockGenerator{
		name:     "mock",
		response: SectionStrength + "\nok\n\n" + SectionAttention + "\nok\n\n" + SectionAction + "\nok",
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Name returns the configured name
func (m *MockGenerator) Name() string {
	return m.name
}

// Generate records the call and returns the configured response or error
func (m *MockGenerator) Generate(ctx context.Context, leader models.TeamLeader) (string, error) {
	m.mu.Lock()
	m.calls++
	m.lastSeen = leader.Clone()
	gate, started := m.gate, m.started
	m.mu.Unlock()

	if gate != nil {
		if started != nil {
			started <- struct{}{}
		}
		select {
		case <-gate:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

// Calls returns how many times Generate was called
func (m *MockGenerator) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// LastLeader returns a copy of the leader passed to the last call
func (m *MockGenerator) LastLeader() models.TeamLeader {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastSeen.Clone()
}
