package services

import (
	"sync"

	"github.com/abrezinsky/spwtrack/internal/models"
)

// Snapshot is a consistent view of the dashboard state. Values handed out by
// State are deep copies; callers may modify them freely.
type Snapshot struct {
	Leaders    []models.TeamLeader `json:"leaders"`
	KAIs       []models.KAI        `json:"kais"`
	KPIs       []models.KPI        `json:"kpis"`
	SelectedID string              `json:"selectedId"`
	// Version increases by one on every committed update
	Version uint64 `json:"version"`
}

func (s Snapshot) clone() Snapshot {
	return Snapshot{
		Leaders:    models.CloneLeaders(s.Leaders),
		KAIs:       models.CloneKAIs(s.KAIs),
		KPIs:       models.CloneKPIs(s.KPIs),
		SelectedID: s.SelectedID,
		Version:    s.Version,
	}
}

// findLeader returns the index of the leader with id, or -1
func (s Snapshot) findLeader(id string) int {
	for i := range s.Leaders {
		if s.Leaders[i].ID == id {
			return i
		}
	}
	return -1
}

// StateReader exposes read-only access to the current state
type StateReader interface {
	Snapshot() Snapshot
}

// State holds the single in-memory copy of leaders, catalogs and the
// selected leader. All writes go through Update so every mutation is
// computed from the latest committed value.
type State struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewState creates a State seeded with initial
func NewState(initial Snapshot) *State {
	return &State{snap: initial.clone()}
}

// Snapshot returns a deep copy of the current state
func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.clone()
}

// Update runs fn on a private copy of the current state while holding the
// write lock. If fn returns nil the copy replaces the state and a copy of
// the committed value is returned; otherwise nothing changes.
func (s *State) Update(fn func(*Snapshot) error) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.snap.clone()
	if err := fn(&next); err != nil {
		return Snapshot{}, err
	}
	next.Version = s.snap.Version + 1
	s.snap = next
	return next.clone(), nil
}

// Replace installs a new state wholesale, keeping the version monotonic
func (s *State) Replace(next Snapshot) Snapshot {
	committed, _ := s.Update(func(cur *Snapshot) error {
		*cur = next.clone()
		return nil
	})
	return committed
}
