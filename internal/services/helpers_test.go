package services_test

import (
	"context"
	"sync"
	"testing"

	"github.com/abrezinsky/spwtrack/internal/logger"
	"github.com/abrezinsky/spwtrack/internal/models"
	"github.com/abrezinsky/spwtrack/internal/repository/mock"
	"github.com/abrezinsky/spwtrack/internal/services"
	"github.com/abrezinsky/spwtrack/internal/testutil"
)

// recordingBroadcaster captures broadcast messages
type recordingBroadcaster struct {
	mu   sync.Mutex
	msgs []models.WSMessage
}

func (b *recordingBroadcaster) BroadcastMessage(msgType string, payload interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.msgs = append(b.msgs, models.WSMessage{Type: msgType, Payload: payload})
}

func (b *recordingBroadcaster) types() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.msgs))
	for i, m := range b.msgs {
		out[i] = m.Type
	}
	return out
}

func (b *recordingBroadcaster) last() models.WSMessage {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.msgs) == 0 {
		return models.WSMessage{}
	}
	return b.msgs[len(b.msgs)-1]
}

// env bundles a seeded state with its storage for service tests
type env struct {
	ctx     context.Context
	log     logger.Logger
	repo    *mock.Repository
	state   *services.State
	bridge  *services.PersistenceBridge
	roster  *services.RosterService
	catalog *services.CatalogService
	bcast   *recordingBroadcaster
}

func newEnv(t *testing.T) *env {
	t.Helper()
	ctx := context.Background()
	log := logger.Discard()
	repo := mock.NewRepository(testutil.NewTestRepository(t))
	bridge := services.NewPersistenceBridge(log, repo, services.DefaultSeed())
	state := services.NewState(bridge.Load(ctx))

	bcast := &recordingBroadcaster{}
	roster := services.NewRosterService(log, state, bridge)
	roster.SetBroadcaster(bcast)
	catalog := services.NewCatalogService(log, state, bridge)
	catalog.SetBroadcaster(bcast)

	return &env{
		ctx:     ctx,
		log:     log,
		repo:    repo,
		state:   state,
		bridge:  bridge,
		roster:  roster,
		catalog: catalog,
		bcast:   bcast,
	}
}

// reload reads stored state back through a fresh bridge
func (e *env) reload() services.Snapshot {
	return services.NewPersistenceBridge(e.log, e.repo, services.DefaultSeed()).Load(e.ctx)
}

func findLeader(t *testing.T, leaders []models.TeamLeader, id string) models.TeamLeader {
	t.Helper()
	for _, l := range leaders {
		if l.ID == id {
			return l
		}
	}
	t.Fatalf("leader %s not found", id)
	return models.TeamLeader{}
}

func kaiDone(l models.TeamLeader, kaiID string) bool {
	for _, k := range l.KAIs {
		if k.ID == kaiID {
			return k.IsDone
		}
	}
	return false
}
