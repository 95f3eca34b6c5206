package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"

	"github.com/abrezinsky/spwtrack/internal/logger"
	"github.com/abrezinsky/spwtrack/internal/metrics"
	"github.com/abrezinsky/spwtrack/internal/repository"
)

// PersistenceBridge moves whole collections between State and durable
// storage. Reads fall back to seed data per key; writes are best effort and
// never fail the caller.
type PersistenceBridge struct {
	log  logger.Logger
	repo repository.StateRepository
	seed SeedData

	mu    sync.Mutex
	saved map[string]uint64
}

// NewPersistenceBridge creates a new PersistenceBridge
func NewPersistenceBridge(log logger.Logger, repo repository.StateRepository, seed SeedData) *PersistenceBridge {
	return &PersistenceBridge{
		log:   log,
		repo:  repo,
		seed:  seed,
		saved: make(map[string]uint64),
	}
}

// Seed returns the snapshot used when storage has nothing usable
func (p *PersistenceBridge) Seed() Snapshot {
	return p.seed.Snapshot()
}

// Load reads leaders and both catalogs. Each key that is absent, empty or
// not valid JSON falls back to its seed collection. Leaders are always
// synchronized against the loaded catalogs: the three keys are written
// separately, so storage can hold a roster from a different catalog version.
func (p *PersistenceBridge) Load(ctx context.Context) Snapshot {
	snap := p.seed.Snapshot()

	leadersOK := loadKey(ctx, p, repository.KeyLeaders, &snap.Leaders)
	kaisOK := loadKey(ctx, p, repository.KeyKAIs, &snap.KAIs)
	kpisOK := loadKey(ctx, p, repository.KeyKPIs, &snap.KPIs)

	snap.Leaders = metrics.Sync(snap.KAIs, snap.KPIs, snap.Leaders)

	p.log.Info("State loaded",
		"leaders", len(snap.Leaders),
		"kais", len(snap.KAIs),
		"kpis", len(snap.KPIs),
		"from_storage", leadersOK && kaisOK && kpisOK)
	return snap
}

// loadKey decodes the stored value for key into dst. dst keeps its seed
// value when false is returned.
func loadKey[T any](ctx context.Context, p *PersistenceBridge, key string, dst *[]T) bool {
	raw, err := p.repo.GetBlob(ctx, key)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			p.log.Debug("No stored value, using seed", "key", key)
		} else {
			p.log.Warn("Failed to read stored value, using seed", "key", key, "error", err)
		}
		return false
	}
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || trimmed == "null" {
		p.log.Debug("Stored value empty, using seed", "key", key)
		return false
	}

	var decoded []T
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		p.log.Debug("Stored value malformed, using seed", "key", key, "error", err)
		return false
	}
	if decoded == nil {
		decoded = []T{}
	}
	*dst = decoded
	return true
}

// SaveLeaders persists the roster from snap
func (p *PersistenceBridge) SaveLeaders(ctx context.Context, snap Snapshot) {
	p.save(ctx, snap.Version, repository.KeyLeaders, snap.Leaders)
}

// SaveCatalog persists both catalogs from snap
func (p *PersistenceBridge) SaveCatalog(ctx context.Context, snap Snapshot) {
	p.save(ctx, snap.Version, repository.KeyKAIs, snap.KAIs)
	p.save(ctx, snap.Version, repository.KeyKPIs, snap.KPIs)
}

// SaveAll persists every collection from snap
func (p *PersistenceBridge) SaveAll(ctx context.Context, snap Snapshot) {
	p.SaveLeaders(ctx, snap)
	p.SaveCatalog(ctx, snap)
}

// Reset removes every stored collection so the next Load starts from seed
func (p *PersistenceBridge) Reset(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.repo.ClearState(ctx); err != nil {
		return err
	}
	p.saved = make(map[string]uint64)
	return nil
}

// save writes one collection. A write carrying an older version than the
// last one stored for the key is skipped, so concurrent saves cannot leave
// storage behind memory.
func (p *PersistenceBridge) save(ctx context.Context, version uint64, key string, value interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if last, ok := p.saved[key]; ok && version < last {
		p.log.Debug("Skipping stale save", "key", key, "version", version, "stored_version", last)
		return
	}

	data, err := json.Marshal(value)
	if err != nil {
		p.log.Warn("Failed to encode state for storage", "key", key, "error", err)
		return
	}
	if err := p.repo.PutBlob(ctx, key, string(data)); err != nil {
		p.log.Warn("Failed to persist state", "key", key, "error", err)
		return
	}
	p.saved[key] = version
}
