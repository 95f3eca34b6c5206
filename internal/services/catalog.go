package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/abrezinsky/spwtrack/internal/logger"
	"github.com/abrezinsky/spwtrack/internal/metrics"
	"github.com/abrezinsky/spwtrack/internal/models"
)

// New catalog entry defaults
const (
	DefaultKAIDescription = "Nova Tarefa Padrão"
	DefaultKPIName        = "Novo Indicador"
	DefaultKPIUnit        = "#"
)

// Editable catalog fields
const (
	FieldCategory    = "category"
	FieldDescription = "description"
	FieldTarget      = "target"
	FieldUnit        = "unit"
)

// CatalogUpdate is the payload of a catalog_updated message. Leaders are
// included because every catalog change re-synchronizes the roster.
type CatalogUpdate struct {
	KAIs       []models.KAI        `json:"kais"`
	KPIs       []models.KPI        `json:"kpis"`
	Leaders    []models.TeamLeader `json:"leaders"`
	SelectedID string              `json:"selectedId"`
	Version    uint64              `json:"version"`
}

// CatalogService handles KAI and KPI definitions
type CatalogService struct {
	log         logger.Logger
	state       *State
	store       *PersistenceBridge
	broadcaster Broadcaster
}

// NewCatalogService creates a new CatalogService
func NewCatalogService(log logger.Logger, state *State, store *PersistenceBridge) *CatalogService {
	return &CatalogService{log: log, state: state, store: store}
}

// SetBroadcaster sets the broadcaster for sending updates to clients
func (s *CatalogService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// ListKAIs returns the KAI catalog in display order
func (s *CatalogService) ListKAIs(ctx context.Context) ([]models.KAI, error) {
	return s.state.Snapshot().KAIs, nil
}

// ListKPIs returns the KPI catalog in display order
func (s *CatalogService) ListKPIs(ctx context.Context) ([]models.KPI, error) {
	return s.state.Snapshot().KPIs, nil
}

// CreateKAI appends a default Safety task and adds it, not done, to every leader
func (s *CatalogService) CreateKAI(ctx context.Context) (*models.KAI, error) {
	kai := models.KAI{
		ID:          "k-" + uuid.NewString(),
		Category:    models.CategorySafety,
		Description: DefaultKAIDescription,
	}
	if _, err := s.commit(ctx, func(cur *Snapshot) error {
		cur.KAIs = append(cur.KAIs, kai)
		return nil
	}); err != nil {
		return nil, err
	}
	s.log.Debug("KAI created", "kai_id", kai.ID)
	return &kai, nil
}

// CreateKPI appends a default indicator and adds it, with actual 0, to every leader
func (s *CatalogService) CreateKPI(ctx context.Context) (*models.KPI, error) {
	kpi := models.KPI{
		ID:   "p-" + uuid.NewString(),
		Name: DefaultKPIName,
		Unit: DefaultKPIUnit,
	}
	if _, err := s.commit(ctx, func(cur *Snapshot) error {
		cur.KPIs = append(cur.KPIs, kpi)
		return nil
	}); err != nil {
		return nil, err
	}
	s.log.Debug("KPI created", "kpi_id", kpi.ID)
	return &kpi, nil
}

// UpdateKAIField changes the category or description of a KAI definition
func (s *CatalogService) UpdateKAIField(ctx context.Context, id, field, value string) (*models.KAI, error) {
	var updated models.KAI
	_, err := s.commit(ctx, func(cur *Snapshot) error {
		for i := range cur.KAIs {
			if cur.KAIs[i].ID != id {
				continue
			}
			switch field {
			case FieldCategory:
				cat := models.Category(value)
				if !cat.Valid() {
					return invalidCategory(value)
				}
				cur.KAIs[i].Category = cat
			case FieldDescription:
				cur.KAIs[i].Description = value
			default:
				return unknownField("KAI", field)
			}
			updated = cur.KAIs[i]
			return nil
		}
		return ErrKAINotFound
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// UpdateKPIField changes the name, target or unit of a KPI definition
func (s *CatalogService) UpdateKPIField(ctx context.Context, id, field, value string) (*models.KPI, error) {
	var updated models.KPI
	_, err := s.commit(ctx, func(cur *Snapshot) error {
		for i := range cur.KPIs {
			if cur.KPIs[i].ID != id {
				continue
			}
			switch field {
			case FieldName:
				cur.KPIs[i].Name = value
			case FieldTarget:
				target, err := ParseMetricValue(value)
				if err != nil {
					return err
				}
				cur.KPIs[i].Target = target
			case FieldUnit:
				cur.KPIs[i].Unit = value
			default:
				return unknownField("KPI", field)
			}
			updated = cur.KPIs[i]
			return nil
		}
		return ErrKPINotFound
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteKAI removes a KAI definition and every leader's instance of it
func (s *CatalogService) DeleteKAI(ctx context.Context, id string) error {
	_, err := s.commit(ctx, func(cur *Snapshot) error {
		for i := range cur.KAIs {
			if cur.KAIs[i].ID == id {
				cur.KAIs = append(cur.KAIs[:i], cur.KAIs[i+1:]...)
				return nil
			}
		}
		return ErrKAINotFound
	})
	if err != nil {
		return err
	}
	s.log.Info("KAI deleted", "kai_id", id)
	return nil
}

// DeleteKPI removes a KPI definition and every leader's instance of it
func (s *CatalogService) DeleteKPI(ctx context.Context, id string) error {
	_, err := s.commit(ctx, func(cur *Snapshot) error {
		for i := range cur.KPIs {
			if cur.KPIs[i].ID == id {
				cur.KPIs = append(cur.KPIs[:i], cur.KPIs[i+1:]...)
				return nil
			}
		}
		return ErrKPINotFound
	})
	if err != nil {
		return err
	}
	s.log.Info("KPI deleted", "kpi_id", id)
	return nil
}

// ResetToSeed discards stored state and restores the seed dataset
func (s *CatalogService) ResetToSeed(ctx context.Context) error {
	if err := s.store.Reset(ctx); err != nil {
		s.log.Warn("Failed to clear stored state", "error", err)
	}
	snap := s.state.Replace(s.store.Seed())
	s.store.SaveAll(ctx, snap)
	s.notify(snap)
	s.log.Info("State reset to seed data", "leaders", len(snap.Leaders))
	return nil
}

// commit applies fn to the catalogs, re-synchronizes every leader in the
// same update, persists both catalogs and the roster, and notifies clients
func (s *CatalogService) commit(ctx context.Context, fn func(*Snapshot) error) (Snapshot, error) {
	snap, err := s.state.Update(func(cur *Snapshot) error {
		if err := fn(cur); err != nil {
			return err
		}
		cur.Leaders = metrics.Sync(cur.KAIs, cur.KPIs, cur.Leaders)
		return nil
	})
	if err != nil {
		return Snapshot{}, err
	}
	s.store.SaveAll(ctx, snap)
	s.notify(snap)
	return snap, nil
}

func (s *CatalogService) notify(snap Snapshot) {
	if s.broadcaster == nil {
		return
	}
	s.broadcaster.BroadcastMessage(models.MessageCatalogUpdated, CatalogUpdate{
		KAIs:       snap.KAIs,
		KPIs:       snap.KPIs,
		Leaders:    snap.Leaders,
		SelectedID: snap.SelectedID,
		Version:    snap.Version,
	})
}
