package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/abrezinsky/spwtrack/internal/logger"
	"github.com/abrezinsky/spwtrack/internal/metrics"
	"github.com/abrezinsky/spwtrack/internal/models"
)

// New leader defaults
const (
	DefaultLeaderName         = "Novo Team Leader"
	DefaultLeaderRegistration = "SPW-0000"
	avatarURLFormat           = "https://picsum.photos/200/200?random=%d"
)

// MaxPhotoBytes is the largest accepted avatar upload
const MaxPhotoBytes = 5 << 20

// Editable leader fields
const (
	FieldName               = "name"
	FieldRegistrationNumber = "registrationNumber"
	FieldShift              = "shift"
	FieldAvatarURL          = "avatarUrl"
)

// CreateLeaderOptions controls where a new leader is created from
type CreateLeaderOptions struct {
	// FromSettings creates the leader without selecting it, as the
	// settings screen does
	FromSettings bool
}

// CreateLeaderResult is returned by CreateLeader
type CreateLeaderResult struct {
	Leader   models.TeamLeader `json:"leader"`
	Selected bool              `json:"selected"`
}

// RosterUpdate is the payload of a roster_updated message
type RosterUpdate struct {
	Leaders    []models.TeamLeader `json:"leaders"`
	SelectedID string              `json:"selectedId"`
	Version    uint64              `json:"version"`
}

// RosterService handles team leader business logic
type RosterService struct {
	log         logger.Logger
	state       *State
	store       *PersistenceBridge
	broadcaster Broadcaster
	now         func() time.Time
}

// NewRosterService creates a new RosterService
func NewRosterService(log logger.Logger, state *State, store *PersistenceBridge) *RosterService {
	return &RosterService{log: log, state: state, store: store, now: time.Now}
}

// SetBroadcaster sets the broadcaster for sending updates to clients
func (s *RosterService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// ListLeaders returns leaders whose name or registration number contains
// search, ignoring case. An empty search returns everyone.
func (s *RosterService) ListLeaders(ctx context.Context, search string) ([]models.TeamLeader, error) {
	return filterLeaders(s.state.Snapshot().Leaders, search), nil
}

// GetLeader returns a single leader
func (s *RosterService) GetLeader(ctx context.Context, id string) (*models.TeamLeader, error) {
	snap := s.state.Snapshot()
	i := snap.findLeader(id)
	if i < 0 {
		return nil, ErrLeaderNotFound
	}
	return &snap.Leaders[i], nil
}

// SelectedLeader returns the leader open in the detail view
func (s *RosterService) SelectedLeader(ctx context.Context) (*models.TeamLeader, error) {
	snap := s.state.Snapshot()
	if snap.SelectedID == "" {
		return nil, ErrNoLeaderSelected
	}
	i := snap.findLeader(snap.SelectedID)
	if i < 0 {
		return nil, ErrNoLeaderSelected
	}
	return &snap.Leaders[i], nil
}

// SelectLeader opens a leader in the detail view. An empty id clears the
// selection. Selection is not persisted.
func (s *RosterService) SelectLeader(ctx context.Context, id string) error {
	snap, err := s.state.Update(func(cur *Snapshot) error {
		if id != "" && cur.findLeader(id) < 0 {
			return ErrLeaderNotFound
		}
		cur.SelectedID = id
		return nil
	})
	if err != nil {
		return err
	}
	s.log.Debug("Leader selected", "leader_id", id)
	s.notify(snap)
	return nil
}

// CreateLeader appends a leader with default fields and fresh copies of the
// catalogs. The leader is selected unless created from settings.
func (s *RosterService) CreateLeader(ctx context.Context, opts CreateLeaderOptions) (*CreateLeaderResult, error) {
	var created models.TeamLeader
	snap, err := s.commit(ctx, func(cur *Snapshot) error {
		kais, kpis := metrics.Instantiate(cur.KAIs, cur.KPIs)
		created = models.TeamLeader{
			ID:                 "tl-" + uuid.NewString(),
			Name:               DefaultLeaderName,
			RegistrationNumber: DefaultLeaderRegistration,
			Shift:              models.ShiftA,
			AvatarURL:          fmt.Sprintf(avatarURLFormat, s.now().UnixNano()),
			KAIs:               kais,
			KPIs:               kpis,
			EfficiencyScore:    metrics.Efficiency(kais),
		}
		cur.Leaders = append(cur.Leaders, created)
		if !opts.FromSettings {
			cur.SelectedID = created.ID
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Debug("Leader created", "leader_id", created.ID, "selected", !opts.FromSettings)
	i := snap.findLeader(created.ID)
	return &CreateLeaderResult{Leader: snap.Leaders[i], Selected: !opts.FromSettings}, nil
}

// UpdateLeaderField sets one identity field on a leader
func (s *RosterService) UpdateLeaderField(ctx context.Context, id, field, value string) (*models.TeamLeader, error) {
	return s.updateLeader(ctx, id, func(l *models.TeamLeader) error {
		switch field {
		case FieldName:
			l.Name = value
		case FieldRegistrationNumber:
			l.RegistrationNumber = value
		case FieldShift:
			shift := models.Shift(value)
			if !shift.Valid() {
				return invalidShift(value)
			}
			l.Shift = shift
		case FieldAvatarURL:
			l.AvatarURL = value
		default:
			return unknownField("leader", field)
		}
		return nil
	})
}

// DeleteLeader removes a leader. Nothing changes until confirmed is true.
// Removing the selected leader clears the selection.
func (s *RosterService) DeleteLeader(ctx context.Context, id string, confirmed bool) error {
	if !confirmed {
		if s.state.Snapshot().findLeader(id) < 0 {
			return ErrLeaderNotFound
		}
		return ErrDeleteNotConfirmed
	}

	_, err := s.commit(ctx, func(cur *Snapshot) error {
		i := cur.findLeader(id)
		if i < 0 {
			return ErrLeaderNotFound
		}
		cur.Leaders = append(cur.Leaders[:i], cur.Leaders[i+1:]...)
		if cur.SelectedID == id {
			cur.SelectedID = ""
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.log.Info("Leader deleted", "leader_id", id)
	return nil
}

// ToggleKAI flips one routine task for one leader and recomputes that
// leader's efficiency
func (s *RosterService) ToggleKAI(ctx context.Context, leaderID, kaiID string) (*models.TeamLeader, error) {
	return s.updateLeader(ctx, leaderID, func(l *models.TeamLeader) error {
		for i := range l.KAIs {
			if l.KAIs[i].ID == kaiID {
				l.KAIs[i].IsDone = !l.KAIs[i].IsDone
				return nil
			}
		}
		return ErrKAINotFound
	})
}

// UpdateKPIActual records a measured value typed by the user
func (s *RosterService) UpdateKPIActual(ctx context.Context, leaderID, kpiID, raw string) (*models.TeamLeader, error) {
	value, err := ParseMetricValue(raw)
	if err != nil {
		return nil, err
	}
	return s.updateLeader(ctx, leaderID, func(l *models.TeamLeader) error {
		for i := range l.KPIs {
			if l.KPIs[i].ID == kpiID {
				l.KPIs[i].Actual = value
				return nil
			}
		}
		return ErrKPINotFound
	})
}

// UpdateAvatar stores an uploaded image as the leader's avatar data URL
func (s *RosterService) UpdateAvatar(ctx context.Context, id string, data []byte) (*models.TeamLeader, error) {
	if len(data) == 0 {
		return nil, ErrEmptyPhoto
	}
	if len(data) > MaxPhotoBytes {
		return nil, ErrPhotoTooLarge
	}

	mime := mimetype.Detect(data)
	if !strings.HasPrefix(mime.String(), "image/") {
		s.log.Debug("Rejected avatar upload", "leader_id", id, "mime", mime.String())
		return nil, ErrPhotoNotImage
	}

	dataURL := "data:" + mime.String() + ";base64," + base64.StdEncoding.EncodeToString(data)
	return s.updateLeader(ctx, id, func(l *models.TeamLeader) error {
		l.AvatarURL = dataURL
		return nil
	})
}

// ResetRoutines clears every leader's KAI completion so a new shift starts
// from an empty checklist. KPI values are kept. Returns the number of
// leaders reset.
func (s *RosterService) ResetRoutines(ctx context.Context) (int, error) {
	snap, err := s.commit(ctx, func(cur *Snapshot) error {
		for i := range cur.Leaders {
			for j := range cur.Leaders[i].KAIs {
				cur.Leaders[i].KAIs[j].IsDone = false
			}
			cur.Leaders[i].EfficiencyScore = metrics.Efficiency(cur.Leaders[i].KAIs)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	s.log.Info("Routines reset", "leaders", len(snap.Leaders))
	return len(snap.Leaders), nil
}

// updateLeader applies fn to one leader, recomputes its efficiency and
// commits
func (s *RosterService) updateLeader(ctx context.Context, id string, fn func(*models.TeamLeader) error) (*models.TeamLeader, error) {
	snap, err := s.commit(ctx, func(cur *Snapshot) error {
		i := cur.findLeader(id)
		if i < 0 {
			return ErrLeaderNotFound
		}
		if err := fn(&cur.Leaders[i]); err != nil {
			return err
		}
		cur.Leaders[i].EfficiencyScore = metrics.Efficiency(cur.Leaders[i].KAIs)
		return nil
	})
	if err != nil {
		return nil, err
	}
	i := snap.findLeader(id)
	return &snap.Leaders[i], nil
}

// commit applies fn to the latest state, persists the roster and notifies
// clients
func (s *RosterService) commit(ctx context.Context, fn func(*Snapshot) error) (Snapshot, error) {
	snap, err := s.state.Update(fn)
	if err != nil {
		return Snapshot{}, err
	}
	s.store.SaveLeaders(ctx, snap)
	s.notify(snap)
	return snap, nil
}

func (s *RosterService) notify(snap Snapshot) {
	if s.broadcaster == nil {
		return
	}
	s.broadcaster.BroadcastMessage(models.MessageRosterUpdated, RosterUpdate{
		Leaders:    snap.Leaders,
		SelectedID: snap.SelectedID,
		Version:    snap.Version,
	})
}

// ParseMetricValue parses a number typed into a KPI field. Blank input is
// 0 and a decimal comma is accepted. Anything else that is not a finite
// number is rejected.
func ParseMetricValue(raw string) (float64, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(strings.Replace(trimmed, ",", ".", 1), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, ErrInvalidMetricValue
	}
	return v, nil
}

func filterLeaders(leaders []models.TeamLeader, search string) []models.TeamLeader {
	q := strings.ToLower(strings.TrimSpace(search))
	if q == "" {
		return leaders
	}
	out := make([]models.TeamLeader, 0, len(leaders))
	for _, l := range leaders {
		if strings.Contains(strings.ToLower(l.Name), q) ||
			strings.Contains(strings.ToLower(l.RegistrationNumber), q) {
			out = append(out, l)
		}
	}
	return out
}
