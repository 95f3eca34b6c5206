package mock

import (
	"context"
	"sync"

	"github.com/abrezinsky/spwtrack/internal/repository"
)

// Repository wraps a real repository and allows injecting errors for testing.
//
// Usage:
//
//	realRepo := testutil.NewTestRepository(t)
//	mockRepo := mock.NewRepository(realRepo)
//	mockRepo.PutBlobError = errors.New("quota exceeded")
//	bridge := services.NewPersistenceBridge(log, mockRepo, services.DefaultSeed())
//	bridge.SaveLeaders(ctx, snap) // logs a warning, state unaffected
type Repository struct {
	repository.FullRepository

	GetBlobError    error
	PutBlobError    error
	DeleteBlobError error
	ClearStateError error
	GetSettingError error
	SetSettingError error

	mu   sync.Mutex
	puts map[string]int
}

// NewRepository creates a new mock repository wrapping a real one
func NewRepository(real repository.FullRepository) *Repository {
	return &Repository{FullRepository: real, puts: make(map[string]int)}
}

// PutCount reports how many successful PutBlob calls were made for key
func (m *Repository) PutCount(key string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.puts[key]
}

func (m *Repository) GetBlob(ctx context.Context, key string) (string, error) {
	if m.GetBlobError != nil {
		return "", m.GetBlobError
	}
	return m.FullRepository.GetBlob(ctx, key)
}

func (m *Repository) PutBlob(ctx context.Context, key, value string) error {
	if m.PutBlobError != nil {
		return m.PutBlobError
	}
	if err := m.FullRepository.PutBlob(ctx, key, value); err != nil {
		return err
	}
	m.mu.Lock()
	m.puts[key]++
	m.mu.Unlock()
	return nil
}

func (m *Repository) DeleteBlob(ctx context.Context, key string) error {
	if m.DeleteBlobError != nil {
		return m.DeleteBlobError
	}
	return m.FullRepository.DeleteBlob(ctx, key)
}

func (m *Repository) ClearState(ctx context.Context) error {
	if m.ClearStateError != nil {
		return m.ClearStateError
	}
	return m.FullRepository.ClearState(ctx)
}

func (m *Repository) GetSetting(ctx context.Context, key string) (string, error) {
	if m.GetSettingError != nil {
		return "", m.GetSettingError
	}
	return m.FullRepository.GetSetting(ctx, key)
}

func (m *Repository) SetSetting(ctx context.Context, key, value string) error {
	if m.SetSettingError != nil {
		return m.SetSettingError
	}
	return m.FullRepository.SetSetting(ctx, key, value)
}
