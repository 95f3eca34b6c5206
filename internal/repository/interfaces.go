package repository

import "context"

// Storage keys for the three persisted collections
const (
	KeyLeaders = "spw_leaders"
	KeyKAIs    = "spw_kais"
	KeyKPIs    = "spw_kpis"
)

// StateKeys lists every key the dashboard state is persisted under
var StateKeys = []string{KeyLeaders, KeyKAIs, KeyKPIs}

// StateRepository stores serialized collections as opaque blobs per key
type StateRepository interface {
	GetBlob(ctx context.Context, key string) (string, error)
	PutBlob(ctx context.Context, key, value string) error
	DeleteBlob(ctx context.Context, key string) error
	ClearState(ctx context.Context) error
}

// SettingsRepository defines settings data operations
type SettingsRepository interface {
	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string) error
}

// FullRepository combines all repository interfaces
type FullRepository interface {
	StateRepository
	SettingsRepository
}

// Ensure Repository implements all interfaces
var _ FullRepository = (*Repository)(nil)
