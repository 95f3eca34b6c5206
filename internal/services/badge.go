package services

import (
	"context"

	qrcode "github.com/skip2/go-qrcode"
)

// Badge size limits in pixels
const (
	DefaultBadgeSize = 256
	minBadgeSize     = 64
	maxBadgeSize     = 1024
)

// BadgeService renders leader identification badges
type BadgeService struct {
	state StateReader
}

// NewBadgeService creates a new BadgeService
func NewBadgeService(state StateReader) *BadgeService {
	return &BadgeService{state: state}
}

// BadgePNG returns a QR code PNG encoding the leader's registration number.
// A size of 0 uses DefaultBadgeSize.
func (s *BadgeService) BadgePNG(ctx context.Context, leaderID string, size int) ([]byte, error) {
	if size == 0 {
		size = DefaultBadgeSize
	}
	if size < minBadgeSize || size > maxBadgeSize {
		return nil, ErrInvalidBadgeSize
	}

	snap := s.state.Snapshot()
	i := snap.findLeader(leaderID)
	if i < 0 {
		return nil, ErrLeaderNotFound
	}

	content := snap.Leaders[i].RegistrationNumber
	if content == "" {
		content = snap.Leaders[i].ID
	}
	return qrcode.Encode(content, qrcode.Medium, size)
}
