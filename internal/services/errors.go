package services

import (
	"github.com/abrezinsky/spwtrack/internal/errors"
)

// Service errors
var (
	ErrLeaderNotFound       = errors.NotFound("team leader not found")
	ErrKAINotFound          = errors.NotFound("KAI not found")
	ErrKPINotFound          = errors.NotFound("KPI not found")
	ErrNoLeaderSelected     = errors.NotFound("no team leader selected")
	ErrDeleteNotConfirmed   = errors.ConfirmationRequired("deletion must be confirmed")
	ErrGenerationInProgress = errors.Conflict("coaching summary already being generated for this leader")
	ErrEmptyPhoto           = errors.Validation("photo is empty")
	ErrPhotoTooLarge        = errors.Validation("photo exceeds 5 MiB")
	ErrPhotoNotImage        = errors.Validation("photo must be an image")
	ErrInvalidMetricValue   = errors.InvalidInput("value must be a finite number")
	ErrInvalidBadgeSize     = errors.Validation("badge size must be between 64 and 1024")
)

// unknownField reports an update to a field the entity does not expose
func unknownField(entity, field string) error {
	return errors.Validationf("unknown %s field %q", entity, field)
}

func invalidShift(value string) error {
	return errors.Validationf("shift must be A, B or C, got %q", value)
}

func invalidCategory(value string) error {
	return errors.Validationf("category must be one of Safety, Quality, People, Cost, Delivery, got %q", value)
}
