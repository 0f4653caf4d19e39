package trinetra

import "github.com/trinetra-labs/trinetra/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrInvalidConfig     = domain.ErrInvalidConfig
	ErrInvalidInput      = domain.ErrInvalidInput
	ErrUnknownCategory   = domain.ErrUnknownCategory
	ErrChannelNotFound   = domain.ErrChannelNotFound
	ErrAlertNotFound     = domain.ErrAlertNotFound
	ErrScorerUnavailable = domain.ErrScorerUnavailable
)
