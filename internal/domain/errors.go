package domain

import (
	"errors"
	"fmt"

	"github.com/dom/plantally/internal/schedule"
)

// Error categories. Callers classify failures with errors.Is against these.
var (
	ErrValidation        = errors.New("validation error")
	ErrNotFound          = errors.New("not found")
	ErrInvalidState      = errors.New("invalid state")
	ErrDemoLimitExceeded = errors.New("demo plant limit exceeded")
	ErrSessionExpired    = errors.New("session expired")
	ErrInvalidTimestamp  = schedule.ErrInvalidTimestamp
)

// Validation errors
var (
	ErrEmptyName         = fmt.Errorf("%w: plant name is required", ErrValidation)
	ErrInvalidFrequency  = fmt.Errorf("%w: water frequency must be between 1 and 3650 days", ErrValidation)
	ErrEmptyEmail        = fmt.Errorf("%w: email is required", ErrValidation)
	ErrInvalidHumidity   = fmt.Errorf("%w: humidity must be between 0 and 100", ErrValidation)
	ErrInvalidLightLevel = fmt.Errorf("%w: unknown light level", ErrValidation)
)

// Plant and session state errors
var (
	ErrPlantNotFound = fmt.Errorf("plant %w", ErrNotFound)
	ErrPlantDead     = fmt.Errorf("%w: plant is dead", ErrInvalidState)
	ErrAlreadyDead   = fmt.Errorf("%w: plant is already dead", ErrInvalidState)
	ErrNotLoggedIn   = fmt.Errorf("%w: not logged in", ErrInvalidState)
)
