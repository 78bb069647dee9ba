package types

import (
	"errors"
	"fmt"
)

// Domain specific errors for location resolution and provider calls.
var (
	ErrSensorUnavailable      = errors.New("location sensor unavailable")
	ErrSensorPermissionDenied = errors.New("location permission denied")
	ErrSensorTimeout          = errors.New("location request timed out")
	ErrRateLimited            = errors.New("provider rate limit exceeded")
	ErrAccessDenied           = errors.New("provider request denied")
	ErrRequestTimedOut        = errors.New("request timed out")
	ErrInvalidInput           = errors.New("invalid input")
	ErrSuperseded             = errors.New("request superseded by a newer one")
)

// ProviderError carries the raw status text of a provider failure that
// does not map to one of the sentinel errors above.
type ProviderError struct {
	Status  string
	Message string
}

func (e *ProviderError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("provider failure: %s: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("provider failure: %s", e.Status)
}
