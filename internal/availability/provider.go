package availability

import (
	"context"
	"errors"
	"fmt"
)

// Provider is a booking backend that can report slot availability for one
// resource on one date. Implementations normalize their native payloads
// (seconds-from-midnight integers, HH:MM:SS strings, ...) to canonical Slots
// before returning; the core never branches on provider identity.
type Provider interface {
	Name() string
	Ping(ctx context.Context) error
	FetchSlots(ctx context.Context, resourceID, date string) ([]Slot, error)
}

// ProviderError wraps a transport, auth, or parse failure from a backend.
// The monitor treats it as "no data for this pair": log, report, move on.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// IsProviderError reports whether err is (or wraps) a ProviderError.
func IsProviderError(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe)
}
