package tenant

import (
	"errors"
	"fmt"
)

// Closed error set for context resolution. The HTTP boundary maps these to
// status codes; nothing else ever crosses the package boundary.
var (
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrProfileNotFound    = errors.New("profile not found")
	ErrNoActiveMembership = errors.New("no active franchise membership")
	ErrBackendUnavailable = errors.New("backend unavailable")

	// ErrNotFound covers both "no such row" and "row belongs to another
	// franchise". Callers must not be able to tell the two apart.
	ErrNotFound = errors.New("not found")
)

// backendErr wraps a store failure so errors.Is(err, ErrBackendUnavailable)
// holds while the store's message stays available for logs.
func backendErr(err error) error {
	return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
}
