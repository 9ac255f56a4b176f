// Package params resolves named secrets and configuration values from a
// parameter store through a process-wide TTL cache, and derives the hash
// salts used by event sanitization.
package params

import (
	"context"
	"time"
)

// Store is a key-value secret/parameter store.
//
// Implementations return a PARAMETER_NOT_FOUND error when name has no value
// and a PARAMETER_FETCH error on transport failure.
type Store interface {
	GetParameter(ctx context.Context, name string, decrypt bool) (string, error)
}

// Clock returns the current time
type Clock func() time.Time

// StoreFunc adapts a function to the Store interface
type StoreFunc func(ctx context.Context, name string, decrypt bool) (string, error)

// GetParameter calls f
func (f StoreFunc) GetParameter(ctx context.Context, name string, decrypt bool) (string, error) {
	return f(ctx, name, decrypt)
}
