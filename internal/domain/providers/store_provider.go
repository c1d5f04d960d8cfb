package providers

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned by KeyValueStore.Get for missing keys
var ErrKeyNotFound = errors.New("key not found")

// Fixed keys under which client state is persisted
const (
	KeyToken                    = "token"
	KeyUser                     = "user"
	KeyInstallPromptDismissedAt = "installPromptDismissedAt"
	KeyInstallPromptInstalled   = "installPromptInstalled"
)

// KeyValueStore defines the persistent client-side key/value storage
type KeyValueStore interface {
	// Get retrieves a value, returning ErrKeyNotFound when absent
	Get(ctx context.Context, key string) (string, error)

	// Set stores a value without expiry
	Set(ctx context.Context, key, value string) error

	// Delete removes a value; deleting a missing key is not an error
	Delete(ctx context.Context, key string) error
}
