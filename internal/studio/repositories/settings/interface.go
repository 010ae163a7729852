package settings

import "context"

// Well-known keys stored in the settings table. Values are JSON blobs.
const (
	KeyAppSettings = "app-settings"
	KeySessionUser = "session-user"
	KeyActors      = "actors"
)

// Repository is a small key/value bag for session state and preferences.
type Repository interface {
	// Get returns the stored value, or nil if the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Clear removes all keys.
	Clear(ctx context.Context) error
}
