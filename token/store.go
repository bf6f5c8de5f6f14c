package token

import "context"

// DefaultKey is the key the serialized session is stored under.
const DefaultKey = "authToken"

// Store is durable key/value storage for one serialized session.
// Implementations hold a single fixed key; values are stored as-is.
type Store interface {
	// Save writes the value, replacing any previous one
	Save(ctx context.Context, value string) error

	// Load returns the stored value. found is false when nothing is stored.
	Load(ctx context.Context) (value string, found bool, err error)

	// Clear removes the value. Clearing an empty store is not an error.
	Clear(ctx context.Context) error
}
