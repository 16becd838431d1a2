package ledger

import "context"

// Store persists ledger state as a flat set of key/value pairs, each value
// independently JSON-encoded. Implementations must make each write
// independently well-formed; there is no write-ahead log or batching.
//
// Implementations:
//   - store/memory: in-memory, for tests and dev
//   - store/sqlite: durable, production
type Store interface {
	// Load returns all persisted keys. A missing key is simply absent from
	// the map; Load on an empty store returns an empty map and nil error.
	Load(ctx context.Context) (map[string]string, error)

	// Save writes the full snapshot. Called synchronously after every
	// mutating ledger operation (write-through).
	Save(ctx context.Context, kv map[string]string) error
}
