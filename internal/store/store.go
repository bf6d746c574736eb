// Package store persists small training-state values with abstraction for
// testing. The real implementation keeps them in a bbolt file on the
// device's flash; the in-memory implementation backs tests.
package store

// Store is a tiny key-value surface for single-byte training counters.
// Durability guarantees belong to the implementation, not the callers.
type Store interface {
	// GetUint8 returns the stored value for key. found is false when the
	// key has never been written.
	GetUint8(key string) (v uint8, found bool, err error)

	// PutUint8 stores v under key.
	PutUint8(key string, v uint8) error

	// Close releases the underlying storage.
	Close() error
}
