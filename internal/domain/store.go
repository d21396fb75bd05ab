package domain

// Store is a flat key/value store of raw payloads.
// Used both as the session response cache (memory only) and the durable list store (BoltDB).
type Store interface {
	// Get returns a copy of the stored value and whether the key exists
	Get(key string) ([]byte, bool)

	// Set stores value under key, replacing any previous value
	Set(key string, value []byte) error

	// Delete removes key; removing an absent key is a no-op
	Delete(key string) error

	// Update runs a read-modify-write of key atomically.
	// fn receives the current value (nil when absent) and returns the replacement.
	Update(key string, fn func(current []byte) ([]byte, error)) error

	// Clear removes every key
	Clear() error

	Close() error
}
