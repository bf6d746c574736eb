package store

// MemStore is an in-memory Store for tests. It counts writes so throttling
// behavior can be asserted.
type MemStore struct {
	// Values holds the current stored values.
	Values map[string]uint8

	// Puts counts PutUint8 calls.
	Puts int

	// GetError, if set, will be returned by GetUint8.
	GetError error

	// PutError, if set, will be returned by PutUint8.
	PutError error

	// Closed tracks if Close was called.
	Closed bool
}

// NewMemStore creates an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{Values: make(map[string]uint8)}
}

// GetUint8 returns the stored value for key.
func (m *MemStore) GetUint8(key string) (uint8, bool, error) {
	if m.GetError != nil {
		return 0, false, m.GetError
	}
	v, ok := m.Values[key]
	return v, ok, nil
}

// PutUint8 stores v under key and counts the write.
func (m *MemStore) PutUint8(key string, v uint8) error {
	if m.PutError != nil {
		return m.PutError
	}
	m.Values[key] = v
	m.Puts++
	return nil
}

// Close marks the store as closed.
func (m *MemStore) Close() error {
	m.Closed = true
	return nil
}
