package store

import (
	"fmt"

	bolt "go.etcd.io/bbolt"
)

var bucketName = []byte("training")

// BoltStore persists values in a bbolt database file.
type BoltStore struct {
	db *bolt.DB
}

// OpenBolt opens (creating if needed) the database at path.
func OpenBolt(path string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("open store %s: %w", path, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create bucket: %w", err)
	}

	return &BoltStore{db: db}, nil
}

// GetUint8 returns the stored value for key.
func (s *BoltStore) GetUint8(key string) (uint8, bool, error) {
	var v uint8
	var found bool

	err := s.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(bucketName).Get([]byte(key))
		if len(raw) == 1 {
			v = raw[0]
			found = true
		}
		return nil
	})
	if err != nil {
		return 0, false, fmt.Errorf("get %s: %w", key, err)
	}
	return v, found, nil
}

// PutUint8 stores v under key.
func (s *BoltStore) PutUint8(key string, v uint8) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).Put([]byte(key), []byte{v})
	})
	if err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}

// Close closes the database file.
func (s *BoltStore) Close() error {
	return s.db.Close()
}
