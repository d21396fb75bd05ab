package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"
)

// Bucket names
var (
	BucketLists = []byte("lists")
)

const dbFileName = "brickwork.db"

// KVStore implements domain.Store on top of a single BoltDB bucket.
// With no directory it runs in memory-only mode, which is how the
// per-session response cache is backed.
type KVStore struct {
	db     *bolt.DB
	bucket []byte
	mu     sync.RWMutex // Protects memory cache and serializes Update

	// In-memory cache for hot-path reads (promoted on access)
	cache map[string][]byte
}

// NewMemoryStore creates a store that lives only as long as the process.
func NewMemoryStore() *KVStore {
	return &KVStore{cache: make(map[string][]byte)}
}

// Open opens (or creates) the BoltDB file under dir and ensures bucket exists.
// An empty dir yields a memory-only store.
func Open(dir string, bucket []byte) (*KVStore, error) {
	if dir == "" {
		return NewMemoryStore(), nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	dbPath := filepath.Join(dir, dbFileName)
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &KVStore{db: db, bucket: bucket, cache: make(map[string][]byte)}, nil
}

// Path returns the backing file, or "" in memory-only mode
func (s *KVStore) Path() string {
	if s.db == nil {
		return ""
	}
	return s.db.Path()
}

func (s *KVStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *KVStore) Get(key string) ([]byte, bool) {
	s.mu.RLock()
	if data, ok := s.cache[key]; ok {
		s.mu.RUnlock()
		return clone(data), true
	}
	s.mu.RUnlock()

	if s.db == nil {
		return nil, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Another reader may have promoted it while we waited
	if data, ok := s.cache[key]; ok {
		return clone(data), true
	}

	data := s.read(key)
	if data == nil {
		return nil, false
	}

	// Promote to memory cache
	s.cache[key] = data
	return clone(data), true
}

func (s *KVStore) Set(key string, value []byte) error {
	return s.Update(key, func([]byte) ([]byte, error) {
		return value, nil
	})
}

func (s *KVStore) Update(key string, fn func(current []byte) ([]byte, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		next, err := fn(clone(s.cache[key]))
		if err != nil {
			return err
		}
		s.cache[key] = clone(next)
		return nil
	}

	var written []byte
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(s.bucket)
		next, err := fn(clone(b.Get([]byte(key))))
		if err != nil {
			return err
		}
		written = clone(next)
		return b.Put([]byte(key), written)
	})
	if err != nil {
		// The transaction rolled back; drop any stale promotion
		delete(s.cache, key)
		return err
	}
	s.cache[key] = written
	return nil
}

// Delete removes key from memory and disk. The lock is held across the
// bolt transaction so a concurrent Get cannot promote the old value.
func (s *KVStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.cache, key)
	if s.db == nil {
		return nil
	}

	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(s.bucket)
		if b == nil {
			return nil
		}
		return b.Delete([]byte(key))
	})
	if err != nil {
		return fmt.Errorf("delete %q: %w", key, err)
	}
	return nil
}

// Clear drops every key, recreating the bucket on disk
func (s *KVStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cache = make(map[string][]byte)
	if s.db == nil {
		return nil
	}

	err := s.db.Update(func(tx *bolt.Tx) error {
		if tx.Bucket(s.bucket) != nil {
			if err := tx.DeleteBucket(s.bucket); err != nil {
				return err
			}
		}
		_, err := tx.CreateBucket(s.bucket)
		return err
	})
	if err != nil {
		return fmt.Errorf("clear bucket %s: %w", s.bucket, err)
	}
	return nil
}

func (s *KVStore) read(key string) []byte {
	var data []byte
	s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(s.bucket)
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(key)); v != nil {
			data = clone(v)
		}
		return nil
	})
	return data
}

// clone copies b; BoltDB values are only valid inside their transaction.
func clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
