package idempotency

import (
	"context"
	"encoding/json"
	"time"

	bolt "github.com/boltdb/bolt"
)

const bucketName = "idempotency"

type boltEntry struct {
	Pending   bool      `json:"pending"`
	Record    *Record   `json:"record,omitempty"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (e *boltEntry) expired(now time.Time) bool {
	return !e.ExpiresAt.IsZero() && now.After(e.ExpiresAt)
}

// BoltStore keeps records in a single BoltDB file. Used when Redis is not
// configured.
type BoltStore struct {
	db  *bolt.DB
	now func() time.Time
}

// NewBoltStore opens (or creates) the database at path.
func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, err
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltStore{db: db, now: time.Now}, nil
}

// Close releases the database file lock.
func (s *BoltStore) Close() error {
	return s.db.Close()
}

func (s *BoltStore) Get(ctx context.Context, key string) (*Record, error) {
	var rec *Record

	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket([]byte(bucketName)).Get([]byte(key))
		if v == nil {
			return ErrNotFound
		}
		var e boltEntry
		if err := json.Unmarshal(v, &e); err != nil {
			return err
		}
		if e.Pending || e.Record == nil || e.expired(s.now()) {
			return ErrNotFound
		}
		rec = e.Record
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *BoltStore) Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	reserved := false

	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))
		now := s.now()

		if v := b.Get([]byte(key)); v != nil {
			var e boltEntry
			if err := json.Unmarshal(v, &e); err == nil && !e.expired(now) {
				return nil
			}
		}

		data, err := json.Marshal(boltEntry{Pending: true, ExpiresAt: now.Add(ttl)})
		if err != nil {
			return err
		}
		reserved = true
		return b.Put([]byte(key), data)
	})
	return reserved, err
}

func (s *BoltStore) Save(ctx context.Context, key string, rec Record, ttl time.Duration) error {
	data, err := json.Marshal(boltEntry{Record: &rec, ExpiresAt: s.now().Add(ttl)})
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketName)).Put([]byte(key), data)
	})
}

func (s *BoltStore) Release(ctx context.Context, key string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))
		v := b.Get([]byte(key))
		if v == nil {
			return nil
		}
		var e boltEntry
		if err := json.Unmarshal(v, &e); err == nil && !e.Pending {
			return nil
		}
		return b.Delete([]byte(key))
	})
}
