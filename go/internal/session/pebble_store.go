package session

import (
	"errors"
	"fmt"
	"os"

	pebble "github.com/cockroachdb/pebble"
)

const keyPrefix = "session:"

// PebbleStore persists session values in a local pebble database.
type PebbleStore struct {
	db *pebble.DB
}

// OpenPebbleStore opens (or creates) the database directory at dir.
func OpenPebbleStore(dir string) (*PebbleStore, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create state dir: %w", err)
	}
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("failed to open state store: %w", err)
	}
	return &PebbleStore{db: db}, nil
}

func (s *PebbleStore) Get(key string) (string, error) {
	v, closer, err := s.db.Get([]byte(keyPrefix + key))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}
	// copy before releasing the value
	out := string(v)
	if closer != nil {
		closer.Close()
	}
	return out, nil
}

func (s *PebbleStore) Set(key, value string) error {
	return s.db.Set([]byte(keyPrefix+key), []byte(value), pebble.Sync)
}

func (s *PebbleStore) Delete(key string) error {
	return s.db.Delete([]byte(keyPrefix+key), pebble.Sync)
}

func (s *PebbleStore) Apply(ops ...Op) error {
	batch := s.db.NewBatch()
	defer batch.Close()

	for _, op := range ops {
		key := []byte(keyPrefix + op.Key)
		var err error
		if op.Delete {
			err = batch.Delete(key, nil)
		} else {
			err = batch.Set(key, []byte(op.Value), nil)
		}
		if err != nil {
			return err
		}
	}
	return batch.Commit(pebble.Sync)
}

func (s *PebbleStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
