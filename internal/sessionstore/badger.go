package sessionstore

import (
	"errors"
	"fmt"

	badger "github.com/dgraph-io/badger/v4"
)

// badgerStore persists session references on disk so a login survives a
// server restart, the way the original console survived page reloads.
type badgerStore struct {
	db *badger.DB
}

// NewBadger opens (or creates) a badger-backed Store at dir.
func NewBadger(dir string) (Store, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open session store at %s: %w", dir, err)
	}
	return &badgerStore{db: db}, nil
}

func (s *badgerStore) Get(key string) (string, error) {
	var value string
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			value = string(val)
			return nil
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return "", ErrKeyNotFound
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

func (s *badgerStore) Set(key, value string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), []byte(value))
	})
}

func (s *badgerStore) Remove(key string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		err := txn.Delete([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		return err
	})
}

func (s *badgerStore) Close() error {
	return s.db.Close()
}
