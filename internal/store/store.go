package store

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/dgraph-io/badger/v4"
)

// Logical key layout. Account-scoped slots append the account name.
const (
	keyAccounts      = "accounts"
	keyLastUser      = "lastUser"
	keyActiveSession = "activeSession"
	keyTasksPrefix   = "tasks:"
	keyPlannedPrefix = "planned:"
)

// Store is a namespaced key-value store backed by BadgerDB.
// Single logical writer, synchronous writes.
type Store struct {
	db *badger.DB
}

// New opens (or creates) the Badger database at dir.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	opts := badger.DefaultOptions(dir).
		WithSyncWrites(true).
		WithNumVersionsToKeep(1).
		WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return &Store{db: db}, nil
}

// NewMemory creates an in-memory store for testing.
func NewMemory() (*Store, error) {
	opts := badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open in-memory database: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Load returns the raw value stored at key. The second return is false
// when the slot is absent; an absent slot is never an error.
func (s *Store) Load(key string) (string, bool, error) {
	var value string
	var found bool
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(v []byte) error {
			value = string(v)
			found = true
			return nil
		})
	})
	if err != nil {
		return "", false, fmt.Errorf("load %q: %w", key, err)
	}
	return value, found, nil
}

// Save writes value to key, replacing any previous content.
func (s *Store) Save(key, value string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), []byte(value))
	})
	if err != nil {
		return fmt.Errorf("save %q: %w", key, err)
	}
	return nil
}

// Delete removes the slot at key. Deleting an absent slot is a no-op.
func (s *Store) Delete(key string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
	if err != nil {
		return fmt.Errorf("delete %q: %w", key, err)
	}
	return nil
}

// warnCorrupt logs a corrupt-slot recovery. The stored payload is kept in
// place; callers continue with the empty default.
func warnCorrupt(err error) {
	var cerr *CorruptDataError
	if errors.As(err, &cerr) {
		slog.Warn("corrupt slot, using empty default", "key", cerr.Key, "error", cerr.Err)
	}
}
