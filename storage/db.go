// Package storage provides the key-value persistence abstraction behind
// TokenRegistry's typed store: an in-memory backend for the library path
// and tests, and a LevelDB-backed implementation for a persisted
// deployment.
package storage

import (
	"fmt"
	"sync"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/util"
)

// Database is a generic key-value store. TokenRegistry's KVStore is a thin
// typed wrapper over one of these, so its backend can be swapped (memory
// vs. LevelDB) without touching registry logic; the other components keep
// their state in their own in-memory stores.
type Database interface {
	Put(key, value []byte) error
	Get(key []byte) ([]byte, error)
	Has(key []byte) (bool, error)
	Delete(key []byte) error
	IteratePrefix(prefix []byte, fn func(key, value []byte) error) error
	Close() error
}

// ErrNotFound is returned by Get when the key is absent.
var ErrNotFound = fmt.Errorf("storage: key not found")

// --- In-memory backend, used by tests and the default library path ---

// MemDB is a sync.RWMutex-guarded map implementing Database.
type MemDB struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemDB constructs an empty in-memory store.
func NewMemDB() *MemDB {
	return &MemDB{data: make(map[string][]byte)}
}

func (db *MemDB) Put(key, value []byte) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	cloned := append([]byte(nil), value...)
	db.data[string(key)] = cloned
	return nil
}

func (db *MemDB) Get(key []byte) ([]byte, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	v, ok := db.data[string(key)]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (db *MemDB) Has(key []byte) (bool, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	_, ok := db.data[string(key)]
	return ok, nil
}

func (db *MemDB) Delete(key []byte) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	delete(db.data, string(key))
	return nil
}

func (db *MemDB) IteratePrefix(prefix []byte, fn func(key, value []byte) error) error {
	db.mu.RLock()
	type kv struct{ k, v []byte }
	matches := make([]kv, 0)
	for k, v := range db.data {
		if len(k) >= len(prefix) && k[:len(prefix)] == string(prefix) {
			matches = append(matches, kv{k: []byte(k), v: append([]byte(nil), v...)})
		}
	}
	db.mu.RUnlock()
	for _, m := range matches {
		if err := fn(m.k, m.v); err != nil {
			return err
		}
	}
	return nil
}

// Close satisfies Database for MemDB; there is nothing to release.
func (db *MemDB) Close() error { return nil }

// --- LevelDB-backed persistent store ---

// LevelDB wraps github.com/syndtr/goleveldb for the persisted deployment
// path.
type LevelDB struct {
	db *leveldb.DB
}

// NewLevelDB opens or creates a LevelDB database at path.
func NewLevelDB(path string) (*LevelDB, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("storage: open leveldb: %w", err)
	}
	return &LevelDB{db: db}, nil
}

func (l *LevelDB) Put(key, value []byte) error {
	return l.db.Put(key, value, nil)
}

func (l *LevelDB) Get(key []byte) ([]byte, error) {
	v, err := l.db.Get(key, nil)
	if err == leveldb.ErrNotFound {
		return nil, ErrNotFound
	}
	return v, err
}

func (l *LevelDB) Has(key []byte) (bool, error) {
	return l.db.Has(key, nil)
}

func (l *LevelDB) Delete(key []byte) error {
	return l.db.Delete(key, nil)
}

func (l *LevelDB) IteratePrefix(prefix []byte, fn func(key, value []byte) error) error {
	iter := l.db.NewIterator(util.BytesPrefix(prefix), nil)
	defer iter.Release()
	for iter.Next() {
		k := append([]byte(nil), iter.Key()...)
		v := append([]byte(nil), iter.Value()...)
		if err := fn(k, v); err != nil {
			return err
		}
	}
	return iter.Error()
}

func (l *LevelDB) Close() error {
	return l.db.Close()
}
