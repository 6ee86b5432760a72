// Package iavl persists loom state in a versioned iavl tree.
package iavl

import (
	"github.com/iov-one/loom/errors"
	"github.com/iov-one/loom/store"
	"github.com/tendermint/iavl"
	dbm "github.com/tendermint/tendermint/libs/db"
)

// DefaultCacheSize is the number of tree nodes kept in memory.
const DefaultCacheSize = 10000

// CommitStore manages a iavl committed state
type CommitStore struct {
	tree *iavl.MutableTree
	db   dbm.DB
}

var _ store.CommitKVStore = (*CommitStore)(nil)

// NewCommitStore creates a new store with disk backing in dir. An empty
// dir keeps the tree in memory.
func NewCommitStore(dir, name string) *CommitStore {
	var db dbm.DB
	if dir == "" {
		db = dbm.NewMemDB()
	} else {
		db = dbm.NewDB(name, dbm.GoLevelDBBackend, dir)
	}
	return &CommitStore{
		tree: iavl.NewMutableTree(db, DefaultCacheSize),
		db:   db,
	}
}

// MockCommitStore creates a new in memory store for tests.
func MockCommitStore() *CommitStore {
	return NewCommitStore("", "")
}

// Get returns the value at last committed state
// returns nil iff key doesn't exist.
func (s *CommitStore) Get(key []byte) ([]byte, error) {
	version := s.tree.Version()
	if version == 0 {
		return nil, nil
	}
	_, val := s.tree.GetVersioned(key, version)
	return val, nil
}

// Commit the next version to disk, and returns info
func (s *CommitStore) Commit() (store.CommitID, error) {
	hash, version, err := s.tree.SaveVersion()
	if err != nil {
		return store.CommitID{}, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return store.CommitID{
		Version: version,
		Hash:    hash,
	}, nil
}

// LoadLatestVersion loads the latest persisted version.
// If there was a crash during the last commit, it is guaranteed
// to return a stable state, even if older.
func (s *CommitStore) LoadLatestVersion() error {
	if _, err := s.tree.Load(); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}

// LatestVersion returns info on the latest version saved to disk
func (s *CommitStore) LatestVersion() (store.CommitID, error) {
	return store.CommitID{
		Version: s.tree.Version(),
		Hash:    s.tree.Hash(),
	}, nil
}

// CacheWrap gives us a savepoint over the working tree. Writing the
// wrap updates the working tree, Commit persists it.
func (s *CommitStore) CacheWrap() store.KVCacheWrap {
	working := treeStore{tree: s.tree}
	return store.NewBTreeCacheWrap(working, working.NewBatch(), nil)
}

// Close releases the database.
func (s *CommitStore) Close() {
	s.db.Close()
}

// treeStore exposes the uncommitted working tree as a KVStore.
type treeStore struct {
	tree *iavl.MutableTree
}

var _ store.KVStore = treeStore{}

// Get returns nil iff key doesn't exist.
func (t treeStore) Get(key []byte) ([]byte, error) {
	_, val := t.tree.Get(key)
	return val, nil
}

// Has checks if a key exists.
func (t treeStore) Has(key []byte) (bool, error) {
	return t.tree.Has(key), nil
}

// Set adds a new value
func (t treeStore) Set(key, value []byte) error {
	t.tree.Set(key, value)
	return nil
}

// Delete removes from the tree
func (t treeStore) Delete(key []byte) error {
	t.tree.Remove(key)
	return nil
}

// NewBatch returns a batch that can write multiple ops
func (t treeStore) NewBatch() store.Batch {
	return store.NewNonAtomicBatch(t)
}

// Iterator over a domain of keys in ascending order. End is exclusive.
func (t treeStore) Iterator(start, end []byte) (store.Iterator, error) {
	return t.iterate(start, end, true), nil
}

// ReverseIterator over a domain of keys in descending order. End is exclusive.
func (t treeStore) ReverseIterator(start, end []byte) (store.Iterator, error) {
	return t.iterate(start, end, false), nil
}

func (t treeStore) iterate(start, end []byte, ascending bool) store.Iterator {
	var res []store.Model
	t.tree.IterateRange(start, end, ascending, func(key, value []byte) bool {
		res = append(res, store.Model{Key: key, Value: value})
		return false
	})
	return store.NewSliceIterator(res)
}
