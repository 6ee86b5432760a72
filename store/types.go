// Package store provides the key value store implementations behind a
// loom application: a btree based cache wrap that gives every
// transaction a savepoint, and an iavl backed persistent store.
package store

import "github.com/iov-one/loom"

type (
	ReadOnlyKVStore  = loom.ReadOnlyKVStore
	SetDeleter       = loom.SetDeleter
	KVStore          = loom.KVStore
	Batch            = loom.Batch
	Iterator         = loom.Iterator
	CacheableKVStore = loom.CacheableKVStore
	KVCacheWrap      = loom.KVCacheWrap
	CommitKVStore    = loom.CommitKVStore
	CommitID         = loom.CommitID
	Model            = loom.Model
)
