package store

import (
	"bytes"

	"github.com/google/btree"
	"github.com/iov-one/loom/errors"
)

// btreeDegree is the degree of the cache trees. Caches hold the writes of
// one transaction or one block, so they stay small.
const btreeDegree = 2

// MemStore returns an empty store living in memory only.
func MemStore() CacheableKVStore {
	nothing := EmptyKVStore{}
	return NewBTreeCacheWrap(nothing, nothing.NewBatch(), nil)
}

// BTreeCacheWrap buffers the writes to a store in a btree. Reads see the
// buffered writes over the backing store. The writes reach the backing
// store, through batch, only on Write.
//
// Wraps nest: every transaction of a block runs in a wrap of the block
// wrap, so a failed transaction is dropped without touching the block.
type BTreeCacheWrap struct {
	tree  *btree.BTree
	free  *btree.FreeList
	back  ReadOnlyKVStore
	batch Batch
}

var _ KVCacheWrap = BTreeCacheWrap{}

// NewBTreeCacheWrap wraps back. Writes are replayed into batch on Write.
// Nested wraps share free, the node list of the outermost wrap; pass nil
// to start a new one.
func NewBTreeCacheWrap(back ReadOnlyKVStore, batch Batch, free *btree.FreeList) BTreeCacheWrap {
	if free == nil {
		free = btree.NewFreeList(btree.DefaultFreeListSize)
	}
	return BTreeCacheWrap{
		tree:  btree.NewWithFreeList(btreeDegree, free),
		free:  free,
		back:  back,
		batch: batch,
	}
}

func (b BTreeCacheWrap) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(b, b.NewBatch(), b.free)
}

func (b BTreeCacheWrap) NewBatch() Batch {
	return NewNonAtomicBatch(b)
}

// Write flushes the buffered writes to the backing store and empties the
// wrap.
func (b BTreeCacheWrap) Write() error {
	err := b.batch.Write()
	b.Discard()
	return err
}

// Discard drops the buffered writes.
func (b BTreeCacheWrap) Discard() {
	for b.tree.DeleteMin() != nil {
	}
}

func (b BTreeCacheWrap) Set(key, value []byte) error {
	b.tree.ReplaceOrInsert(setItem{bkey{key}, value})
	return b.batch.Set(key, value)
}

func (b BTreeCacheWrap) Delete(key []byte) error {
	b.tree.ReplaceOrInsert(deletedItem{bkey{key}})
	return b.batch.Delete(key)
}

// cached returns the buffered item of key, nil when the key was not
// written in this wrap.
func (b BTreeCacheWrap) cached(key []byte) (btree.Item, error) {
	switch item := b.tree.Get(bkey{key}).(type) {
	case nil, setItem, deletedItem:
		return item, nil
	default:
		return nil, errors.Wrapf(errors.ErrDatabase, "unexpected cache item %T", item)
	}
}

func (b BTreeCacheWrap) Get(key []byte) ([]byte, error) {
	item, err := b.cached(key)
	switch item := item.(type) {
	case setItem:
		return item.value, nil
	case deletedItem:
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return b.back.Get(key)
}

func (b BTreeCacheWrap) Has(key []byte) (bool, error) {
	item, err := b.cached(key)
	switch item.(type) {
	case setItem:
		return true, nil
	case deletedItem:
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return b.back.Has(key)
}

// Iterator walks [start, end) in ascending order, merging the buffered
// writes with the backing store.
func (b BTreeCacheWrap) Iterator(start, end []byte) (Iterator, error) {
	back, err := b.back.Iterator(start, end)
	if err != nil {
		return nil, err
	}
	return newMergeIterator(collectRange(b.tree, start, end), back, true)
}

// ReverseIterator walks [start, end) in descending order.
func (b BTreeCacheWrap) ReverseIterator(start, end []byte) (Iterator, error) {
	back, err := b.back.ReverseIterator(start, end)
	if err != nil {
		return nil, err
	}
	items := collectRange(b.tree, start, end)
	for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
		items[i], items[j] = items[j], items[i]
	}
	return newMergeIterator(items, back, false)
}

// keyer is implemented by every item of the cache trees.
type keyer interface {
	Key() []byte
}

// bkey orders the items of a cache tree by key. A bare bkey is used to
// query the tree.
type bkey struct {
	key []byte
}

var _ btree.Item = bkey{}

func (k bkey) Key() []byte { return k.key }

func (k bkey) Less(than btree.Item) bool {
	return bytes.Compare(k.key, than.(keyer).Key()) < 0
}

// deletedItem shadows a key of the backing store.
type deletedItem struct {
	bkey
}

type setItem struct {
	bkey
	value []byte
}
