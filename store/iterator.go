package store

import (
	"bytes"

	"github.com/google/btree"
	"github.com/iov-one/loom/errors"
)

// collectRange returns all cached items within [start, end) in ascending
// order. A nil bound is open.
func collectRange(bt *btree.BTree, start, end []byte) []keyer {
	var items []keyer
	insert := func(item btree.Item) bool {
		items = append(items, item.(keyer))
		return true
	}
	switch {
	case start == nil && end == nil:
		bt.Ascend(insert)
	case start == nil:
		bt.AscendLessThan(bkey{end}, insert)
	case end == nil:
		bt.AscendGreaterOrEqual(bkey{start}, insert)
	default:
		bt.AscendRange(bkey{start}, bkey{end}, insert)
	}
	return items
}

// mergeIterator combines the cached items with the iterator of the
// backing store. A cached item shadows the parent entry with the same
// key and deleted items hide it.
type mergeIterator struct {
	items  []keyer
	idx    int
	parent Iterator
	asc    bool
}

var _ Iterator = (*mergeIterator)(nil)

func newMergeIterator(items []keyer, parent Iterator, ascending bool) (*mergeIterator, error) {
	it := &mergeIterator{
		items:  items,
		parent: parent,
		asc:    ascending,
	}
	if err := it.skipDeleted(); err != nil {
		parent.Close()
		return nil, err
	}
	return it, nil
}

// source marks where the current item comes from
type source int32

const (
	none source = iota
	us
	parent
	both
)

func (i *mergeIterator) cacheValid() bool {
	return i.idx < len(i.items)
}

func (i *mergeIterator) current() source {
	cache, par := i.cacheValid(), i.parent.Valid()
	switch {
	case !cache && !par:
		return none
	case !par:
		return us
	case !cache:
		return parent
	}
	cmp := bytes.Compare(i.items[i.idx].Key(), i.parent.Key())
	if !i.asc {
		cmp = -cmp
	}
	switch {
	case cmp < 0:
		return us
	case cmp > 0:
		return parent
	default:
		return both
	}
}

// Valid implements Iterator and returns true iff it can be read
func (i *mergeIterator) Valid() bool {
	return i.current() != none
}

// Next moves the iterator to the next sequential key in the database, as
// defined by order of iteration.
func (i *mergeIterator) Next() error {
	if err := i.advance(i.current()); err != nil {
		return err
	}
	return i.skipDeleted()
}

func (i *mergeIterator) advance(src source) error {
	switch src {
	case us:
		i.idx++
	case both:
		i.idx++
		return i.parent.Next()
	case parent:
		return i.parent.Next()
	default:
		return errors.Wrap(errors.ErrHuman, "iterator advanced past the end")
	}
	return nil
}

// skipDeleted moves over all deleted items at the cursor.
func (i *mergeIterator) skipDeleted() error {
	for {
		src := i.current()
		if src != us && src != both {
			return nil
		}
		if _, ok := i.items[i.idx].(deletedItem); !ok {
			return nil
		}
		if err := i.advance(src); err != nil {
			return err
		}
	}
}

// Key returns the key of the cursor.
func (i *mergeIterator) Key() []byte {
	switch i.current() {
	case us, both:
		return i.items[i.idx].Key()
	case parent:
		return i.parent.Key()
	default:
		return nil
	}
}

// Value returns the value of the cursor.
func (i *mergeIterator) Value() []byte {
	switch i.current() {
	case us, both:
		if item, ok := i.items[i.idx].(setItem); ok {
			return item.value
		}
		return nil
	case parent:
		return i.parent.Value()
	default:
		return nil
	}
}

// Close releases the Iterator.
func (i *mergeIterator) Close() {
	i.parent.Close()
	i.items = nil
}
