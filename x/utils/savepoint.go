package utils

import (
	"github.com/iov-one/loom"
	"github.com/iov-one/loom/errors"
)

// Savepoint runs the rest of the stack in a cache wrap of the store.
// The wrap is written when the call succeeds and discarded when it fails,
// so a failing transaction never leaves partial state behind.
type Savepoint struct {
	onCheck   bool
	onDeliver bool
}

var _ loom.Decorator = Savepoint{}

// NewSavepoint creates a Savepoint decorator that is not active. Call
// OnCheck and/or OnDeliver to enable it.
func NewSavepoint() Savepoint {
	return Savepoint{}
}

// OnCheck returns a savepoint that will trigger on CheckTx
func (s Savepoint) OnCheck() Savepoint {
	s.onCheck = true
	return s
}

// OnDeliver returns a savepoint that will trigger on DeliverTx
func (s Savepoint) OnDeliver() Savepoint {
	s.onDeliver = true
	return s
}

func (s Savepoint) Check(ctx loom.Context, store loom.KVStore, tx loom.Tx, next loom.Checker) (*loom.CheckResult, error) {
	cache, ok := s.wrap(store, s.onCheck)
	if !ok {
		return next.Check(ctx, store, tx)
	}
	res, err := next.Check(ctx, cache, tx)
	if err := commit(cache, err); err != nil {
		return nil, err
	}
	return res, nil
}

func (s Savepoint) Deliver(ctx loom.Context, store loom.KVStore, tx loom.Tx, next loom.Deliverer) (*loom.DeliverResult, error) {
	cache, ok := s.wrap(store, s.onDeliver)
	if !ok {
		return next.Deliver(ctx, store, tx)
	}
	res, err := next.Deliver(ctx, cache, tx)
	if err := commit(cache, err); err != nil {
		return nil, err
	}
	return res, nil
}

func (Savepoint) wrap(store loom.KVStore, active bool) (loom.KVCacheWrap, bool) {
	if !active {
		return nil, false
	}
	cstore, ok := store.(loom.CacheableKVStore)
	if !ok {
		return nil, false
	}
	return cstore.CacheWrap(), true
}

// commit writes the cache when the wrapped call succeeded and discards
// it otherwise. The call error is returned unchanged.
func commit(cache loom.KVCacheWrap, callErr error) error {
	if callErr != nil {
		cache.Discard()
		return callErr
	}
	if err := cache.Write(); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}
