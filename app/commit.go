package app

import (
	"github.com/iov-one/loom"
	"github.com/iov-one/loom/errors"
)

// CommitStore keeps the two pending views of a block over the committed
// store. Delivered transactions accumulate in the deliver view, which is
// the next block; checked transactions go to the check view, which is
// thrown away at every commit.
type CommitStore struct {
	committed loom.CommitKVStore
	deliver   loom.KVCacheWrap
	check     loom.KVCacheWrap
}

// NewCommitStore loads the last committed version of store.
func NewCommitStore(store loom.CommitKVStore) (*CommitStore, error) {
	if err := store.LoadLatestVersion(); err != nil {
		return nil, errors.Wrap(err, "load latest version")
	}
	cs := &CommitStore{committed: store}
	cs.reset()
	return cs, nil
}

func (cs *CommitStore) reset() {
	cs.deliver = cs.committed.CacheWrap()
	cs.check = cs.committed.CacheWrap()
}

// CommitInfo returns the version and the hash of the last commit.
func (cs *CommitStore) CommitInfo() (loom.CommitID, error) {
	return cs.committed.LatestVersion()
}

// Commit persists the deliver view as a new version and starts empty views
// on top of it.
func (cs *CommitStore) Commit() (loom.CommitID, error) {
	if err := cs.deliver.Write(); err != nil {
		return loom.CommitID{}, errors.Wrap(err, "write block")
	}
	cs.check.Discard()
	id, err := cs.committed.Commit()
	if err != nil {
		return id, errors.Wrap(err, "commit block")
	}
	cs.reset()
	return id, nil
}

func (cs *CommitStore) CheckStore() loom.CacheableKVStore {
	return cs.check
}

func (cs *CommitStore) DeliverStore() loom.CacheableKVStore {
	return cs.deliver
}

// chainIDKey lives under "_l:", the prefix of data owned by the
// application rather than by an extension.
const chainIDKey = "_l:chain"

func loadChainID(db loom.ReadOnlyKVStore) (string, error) {
	raw, err := db.Get([]byte(chainIDKey))
	if err != nil {
		return "", errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return string(raw), nil
}

// saveChainID records the chain id once, at genesis.
func saveChainID(db loom.KVStore, chainID string) error {
	if !loom.IsValidChainID(chainID) {
		return errors.Wrapf(errors.ErrInput, "chain id %q", chainID)
	}
	switch raw, err := loadChainID(db); {
	case err != nil:
		return err
	case raw != "":
		return errors.Wrapf(errors.ErrState, "chain id already set to %q", raw)
	}
	if err := db.Set([]byte(chainIDKey), []byte(chainID)); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}
