package app

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/iov-one/loom"
	"github.com/iov-one/loom/errors"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

// StoreApp contains a data store and all info needed
// to perform queries and handshakes.
//
// It should be embedded in another struct for CheckTx,
// DeliverTx and initializing state from the genesis.
// Errors on ABCI steps that do not take user input (InitChain, Commit)
// cannot be handled gracefully and are raised as panics. Use LoadGenesis
// to initialize the state with error reporting.
type StoreApp struct {
	// mu serializes all access to the stores.
	mu sync.Mutex

	logger log.Logger

	// name is what is returned from abci.Info
	name string

	// Database state (committed, check, deliver....)
	store *CommitStore

	// Code to initialize from a genesis file
	initializer loom.Initializer

	// How to handle queries
	queryRouter loom.QueryRouter

	// chainID is loaded from db in initialization
	// saved once in LoadGenesis
	chainID string

	// debug exposes internal errors and stack traces to the caller.
	debug bool

	// baseContext contains context info that is valid for
	// lifetime of this app (eg. chainID)
	baseContext loom.Context

	// blockContext contains context info that is valid for the
	// current block (eg. height, time), reset on BeginBlock
	blockContext loom.Context
}

// NewStoreApp initializes this app into a ready state with some defaults.
func NewStoreApp(name string, store loom.CommitKVStore, queryRouter loom.QueryRouter, baseContext loom.Context) (*StoreApp, error) {
	cs, err := NewCommitStore(store)
	if err != nil {
		return nil, err
	}
	s := &StoreApp{
		name:        name,
		store:       cs,
		queryRouter: queryRouter,
		baseContext: baseContext,
	}
	s = s.WithLogger(log.NewNopLogger())

	// load the chainID from the db
	s.chainID, err = loadChainID(s.store.DeliverStore())
	if err != nil {
		return nil, err
	}
	if s.chainID != "" {
		s.baseContext = loom.WithChainID(s.baseContext, s.chainID)
	}

	// get the most recent height
	info, err := s.store.CommitInfo()
	if err != nil {
		return nil, err
	}
	s.blockContext = loom.WithHeight(s.baseContext, info.Version)
	return s, nil
}

// GetChainID returns the current chainID
func (s *StoreApp) GetChainID() string {
	return s.chainID
}

// WithInit is used to set the init function we call
func (s *StoreApp) WithInit(init loom.Initializer) *StoreApp {
	s.initializer = init
	return s
}

// WithDebug enables debug mode: errors returned to the caller carry their
// full description and stack trace.
func (s *StoreApp) WithDebug(debug bool) *StoreApp {
	s.debug = debug
	return s
}

// WithLogger sets the logger on the StoreApp and returns it,
// to make it easy to chain in initialization
//
// also sets baseContext logger
func (s *StoreApp) WithLogger(logger log.Logger) *StoreApp {
	s.baseContext = loom.WithLogger(s.baseContext, logger)
	if s.blockContext != nil {
		s.blockContext = loom.WithLogger(s.blockContext, logger)
	}
	s.logger = logger
	return s
}

// Close releases the database backing the state, if it holds any.
func (s *StoreApp) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.store.committed.(interface{ Close() }); ok {
		c.Close()
	}
}

// Logger returns the application base logger
func (s *StoreApp) Logger() log.Logger {
	return s.logger
}

// BlockContext returns the block context for public use
func (s *StoreApp) BlockContext() loom.Context {
	return s.blockContext
}

// DeliverStore returns the current DeliverTx cache for methods
func (s *StoreApp) DeliverStore() loom.CacheableKVStore {
	return s.store.DeliverStore()
}

// CheckStore returns the current CheckTx cache for methods
func (s *StoreApp) CheckStore() loom.CacheableKVStore {
	return s.store.CheckStore()
}

// LoadGenesis stores the chain id and initializes all extensions from the
// app state. It can be called only once in the lifetime of a state.
func (s *StoreApp) LoadGenesis(gen Genesis) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.parseAppState(gen.AppState, gen.ChainID)
}

// parseAppState is called from InitChain, the first time the chain
// starts, and not on restarts.
func (s *StoreApp) parseAppState(data []byte, chainID string) error {
	if s.chainID != "" {
		return errors.Wrapf(errors.ErrState, "app state previously loaded for chain %s", s.chainID)
	}
	if len(data) == 0 {
		return errors.Wrap(errors.ErrEmpty, "app_state not set in genesis")
	}
	if s.initializer == nil {
		return errors.Wrap(errors.ErrHuman, "no initializer")
	}

	var appState loom.Options
	if err := json.Unmarshal(data, &appState); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}

	// Nothing is written unless every extension initializes.
	cache := s.store.DeliverStore().CacheWrap()
	if err := saveChainID(cache, chainID); err != nil {
		cache.Discard()
		return err
	}
	ctx := loom.WithChainID(s.baseContext, chainID)
	if err := s.initializer.FromGenesis(ctx, appState, cache); err != nil {
		cache.Discard()
		return errors.Wrap(err, "genesis")
	}
	if err := cache.Write(); err != nil {
		return errors.Wrap(err, "write genesis")
	}

	s.chainID = chainID
	s.baseContext = ctx
	s.blockContext = loom.WithChainID(s.blockContext, chainID)
	return nil
}

//----------------------- ABCI ---------------------

// Info implements abci.Application. It returns the height and hash,
// as well as the abci name and version.
//
// The height is the block that holds the transactions, not the apphash itself.
func (s *StoreApp) Info(req abci.RequestInfo) abci.ResponseInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	info, err := s.store.CommitInfo()
	if err != nil {
		panic(err)
	}
	s.logger.Info("Info synced",
		"height", info.Version,
		"hash", fmt.Sprintf("%X", info.Hash))

	return abci.ResponseInfo{
		Data:             s.name,
		Version:          loom.Version(),
		LastBlockHeight:  info.Version,
		LastBlockAppHash: info.Hash,
	}
}

// SetOption - ABCI
func (s *StoreApp) SetOption(res abci.RequestSetOption) abci.ResponseSetOption {
	return abci.ResponseSetOption{Log: "Not Implemented"}
}

/*
Query gets data from the app store.
A query request has the following elements:
* Path - the type of query
* Data - what to query, interpreted based on Path
* Height - ignored, the latest committed state is always used

Path may be "/<bucket>".
It may be followed by "?prefix" to make a prefix query.

Key and Value in Results are always serialized ResultSet
objects, able to support 0 to N values. They must be the
same size.
*/
func (s *StoreApp) Query(reqQuery abci.RequestQuery) abci.ResponseQuery {
	s.mu.Lock()
	defer s.mu.Unlock()

	// find the handler
	path, mod := splitPath(reqQuery.Path)
	qh := s.queryRouter.Handler(path)
	if qh == nil {
		return queryError(errors.Wrapf(errors.ErrNotFound, "query path %q", reqQuery.Path), s.debug)
	}

	info, err := s.store.CommitInfo()
	if err != nil {
		return queryError(err, s.debug)
	}
	// Queries see the committed state only.
	db := s.store.committed.CacheWrap()
	defer db.Discard()

	models, err := qh.Query(db, mod, reqQuery.Data)
	if err != nil {
		return queryError(err, s.debug)
	}

	// set the info as ResultSets....
	resQuery := abci.ResponseQuery{Height: info.Version}
	resQuery.Key, err = ResultsFromKeys(models).Marshal()
	if err != nil {
		return queryError(err, s.debug)
	}
	resQuery.Value, err = ResultsFromValues(models).Marshal()
	if err != nil {
		return queryError(err, s.debug)
	}
	return resQuery
}

// splitPath splits out the real path along with the query
// modifier (everything after the ?)
func splitPath(path string) (string, string) {
	var mod string
	chunks := strings.SplitN(path, "?", 2)
	if len(chunks) == 2 {
		path = chunks[0]
		mod = chunks[1]
	}
	return path, mod
}

// Commit implements abci.Application
func (s *StoreApp) Commit() abci.ResponseCommit {
	s.mu.Lock()
	defer s.mu.Unlock()

	commitID, err := s.store.Commit()
	if err != nil {
		// Read comment on type header
		panic(err)
	}

	s.logger.Debug("Commit synced",
		"height", commitID.Version,
		"hash", fmt.Sprintf("%X", commitID.Hash),
	)
	return abci.ResponseCommit{Data: commitID.Hash}
}

// InitChain implements ABCI
func (s *StoreApp) InitChain(req abci.RequestInitChain) abci.ResponseInitChain {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.parseAppState(req.AppStateBytes, req.ChainId); err != nil {
		// Read comment on type header
		panic(err)
	}
	return abci.ResponseInitChain{}
}

// BeginBlock implements ABCI
// Sets up blockContext
func (s *StoreApp) BeginBlock(req abci.RequestBeginBlock) abci.ResponseBeginBlock {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx := loom.WithHeight(s.baseContext, req.Header.Height)
	ctx = loom.WithBlockTime(ctx, req.Header.Time)
	s.blockContext = ctx
	return abci.ResponseBeginBlock{}
}

// EndBlock - ABCI
func (s *StoreApp) EndBlock(_ abci.RequestEndBlock) abci.ResponseEndBlock {
	return abci.ResponseEndBlock{}
}
