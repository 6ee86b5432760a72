// Package escrowd assembles the escrow ledger: the token, rent and escrow
// extensions behind signature authentication, over a persistent store.
package escrowd

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/iov-one/loom"
	"github.com/iov-one/loom/app"
	"github.com/iov-one/loom/errors"
	"github.com/iov-one/loom/store/iavl"
	"github.com/iov-one/loom/x"
	"github.com/iov-one/loom/x/escrow"
	"github.com/iov-one/loom/x/rent"
	"github.com/iov-one/loom/x/sigs"
	"github.com/iov-one/loom/x/token"
	"github.com/iov-one/loom/x/utils"
	"github.com/prometheus/client_golang/prometheus"
)

// Authenticator returns the authentication of the ledger: ed25519
// signatures verified by the sigs decorator.
func Authenticator() x.Authenticator {
	return x.ChainAuth(sigs.Authenticate{})
}

// Chain returns the decorators every transaction passes before reaching
// the router. Metrics are registered on reg, and skipped when reg is nil.
func Chain(reg prometheus.Registerer) (app.Decorators, error) {
	var metrics loom.Decorator
	if reg != nil {
		m, err := utils.NewMetrics(reg)
		if err != nil {
			return app.Decorators{}, errors.Wrap(err, "metrics")
		}
		metrics = m
	}
	return app.ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
		metrics,
		// a failed check leaves the check state untouched
		utils.NewSavepoint().OnCheck(),
		sigs.NewDecorator(),
		// a failed message is dropped but its signature sequences stay bumped
		utils.NewSavepoint().OnDeliver(),
	), nil
}

// Router returns a router dispatching the escrow and token messages.
func Router(authFn x.Authenticator) *app.Router {
	r := app.NewRouter()
	token.RegisterRoutes(r, authFn, rent.NewController())
	escrow.RegisterRoutes(r, authFn)
	return r
}

// QueryRouter serves "/escrows", "/tokens/mints", "/tokens/accounts",
// "/wallets", "/deposits" and "/sigs".
func QueryRouter() loom.QueryRouter {
	r := loom.NewQueryRouter()
	r.RegisterAll(
		escrow.RegisterQuery,
		token.RegisterQuery,
		rent.RegisterQuery,
		sigs.RegisterQuery,
	)
	return r
}

// Initializers returns the genesis initializers of all extensions. Rent
// goes first, as token accounts are funded against its configuration.
func Initializers() loom.Initializer {
	return app.ChainInitializers(
		rent.Initializer{},
		token.Initializer{},
	)
}

// Stack returns the router behind the decorator chain.
func Stack(reg prometheus.Registerer) (loom.Handler, error) {
	authFn := Authenticator()
	chain, err := Chain(reg)
	if err != nil {
		return nil, err
	}
	return chain.WithHandler(Router(authFn)), nil
}

// Application opens the ledger stored at dbPath, in memory when dbPath is
// empty, with h handling the transactions decoded by tx.
func Application(name string, h loom.Handler, tx loom.TxDecoder, dbPath string, debug bool) (app.BaseApp, error) {
	ctx := context.Background()
	kv, err := CommitKVStore(dbPath)
	if err != nil {
		return app.BaseApp{}, err
	}
	store, err := app.NewStoreApp(name, kv, QueryRouter(), ctx)
	if err != nil {
		return app.BaseApp{}, err
	}
	store = store.WithInit(Initializers())
	return app.NewBaseApp(store, tx, h, debug), nil
}

// CommitKVStore returns the iavl store persisted at dbPath. The leveldb
// backend appends ".db" to the name itself, so an extension of dbPath is
// dropped. An empty dbPath gives a store in memory.
func CommitKVStore(dbPath string) (loom.CommitKVStore, error) {
	if dbPath == "" {
		return iavl.MockCommitStore(), nil
	}
	path, err := filepath.Abs(dbPath)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "database path %q: %s", dbPath, err)
	}
	path = strings.TrimSuffix(path, filepath.Ext(path))
	return iavl.NewCommitStore(filepath.Dir(path), filepath.Base(path)), nil
}
