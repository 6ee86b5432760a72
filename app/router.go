package app

import (
	"fmt"

	"github.com/iov-one/loom"
	"github.com/iov-one/loom/errors"
)

// Router allows us to register many handlers with different message paths
// and then direct each transaction to the handler of its message.
//
// Minimal interface modeled after net/http.ServeMux
type Router struct {
	routes map[string]loom.Handler
}

var (
	_ loom.Registry = (*Router)(nil)
	_ loom.Handler  = (*Router)(nil)
)

// NewRouter returns a new empty router instance.
func NewRouter() *Router {
	return &Router{
		routes: make(map[string]loom.Handler, 10),
	}
}

// Handle register given handler to process all messages of the same path
// as m. It panics if the path is invalid or already taken.
func (r *Router) Handle(m loom.Msg, h loom.Handler) {
	path := m.Path()
	if !loom.IsValidPath(path) {
		panic(fmt.Sprintf("invalid path: %q", path))
	}
	if _, ok := r.routes[path]; ok {
		panic(fmt.Sprintf("re-registering route: %s", path))
	}
	r.routes[path] = h
}

// handler returns the registered handler for the path of m. A handler
// failing with ErrNotFound is returned for unknown paths.
func (r *Router) handler(m loom.Msg) loom.Handler {
	path := m.Path()
	if h, ok := r.routes[path]; ok {
		return h
	}
	return notFoundHandler(path)
}

// Check dispatches to the proper handler based on path
func (r *Router) Check(ctx loom.Context, db loom.KVStore, tx loom.Tx) (*loom.CheckResult, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, errors.Wrap(err, "cannot load msg")
	}
	return r.handler(msg).Check(ctx, db, tx)
}

// Deliver dispatches to the proper handler based on path
func (r *Router) Deliver(ctx loom.Context, db loom.KVStore, tx loom.Tx) (*loom.DeliverResult, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, errors.Wrap(err, "cannot load msg")
	}
	return r.handler(msg).Deliver(ctx, db, tx)
}

// notFoundHandler always returns ErrNotFound error regardless of the
// arguments.
type notFoundHandler string

func (path notFoundHandler) Check(loom.Context, loom.KVStore, loom.Tx) (*loom.CheckResult, error) {
	return nil, errors.Wrapf(errors.ErrNotFound, "no handler for message path %q", string(path))
}

func (path notFoundHandler) Deliver(loom.Context, loom.KVStore, loom.Tx) (*loom.DeliverResult, error) {
	return nil, errors.Wrapf(errors.ErrNotFound, "no handler for message path %q", string(path))
}
