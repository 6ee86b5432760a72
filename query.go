package loom

import (
	"fmt"
)

// Query mods understood by the buckets. A key query returns the model
// stored under the queried key, a prefix query every model whose key
// starts with it.
const (
	KeyQueryMod    = ""
	PrefixQueryMod = "prefix"
)

// Model is a key with the raw value stored under it.
type Model struct {
	Key   []byte
	Value []byte
}

// Pair returns the model of a key and its value.
func Pair(key, value []byte) Model {
	return Model{Key: key, Value: value}
}

// QueryHandler answers the queries of one path from a read only view of
// the committed state.
type QueryHandler interface {
	Query(db ReadOnlyKVStore, mod string, data []byte) ([]Model, error)
}

// QueryRegister adds the query paths of an extension to a router.
type QueryRegister func(QueryRouter)

// QueryRouter maps query paths, such as "/escrows", to their handlers.
// A router is a reference type: copies share their routes.
type QueryRouter struct {
	routes map[string]QueryHandler
}

func NewQueryRouter() QueryRouter {
	return QueryRouter{routes: make(map[string]QueryHandler)}
}

// RegisterAll calls every register with the router.
func (r QueryRouter) RegisterAll(registers ...QueryRegister) {
	for _, register := range registers {
		register(r)
	}
}

// Register routes path to h. It panics when path is already taken, since
// two extensions claiming one path is a wiring mistake.
func (r QueryRouter) Register(path string, h QueryHandler) {
	if _, taken := r.routes[path]; taken {
		panic(fmt.Sprintf("query path %q registered twice", path))
	}
	r.routes[path] = h
}

// Handler returns the handler of path, nil when nothing serves it.
func (r QueryRouter) Handler(path string) QueryHandler {
	return r.routes[path]
}
