package sigs

import (
	"context"

	"github.com/iov-one/loom"
	"github.com/iov-one/loom/x"
)

type ctxKey struct{}

// withSigners is unexported: only the decorator, after verifying the
// signatures, may declare signers.
func withSigners(ctx loom.Context, conds []loom.Condition) loom.Context {
	return context.WithValue(ctx, ctxKey{}, conds)
}

// Authenticate reports the signers the decorator put in the context, in
// the order of their signatures.
type Authenticate struct{}

var _ x.Authenticator = Authenticate{}

func (Authenticate) GetConditions(ctx loom.Context) []loom.Condition {
	conds, _ := ctx.Value(ctxKey{}).([]loom.Condition)
	return conds
}

func (a Authenticate) HasAddress(ctx loom.Context, addr loom.Address) bool {
	for _, c := range a.GetConditions(ctx) {
		if c.Address().Equals(addr) {
			return true
		}
	}
	return false
}
