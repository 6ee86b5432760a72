package loomtest

import (
	"context"

	"github.com/iov-one/loom"
)

// Auth authenticates a fixed list of conditions, the first one being the
// main signer. It implements x.Authenticator.
type Auth struct {
	Signers []loom.Condition
}

// Signed returns an Auth authenticating the given conditions.
func Signed(signers ...loom.Condition) *Auth {
	return &Auth{Signers: signers}
}

func (a *Auth) GetConditions(loom.Context) []loom.Condition {
	return a.Signers
}

func (a *Auth) HasAddress(_ loom.Context, addr loom.Address) bool {
	return hasAddress(a.Signers, addr)
}

// CtxAuth authenticates the conditions stored in the context under Key.
// Handlers under test share one CtxAuth while every test case sets its own
// signers with SetConditions. It implements x.Authenticator.
type CtxAuth struct {
	Key string
}

type ctxAuthKey string

// SetConditions returns a context in which conds are authenticated.
func (a *CtxAuth) SetConditions(ctx loom.Context, conds ...loom.Condition) loom.Context {
	return context.WithValue(ctx, ctxAuthKey(a.Key), conds)
}

func (a *CtxAuth) GetConditions(ctx loom.Context) []loom.Condition {
	conds, _ := ctx.Value(ctxAuthKey(a.Key)).([]loom.Condition)
	return conds
}

func (a *CtxAuth) HasAddress(ctx loom.Context, addr loom.Address) bool {
	return hasAddress(a.GetConditions(ctx), addr)
}

func hasAddress(conds []loom.Condition, addr loom.Address) bool {
	for _, c := range conds {
		if addr.Equals(c.Address()) {
			return true
		}
	}
	return false
}
