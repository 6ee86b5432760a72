package x

import (
	"github.com/iov-one/loom"
)

// Authenticator tells a handler which conditions signed the transaction in
// progress. Handlers receive one in their constructor so that the escrow
// and token extensions never depend on x/sigs directly.
type Authenticator interface {
	// GetConditions returns the fulfilled conditions, the main signer
	// first.
	GetConditions(loom.Context) []loom.Condition
	// HasAddress reports whether any fulfilled condition resolves to addr.
	HasAddress(loom.Context, loom.Address) bool
}

// ChainAuth merges the conditions of several authenticators. The main
// signer is taken from the first authenticator that reports one.
func ChainAuth(auths ...Authenticator) Authenticator {
	return chainedAuth(auths)
}

type chainedAuth []Authenticator

func (c chainedAuth) GetConditions(ctx loom.Context) []loom.Condition {
	var all []loom.Condition
	for _, a := range c {
		all = append(all, a.GetConditions(ctx)...)
	}
	return all
}

func (c chainedAuth) HasAddress(ctx loom.Context, addr loom.Address) bool {
	for _, a := range c {
		if a.HasAddress(ctx, addr) {
			return true
		}
	}
	return false
}

// GetAddresses returns the addresses of every fulfilled condition, in the
// order the authenticator reports them.
func GetAddresses(ctx loom.Context, auth Authenticator) []loom.Address {
	conds := auth.GetConditions(ctx)
	if len(conds) == 0 {
		return nil
	}
	addrs := make([]loom.Address, 0, len(conds))
	for _, c := range conds {
		addrs = append(addrs, c.Address())
	}
	return addrs
}

// MainSigner returns the condition of the party acting in the transaction,
// nil when nobody signed.
func MainSigner(ctx loom.Context, auth Authenticator) loom.Condition {
	if conds := auth.GetConditions(ctx); len(conds) > 0 {
		return conds[0]
	}
	return nil
}
