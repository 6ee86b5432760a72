package token

import (
	"github.com/iov-one/loom"
	"github.com/iov-one/loom/errors"
)

const optKey = "tokens"

// GenesisMint declares a mint in the genesis file. Its address is
// derived from the ticker.
type GenesisMint struct {
	Ticker    string       `json:"ticker"`
	Decimals  uint8        `json:"decimals"`
	Authority loom.Address `json:"authority"`
}

// GenesisAccount declares a funded holding account in the genesis file.
type GenesisAccount struct {
	Ticker string       `json:"ticker"`
	Owner  loom.Address `json:"owner"`
	Amount uint64       `json:"amount"`
}

// Initializer fulfils the Initializer interface to load data from
// the genesis file
type Initializer struct{}

var _ loom.Initializer = Initializer{}

// FromGenesis registers the mints and funds the accounts declared in the
// genesis file. Genesis accounts do not pay a storage deposit.
func (Initializer) FromGenesis(ctx loom.Context, opts loom.Options, db loom.KVStore) error {
	var state struct {
		Mints    []GenesisMint    `json:"mints"`
		Accounts []GenesisAccount `json:"accounts"`
	}
	if err := opts.ReadOptions(optKey, &state); err != nil {
		return err
	}

	ctrl := NewController(nil)
	for i, m := range state.Mints {
		mint := Mint{Ticker: m.Ticker, Decimals: m.Decimals, Authority: m.Authority}
		if _, err := ctrl.CreateMint(db, &mint); err != nil {
			return errors.Wrapf(err, "mint #%d", i)
		}
	}
	for i, a := range state.Accounts {
		if err := ctrl.fund(db, MintAddress(a.Ticker), a.Owner, a.Amount); err != nil {
			return errors.Wrapf(err, "account #%d", i)
		}
	}
	return nil
}

// fund adds amount of new supply to the account of owner, creating the
// account without a deposit when missing.
func (c Controller) fund(db loom.KVStore, mintAddr, owner loom.Address, amount uint64) error {
	mint, err := c.Mint(db, mintAddr)
	if err != nil {
		return err
	}
	if err := owner.Validate(); err != nil {
		return errors.Wrap(err, "owner")
	}
	addr := AccountAddress(mintAddr, owner)
	acc := Account{Mint: mintAddr, Owner: owner}
	switch err := c.accounts.One(db, addr, &acc); {
	case err == nil, errors.ErrNotFound.Is(err):
	default:
		return err
	}
	if mint.Supply+amount < mint.Supply {
		return errors.Wrap(errors.ErrOverflow, "supply")
	}
	mint.Supply += amount
	acc.Amount += amount
	if err := c.mints.Put(db, mintAddr, mint); err != nil {
		return err
	}
	return c.accounts.Put(db, addr, &acc)
}
