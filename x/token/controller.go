package token

import (
	"math"

	"github.com/iov-one/loom"
	"github.com/iov-one/loom/errors"
	"github.com/iov-one/loom/orm"
)

// Rent allocates and frees the ledger space of holding accounts.
type Rent interface {
	Allocate(db loom.KVStore, payer, addr loom.Address, size uint32) error
	Release(db loom.KVStore, addr, dest loom.Address) error
	Occupied(db loom.ReadOnlyKVStore, addr loom.Address) (bool, error)
}

// Transfer describes a checked movement of funds between two holding
// accounts of the same mint.
type Transfer struct {
	Mint loom.Address
	// From and To are holding account addresses.
	From loom.Address
	To   loom.Address
	// Amount is expressed in the smallest unit of the mint.
	Amount uint64
	// Decimals must match the precision the mint is registered with.
	Decimals uint8
	// Authority must authorize the owner of the From account.
	Authority Authority
}

// Controller implements all operations on mints and holding accounts.
type Controller struct {
	mints    orm.ModelBucket
	accounts orm.ModelBucket
	rent     Rent
}

// NewController returns a controller that charges storage deposits
// through rent.
func NewController(rent Rent) Controller {
	return Controller{
		mints:    NewMintBucket(),
		accounts: NewAccountBucket(),
		rent:     rent,
	}
}

// Mint returns the mint stored under addr.
func (c Controller) Mint(db loom.ReadOnlyKVStore, addr loom.Address) (*Mint, error) {
	var m Mint
	if err := c.mints.One(db, addr, &m); err != nil {
		return nil, errors.Wrap(err, "mint")
	}
	return &m, nil
}

// CreateMint registers a new mint. Mints are keyed by their ticker, see
// MintAddress.
func (c Controller) CreateMint(db loom.KVStore, m *Mint) (loom.Address, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	addr := MintAddress(m.Ticker)
	switch err := c.mints.Has(db, addr); {
	case err == nil:
		return nil, errors.Wrapf(errors.ErrDuplicate, "mint %s", m.Ticker)
	case !errors.ErrNotFound.Is(err):
		return nil, err
	}
	if err := c.mints.Put(db, addr, m); err != nil {
		return nil, err
	}
	return addr, nil
}

// Account returns the holding account stored under addr.
func (c Controller) Account(db loom.ReadOnlyKVStore, addr loom.Address) (*Account, error) {
	var a Account
	if err := c.accounts.One(db, addr, &a); err != nil {
		return nil, errors.Wrap(err, "account")
	}
	return &a, nil
}

// Balance returns the amount held by owner for the given mint.
func (c Controller) Balance(db loom.ReadOnlyKVStore, mint, owner loom.Address) (uint64, error) {
	a, err := c.Account(db, AccountAddress(mint, owner))
	if err != nil {
		return 0, err
	}
	return a.Amount, nil
}

// CreateAccount creates the holding account of owner for mint. The payer
// funds the storage deposit. It fails with ErrDuplicate if the account
// exists.
func (c Controller) CreateAccount(db loom.KVStore, payer, mint, owner loom.Address) (loom.Address, error) {
	if _, err := c.Mint(db, mint); err != nil {
		return nil, err
	}
	if err := owner.Validate(); err != nil {
		return nil, errors.Wrap(err, "owner")
	}
	addr := AccountAddress(mint, owner)
	switch err := c.accounts.Has(db, addr); {
	case err == nil:
		return nil, errors.Wrapf(errors.ErrDuplicate, "account %s", addr)
	case !errors.ErrNotFound.Is(err):
		return nil, err
	}
	if err := c.rent.Allocate(db, payer, addr, AccountSize); err != nil {
		return nil, errors.Wrap(err, "allocate account")
	}
	a := Account{Mint: mint, Owner: owner}
	if err := c.accounts.Put(db, addr, &a); err != nil {
		return nil, err
	}
	return addr, nil
}

// EnsureAccount returns the holding account of owner for mint, creating
// it when missing.
func (c Controller) EnsureAccount(db loom.KVStore, payer, mint, owner loom.Address) (loom.Address, error) {
	addr := AccountAddress(mint, owner)
	switch err := c.accounts.Has(db, addr); {
	case err == nil:
		return addr, nil
	case errors.ErrNotFound.Is(err):
		return c.CreateAccount(db, payer, mint, owner)
	default:
		return nil, err
	}
}

// Transfer moves funds after checking precision, ownership and balance.
// A zero amount is accepted once all checks pass.
func (c Controller) Transfer(ctx loom.Context, db loom.KVStore, t Transfer) error {
	mint, err := c.Mint(db, t.Mint)
	if err != nil {
		return err
	}
	if t.Decimals != mint.Decimals {
		return errors.Wrapf(errors.ErrPrecision, "mint uses %d decimals, transfer declares %d", mint.Decimals, t.Decimals)
	}
	from, err := c.holding(db, t.From, t.Mint)
	if err != nil {
		return errors.Wrap(err, "source")
	}
	to, err := c.holding(db, t.To, t.Mint)
	if err != nil {
		return errors.Wrap(err, "destination")
	}
	if t.Authority == nil {
		return errors.Wrap(errors.ErrUnauthorized, "no authority")
	}
	if err := t.Authority.Authorize(ctx, from.Owner); err != nil {
		return errors.Wrap(err, "source owner")
	}
	if from.Amount < t.Amount {
		return errors.Wrapf(errors.ErrInsufficientAmount, "account %s holds %d, needs %d", t.From, from.Amount, t.Amount)
	}
	if t.From.Equals(t.To) {
		return nil
	}
	if to.Amount > math.MaxUint64-t.Amount {
		return errors.Wrapf(errors.ErrOverflow, "account %s", t.To)
	}

	from.Amount -= t.Amount
	to.Amount += t.Amount
	if err := c.accounts.Put(db, t.From, from); err != nil {
		return err
	}
	return c.accounts.Put(db, t.To, to)
}

// holding loads the account at addr and ensures it holds mint.
func (c Controller) holding(db loom.ReadOnlyKVStore, addr, mint loom.Address) (*Account, error) {
	a, err := c.Account(db, addr)
	if err != nil {
		return nil, err
	}
	if !a.Mint.Equals(mint) {
		return nil, errors.Wrapf(errors.ErrInput, "account %s holds mint %s, not %s", addr, a.Mint, mint)
	}
	return a, nil
}

// MintTo issues amount of new supply into the holding account of owner.
// The authority must authorize the mint authority.
func (c Controller) MintTo(ctx loom.Context, db loom.KVStore, mintAddr, owner loom.Address, amount uint64, auth Authority) error {
	mint, err := c.Mint(db, mintAddr)
	if err != nil {
		return err
	}
	if err := auth.Authorize(ctx, mint.Authority); err != nil {
		return errors.Wrap(err, "mint authority")
	}
	addr := AccountAddress(mintAddr, owner)
	acc, err := c.holding(db, addr, mintAddr)
	if err != nil {
		return err
	}
	if mint.Supply > math.MaxUint64-amount {
		return errors.Wrap(errors.ErrOverflow, "supply")
	}
	// Supply bounds every balance, so the account cannot overflow.
	mint.Supply += amount
	acc.Amount += amount
	if err := c.mints.Put(db, mintAddr, mint); err != nil {
		return err
	}
	return c.accounts.Put(db, addr, acc)
}

// CloseAccount deletes an empty holding account and refunds its storage
// deposit to dest. The authority must authorize the account owner.
func (c Controller) CloseAccount(ctx loom.Context, db loom.KVStore, addr, dest loom.Address, auth Authority) error {
	acc, err := c.Account(db, addr)
	if err != nil {
		return err
	}
	if err := auth.Authorize(ctx, acc.Owner); err != nil {
		return errors.Wrap(err, "account owner")
	}
	if acc.Amount != 0 {
		return errors.Wrapf(errors.ErrState, "account %s holds %d", addr, acc.Amount)
	}
	if err := c.accounts.Delete(db, addr); err != nil {
		return err
	}
	// Accounts created at genesis never paid a deposit.
	occupied, err := c.rent.Occupied(db, addr)
	if err != nil {
		return err
	}
	if !occupied {
		return nil
	}
	return c.rent.Release(db, addr, dest)
}
