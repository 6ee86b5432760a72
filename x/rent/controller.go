package rent

import (
	"math"

	"github.com/iov-one/loom"
	"github.com/iov-one/loom/errors"
	"github.com/iov-one/loom/gconf"
	"github.com/iov-one/loom/orm"
)

// Controller moves native funds and manages storage deposits.
type Controller struct {
	wallets  orm.ModelBucket
	deposits orm.ModelBucket
}

// NewController returns a controller over the default buckets.
func NewController() Controller {
	return Controller{
		wallets:  NewWalletBucket(),
		deposits: NewDepositBucket(),
	}
}

// Balance returns the native funds of addr. An address that never
// received anything has a zero balance.
func (c Controller) Balance(db loom.ReadOnlyKVStore, addr loom.Address) (uint64, error) {
	var w Wallet
	switch err := c.wallets.One(db, addr, &w); {
	case err == nil:
		return w.Amount, nil
	case errors.ErrNotFound.Is(err):
		return 0, nil
	default:
		return 0, err
	}
}

// Credit adds amount to the native funds of addr.
func (c Controller) Credit(db loom.KVStore, addr loom.Address, amount uint64) error {
	if err := addr.Validate(); err != nil {
		return errors.Wrap(err, "recipient")
	}
	balance, err := c.Balance(db, addr)
	if err != nil {
		return err
	}
	if balance > math.MaxUint64-amount {
		return errors.Wrapf(errors.ErrOverflow, "wallet %s", addr)
	}
	return c.wallets.Put(db, addr, &Wallet{Amount: balance + amount})
}

// Debit removes amount from the native funds of addr.
func (c Controller) Debit(db loom.KVStore, addr loom.Address, amount uint64) error {
	if err := addr.Validate(); err != nil {
		return errors.Wrap(err, "payer")
	}
	balance, err := c.Balance(db, addr)
	if err != nil {
		return err
	}
	if balance < amount {
		return errors.Wrapf(errors.ErrInsufficientAmount, "wallet %s holds %d, needs %d", addr, balance, amount)
	}
	return c.wallets.Put(db, addr, &Wallet{Amount: balance - amount})
}

// Required returns the deposit for allocating size bytes with the current
// configuration.
func (c Controller) Required(db loom.ReadOnlyKVStore, size uint32) (uint64, error) {
	var conf Configuration
	if err := gconf.Load(db, "rent", &conf); err != nil {
		return 0, errors.Wrap(err, "load configuration")
	}
	// Validate keeps BytePrice under 2^32 so the product cannot overflow.
	perByte := conf.BytePrice * uint64(size)
	if conf.BaseDeposit > math.MaxUint64-perByte {
		return 0, errors.Wrap(errors.ErrOverflow, "deposit")
	}
	return conf.BaseDeposit + perByte, nil
}

// Occupied returns true if a deposit is held for addr.
func (c Controller) Occupied(db loom.ReadOnlyKVStore, addr loom.Address) (bool, error) {
	switch err := c.deposits.Has(db, addr); {
	case err == nil:
		return true, nil
	case errors.ErrNotFound.Is(err):
		return false, nil
	default:
		return false, err
	}
}

// Deposit returns the deposit held for addr.
func (c Controller) Deposit(db loom.ReadOnlyKVStore, addr loom.Address) (*Deposit, error) {
	var d Deposit
	if err := c.deposits.One(db, addr, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// Allocate marks addr as occupied by size bytes and debits the required
// deposit from payer. It fails with ErrDuplicate if addr is already
// occupied.
func (c Controller) Allocate(db loom.KVStore, payer, addr loom.Address, size uint32) error {
	if err := addr.Validate(); err != nil {
		return errors.Wrap(err, "allocated address")
	}
	if occupied, err := c.Occupied(db, addr); err != nil {
		return err
	} else if occupied {
		return errors.Wrapf(errors.ErrDuplicate, "address %s is occupied", addr)
	}
	amount, err := c.Required(db, size)
	if err != nil {
		return err
	}
	if err := c.Debit(db, payer, amount); err != nil {
		return errors.Wrap(err, "storage deposit")
	}
	d := Deposit{Payer: payer, Amount: amount, Size: size}
	return c.deposits.Put(db, addr, &d)
}

// Release frees addr and credits its deposit to dest.
func (c Controller) Release(db loom.KVStore, addr, dest loom.Address) error {
	d, err := c.Deposit(db, addr)
	if err != nil {
		return err
	}
	if err := c.deposits.Delete(db, addr); err != nil {
		return err
	}
	return c.Credit(db, dest, d.Amount)
}
