package rent

import (
	"github.com/iov-one/loom"
	"github.com/iov-one/loom/codec"
	"github.com/iov-one/loom/errors"
	"github.com/iov-one/loom/orm"
)

const (
	walletBucket  = "wallets"
	depositBucket = "deposits"
)

// Configuration is the price of the ledger storage.
type Configuration struct {
	// BaseDeposit is charged for every allocation, whatever its size.
	BaseDeposit uint64 `json:"base_deposit"`
	// BytePrice is charged for every allocated byte.
	BytePrice uint64 `json:"byte_price"`
}

func (c *Configuration) Validate() error {
	if c.BytePrice > maxBytePrice {
		return errors.Wrapf(errors.ErrOverflow, "byte price above %d", uint64(maxBytePrice))
	}
	return nil
}

// maxBytePrice keeps BytePrice * size within 64 bits for any 32 bit size.
const maxBytePrice = 1<<32 - 1

func (c *Configuration) Marshal() ([]byte, error) {
	var w codec.Writer
	w.Uint64(1, c.BaseDeposit)
	w.Uint64(2, c.BytePrice)
	return w.Result()
}

func (c *Configuration) Unmarshal(raw []byte) error {
	r := codec.NewReader(raw)
	for r.Next() {
		switch r.Field() {
		case 1:
			c.BaseDeposit = r.Uint64()
		case 2:
			c.BytePrice = r.Uint64()
		}
	}
	return r.Err()
}

// Wallet holds the native funds of an address.
type Wallet struct {
	Amount uint64
}

var _ orm.Model = (*Wallet)(nil)

func (w *Wallet) Validate() error {
	return nil
}

func (w *Wallet) Marshal() ([]byte, error) {
	var cw codec.Writer
	cw.Uint64(1, w.Amount)
	return cw.Result()
}

func (w *Wallet) Unmarshal(raw []byte) error {
	r := codec.NewReader(raw)
	for r.Next() {
		if r.Field() == 1 {
			w.Amount = r.Uint64()
		}
	}
	return r.Err()
}

// Deposit is the storage deposit paid for an allocated address.
type Deposit struct {
	Payer  loom.Address
	Amount uint64
	Size   uint32
}

var _ orm.Model = (*Deposit)(nil)

func (d *Deposit) Validate() error {
	if err := d.Payer.Validate(); err != nil {
		return errors.Wrap(err, "payer")
	}
	if d.Size == 0 {
		return errors.Wrap(errors.ErrModel, "size must be positive")
	}
	return nil
}

func (d *Deposit) Marshal() ([]byte, error) {
	var w codec.Writer
	w.Bytes(1, d.Payer)
	w.Uint64(2, d.Amount)
	w.Uint64(3, uint64(d.Size))
	return w.Result()
}

func (d *Deposit) Unmarshal(raw []byte) error {
	r := codec.NewReader(raw)
	for r.Next() {
		switch r.Field() {
		case 1:
			d.Payer = r.Bytes()
		case 2:
			d.Amount = r.Uint64()
		case 3:
			d.Size = uint32(r.Uint64())
		}
	}
	return r.Err()
}

// NewWalletBucket returns the bucket of wallets, keyed by owner address.
func NewWalletBucket() orm.ModelBucket {
	return orm.NewModelBucket(walletBucket, &Wallet{})
}

// NewDepositBucket returns the bucket of deposits, keyed by the
// allocated address.
func NewDepositBucket() orm.ModelBucket {
	return orm.NewModelBucket(depositBucket, &Deposit{})
}

// RegisterQuery exposes wallets and deposits under "/wallets" and
// "/deposits".
func RegisterQuery(qr loom.QueryRouter) {
	NewWalletBucket().Register(walletBucket, qr)
	NewDepositBucket().Register(depositBucket, qr)
}
