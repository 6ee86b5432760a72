package token

import (
	"regexp"

	"github.com/iov-one/loom"
	"github.com/iov-one/loom/codec"
	"github.com/iov-one/loom/errors"
	"github.com/iov-one/loom/orm"
)

const (
	mintBucket    = "mints"
	accountBucket = "accounts"

	// MaxDecimals is the highest precision a mint can be registered with.
	MaxDecimals = 18

	// AccountSize is the number of bytes a holding account occupies and
	// pays a storage deposit for.
	AccountSize = 2*loom.AddressLength + 8
)

var isTicker = regexp.MustCompile(`^[A-Z][A-Z0-9]{2,5}$`).MatchString

// MintAddress returns the address of the mint with the given ticker.
func MintAddress(ticker string) loom.Address {
	return loom.NewCondition("token", "mint", []byte(ticker)).Address()
}

// AccountAddress returns the address of the holding account of owner for
// the given mint. Every (mint, owner) pair has exactly one account.
func AccountAddress(mint, owner loom.Address) loom.Address {
	data := make([]byte, 0, len(owner)+len(mint))
	data = append(data, owner...)
	data = append(data, mint...)
	return loom.NewCondition("token", "account", data).Address()
}

// Mint describes an asset.
type Mint struct {
	Ticker    string
	Decimals  uint8
	Authority loom.Address
	Supply    uint64
}

var _ orm.Model = (*Mint)(nil)

func (m *Mint) Validate() error {
	if !isTicker(m.Ticker) {
		return errors.Wrapf(errors.ErrModel, "invalid ticker %q", m.Ticker)
	}
	if m.Decimals > MaxDecimals {
		return errors.Wrapf(errors.ErrPrecision, "at most %d decimals", MaxDecimals)
	}
	if err := m.Authority.Validate(); err != nil {
		return errors.Wrap(err, "authority")
	}
	return nil
}

func (m *Mint) Marshal() ([]byte, error) {
	var w codec.Writer
	w.String(1, m.Ticker)
	w.Uint64(2, uint64(m.Decimals))
	w.Bytes(3, m.Authority)
	w.Uint64(4, m.Supply)
	return w.Result()
}

func (m *Mint) Unmarshal(raw []byte) error {
	r := codec.NewReader(raw)
	for r.Next() {
		switch r.Field() {
		case 1:
			m.Ticker = r.String()
		case 2:
			m.Decimals = uint8(r.Uint64())
		case 3:
			m.Authority = r.Bytes()
		case 4:
			m.Supply = r.Uint64()
		}
	}
	return r.Err()
}

// Account is a holding account: the balance of one owner for one mint.
type Account struct {
	Mint   loom.Address
	Owner  loom.Address
	Amount uint64
}

var _ orm.Model = (*Account)(nil)

func (a *Account) Validate() error {
	if err := a.Mint.Validate(); err != nil {
		return errors.Wrap(err, "mint")
	}
	if err := a.Owner.Validate(); err != nil {
		return errors.Wrap(err, "owner")
	}
	return nil
}

func (a *Account) Marshal() ([]byte, error) {
	var w codec.Writer
	w.Bytes(1, a.Mint)
	w.Bytes(2, a.Owner)
	w.Uint64(3, a.Amount)
	return w.Result()
}

func (a *Account) Unmarshal(raw []byte) error {
	r := codec.NewReader(raw)
	for r.Next() {
		switch r.Field() {
		case 1:
			a.Mint = r.Bytes()
		case 2:
			a.Owner = r.Bytes()
		case 3:
			a.Amount = r.Uint64()
		}
	}
	return r.Err()
}

// NewMintBucket returns the bucket of mints, keyed by mint address.
func NewMintBucket() orm.ModelBucket {
	return orm.NewModelBucket(mintBucket, &Mint{})
}

// NewAccountBucket returns the bucket of holding accounts, keyed by
// account address.
func NewAccountBucket() orm.ModelBucket {
	return orm.NewModelBucket(accountBucket, &Account{})
}

// RegisterQuery exposes mints and accounts under "/tokens/mints" and
// "/tokens/accounts".
func RegisterQuery(qr loom.QueryRouter) {
	NewMintBucket().Register("tokens/mints", qr)
	NewAccountBucket().Register("tokens/accounts", qr)
}
