package token

import (
	"github.com/iov-one/loom"
	"github.com/iov-one/loom/codec"
	"github.com/iov-one/loom/errors"
)

const (
	pathTransferMsg      = "token/transfer"
	pathMintToMsg        = "token/mint"
	pathCreateAccountMsg = "token/account"
)

var (
	_ loom.Msg = (*TransferMsg)(nil)
	_ loom.Msg = (*MintToMsg)(nil)
	_ loom.Msg = (*CreateAccountMsg)(nil)
)

// TransferMsg moves funds between two holding accounts. The owner of the
// source account must sign.
type TransferMsg struct {
	Mint        loom.Address
	Source      loom.Address
	Destination loom.Address
	Amount      uint64
	Decimals    uint8
}

func (TransferMsg) Path() string {
	return pathTransferMsg
}

func (m *TransferMsg) Validate() error {
	if err := m.Mint.Validate(); err != nil {
		return errors.Wrap(err, "mint")
	}
	if err := m.Source.Validate(); err != nil {
		return errors.Wrap(err, "source")
	}
	if err := m.Destination.Validate(); err != nil {
		return errors.Wrap(err, "destination")
	}
	if m.Decimals > MaxDecimals {
		return errors.Wrapf(errors.ErrPrecision, "at most %d decimals", MaxDecimals)
	}
	return nil
}

func (m *TransferMsg) Marshal() ([]byte, error) {
	var w codec.Writer
	w.Bytes(1, m.Mint)
	w.Bytes(2, m.Source)
	w.Bytes(3, m.Destination)
	w.Uint64(4, m.Amount)
	w.Uint64(5, uint64(m.Decimals))
	return w.Result()
}

func (m *TransferMsg) Unmarshal(raw []byte) error {
	r := codec.NewReader(raw)
	for r.Next() {
		switch r.Field() {
		case 1:
			m.Mint = r.Bytes()
		case 2:
			m.Source = r.Bytes()
		case 3:
			m.Destination = r.Bytes()
		case 4:
			m.Amount = r.Uint64()
		case 5:
			m.Decimals = uint8(r.Uint64())
		}
	}
	return r.Err()
}

// MintToMsg issues new supply into the holding account of Owner. The mint
// authority must sign.
type MintToMsg struct {
	Mint   loom.Address
	Owner  loom.Address
	Amount uint64
}

func (MintToMsg) Path() string {
	return pathMintToMsg
}

func (m *MintToMsg) Validate() error {
	if err := m.Mint.Validate(); err != nil {
		return errors.Wrap(err, "mint")
	}
	if err := m.Owner.Validate(); err != nil {
		return errors.Wrap(err, "owner")
	}
	if m.Amount == 0 {
		return errors.Wrap(errors.ErrAmount, "must be positive")
	}
	return nil
}

func (m *MintToMsg) Marshal() ([]byte, error) {
	var w codec.Writer
	w.Bytes(1, m.Mint)
	w.Bytes(2, m.Owner)
	w.Uint64(3, m.Amount)
	return w.Result()
}

func (m *MintToMsg) Unmarshal(raw []byte) error {
	r := codec.NewReader(raw)
	for r.Next() {
		switch r.Field() {
		case 1:
			m.Mint = r.Bytes()
		case 2:
			m.Owner = r.Bytes()
		case 3:
			m.Amount = r.Uint64()
		}
	}
	return r.Err()
}

// CreateAccountMsg creates the holding account of Owner for Mint. The main
// signer pays the storage deposit.
type CreateAccountMsg struct {
	Mint  loom.Address
	Owner loom.Address
}

func (CreateAccountMsg) Path() string {
	return pathCreateAccountMsg
}

func (m *CreateAccountMsg) Validate() error {
	if err := m.Mint.Validate(); err != nil {
		return errors.Wrap(err, "mint")
	}
	if err := m.Owner.Validate(); err != nil {
		return errors.Wrap(err, "owner")
	}
	return nil
}

func (m *CreateAccountMsg) Marshal() ([]byte, error) {
	var w codec.Writer
	w.Bytes(1, m.Mint)
	w.Bytes(2, m.Owner)
	return w.Result()
}

func (m *CreateAccountMsg) Unmarshal(raw []byte) error {
	r := codec.NewReader(raw)
	for r.Next() {
		switch r.Field() {
		case 1:
			m.Mint = r.Bytes()
		case 2:
			m.Owner = r.Bytes()
		}
	}
	return r.Err()
}
