package escrow

import (
	"github.com/iov-one/loom"
	"github.com/iov-one/loom/codec"
	"github.com/iov-one/loom/errors"
)

const (
	pathOpenMsg    = "escrow/open"
	pathFulfillMsg = "escrow/fulfill"
	pathCancelMsg  = "escrow/cancel"
)

var (
	_ loom.Msg = (*OpenMsg)(nil)
	_ loom.Msg = (*FulfillMsg)(nil)
	_ loom.Msg = (*CancelMsg)(nil)
)

// OpenMsg locks Deposit of MintA in a new escrow asking for Receive of
// MintB. The main signer is the maker.
type OpenMsg struct {
	Seed    uint64
	Deposit uint64
	Receive uint64
	MintA   loom.Address
	MintB   loom.Address
}

func (OpenMsg) Path() string {
	return pathOpenMsg
}

func (m *OpenMsg) Validate() error {
	if m.Deposit == 0 {
		return errors.Wrap(errors.ErrAmount, "deposit must be positive")
	}
	if err := m.MintA.Validate(); err != nil {
		return errors.Wrap(err, "mint a")
	}
	if err := m.MintB.Validate(); err != nil {
		return errors.Wrap(err, "mint b")
	}
	return nil
}

func (m *OpenMsg) Marshal() ([]byte, error) {
	var w codec.Writer
	w.Uint64(1, m.Seed)
	w.Uint64(2, m.Deposit)
	w.Uint64(3, m.Receive)
	w.Bytes(4, m.MintA)
	w.Bytes(5, m.MintB)
	return w.Result()
}

func (m *OpenMsg) Unmarshal(raw []byte) error {
	r := codec.NewReader(raw)
	for r.Next() {
		switch r.Field() {
		case 1:
			m.Seed = r.Uint64()
		case 2:
			m.Deposit = r.Uint64()
		case 3:
			m.Receive = r.Uint64()
		case 4:
			m.MintA = r.Bytes()
		case 5:
			m.MintB = r.Bytes()
		}
	}
	return r.Err()
}

// FulfillMsg settles the escrow stored at Escrow. The main signer is the
// taker.
type FulfillMsg struct {
	Escrow loom.Address
}

func (FulfillMsg) Path() string {
	return pathFulfillMsg
}

func (m *FulfillMsg) Validate() error {
	return errors.Wrap(m.Escrow.Validate(), "escrow")
}

func (m *FulfillMsg) Marshal() ([]byte, error) {
	return marshalEscrowRef(m.Escrow)
}

func (m *FulfillMsg) Unmarshal(raw []byte) error {
	addr, err := unmarshalEscrowRef(raw)
	m.Escrow = addr
	return err
}

// CancelMsg returns the vault of the escrow stored at Escrow to its
// maker, who must sign.
type CancelMsg struct {
	Escrow loom.Address
}

func (CancelMsg) Path() string {
	return pathCancelMsg
}

func (m *CancelMsg) Validate() error {
	return errors.Wrap(m.Escrow.Validate(), "escrow")
}

func (m *CancelMsg) Marshal() ([]byte, error) {
	return marshalEscrowRef(m.Escrow)
}

func (m *CancelMsg) Unmarshal(raw []byte) error {
	addr, err := unmarshalEscrowRef(raw)
	m.Escrow = addr
	return err
}

func marshalEscrowRef(addr loom.Address) ([]byte, error) {
	var w codec.Writer
	w.Bytes(1, addr)
	return w.Result()
}

func unmarshalEscrowRef(raw []byte) (loom.Address, error) {
	var addr loom.Address
	r := codec.NewReader(raw)
	for r.Next() {
		if r.Field() == 1 {
			addr = r.Bytes()
		}
	}
	return addr, r.Err()
}
