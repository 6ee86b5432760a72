package escrow

import (
	"github.com/iov-one/loom"
	"github.com/iov-one/loom/x/token"
)

// Call is one step of a transition.
type Call interface {
	Apply(ctx loom.Context, db loom.KVStore, l *Ledger) error
}

var (
	_ Call = AllocateRecord{}
	_ Call = PutRecord{}
	_ Call = DeleteRecord{}
	_ Call = CreateAccount{}
	_ Call = EnsureAccount{}
	_ Call = Transfer{}
	_ Call = CloseAccount{}
)

// AllocateRecord pays the storage deposit of a record.
type AllocateRecord struct {
	Payer   loom.Address
	Address loom.Address
}

func (c AllocateRecord) Apply(ctx loom.Context, db loom.KVStore, l *Ledger) error {
	return l.Rent.Allocate(db, c.Payer, c.Address, RecordSize)
}

// PutRecord stores a record.
type PutRecord struct {
	Address loom.Address
	Record  *Escrow
}

func (c PutRecord) Apply(ctx loom.Context, db loom.KVStore, l *Ledger) error {
	return l.Records.Put(db, c.Address, c.Record)
}

// DeleteRecord deletes a record and refunds its storage deposit.
type DeleteRecord struct {
	Address loom.Address
	Refund  loom.Address
}

func (c DeleteRecord) Apply(ctx loom.Context, db loom.KVStore, l *Ledger) error {
	if err := l.Records.Delete(db, c.Address); err != nil {
		return err
	}
	return l.Rent.Release(db, c.Address, c.Refund)
}

// CreateAccount creates a holding account, failing if it exists.
type CreateAccount struct {
	Payer loom.Address
	Mint  loom.Address
	Owner loom.Address
}

func (c CreateAccount) Apply(ctx loom.Context, db loom.KVStore, l *Ledger) error {
	_, err := l.Tokens.CreateAccount(db, c.Payer, c.Mint, c.Owner)
	return err
}

// EnsureAccount creates a holding account unless it exists.
type EnsureAccount struct {
	Payer loom.Address
	Mint  loom.Address
	Owner loom.Address
}

func (c EnsureAccount) Apply(ctx loom.Context, db loom.KVStore, l *Ledger) error {
	_, err := l.Tokens.EnsureAccount(db, c.Payer, c.Mint, c.Owner)
	return err
}

// Transfer is a checked token transfer, authorized by Capability or,
// when it is nil, by the signature of the source owner.
type Transfer struct {
	Mint       loom.Address
	From       loom.Address
	To         loom.Address
	Amount     uint64
	Decimals   uint8
	Capability *loom.Capability
}

func (c Transfer) Apply(ctx loom.Context, db loom.KVStore, l *Ledger) error {
	return l.Tokens.Transfer(ctx, db, token.Transfer{
		Mint:      c.Mint,
		From:      c.From,
		To:        c.To,
		Amount:    c.Amount,
		Decimals:  c.Decimals,
		Authority: authority(l, c.Capability),
	})
}

// CloseAccount closes an empty vault with its capability and refunds
// the storage deposit.
type CloseAccount struct {
	Address    loom.Address
	Refund     loom.Address
	Capability loom.Capability
}

func (c CloseAccount) Apply(ctx loom.Context, db loom.KVStore, l *Ledger) error {
	return l.Tokens.CloseAccount(ctx, db, c.Address, c.Refund, c.Capability)
}

func authority(l *Ledger, capability *loom.Capability) token.Authority {
	if capability != nil {
		return *capability
	}
	return token.Signed(l.Auth)
}
