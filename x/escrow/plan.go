package escrow

import (
	"github.com/iov-one/loom"
	"github.com/iov-one/loom/errors"
	"github.com/iov-one/loom/x/token"
)

// Transition is the outcome of planning an operation: the escrow it
// affects and the calls that must be applied, in order.
type Transition struct {
	// Address of the escrow record.
	Address loom.Address
	// Record is the state persisted by the transition, nil when the
	// escrow is closed.
	Record *Escrow
	Calls  []Call
}

// OpenRequest asks to open an escrow.
type OpenRequest struct {
	Maker   loom.Address
	Seed    uint64
	Deposit uint64
	Receive uint64
	MintA   loom.Address
	MintB   loom.Address
}

// OpenSnapshot is the state Open depends on.
type OpenSnapshot struct {
	// RecordOccupied is true if the record address is in use.
	RecordOccupied bool
	// VaultOccupied is true if the vault address is in use.
	VaultOccupied bool
	// Vault is the holding account already stored at the vault address,
	// nil when there is none.
	Vault *token.Account
	// MintA and MintB are nil when the mint does not exist.
	MintA *token.Mint
	MintB *token.Mint
}

// PlanOpen checks an open request against the snapshot and returns the
// calls creating the record and the vault and funding the vault.
func PlanOpen(req OpenRequest, snap OpenSnapshot) (*Transition, error) {
	if err := req.Maker.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrUnauthorized, "maker signature required")
	}
	if req.Deposit == 0 {
		return nil, errors.Wrap(errors.ErrAmount, "deposit must be positive")
	}
	addr, bump, err := RecordAddress(req.Maker, req.Seed)
	if err != nil {
		return nil, err
	}
	if snap.RecordOccupied {
		return nil, errors.Wrapf(errors.ErrDuplicate, "seed %d is in use", req.Seed)
	}
	// An empty vault created ahead of the record is adopted.
	adopt := snap.Vault != nil && snap.Vault.Amount == 0 &&
		snap.Vault.Owner.Equals(addr) && snap.Vault.Mint.Equals(req.MintA)
	if snap.VaultOccupied && !adopt {
		return nil, errors.Wrapf(errors.ErrDuplicate, "vault of seed %d is in use", req.Seed)
	}
	if snap.MintA == nil {
		return nil, errors.Wrapf(errors.ErrNotFound, "mint a %s", req.MintA)
	}
	if snap.MintB == nil {
		return nil, errors.Wrapf(errors.ErrNotFound, "mint b %s", req.MintB)
	}

	record := &Escrow{
		Seed:    req.Seed,
		Bump:    bump,
		Maker:   req.Maker,
		MintA:   req.MintA,
		MintB:   req.MintB,
		Receive: req.Receive,
	}
	calls := []Call{
		AllocateRecord{Payer: req.Maker, Address: addr},
		PutRecord{Address: addr, Record: record},
	}
	if !adopt {
		calls = append(calls, CreateAccount{Payer: req.Maker, Mint: req.MintA, Owner: addr})
	}
	calls = append(calls, Transfer{
		Mint:     req.MintA,
		From:     token.AccountAddress(req.MintA, req.Maker),
		To:       VaultAddress(req.MintA, addr),
		Amount:   req.Deposit,
		Decimals: snap.MintA.Decimals,
	})
	return &Transition{Address: addr, Record: record, Calls: calls}, nil
}

// Snapshot is the state of an open escrow that Fulfill and Cancel
// depend on.
type Snapshot struct {
	// Record is nil when no escrow is stored at the address.
	Record *Escrow
	// Vault is nil when the vault does not exist.
	Vault *token.Account
	// MintA and MintB are nil when the mint does not exist.
	MintA *token.Mint
	MintB *token.Mint
}

// FulfillRequest asks to settle an escrow.
type FulfillRequest struct {
	Taker  loom.Address
	Escrow loom.Address
}

// PlanFulfill checks a fulfill request against the snapshot and returns
// the calls paying the maker, emptying the vault to the taker and closing
// the escrow.
func PlanFulfill(req FulfillRequest, snap Snapshot) (*Transition, error) {
	if err := req.Taker.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrUnauthorized, "taker signature required")
	}
	rec, vault, err := checkEscrow(req.Escrow, snap)
	if err != nil {
		return nil, err
	}
	if snap.MintB == nil {
		return nil, errors.Wrapf(errors.ErrNotFound, "mint b %s", rec.MintB)
	}

	capability := rec.Capability()
	return &Transition{
		Address: req.Escrow,
		Calls: []Call{
			EnsureAccount{Payer: req.Taker, Mint: rec.MintA, Owner: req.Taker},
			EnsureAccount{Payer: req.Taker, Mint: rec.MintB, Owner: rec.Maker},
			Transfer{
				Mint:     rec.MintB,
				From:     token.AccountAddress(rec.MintB, req.Taker),
				To:       token.AccountAddress(rec.MintB, rec.Maker),
				Amount:   rec.Receive,
				Decimals: snap.MintB.Decimals,
			},
			Transfer{
				Mint:       rec.MintA,
				From:       vault,
				To:         token.AccountAddress(rec.MintA, req.Taker),
				Amount:     snap.Vault.Amount,
				Decimals:   snap.MintA.Decimals,
				Capability: &capability,
			},
			CloseAccount{Address: vault, Refund: rec.Maker, Capability: capability},
			DeleteRecord{Address: req.Escrow, Refund: rec.Maker},
		},
	}, nil
}

// CancelRequest asks to cancel an escrow.
type CancelRequest struct {
	// Signers are the addresses that signed the request. The maker must
	// be one of them.
	Signers []loom.Address
	Escrow  loom.Address
}

// PlanCancel checks a cancel request against the snapshot and returns
// the calls returning the vault to the maker and closing the escrow.
func PlanCancel(req CancelRequest, snap Snapshot) (*Transition, error) {
	if snap.Record == nil {
		return nil, errors.Wrapf(errors.ErrNotFound, "escrow %s", req.Escrow)
	}
	if !signedBy(req.Signers, snap.Record.Maker) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "only the maker can cancel")
	}
	rec, vault, err := checkEscrow(req.Escrow, snap)
	if err != nil {
		return nil, err
	}

	capability := rec.Capability()
	return &Transition{
		Address: req.Escrow,
		Calls: []Call{
			EnsureAccount{Payer: rec.Maker, Mint: rec.MintA, Owner: rec.Maker},
			Transfer{
				Mint:       rec.MintA,
				From:       vault,
				To:         token.AccountAddress(rec.MintA, rec.Maker),
				Amount:     snap.Vault.Amount,
				Decimals:   snap.MintA.Decimals,
				Capability: &capability,
			},
			CloseAccount{Address: vault, Refund: rec.Maker, Capability: capability},
			DeleteRecord{Address: req.Escrow, Refund: rec.Maker},
		},
	}, nil
}

// checkEscrow ensures the record exists, is stored at the address it
// derives to and owns a vault of mint A. It returns the record and the
// vault address.
func checkEscrow(addr loom.Address, snap Snapshot) (*Escrow, loom.Address, error) {
	rec := snap.Record
	if rec == nil {
		return nil, nil, errors.Wrapf(errors.ErrNotFound, "escrow %s", addr)
	}
	derived, err := rec.Capability().Address()
	if err != nil {
		return nil, nil, errors.Wrap(err, "escrow address")
	}
	if !derived.Equals(addr) {
		return nil, nil, errors.Wrapf(errors.ErrDerivation, "record derives to %s, not %s", derived, addr)
	}
	if snap.Vault == nil {
		return nil, nil, errors.Wrapf(errors.ErrNotFound, "vault of escrow %s", addr)
	}
	if !snap.Vault.Owner.Equals(addr) || !snap.Vault.Mint.Equals(rec.MintA) {
		return nil, nil, errors.Wrapf(errors.ErrState, "vault is not linked to escrow %s", addr)
	}
	if snap.MintA == nil {
		return nil, nil, errors.Wrapf(errors.ErrNotFound, "mint a %s", rec.MintA)
	}
	return rec, VaultAddress(rec.MintA, addr), nil
}

func signedBy(signers []loom.Address, addr loom.Address) bool {
	for _, s := range signers {
		if s.Equals(addr) {
			return true
		}
	}
	return false
}
