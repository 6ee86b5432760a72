package escrow

import (
	"github.com/iov-one/loom"
	"github.com/iov-one/loom/errors"
	"github.com/iov-one/loom/orm"
	"github.com/iov-one/loom/x"
	"github.com/iov-one/loom/x/rent"
	"github.com/iov-one/loom/x/token"
)

// Ledger reads snapshots for the planners and applies transitions.
type Ledger struct {
	Records orm.ModelBucket
	Tokens  token.Controller
	Rent    rent.Controller
	// Auth authorizes the transfers signed by a party of the escrow.
	Auth x.Authenticator
}

// NewLedger returns a ledger over the default buckets.
func NewLedger(auth x.Authenticator) *Ledger {
	r := rent.NewController()
	return &Ledger{
		Records: NewBucket(),
		Tokens:  token.NewController(r),
		Rent:    r,
		Auth:    auth,
	}
}

// Apply performs the calls of t in order and stops at the first failure.
// Callers must run it in an isolated store that is discarded on error.
func (l *Ledger) Apply(ctx loom.Context, db loom.KVStore, t *Transition) error {
	for i, c := range t.Calls {
		if err := c.Apply(ctx, db, l); err != nil {
			return errors.Wrapf(err, "call #%d", i)
		}
	}
	return nil
}

// Record returns the escrow stored at addr.
func (l *Ledger) Record(db loom.ReadOnlyKVStore, addr loom.Address) (*Escrow, error) {
	var e Escrow
	if err := l.Records.One(db, addr, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// OpenSnapshot reads the state an open request depends on.
func (l *Ledger) OpenSnapshot(db loom.ReadOnlyKVStore, req OpenRequest) (OpenSnapshot, error) {
	var snap OpenSnapshot
	addr, _, err := RecordAddress(req.Maker, req.Seed)
	if err != nil {
		return snap, err
	}
	if snap.RecordOccupied, err = l.occupied(db, addr); err != nil {
		return snap, err
	}
	vault := VaultAddress(req.MintA, addr)
	if snap.VaultOccupied, err = l.occupied(db, vault); err != nil {
		return snap, err
	}
	switch acc, err := l.Tokens.Account(db, vault); {
	case err == nil:
		snap.Vault = acc
	case !errors.ErrNotFound.Is(err):
		return snap, err
	}
	if snap.MintA, err = l.mint(db, req.MintA); err != nil {
		return snap, err
	}
	if snap.MintB, err = l.mint(db, req.MintB); err != nil {
		return snap, err
	}
	return snap, nil
}

// Snapshot reads the state of the escrow stored at addr. Missing entities
// are left nil.
func (l *Ledger) Snapshot(db loom.ReadOnlyKVStore, addr loom.Address) (Snapshot, error) {
	var snap Snapshot
	rec, err := l.Record(db, addr)
	switch {
	case errors.ErrNotFound.Is(err):
		return snap, nil
	case err != nil:
		return snap, err
	}
	snap.Record = rec

	switch vault, err := l.Tokens.Account(db, VaultAddress(rec.MintA, addr)); {
	case err == nil:
		snap.Vault = vault
	case !errors.ErrNotFound.Is(err):
		return snap, err
	}
	if snap.MintA, err = l.mint(db, rec.MintA); err != nil {
		return snap, err
	}
	if snap.MintB, err = l.mint(db, rec.MintB); err != nil {
		return snap, err
	}
	return snap, nil
}

// occupied reports whether addr holds a record, an account or a storage
// deposit.
func (l *Ledger) occupied(db loom.ReadOnlyKVStore, addr loom.Address) (bool, error) {
	if ok, err := l.Rent.Occupied(db, addr); err != nil || ok {
		return ok, err
	}
	switch err := l.Records.Has(db, addr); {
	case err == nil:
		return true, nil
	case !errors.ErrNotFound.Is(err):
		return false, err
	}
	switch _, err := l.Tokens.Account(db, addr); {
	case err == nil:
		return true, nil
	case errors.ErrNotFound.Is(err):
		return false, nil
	default:
		return false, err
	}
}

func (l *Ledger) mint(db loom.ReadOnlyKVStore, addr loom.Address) (*token.Mint, error) {
	m, err := l.Tokens.Mint(db, addr)
	if errors.ErrNotFound.Is(err) {
		return nil, nil
	}
	return m, err
}
