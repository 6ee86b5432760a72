/*
Package sigs authenticates transactions by their ed25519 signatures.

Every signature commits to the chain id and to the sequence of its signer,
which increases by one with every accepted signature. A transaction can
therefore not be replayed, neither on the same chain nor on another one.
The signers of an accepted transaction are put in the context, where
handlers read them through Authenticate.
*/
package sigs

import (
	"github.com/iov-one/loom"
	"github.com/iov-one/loom/errors"
)

// RegisterQuery serves the signer data under "/sigs".
func RegisterQuery(qr loom.QueryRouter) {
	NewBucket().Register(BucketName, qr)
}

// Decorator verifies the signatures of a transaction, bumps the sequences
// of its signers and hands the signers down the stack.
type Decorator struct {
	optional bool
}

var _ loom.Decorator = Decorator{}

// NewDecorator returns a decorator rejecting unsigned transactions.
func NewDecorator() Decorator {
	return Decorator{}
}

// AllowMissingSigs returns a copy of d passing unsigned transactions down
// with no signer in the context. Present signatures are still verified.
func (d Decorator) AllowMissingSigs() Decorator {
	d.optional = true
	return d
}

func (d Decorator) Check(ctx loom.Context, db loom.KVStore, tx loom.Tx, next loom.Checker) (*loom.CheckResult, error) {
	signed, err := d.signers(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	return next.Check(signed, db, tx)
}

func (d Decorator) Deliver(ctx loom.Context, db loom.KVStore, tx loom.Tx, next loom.Deliverer) (*loom.DeliverResult, error) {
	signed, err := d.signers(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	return next.Deliver(signed, db, tx)
}

// signers returns ctx extended with the conditions of the valid
// signatures of tx.
func (d Decorator) signers(ctx loom.Context, db loom.KVStore, tx loom.Tx) (loom.Context, error) {
	stx, ok := tx.(SignedTx)
	switch {
	case !ok && d.optional:
		return ctx, nil
	case !ok:
		return nil, errors.Wrapf(errors.ErrType, "unsigned transaction type %T", tx)
	}
	conds, err := VerifyTxSignatures(db, stx, loom.GetChainID(ctx))
	if err != nil {
		return nil, errors.Wrap(err, "signatures")
	}
	if len(conds) == 0 && !d.optional {
		return nil, errors.Wrap(errors.ErrUnauthorized, "transaction is not signed")
	}
	return withSigners(ctx, conds), nil
}
