package utils

import (
	"github.com/iov-one/loom"
	"github.com/iov-one/loom/errors"
)

// Recovery converts a panic below it into an ErrPanic error, aborting only
// the transaction that panicked. Place it under Logging so the failure is
// still logged.
type Recovery struct{}

var _ loom.Decorator = Recovery{}

func NewRecovery() Recovery {
	return Recovery{}
}

func (Recovery) Check(ctx loom.Context, db loom.KVStore, tx loom.Tx, next loom.Checker) (res *loom.CheckResult, err error) {
	defer errors.Recover(&err)
	res, err = next.Check(ctx, db, tx)
	return res, err
}

func (Recovery) Deliver(ctx loom.Context, db loom.KVStore, tx loom.Tx, next loom.Deliverer) (res *loom.DeliverResult, err error) {
	defer errors.Recover(&err)
	res, err = next.Deliver(ctx, db, tx)
	return res, err
}
