package escrow

import (
	"github.com/iov-one/loom"
	"github.com/iov-one/loom/errors"
	"github.com/iov-one/loom/x"
)

// RegisterRoutes will instantiate and register all handlers in this
// package.
func RegisterRoutes(r loom.Registry, auth x.Authenticator) {
	ledger := NewLedger(auth)
	r.Handle(&OpenMsg{}, &openHandler{auth: auth, ledger: ledger})
	r.Handle(&FulfillMsg{}, &fulfillHandler{auth: auth, ledger: ledger})
	r.Handle(&CancelMsg{}, &cancelHandler{auth: auth, ledger: ledger})
}

// planner is implemented by the handlers of this package. It returns the
// transition a transaction would perform.
type planner interface {
	plan(ctx loom.Context, db loom.ReadOnlyKVStore, tx loom.Tx) (*Transition, error)
}

// check plans the transaction without applying it.
func check(p planner, ctx loom.Context, db loom.KVStore, tx loom.Tx) (*loom.CheckResult, error) {
	if _, err := p.plan(ctx, db, tx); err != nil {
		return nil, err
	}
	return &loom.CheckResult{}, nil
}

// deliver plans the transaction and applies the transition. The result
// data is the escrow address.
func deliver(p planner, l *Ledger, ctx loom.Context, db loom.KVStore, tx loom.Tx) (*loom.DeliverResult, error) {
	t, err := p.plan(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := l.Apply(ctx, db, t); err != nil {
		return nil, err
	}
	return &loom.DeliverResult{Data: t.Address}, nil
}

type openHandler struct {
	auth   x.Authenticator
	ledger *Ledger
}

var _ loom.Handler = (*openHandler)(nil)

func (h *openHandler) Check(ctx loom.Context, db loom.KVStore, tx loom.Tx) (*loom.CheckResult, error) {
	return check(h, ctx, db, tx)
}

func (h *openHandler) Deliver(ctx loom.Context, db loom.KVStore, tx loom.Tx) (*loom.DeliverResult, error) {
	res, err := deliver(h, h.ledger, ctx, db, tx)
	if err == nil {
		loom.GetLogger(ctx).Info("escrow opened", "escrow", loom.Address(res.Data))
	}
	return res, err
}

func (h *openHandler) plan(ctx loom.Context, db loom.ReadOnlyKVStore, tx loom.Tx) (*Transition, error) {
	var msg OpenMsg
	if err := loom.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	maker := x.MainSigner(ctx, h.auth)
	if maker == nil {
		return nil, errors.Wrap(errors.ErrUnauthorized, "maker signature required")
	}
	req := OpenRequest{
		Maker:   maker.Address(),
		Seed:    msg.Seed,
		Deposit: msg.Deposit,
		Receive: msg.Receive,
		MintA:   msg.MintA,
		MintB:   msg.MintB,
	}
	snap, err := h.ledger.OpenSnapshot(db, req)
	if err != nil {
		return nil, err
	}
	return PlanOpen(req, snap)
}

type fulfillHandler struct {
	auth   x.Authenticator
	ledger *Ledger
}

var _ loom.Handler = (*fulfillHandler)(nil)

func (h *fulfillHandler) Check(ctx loom.Context, db loom.KVStore, tx loom.Tx) (*loom.CheckResult, error) {
	return check(h, ctx, db, tx)
}

func (h *fulfillHandler) Deliver(ctx loom.Context, db loom.KVStore, tx loom.Tx) (*loom.DeliverResult, error) {
	res, err := deliver(h, h.ledger, ctx, db, tx)
	if err == nil {
		loom.GetLogger(ctx).Info("escrow fulfilled", "escrow", loom.Address(res.Data))
	}
	return res, err
}

func (h *fulfillHandler) plan(ctx loom.Context, db loom.ReadOnlyKVStore, tx loom.Tx) (*Transition, error) {
	var msg FulfillMsg
	if err := loom.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	taker := x.MainSigner(ctx, h.auth)
	if taker == nil {
		return nil, errors.Wrap(errors.ErrUnauthorized, "taker signature required")
	}
	snap, err := h.ledger.Snapshot(db, msg.Escrow)
	if err != nil {
		return nil, err
	}
	return PlanFulfill(FulfillRequest{Taker: taker.Address(), Escrow: msg.Escrow}, snap)
}

type cancelHandler struct {
	auth   x.Authenticator
	ledger *Ledger
}

var _ loom.Handler = (*cancelHandler)(nil)

func (h *cancelHandler) Check(ctx loom.Context, db loom.KVStore, tx loom.Tx) (*loom.CheckResult, error) {
	return check(h, ctx, db, tx)
}

func (h *cancelHandler) Deliver(ctx loom.Context, db loom.KVStore, tx loom.Tx) (*loom.DeliverResult, error) {
	res, err := deliver(h, h.ledger, ctx, db, tx)
	if err == nil {
		loom.GetLogger(ctx).Info("escrow cancelled", "escrow", loom.Address(res.Data))
	}
	return res, err
}

func (h *cancelHandler) plan(ctx loom.Context, db loom.ReadOnlyKVStore, tx loom.Tx) (*Transition, error) {
	var msg CancelMsg
	if err := loom.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	snap, err := h.ledger.Snapshot(db, msg.Escrow)
	if err != nil {
		return nil, err
	}
	req := CancelRequest{
		Signers: x.GetAddresses(ctx, h.auth),
		Escrow:  msg.Escrow,
	}
	return PlanCancel(req, snap)
}
