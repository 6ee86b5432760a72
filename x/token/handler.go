package token

import (
	"github.com/iov-one/loom"
	"github.com/iov-one/loom/errors"
	"github.com/iov-one/loom/x"
)

// RegisterRoutes will instantiate and register all handlers in this
// package.
func RegisterRoutes(r loom.Registry, auth x.Authenticator, rent Rent) {
	ctrl := NewController(rent)
	r.Handle(&TransferMsg{}, &transferHandler{auth: auth, ctrl: ctrl})
	r.Handle(&MintToMsg{}, &mintToHandler{auth: auth, ctrl: ctrl})
	r.Handle(&CreateAccountMsg{}, &createAccountHandler{auth: auth, ctrl: ctrl})
}

type transferHandler struct {
	auth x.Authenticator
	ctrl Controller
}

var _ loom.Handler = (*transferHandler)(nil)

func (h *transferHandler) Check(ctx loom.Context, db loom.KVStore, tx loom.Tx) (*loom.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &loom.CheckResult{}, nil
}

func (h *transferHandler) Deliver(ctx loom.Context, db loom.KVStore, tx loom.Tx) (*loom.DeliverResult, error) {
	msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	t := Transfer{
		Mint:      msg.Mint,
		From:      msg.Source,
		To:        msg.Destination,
		Amount:    msg.Amount,
		Decimals:  msg.Decimals,
		Authority: Signed(h.auth),
	}
	if err := h.ctrl.Transfer(ctx, db, t); err != nil {
		return nil, err
	}
	return &loom.DeliverResult{}, nil
}

func (h *transferHandler) validate(ctx loom.Context, db loom.KVStore, tx loom.Tx) (*TransferMsg, error) {
	var msg TransferMsg
	if err := loom.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	source, err := h.ctrl.holding(db, msg.Source, msg.Mint)
	if err != nil {
		return nil, errors.Wrap(err, "source")
	}
	if !h.auth.HasAddress(ctx, source.Owner) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "source owner signature required")
	}
	return &msg, nil
}

type mintToHandler struct {
	auth x.Authenticator
	ctrl Controller
}

var _ loom.Handler = (*mintToHandler)(nil)

func (h *mintToHandler) Check(ctx loom.Context, db loom.KVStore, tx loom.Tx) (*loom.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &loom.CheckResult{}, nil
}

func (h *mintToHandler) Deliver(ctx loom.Context, db loom.KVStore, tx loom.Tx) (*loom.DeliverResult, error) {
	msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.ctrl.MintTo(ctx, db, msg.Mint, msg.Owner, msg.Amount, Signed(h.auth)); err != nil {
		return nil, err
	}
	return &loom.DeliverResult{}, nil
}

func (h *mintToHandler) validate(ctx loom.Context, db loom.KVStore, tx loom.Tx) (*MintToMsg, error) {
	var msg MintToMsg
	if err := loom.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	mint, err := h.ctrl.Mint(db, msg.Mint)
	if err != nil {
		return nil, err
	}
	if !h.auth.HasAddress(ctx, mint.Authority) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "mint authority signature required")
	}
	return &msg, nil
}

type createAccountHandler struct {
	auth x.Authenticator
	ctrl Controller
}

var _ loom.Handler = (*createAccountHandler)(nil)

func (h *createAccountHandler) Check(ctx loom.Context, db loom.KVStore, tx loom.Tx) (*loom.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &loom.CheckResult{}, nil
}

func (h *createAccountHandler) Deliver(ctx loom.Context, db loom.KVStore, tx loom.Tx) (*loom.DeliverResult, error) {
	msg, payer, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	addr, err := h.ctrl.CreateAccount(db, payer, msg.Mint, msg.Owner)
	if err != nil {
		return nil, err
	}
	return &loom.DeliverResult{Data: addr}, nil
}

func (h *createAccountHandler) validate(ctx loom.Context, db loom.KVStore, tx loom.Tx) (*CreateAccountMsg, loom.Address, error) {
	var msg CreateAccountMsg
	if err := loom.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	payer := x.MainSigner(ctx, h.auth)
	if payer == nil {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "deposit payer signature required")
	}
	if _, err := h.ctrl.Mint(db, msg.Mint); err != nil {
		return nil, nil, err
	}
	return &msg, payer.Address(), nil
}
