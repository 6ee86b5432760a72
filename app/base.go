package app

import (
	"github.com/iov-one/loom"
	"github.com/iov-one/loom/errors"
	abci "github.com/tendermint/tendermint/abci/types"
)

// BaseApp runs transactions through a handler on top of the stores of a
// StoreApp.
type BaseApp struct {
	*StoreApp
	decoder loom.TxDecoder
	handler loom.Handler
}

var _ abci.Application = BaseApp{}

func NewBaseApp(store *StoreApp, decoder loom.TxDecoder, handler loom.Handler, debug bool) BaseApp {
	return BaseApp{
		StoreApp: store.WithDebug(debug),
		decoder:  decoder,
		handler:  handler,
	}
}

// DeliverTx applies a transaction to the block in progress. The handler
// writes straight to the deliver store; rolling back a failed message is
// left to a savepoint decorator, so writes made before it (signature
// sequences) survive the failure.
func (b BaseApp) DeliverTx(raw []byte) abci.ResponseDeliverTx {
	tx, err := b.decode(raw)
	if err != nil {
		return DeliverOrError(nil, err, b.debug)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	ctx := loom.WithLogInfo(b.BlockContext(), "call", "deliver_tx", "path", loom.GetPath(tx))
	res, err := b.handler.Deliver(ctx, b.DeliverStore(), tx)
	return DeliverOrError(res, err, b.debug)
}

// CheckTx validates a transaction against the check state, which is
// reset at every commit. As with DeliverTx, rollback is up to the
// decorators.
func (b BaseApp) CheckTx(raw []byte) abci.ResponseCheckTx {
	tx, err := b.decode(raw)
	if err != nil {
		return CheckOrError(nil, err, b.debug)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	ctx := loom.WithLogInfo(b.BlockContext(), "call", "check_tx", "path", loom.GetPath(tx))
	res, err := b.handler.Check(ctx, b.CheckStore(), tx)
	return CheckOrError(res, err, b.debug)
}

// decode runs the decoder, which is fed untrusted bytes, under recovery.
func (b BaseApp) decode(raw []byte) (tx loom.Tx, err error) {
	defer errors.Recover(&err)
	return b.decoder(raw)
}
