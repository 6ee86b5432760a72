package app

import (
	"github.com/iov-one/loom"
	"github.com/iov-one/loom/errors"
	abci "github.com/tendermint/tendermint/abci/types"
)

// DeliverOrError converts the outcome of a delivered transaction into its
// abci response. The log of internal errors is redacted unless debug is
// set.
func DeliverOrError(res *loom.DeliverResult, err error, debug bool) abci.ResponseDeliverTx {
	if err != nil {
		code, log := errors.Info(err, debug)
		return abci.ResponseDeliverTx{Code: code, Log: "deliver: " + log}
	}
	return abci.ResponseDeliverTx{Data: res.Data, Log: res.Log}
}

// CheckOrError converts the outcome of a checked transaction into its abci
// response.
func CheckOrError(res *loom.CheckResult, err error, debug bool) abci.ResponseCheckTx {
	if err != nil {
		code, log := errors.Info(err, debug)
		return abci.ResponseCheckTx{Code: code, Log: "check: " + log}
	}
	return abci.ResponseCheckTx{Data: res.Data, Log: res.Log}
}

// ParseDeliverOrError converts a deliver response back into a result, or
// into an error carrying the root error of the response code.
func ParseDeliverOrError(res abci.ResponseDeliverTx) (*loom.DeliverResult, error) {
	if res.Code != errors.SuccessCode {
		return nil, errors.FromCode(res.Code, res.Log)
	}
	return &loom.DeliverResult{Data: res.Data, Log: res.Log}, nil
}

func queryError(err error, debug bool) abci.ResponseQuery {
	code, log := errors.Info(err, debug)
	return abci.ResponseQuery{Code: code, Log: log}
}
