package utils

import (
	"time"

	"github.com/iov-one/loom"
	"github.com/iov-one/loom/errors"
)

// Logging is a decorator to log messages as they pass through
type Logging struct {
	debug bool
}

var _ loom.Decorator = Logging{}

// NewLogging creates a Logging decorator
func NewLogging() Logging {
	return Logging{}
}

// WithDebug makes the decorator log the full error instead of the
// redacted one.
func (l Logging) WithDebug(debug bool) Logging {
	l.debug = debug
	return l
}

// Check logs error -> error, success -> debug
func (l Logging) Check(ctx loom.Context, store loom.KVStore, tx loom.Tx, next loom.Checker) (*loom.CheckResult, error) {
	start := time.Now()
	res, err := next.Check(ctx, store, tx)
	var resLog string
	if err == nil {
		resLog = res.Log
	}
	l.logDuration(ctx, tx, start, resLog, err, true)
	return res, err
}

// Deliver logs error -> error, success -> info
func (l Logging) Deliver(ctx loom.Context, store loom.KVStore, tx loom.Tx, next loom.Deliverer) (*loom.DeliverResult, error) {
	start := time.Now()
	res, err := next.Deliver(ctx, store, tx)
	var resLog string
	if err == nil {
		resLog = res.Log
	}
	l.logDuration(ctx, tx, start, resLog, err, false)
	return res, err
}

// logDuration writes information about the time and result to the logger
func (l Logging) logDuration(ctx loom.Context, tx loom.Tx, start time.Time, msg string, err error, lowPrio bool) {
	delta := time.Since(start)
	logger := loom.GetLogger(ctx).With(
		"path", loom.GetPath(tx),
		"duration", delta/time.Microsecond,
	)

	// An empty message is still logged, the key values carry the
	// information.
	switch {
	case err != nil:
		code, log := errors.Info(errors.Redact(err, l.debug), l.debug)
		logger.Error(msg, "code", code, "err", log)
	case lowPrio:
		logger.Debug(msg)
	default:
		logger.Info(msg)
	}
}
