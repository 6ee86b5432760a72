package app

import (
	"reflect"

	"github.com/iov-one/loom"
)

// Decorators is an ordered list of decorators waiting for the handler they
// wrap. The first decorator sees a transaction first.
//
//   app.ChainDecorators(
//     utils.NewLogging(),
//     utils.NewRecovery(),
//     sigs.NewDecorator(),
//     utils.NewSavepoint().OnDeliver(),
//   ).WithHandler(router)
type Decorators struct {
	list []loom.Decorator
}

// ChainDecorators returns the list of the given decorators. Nil decorators,
// typed nil pointers included, are skipped so that optional decorators can
// be passed unconditionally.
func ChainDecorators(ds ...loom.Decorator) Decorators {
	return Decorators{}.Chain(ds...)
}

// Chain returns a new list with ds appended. The receiver is left intact,
// so one base list can be extended in several ways.
func (d Decorators) Chain(ds ...loom.Decorator) Decorators {
	list := make([]loom.Decorator, len(d.list), len(d.list)+len(ds))
	copy(list, d.list)
	for _, dec := range ds {
		if !isNilDecorator(dec) {
			list = append(list, dec)
		}
	}
	return Decorators{list: list}
}

func isNilDecorator(d loom.Decorator) bool {
	if d == nil {
		return true
	}
	v := reflect.ValueOf(d)
	return v.Kind() == reflect.Ptr && v.IsNil()
}

// WithHandler returns the handler running every decorator, in order, before
// h.
func (d Decorators) WithHandler(h loom.Handler) loom.Handler {
	for i := len(d.list) - 1; i >= 0; i-- {
		h = layer{dec: d.list[i], inner: h}
	}
	return h
}

// layer is one decorator bound to the handler it wraps.
type layer struct {
	dec   loom.Decorator
	inner loom.Handler
}

var _ loom.Handler = layer{}

func (l layer) Check(ctx loom.Context, db loom.KVStore, tx loom.Tx) (*loom.CheckResult, error) {
	return l.dec.Check(ctx, db, tx, l.inner)
}

func (l layer) Deliver(ctx loom.Context, db loom.KVStore, tx loom.Tx) (*loom.DeliverResult, error) {
	return l.dec.Deliver(ctx, db, tx, l.inner)
}
