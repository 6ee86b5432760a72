package app

import (
	"context"
	"testing"

	"github.com/iov-one/loom"
	"github.com/iov-one/loom/errors"
	"github.com/iov-one/loom/loomtest"
	"github.com/iov-one/loom/x/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// panicAt is a decorator that panics when the block height is at least
// its value.
type panicAt int64

func (p panicAt) Check(ctx loom.Context, db loom.KVStore, tx loom.Tx, next loom.Checker) (*loom.CheckResult, error) {
	if h, _ := loom.GetHeight(ctx); h >= int64(p) {
		panic("too high")
	}
	return next.Check(ctx, db, tx)
}

func (p panicAt) Deliver(ctx loom.Context, db loom.KVStore, tx loom.Tx, next loom.Deliverer) (*loom.DeliverResult, error) {
	if h, _ := loom.GetHeight(ctx); h >= int64(p) {
		panic("too high")
	}
	return next.Deliver(ctx, db, tx)
}

func TestChain(t *testing.T) {
	c1 := &loomtest.Decorator{}
	c2 := &loomtest.Decorator{}
	c3 := &loomtest.Decorator{}
	h := &loomtest.Handler{}
	var unset *loomtest.Decorator

	stack := ChainDecorators(
		c1,
		utils.NewLogging(),
		nil,
		utils.NewRecovery(),
		c2,
		panicAt(6),
		unset,
		c3,
	).WithHandler(h)

	bg := context.Background()
	tx := &loomtest.Tx{Msg: &loomtest.Msg{RoutePath: "test/chain"}}

	_, err := stack.Check(bg, nil, tx)
	require.NoError(t, err)
	_, err = stack.Deliver(loom.WithHeight(bg, 4), nil, tx)
	require.NoError(t, err)

	assert.Equal(t, 2, c1.CallCount())
	assert.Equal(t, 2, c2.CallCount())
	assert.Equal(t, 2, c3.CallCount())
	assert.Equal(t, 2, h.CallCount())

	// now, let's trigger a panic
	ctx := loom.WithHeight(bg, 8)
	_, err = stack.Check(ctx, nil, tx)
	assert.True(t, errors.ErrPanic.Is(err))
	_, err = stack.Deliver(ctx, nil, tx)
	assert.True(t, errors.ErrPanic.Is(err))

	assert.Equal(t, 4, c1.CallCount())
	assert.Equal(t, 4, c2.CallCount())
	// the panic happens before c3 is reached
	assert.Equal(t, 2, c3.CallCount())
	assert.Equal(t, 2, h.CallCount())
}

func TestChainDoesNotShareDecorators(t *testing.T) {
	base := ChainDecorators(&loomtest.Decorator{})
	a := &loomtest.Decorator{}
	b := &loomtest.Decorator{}
	withA := base.Chain(a)
	withB := base.Chain(b)

	h := &loomtest.Handler{}
	_, err := withA.WithHandler(h).Check(context.Background(), nil, nil)
	require.NoError(t, err)
	_, err = withB.WithHandler(h).Check(context.Background(), nil, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, a.CallCount())
	assert.Equal(t, 1, b.CallCount())
}
