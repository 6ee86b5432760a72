package app

import (
	"context"
	"testing"

	"github.com/iov-one/loom"
	"github.com/iov-one/loom/errors"
	"github.com/iov-one/loom/loomtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouter(t *testing.T) {
	r := NewRouter()
	good := &loomtest.Msg{RoutePath: "test/good"}
	bad := &loomtest.Msg{RoutePath: "test/bad"}
	missing := &loomtest.Msg{RoutePath: "test/missing"}

	counter := &loomtest.Handler{}
	r.Handle(good, counter)
	r.Handle(bad, &loomtest.Handler{DeliverErr: errors.ErrState})

	// make sure invalid registrations panic
	assert.Panics(t, func() { r.Handle(good, counter) })
	assert.Panics(t, func() { r.Handle(&loomtest.Msg{RoutePath: "l:7"}, counter) })

	ctx := context.Background()

	_, err := r.Check(ctx, nil, &loomtest.Tx{Msg: good})
	require.NoError(t, err)
	_, err = r.Deliver(ctx, nil, &loomtest.Tx{Msg: good})
	require.NoError(t, err)
	assert.Equal(t, 2, counter.CallCount())

	_, err = r.Deliver(ctx, nil, &loomtest.Tx{Msg: bad})
	assert.True(t, errors.ErrState.Is(err))

	_, err = r.Deliver(ctx, nil, &loomtest.Tx{Msg: missing})
	assert.True(t, errors.ErrNotFound.Is(err))
	_, err = r.Check(ctx, nil, &loomtest.Tx{Msg: missing})
	assert.True(t, errors.ErrNotFound.Is(err))

	_, err = r.Check(ctx, nil, &loomtest.Tx{Err: errors.ErrType})
	assert.True(t, errors.ErrType.Is(err))
	assert.Equal(t, 2, counter.CallCount())
}

var _ loom.Registry = NewRouter()
