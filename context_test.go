package loom

import (
	"context"
	"testing"
	"time"

	"github.com/iov-one/loom/loomtest/assert"
	"github.com/tendermint/tendermint/libs/log"
)

func TestContextHeight(t *testing.T) {
	ctx := context.Background()
	_, ok := GetHeight(ctx)
	assert.Equal(t, false, ok)

	ctx = WithHeight(ctx, 7)
	h, ok := GetHeight(ctx)
	assert.Equal(t, true, ok)
	assert.Equal(t, int64(7), h)

	assert.Panics(t, func() { WithHeight(ctx, 8) })
}

func TestContextChainID(t *testing.T) {
	ctx := context.Background()
	assert.Panics(t, func() { GetChainID(ctx) })
	assert.Panics(t, func() { WithChainID(ctx, "x") })

	ctx = WithChainID(ctx, "escrow-test")
	assert.Equal(t, "escrow-test", GetChainID(ctx))
	assert.Panics(t, func() { WithChainID(ctx, "escrow-other") })
}

func TestContextBlockTime(t *testing.T) {
	ctx := context.Background()
	_, err := BlockTime(ctx)
	if err == nil {
		t.Fatal("block time must not be present")
	}
	now := time.Now()
	ctx = WithBlockTime(ctx, now)
	got, err := BlockTime(ctx)
	assert.Nil(t, err)
	assert.Equal(t, now, got)
}

func TestContextLogger(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, DefaultLogger, GetLogger(ctx))

	logger := log.NewNopLogger()
	ctx = WithLogger(ctx, logger)
	assert.Equal(t, logger, GetLogger(ctx))

	ctx = WithLogInfo(ctx, "module", "escrow")
	if GetLogger(ctx) == nil {
		t.Fatal("logger must be set")
	}
}
