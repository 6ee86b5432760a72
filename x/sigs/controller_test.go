package sigs

import (
	"testing"

	"github.com/iov-one/loom/crypto"
	"github.com/iov-one/loom/errors"
	"github.com/iov-one/loom/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSignBytes(t *testing.T) {
	a, err := BuildSignBytes([]byte("foo"), "chain-one", 5)
	require.NoError(t, err)
	assert.Len(t, a, 64)

	b, err := BuildSignBytes([]byte("foo"), "chain-two", 5)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)

	c, err := BuildSignBytes([]byte("foo"), "chain-one", 6)
	require.NoError(t, err)
	assert.NotEqual(t, a, c)

	_, err = BuildSignBytes([]byte("foo"), "bad", 1)
	assert.True(t, errors.ErrInput.Is(err))

	_, err = BuildSignBytes([]byte("foo"), "chain-one", -1)
	assert.True(t, ErrInvalidSequence.Is(err))
}

func TestVerifySignature(t *testing.T) {
	kv := store.MemStore()
	priv := crypto.GenPrivKeyEd25519()
	pub := priv.PublicKey()
	chainID := "emo-music-2345"

	bz := []byte("my special valentine")
	tx := &stdTx{payload: bz}

	sig0, err := SignTx(priv, tx, chainID, 0)
	require.NoError(t, err)
	sig1, err := SignTx(priv, tx, chainID, 1)
	require.NoError(t, err)

	empty := new(StdSignature)
	_, err = VerifySignature(kv, empty, bz, chainID)
	assert.True(t, errors.ErrEmpty.Is(err))

	// signing with the wrong sequence fails
	_, err = VerifySignature(kv, sig1, bz, chainID)
	assert.True(t, ErrInvalidSequence.Is(err))

	// wrong chain id fails the signature check
	_, err = VerifySignature(kv, sig0, bz, "metal-music-5432")
	assert.True(t, errors.ErrUnauthorized.Is(err))

	// wrong payload fails the signature check
	_, err = VerifySignature(kv, sig0, []byte("other"), chainID)
	assert.True(t, errors.ErrUnauthorized.Is(err))

	cond, err := VerifySignature(kv, sig0, bz, chainID)
	require.NoError(t, err)
	assert.Equal(t, pub.Condition(), cond)

	// replay is rejected
	_, err = VerifySignature(kv, sig0, bz, chainID)
	assert.True(t, ErrInvalidSequence.Is(err))

	cond, err = VerifySignature(kv, sig1, bz, chainID)
	require.NoError(t, err)
	assert.Equal(t, pub.Condition(), cond)

	seq, err := NextSequence(kv, pub)
	require.NoError(t, err)
	assert.Equal(t, int64(2), seq)
}

func TestVerifyTxSignatures(t *testing.T) {
	kv := store.MemStore()
	chainID := "tx-sigs-test"
	first := crypto.GenPrivKeyEd25519()
	second := crypto.GenPrivKeyEd25519()

	tx := &stdTx{payload: []byte("payload")}
	sigA, err := SignTx(first, tx, chainID, 0)
	require.NoError(t, err)
	sigB, err := SignTx(second, tx, chainID, 0)
	require.NoError(t, err)
	tx.sigs = []*StdSignature{sigA, sigB}

	conds, err := VerifyTxSignatures(kv, tx, chainID)
	require.NoError(t, err)
	require.Len(t, conds, 2)
	assert.Equal(t, first.PublicKey().Condition(), conds[0])
	assert.Equal(t, second.PublicKey().Condition(), conds[1])
}
