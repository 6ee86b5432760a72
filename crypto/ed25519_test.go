package crypto

import (
	"bytes"
	"testing"

	"github.com/iov-one/loom/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignVerify(t *testing.T) {
	priv := GenPrivKeyEd25519()
	pub := priv.PublicKey()
	msg := []byte("open escrow 1")

	sig, err := priv.Sign(msg)
	require.NoError(t, err)
	assert.True(t, pub.Verify(msg, sig))
	assert.False(t, pub.Verify([]byte("open escrow 2"), sig))

	other := GenPrivKeyEd25519().PublicKey()
	assert.False(t, other.Verify(msg, sig))
}

func TestKeyFromSeed(t *testing.T) {
	seed := bytes.Repeat([]byte{7}, 32)
	a, err := PrivKeyEd25519FromSeed(seed)
	require.NoError(t, err)
	b, err := PrivKeyEd25519FromSeed(seed)
	require.NoError(t, err)
	assert.True(t, a.PublicKey().Equals(b.PublicKey()))
	assert.Equal(t, a.PublicKey().Address(), b.PublicKey().Address())

	_, err = PrivKeyEd25519FromSeed([]byte{1})
	assert.True(t, errors.ErrInput.Is(err))
}

func TestPublicKeyCondition(t *testing.T) {
	pub := GenPrivKeyEd25519().PublicKey()
	ext, typ, data, err := pub.Condition().Parse()
	require.NoError(t, err)
	assert.Equal(t, "sigs", ext)
	assert.Equal(t, "ed25519", typ)
	assert.Equal(t, pub.Ed25519, data)
	assert.NoError(t, pub.Validate())

	raw, err := pub.Marshal()
	require.NoError(t, err)
	var got PublicKey
	require.NoError(t, got.Unmarshal(raw))
	assert.True(t, pub.Equals(&got))
}
