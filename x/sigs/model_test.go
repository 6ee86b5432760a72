package sigs

import (
	"testing"

	"github.com/iov-one/loom/crypto"
	"github.com/iov-one/loom/errors"
	"github.com/iov-one/loom/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserDataSequence(t *testing.T) {
	cases := map[string]struct {
		user     UserData
		expected int64
		wantErr  *errors.Error
		wantSeq  int64
	}{
		"fresh user": {
			user:     UserData{},
			expected: 0,
			wantSeq:  1,
		},
		"sequence mismatch": {
			user:     UserData{Sequence: 3},
			expected: 2,
			wantErr:  ErrInvalidSequence,
			wantSeq:  3,
		},
		"javascript safe integer limit": {
			user:     UserData{Sequence: (1 << 53) - 1},
			expected: (1 << 53) - 1,
			wantErr:  errors.ErrOverflow,
			wantSeq:  (1 << 53) - 1,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			err := tc.user.CheckAndIncrementSequence(tc.expected)
			if tc.wantErr == nil {
				require.NoError(t, err)
			} else {
				assert.True(t, tc.wantErr.Is(err), "got %+v", err)
			}
			assert.Equal(t, tc.wantSeq, tc.user.Sequence)
		})
	}
}

func TestUserDataPersistence(t *testing.T) {
	db := store.MemStore()
	b := NewBucket()
	pub := crypto.GenPrivKeyEd25519().PublicKey()

	user, err := b.GetOrCreate(db, pub)
	require.NoError(t, err)
	assert.Equal(t, int64(0), user.Sequence)

	require.NoError(t, user.CheckAndIncrementSequence(0))
	require.NoError(t, b.Put(db, pub.Address(), user))

	loaded, err := b.GetOrCreate(db, pub)
	require.NoError(t, err)
	assert.Equal(t, int64(1), loaded.Sequence)
	assert.True(t, pub.Equals(loaded.Pubkey))

	invalid := &UserData{Sequence: 4}
	err = b.Put(db, pub.Address(), invalid)
	assert.True(t, ErrInvalidSequence.Is(err))
}
