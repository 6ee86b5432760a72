package app

import (
	"testing"

	"github.com/iov-one/loom"
	"github.com/iov-one/loom/errors"
	"github.com/iov-one/loom/loomtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResultSet(t *testing.T) {
	models := []loom.Model{
		loom.Pair([]byte("a"), []byte("first")),
		loom.Pair([]byte("b"), nil),
		loom.Pair([]byte("c"), []byte("third")),
	}

	rawKeys, err := ResultsFromKeys(models).Marshal()
	require.NoError(t, err)
	rawValues, err := ResultsFromValues(models).Marshal()
	require.NoError(t, err)

	var keys, values ResultSet
	require.NoError(t, keys.Unmarshal(rawKeys))
	require.NoError(t, values.Unmarshal(rawValues))
	// empty values keep their position
	require.Len(t, values.Results, 3)

	joined, err := JoinResults(&keys, &values)
	require.NoError(t, err)
	assert.Equal(t, models, joined)

	_, err = JoinResults(&keys, &ResultSet{})
	assert.True(t, errors.ErrInput.Is(err))
}

func TestUnmarshalOneResult(t *testing.T) {
	msg := &loomtest.Msg{}
	empty, err := (&ResultSet{}).Marshal()
	require.NoError(t, err)
	err = UnmarshalOneResult(empty, msg)
	assert.True(t, errors.ErrNotFound.Is(err))

	one, err := (&ResultSet{Results: [][]byte{[]byte("payload")}}).Marshal()
	require.NoError(t, err)
	require.NoError(t, UnmarshalOneResult(one, msg))
	assert.Equal(t, []byte("payload"), msg.Serialized)
}
