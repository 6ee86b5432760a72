package escrowd

import (
	"bytes"
	"testing"

	"github.com/iov-one/loom"
	"github.com/iov-one/loom/codec"
	"github.com/iov-one/loom/errors"
	"github.com/iov-one/loom/loomtest"
	"github.com/iov-one/loom/loomtest/assert"
	"github.com/iov-one/loom/x/escrow"
	"github.com/iov-one/loom/x/sigs"
	"github.com/iov-one/loom/x/token"
)

func TestTxRoundTrip(t *testing.T) {
	msgs := []loom.Msg{
		&escrow.OpenMsg{
			Seed:    7,
			Deposit: 100,
			Receive: 50,
			MintA:   token.MintAddress("ALPHA"),
			MintB:   token.MintAddress("BETA"),
		},
		&escrow.FulfillMsg{Escrow: loomtest.NewAddress()},
		&escrow.CancelMsg{Escrow: loomtest.NewAddress()},
		&token.TransferMsg{
			Mint:        token.MintAddress("ALPHA"),
			Source:      loomtest.NewAddress(),
			Destination: loomtest.NewAddress(),
			Amount:      3,
			Decimals:    6,
		},
		&token.MintToMsg{Mint: token.MintAddress("ALPHA"), Owner: loomtest.NewAddress(), Amount: 1},
		&token.CreateAccountMsg{Mint: token.MintAddress("BETA"), Owner: loomtest.NewAddress()},
	}

	key := loomtest.NewKey()
	for _, msg := range msgs {
		t.Run(msg.Path(), func(t *testing.T) {
			tx := &Tx{Msg: msg}
			assert.Nil(t, tx.Sign(key, "test-chain", 4))

			raw, err := tx.Marshal()
			assert.Nil(t, err)
			decoded, err := TxDecoder(raw)
			assert.Nil(t, err)
			assert.Equal(t, tx, decoded)

			got, err := decoded.GetMsg()
			assert.Nil(t, err)
			assert.Equal(t, msg.Path(), got.Path())
		})
	}
}

func TestTxSignBytes(t *testing.T) {
	tx := &Tx{Msg: &escrow.CancelMsg{Escrow: loomtest.NewAddress()}}
	unsigned, err := tx.GetSignBytes()
	assert.Nil(t, err)

	assert.Nil(t, tx.Sign(loomtest.NewKey(), "test-chain", 0))
	assert.Nil(t, tx.Sign(loomtest.NewKey(), "test-chain", 3))
	assert.Equal(t, 2, len(tx.GetSignatures()))

	signed, err := tx.GetSignBytes()
	assert.Nil(t, err)
	if !bytes.Equal(unsigned, signed) {
		t.Fatal("sign bytes must not depend on the signatures")
	}

	// every signature covers the same bytes
	for i, sig := range tx.GetSignatures() {
		signBytes, err := sigs.BuildSignBytesTx(tx, "test-chain", sig.Sequence)
		assert.Nil(t, err)
		if !sig.Pubkey.Verify(signBytes, sig.Signature) {
			t.Fatalf("signature %d does not verify", i)
		}
	}
}

func TestTxDecoderRejects(t *testing.T) {
	var unknown codec.Writer
	unknown.String(2, "escrow/expire")
	unknownRaw, err := unknown.Result()
	assert.Nil(t, err)

	var badBody codec.Writer
	badBody.String(2, "escrow/open")
	badBody.Uint64(3, 1)
	badBodyRaw, err := badBody.Result()
	assert.Nil(t, err)

	cases := map[string]struct {
		raw     []byte
		wantErr *errors.Error
	}{
		"unknown path": {
			raw:     unknownRaw,
			wantErr: errors.ErrMsg,
		},
		"message of the wrong wire type": {
			raw:     badBodyRaw,
			wantErr: errors.ErrInput,
		},
		"garbage": {
			raw:     []byte{0xff, 0xff, 0xff},
			wantErr: errors.ErrInput,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			_, err := TxDecoder(tc.raw)
			if !tc.wantErr.Is(err) {
				t.Fatalf("want %q, got %+v", tc.wantErr, err)
			}
		})
	}
}

func TestTxWithoutMessage(t *testing.T) {
	tx, err := TxDecoder(nil)
	assert.Nil(t, err)
	_, err = tx.GetMsg()
	assert.IsErr(t, errors.ErrMsg, err)
}
