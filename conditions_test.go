package loom

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/iov-one/loom/errors"
	"github.com/iov-one/loom/loomtest/assert"
)

func TestConditionParse(t *testing.T) {
	cases := map[string]struct {
		cond     Condition
		wantExt  string
		wantType string
		wantData []byte
		wantErr  *errors.Error
	}{
		"signature condition": {
			cond:     NewCondition("sigs", "ed25519", []byte{1, 2, 3}),
			wantExt:  "sigs",
			wantType: "ed25519",
			wantData: []byte{1, 2, 3},
		},
		"data with a newline": {
			cond:     NewCondition("escrow", "derived", []byte("a\nb")),
			wantExt:  "escrow",
			wantType: "derived",
			wantData: []byte("a\nb"),
		},
		"extension too short": {
			cond:    NewCondition("x", "ed25519", []byte{1}),
			wantErr: errors.ErrInput,
		},
		"missing data": {
			cond:    Condition("sigs/ed25519/"),
			wantErr: errors.ErrInput,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			ext, typ, data, err := tc.cond.Parse()
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if tc.wantErr != nil {
				return
			}
			assert.Equal(t, tc.wantExt, ext)
			assert.Equal(t, tc.wantType, typ)
			assert.Equal(t, tc.wantData, data)
		})
	}
}

func TestAddressHumanForms(t *testing.T) {
	addr := NewCondition("sigs", "ed25519", []byte("pubkey")).Address()
	assert.Equal(t, AddressLength, len(addr))

	b32, err := addr.Bech32()
	assert.Nil(t, err)
	if !strings.HasPrefix(b32, AddressHRP+"1") {
		t.Fatalf("unexpected bech32 form %q", b32)
	}

	for _, enc := range []string{
		addr.String(),
		"hex:" + addr.String(),
		b32,
		"bech32:" + b32,
		"cond:sigs/ed25519/" + strings.ToUpper("7075626b6579"),
	} {
		got, err := ParseAddress(enc)
		if err != nil {
			t.Fatalf("cannot parse %q: %s", enc, err)
		}
		if !got.Equals(addr) {
			t.Fatalf("%q decoded to %s", enc, got)
		}
	}
}

func TestParseAddressErrors(t *testing.T) {
	cases := map[string]*errors.Error{
		"zz":               errors.ErrInput,
		"ABCD":             errors.ErrInput,
		"foo:ABCD":         errors.ErrType,
		"bech32:loom1xxxx": errors.ErrInput,
	}
	for enc, want := range cases {
		t.Run(enc, func(t *testing.T) {
			_, err := ParseAddress(enc)
			if !want.Is(err) {
				t.Fatalf("want %s, got %+v", want, err)
			}
		})
	}
}

func TestAddressJSON(t *testing.T) {
	addr := NewAddress([]byte("some data"))
	raw, err := json.Marshal(addr)
	assert.Nil(t, err)

	var got Address
	assert.Nil(t, json.Unmarshal(raw, &got))
	assert.Equal(t, addr, got)

	var empty Address
	assert.Nil(t, json.Unmarshal([]byte(`""`), &empty))
	assert.Equal(t, Address(nil), empty)
}
