package loom

import (
	"context"
	"encoding/binary"
	"testing"

	"github.com/iov-one/loom/errors"
	"github.com/iov-one/loom/loomtest/assert"
)

func seedBytes(n uint64) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, n)
	return b
}

func TestFindDerivedAddressIsDeterministic(t *testing.T) {
	owner := NewAddress([]byte("maker"))

	a1, bump1, err := FindDerivedAddress("escrow", owner, seedBytes(1))
	assert.Nil(t, err)
	a2, bump2, err := FindDerivedAddress("escrow", owner, seedBytes(1))
	assert.Nil(t, err)
	assert.Equal(t, a1, a2)
	assert.Equal(t, bump1, bump2)

	other, _, err := FindDerivedAddress("escrow", owner, seedBytes(2))
	assert.Nil(t, err)
	if other.Equals(a1) {
		t.Fatal("different seeds must derive different addresses")
	}

	again, err := CreateDerivedAddress("escrow", owner, seedBytes(1), bump1)
	assert.Nil(t, err)
	assert.Equal(t, a1, again)
}

func TestDerivedAddressesAreOffCurve(t *testing.T) {
	owner := NewAddress([]byte("owner"))
	var rejected int
	for seed := uint64(0); seed < 64; seed++ {
		addr, bump, err := FindDerivedAddress("escrow", owner, seedBytes(seed))
		assert.Nil(t, err)
		if onCurve(addr) {
			t.Fatalf("seed %d derived an ed25519 point", seed)
		}
		if bump != 255 {
			rejected++
		}
	}
	// Roughly half of all hashes are valid points, so some seeds must
	// have needed a lower bump.
	if rejected == 0 {
		t.Fatal("no candidate was ever rejected")
	}
}

func TestDerivationInvalidInput(t *testing.T) {
	_, _, err := FindDerivedAddress("escrow", Address{1, 2, 3}, nil)
	assert.IsErr(t, errors.ErrInput, err)

	_, _, err = FindDerivedAddress("e", NewAddress([]byte("owner")), nil)
	assert.IsErr(t, errors.ErrDerivation, err)
}

func TestCapabilityAuthorize(t *testing.T) {
	ctx := context.Background()
	owner := NewAddress([]byte("maker"))
	addr, bump, err := FindDerivedAddress("escrow", owner, seedBytes(7))
	assert.Nil(t, err)

	cases := map[string]struct {
		capability Capability
		wantErr    *errors.Error
	}{
		"valid capability": {
			capability: Capability{Tag: "escrow", Owner: owner, Seed: seedBytes(7), Bump: bump},
			wantErr:    nil,
		},
		"wrong seed": {
			capability: Capability{Tag: "escrow", Owner: owner, Seed: seedBytes(8), Bump: bump},
			wantErr:    errors.ErrDerivation,
		},
		"wrong owner": {
			capability: Capability{Tag: "escrow", Owner: NewAddress([]byte("taker")), Seed: seedBytes(7), Bump: bump},
			wantErr:    errors.ErrDerivation,
		},
		"wrong tag": {
			capability: Capability{Tag: "vault", Owner: owner, Seed: seedBytes(7), Bump: bump},
			wantErr:    errors.ErrDerivation,
		},
		"wrong bump": {
			capability: Capability{Tag: "escrow", Owner: owner, Seed: seedBytes(7), Bump: bump - 1},
			wantErr:    errors.ErrDerivation,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			err := tc.capability.Authorize(ctx, addr)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
		})
	}
}
