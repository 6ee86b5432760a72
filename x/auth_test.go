package x

import (
	"context"
	"testing"

	"github.com/iov-one/loom"
	"github.com/iov-one/loom/loomtest"
	"github.com/iov-one/loom/loomtest/assert"
)

func TestAuthenticators(t *testing.T) {
	maker := loomtest.NewCondition()
	taker := loomtest.NewCondition()
	stranger := loomtest.NewCondition()

	sigs := &loomtest.CtxAuth{Key: "sigs"}
	other := &loomtest.CtxAuth{Key: "other"}
	signed := sigs.SetConditions(context.Background(), taker, maker)

	cases := map[string]struct {
		ctx     loom.Context
		auth    Authenticator
		main    loom.Condition
		all     []loom.Condition
		outside loom.Condition
	}{
		"nobody signed": {
			ctx:     context.Background(),
			auth:    loomtest.Signed(),
			outside: maker,
		},
		"single signer": {
			ctx:     context.Background(),
			auth:    loomtest.Signed(maker),
			main:    maker,
			all:     []loom.Condition{maker},
			outside: taker,
		},
		"chain keeps the order of its members": {
			ctx:     context.Background(),
			auth:    ChainAuth(loomtest.Signed(taker), loomtest.Signed(maker)),
			main:    taker,
			all:     []loom.Condition{taker, maker},
			outside: stranger,
		},
		"chain skips members without signers": {
			ctx:     context.Background(),
			auth:    ChainAuth(loomtest.Signed(), loomtest.Signed(maker)),
			main:    maker,
			all:     []loom.Condition{maker},
			outside: taker,
		},
		"context signers": {
			ctx:     signed,
			auth:    sigs,
			main:    taker,
			all:     []loom.Condition{taker, maker},
			outside: stranger,
		},
		"context signers under another key": {
			ctx:     signed,
			auth:    other,
			outside: taker,
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.main, MainSigner(tc.ctx, tc.auth))
			assert.Equal(t, tc.all, tc.auth.GetConditions(tc.ctx))

			var want []loom.Address
			for _, c := range tc.all {
				want = append(want, c.Address())
				if !tc.auth.HasAddress(tc.ctx, c.Address()) {
					t.Fatalf("%s not authenticated", c)
				}
			}
			assert.Equal(t, want, GetAddresses(tc.ctx, tc.auth))
			if tc.auth.HasAddress(tc.ctx, tc.outside.Address()) {
				t.Fatalf("%s must not be authenticated", tc.outside)
			}
		})
	}
}
