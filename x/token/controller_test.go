package token

import (
	"context"
	"math"
	"testing"

	"github.com/iov-one/loom"
	"github.com/iov-one/loom/errors"
	"github.com/iov-one/loom/gconf"
	"github.com/iov-one/loom/loomtest"
	"github.com/iov-one/loom/store"
	"github.com/iov-one/loom/x/rent"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixture is a store with one mint, a funded wallet and two accounts.
type fixture struct {
	db        loom.CacheableKVStore
	ctrl      Controller
	rent      rent.Controller
	authority loom.Condition
	mint      loom.Address
	alice     loom.Condition
	bob       loom.Condition
	aliceAcc  loom.Address
	bobAcc    loom.Address
}

func newFixture(t testing.TB) *fixture {
	t.Helper()
	f := &fixture{
		db:        store.MemStore(),
		rent:      rent.NewController(),
		authority: loomtest.NewCondition(),
		alice:     loomtest.NewCondition(),
		bob:       loomtest.NewCondition(),
	}
	f.ctrl = NewController(f.rent)
	require.NoError(t, gconf.Save(f.db, "rent", &rent.Configuration{BaseDeposit: 1, BytePrice: 1}))
	require.NoError(t, f.rent.Credit(f.db, f.alice.Address(), 1000))

	mint, err := f.ctrl.CreateMint(f.db, &Mint{Ticker: "ALPHA", Decimals: 6, Authority: f.authority.Address()})
	require.NoError(t, err)
	f.mint = mint

	f.aliceAcc, err = f.ctrl.CreateAccount(f.db, f.alice.Address(), mint, f.alice.Address())
	require.NoError(t, err)
	f.bobAcc, err = f.ctrl.CreateAccount(f.db, f.alice.Address(), mint, f.bob.Address())
	require.NoError(t, err)

	ctx := f.signed(f.authority)
	require.NoError(t, f.ctrl.MintTo(ctx, f.db, mint, f.alice.Address(), 500, f.auth()))
	return f
}

func (f *fixture) auth() Authority {
	return Signed(&loomtest.CtxAuth{Key: "sig"})
}

func (f *fixture) signed(conds ...loom.Condition) loom.Context {
	auth := &loomtest.CtxAuth{Key: "sig"}
	return auth.SetConditions(context.Background(), conds...)
}

func TestTransfer(t *testing.T) {
	other := loomtest.NewAddress()

	cases := map[string]struct {
		mutate    func(f *fixture, tr *Transfer) loom.Context
		wantErr   *errors.Error
		wantAlice uint64
		wantBob   uint64
	}{
		"signed transfer": {
			mutate:    func(f *fixture, tr *Transfer) loom.Context { return f.signed(f.alice) },
			wantAlice: 400,
			wantBob:   100,
		},
		"zero amount is a no-op": {
			mutate: func(f *fixture, tr *Transfer) loom.Context {
				tr.Amount = 0
				return f.signed(f.alice)
			},
			wantAlice: 500,
		},
		"whole balance": {
			mutate: func(f *fixture, tr *Transfer) loom.Context {
				tr.Amount = 500
				return f.signed(f.alice)
			},
			wantBob: 500,
		},
		"missing signature": {
			mutate:    func(f *fixture, tr *Transfer) loom.Context { return f.signed(f.bob) },
			wantErr:   errors.ErrUnauthorized,
			wantAlice: 500,
		},
		"wrong decimals": {
			mutate: func(f *fixture, tr *Transfer) loom.Context {
				tr.Decimals = 2
				return f.signed(f.alice)
			},
			wantErr:   errors.ErrPrecision,
			wantAlice: 500,
		},
		"insufficient balance": {
			mutate: func(f *fixture, tr *Transfer) loom.Context {
				tr.Amount = 501
				return f.signed(f.alice)
			},
			wantErr:   errors.ErrInsufficientAmount,
			wantAlice: 500,
		},
		"unknown mint": {
			mutate: func(f *fixture, tr *Transfer) loom.Context {
				tr.Mint = loomtest.NewAddress()
				return f.signed(f.alice)
			},
			wantErr:   errors.ErrNotFound,
			wantAlice: 500,
		},
		"missing destination": {
			mutate: func(f *fixture, tr *Transfer) loom.Context {
				tr.To = other
				return f.signed(f.alice)
			},
			wantErr:   errors.ErrNotFound,
			wantAlice: 500,
		},
		"capability of the wrong address": {
			mutate: func(f *fixture, tr *Transfer) loom.Context {
				tr.Authority = loom.Capability{Tag: "test", Owner: loomtest.NewAddress(), Seed: []byte("x"), Bump: 255}
				return context.Background()
			},
			wantErr:   errors.ErrDerivation,
			wantAlice: 500,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			f := newFixture(t)
			tr := Transfer{
				Mint:      f.mint,
				From:      f.aliceAcc,
				To:        f.bobAcc,
				Amount:    100,
				Decimals:  6,
				Authority: f.auth(),
			}
			ctx := tc.mutate(f, &tr)

			err := f.ctrl.Transfer(ctx, f.db, tr)
			if tc.wantErr != nil {
				require.True(t, tc.wantErr.Is(err), "got %+v", err)
			} else {
				require.NoError(t, err)
			}

			alice, err := f.ctrl.Balance(f.db, f.mint, f.alice.Address())
			require.NoError(t, err)
			assert.Equal(t, tc.wantAlice, alice)
			bob, err := f.ctrl.Balance(f.db, f.mint, f.bob.Address())
			require.NoError(t, err)
			assert.Equal(t, tc.wantBob, bob)
		})
	}
}

func TestTransferWithCapability(t *testing.T) {
	f := newFixture(t)
	maker := f.alice.Address()
	seed := []byte{1, 0, 0, 0, 0, 0, 0, 0}
	owner, bump, err := loom.FindDerivedAddress("vault", maker, seed)
	require.NoError(t, err)

	vault, err := f.ctrl.CreateAccount(f.db, maker, f.mint, owner)
	require.NoError(t, err)
	require.NoError(t, f.ctrl.Transfer(f.signed(f.alice), f.db, Transfer{
		Mint: f.mint, From: f.aliceAcc, To: vault, Amount: 50, Decimals: 6, Authority: f.auth(),
	}))

	capability := loom.Capability{Tag: "vault", Owner: maker, Seed: seed, Bump: bump}

	// a signature of the maker does not move funds of the derived owner
	err = f.ctrl.Transfer(f.signed(f.alice), f.db, Transfer{
		Mint: f.mint, From: vault, To: f.bobAcc, Amount: 50, Decimals: 6, Authority: f.auth(),
	})
	assert.True(t, errors.ErrUnauthorized.Is(err))

	err = f.ctrl.Transfer(context.Background(), f.db, Transfer{
		Mint: f.mint, From: vault, To: f.bobAcc, Amount: 50, Decimals: 6, Authority: capability,
	})
	require.NoError(t, err)

	bob, err := f.ctrl.Balance(f.db, f.mint, f.bob.Address())
	require.NoError(t, err)
	assert.Equal(t, uint64(50), bob)
}

func TestTransferMintMismatch(t *testing.T) {
	f := newFixture(t)
	beta, err := f.ctrl.CreateMint(f.db, &Mint{Ticker: "BETA", Decimals: 6, Authority: f.authority.Address()})
	require.NoError(t, err)
	betaAcc, err := f.ctrl.CreateAccount(f.db, f.alice.Address(), beta, f.bob.Address())
	require.NoError(t, err)

	err = f.ctrl.Transfer(f.signed(f.alice), f.db, Transfer{
		Mint: f.mint, From: f.aliceAcc, To: betaAcc, Amount: 1, Decimals: 6, Authority: f.auth(),
	})
	assert.True(t, errors.ErrInput.Is(err))
}

func TestAccountLifecycle(t *testing.T) {
	f := newFixture(t)
	carol := loomtest.NewCondition()

	before, err := f.rent.Balance(f.db, f.alice.Address())
	require.NoError(t, err)

	_, err = f.ctrl.CreateAccount(f.db, f.alice.Address(), f.mint, f.bob.Address())
	assert.True(t, errors.ErrDuplicate.Is(err))

	addr, err := f.ctrl.EnsureAccount(f.db, f.alice.Address(), f.mint, f.bob.Address())
	require.NoError(t, err)
	assert.Equal(t, f.bobAcc, addr)

	addr, err = f.ctrl.EnsureAccount(f.db, f.alice.Address(), f.mint, carol.Address())
	require.NoError(t, err)
	assert.Equal(t, AccountAddress(f.mint, carol.Address()), addr)

	afterCreate, err := f.rent.Balance(f.db, f.alice.Address())
	require.NoError(t, err)
	assert.Equal(t, before-(1+AccountSize), afterCreate)

	// only the owner can close
	err = f.ctrl.CloseAccount(f.signed(f.alice), f.db, addr, f.alice.Address(), f.auth())
	assert.True(t, errors.ErrUnauthorized.Is(err))

	// non empty accounts cannot be closed
	err = f.ctrl.CloseAccount(f.signed(f.alice), f.db, f.aliceAcc, f.alice.Address(), f.auth())
	assert.True(t, errors.ErrState.Is(err))

	require.NoError(t, f.ctrl.CloseAccount(f.signed(carol), f.db, addr, f.alice.Address(), f.auth()))
	_, err = f.ctrl.Account(f.db, addr)
	assert.True(t, errors.ErrNotFound.Is(err))

	refunded, err := f.rent.Balance(f.db, f.alice.Address())
	require.NoError(t, err)
	assert.Equal(t, before, refunded)

	_, err = f.ctrl.CreateAccount(f.db, f.alice.Address(), loomtest.NewAddress(), carol.Address())
	assert.True(t, errors.ErrNotFound.Is(err))
}

func TestMintTo(t *testing.T) {
	f := newFixture(t)

	err := f.ctrl.MintTo(f.signed(f.alice), f.db, f.mint, f.bob.Address(), 10, f.auth())
	assert.True(t, errors.ErrUnauthorized.Is(err))

	err = f.ctrl.MintTo(f.signed(f.authority), f.db, f.mint, loomtest.NewAddress(), 10, f.auth())
	assert.True(t, errors.ErrNotFound.Is(err))

	err = f.ctrl.MintTo(f.signed(f.authority), f.db, f.mint, f.bob.Address(), math.MaxUint64, f.auth())
	assert.True(t, errors.ErrOverflow.Is(err))

	require.NoError(t, f.ctrl.MintTo(f.signed(f.authority), f.db, f.mint, f.bob.Address(), 10, f.auth()))
	mint, err := f.ctrl.Mint(f.db, f.mint)
	require.NoError(t, err)
	assert.Equal(t, uint64(510), mint.Supply)
}
