package escrowd

import (
	"encoding/json"
	"math"
	"path/filepath"

	"github.com/iov-one/loom"
	"github.com/iov-one/loom/app"
	"github.com/iov-one/loom/errors"
	"github.com/iov-one/loom/x/rent"
	"github.com/iov-one/loom/x/token"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	// DevDecimals is the precision of the mints of a development chain.
	DevDecimals = 6
	// DevNative is the native balance of the owner of a development chain.
	DevNative = 1000000000
	// DevSupply is the whole token amount minted to the owner of a
	// development chain for every ticker.
	DevSupply = 1000000
)

// DevRent is the storage price of a development chain.
var DevRent = rent.Configuration{BaseDeposit: 10, BytePrice: 1}

// GenInitOptions will produce the app state of a development chain. The
// owner holds native funds, is the authority of a mint for every ticker
// and holds its whole initial supply.
func GenInitOptions(owner loom.Address, tickers []string) (json.RawMessage, error) {
	if err := owner.Validate(); err != nil {
		return nil, errors.Wrap(err, "owner")
	}
	if len(tickers) == 0 {
		return nil, errors.Wrap(errors.ErrEmpty, "at least one ticker required")
	}

	supply := uint64(DevSupply) * uint64(math.Pow10(DevDecimals))
	mints := make([]token.GenesisMint, 0, len(tickers))
	accounts := make([]token.GenesisAccount, 0, len(tickers))
	for _, t := range tickers {
		m := token.Mint{Ticker: t, Decimals: DevDecimals, Authority: owner}
		if err := m.Validate(); err != nil {
			return nil, err
		}
		mints = append(mints, token.GenesisMint{Ticker: t, Decimals: DevDecimals, Authority: owner})
		accounts = append(accounts, token.GenesisAccount{Ticker: t, Owner: owner, Amount: supply})
	}

	state := map[string]interface{}{
		"conf": map[string]interface{}{
			"rent": DevRent,
		},
		"wallets": []rent.GenesisWallet{
			{Address: owner, Amount: DevNative},
		},
		"tokens": map[string]interface{}{
			"mints":    mints,
			"accounts": accounts,
		},
	}
	raw, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return raw, nil
}

// GenerateApp creates the application persisting its state under home.
// An empty home keeps the state in memory. A nil reg disables metrics.
func GenerateApp(home string, logger log.Logger, reg prometheus.Registerer, debug bool) (app.BaseApp, error) {
	// db goes in a subdir, but "" -> "" for memdb
	var dbPath string
	if home != "" {
		dbPath = filepath.Join(home, "escrow.db")
	}

	stack, err := Stack(reg)
	if err != nil {
		return app.BaseApp{}, err
	}
	application, err := Application("escrowd", stack, TxDecoder, dbPath, debug)
	if err != nil {
		return app.BaseApp{}, err
	}
	application.WithLogger(logger)
	return application, nil
}
