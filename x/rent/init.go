package rent

import (
	"github.com/iov-one/loom"
	"github.com/iov-one/loom/errors"
	"github.com/iov-one/loom/gconf"
)

const optKey = "wallets"

// GenesisWallet is used to parse the json from genesis file.
type GenesisWallet struct {
	Address loom.Address `json:"address"`
	Amount  uint64       `json:"amount"`
}

// Initializer fulfils the Initializer interface to load data from
// the genesis file
type Initializer struct{}

var _ loom.Initializer = Initializer{}

// FromGenesis stores the rent configuration and credits the initial
// native balances.
func (Initializer) FromGenesis(ctx loom.Context, opts loom.Options, db loom.KVStore) error {
	if err := gconf.InitConfig(db, opts, "rent", &Configuration{}); err != nil {
		return errors.Wrap(err, "init config")
	}

	var wallets []GenesisWallet
	if err := opts.ReadOptions(optKey, &wallets); err != nil {
		return err
	}
	ctrl := NewController()
	for i, w := range wallets {
		if err := ctrl.Credit(db, w.Address, w.Amount); err != nil {
			return errors.Wrapf(err, "wallet #%d", i)
		}
	}
	return nil
}
