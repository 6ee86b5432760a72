package app

import (
	"encoding/json"
	"io/ioutil"

	"github.com/iov-one/loom"
	"github.com/iov-one/loom/errors"
)

// Genesis file format, designed to be overlayed with tendermint genesis
type Genesis struct {
	ChainID  string          `json:"chain_id"`
	AppState json.RawMessage `json:"app_state"`
}

// LoadGenesis tries to load a given file into a Genesis struct
func LoadGenesis(filePath string) (Genesis, error) {
	var gen Genesis

	raw, err := ioutil.ReadFile(filePath)
	if err != nil {
		return gen, errors.Wrap(errors.ErrInput, err.Error())
	}
	if err := json.Unmarshal(raw, &gen); err != nil {
		return gen, errors.Wrapf(errors.ErrInput, "genesis file: %s", err)
	}
	return gen, nil
}

// ChainInitializers lets you initialize many extensions with one function
func ChainInitializers(inits ...loom.Initializer) loom.Initializer {
	return chainInitializer{inits}
}

type chainInitializer struct {
	inits []loom.Initializer
}

// FromGenesis will pass opts to all Initializers in the list,
// aborting at the first error.
func (c chainInitializer) FromGenesis(ctx loom.Context, opts loom.Options, kv loom.KVStore) error {
	for _, i := range c.inits {
		if err := i.FromGenesis(ctx, opts, kv); err != nil {
			return err
		}
	}
	return nil
}
