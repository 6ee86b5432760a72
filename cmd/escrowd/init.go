package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/iov-one/loom/app"
	escrowd "github.com/iov-one/loom/cmd/escrowd/app"
	"github.com/iov-one/loom/crypto"
	"github.com/iov-one/loom/errors"
	"github.com/spf13/cobra"
)

var defaultTickers = []string{"ALPHA", "BETA"}

func init() {
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init [ticker...]",
	Short: "Create the genesis of a development chain and load it",
	Long: `Create the genesis of a development chain and load it.

The signer of --key owns the chain: it holds native funds for storage
deposits and is the authority of a mint for every ticker (ALPHA and BETA
when none are given), holding its whole initial supply. Without --key a new
key is generated and its seed printed.`,
	RunE: initFn,
}

func initFn(cmd *cobra.Command, args []string) error {
	path, err := genesisPath(cmd)
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err == nil {
		return errors.Wrapf(errors.ErrDuplicate, "genesis file %s", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}

	var key *crypto.PrivateKey
	if cfg.GetString(keyF) == "" {
		key = crypto.GenPrivKeyEd25519()
		fmt.Fprintf(cmd.OutOrStdout(), "generated key: %s\n", hex.EncodeToString(key.Ed25519[:32]))
	} else if key, err = signerKey(); err != nil {
		return err
	}

	tickers := args
	if len(tickers) == 0 {
		tickers = defaultTickers
	}
	state, err := escrowd.GenInitOptions(key.PublicKey().Address(), tickers)
	if err != nil {
		return err
	}
	gen := app.Genesis{
		ChainID:  cfg.GetString(chainIDF),
		AppState: state,
	}

	s, err := openSession(cmd, true)
	if err != nil {
		return err
	}
	defer s.Close()
	if err := s.node.InitChain(gen); err != nil {
		return err
	}

	raw, err := json.MarshalIndent(gen, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	if err := ioutil.WriteFile(path, raw, 0600); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	fmt.Fprintf(cmd.OutOrStdout(), "chain %s initialized, owner %s\n", gen.ChainID, key.PublicKey().Address())
	return nil
}
