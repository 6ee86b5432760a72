package main

import (
	"encoding/hex"
	"path/filepath"

	"github.com/iov-one/loom"
	"github.com/iov-one/loom/app"
	escrowd "github.com/iov-one/loom/cmd/escrowd/app"
	"github.com/iov-one/loom/crypto"
	"github.com/iov-one/loom/errors"
	"github.com/iov-one/loom/x/token"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/tendermint/tendermint/libs/log"
)

// session is the application state of the home directory, opened for the
// duration of one command.
type session struct {
	node     *escrowd.Node
	app      app.BaseApp
	logger   log.Logger
	registry *prometheus.Registry
}

// openSession opens the state of the home directory. Unless fresh is
// set, the state must have been initialized with a genesis.
func openSession(cmd *cobra.Command, fresh bool) (*session, error) {
	home, err := cmd.Flags().GetString(homeF)
	if err != nil {
		return nil, err
	}
	logger, err := newLogger()
	if err != nil {
		return nil, err
	}

	s := &session{logger: logger, registry: newRegistry()}
	var reg prometheus.Registerer
	if s.registry != nil {
		reg = s.registry
	}
	s.app, err = escrowd.GenerateApp(home, logger, reg, cfg.GetBool(debugF))
	if err != nil {
		return nil, errors.Wrap(err, "open state")
	}
	s.node = escrowd.NewNode(s.app)

	if !fresh && s.node.ChainID() == "" {
		s.app.Close()
		return nil, errors.Wrapf(errors.ErrState, "%s is not initialized, run init first", home)
	}
	return s, nil
}

// Close flushes the metrics to the log and releases the state.
func (s *session) Close() {
	logMetrics(s.logger, s.registry)
	s.app.Close()
}

// submit signs msg with the configured key and applies it in a new block.
func (s *session) submit(msg loom.Msg) (*loom.DeliverResult, error) {
	key, err := signerKey()
	if err != nil {
		return nil, err
	}
	tx := &escrowd.Tx{Msg: msg}
	if err := s.node.Sign(tx, key); err != nil {
		return nil, err
	}
	return s.node.Submit(tx)
}

// mint resolves a ticker or a mint address to the mint it names.
func (s *session) mint(name string) (loom.Address, *token.Mint, error) {
	addr, err := loom.ParseAddress(name)
	if err != nil {
		addr = token.MintAddress(name)
	}
	m, err := s.mintAt(addr)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "mint %s", name)
	}
	return addr, m, nil
}

func (s *session) mintAt(addr loom.Address) (*token.Mint, error) {
	var m token.Mint
	if err := s.node.Get("/tokens/mints", addr, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// amount parses a decimal amount of the given mint into base units.
func (s *session) amount(mint, value string) (loom.Address, *token.Mint, uint64, error) {
	addr, m, err := s.mint(mint)
	if err != nil {
		return nil, nil, 0, err
	}
	amount, err := token.ParseAmount(value, m.Decimals)
	if err != nil {
		return nil, nil, 0, errors.Wrapf(err, "amount of %s", m.Ticker)
	}
	return addr, m, amount, nil
}

// signerKey returns the private key of the configured seed.
func signerKey() (*crypto.PrivateKey, error) {
	enc := cfg.GetString(keyF)
	if enc == "" {
		return nil, errors.Wrap(errors.ErrEmpty, "signer key required, use --key or ESCROWD_KEY")
	}
	seed, err := hex.DecodeString(enc)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, "key must be hex encoded")
	}
	return crypto.PrivKeyEd25519FromSeed(seed)
}

// genesisPath returns the location of the genesis file of the home
// directory.
func genesisPath(cmd *cobra.Command) (string, error) {
	home, err := cmd.Flags().GetString(homeF)
	if err != nil {
		return "", err
	}
	return filepath.Join(home, genesisFile), nil
}
