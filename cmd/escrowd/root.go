package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/iov-one/loom/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	// flag names shared by all commands.
	homeF     = "home"
	debugF    = "debug"
	logLevelF = "log-level"
	metricsF  = "metrics"
	chainIDF  = "chain-id"
	keyF      = "key"

	defaultChainID  = "escrow-dev"
	defaultLogLevel = "info"

	configFile  = "config.toml"
	genesisFile = "genesis.json"
	envPrefix   = "ESCROWD"
)

var (
	// cfg merges the flags, the ESCROWD_* environment and the config file
	// of the home directory, in this order of precedence.
	cfg = viper.New()

	// Flags that can be set in the config file or in the environment as
	// well.
	cfgFlags = []string{
		debugF,
		logLevelF,
		metricsF,
		chainIDF,
		keyF,
	}
)

func init() {
	rootCmd.SetHelpCommand(&cobra.Command{
		Use:    "no-help",
		Hidden: true,
	})

	defaultHome := filepath.Join(os.ExpandEnv("$HOME"), ".escrowd")
	flags := rootCmd.PersistentFlags()
	flags.String(homeF, defaultHome, "directory to store files under")
	flags.Bool(debugF, false, "expose internal errors and stack traces")
	flags.String(logLevelF, defaultLogLevel, "log level. Supported levels: debug, info, error, none")
	flags.Bool(metricsF, false, "log the transaction metrics before exiting")
	flags.String(chainIDF, defaultChainID, "chain id written to the genesis by init")
	flags.String(keyF, "", "hex encoded ed25519 seed of the signer")

	for _, name := range cfgFlags {
		if err := cfg.BindPFlag(name, flags.Lookup(name)); err != nil {
			panic(err)
		}
	}
	cfg.SetEnvPrefix(envPrefix)
	cfg.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	cfg.AutomaticEnv()
}

var rootCmd = &cobra.Command{
	Use:   "escrowd",
	Short: "A ledger of two party asset swap escrows.",
	Long: `
A ledger of two party asset swap escrows. A maker locks an amount of one
token in a vault and asks for an amount of another token in exchange. Any
taker can fulfill the escrow, receiving the locked tokens while paying the
asked ones to the maker. Until then the maker can cancel the escrow and take
the tokens back.

State is kept in the home directory. Every command that changes it is
applied in a block of its own.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadConfig,
}

// loadConfig reads the config file of the home directory when there is
// one.
func loadConfig(cmd *cobra.Command, _ []string) error {
	home, err := cmd.Flags().GetString(homeF)
	if err != nil {
		return err
	}
	path := filepath.Join(home, configFile)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	cfg.SetConfigFile(path)
	cfg.SetConfigType("toml")
	if err := cfg.ReadInConfig(); err != nil {
		return errors.Wrapf(errors.ErrInput, "config file %s: %s", path, err)
	}
	return nil
}

// newLogger returns the logger writing to stdout at the configured level.
func newLogger() (log.Logger, error) {
	logger := log.NewTMLogger(log.NewSyncWriter(os.Stdout)).
		With("module", "escrowd")
	level, err := log.AllowLevel(cfg.GetString(logLevelF))
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return log.NewFilter(logger, level), nil
}

// newRegistry returns the registry of the transaction metrics, nil when
// metrics are disabled.
func newRegistry() *prometheus.Registry {
	if !cfg.GetBool(metricsF) {
		return nil
	}
	return prometheus.NewRegistry()
}

// logMetrics writes every gathered metric to the log.
func logMetrics(logger log.Logger, reg *prometheus.Registry) {
	if reg == nil {
		return
	}
	families, err := reg.Gather()
	if err != nil {
		logger.Error("cannot gather metrics", "err", err)
		return
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			kv := []interface{}{"name", mf.GetName()}
			for _, l := range m.GetLabel() {
				kv = append(kv, l.GetName(), l.GetValue())
			}
			switch {
			case m.GetCounter() != nil:
				kv = append(kv, "value", m.GetCounter().GetValue())
			case m.GetHistogram() != nil:
				kv = append(kv,
					"count", m.GetHistogram().GetSampleCount(),
					"sum", m.GetHistogram().GetSampleSum())
			}
			logger.Info("metric", kv...)
		}
	}
}
