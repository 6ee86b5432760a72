package main

import (
	"bytes"
	"encoding/hex"
	"io/ioutil"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/iov-one/loom/crypto"
	"github.com/iov-one/loom/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runEscrowd runs the command line with args and returns its output.
func runEscrowd(t *testing.T, home string, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(append(args, "--home", home, "--log-level", "error"))
	err := rootCmd.Execute()
	return out.String(), err
}

// resetFlags restores the defaults of all flags, as they outlive a single
// execution of the command.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if f.Changed {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		}
	}
	cmd.PersistentFlags().VisitAll(reset)
	cmd.Flags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func newSeed(t *testing.T) (string, string) {
	t.Helper()
	key := crypto.GenPrivKeyEd25519()
	return hex.EncodeToString(key.Ed25519[:32]), key.PublicKey().Address().String()
}

var escrowAddress = regexp.MustCompile(`escrow ([0-9A-F]{64}) opened`)

func TestSwapFromCommandLine(t *testing.T) {
	home, err := ioutil.TempDir("", "escrowd")
	require.NoError(t, err)
	defer os.RemoveAll(home)

	maker, makerAddr := newSeed(t)
	taker, takerAddr := newSeed(t)

	out, err := runEscrowd(t, home, "init", "--key", maker)
	require.NoError(t, err)
	assert.Contains(t, out, "initialized, owner "+makerAddr)
	_, err = os.Stat(filepath.Join(home, genesisFile))
	require.NoError(t, err)

	_, err = runEscrowd(t, home, "init", "--key", maker)
	assert.True(t, errors.ErrDuplicate.Is(err), "%+v", err)

	// the taker gets BETA, and an ALPHA account paid by the maker
	_, err = runEscrowd(t, home, "account", "BETA", takerAddr, "--key", maker)
	require.NoError(t, err)
	_, err = runEscrowd(t, home, "account", "ALPHA", takerAddr, "--key", maker)
	require.NoError(t, err)
	_, err = runEscrowd(t, home, "transfer", "20", "BETA", takerAddr, "--key", maker)
	require.NoError(t, err)

	out, err = runEscrowd(t, home, "open", "10.5", "ALPHA", "7.25", "BETA", "--seed", "3", "--key", maker)
	require.NoError(t, err)
	match := escrowAddress.FindStringSubmatch(out)
	require.Len(t, match, 2, out)
	addr := match[1]

	out, err = runEscrowd(t, home, "address", "--escrow", "3", "--key", maker)
	require.NoError(t, err)
	assert.Contains(t, out, "hex\t"+addr)

	out, err = runEscrowd(t, home, "show", "escrow", addr)
	require.NoError(t, err)
	assert.Contains(t, out, "10.5 ALPHA")
	assert.Contains(t, out, "7.25 BETA")

	out, err = runEscrowd(t, home, "fulfill", addr, "--key", taker)
	require.NoError(t, err)
	assert.Contains(t, out, "fulfilled")

	out, err = runEscrowd(t, home, "show", "account", "ALPHA", takerAddr)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "10.5 ALPHA"), out)

	out, err = runEscrowd(t, home, "show", "account", "BETA", takerAddr)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "12.75 BETA"), out)

	_, err = runEscrowd(t, home, "show", "escrow", addr)
	assert.True(t, errors.ErrNotFound.Is(err), "%+v", err)

	_, err = runEscrowd(t, home, "cancel", addr, "--key", maker)
	assert.True(t, errors.ErrNotFound.Is(err), "%+v", err)
}

func TestCommandsRequireInit(t *testing.T) {
	home, err := ioutil.TempDir("", "escrowd")
	require.NoError(t, err)
	defer os.RemoveAll(home)

	_, err = runEscrowd(t, home, "show", "wallet", strings.Repeat("AB", 32))
	assert.True(t, errors.ErrState.Is(err), "%+v", err)
}

func TestSignerKey(t *testing.T) {
	seed, addr := newSeed(t)
	out, err := runEscrowd(t, os.TempDir(), "address", "--key", seed)
	require.NoError(t, err)
	assert.Contains(t, out, "hex\t"+addr)
	assert.Contains(t, out, "bech32\tloom1")

	_, err = runEscrowd(t, os.TempDir(), "address", "--key", "zz")
	assert.True(t, errors.ErrInput.Is(err), "%+v", err)
	_, err = runEscrowd(t, os.TempDir(), "address", "--key", "abcd")
	assert.True(t, errors.ErrInput.Is(err), "%+v", err)
}
