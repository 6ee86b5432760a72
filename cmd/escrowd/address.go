package main

import (
	"encoding/hex"
	"fmt"

	"github.com/iov-one/loom"
	"github.com/iov-one/loom/crypto"
	"github.com/iov-one/loom/errors"
	"github.com/iov-one/loom/x/escrow"
	"github.com/spf13/cobra"
)

const escrowSeedF = "escrow"

func init() {
	addressCmd.Flags().Uint64(escrowSeedF, 0, "print the address of the escrow of the signer opened with this seed")
	rootCmd.AddCommand(addressCmd)
}

var addressCmd = &cobra.Command{
	Use:   "address",
	Short: "Print the address of the signer",
	Long: `Print the address of the signer of --key, in hex and bech32 form. Without
--key a new key is generated and its seed printed. With --escrow the address
of the escrow the signer opens with that seed is printed instead.`,
	Args: cobra.NoArgs,
	RunE: addressFn,
}

func addressFn(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()

	var key *crypto.PrivateKey
	if cfg.GetString(keyF) == "" {
		key = crypto.GenPrivKeyEd25519()
		fmt.Fprintf(out, "key\t%s\n", hex.EncodeToString(key.Ed25519[:32]))
	} else {
		var err error
		if key, err = signerKey(); err != nil {
			return err
		}
	}

	addr := key.PublicKey().Address()
	if cmd.Flags().Changed(escrowSeedF) {
		seed, err := cmd.Flags().GetUint64(escrowSeedF)
		if err != nil {
			return err
		}
		if addr, _, err = escrow.RecordAddress(addr, seed); err != nil {
			return errors.Wrap(err, "escrow")
		}
	}
	return printAddress(cmd, addr)
}

func printAddress(cmd *cobra.Command, addr loom.Address) error {
	b32, err := addr.Bech32()
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "hex\t%s\nbech32\t%s\n", addr, b32)
	return nil
}
