package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/iov-one/loom"
	"github.com/iov-one/loom/errors"
	"github.com/iov-one/loom/x/escrow"
	"github.com/iov-one/loom/x/rent"
	"github.com/iov-one/loom/x/token"
	"github.com/spf13/cobra"
)

func init() {
	showCmd.AddCommand(showEscrowCmd, showAccountCmd, showWalletCmd)
	rootCmd.AddCommand(showCmd)
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the committed state of an escrow, an account or a wallet",
}

var showEscrowCmd = &cobra.Command{
	Use:   "escrow <address>",
	Short: "Print an open escrow and the balance of its vault",
	Args:  cobra.ExactArgs(1),
	RunE:  showEscrowFn,
}

func showEscrowFn(cmd *cobra.Command, args []string) error {
	addr, err := loom.ParseAddress(args[0])
	if err != nil {
		return errors.Wrap(err, "escrow")
	}
	s, err := openSession(cmd, false)
	if err != nil {
		return err
	}
	defer s.Close()

	var e escrow.Escrow
	if err := s.node.Get("/escrows", addr, &e); err != nil {
		return err
	}
	mintA, err := s.mintAt(e.MintA)
	if err != nil {
		return errors.Wrap(err, "mint a")
	}
	mintB, err := s.mintAt(e.MintB)
	if err != nil {
		return errors.Wrap(err, "mint b")
	}
	var vault token.Account
	if err := s.node.Get("/tokens/accounts", escrow.VaultAddress(e.MintA, addr), &vault); err != nil {
		return errors.Wrap(err, "vault")
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "escrow\t%s\n", addr)
	fmt.Fprintf(w, "maker\t%s\n", e.Maker)
	fmt.Fprintf(w, "seed\t%d\n", e.Seed)
	fmt.Fprintf(w, "locked\t%s %s\n", token.FormatAmount(vault.Amount, mintA.Decimals), mintA.Ticker)
	fmt.Fprintf(w, "asks\t%s %s\n", token.FormatAmount(e.Receive, mintB.Decimals), mintB.Ticker)
	return w.Flush()
}

var showAccountCmd = &cobra.Command{
	Use:   "account <token> <owner>",
	Short: "Print the balance of the account holding a token for an owner",
	Args:  cobra.ExactArgs(2),
	RunE:  showAccountFn,
}

func showAccountFn(cmd *cobra.Command, args []string) error {
	owner, err := loom.ParseAddress(args[1])
	if err != nil {
		return errors.Wrap(err, "owner")
	}
	s, err := openSession(cmd, false)
	if err != nil {
		return err
	}
	defer s.Close()

	mint, m, err := s.mint(args[0])
	if err != nil {
		return err
	}
	addr := token.AccountAddress(mint, owner)
	var acc token.Account
	if err := s.node.Get("/tokens/accounts", addr, &acc); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s in account %s\n", token.FormatAmount(acc.Amount, m.Decimals), m.Ticker, addr)
	return nil
}

var showWalletCmd = &cobra.Command{
	Use:   "wallet <address>",
	Short: "Print the native balance of an address",
	Args:  cobra.ExactArgs(1),
	RunE:  showWalletFn,
}

func showWalletFn(cmd *cobra.Command, args []string) error {
	addr, err := loom.ParseAddress(args[0])
	if err != nil {
		return errors.Wrap(err, "address")
	}
	s, err := openSession(cmd, false)
	if err != nil {
		return err
	}
	defer s.Close()

	var wallet rent.Wallet
	switch err := s.node.Get("/wallets", addr, &wallet); {
	case err == nil, errors.ErrNotFound.Is(err):
	default:
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d native in wallet %s\n", wallet.Amount, addr)
	return nil
}
