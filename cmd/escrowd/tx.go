package main

import (
	"fmt"

	"github.com/iov-one/loom"
	"github.com/iov-one/loom/errors"
	"github.com/iov-one/loom/x/escrow"
	"github.com/iov-one/loom/x/token"
	"github.com/spf13/cobra"
)

const seedF = "seed"

func init() {
	openCmd.Flags().Uint64(seedF, 0, "seed distinguishing the escrows of the maker")
	rootCmd.AddCommand(openCmd, fulfillCmd, cancelCmd, transferCmd, mintCmd, accountCmd)
}

var openCmd = &cobra.Command{
	Use:   "open <deposit> <token a> <receive> <token b>",
	Short: "Lock tokens in a new escrow asking for other tokens in exchange",
	Long: `Lock deposit of token a in a new escrow, asking for receive of token b in
exchange. Amounts are decimal numbers, tokens are tickers or mint addresses.
The signer of --key is the maker. The address of the escrow is printed.`,
	Args: cobra.ExactArgs(4),
	RunE: openFn,
}

func openFn(cmd *cobra.Command, args []string) error {
	seed, err := cmd.Flags().GetUint64(seedF)
	if err != nil {
		return err
	}
	s, err := openSession(cmd, false)
	if err != nil {
		return err
	}
	defer s.Close()

	mintA, _, deposit, err := s.amount(args[1], args[0])
	if err != nil {
		return err
	}
	mintB, _, receive, err := s.amount(args[3], args[2])
	if err != nil {
		return err
	}
	res, err := s.submit(&escrow.OpenMsg{
		Seed:    seed,
		Deposit: deposit,
		Receive: receive,
		MintA:   mintA,
		MintB:   mintB,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "escrow %s opened\n", loom.Address(res.Data))
	return nil
}

var fulfillCmd = &cobra.Command{
	Use:   "fulfill <escrow>",
	Short: "Pay the asked tokens to the maker and receive the locked ones",
	Args:  cobra.ExactArgs(1),
	RunE:  closeFn("fulfilled", func(addr loom.Address) loom.Msg { return &escrow.FulfillMsg{Escrow: addr} }),
}

var cancelCmd = &cobra.Command{
	Use:   "cancel <escrow>",
	Short: "Return the locked tokens to the maker",
	Args:  cobra.ExactArgs(1),
	RunE:  closeFn("cancelled", func(addr loom.Address) loom.Msg { return &escrow.CancelMsg{Escrow: addr} }),
}

// closeFn returns the command submitting the message closing the escrow
// given as the only argument.
func closeFn(done string, msg func(loom.Address) loom.Msg) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		addr, err := loom.ParseAddress(args[0])
		if err != nil {
			return errors.Wrap(err, "escrow")
		}
		s, err := openSession(cmd, false)
		if err != nil {
			return err
		}
		defer s.Close()

		if _, err := s.submit(msg(addr)); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "escrow %s %s\n", addr, done)
		return nil
	}
}

var transferCmd = &cobra.Command{
	Use:   "transfer <amount> <token> <owner>",
	Short: "Move tokens to the account of another owner",
	Args:  cobra.ExactArgs(3),
	RunE:  transferFn,
}

func transferFn(cmd *cobra.Command, args []string) error {
	owner, err := loom.ParseAddress(args[2])
	if err != nil {
		return errors.Wrap(err, "owner")
	}
	key, err := signerKey()
	if err != nil {
		return err
	}
	s, err := openSession(cmd, false)
	if err != nil {
		return err
	}
	defer s.Close()

	mint, m, amount, err := s.amount(args[1], args[0])
	if err != nil {
		return err
	}
	_, err = s.submit(&token.TransferMsg{
		Mint:        mint,
		Source:      token.AccountAddress(mint, key.PublicKey().Address()),
		Destination: token.AccountAddress(mint, owner),
		Amount:      amount,
		Decimals:    m.Decimals,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s sent to %s\n", args[0], m.Ticker, owner)
	return nil
}

var mintCmd = &cobra.Command{
	Use:   "mint <amount> <token> <owner>",
	Short: "Issue new tokens to an owner, signed by the mint authority",
	Args:  cobra.ExactArgs(3),
	RunE:  mintFn,
}

func mintFn(cmd *cobra.Command, args []string) error {
	owner, err := loom.ParseAddress(args[2])
	if err != nil {
		return errors.Wrap(err, "owner")
	}
	s, err := openSession(cmd, false)
	if err != nil {
		return err
	}
	defer s.Close()

	mint, m, amount, err := s.amount(args[1], args[0])
	if err != nil {
		return err
	}
	if _, err := s.submit(&token.MintToMsg{Mint: mint, Owner: owner, Amount: amount}); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s minted to %s\n", args[0], m.Ticker, owner)
	return nil
}

var accountCmd = &cobra.Command{
	Use:   "account <token> [owner]",
	Short: "Create the account holding a token for an owner",
	Long: `Create the account holding a token for an owner, the signer of --key by
default. The signer pays the storage deposit.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: accountFn,
}

func accountFn(cmd *cobra.Command, args []string) error {
	key, err := signerKey()
	if err != nil {
		return err
	}
	owner := key.PublicKey().Address()
	if len(args) == 2 {
		if owner, err = loom.ParseAddress(args[1]); err != nil {
			return errors.Wrap(err, "owner")
		}
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
	if _, err := s.submit(&token.CreateAccountMsg{Mint: mint, Owner: owner}); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s account %s created\n", m.Ticker, token.AccountAddress(mint, owner))
	return nil
}
