package main

import (
	"fmt"

	"github.com/iov-one/loom"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version information for escrowd",
	Args:  cobra.NoArgs,
	Run:   versionFn,
}

func versionFn(cmd *cobra.Command, _ []string) {
	fmt.Fprintln(cmd.OutOrStdout(), loom.Version())
}
