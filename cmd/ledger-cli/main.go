package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "ledger-cli",
	Short: "Total-currency ledger command line tool",
	Long: `Total-currency ledger command line tool for generating owner keys,
signing update messages and executing them against a configured ledger.
Complete documentation is available at https://github.com/govm-net/precompile`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(keygenCmd)
	rootCmd.AddCommand(addressCmd)
	rootCmd.AddCommand(signCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(queryCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
