package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var addressKeyFile string

var addressCmd = &cobra.Command{
	Use:   "address",
	Short: "Print the address of a key",
	Long: `Print the owner address derived from a key file.
Example: ledger-cli address --key owner.key`,
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := loadKey(addressKeyFile)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), key.Address())
		return nil
	},
}

func init() {
	addressCmd.Flags().StringVarP(&addressKeyFile, "key", "k", "", "key file")
	addressCmd.MarkFlagRequired("key")
}
