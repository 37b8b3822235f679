package main

import (
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	signKeyFile  string
	signSelector uint8
	signAmount   string
	signDecrease bool
)

var signCmd = &cobra.Command{
	Use:   "sign",
	Short: "Sign an update without executing it",
	Long: `Encode and sign an update and print the input in hex.
Example: ledger-cli sign -k owner.key -s 0 -a 100`,
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := loadKey(signKeyFile)
		if err != nil {
			return err
		}
		input, err := buildUpdate(key, signSelector, signAmount, signDecrease)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "0x%s\n", hex.EncodeToString(input))
		return nil
	},
}

func init() {
	signCmd.Flags().StringVarP(&signKeyFile, "key", "k", "", "key file")
	signCmd.Flags().Uint8VarP(&signSelector, "selector", "s", 0, "balance selector")
	signCmd.Flags().StringVarP(&signAmount, "amount", "a", "", "amount in base units")
	signCmd.Flags().BoolVarP(&signDecrease, "decrease", "d", false, "decrease instead of increase")
	signCmd.MarkFlagRequired("key")
	signCmd.MarkFlagRequired("amount")
}
