package main

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/govm-net/precompile/signature"
	"github.com/spf13/cobra"
)

var keyOut string

var keygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Generate an owner key",
	Long: `Generate an ed25519 key and print the address derived from it.
The hex encoded seed is written to --out, or printed when --out is empty.
Example: ledger-cli keygen --out owner.key`,
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := signature.GenerateKey()
		if err != nil {
			return err
		}
		seed := hex.EncodeToString(key.Seed())

		w := cmd.OutOrStdout()
		if keyOut == "" {
			fmt.Fprintf(w, "seed: %s\n", seed)
		} else {
			if err := os.WriteFile(keyOut, []byte(seed+"\n"), 0600); err != nil {
				return fmt.Errorf("failed to write key file: %w", err)
			}
			fmt.Fprintf(w, "key written to %s\n", keyOut)
		}
		fmt.Fprintf(w, "address: %s\n", key.Address())
		return nil
	},
}

func init() {
	keygenCmd.Flags().StringVarP(&keyOut, "out", "o", "", "file to write the hex seed to")
}
