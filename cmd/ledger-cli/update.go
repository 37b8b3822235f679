package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	updateConfigFile string
	updateKeyFile    string
	updateSelector   uint8
	updateAmount     string
	updateDecrease   bool
	updateEnergy     uint64
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Sign and execute an update",
	Long: `Sign an update with the owner key and execute it against the ledger
described by the config file.
Example: ledger-cli update -c ledger.yaml -k owner.key -s 0 -a 100`,
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := loadKey(updateKeyFile)
		if err != nil {
			return err
		}
		input, err := buildUpdate(key, updateSelector, updateAmount, updateDecrease)
		if err != nil {
			return err
		}

		engine, err := openEngine(updateConfigFile)
		if err != nil {
			return err
		}
		defer engine.Close()

		res, err := engine.Execute(engine.Config().ContractAddress(), input, updateEnergy)
		if err != nil {
			return fmt.Errorf("failed to execute update: %w", err)
		}
		printResult(cmd.OutOrStdout(), res)
		return nil
	},
}

func init() {
	updateCmd.Flags().StringVarP(&updateConfigFile, "config", "c", "", "config file")
	updateCmd.Flags().StringVarP(&updateKeyFile, "key", "k", "", "key file")
	updateCmd.Flags().Uint8VarP(&updateSelector, "selector", "s", 0, "balance selector")
	updateCmd.Flags().StringVarP(&updateAmount, "amount", "a", "", "amount in base units")
	updateCmd.Flags().BoolVarP(&updateDecrease, "decrease", "d", false, "decrease instead of increase")
	updateCmd.Flags().Uint64VarP(&updateEnergy, "energy", "e", 21000, "energy limit")
	updateCmd.MarkFlagRequired("config")
	updateCmd.MarkFlagRequired("key")
	updateCmd.MarkFlagRequired("amount")
}
