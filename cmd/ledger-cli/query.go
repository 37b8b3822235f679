package main

import (
	"fmt"
	"math/big"

	"github.com/govm-net/precompile/codec"
	"github.com/govm-net/precompile/types"
	"github.com/spf13/cobra"
)

var (
	queryConfigFile string
	querySelector   uint8
	queryEnergy     uint64
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Query a balance",
	Long: `Query the balance stored under a selector.
Example: ledger-cli query -c ledger.yaml -s 0`,
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := openEngine(queryConfigFile)
		if err != nil {
			return err
		}
		defer engine.Close()

		res, err := engine.Execute(engine.Config().ContractAddress(), codec.EncodeQuery(querySelector), queryEnergy)
		if err != nil {
			return fmt.Errorf("failed to execute query: %w", err)
		}
		w := cmd.OutOrStdout()
		printResult(w, res)
		if res.Code == types.Success {
			fmt.Fprintf(w, "balance: %s\n", new(big.Int).SetBytes(res.Output))
		}
		return nil
	},
}

func init() {
	queryCmd.Flags().StringVarP(&queryConfigFile, "config", "c", "", "config file")
	queryCmd.Flags().Uint8VarP(&querySelector, "selector", "s", 0, "balance selector")
	queryCmd.Flags().Uint64VarP(&queryEnergy, "energy", "e", 1000, "energy limit")
	queryCmd.MarkFlagRequired("config")
}
