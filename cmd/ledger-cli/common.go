package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"math/big"
	"os"
	"strings"

	"github.com/govm-net/precompile/codec"
	"github.com/govm-net/precompile/config"
	"github.com/govm-net/precompile/signature"
	"github.com/govm-net/precompile/types"
	"github.com/govm-net/precompile/vm"
)

// loadKey reads a hex encoded seed written by keygen
func loadKey(path string) (*signature.Key, error) {
	if path == "" {
		return nil, fmt.Errorf("key file is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read key file: %w", err)
	}
	return signature.KeyFromHex(strings.TrimSpace(string(data)))
}

// buildUpdate encodes and signs an update input
func buildUpdate(key *signature.Key, selector uint8, amount string, decrease bool) ([]byte, error) {
	a, ok := new(big.Int).SetString(amount, 10)
	if !ok {
		return nil, fmt.Errorf("invalid amount %q", amount)
	}
	sign := codec.Increase
	if decrease {
		sign = codec.Decrease
	}
	msg, err := codec.EncodeMessage(selector, sign, a)
	if err != nil {
		return nil, err
	}
	return codec.EncodeUpdate(msg, key.Sign(msg).Bytes())
}

func openEngine(path string) (*vm.Engine, error) {
	if path == "" {
		return nil, fmt.Errorf("config file is required")
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	engine, err := vm.NewEngine(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}
	return engine, nil
}

func printResult(w io.Writer, res types.ExecutionResult) {
	fmt.Fprintf(w, "code: %s\n", res.Code)
	fmt.Fprintf(w, "energy left: %d\n", res.EnergyLeft)
	if len(res.Output) > 0 {
		fmt.Fprintf(w, "output: 0x%s\n", hex.EncodeToString(res.Output))
	}
}
