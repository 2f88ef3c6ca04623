package main

import (
	"fmt"
	"math/big"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"timeflow/crypto"
)

// scenarioAccountPrefix namespaces label-derived accounts.
const scenarioAccountPrefix = "timeflow/account/"

type scenario struct {
	Start    int64             `yaml:"start"`
	Owner    string            `yaml:"owner"`
	Accounts map[string]string `yaml:"accounts"`
	Steps    []step            `yaml:"steps"`
}

type step struct {
	Op        string `yaml:"op"`
	Caller    string `yaml:"caller"`
	Recipient string `yaml:"recipient"`
	Duration  int64  `yaml:"duration"`
	Amount    string `yaml:"amount"`
	Stream    uint64 `yaml:"stream"`
	Rate      uint64 `yaml:"rate"`
	Paused    bool   `yaml:"paused"`
	Advance   int64  `yaml:"advance"`
	Expect    string `yaml:"expect"`
}

func loadScenario(path string) (*scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	var sc scenario
	dec := yaml.NewDecoder(strings.NewReader(string(data)))
	dec.KnownFields(true)
	if err := dec.Decode(&sc); err != nil {
		return nil, fmt.Errorf("decode scenario %s: %w", path, err)
	}
	for i, st := range sc.Steps {
		if st.Op == "" && st.Advance == 0 {
			return nil, fmt.Errorf("step %d: op or advance required", i)
		}
		if st.Advance < 0 {
			return nil, fmt.Errorf("step %d: advance must not be negative", i)
		}
	}
	return &sc, nil
}

// accountNames returns the funded account names in a stable order.
func (sc *scenario) accountNames() []string {
	names := make([]string, 0, len(sc.Accounts))
	for name := range sc.Accounts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// resolveAccount accepts a bech32 address or a label. Labels map to a
// keccak-derived account so scenarios stay readable.
func resolveAccount(ref string) ([20]byte, error) {
	trimmed := strings.TrimSpace(ref)
	if trimmed == "" {
		return [20]byte{}, fmt.Errorf("account required")
	}
	if trimmed == "zero" {
		return [20]byte{}, nil
	}
	if strings.HasPrefix(trimmed, string(crypto.AccountPrefix)+"1") {
		addr, err := crypto.DecodeAddress(trimmed)
		if err != nil {
			return [20]byte{}, err
		}
		return addr.Account(), nil
	}
	return crypto.DeriveAccount(scenarioAccountPrefix + trimmed), nil
}

func parseAmount(raw string) (*big.Int, error) {
	trimmed := strings.ReplaceAll(strings.TrimSpace(raw), "_", "")
	if trimmed == "" {
		return nil, fmt.Errorf("amount required")
	}
	amount, ok := new(big.Int).SetString(trimmed, 10)
	if !ok {
		return nil, fmt.Errorf("invalid amount %q", raw)
	}
	return amount, nil
}
