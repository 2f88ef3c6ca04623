package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"strings"

	"timeflow/crypto"
	"timeflow/native/bank"
)

func runAddress(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("address", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var label, hexAddr, decode string
	var vault bool
	fs.StringVar(&label, "label", "", "scenario label to derive an account from")
	fs.StringVar(&hexAddr, "hex", "", "20-byte hex account to encode")
	fs.StringVar(&decode, "decode", "", "bech32 address to decode")
	fs.BoolVar(&vault, "vault", false, "print the vault module account")
	if err := fs.Parse(args); err != nil {
		return 1
	}
	if fs.NArg() > 0 {
		fmt.Fprintln(stderr, "Error: unexpected positional arguments")
		return 1
	}
	switch {
	case vault:
		fmt.Fprintln(stdout, crypto.AccountString(bank.VaultAccount()))
	case strings.TrimSpace(label) != "":
		account, err := resolveAccount(label)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		fmt.Fprintln(stdout, crypto.AccountString(account))
	case strings.TrimSpace(hexAddr) != "":
		trimmed := strings.TrimPrefix(strings.TrimPrefix(strings.TrimSpace(hexAddr), "0x"), "0X")
		raw, err := hex.DecodeString(trimmed)
		if err != nil {
			fmt.Fprintf(stderr, "Error: invalid hex: %v\n", err)
			return 1
		}
		addr, err := crypto.NewAddress(crypto.AccountPrefix, raw)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		fmt.Fprintln(stdout, addr.String())
	case strings.TrimSpace(decode) != "":
		addr, err := crypto.DecodeAddress(strings.TrimSpace(decode))
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		account := addr.Account()
		fmt.Fprintln(stdout, "0x"+hex.EncodeToString(account[:]))
	default:
		fmt.Fprintln(stderr, "Error: one of --label, --hex, --decode or --vault is required")
		return 1
	}
	return 0
}
