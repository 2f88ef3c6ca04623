package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"timeflow/crypto"
	"timeflow/observability/logging"
)

func runKeygen(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("keygen", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var out, passphraseEnv string
	fs.StringVar(&out, "out", "", "keystore file to write")
	fs.StringVar(&passphraseEnv, "passphrase-env", "", "environment variable holding the keystore passphrase")
	if err := fs.Parse(args); err != nil {
		return 1
	}
	if strings.TrimSpace(out) == "" {
		fmt.Fprintln(stderr, "Error: --out is required")
		return 1
	}
	var passphrase string
	if passphraseEnv != "" {
		value, ok := os.LookupEnv(passphraseEnv)
		if !ok {
			fmt.Fprintf(stderr, "Error: %s is not set\n", passphraseEnv)
			return 1
		}
		passphrase = value
	}
	key, err := crypto.GeneratePrivateKey()
	if err != nil {
		fmt.Fprintf(stderr, "Error: generate key: %v\n", err)
		return 1
	}
	if err := crypto.SaveToKeystore(out, key, passphrase); err != nil {
		fmt.Fprintf(stderr, "Error: write keystore: %v\n", err)
		return 1
	}
	logger := logging.New(stderr, "timeflow", "")
	logger.Info("generated key",
		slog.String("address", key.Address().String()),
		slog.String("keystore", out))
	fmt.Fprintln(stdout, key.Address().String())
	return 0
}
