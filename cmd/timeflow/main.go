package main

import (
	"fmt"
	"io"
	"os"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		fmt.Fprintln(stderr, usage())
		return 1
	}
	switch args[0] {
	case "replay":
		return runReplay(args[1:], stdout, stderr)
	case "address":
		return runAddress(args[1:], stdout, stderr)
	case "keygen":
		return runKeygen(args[1:], stdout, stderr)
	case "help", "-h", "--help":
		fmt.Fprintln(stdout, usage())
		return 0
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", args[0])
		fmt.Fprintln(stderr, usage())
		return 1
	}
}

func usage() string {
	return `Usage: timeflow <command> [flags]

Commands:
  replay   --scenario <file.yaml> [--config <file.toml>] [--ephemeral] [--metrics-addr <addr>] [--hold]
  address  (--label <name> | --hex <0x..> | --decode <tflow1..> | --vault)
  keygen   --out <keystore> [--passphrase-env <VAR>]`
}
