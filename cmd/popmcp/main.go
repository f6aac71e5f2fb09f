// popmcp supervises Pop CLI launches and exposes them to agents over MCP:
// serve, check, up, clean, status.
//
// Usage:
//
//	popmcp serve [--config <path>] [--db <path>]
//	popmcp check
//	popmcp up node [--rpc-port <n>] [--eth-rpc-port <n>]
//	popmcp up network <config-file> [--verbose]
//	popmcp clean [--all | --pid <n> ... | <path>] [--keep-state]
//	popmcp status
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
