package main

import (
	"os"
)

// main hands off to the cobra root command; the subcommands own wiring.
func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
