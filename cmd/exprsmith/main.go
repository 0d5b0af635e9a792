package main

import (
	"fmt"
	"os"

	"exprsmith/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "exprsmith:", err)
		os.Exit(1)
	}
}
