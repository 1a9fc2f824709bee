package main

import (
	"fmt"
	"os"

	"github.com/quayside-labs/ragpipe/internal/adapters/driving/cli"
)

// version is stamped by the linker at build time.
var version = "dev"

func main() {
	if err := cli.Execute(version); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
