package main

import (
	"fmt"
	"os"

	"github.com/reconscan/recon/internal/cli"
)

func main() {
	code, err := cli.Run(os.Args[1:], os.Stdout, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	os.Exit(code)
}
