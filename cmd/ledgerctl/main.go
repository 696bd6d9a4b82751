package main

import (
	"context"
	"fmt"
	"os"

	"gigledger/internal/cli"
)

func main() {
	cli.LoadEnvFile()
	if err := cli.NewRootCommand().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
