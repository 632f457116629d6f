package main

import (
	"os"

	"github.com/borsuksoftware/awsdevicefarm-runwaiter/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
