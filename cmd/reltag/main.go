package main

import (
	"os"

	"github.com/ariel-frischer/reltag/internal/cli"
)

func main() {
	os.Exit(cli.ExitCode(cli.Execute()))
}
