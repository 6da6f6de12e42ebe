package main

import (
	"os"

	"github.com/arthur-debert/sharedpkg/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
