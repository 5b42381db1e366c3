package main

import (
	"os"

	"github.com/felixgeelhaar/loadline/internal/infrastructure/cli"
)

func main() {
	os.Exit(cli.Execute())
}
