package main

import (
	"os"

	"github.com/codelens-ai/codelens/internal/cli"
)

func main() {
	os.Exit(cli.Run())
}
