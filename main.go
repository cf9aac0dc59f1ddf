package main

import (
	"os"

	"daylist/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
