package main

import (
	"os"

	"github.com/hashicorp-forge/staffdir/internal/cmd"
)

func main() {
	os.Exit(cmd.Main(os.Args))
}
