// Command halocctl inspects FileFeatureStore scratch directories and
// manages named haloc.Config profiles.
package main

import (
	"os"

	"github.com/vislam/haloc/cmd/halocctl/commands"
	"github.com/vislam/haloc/pkg/cli"
)

func main() {
	if err := commands.Execute(); err != nil {
		cli.PrintError("%v", err)
		os.Exit(1)
	}
}
