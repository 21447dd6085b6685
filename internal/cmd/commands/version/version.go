package version

import (
	"github.com/hashicorp-forge/staffdir/internal/cmd/base"
	"github.com/hashicorp-forge/staffdir/internal/version"
)

type Command struct {
	*base.Command
}

func (c *Command) Synopsis() string {
	return "Print the version of staffdir"
}

func (c *Command) Help() string {
	return `Usage: staffdir version

  Print the version of staffdir.`
}

func (c *Command) Run(args []string) int {
	c.UI.Output("staffdir " + version.Version)
	return 0
}
