package operator

import (
	"errors"
	"flag"
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/afero"

	"github.com/hashicorp-forge/staffdir/internal/cmd/base"
	"github.com/hashicorp-forge/staffdir/pkg/fallback"
)

type CheckSeedCommand struct {
	*base.Command

	// Fs is the filesystem seed files are read from. Defaults to the OS
	// filesystem.
	Fs afero.Fs

	flagEmbedded bool
}

func (c *CheckSeedCommand) Synopsis() string {
	return "Validate a fallback seed snapshot"
}

func (c *CheckSeedCommand) Help() string {
	return `Usage: staffdir operator check-seed [options] <file>

  This command decodes a fallback seed snapshot (JSON or YAML) and checks
  every employee against the field rules, reporting each invalid record and
  duplicate ID.` + c.Flags().Help()
}

func (c *CheckSeedCommand) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("check-seed", flag.ContinueOnError))

	f.BoolVar(
		&c.flagEmbedded, "embedded", false,
		"Check the snapshot built into the binary instead of a file.",
	)

	return f
}

func (c *CheckSeedCommand) Run(args []string) int {
	ui := c.UI

	flags := c.Flags()
	if err := flags.Parse(args); err != nil {
		ui.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}

	fs, path := c.Fs, ""
	switch {
	case c.flagEmbedded:
		if flags.NArg() != 0 {
			ui.Error("no file argument is allowed with -embedded")
			return 1
		}
		fs, path = fallback.EmbeddedFs(), fallback.DefaultSnapshotPath
	case flags.NArg() == 1:
		path = flags.Arg(0)
		if fs == nil {
			fs = afero.NewOsFs()
		}
	default:
		ui.Error("exactly one seed file argument is required")
		return 1
	}

	employees, err := fallback.LoadSnapshot(fs, path)
	if err != nil {
		ui.Error(fmt.Sprintf("error loading seed snapshot: %v", err))
		return 1
	}

	if err := fallback.ValidateSnapshot(employees); err != nil {
		var merr *multierror.Error
		if errors.As(err, &merr) {
			for _, e := range merr.Errors {
				ui.Error(e.Error())
			}
		} else {
			ui.Error(err.Error())
		}
		ui.Error(fmt.Sprintf("%s: %d problems found in %d employees",
			path, countProblems(err), len(employees)))
		return 1
	}

	ui.Output(fmt.Sprintf("%s: %d employees, all valid", path, len(employees)))
	return 0
}

// countProblems returns the number of errors aggregated in err.
func countProblems(err error) int {
	var merr *multierror.Error
	if errors.As(err, &merr) {
		return merr.Len()
	}
	return 1
}
