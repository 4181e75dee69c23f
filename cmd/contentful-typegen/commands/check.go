package commands

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/contentful-typegen/errors"
	"github.com/teranos/contentful-typegen/generate"
	"github.com/teranos/contentful-typegen/typegen/check"
)

func (a *app) checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check that the generated file is up to date",
		Long: `Render the declarations from the current content model and compare them with
the file at --out, without writing anything.

Use the same formatting settings as the run that produced the file, otherwise
formatting differences are reported as changes.

Exit codes:
  0 - File is up to date
  1 - File is out of date or missing (unified diff shown)
  2 - Error during check

Examples:
  contentful-typegen check
  contentful-typegen check --from contentful-export.json --out types/contentful.d.ts`,
		Args: cobra.NoArgs,
		RunE: a.runCheck,
	}
}

func (a *app) runCheck(cmd *cobra.Command, _ []string) error {
	if a.cfg.Output.File == generate.Stdout {
		return withExitCode(2, errors.NewInvalidRequestError("check needs a file path for --out"))
	}
	if err := a.requireInputs(); err != nil {
		return withExitCode(2, err)
	}

	ctx := cmd.Context()
	params, cleanup, err := a.params(ctx, a.cfg)
	if err != nil {
		return withExitCode(2, err)
	}
	defer cleanup()
	// check never records snapshots
	params.Snapshots = nil

	out, err := generate.Render(ctx, params)
	if err != nil {
		return withExitCode(2, err)
	}

	result, err := check.CompareFile(a.cfg.Output.File, out.Text)
	if err != nil {
		return withExitCode(2, err)
	}
	if result.UpToDate {
		fmt.Fprintf(a.stdout, "%s %s is up to date (%d types)\n", pterm.LightGreen("✓"), result.Path, out.Count)
		return nil
	}

	fmt.Fprint(a.stdout, result.Diff)
	return withExitCode(1, result.Err())
}
