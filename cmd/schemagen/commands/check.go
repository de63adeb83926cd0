package commands

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/schemagen/typegen"
)

// CheckCmd checks if generated files are up to date
var CheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Check if generated files are up to date",
	Long: `Check if the generated files match the current schemas.

This command generates into a temporary directory and compares the result
with the output directory, ignoring the "// Source version:" header line.

Exit codes:
  0 - Files are up to date
  1 - Files are out of date, or the check failed

Examples:
  schemagen check
  schemagen check --output src/generated`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

func init() {
	addGenerateFlags(CheckCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	res, err := typegen.Check(cmd.Context(), cfg.Typegen())
	if err != nil {
		return err
	}

	if res.UpToDate {
		pterm.Success.Println("Generated files are up to date")
		return nil
	}

	pterm.Error.Println("Generated files are out of date:")
	for _, f := range res.Differences {
		pterm.Printfln("  - %s", f)
	}
	pterm.Info.Println("Run `schemagen generate` to update them")
	return ErrReported
}
