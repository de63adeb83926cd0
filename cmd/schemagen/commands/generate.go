package commands

import (
	"sort"
	"strings"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/schemagen/logger"
	"github.com/teranos/schemagen/typegen"
)

// GenerateCmd writes the TypeScript artifacts
var GenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate types.ts, classes.ts and export.ts",
	Long: `Load every schema in the schema directory and write the three TypeScript
artifacts to the output directory.

The files are replaced only when all three were generated successfully.

Examples:
  schemagen generate
  schemagen generate --schema-dir model --output src/generated
  schemagen generate --extra-order GroupShape --format-command "npx prettier --write"`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

func init() {
	addGenerateFlags(GenerateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	out, err := typegen.Run(cmd.Context(), cfg.Typegen())
	if err != nil {
		return err
	}
	printOutput(out)
	return nil
}

// printOutput reports a finished run at the current verbosity
func printOutput(out *typegen.Output) {
	if logger.ShouldOutput(logger.Verbosity, logger.OutputResults) {
		for _, f := range out.Files {
			pterm.Success.Printfln("Wrote %s", relPath(f))
		}
	}

	if logger.ShouldOutput(logger.Verbosity, logger.OutputOrdering) {
		artifacts := make([]string, 0, len(out.Fallbacks))
		for a := range out.Fallbacks {
			artifacts = append(artifacts, a)
		}
		sort.Strings(artifacts)
		for _, a := range artifacts {
			pterm.Info.Printfln("%s: cycle fallback for %s", a, strings.Join(out.Fallbacks[a], ", "))
		}
	}

	if logger.ShouldOutput(logger.Verbosity, logger.OutputTiming) {
		pterm.Info.Printfln("%d nodes in %s", out.Nodes, out.Duration.Round(time.Millisecond))
	}
}
