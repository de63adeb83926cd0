package main

import (
	"fmt"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/schemagen/cmd/schemagen/commands"
	"github.com/teranos/schemagen/errors"
	"github.com/teranos/schemagen/logger"
)

var rootCmd = &cobra.Command{
	Use:   "schemagen",
	Short: "schemagen - TypeScript from JSON Schema",
	Long: `schemagen - generate TypeScript types, classes and export functions
from a directory of JSON (or YAML) schemas.

Available commands:
  generate - Write types.ts, classes.ts and export.ts
  check    - Verify the generated files are up to date
  watch    - Regenerate whenever a schema changes
  graph    - Show the schema dependency graph
  validate - Check a JSON document against a schema node
  init     - Write a default schemagen.toml

Examples:
  schemagen init                 # Start a project
  schemagen generate             # Generate using ./schemagen.toml
  schemagen check                # Fail CI when output is stale
  schemagen graph --format dot   # Graphviz view of the schemas`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbosity, _ := cmd.Flags().GetCount("verbose")
		jsonLogs, _ := cmd.Flags().GetBool("log-json")
		if err := logger.Initialize(verbosity, jsonLogs); err != nil {
			return errors.Wrap(err, "failed to initialize logger")
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Cleanup()
	},
}

func init() {
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv, -vvv)")
	rootCmd.PersistentFlags().Bool("log-json", false, "Write logs as JSON")
	rootCmd.PersistentFlags().StringP("config", "c", "", "Config file (default: schemagen.toml, searched upwards)")

	rootCmd.AddCommand(commands.GenerateCmd)
	rootCmd.AddCommand(commands.CheckCmd)
	rootCmd.AddCommand(commands.WatchCmd)
	rootCmd.AddCommand(commands.GraphCmd)
	rootCmd.AddCommand(commands.ValidateCmd)
	rootCmd.AddCommand(commands.InitCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		// Stale output and invalid documents were already reported
		if !errors.Is(err, commands.ErrReported) {
			pterm.Error.Println(err.Error())
			if hint := errors.FlattenHints(err); hint != "" {
				pterm.Info.Println(hint)
			}
			if logger.ShouldLogTrace(logger.Verbosity) {
				fmt.Fprintf(os.Stderr, "%+v\n", err)
			}
		}
		os.Exit(1)
	}
}
