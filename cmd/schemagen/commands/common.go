// Package commands implements the schemagen subcommands.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/teranos/schemagen/config"
	"github.com/teranos/schemagen/errors"
	"github.com/teranos/schemagen/logger"
)

// ErrReported marks failures whose details were already printed, such as a
// stale check or an invalid document. main exits non-zero without repeating
// them.
var ErrReported = errors.New("reported")

// addGenerateFlags registers the flags that override schemagen.toml
func addGenerateFlags(cmd *cobra.Command) {
	cmd.Flags().String("schema-dir", "", "Schema directory (overrides schema.dir)")
	cmd.Flags().String("ext", "", "Schema file extension: .json, .yaml or .yml (overrides schema.extension)")
	cmd.Flags().StringP("output", "o", "", "Output directory (overrides output.dir)")
	cmd.Flags().StringSlice("extra-order", nil, "Nodes to force out first when classes form a cycle (overrides generate.extra_order)")
	cmd.Flags().String("injections", "", "Injection file (overrides generate.injections)")
	cmd.Flags().String("format-command", "", "Command run on the generated files (overrides generate.format_command)")
}

// loadConfig reads schemagen.toml, applies flag overrides and validates the
// result. Flag paths are relative to the working directory, file paths to the
// config file.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	override := func(name string, target *string, abs bool) {
		if flags.Lookup(name) == nil || !flags.Changed(name) {
			return
		}
		v, _ := flags.GetString(name)
		if abs {
			v = absPath(v)
		}
		*target = v
	}
	override("schema-dir", &cfg.Schema.Dir, true)
	override("ext", &cfg.Schema.Extension, false)
	override("output", &cfg.Output.Dir, true)
	override("injections", &cfg.Generate.Injections, true)
	override("format-command", &cfg.Generate.FormatCommand, false)
	if flags.Lookup("extra-order") != nil && flags.Changed("extra-order") {
		cfg.Generate.ExtraOrder, _ = flags.GetStringSlice("extra-order")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.Path != "" && logger.ShouldOutput(logger.Verbosity, logger.OutputConfig) {
		logger.Infow("using config", logger.FieldFile, cfg.Path)
	}
	return cfg, nil
}
