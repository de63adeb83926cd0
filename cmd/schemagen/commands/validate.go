package commands

import (
	"io"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/schemagen/errors"
	"github.com/teranos/schemagen/ir"
	"github.com/teranos/schemagen/validate"
)

// ValidateCmd checks an instance document against a node
var ValidateCmd = &cobra.Command{
	Use:   "validate <node> <file.json>",
	Short: "Check a JSON document against a schema node",
	Long: `Validate a JSON document against one node of the loaded schemas: required
properties, primitive kinds, enum values, discriminator tags, maps, arrays and
nested nodes. Unknown properties are allowed. Use "-" to read from stdin.

This is a development aid; generated code does not validate at runtime.

Examples:
  schemagen validate Fill samples/fill.json
  node dump.js | schemagen validate Shape -`,
	Args: cobra.ExactArgs(2),
	RunE: runValidate,
}

func init() {
	addGenerateFlags(ValidateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	tg := cfg.Typegen().WithDefaults()

	g, err := ir.LoadDir(tg.SchemaDir, tg.Extension)
	if err != nil {
		return err
	}

	data, err := readDocument(cmd, args[1])
	if err != nil {
		return err
	}

	res, err := validate.New(g, tg.Options.Discriminator).ValidateBytes(args[0], data)
	if err != nil {
		return errors.Wrapf(err, "%s", args[1])
	}

	if res.Valid() {
		pterm.Success.Printfln("%s is a valid %s", args[1], args[0])
		return nil
	}

	pterm.Error.Printfln("%s is not a valid %s:", args[1], args[0])
	for _, v := range res.Violations {
		pterm.Printfln("  %s", v)
	}
	return ErrReported
}

func readDocument(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		return data, errors.Wrap(err, "failed to read stdin")
	}
	data, err := os.ReadFile(path)
	return data, errors.Wrapf(err, "failed to read %s", path)
}
