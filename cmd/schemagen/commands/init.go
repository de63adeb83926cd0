package commands

import (
	"path/filepath"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/schemagen/config"
)

// InitCmd writes a default schemagen.toml
var InitCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Write a default schemagen.toml",
	Long: `Write schemagen.toml with every option set to its default into dir (default:
the working directory). An existing file is kept unless --force is given, in
which case the old content is saved as schemagen.toml.back1.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

var initForce bool

func init() {
	InitCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Replace an existing schemagen.toml")
}

func runInit(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}
	path := filepath.Join(dir, config.FileName)

	if err := config.Save(path, config.Default(), initForce); err != nil {
		return err
	}
	pterm.Success.Printfln("Wrote %s", path)
	return nil
}
