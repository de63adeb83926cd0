package commands

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/schemagen/errors"
	"github.com/teranos/schemagen/logger"
	"github.com/teranos/schemagen/typegen"
	"github.com/teranos/schemagen/watch"
)

// WatchCmd regenerates on schema changes
var WatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Regenerate whenever a schema changes",
	Long: `Generate once, then regenerate whenever a schema file, the injection file
or schemagen.toml changes. Bursts of changes are debounced (watch.debounce_ms)
and runs never overlap. A failing run is reported and watching continues.

Press Ctrl+C to stop.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	addGenerateFlags(WatchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	tg := cfg.Typegen()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	w, err := watch.New(time.Duration(cfg.Watch.DebounceMS) * time.Millisecond)
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.AddDir(tg.SchemaDir, tg.WithDefaults().Extension); err != nil {
		return err
	}
	if tg.InjectionsFile != "" {
		if err := w.AddFile(tg.InjectionsFile); err != nil {
			return err
		}
	}
	if cfg.Path != "" {
		if err := w.AddFile(cfg.Path); err != nil {
			return err
		}
	}

	regenerate(ctx, tg)
	pterm.Info.Printfln("Watching %s (Ctrl+C to stop)", relPath(tg.SchemaDir))

	err = w.Run(ctx, func(changed []string) {
		for _, f := range changed {
			logger.Infow("changed", logger.FieldFile, f)
		}
		if cfg.Path != "" && contains(changed, cfg.Path) {
			reloaded, err := loadConfig(cmd)
			if err != nil {
				reportError(err)
				return
			}
			cfg, tg = reloaded, reloaded.Typegen()
		}
		regenerate(ctx, tg)
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// regenerate runs the pipeline and reports the outcome without stopping
func regenerate(ctx context.Context, tg typegen.Config) {
	out, err := typegen.Run(ctx, tg)
	if err != nil {
		reportError(err)
		return
	}
	printOutput(out)
}

func reportError(err error) {
	if !logger.ShouldOutput(logger.Verbosity, logger.OutputErrors) {
		return
	}
	pterm.Error.Println(err.Error())
	if hint := errors.FlattenHints(err); hint != "" {
		pterm.Info.Println(hint)
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
