package typegen

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/teranos/schemagen/errors"
	"github.com/teranos/schemagen/ir"
	"github.com/teranos/schemagen/logger"
	"github.com/teranos/schemagen/typegen/inject"
	"github.com/teranos/schemagen/typegen/tsutil"
	"github.com/teranos/schemagen/writer"
)

// Default output file names
const (
	DefaultTypesFile     = "types.ts"
	DefaultClassesFile   = "classes.ts"
	DefaultSerializeFile = "export.ts"
)

// stagingSuffix marks files written during a run and not yet renamed into place
const stagingSuffix = ".schemagen-tmp"

// backupSuffix marks previous output set aside while staged files are moved in
const backupSuffix = ".schemagen-old"

// Config is everything one generation run needs
type Config struct {
	SchemaDir string
	Extension string
	OutputDir string

	TypesFile     string
	ClassesFile   string
	SerializeFile string

	// BufferSize is the writer flush threshold in bytes (0 = writer default)
	BufferSize int

	// Options are passed to every generator. An empty TypesModule is derived
	// from TypesFile.
	Options tsutil.Options

	// ExtraOrder names the nodes the class generator forces out, in order,
	// when an inheritance cycle blocks progress
	ExtraOrder []string

	InjectionsFile string

	// FormatCommand runs after the files are written, with their paths
	// appended as arguments
	FormatCommand string
}

// WithDefaults fills unset fields
func (c Config) WithDefaults() Config {
	if c.Extension == "" {
		c.Extension = ir.DefaultExtension
	}
	if c.TypesFile == "" {
		c.TypesFile = DefaultTypesFile
	}
	if c.ClassesFile == "" {
		c.ClassesFile = DefaultClassesFile
	}
	if c.SerializeFile == "" {
		c.SerializeFile = DefaultSerializeFile
	}
	return c
}

func (c Config) options() tsutil.Options {
	opts := c.Options
	if opts.TypesModule == "" && c.TypesFile != "" {
		opts.TypesModule = "./" + strings.TrimSuffix(c.TypesFile, filepath.Ext(c.TypesFile))
	}
	return opts.WithDefaults()
}

// fileFor maps an artifact to its output file name
func (c Config) fileFor(artifact string) string {
	switch artifact {
	case tsutil.ArtifactTypes:
		return c.TypesFile
	case tsutil.ArtifactClasses:
		return c.ClassesFile
	case tsutil.ArtifactSerialize:
		return c.SerializeFile
	}
	return artifact + ".ts"
}

// Files returns the output paths in generation order
func (c Config) Files() []string {
	c = c.WithDefaults()
	return []string{
		filepath.Join(c.OutputDir, c.TypesFile),
		filepath.Join(c.OutputDir, c.ClassesFile),
		filepath.Join(c.OutputDir, c.SerializeFile),
	}
}

// Output describes a finished run
type Output struct {
	// Files are the paths written, in generation order
	Files []string

	// Nodes is the number of IR nodes loaded
	Nodes int

	// Fallbacks lists, per artifact, the nodes emitted by a cycle fallback
	Fallbacks map[string][]string

	Duration time.Duration
}

// Run loads the schemas, generates every artifact and runs the format command.
func Run(ctx context.Context, cfg Config) (*Output, error) {
	start := time.Now()
	cfg = cfg.WithDefaults()

	graph, err := ir.LoadDir(cfg.SchemaDir, cfg.Extension)
	if err != nil {
		return nil, err
	}

	injections, err := inject.Load(cfg.InjectionsFile)
	if err != nil {
		return nil, err
	}
	if err := injections.Check(graph); err != nil {
		return nil, err
	}

	out, err := Generate(graph, cfg, injections)
	if err != nil {
		return nil, err
	}

	if cfg.FormatCommand != "" {
		if err := Format(ctx, cfg.FormatCommand, out.Files); err != nil {
			return nil, err
		}
	}

	out.Duration = time.Since(start)
	logger.Infow("generated artifacts",
		logger.FieldDir, cfg.OutputDir,
		logger.FieldCount, out.Nodes,
		logger.FieldDurationMS, out.Duration.Milliseconds(),
	)
	return out, nil
}

// Generate writes every artifact for an already loaded graph. Files are staged
// and only moved into place once all of them were written.
func Generate(graph *ir.Graph, cfg Config, injections *inject.Set) (*Output, error) {
	cfg = cfg.WithDefaults()
	log := logger.ComponentLogger("typegen")

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "failed to create output directory %s", cfg.OutputDir)
	}

	out := &Output{
		Nodes:     graph.Len(),
		Fallbacks: make(map[string][]string),
	}

	var staged []string
	fail := func(err error) (*Output, error) {
		return nil, errors.CombineErrors(err, removeAll(staged))
	}

	var opts []writer.Option
	if cfg.BufferSize > 0 {
		opts = append(opts, writer.WithBufferSize(cfg.BufferSize))
	}

	for _, gen := range Generators(cfg, injections) {
		path := filepath.Join(cfg.OutputDir, cfg.fileFor(gen.Artifact()))
		tmp := path + stagingSuffix

		w, err := writer.Create(tmp, opts...)
		if err != nil {
			return fail(err)
		}
		staged = append(staged, tmp)

		res, err := gen.Generate(w, graph)
		if closeErr := w.Close(); err == nil {
			err = closeErr
		}
		if err != nil {
			return fail(errors.Wrapf(err, "failed to generate %s", filepath.Base(path)))
		}

		if len(res.Fallback) > 0 {
			out.Fallbacks[gen.Artifact()] = res.Fallback
			log.Debugw("cycle fallback",
				logger.FieldArtifact, gen.Artifact(),
				logger.FieldNode, res.Fallback,
			)
		}
		if logger.ShouldOutput(logger.Verbosity, logger.OutputProgress) {
			log.Infow("generated artifact",
				logger.FieldArtifact, gen.Artifact(),
				logger.FieldFile, path,
				logger.FieldSize, w.Size(),
			)
		}
		out.Files = append(out.Files, path)
	}

	if err := commit(staged, out.Files); err != nil {
		return fail(err)
	}
	return out, nil
}

// commit moves every staged file onto its target. Existing targets are set
// aside first; when any move fails, every target is put back the way it was.
func commit(staged, targets []string) error {
	type moved struct {
		target string
		backup string // "" when there was no previous file
	}
	var done []moved

	rollback := func(cause error) error {
		var errs error
		for i := len(done) - 1; i >= 0; i-- {
			m := done[i]
			var err error
			if m.backup != "" {
				err = os.Rename(m.backup, m.target)
			} else {
				err = os.Remove(m.target)
			}
			if err != nil {
				errs = errors.CombineErrors(errs, errors.Wrapf(err, "failed to restore %s", m.target))
			}
		}
		return errors.CombineErrors(cause, errs)
	}

	for i, tmp := range staged {
		target := targets[i]
		m := moved{target: target}

		if _, err := os.Stat(target); err == nil {
			m.backup = target + backupSuffix
			if err := os.Rename(target, m.backup); err != nil {
				return rollback(errors.Wrapf(err, "failed to set %s aside", target))
			}
		}
		if err := os.Rename(tmp, target); err != nil {
			err = errors.Wrapf(err, "failed to move %s into place", target)
			if m.backup != "" {
				if rerr := os.Rename(m.backup, target); rerr != nil {
					err = errors.CombineErrors(err, errors.Wrapf(rerr, "failed to restore %s", target))
				}
			}
			return rollback(err)
		}
		done = append(done, m)
	}

	var errs error
	for _, m := range done {
		if m.backup == "" {
			continue
		}
		if err := os.Remove(m.backup); err != nil {
			errs = errors.CombineErrors(errs, errors.Wrapf(err, "failed to remove %s", m.backup))
		}
	}
	if errs != nil {
		logger.Warnw("generated files are in place but backups remain", logger.FieldError, errs)
	}
	return nil
}

// removeAll deletes paths, ignoring ones already gone
func removeAll(paths []string) error {
	var errs error
	for _, p := range paths {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			errs = errors.CombineErrors(errs, errors.Wrapf(err, "failed to remove %s", p))
		}
	}
	return errs
}
