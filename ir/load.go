package ir

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/teranos/schemagen/errors"
	"github.com/teranos/schemagen/logger"
)

// LoadDir reads every file in dir ending in ext (sorted by name) and builds the
// graph. Subdirectories are not descended into.
func LoadDir(dir, ext string) (*Graph, error) {
	start := time.Now()
	b := NewBuilder(ext)

	files, err := SchemaFiles(dir, b.Extension())
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, errors.WithHintf(
			errors.SchemaErrorf(dir, "no %s schema files found", b.Extension()),
			"check schema.dir and schema.extension in schemagen.toml",
		)
	}

	for _, f := range files {
		if err := b.AddFile(f); err != nil {
			return nil, err
		}
	}

	g, err := b.Build()
	if err != nil {
		return nil, err
	}

	if logger.ShouldOutput(logger.Verbosity, logger.OutputDataDump) {
		dump := logger.ChildLogger(b.log, logger.FieldCategory, logger.CategoryName(logger.OutputDataDump))
		for _, n := range g.Nodes() {
			dump.Debugw("node",
				logger.FieldNode, n.Name,
				logger.FieldKind, n.Kind(),
				logger.FieldParent, n.Parent,
				logger.FieldExtend, n.Extend,
				logger.FieldDepends, n.Depends,
			)
		}
	}

	b.log.Infow("loaded schemas",
		logger.FieldDir, dir,
		logger.FieldCount, g.Len(),
		logger.FieldDurationMS, time.Since(start).Milliseconds(),
	)
	return g, nil
}

// SchemaFiles lists the files in dir ending in ext, sorted by name.
func SchemaFiles(dir, ext string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read schema directory %s", dir)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ext) {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}
