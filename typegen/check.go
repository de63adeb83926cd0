package typegen

import (
	"bufio"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/teranos/schemagen/errors"
	"github.com/teranos/schemagen/typegen/tsutil"
)

// CheckResult holds the result of an output check
type CheckResult struct {
	UpToDate bool

	// Differences lists the output files that differ or are missing
	Differences []string
}

// Check generates into a temporary directory and compares the result with
// cfg.OutputDir. Version header lines are ignored.
func Check(ctx context.Context, cfg Config) (*CheckResult, error) {
	tempDir, err := os.MkdirTemp("", "schemagen-check-*")
	if err != nil {
		return nil, errors.Wrap(err, "failed to create temp directory")
	}
	defer os.RemoveAll(tempDir)

	existing := cfg.OutputDir
	cfg.OutputDir = tempDir
	out, err := Run(ctx, cfg)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, f := range out.Files {
		names = append(names, filepath.Base(f))
	}
	return CompareDirectories(tempDir, existing, names)
}

// CompareDirectories compares the named files in generatedDir with their
// counterparts in existingDir.
func CompareDirectories(generatedDir, existingDir string, names []string) (*CheckResult, error) {
	var diffs []string
	for _, name := range names {
		different, err := filesAreDifferent(filepath.Join(generatedDir, name), filepath.Join(existingDir, name))
		if err != nil {
			if os.IsNotExist(errors.UnwrapAll(err)) {
				diffs = append(diffs, name+" (missing)")
				continue
			}
			return nil, err
		}
		if different {
			diffs = append(diffs, name)
		}
	}

	return &CheckResult{
		UpToDate:    len(diffs) == 0,
		Differences: diffs,
	}, nil
}

// filesAreDifferent compares two files, ignoring metadata lines.
func filesAreDifferent(file1, file2 string) (bool, error) {
	content1, err := os.ReadFile(file1)
	if err != nil {
		return false, errors.Wrapf(err, "failed to read %s", file1)
	}

	content2, err := os.ReadFile(file2)
	if err != nil {
		return false, errors.Wrapf(err, "failed to read %s", file2)
	}

	if bytes.Equal(content1, content2) {
		return false, nil
	}

	lines1, err := filterMetadataLines(content1)
	if err != nil {
		return false, errors.Wrapf(err, "failed to scan %s", file1)
	}
	lines2, err := filterMetadataLines(content2)
	if err != nil {
		return false, errors.Wrapf(err, "failed to scan %s", file2)
	}

	return lines1 != lines2, nil
}

// filterMetadataLines drops the "// Source version:" header line, which changes
// with every release and not with the schemas.
func filterMetadataLines(content []byte) (string, error) {
	var result strings.Builder
	scanner := bufio.NewScanner(bytes.NewReader(content))
	scanner.Buffer(make([]byte, 0, 64*1024), len(content)+1)

	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(strings.TrimSpace(line), tsutil.VersionPrefix) {
			continue
		}
		result.WriteString(line)
		result.WriteString("\n")
	}

	if err := scanner.Err(); err != nil {
		return "", err
	}
	return result.String(), nil
}
