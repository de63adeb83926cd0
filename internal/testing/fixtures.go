// Package testing provides shared helpers for package tests: schema fixtures kept
// as txtar archives, unpacked or loaded straight into an IR graph.
package testing

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"golang.org/x/tools/txtar"

	"github.com/teranos/schemagen/ir"
)

// ParseArchive parses an inline txtar archive
func ParseArchive(data string) *txtar.Archive {
	return txtar.Parse([]byte(data))
}

// ReadArchive parses a txtar file. Fails the test if it cannot be read.
func ReadArchive(t testing.TB, path string) *txtar.Archive {
	t.Helper()

	ar, err := txtar.ParseFile(path)
	if err != nil {
		t.Fatalf("Failed to read archive %s: %v", path, err)
	}
	return ar
}

// WriteArchive unpacks an archive into a fresh temp directory and returns it.
// The directory is removed by t.Cleanup.
func WriteArchive(t testing.TB, ar *txtar.Archive) string {
	t.Helper()

	dir := t.TempDir()
	for _, f := range ar.Files {
		path := filepath.Join(dir, filepath.FromSlash(f.Name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("Failed to create %s: %v", filepath.Dir(path), err)
		}
		if err := os.WriteFile(path, f.Data, 0o644); err != nil {
			t.Fatalf("Failed to write %s: %v", path, err)
		}
	}
	return dir
}

// BuildArchive loads every file of the archive into a builder, in name order,
// and returns the Build result.
func BuildArchive(ar *txtar.Archive, ext string) (*ir.Graph, error) {
	files := make([]txtar.File, len(ar.Files))
	copy(files, ar.Files)
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })

	b := ir.NewBuilder(ext)
	for _, f := range files {
		if err := b.AddSource(f.Name, f.Data); err != nil {
			return nil, err
		}
	}
	return b.Build()
}

// LoadGraph builds the archive and fails the test on error.
func LoadGraph(t testing.TB, ar *txtar.Archive) *ir.Graph {
	t.Helper()

	g, err := BuildArchive(ar, ir.DefaultExtension)
	if err != nil {
		t.Fatalf("Failed to build graph: %v", err)
	}
	return g
}

// DesignArchive reads the shared design-model fixture from the repository's
// testdata directory. rel is the path from the test's package to the repo root.
func DesignArchive(t testing.TB, rel string) *txtar.Archive {
	t.Helper()
	return ReadArchive(t, filepath.Join(rel, "testdata", "design.txtar"))
}
