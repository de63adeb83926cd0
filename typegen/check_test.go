package typegen

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/schemagen/typegen/tsutil"
)

func TestCheck(t *testing.T) {
	schemaDir := designDir(t)
	outDir := t.TempDir()
	cfg := Config{
		SchemaDir:  schemaDir,
		OutputDir:  outDir,
		ExtraOrder: []string{"GroupShape"},
		Options:    tsutil.Options{Version: "1.0.0"},
	}
	_, err := Run(context.Background(), cfg)
	require.NoError(t, err)

	t.Run("up to date", func(t *testing.T) {
		res, err := Check(context.Background(), cfg)
		require.NoError(t, err)
		assert.True(t, res.UpToDate)
		assert.Empty(t, res.Differences)
	})

	t.Run("version line is ignored", func(t *testing.T) {
		newer := cfg
		newer.Options.Version = "2.0.0"
		res, err := Check(context.Background(), newer)
		require.NoError(t, err)
		assert.True(t, res.UpToDate)
	})

	t.Run("changed option", func(t *testing.T) {
		changed := cfg
		changed.Options.Discriminator = "kind"
		res, err := Check(context.Background(), changed)
		require.NoError(t, err)
		assert.False(t, res.UpToDate)
		assert.Equal(t, []string{"classes.ts", "export.ts"}, res.Differences)
	})

	t.Run("edited and missing files", func(t *testing.T) {
		path := filepath.Join(outDir, "classes.ts")
		require.NoError(t, os.WriteFile(path, []byte(readFile(t, path)+"// local edit\n"), 0o644))
		require.NoError(t, os.Remove(filepath.Join(outDir, "export.ts")))

		res, err := Check(context.Background(), cfg)
		require.NoError(t, err)
		assert.False(t, res.UpToDate)
		assert.Equal(t, []string{"classes.ts", "export.ts (missing)"}, res.Differences)
	})
}

func TestCheckDoesNotTouchOutput(t *testing.T) {
	outDir := t.TempDir()
	_, err := Check(context.Background(), Config{SchemaDir: designDir(t), OutputDir: outDir})
	require.NoError(t, err)

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestFilterMetadataLines(t *testing.T) {
	got, err := filterMetadataLines([]byte("// Code generated by schemagen. DO NOT EDIT.\n// Source version: 1.2.3\n\nexport type A = {};\n"))
	require.NoError(t, err)
	assert.Equal(t, "// Code generated by schemagen. DO NOT EDIT.\n\nexport type A = {};\n", got)
}
