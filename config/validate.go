package config

import (
	"path/filepath"
	"strings"

	"github.com/teranos/schemagen/errors"
	"github.com/teranos/schemagen/typegen/tsutil"
	"github.com/teranos/schemagen/version"
)

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if err := version.Check(version.Version, c.Requires); err != nil {
		return err
	}

	if c.Schema.Dir == "" {
		return errors.ConfigErrorf("schema.dir cannot be empty")
	}
	switch strings.ToLower(c.Schema.Extension) {
	case ".json", ".yaml", ".yml":
	default:
		return errors.WithHint(
			errors.ConfigErrorf("schema.extension must be .json, .yaml or .yml, got %q", c.Schema.Extension),
			"the extension includes the leading dot",
		)
	}

	if c.Output.Dir == "" {
		return errors.ConfigErrorf("output.dir cannot be empty")
	}
	files := map[string]string{
		"output.types":     c.Output.Types,
		"output.classes":   c.Output.Classes,
		"output.serialize": c.Output.Serialize,
	}
	seen := make(map[string]string)
	for _, key := range []string{"output.types", "output.classes", "output.serialize"} {
		name := files[key]
		if name == "" {
			return errors.ConfigErrorf("%s cannot be empty", key)
		}
		if filepath.Base(name) != name {
			return errors.ConfigErrorf("%s must be a file name, not a path: %q", key, name)
		}
		if other, ok := seen[name]; ok {
			return errors.ConfigErrorf("%s and %s both write %s", other, key, name)
		}
		seen[name] = key
	}

	// 0 = writer default, negative is invalid
	if c.Output.BufferSize < 0 {
		return errors.ConfigErrorf("output.buffer_size must be >= 0, got %d", c.Output.BufferSize)
	}

	if !tsutil.IsIdentifier(c.Generate.Discriminator) {
		return errors.ConfigErrorf("generate.discriminator must be a TypeScript identifier, got %q", c.Generate.Discriminator)
	}

	if c.Watch.DebounceMS < 0 {
		return errors.ConfigErrorf("watch.debounce_ms must be >= 0, got %d", c.Watch.DebounceMS)
	}

	return nil
}
