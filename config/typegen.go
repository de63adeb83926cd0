package config

import (
	"github.com/teranos/schemagen/typegen"
	"github.com/teranos/schemagen/typegen/tsutil"
	"github.com/teranos/schemagen/version"
)

// Typegen converts the configuration into a generation run, with paths
// resolved against the config directory.
func (c *Config) Typegen() typegen.Config {
	opts := tsutil.Options{
		Discriminator: c.Generate.Discriminator,
		TypesModule:   c.Output.TypesModule,
		Header:        c.Output.Header,
	}
	if v := version.Version; v != "dev" {
		opts.Version = v
	}

	return typegen.Config{
		SchemaDir:      c.Resolve(c.Schema.Dir),
		Extension:      c.Schema.Extension,
		OutputDir:      c.Resolve(c.Output.Dir),
		TypesFile:      c.Output.Types,
		ClassesFile:    c.Output.Classes,
		SerializeFile:  c.Output.Serialize,
		BufferSize:     c.Output.BufferSize,
		Options:        opts,
		ExtraOrder:     c.Generate.ExtraOrder,
		InjectionsFile: c.Resolve(c.Generate.Injections),
		FormatCommand:  c.Generate.FormatCommand,
	}
}
