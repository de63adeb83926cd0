package config

import (
	"github.com/spf13/viper"

	"github.com/teranos/schemagen/typegen"
	"github.com/teranos/schemagen/typegen/tsutil"
	"github.com/teranos/schemagen/writer"
)

// Default values
const (
	DefaultSchemaDir  = "schemas"
	DefaultOutputDir  = "generated"
	DefaultExtension  = ".json"
	DefaultDebounceMS = 200
)

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	v.SetDefault("requires", "")

	v.SetDefault("schema.dir", DefaultSchemaDir)
	v.SetDefault("schema.extension", DefaultExtension)

	v.SetDefault("output.dir", DefaultOutputDir)
	v.SetDefault("output.types", typegen.DefaultTypesFile)
	v.SetDefault("output.classes", typegen.DefaultClassesFile)
	v.SetDefault("output.serialize", typegen.DefaultSerializeFile)
	v.SetDefault("output.buffer_size", writer.DefaultBufferSize)
	v.SetDefault("output.header", "")
	v.SetDefault("output.types_module", "")

	v.SetDefault("generate.discriminator", tsutil.DefaultDiscriminator)
	v.SetDefault("generate.extra_order", []string{})
	v.SetDefault("generate.injections", "")
	v.SetDefault("generate.format_command", "")

	v.SetDefault("watch.debounce_ms", DefaultDebounceMS)
}

// Default returns the configuration used when no file exists
func Default() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	// Defaults always decode
	_ = v.Unmarshal(&cfg)
	return &cfg
}
