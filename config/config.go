// Package config reads schemagen.toml.
//
// Values come from, in increasing precedence: built-in defaults, the config
// file, and SCHEMAGEN_* environment variables (dots become underscores, e.g.
// SCHEMAGEN_OUTPUT_DIR). Relative paths in the file are resolved against the
// directory holding it.
package config

// FileName is the project config file looked up by Find
const FileName = "schemagen.toml"

// Config represents a schemagen project configuration
type Config struct {
	// Requires is a semver constraint on the schemagen version, e.g. ">= 0.4"
	Requires string         `mapstructure:"requires" toml:"requires,omitempty"`
	Schema   SchemaConfig   `mapstructure:"schema" toml:"schema"`
	Output   OutputConfig   `mapstructure:"output" toml:"output"`
	Generate GenerateConfig `mapstructure:"generate" toml:"generate"`
	Watch    WatchConfig    `mapstructure:"watch" toml:"watch"`

	// Path is the file the configuration was read from, empty when only
	// defaults and environment were used
	Path string `mapstructure:"-" toml:"-"`
}

// SchemaConfig locates the input schemas
type SchemaConfig struct {
	Dir       string `mapstructure:"dir" toml:"dir"`
	Extension string `mapstructure:"extension" toml:"extension"` // .json, .yaml or .yml
}

// OutputConfig names the generated files
type OutputConfig struct {
	Dir         string `mapstructure:"dir" toml:"dir"`
	Types       string `mapstructure:"types" toml:"types"`
	Classes     string `mapstructure:"classes" toml:"classes"`
	Serialize   string `mapstructure:"serialize" toml:"serialize"`
	BufferSize  int    `mapstructure:"buffer_size" toml:"buffer_size"` // writer flush threshold in bytes
	Header      string `mapstructure:"header" toml:"header,omitempty"` // license text for every file
	TypesModule string `mapstructure:"types_module" toml:"types_module,omitempty"`
}

// GenerateConfig tunes the generators
type GenerateConfig struct {
	Discriminator string   `mapstructure:"discriminator" toml:"discriminator"`
	ExtraOrder    []string `mapstructure:"extra_order" toml:"extra_order"`       // class cycle tie-breakers
	Injections    string   `mapstructure:"injections" toml:"injections,omitempty"` // YAML or TOML override file
	FormatCommand string   `mapstructure:"format_command" toml:"format_command,omitempty"`
}

// WatchConfig configures `schemagen watch`
type WatchConfig struct {
	DebounceMS int `mapstructure:"debounce_ms" toml:"debounce_ms"`
}
