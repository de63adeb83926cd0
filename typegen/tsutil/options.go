// Package tsutil holds what the TypeScript generators share: options, the file
// header, and rendering of IR props as TypeScript type expressions and literals.
package tsutil

import (
	"strings"

	"github.com/teranos/schemagen/writer"
)

// Artifact names, used for logging and injection lookup
const (
	ArtifactTypes     = "types"
	ArtifactClasses   = "classes"
	ArtifactSerialize = "serialize"
)

// DefaultDiscriminator is the runtime tag field carried by generated classes
const DefaultDiscriminator = "typeId"

// DefaultTypesModule is the import path classes.ts and export.ts use for types.ts
const DefaultTypesModule = "./types"

// GeneratedWarning is the line every generated file carries after its header
const GeneratedWarning = "// Code generated by schemagen. DO NOT EDIT."

// VersionPrefix starts the header line recording the generator version.
// Directory checks ignore it.
const VersionPrefix = "// Source version:"

// Options configures every generator.
type Options struct {
	// Discriminator is the name of the runtime tag field
	Discriminator string

	// TypesModule is the module specifier classes.ts and export.ts import from
	TypesModule string

	// Header is license text placed at the top of each file.
	// Lines that are not already comments are prefixed with "// ".
	Header string

	// Version is recorded in the file header when set
	Version string
}

// WithDefaults fills unset fields
func (o Options) WithDefaults() Options {
	if o.Discriminator == "" {
		o.Discriminator = DefaultDiscriminator
	}
	if o.TypesModule == "" {
		o.TypesModule = DefaultTypesModule
	}
	return o
}

// WriteHeader emits the license header and the generated-code warning.
func WriteHeader(w *writer.Writer, opts Options) {
	header := strings.TrimRight(opts.Header, "\n")
	if header != "" {
		for _, line := range strings.Split(header, "\n") {
			trimmed := strings.TrimSpace(line)
			switch {
			case trimmed == "":
				w.Nl("//")
			case strings.HasPrefix(trimmed, "//"), strings.HasPrefix(trimmed, "/*"), strings.HasPrefix(trimmed, "*"):
				w.Nl(line)
			default:
				w.Nl("// ", line)
			}
		}
		w.Blank()
	}

	w.Nl(GeneratedWarning)
	if opts.Version != "" {
		w.Nl(VersionPrefix, " ", opts.Version)
	}
}

// WriteDoc emits a JSDoc block for description. Nothing is written for an empty
// description.
func WriteDoc(w *writer.Writer, description string) {
	description = strings.TrimSpace(description)
	if description == "" {
		return
	}

	// "*/" would end the comment early
	description = strings.ReplaceAll(description, "*/", "*\\/")
	lines := strings.Split(description, "\n")
	if len(lines) == 1 {
		w.Nl("/** ", lines[0], " */")
		return
	}

	w.Nl("/**")
	for _, line := range lines {
		line = strings.TrimRight(line, " \t")
		if line == "" {
			w.Nl(" *")
			continue
		}
		w.Nl(" * ", line)
	}
	w.Nl(" */")
}
