// Package typegen drives generation of the TypeScript artifacts from a
// directory of schemas.
//
// # Architecture
//
// The package uses a two-layer design:
//  1. Language-agnostic loading (ir) turns schema files into a read-only Graph
//  2. Artifact generators (types/, classes/, serialize/) walk that Graph
//
// Each generator writes one file through its own writer.Writer and walks the
// nodes in dependency order (see package order). Generators never share state,
// so adding an artifact does not touch the others.
//
// # Design Decisions
//
//   - Files are staged next to their targets and renamed only after every
//     artifact succeeded, so a failed run leaves the previous output in place
//   - Deterministic output (sorted schema files, schema key order) enables CI
//     validation via `schemagen check`
//   - Hand-written overrides come from an injection file instead of editing
//     generated code
//
// # Implementing a New Artifact
//
//  1. Create package: typegen/<artifact>/generator.go
//  2. Implement the Generator interface (see below)
//  3. Add it to Generators() and give it a file name in Config
//  4. Add the artifact name to inject.Artifacts
package typegen

import (
	"github.com/teranos/schemagen/ir"
	"github.com/teranos/schemagen/order"
	"github.com/teranos/schemagen/typegen/classes"
	"github.com/teranos/schemagen/typegen/inject"
	"github.com/teranos/schemagen/typegen/serialize"
	"github.com/teranos/schemagen/typegen/types"
	"github.com/teranos/schemagen/writer"
)

// Generator emits one artifact for the whole graph.
type Generator interface {
	// Artifact returns the artifact name ("types", "classes", "serialize"),
	// used for logging and injection lookup
	Artifact() string

	// Generate writes the complete file and reports which nodes needed a
	// cycle fallback
	Generate(w *writer.Writer, graph *ir.Graph) (order.Result, error)
}

// Generators returns the three artifact generators configured from cfg, in the
// order their files are written.
func Generators(cfg Config, injections *inject.Set) []Generator {
	opts := cfg.options()
	return []Generator{
		types.NewGenerator(opts, injections),
		classes.NewGenerator(opts, cfg.ExtraOrder, injections),
		serialize.NewGenerator(opts, injections),
	}
}
