// Package classes generates classes.ts: one constructible class per object node.
//
// Classes carry the discriminator tag used for runtime dispatch, declare their
// own properties, and take the required properties of their whole inheritance
// chain as constructor parameters, base first. Enums and exported arrays are
// re-exported from the types module so consumers need a single import.
package classes

import (
	"strings"

	"go.uber.org/zap"

	"github.com/teranos/schemagen/ir"
	"github.com/teranos/schemagen/logger"
	"github.com/teranos/schemagen/order"
	"github.com/teranos/schemagen/typegen/inject"
	"github.com/teranos/schemagen/typegen/tsutil"
	"github.com/teranos/schemagen/writer"
)

// Generator emits classes
type Generator struct {
	opts       tsutil.Options
	extraOrder []string
	injections *inject.Set
	log        *zap.SugaredLogger
}

// NewGenerator creates a classes.ts generator. extraOrder lists the nodes to
// force out, in order, when a dependency cycle blocks emission.
func NewGenerator(opts tsutil.Options, extraOrder []string, injections *inject.Set) *Generator {
	return &Generator{
		opts:       opts.WithDefaults(),
		extraOrder: extraOrder,
		injections: injections,
		log:        logger.ComponentLogger("typegen.classes"),
	}
}

// Artifact returns "classes"
func (g *Generator) Artifact() string {
	return tsutil.ArtifactClasses
}

// named reports which nodes classes.ts can refer to by name: everything
// exported from the types module, plus the classes declared here.
func named(n *ir.Node) bool {
	return !n.Inner || n.IsObject()
}

// Generate writes the whole file. A class must textually follow its base, so
// cycles are broken in extraOrder order.
func (g *Generator) Generate(w *writer.Writer, graph *ir.Graph) (order.Result, error) {
	tsutil.WriteHeader(w, g.opts)
	g.writeImports(w, graph)

	r := tsutil.Renderer{Graph: graph, Named: named}
	res, err := order.Walk(graph.Nodes(), func(n *ir.Node) error {
		if !n.IsObject() {
			return nil
		}
		return g.emit(w, r, graph, n)
	}, order.Forced(g.extraOrder...))
	if err != nil {
		return res, err
	}

	if len(res.Fallback) > 0 {
		g.log.Debugw("forced class order", logger.FieldNode, res.Fallback)
	}
	return res, w.Err()
}

func (g *Generator) writeImports(w *writer.Writer, graph *ir.Graph) {
	var enums, arrays []string
	for _, n := range graph.Nodes() {
		if n.Inner {
			continue
		}
		switch {
		case n.IsEnum():
			enums = append(enums, n.Name)
		case n.IsArray():
			arrays = append(arrays, n.Name)
		}
	}
	if len(enums) == 0 && len(arrays) == 0 {
		return
	}

	module := tsutil.Quote(g.opts.TypesModule)
	w.Blank()
	if len(enums) > 0 {
		w.Nl("import { ", strings.Join(enums, ", "), " } from ", module, ";")
	}
	if len(arrays) > 0 {
		w.Nl("import type { ", strings.Join(arrays, ", "), " } from ", module, ";")
	}
	w.Blank()
	if len(enums) > 0 {
		w.Nl("export { ", strings.Join(enums, ", "), " };")
	}
	if len(arrays) > 0 {
		w.Nl("export type { ", strings.Join(arrays, ", "), " };")
	}
}

// tagged reports whether any node in the chain carries a schema ID
func tagged(chain []*ir.Node) bool {
	for _, n := range chain {
		if n.SchemaID != "" {
			return true
		}
	}
	return false
}

// ownProps drops a schema-declared discriminator when the class sets it itself
func (g *Generator) ownProps(n *ir.Node, chain []*ir.Node) []ir.NamedProp {
	props := n.Value.(*ir.ObjectValue).Props
	if !tagged(chain) {
		return props
	}
	out := make([]ir.NamedProp, 0, len(props))
	for _, p := range props {
		if p.Name != g.opts.Discriminator {
			out = append(out, p)
		}
	}
	return out
}

func (g *Generator) emit(w *writer.Writer, r tsutil.Renderer, graph *ir.Graph, n *ir.Node) error {
	inj := g.injections.Get(tsutil.ArtifactClasses, n.Name)
	chain := graph.Chain(n.Name)

	w.Blank()
	if inj.Before != "" {
		w.Fmt(inj.Before)
	}
	tsutil.WriteDoc(w, n.Description)

	export := "export "
	if n.Inner {
		export = ""
	}
	extends := ""
	if n.Extend != "" {
		extends = "extends " + n.Extend + " "
	}
	w.Nl(export, "class ", n.Name, " ", extends)

	w.Sub(func() {
		if inj.Content != "" {
			w.Fmt(inj.Content)
			return
		}
		g.body(w, r, n, chain)
	})

	if inj.After != "" {
		w.Fmt(inj.After)
	}
	return w.Err()
}

func (g *Generator) body(w *writer.Writer, r tsutil.Renderer, n *ir.Node, chain []*ir.Node) {
	if n.SchemaID != "" {
		modifier := "readonly "
		if tagged(chain[:len(chain)-1]) {
			modifier = "override readonly "
		}
		w.Nl(modifier, tsutil.PropertyKey(g.opts.Discriminator), ": string = ", tsutil.Quote(n.SchemaID), ";")
	}

	own := g.ownProps(n, chain)
	for _, p := range own {
		tsutil.WriteDoc(w, p.Description)
		w.Nl(r.Field(p), ";")
	}

	var ownRequired []ir.NamedProp
	for _, p := range own {
		if p.Required {
			ownRequired = append(ownRequired, p)
		}
	}
	if len(ownRequired) == 0 {
		return
	}

	var inherited []ir.NamedProp
	for i, base := range chain[:len(chain)-1] {
		for _, p := range g.ownProps(base, chain[:i+1]) {
			if p.Required {
				inherited = append(inherited, p)
			}
		}
	}

	params := make([]string, 0, len(inherited)+len(ownRequired))
	for _, p := range append(append([]ir.NamedProp(nil), inherited...), ownRequired...) {
		param := tsutil.ParamName(p.Name) + ": " + r.Prop(p.Prop)
		if def := r.DefaultValue(p); def != "" {
			param += " = " + def
		}
		params = append(params, param)
	}

	w.Blank()
	w.Nl("constructor(", strings.Join(params, ", "), ") ")
	w.Sub(func() {
		if n.Extend != "" {
			args := make([]string, 0, len(inherited))
			for _, p := range inherited {
				args = append(args, tsutil.ParamName(p.Name))
			}
			w.Nl("super(", strings.Join(args, ", "), ");")
		}
		for _, p := range ownRequired {
			w.Nl(tsutil.Access("this", p.Name), " = ", tsutil.ParamName(p.Name), ";")
		}
	})
}
