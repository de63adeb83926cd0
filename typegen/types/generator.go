// Package types generates types.ts: structural type aliases and enums for every
// IR node, in dependency order. Inline enums are spelled out as literal unions.
package types

import (
	"go.uber.org/zap"

	"github.com/teranos/schemagen/errors"
	"github.com/teranos/schemagen/internal/util"
	"github.com/teranos/schemagen/ir"
	"github.com/teranos/schemagen/logger"
	"github.com/teranos/schemagen/order"
	"github.com/teranos/schemagen/typegen/inject"
	"github.com/teranos/schemagen/typegen/tsutil"
	"github.com/teranos/schemagen/writer"
)

// Generator emits type declarations
type Generator struct {
	opts       tsutil.Options
	injections *inject.Set
	log        *zap.SugaredLogger
}

// NewGenerator creates a types.ts generator
func NewGenerator(opts tsutil.Options, injections *inject.Set) *Generator {
	return &Generator{
		opts:       opts.WithDefaults(),
		injections: injections,
		log:        logger.ComponentLogger("typegen.types"),
	}
}

// Artifact returns "types"
func (g *Generator) Artifact() string {
	return tsutil.ArtifactTypes
}

// Generate writes the whole file. Forward references are legal in type
// aliases, so cycles fall back to unconditional emission.
func (g *Generator) Generate(w *writer.Writer, graph *ir.Graph) (order.Result, error) {
	tsutil.WriteHeader(w, g.opts)

	r := tsutil.Renderer{
		Graph: graph,
		Named: func(n *ir.Node) bool { return !tsutil.LiteralEnum(n) },
	}
	res, err := order.Walk(graph.Nodes(), func(n *ir.Node) error {
		return g.emit(w, r, n)
	}, order.Unconditional())
	if err != nil {
		return res, err
	}

	g.log.Debugw("generated declarations", logger.FieldCount, len(res.Emitted), logger.FieldSize, w.Size())
	return res, w.Err()
}

func (g *Generator) emit(w *writer.Writer, r tsutil.Renderer, n *ir.Node) error {
	if tsutil.LiteralEnum(n) {
		return nil
	}
	inj := g.injections.Get(tsutil.ArtifactTypes, n.Name)

	w.Blank()
	if inj.Before != "" {
		w.Fmt(inj.Before)
	}
	tsutil.WriteDoc(w, n.Description)

	if inj.Content != "" {
		w.Fmt(inj.Content)
	} else if err := g.declaration(w, r, n); err != nil {
		return err
	}

	if inj.After != "" {
		w.Fmt(inj.After)
	}
	return w.Err()
}

func (g *Generator) declaration(w *writer.Writer, r tsutil.Renderer, n *ir.Node) error {
	export := "export "
	if n.Inner {
		export = ""
	}
	base := ""
	if n.Extend != "" {
		base = n.Extend + " & "
	}

	switch v := n.Value.(type) {
	case *ir.EnumValue:
		members := make(map[string]string, len(v.Values))
		w.Nl(export, "enum ", n.Name, " ")
		var dup error
		w.Sub(func() {
			for _, val := range v.Values {
				member := util.EnumMemberName(val)
				if prev, ok := members[member]; ok && dup == nil {
					dup = errors.GenerationErrorf("enum %s: values %q and %q both map to member %s", n.Name, prev, val, member)
				}
				members[member] = val
				w.Nl(member, " = ", tsutil.Quote(val), ",")
			}
		})
		return dup

	case *ir.ObjectValue:
		w.Nl(export, "type ", n.Name, " = ", base)
		w.Sub(func() {
			for _, p := range v.Props {
				tsutil.WriteDoc(w, p.Description)
				w.Nl(r.Field(p), ";")
			}
		})
		w.Append(";")

	case *ir.ArrayValue:
		w.Nl(export, "type ", n.Name, " = ", base, "Array<", r.Prop(v.Item), ">;")

	default:
		return errors.AssertionFailedf("node %s has no value", n.Name)
	}
	return nil
}
