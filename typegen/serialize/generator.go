// Package serialize generates export.ts: one pure function per IR node that
// converts a runtime instance into its simplified, JSON-safe shape.
//
// Objects seed their result from the base type's function, set the
// discriminator, copy required properties and copy optional ones only when
// present. Polymorphic values are dispatched on the discriminator field, and an
// unrecognized tag throws. Every function threads an optional depth argument,
// decremented per array or map traversal, for hand-written overrides to consult.
package serialize

import (
	"strings"

	"go.uber.org/zap"

	"github.com/teranos/schemagen/errors"
	"github.com/teranos/schemagen/ir"
	"github.com/teranos/schemagen/logger"
	"github.com/teranos/schemagen/order"
	"github.com/teranos/schemagen/typegen/inject"
	"github.com/teranos/schemagen/typegen/tsutil"
	"github.com/teranos/schemagen/writer"
)

// TypesAlias is the namespace types.ts is imported under
const TypesAlias = "t"

// Generator emits serialization functions
type Generator struct {
	opts       tsutil.Options
	injections *inject.Set
	log        *zap.SugaredLogger
}

// NewGenerator creates an export.ts generator
func NewGenerator(opts tsutil.Options, injections *inject.Set) *Generator {
	return &Generator{
		opts:       opts.WithDefaults(),
		injections: injections,
		log:        logger.ComponentLogger("typegen.serialize"),
	}
}

// Artifact returns "serialize"
func (g *Generator) Artifact() string {
	return tsutil.ArtifactSerialize
}

// Generate writes the whole file. Function declarations are hoisted, so cycles
// fall back to unconditional emission.
func (g *Generator) Generate(w *writer.Writer, graph *ir.Graph) (order.Result, error) {
	tsutil.WriteHeader(w, g.opts)
	g.writePrelude(w)

	e := &emitter{
		opts:  g.opts,
		graph: graph,
		types: tsutil.Renderer{
			Graph:     graph,
			Qualifier: TypesAlias + ".",
			Named:     func(n *ir.Node) bool { return !n.Inner },
		},
	}

	res, err := order.Walk(graph.Nodes(), func(n *ir.Node) error {
		return g.emit(w, e, n)
	}, order.Unconditional())
	if err != nil {
		return res, err
	}

	g.log.Debugw("generated serializers", logger.FieldCount, len(res.Emitted), logger.FieldSize, w.Size())
	return res, w.Err()
}

func (g *Generator) writePrelude(w *writer.Writer) {
	w.Blank()
	w.Nl("import * as ", TypesAlias, " from ", tsutil.Quote(g.opts.TypesModule), ";")
	w.Blank()
	w.Fmt(`/** The JSON-safe shape produced by the export functions. */
export type Simplified<T> = T extends ReadonlyArray<infer I>
? Array<Simplified<I>>
: T extends object
? { [K in keyof T]: Simplified<T[K]> } & { ` + tsutil.PropertyKey(g.opts.Discriminator) + `?: string }
: T;`)
	w.Blank()
	w.Fmt(`function nextDepth(depth?: number): number | undefined {
return depth === undefined ? undefined : depth - 1;
}`)
}

func (g *Generator) emit(w *writer.Writer, e *emitter, n *ir.Node) error {
	inj := g.injections.Get(tsutil.ArtifactSerialize, n.Name)

	w.Blank()
	if inj.Before != "" {
		w.Fmt(inj.Before)
	}

	export := "export "
	if n.Inner {
		export = ""
	}
	typ := e.types.Ref(n.Name)
	w.Nl(export, "function ", tsutil.FunctionName(n.Name), "(source: ", typ, ", depth?: number): Simplified<", typ, "> ")

	var err error
	w.Sub(func() {
		if inj.Content != "" {
			w.Fmt(inj.Content)
			return
		}
		err = e.body(w, n)
	})
	if err != nil {
		return err
	}

	if inj.After != "" {
		w.Fmt(inj.After)
	}
	return w.Err()
}

type emitter struct {
	opts  tsutil.Options
	graph *ir.Graph
	types tsutil.Renderer
}

func (e *emitter) body(w *writer.Writer, n *ir.Node) error {
	switch v := n.Value.(type) {
	case *ir.EnumValue:
		w.Nl("return source;")
		return nil

	case *ir.ArrayValue:
		item, err := e.convert(n.Name, v.Item, "item", "nextDepth(depth)")
		if err != nil {
			return err
		}
		w.Nl("const result: any[] = [];")
		w.Nl("for (const item of source) ")
		w.Sub(func() {
			w.Fmt("result.push(" + item + ");")
		})
		w.Nl("return result;")
		return nil

	case *ir.ObjectValue:
		return e.object(w, n, v)
	}
	return errors.AssertionFailedf("node %s has no value", n.Name)
}

func (e *emitter) object(w *writer.Writer, n *ir.Node, v *ir.ObjectValue) error {
	chain := e.graph.Chain(n.Name)
	tagged := false
	for _, c := range chain {
		if c.SchemaID != "" {
			tagged = true
		}
	}

	if n.Extend != "" {
		w.Nl("const result: any = ", tsutil.FunctionName(n.Extend), "(source, depth);")
	} else {
		w.Nl("const result: any = {};")
	}
	if n.SchemaID != "" {
		w.Nl(tsutil.Access("result", e.opts.Discriminator), " = ", tsutil.Quote(n.SchemaID), ";")
	}

	for _, p := range v.Props {
		if tagged && p.Name == e.opts.Discriminator {
			continue
		}

		src := tsutil.Access("source", p.Name)
		conv, err := e.convert(n.Name+"."+p.Name, p.Prop, src, "depth")
		if err != nil {
			return err
		}
		assign := tsutil.Access("result", p.Name) + " = " + conv + ";"

		if p.Required {
			w.Fmt(assign)
			continue
		}
		w.Nl("if (", src, " !== undefined) ")
		w.Sub(func() {
			w.Fmt(assign)
		})
	}

	w.Nl("return result;")
	return nil
}

// convert returns an expression converting expr, of type p, to its simplified
// form. where names the position for error messages. The expression may span
// several lines; callers splice it with Writer.Fmt.
func (e *emitter) convert(where string, p ir.Prop, expr, depth string) (string, error) {
	switch v := p.(type) {
	case ir.Primitive:
		return expr, nil

	case ir.NodeRef:
		return tsutil.FunctionName(v.Name) + "(" + expr + ", " + depth + ")", nil

	case ir.MapProp:
		if passthrough(v.Value) {
			return "{ ...(" + expr + ") }", nil
		}
		val, err := e.convert(where, v.Value, "v", "nextDepth("+depth+")")
		if err != nil {
			return "", err
		}
		return "Object.fromEntries(Object.entries(" + expr + ").map(([k, v]: [string, any]) => [k, " + val + "]))", nil

	case ir.OneOf:
		// Primitive-only unions hold scalars, which have no identity to share
		if passthrough(v) {
			return expr, nil
		}
		return e.dispatch(where, v, expr, depth)
	}
	return "", errors.AssertionFailedf("%s: unknown prop %T", where, p)
}

// passthrough reports whether values of p need no conversion
func passthrough(p ir.Prop) bool {
	switch v := p.(type) {
	case ir.Primitive:
		return true
	case ir.OneOf:
		return v.OnlyPrimitives()
	}
	return false
}

// flatten inlines nested unions
func flatten(o ir.OneOf) []ir.Prop {
	var out []ir.Prop
	for _, v := range o.Variants {
		if inner, ok := v.(ir.OneOf); ok {
			out = append(out, flatten(inner)...)
			continue
		}
		out = append(out, v)
	}
	return out
}

// dispatch builds an inline function that routes a union value to the export
// function of the variant its discriminator names.
func (e *emitter) dispatch(where string, o ir.OneOf, expr, depth string) (string, error) {
	var (
		arrayVariant string
		branches     []string
		branchFor    = make(map[string]string)
	)

	addBranch := func(id, fn string) {
		if _, ok := branchFor[id]; ok {
			return
		}
		branchFor[id] = fn
		branches = append(branches, id)
	}

	var tagged []*ir.Node
	for _, variant := range flatten(o) {
		switch v := variant.(type) {
		case ir.Primitive:
			continue
		case ir.MapProp:
			return "", errors.WithHint(
				errors.GenerationErrorf("%s: a map variant cannot be told apart at runtime", where),
				"wrap the map in an object schema with an $id",
			)
		case ir.NodeRef:
			n, ok := e.graph.Node(v.Name)
			if !ok {
				return "", errors.UnresolvedReff("%s: variant %s is not defined", where, v.Name)
			}
			switch n.Value.(type) {
			case *ir.EnumValue:
				// Enum values are strings and pass through
				continue
			case *ir.ArrayValue:
				if arrayVariant != "" {
					return "", errors.GenerationErrorf("%s: more than one array variant (%s, %s)", where, arrayVariant, n.Name)
				}
				arrayVariant = n.Name
				continue
			}
			if n.SchemaID == "" {
				return "", errors.WithHintf(
					errors.GenerationErrorf("%s: variant %s has no discriminator", where, n.Name),
					"add \"$id\" to the schema of %s", n.Name,
				)
			}
			addBranch(n.SchemaID, n.Name)
			tagged = append(tagged, n)
		}
	}

	// Subtypes of a variant are dispatched to their own export function
	for _, n := range e.graph.Nodes() {
		if n.SchemaID == "" || !n.IsObject() {
			continue
		}
		for _, variant := range tagged {
			if e.extends(n, variant.Name) {
				addBranch(n.SchemaID, n.Name)
				break
			}
		}
	}

	tag := tsutil.Access("v", e.opts.Discriminator)
	var b strings.Builder
	b.WriteString("((v: any) => {\n")
	if o.HasUndefined() {
		b.WriteString("if (v === undefined || v === null || typeof v !== \"object\") {\nreturn v;\n}\n")
	} else {
		b.WriteString("if (typeof v !== \"object\" || v === null) {\nreturn v;\n}\n")
	}
	if arrayVariant != "" {
		b.WriteString("if (Array.isArray(v)) {\nreturn " + tsutil.FunctionName(arrayVariant) + "(v, " + depth + ");\n}\n")
	}
	for _, id := range branches {
		b.WriteString("if (" + tag + " === " + tsutil.Quote(id) + ") {\nreturn " + tsutil.FunctionName(branchFor[id]) + "(v, " + depth + ");\n}\n")
	}
	b.WriteString("throw new Error(" + tsutil.Quote(where+": unrecognized "+e.opts.Discriminator+" ") + " + JSON.stringify(" + tag + "));\n")
	b.WriteString("})(" + expr + ")")
	return b.String(), nil
}

// extends reports whether n inherits, directly or not, from base
func (e *emitter) extends(n *ir.Node, base string) bool {
	chain := e.graph.Chain(n.Name)
	for _, c := range chain[:len(chain)-1] {
		if c.Name == base {
			return true
		}
	}
	return false
}
