package tsutil

import (
	"strings"

	"github.com/teranos/schemagen/internal/util"
	"github.com/teranos/schemagen/ir"
)

// Renderer turns IR props into TypeScript type expressions.
//
// References to a node are rendered by name when Named reports true for it, and
// structurally otherwise. Each artifact decides which nodes it can name: types.ts
// declares every node, while other modules cannot see the unexported inner ones.
type Renderer struct {
	Graph *ir.Graph

	// Qualifier is prepended to named references, e.g. "t."
	Qualifier string

	// Named reports whether a node is referenced by name. nil names every node.
	Named func(*ir.Node) bool
}

// Prop renders the type of p.
func (r Renderer) Prop(p ir.Prop) string {
	switch v := p.(type) {
	case ir.Primitive:
		return string(v.Kind)
	case ir.NodeRef:
		return r.Ref(v.Name)
	case ir.MapProp:
		return "{ [key: " + string(v.Key) + "]: " + r.Prop(v.Value) + " }"
	case ir.OneOf:
		parts := make([]string, 0, len(v.Variants))
		for _, variant := range v.Variants {
			parts = append(parts, r.Prop(variant))
		}
		return strings.Join(parts, " | ")
	}
	return "unknown"
}

// Ref renders a reference to the named node.
func (r Renderer) Ref(name string) string {
	n, ok := r.Graph.Node(name)
	if !ok {
		return r.Qualifier + name
	}
	if r.Named == nil || r.Named(n) {
		return r.Qualifier + n.Name
	}
	return r.Inline(n)
}

// Inline renders a node's shape structurally instead of by name.
func (r Renderer) Inline(n *ir.Node) string {
	var body string
	switch v := n.Value.(type) {
	case *ir.ObjectValue:
		body = r.ObjectLiteral(v.Props)
	case *ir.ArrayValue:
		body = "Array<" + r.Prop(v.Item) + ">"
	case *ir.EnumValue:
		parts := make([]string, 0, len(v.Values))
		for _, val := range v.Values {
			parts = append(parts, Quote(val))
		}
		return strings.Join(parts, " | ")
	default:
		return "unknown"
	}

	if n.Extend != "" {
		return r.Ref(n.Extend) + " & " + body
	}
	return body
}

// ObjectLiteral renders props as a single-line object type
func (r Renderer) ObjectLiteral(props []ir.NamedProp) string {
	if len(props) == 0 {
		return "{}"
	}
	fields := make([]string, 0, len(props))
	for _, p := range props {
		fields = append(fields, r.Field(p))
	}
	return "{ " + strings.Join(fields, "; ") + " }"
}

// Field renders "name: T" or "name?: T"
func (r Renderer) Field(p ir.NamedProp) string {
	opt := ""
	if !p.Required {
		opt = "?"
	}
	return PropertyKey(p.Name) + opt + ": " + r.Prop(p.Prop)
}

// DefaultValue renders the default literal of p. A string default on a property
// typed by a named enum renders as the enum member. Returns "" when p has no
// usable default.
func (r Renderer) DefaultValue(p ir.NamedProp) string {
	if p.Default == nil {
		return ""
	}
	if s, ok := p.Default.(string); ok {
		if ref, ok := p.Prop.(ir.NodeRef); ok {
			if n, ok := r.Graph.Node(ref.Name); ok && (r.Named == nil || r.Named(n)) {
				if enum, ok := n.Value.(*ir.EnumValue); ok && contains(enum.Values, s) {
					return r.Qualifier + n.Name + "." + util.EnumMemberName(s)
				}
			}
		}
	}
	return Literal(p.Default)
}

// LiteralEnum reports whether n is a hoisted inline enum. Such enums are never
// declared; every artifact renders them as a union of string literals.
func LiteralEnum(n *ir.Node) bool {
	return n.Inner && n.IsEnum()
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// FunctionName returns the serialization function name of a node
func FunctionName(name string) string {
	return "export" + name
}
