package ir

import (
	"strings"

	"github.com/teranos/schemagen/errors"
	"github.com/teranos/schemagen/logger"
)

// Graph is the validated, read-only symbol table produced by Builder.Build.
// Every Depends entry and Extend of every node resolves inside the graph, and
// inheritance chains are acyclic.
type Graph struct {
	nodes map[string]*Node
	order []*Node
}

// Build validates the accumulated nodes and returns the Graph.
// The Builder must not be used afterwards.
func (b *Builder) Build() (*Graph, error) {
	g := &Graph{nodes: b.nodes, order: b.order}

	for _, n := range g.order {
		for _, dep := range n.Depends {
			if _, ok := g.nodes[dep]; !ok {
				return nil, errors.WithHintf(
					errors.UnresolvedReff("%s: node %s depends on %s, which is not defined", n.File, n.Name, dep),
					"add a schema file that maps to %s or fix the $ref", dep,
				)
			}
		}
		if n.Extend == "" {
			continue
		}
		base, ok := g.nodes[n.Extend]
		if !ok {
			return nil, errors.UnresolvedReff("%s: node %s extends %s, which is not defined", n.File, n.Name, n.Extend)
		}
		if base.Kind() != n.Kind() {
			return nil, errors.SchemaErrorf(n.File, "node %s (%s) cannot extend %s (%s)", n.Name, n.Kind(), base.Name, base.Kind())
		}
	}

	for _, n := range g.order {
		if err := g.checkChain(n); err != nil {
			return nil, err
		}
	}

	b.log.Debugw("built graph", logger.FieldCount, len(g.order))
	return g, nil
}

func (g *Graph) checkChain(n *Node) error {
	seen := map[string]bool{n.Name: true}
	path := []string{n.Name}
	for cur := n; cur.Extend != ""; {
		cur = g.nodes[cur.Extend]
		path = append(path, cur.Name)
		if seen[cur.Name] {
			return errors.SchemaErrorf(n.File, "inheritance cycle: %s", strings.Join(path, " -> "))
		}
		seen[cur.Name] = true
	}
	return nil
}

// Node looks up a node by name
func (g *Graph) Node(name string) (*Node, bool) {
	n, ok := g.nodes[name]
	return n, ok
}

// Nodes returns every node in load order: files sorted by name, each top-level
// node followed by the inner nodes hoisted out of it.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, len(g.order))
	copy(out, g.order)
	return out
}

// Len returns the number of nodes
func (g *Graph) Len() int {
	return len(g.order)
}

// Chain returns the inheritance chain of name, most-base first and ending with
// the node itself. It returns nil for an unknown name.
func (g *Graph) Chain(name string) []*Node {
	n, ok := g.nodes[name]
	if !ok {
		return nil
	}
	var chain []*Node
	for cur := n; ; {
		chain = append([]*Node{cur}, chain...)
		if cur.Extend == "" {
			return chain
		}
		cur = g.nodes[cur.Extend]
	}
}

// RequiredChain returns the required properties of every node in the chain of
// name, most-base first.
func (g *Graph) RequiredChain(name string) []NamedProp {
	var props []NamedProp
	for _, n := range g.Chain(name) {
		if obj, ok := n.Value.(*ObjectValue); ok {
			props = append(props, obj.Required()...)
		}
	}
	return props
}

// Dependents returns the nodes whose Depends include name, in load order.
func (g *Graph) Dependents(name string) []*Node {
	var out []*Node
	for _, n := range g.order {
		if n.DependsOn(name) {
			out = append(out, n)
		}
	}
	return out
}
