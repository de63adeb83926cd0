package commands

import (
	"fmt"
	"io"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/teranos/schemagen/errors"
	"github.com/teranos/schemagen/ir"
	"github.com/teranos/schemagen/order"
)

// GraphCmd prints the IR dependency graph
var GraphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Show the schema dependency graph",
	Long: `Load the schemas and print every node with its base type and
dependencies, followed by the nodes each artifact has to emit before their
dependencies because of a cycle.

Formats:
  text - one node per line (default)
  dot  - Graphviz; pipe into "dot -Tsvg"
  json - machine-readable

Examples:
  schemagen graph
  schemagen graph --format dot | dot -Tsvg > schemas.svg`,
	Args: cobra.NoArgs,
	RunE: runGraph,
}

var graphFormat string

func init() {
	addGenerateFlags(GraphCmd)
	GraphCmd.Flags().StringVarP(&graphFormat, "format", "f", "text", "Output format: text, dot, json")
}

func runGraph(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	tg := cfg.Typegen().WithDefaults()

	g, err := ir.LoadDir(tg.SchemaDir, tg.Extension)
	if err != nil {
		return err
	}
	return writeGraph(cmd.OutOrStdout(), g, graphFormat, tg.ExtraOrder)
}

type graphNode struct {
	Name     string   `json:"name"`
	Kind     string   `json:"kind"`
	Parent   string   `json:"parent,omitempty"`
	Extend   string   `json:"extend,omitempty"`
	SchemaID string   `json:"schema_id,omitempty"`
	File     string   `json:"file"`
	Depends  []string `json:"depends"`
}

type graphReport struct {
	Nodes []graphNode `json:"nodes"`

	// Fallback lists, per artifact, the nodes emitted before their dependencies
	Fallback map[string][]string `json:"fallback"`
}

// fallbacks walks the graph the way each artifact does, without emitting
func fallbacks(g *ir.Graph, extraOrder []string) (map[string][]string, error) {
	noop := func(*ir.Node) error { return nil }

	unconditional, err := order.Walk(g.Nodes(), noop, order.Unconditional())
	if err != nil {
		return nil, err
	}
	forced, err := order.Walk(g.Nodes(), noop, order.Forced(extraOrder...))
	if err != nil {
		return nil, err
	}
	return map[string][]string{
		"types":     unconditional.Fallback,
		"classes":   forced.Fallback,
		"serialize": unconditional.Fallback,
	}, nil
}

func writeGraph(w io.Writer, g *ir.Graph, format string, extraOrder []string) error {
	fb, err := fallbacks(g, extraOrder)
	if err != nil {
		return err
	}

	switch format {
	case "text":
		return writeGraphText(w, g, fb)
	case "dot":
		return writeGraphDot(w, g)
	case "json":
		report := graphReport{Fallback: fb}
		for _, n := range g.Nodes() {
			report.Nodes = append(report.Nodes, graphNode{
				Name:     n.Name,
				Kind:     n.Kind(),
				Parent:   n.Parent,
				Extend:   n.Extend,
				SchemaID: n.SchemaID,
				File:     n.File,
				Depends:  append([]string{}, n.Depends...),
			})
		}
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return errors.Wrap(err, "failed to marshal graph")
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	}
	return errors.Newf("unsupported format: %s (supported: text, dot, json)", format)
}

func writeGraphText(w io.Writer, g *ir.Graph, fb map[string][]string) error {
	var b strings.Builder
	for _, n := range g.Nodes() {
		fmt.Fprintf(&b, "%s (%s", n.Name, n.Kind())
		if n.Inner {
			fmt.Fprintf(&b, ", inner of %s", n.Parent)
		}
		b.WriteString(")")
		if n.Extend != "" {
			fmt.Fprintf(&b, " extends %s", n.Extend)
		}
		b.WriteString("\n")
		if len(n.Depends) > 0 {
			fmt.Fprintf(&b, "  depends: %s\n", strings.Join(n.Depends, ", "))
		}
	}

	for _, artifact := range []string{"types", "classes", "serialize"} {
		if names := fb[artifact]; len(names) > 0 {
			fmt.Fprintf(&b, "\ncycle fallback (%s): %s", artifact, strings.Join(names, ", "))
		}
	}
	if b.Len() > 0 && !strings.HasSuffix(b.String(), "\n") {
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeGraphDot(w io.Writer, g *ir.Graph) error {
	var b strings.Builder
	b.WriteString("digraph schemas {\n")
	b.WriteString("  rankdir=LR;\n")
	b.WriteString("  node [shape=box];\n")

	for _, n := range g.Nodes() {
		attrs := ""
		switch {
		case n.Inner:
			attrs = " [style=dashed]"
		case n.IsEnum():
			attrs = " [shape=ellipse]"
		}
		fmt.Fprintf(&b, "  %q%s;\n", n.Name, attrs)
	}
	for _, n := range g.Nodes() {
		if n.Inner {
			fmt.Fprintf(&b, "  %q -> %q [style=dotted];\n", n.Parent, n.Name)
		}
		if n.Extend != "" {
			fmt.Fprintf(&b, "  %q -> %q [style=bold, label=\"extends\"];\n", n.Name, n.Extend)
		}
		for _, d := range n.Depends {
			if d == n.Extend {
				continue
			}
			fmt.Fprintf(&b, "  %q -> %q;\n", n.Name, d)
		}
	}
	b.WriteString("}\n")

	_, err := io.WriteString(w, b.String())
	return err
}
