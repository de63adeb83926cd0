package ir_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/schemagen/errors"
	fixtures "github.com/teranos/schemagen/internal/testing"
	"github.com/teranos/schemagen/ir"
)

func buildInline(t *testing.T, archive string) (*ir.Graph, error) {
	t.Helper()
	return fixtures.BuildArchive(fixtures.ParseArchive(archive), ir.DefaultExtension)
}

func mustBuild(t *testing.T, archive string) *ir.Graph {
	t.Helper()
	g, err := buildInline(t, archive)
	require.NoError(t, err)
	return g
}

func object(t *testing.T, g *ir.Graph, name string) *ir.ObjectValue {
	t.Helper()
	n, ok := g.Node(name)
	require.True(t, ok, "node %s not found", name)
	obj, ok := n.Value.(*ir.ObjectValue)
	require.True(t, ok, "node %s is %s, not object", name, n.Kind())
	return obj
}

func propNames(props []ir.NamedProp) []string {
	names := make([]string, 0, len(props))
	for _, p := range props {
		names = append(names, p.Name)
	}
	return names
}

func TestDesignModelLoads(t *testing.T) {
	g := fixtures.LoadGraph(t, fixtures.DesignArchive(t, ".."))

	var names []string
	for _, n := range g.Nodes() {
		names = append(names, n.Name)
	}
	assert.Equal(t, []string{
		"BlendMode", "Color", "FillType", "Fill", "Fills", "Frame",
		"GroupShape", "GroupShape_children",
		"Layer", "Layer_effects",
		"PrototypeInteraction", "PrototypeInteraction_trigger",
		"Shadow", "Shape",
		"Text", "Text_runs", "Text_runs_0", "Text_runs_0_style",
		"Vector",
	}, names)
}

func TestDependencyClosure(t *testing.T) {
	g := fixtures.LoadGraph(t, fixtures.DesignArchive(t, ".."))

	for _, n := range g.Nodes() {
		for _, dep := range n.Depends {
			_, ok := g.Node(dep)
			assert.True(t, ok, "%s depends on missing %s", n.Name, dep)
			assert.NotEqual(t, n.Name, dep, "%s depends on itself", n.Name)
		}
		if n.Extend != "" {
			_, ok := g.Node(n.Extend)
			assert.True(t, ok, "%s extends missing %s", n.Name, n.Extend)
		}
	}
}

func TestRequiredPropsComeFirst(t *testing.T) {
	g := fixtures.LoadGraph(t, fixtures.DesignArchive(t, ".."))

	assert.Equal(t, []string{"id", "name", "visible", "effects", "metadata"}, propNames(object(t, g, "Layer").Props))
	assert.Equal(t, []string{"color", "offsetX", "offsetY", "radius", "mask", "blendMode"}, propNames(object(t, g, "Shadow").Props))
	// Required order follows properties, not the required list
	assert.Equal(t, []string{"alpha", "red", "green", "blue"}, propNames(object(t, g, "Color").Props))
}

func TestNodeAttributes(t *testing.T) {
	g := fixtures.LoadGraph(t, fixtures.DesignArchive(t, ".."))

	fill, _ := g.Node("Fill")
	assert.Equal(t, "fill", fill.SchemaID)
	assert.Equal(t, "fill.json", fill.File)
	assert.Equal(t, "A paint applied to a shape", fill.Description)
	assert.Equal(t, []string{"BlendMode", "Color", "FillType"}, fill.Depends)

	color, _ := g.Node("Color")
	assert.Empty(t, color.SchemaID)
	assert.Empty(t, color.Depends)

	shape, _ := g.Node("Shape")
	assert.Equal(t, "Layer", shape.Extend)
	assert.Equal(t, []string{"Color", "Fills", "Layer"}, shape.Depends)

	vector, _ := g.Node("Vector")
	assert.True(t, vector.IsObject())
	assert.Empty(t, object(t, g, "Vector").Props)
}

func TestPropKinds(t *testing.T) {
	g := fixtures.LoadGraph(t, fixtures.DesignArchive(t, ".."))

	layer := object(t, g, "Layer")
	metadata, _ := layer.Prop("metadata")
	assert.Equal(t, ir.MapProp{Key: ir.String, Value: ir.Primitive{Kind: ir.String}}, metadata.Prop)

	visible, _ := layer.Prop("visible")
	assert.Equal(t, true, visible.Default)
	assert.False(t, visible.Required)

	name, _ := layer.Prop("name")
	assert.Equal(t, "Layer", name.Default)

	strokes, _ := object(t, g, "Shape").Prop("strokes")
	assert.Equal(t, ir.MapProp{Key: ir.Number, Value: ir.NodeRef{Name: "Color"}}, strokes.Prop)

	delay, _ := object(t, g, "PrototypeInteraction").Prop("delayMs")
	assert.Equal(t, ir.OneOf{Variants: []ir.Prop{ir.Primitive{Kind: ir.Number}, ir.Primitive{Kind: ir.Undefined}}}, delay.Prop)

	radius, _ := object(t, g, "Shadow").Prop("radius")
	assert.Equal(t, float64(4), radius.Default)

	start, _ := object(t, g, "Text_runs_0").Prop("start")
	assert.Equal(t, ir.Primitive{Kind: ir.Number}, start.Prop)
}

func TestHoisting(t *testing.T) {
	g := fixtures.LoadGraph(t, fixtures.DesignArchive(t, ".."))

	tests := []struct {
		name   string
		parent string
		kind   string
	}{
		{"GroupShape_children", "GroupShape", "array"},
		{"Layer_effects", "Layer", "array"},
		{"PrototypeInteraction_trigger", "PrototypeInteraction", "enum"},
		{"Text_runs", "Text", "array"},
		{"Text_runs_0", "Text_runs", "object"},
		{"Text_runs_0_style", "Text_runs_0", "object"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, ok := g.Node(tt.name)
			require.True(t, ok)
			assert.True(t, n.Inner)
			assert.Equal(t, tt.parent, n.Parent)
			assert.Equal(t, tt.kind, n.Kind())
		})
	}

	children, _ := g.Node("GroupShape_children")
	assert.Equal(t, []string{"Frame", "Shape", "Text", "Vector"}, children.Depends)

	// Inner nodes are not dependencies of their parent
	group, _ := g.Node("GroupShape")
	assert.False(t, group.DependsOn("GroupShape_children"))
}

func TestSelfReferenceResolvesToNearestNamedAncestor(t *testing.T) {
	g := mustBuild(t, `
-- tree.json --
{
  "type": "object",
  "properties": {
    "self": {"$ref": "#"},
    "branch": {
      "type": "object",
      "properties": {
        "next": {"$ref": "#"},
        "leaves": {"type": "array", "items": {"$ref": "#"}}
      }
    }
  }
}
`)

	self, _ := object(t, g, "Tree").Prop("self")
	assert.Equal(t, ir.NodeRef{Name: "Tree"}, self.Prop)

	next, _ := object(t, g, "Tree_branch").Prop("next")
	assert.Equal(t, ir.NodeRef{Name: "Tree"}, next.Prop)

	leaves, _ := g.Node("Tree_branch_leaves")
	assert.Equal(t, ir.NodeRef{Name: "Tree"}, leaves.Value.(*ir.ArrayValue).Item)

	tree, _ := g.Node("Tree")
	assert.Empty(t, tree.Depends)
}

func TestOrdinalNamesArePerParent(t *testing.T) {
	g := mustBuild(t, `
-- palette.json --
{
  "type": "object",
  "properties": {
    "swatch": {"oneOf": [
      {"type": "object", "properties": {"hex": {"type": "string"}}},
      {"type": "array", "items": {"type": "object", "properties": {"name": {"type": "string"}}}}
    ]},
    "tags": {"type": "array", "items": {"enum": ["warm", "cool"]}}
  }
}
`)

	swatch, _ := object(t, g, "Palette").Prop("swatch")
	assert.Equal(t, ir.OneOf{Variants: []ir.Prop{
		ir.NodeRef{Name: "Palette_0"},
		ir.NodeRef{Name: "Palette_1"},
	}}, swatch.Prop)

	nested, _ := g.Node("Palette_1")
	assert.Equal(t, ir.NodeRef{Name: "Palette_1_0"}, nested.Value.(*ir.ArrayValue).Item)

	tags, _ := g.Node("Palette_tags")
	assert.Equal(t, ir.NodeRef{Name: "Palette_tags_0"}, tags.Value.(*ir.ArrayValue).Item)

	tagEnum, _ := g.Node("Palette_tags_0")
	assert.Equal(t, &ir.EnumValue{Values: []string{"warm", "cool"}}, tagEnum.Value)
}

func TestChain(t *testing.T) {
	g := fixtures.LoadGraph(t, fixtures.DesignArchive(t, ".."))

	var names []string
	for _, n := range g.Chain("Frame") {
		names = append(names, n.Name)
	}
	assert.Equal(t, []string{"Layer", "Shape", "GroupShape", "Frame"}, names)
	assert.Nil(t, g.Chain("Missing"))

	assert.Equal(t, []string{"id", "name", "fills", "children"}, propNames(g.RequiredChain("Frame")))
}

func TestDependents(t *testing.T) {
	g := fixtures.LoadGraph(t, fixtures.DesignArchive(t, ".."))

	var names []string
	for _, n := range g.Dependents("Fill") {
		names = append(names, n.Name)
	}
	assert.Equal(t, []string{"Fills", "Layer", "Layer_effects"}, names)
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name    string
		archive string
		check   func(error) bool
		message string
	}{
		{
			name: "duplicate node name",
			archive: `
-- fill-type.json --
{"enum": ["a"]}
-- fill_type.json --
{"enum": ["b"]}
`,
			check:   errors.IsDuplicateNode,
			message: "node FillType is defined in both fill-type.json and fill_type.json",
		},
		{
			name: "hoisted names collide",
			archive: `
-- a.json --
{"type": "object", "properties": {"0": {"type": "object"}, "x": {"oneOf": [{"type": "object"}]}}}
`,
			check:   errors.IsDuplicateNode,
			message: "node A_0",
		},
		{
			name: "dangling ref",
			archive: `
-- fill.json --
{"type": "object", "properties": {"color": {"$ref": "color.json"}}}
`,
			check:   errors.IsUnresolvedRef,
			message: "node Fill depends on Color",
		},
		{
			name: "dangling extend",
			archive: `
-- frame.json --
{"allOf": [{"$ref": "group.json"}], "type": "object"}
`,
			check:   errors.IsUnresolvedRef,
			message: "Frame",
		},
		{
			name: "multiple allOf",
			archive: `
-- a.json --
{"type": "object"}
-- b.json --
{"type": "object"}
-- c.json --
{"allOf": [{"$ref": "a.json"}, {"$ref": "b.json"}], "type": "object"}
`,
			check:   errors.IsSchemaError,
			message: "c.json: node C: allOf has 2 entries",
		},
		{
			name: "allOf entry without ref",
			archive: `
-- c.json --
{"allOf": [{"type": "object"}], "type": "object"}
`,
			check:   errors.IsSchemaError,
			message: "allOf entry must be a $ref",
		},
		{
			name: "allOf at property position",
			archive: `
-- a.json --
{"type": "object"}
-- c.json --
{"type": "object", "properties": {"x": {"allOf": [{"$ref": "a.json"}]}}}
`,
			check:   errors.IsSchemaError,
			message: "allOf is only supported at the schema root",
		},
		{
			name: "unsupported ref shape",
			archive: `
-- c.json --
{"type": "object", "properties": {"x": {"$ref": "#/definitions/x"}}}
`,
			check:   errors.IsSchemaError,
			message: `unsupported $ref "#/definitions/x"`,
		},
		{
			name: "unknown type",
			archive: `
-- c.json --
{"type": "object", "properties": {"x": {"type": "tuple"}}}
`,
			check:   errors.IsSchemaError,
			message: `unknown type "tuple"`,
		},
		{
			name: "bad map key",
			archive: `
-- c.json --
{"type": "object", "properties": {"x": {"type": "map", "key": {"type": "boolean"}, "value": {"type": "string"}}}}
`,
			check:   errors.IsSchemaError,
			message: "map key at /properties/x/key must be a string or number",
		},
		{
			name: "bad items shape",
			archive: `
-- c.json --
{"type": "array", "items": {"description": "anything"}}
`,
			check:   errors.IsSchemaError,
			message: "unrecognized array items schema",
		},
		{
			name: "array without items",
			archive: `
-- c.json --
{"type": "array"}
`,
			check:   errors.IsSchemaError,
			message: "array schema has no items",
		},
		{
			name: "inheritance cycle",
			archive: `
-- a.json --
{"allOf": [{"$ref": "b.json"}], "type": "object"}
-- b.json --
{"allOf": [{"$ref": "a.json"}], "type": "object"}
`,
			check:   errors.IsSchemaError,
			message: "inheritance cycle: A -> B -> A",
		},
		{
			name: "malformed json",
			archive: `
-- c.json --
{"type": "object",
`,
			check:   errors.IsSchemaError,
			message: "c.json",
		},
		{
			name: "extend across kinds",
			archive: `
-- list.json --
{"type": "array", "items": {"type": "string"}}
-- c.json --
{"allOf": [{"$ref": "list.json"}], "type": "object"}
`,
			check:   errors.IsSchemaError,
			message: "node C (object) cannot extend List (array)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := buildInline(t, tt.archive)
			require.Error(t, err)
			assert.True(t, tt.check(err), "unexpected error class: %v", err)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestTypeListAtRootIsRejected(t *testing.T) {
	_, err := buildInline(t, `
-- c.json --
{"type": ["string", "null"]}
`)
	require.Error(t, err)
	assert.True(t, errors.IsSchemaError(err))
}

func TestSchemaIDStripsExtensionAndPath(t *testing.T) {
	g := mustBuild(t, `
-- badge.json --
{"$id": "https://example.com/schemas/badge.json", "type": "object"}
`)
	badge, _ := g.Node("Badge")
	assert.Equal(t, "badge", badge.SchemaID)
}
