package serialize

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/schemagen/errors"
	fixtures "github.com/teranos/schemagen/internal/testing"
	"github.com/teranos/schemagen/ir"
	"github.com/teranos/schemagen/typegen/inject"
	"github.com/teranos/schemagen/typegen/tsutil"
	"github.com/teranos/schemagen/writer"
)

func generate(t *testing.T, g *ir.Graph, injections *inject.Set) string {
	t.Helper()
	var out bytes.Buffer
	w := writer.New(&out)
	_, err := NewGenerator(tsutil.Options{}, injections).Generate(w, g)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return out.String()
}

func generateErr(t *testing.T, archive string) error {
	t.Helper()
	g := fixtures.LoadGraph(t, fixtures.ParseArchive(archive))
	var out bytes.Buffer
	_, err := NewGenerator(tsutil.Options{}, nil).Generate(writer.New(&out), g)
	return err
}

func designOutput(t *testing.T) string {
	t.Helper()
	return generate(t, fixtures.LoadGraph(t, fixtures.DesignArchive(t, "../..")), nil)
}

func TestPrelude(t *testing.T) {
	out := designOutput(t)

	assert.Contains(t, out, "\nimport * as t from \"./types\";\n")
	assert.Contains(t, out, "export type Simplified<T> = ")
	assert.Contains(t, out, "& { typeId?: string }")
	assert.Contains(t, out, `function nextDepth(depth?: number): number | undefined {
  return depth === undefined ? undefined : depth - 1;
}`)
}

func TestExportFill(t *testing.T) {
	out := designOutput(t)

	// The required fields are copied unconditionally in declaration order, which
	// gives {typeId, id, isEnabled, fillType, color} for a fully required source.
	assert.Contains(t, out, `export function exportFill(source: t.Fill, depth?: number): Simplified<t.Fill> {
  const result: any = {};
  result.typeId = "fill";
  result.id = source.id;
  result.isEnabled = source.isEnabled;
  result.fillType = exportFillType(source.fillType, depth);
  result.color = exportColor(source.color, depth);
  if (source.opacity !== undefined) {
    result.opacity = source.opacity;
  }
  if (source.blendMode !== undefined) {
    result.blendMode = exportBlendMode(source.blendMode, depth);
  }
  return result;
}`)

	// Color has no $id, so no discriminator, and keeps its property order
	assert.Contains(t, out, `export function exportColor(source: t.Color, depth?: number): Simplified<t.Color> {
  const result: any = {};
  result.alpha = source.alpha;
  result.red = source.red;
  result.green = source.green;
  result.blue = source.blue;
  return result;
}`)
}

func TestEnumIsIdentity(t *testing.T) {
	out := designOutput(t)

	assert.Contains(t, out, `export function exportFillType(source: t.FillType, depth?: number): Simplified<t.FillType> {
  return source;
}`)
}

func TestOptionalFieldOmitted(t *testing.T) {
	out := designOutput(t)

	assert.Contains(t, out, `  if (source.mask !== undefined) {
    result.mask = source.mask;
  }`)
	assert.NotContains(t, out, "result.mask = source.mask;\n  if")
}

func TestPrimitiveMapIsCopied(t *testing.T) {
	out := designOutput(t)

	assert.Contains(t, out, `  if (source.metadata !== undefined) {
    result.metadata = { ...(source.metadata) };
  }`)
	assert.NotContains(t, out, "result.metadata = source.metadata;")
}

func TestSubclassSeedsFromBase(t *testing.T) {
	out := designOutput(t)

	assert.Contains(t, out, `export function exportShape(source: t.Shape, depth?: number): Simplified<t.Shape> {
  const result: any = exportLayer(source, depth);
  result.typeId = "shape";
  result.fills = exportFills(source.fills, depth);
  if (source.strokes !== undefined) {
    result.strokes = Object.fromEntries(Object.entries(source.strokes).map(([k, v]: [string, any]) => [k, exportColor(v, nextDepth(depth))]));
  }`)

	assert.Contains(t, out, `export function exportVector(source: t.Vector, depth?: number): Simplified<t.Vector> {
  const result: any = exportShape(source, depth);
  result.typeId = "vector";
  return result;
}`)
}

func TestArrayConversion(t *testing.T) {
	out := designOutput(t)

	assert.Contains(t, out, `export function exportFills(source: t.Fills, depth?: number): Simplified<t.Fills> {
  const result: any[] = [];
  for (const item of source) {
    result.push(exportFill(item, nextDepth(depth)));
  }
  return result;
}`)

	// Primitive items pass through unchanged
	g := fixtures.LoadGraph(t, fixtures.ParseArchive(`
-- tags.json --
{"type": "array", "items": {"type": "string"}}
`))
	assert.Contains(t, generate(t, g, nil), "  for (const item of source) {\n    result.push(item);\n  }")
}

func TestOneOfDispatch(t *testing.T) {
	out := designOutput(t)

	assert.Contains(t, out, `function exportLayer_effects(source: Array<t.Fill | t.Shadow | t.PrototypeInteraction>, depth?: number): Simplified<Array<t.Fill | t.Shadow | t.PrototypeInteraction>> {
  const result: any[] = [];
  for (const item of source) {
    result.push(((v: any) => {
      if (typeof v !== "object" || v === null) {
        return v;
      }
      if (v.typeId === "fill") {
        return exportFill(v, nextDepth(depth));
      }
      if (v.typeId === "shadow") {
        return exportShadow(v, nextDepth(depth));
      }
      if (v.typeId === "prototype-interaction") {
        return exportPrototypeInteraction(v, nextDepth(depth));
      }
      throw new Error("Layer_effects: unrecognized typeId " + JSON.stringify(v.typeId));
    })(item));
  }
  return result;
}`)
	assert.NotContains(t, out, "export function exportLayer_effects")
}

func TestOneOfDispatchIncludesSubtypes(t *testing.T) {
	out := designOutput(t)

	start := strings.Index(out, "function exportGroupShape_children(")
	require.GreaterOrEqual(t, start, 0)
	body := out[start:]
	body = body[:strings.Index(body, "\n}\n")]

	for _, id := range []string{`"shape"`, `"text"`, `"vector"`, `"frame"`, `"group-shape"`} {
		i := strings.Index(body, "v.typeId === "+id)
		require.GreaterOrEqual(t, i, 0, id)
		assert.Equal(t, 1, strings.Count(body, "v.typeId === "+id), id)
	}
	assert.Less(t, strings.Index(body, `=== "frame"`), strings.Index(body, `=== "group-shape"`))
	assert.Contains(t, body, "return exportGroupShape(v, nextDepth(depth));")
}

func TestNullableUnion(t *testing.T) {
	g := fixtures.LoadGraph(t, fixtures.ParseArchive(`
-- fill.json --
{"$id": "fill.json", "type": "object"}
-- list.json --
{"type": "array", "items": {"$ref": "fill.json"}}
-- slot.json --
{
  "type": "object",
  "required": ["content"],
  "properties": {
    "content": {"oneOf": [{"type": "null"}, {"$ref": "list.json"}, {"$ref": "fill.json"}]},
    "label": {"type": ["string", "null"]}
  }
}
`))
	out := generate(t, g, nil)

	assert.Contains(t, out, `  result.content = ((v: any) => {
    if (v === undefined || v === null || typeof v !== "object") {
      return v;
    }
    if (Array.isArray(v)) {
      return exportList(v, depth);
    }
    if (v.typeId === "fill") {
      return exportFill(v, depth);
    }
    throw new Error("Slot.content: unrecognized typeId " + JSON.stringify(v.typeId));
  })(source.content);`)
	assert.Contains(t, out, "    result.label = source.label;\n")
}

func TestDispatchErrors(t *testing.T) {
	tests := []struct {
		name    string
		archive string
		message string
	}{
		{
			name: "variant without discriminator",
			archive: `
-- color.json --
{"type": "object"}
-- fill.json --
{"$id": "fill.json", "type": "object"}
-- paint.json --
{"type": "object", "properties": {"p": {"oneOf": [{"$ref": "fill.json"}, {"$ref": "color.json"}]}}}
`,
			message: "Paint.p: variant Color has no discriminator",
		},
		{
			name: "inline variant without discriminator",
			archive: `
-- paint.json --
{"type": "object", "properties": {"p": {"oneOf": [{"type": "object"}, {"type": "string"}]}}}
`,
			message: "variant Paint_0 has no discriminator",
		},
		{
			name: "two array variants",
			archive: `
-- a.json --
{"type": "array", "items": {"type": "string"}}
-- b.json --
{"type": "array", "items": {"type": "number"}}
-- paint.json --
{"type": "object", "properties": {"p": {"oneOf": [{"$ref": "a.json"}, {"$ref": "b.json"}]}}}
`,
			message: "more than one array variant (A, B)",
		},
		{
			name: "map variant",
			archive: `
-- paint.json --
{"type": "object", "properties": {"p": {"oneOf": [{"type": "map", "key": {"type": "string"}, "value": {"type": "string"}}, {"type": "number"}]}}}
`,
			message: "a map variant cannot be told apart at runtime",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := generateErr(t, tt.archive)
			require.Error(t, err)
			assert.True(t, errors.IsGenerationError(err), "unexpected error class: %v", err)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestEnumVariantsPassThrough(t *testing.T) {
	g := fixtures.LoadGraph(t, fixtures.ParseArchive(`
-- mode.json --
{"enum": ["a", "b"]}
-- fill.json --
{"$id": "fill.json", "type": "object"}
-- paint.json --
{"type": "object", "required": ["p"], "properties": {"p": {"oneOf": [{"$ref": "mode.json"}, {"$ref": "fill.json"}]}}}
`))
	out := generate(t, g, nil)

	assert.Contains(t, out, `if (v.typeId === "fill") {`)
	assert.NotContains(t, out, `=== "mode"`)
}

func TestContentInjection(t *testing.T) {
	g := fixtures.LoadGraph(t, fixtures.DesignArchive(t, "../.."))
	out := generate(t, g, inject.New(map[string]map[string]inject.Injection{
		"serialize": {"GroupShape": {Content: `if (depth !== undefined && depth <= 0) {
return { typeId: "group-shape", id: source.id, name: source.name } as any;
}
const result: any = exportShape(source, depth);
result.typeId = "group-shape";
result.children = source.children.map((c) => exportGroupShape_children([c], nextDepth(depth))[0]);
return result;`}},
	}))

	assert.Contains(t, out, `export function exportGroupShape(source: t.GroupShape, depth?: number): Simplified<t.GroupShape> {
  if (depth !== undefined && depth <= 0) {
    return { typeId: "group-shape", id: source.id, name: source.name } as any;
  }
  const result: any = exportShape(source, depth);`)
	assert.Equal(t, 1, strings.Count(out, "function exportGroupShape("))
}

func TestEveryNodeHasOneFunction(t *testing.T) {
	g := fixtures.LoadGraph(t, fixtures.DesignArchive(t, "../.."))
	out := generate(t, g, nil)

	for _, n := range g.Nodes() {
		assert.Equal(t, 1, strings.Count(out, "function "+tsutil.FunctionName(n.Name)+"("), n.Name)
	}
}
