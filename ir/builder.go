package ir

import (
	"path"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/teranos/schemagen/errors"
	"github.com/teranos/schemagen/internal/util"
	"github.com/teranos/schemagen/logger"
	"github.com/teranos/schemagen/schema"
)

// DefaultExtension is the schema file extension used when none is configured
const DefaultExtension = ".json"

// Builder accumulates nodes from schema documents. It is the only phase that
// mutates nodes; call Build to validate and freeze the result.
type Builder struct {
	ext   string
	nodes map[string]*Node
	order []*Node

	// ordinals counts unnamed hoisted children per parent
	ordinals map[string]int

	log *zap.SugaredLogger
}

// NewBuilder creates a builder for schemas whose file names end in ext.
// $ref values ending in ext are node references.
func NewBuilder(ext string) *Builder {
	if ext == "" {
		ext = DefaultExtension
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return &Builder{
		ext:      ext,
		nodes:    make(map[string]*Node),
		ordinals: make(map[string]int),
		log:      logger.ComponentLogger("ir.builder"),
	}
}

// Extension returns the schema extension the builder resolves references against
func (b *Builder) Extension() string {
	return b.ext
}

// AddFile reads and adds one schema file.
func (b *Builder) AddFile(filePath string) error {
	raw, err := schema.ReadFile(filePath)
	if err != nil {
		return err
	}
	return b.AddDocument(filepath.Base(filePath), raw)
}

// AddSource decodes data as the schema file named file and adds it.
func (b *Builder) AddSource(file string, data []byte) error {
	raw, err := schema.Decode(file, data)
	if err != nil {
		return err
	}
	return b.AddDocument(filepath.Base(file), raw)
}

// NameForFile returns the node name a schema file maps to:
// the base name without extension, Pascal-cased.
func NameForFile(file string) string {
	base := path.Base(filepath.ToSlash(file))
	if ext := path.Ext(base); ext != "" {
		base = strings.TrimSuffix(base, ext)
	}
	return util.ToPascalCase(base)
}

// AddDocument adds a decoded schema document as a top-level node.
func (b *Builder) AddDocument(file string, raw *schema.Value) error {
	s, err := schema.Parse(raw)
	if err != nil {
		return errors.Mark(errors.Wrapf(err, "%s", file), errors.ErrSchema)
	}

	if logger.ShouldOutput(logger.Verbosity, logger.OutputSchemaDecode) {
		logger.ChildLogger(b.log,
			logger.FieldFile, file,
			logger.FieldCategory, logger.CategoryName(logger.OutputSchemaDecode),
		).Debugw("decoded schema",
			"types", s.Types,
			"properties", len(s.Properties),
			"ref", s.Ref,
			"one_of", len(s.OneOf),
		)
	}

	name := NameForFile(file)
	if name == "" {
		return errors.SchemaErrorf(file, "file name does not yield a node name")
	}

	node := &Node{
		Name:        name,
		Description: s.Description,
		SchemaID:    b.schemaID(s.ID),
		File:        file,
	}

	if s.HasAllOf {
		base, err := b.extendOf(file, name, s)
		if err != nil {
			return err
		}
		node.Extend = base
	}

	if err := b.add(node); err != nil {
		return err
	}

	ctx := &scope{file: file, root: name}
	value, err := b.nodeValue(ctx, node, s)
	if err != nil {
		return err
	}
	node.Value = value
	node.Depends = b.collectDepends(s.Raw, name)

	b.log.Debugw("loaded schema",
		logger.FieldNode, name,
		logger.FieldKind, node.Kind(),
		logger.FieldExtend, node.Extend,
		logger.FieldDepends, node.Depends,
		logger.FieldFile, file,
	)
	return nil
}

// scope carries per-document context while walking a schema tree
type scope struct {
	file string
	// root is the nearest non-inner node, the target of "$ref": "#"
	root string
}

func (b *Builder) add(node *Node) error {
	if existing, ok := b.nodes[node.Name]; ok {
		return errors.WithHintf(
			errors.DuplicateNodef("node %s is defined in both %s and %s", node.Name, existing.File, node.File),
			"rename one of the schema files or the inline property that produced %s", node.Name,
		)
	}
	b.nodes[node.Name] = node
	b.order = append(b.order, node)
	return nil
}

func (b *Builder) schemaID(id string) string {
	if id == "" {
		return ""
	}
	id = path.Base(id)
	return strings.TrimSuffix(id, b.ext)
}

func (b *Builder) extendOf(file, name string, s *schema.Schema) (string, error) {
	switch len(s.AllOf) {
	case 0:
		return "", nil
	case 1:
	default:
		return "", errors.WithHint(
			errors.SchemaErrorf(file, "node %s: allOf has %d entries, at most one base type is supported", name, len(s.AllOf)),
			"move the extra schemas into properties of the node itself",
		)
	}

	base := s.AllOf[0]
	if base.Ref == "" {
		return "", errors.SchemaErrorf(file, "node %s: allOf entry must be a $ref", name)
	}
	if base.Ref == "#" {
		return "", errors.SchemaErrorf(file, "node %s: cannot extend itself", name)
	}
	return b.refName(file, base.Ref)
}

// refName maps a $ref ending in the schema extension to its node name
func (b *Builder) refName(file, ref string) (string, error) {
	if !strings.HasSuffix(ref, b.ext) {
		return "", errors.WithHintf(
			errors.SchemaErrorf(file, "unsupported $ref %q", ref),
			"references must name a schema file ending in %s, or be \"#\"", b.ext,
		)
	}
	return NameForFile(ref), nil
}

func (b *Builder) resolveRef(ctx *scope, ref string) (string, error) {
	if ref == "#" {
		return ctx.root, nil
	}
	return b.refName(ctx.file, ref)
}

// nodeValue builds the value of a node from its schema. Inline children are
// hoisted into nodes of their own as they are encountered.
func (b *Builder) nodeValue(ctx *scope, node *Node, s *schema.Schema) (Value, error) {
	if s.HasEnum {
		return &EnumValue{Values: s.Enum}, nil
	}

	switch s.Type() {
	case "object":
		return b.objectValue(ctx, node, s)
	case "array":
		if s.Items == nil {
			return nil, errors.SchemaErrorf(ctx.file, "node %s: array schema has no items", node.Name)
		}
		item, err := b.itemProp(ctx, node, s.Items)
		if err != nil {
			return nil, err
		}
		return &ArrayValue{Item: item}, nil
	case "":
		// A root that only extends, or only lists properties, is an object
		if len(s.Types) == 0 && (len(s.Properties) > 0 || s.HasAllOf) {
			return b.objectValue(ctx, node, s)
		}
		if len(s.Types) > 1 {
			return nil, errors.SchemaErrorf(ctx.file, "node %s: a type list is only supported at property position", node.Name)
		}
		return nil, errors.SchemaErrorf(ctx.file, "node %s: schema has no type", node.Name)
	}

	return nil, errors.SchemaErrorf(ctx.file, "node %s: unsupported type %q for a named definition", node.Name, s.Type())
}

func (b *Builder) objectValue(ctx *scope, node *Node, s *schema.Schema) (*ObjectValue, error) {
	var required, optional []NamedProp

	for _, p := range s.Properties {
		prop, err := b.prop(ctx, node, p.Name, p.Schema)
		if err != nil {
			return nil, err
		}

		np := NamedProp{
			Name:        p.Name,
			Prop:        prop,
			Required:    s.IsRequired(p.Name),
			Description: p.Schema.Description,
		}
		if p.Schema.Default != nil {
			np.Default = p.Schema.Default.Interface()
		}

		if np.Required {
			required = append(required, np)
		} else {
			optional = append(optional, np)
		}
	}

	return &ObjectValue{Props: append(required, optional...)}, nil
}

// itemProp restricts array items to refs, inline objects or arrays, oneOf, enums
// and primitives.
func (b *Builder) itemProp(ctx *scope, parent *Node, s *schema.Schema) (Prop, error) {
	switch {
	case s.Type() == "map":
		return nil, errors.SchemaErrorf(ctx.file, "node %s: array items cannot be a map, wrap it in an object", parent.Name)
	case s.HasAllOf:
		return nil, errors.SchemaErrorf(ctx.file, "node %s: allOf is not supported in array items", parent.Name)
	case s.Ref == "" && len(s.OneOf) == 0 && !s.HasEnum && len(s.Types) == 0:
		return nil, errors.SchemaErrorf(ctx.file, "node %s: unrecognized array items schema", parent.Name)
	}
	return b.prop(ctx, parent, "", s)
}

// prop converts a schema at property position. name is the property name, or ""
// for array items, oneOf members and map values.
func (b *Builder) prop(ctx *scope, parent *Node, name string, s *schema.Schema) (Prop, error) {
	if s.HasAllOf {
		return nil, errors.WithHint(
			errors.SchemaErrorf(ctx.file, "node %s: allOf is only supported at the schema root (at %s)", parent.Name, s.Pointer),
			"use $ref to reference the base type instead",
		)
	}

	if s.Ref != "" {
		target, err := b.resolveRef(ctx, s.Ref)
		if err != nil {
			return nil, err
		}
		return NodeRef{Name: target}, nil
	}

	if len(s.OneOf) > 0 {
		variants := make([]Prop, 0, len(s.OneOf))
		for _, v := range s.OneOf {
			p, err := b.prop(ctx, parent, "", v)
			if err != nil {
				return nil, err
			}
			variants = append(variants, p)
		}
		return OneOf{Variants: variants}, nil
	}

	if s.HasEnum {
		return b.hoist(ctx, parent, name, s)
	}

	if len(s.Types) > 1 {
		variants := make([]Prop, 0, len(s.Types))
		for _, t := range s.Types {
			kind, ok := primitiveKind(t)
			if !ok {
				return nil, errors.SchemaErrorf(ctx.file, "node %s: type list may only contain primitive types, got %q", parent.Name, t)
			}
			variants = append(variants, Primitive{Kind: kind})
		}
		return OneOf{Variants: variants}, nil
	}

	t := s.Type()
	if kind, ok := primitiveKind(t); ok {
		return Primitive{Kind: kind}, nil
	}

	switch t {
	case "object":
		if len(s.Properties) == 0 && s.AdditionalProperties != nil {
			val, err := b.prop(ctx, parent, "", s.AdditionalProperties)
			if err != nil {
				return nil, err
			}
			return MapProp{Key: String, Value: val}, nil
		}
		return b.hoist(ctx, parent, name, s)

	case "array":
		return b.hoist(ctx, parent, name, s)

	case "map":
		return b.mapProp(ctx, parent, s)

	case "":
		return nil, errors.SchemaErrorf(ctx.file, "node %s: schema at %s has no type", parent.Name, s.Pointer)
	}

	return nil, errors.SchemaErrorf(ctx.file, "node %s: unknown type %q at %s", parent.Name, t, s.Pointer)
}

func (b *Builder) mapProp(ctx *scope, parent *Node, s *schema.Schema) (Prop, error) {
	if s.Key == nil || s.MapValue == nil {
		return nil, errors.SchemaErrorf(ctx.file, "node %s: map at %s needs both key and value", parent.Name, s.Pointer)
	}

	var key PrimitiveKind
	switch s.Key.Type() {
	case "string":
		key = String
	case "number", "integer":
		key = Number
	default:
		return nil, errors.WithHint(
			errors.SchemaErrorf(ctx.file, "node %s: map key at %s must be a string or number", parent.Name, s.Key.Pointer),
			"object keys are always strings or numbers at runtime",
		)
	}

	val, err := b.prop(ctx, parent, "", s.MapValue)
	if err != nil {
		return nil, err
	}
	return MapProp{Key: key, Value: val}, nil
}

// hoist lifts an inline object, array or enum schema into an inner node named
// {parent}_{name}, or {parent}_{ordinal} when there is no property name.
func (b *Builder) hoist(ctx *scope, parent *Node, name string, s *schema.Schema) (Prop, error) {
	suffix := name
	if suffix == "" {
		suffix = strconv.Itoa(b.ordinals[parent.Name])
		b.ordinals[parent.Name]++
	}

	child := &Node{
		Name:        parent.Name + "_" + suffix,
		Parent:      parent.Name,
		Inner:       true,
		Description: s.Description,
		SchemaID:    b.schemaID(s.ID),
		File:        ctx.file,
	}
	if err := b.add(child); err != nil {
		return nil, err
	}

	value, err := b.nodeValue(ctx, child, s)
	if err != nil {
		return nil, err
	}
	child.Value = value
	child.Depends = b.collectDepends(s.Raw, ctx.root)

	b.log.Debugw("hoisted inline schema",
		logger.FieldNode, child.Name,
		logger.FieldParent, parent.Name,
		logger.FieldKind, child.Kind(),
		logger.FieldFile, ctx.file,
	)
	return NodeRef{Name: child.Name}, nil
}

// collectDepends walks the raw document and returns every $ref ending in the
// schema extension, as sorted node names. self is excluded.
func (b *Builder) collectDepends(raw *schema.Value, self string) []string {
	seen := make(map[string]bool)
	raw.Walk(func(key string, v *schema.Value) {
		if key != "$ref" || v.Kind != schema.KindString || !strings.HasSuffix(v.String, b.ext) {
			return
		}
		if name := NameForFile(v.String); name != self {
			seen[name] = true
		}
	})

	deps := make([]string, 0, len(seen))
	for name := range seen {
		deps = append(deps, name)
	}
	sort.Strings(deps)
	return deps
}

func primitiveKind(t string) (PrimitiveKind, bool) {
	switch t {
	case "string":
		return String, true
	case "number", "integer":
		return Number, true
	case "boolean":
		return Boolean, true
	case "null":
		return Undefined, true
	}
	return "", false
}
