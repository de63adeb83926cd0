// Package validate checks JSON instance documents against IR nodes.
//
// It is not part of the generation pipeline; `schemagen validate` uses it to
// test sample documents, for example the output of a generated export
// function, against the schemas. Checks follow what the generated code relies
// on: required keys, primitive kinds, enum membership, discriminator tags,
// nested nodes, maps and arrays. Unknown keys are allowed.
package validate

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/valyala/fastjson"
	"go.uber.org/zap"

	"github.com/teranos/schemagen/errors"
	"github.com/teranos/schemagen/ir"
	"github.com/teranos/schemagen/logger"
	"github.com/teranos/schemagen/typegen/tsutil"
)

// Violation is one mismatch between a document and the schema
type Violation struct {
	// Path is a JSON pointer to the offending value
	Path    string
	Message string
}

func (v Violation) String() string {
	path := v.Path
	if path == "" {
		path = "/"
	}
	return path + ": " + v.Message
}

// Result lists every violation found, in document order
type Result struct {
	Violations []Violation
}

// Valid reports whether no violation was found
func (r *Result) Valid() bool {
	return len(r.Violations) == 0
}

// Validator checks documents against the nodes of one graph
type Validator struct {
	graph         *ir.Graph
	discriminator string
	log           *zap.SugaredLogger
}

// New creates a validator. An empty discriminator means "typeId".
func New(graph *ir.Graph, discriminator string) *Validator {
	if discriminator == "" {
		discriminator = tsutil.DefaultDiscriminator
	}
	return &Validator{
		graph:         graph,
		discriminator: discriminator,
		log:           logger.ComponentLogger("validate"),
	}
}

// ValidateBytes parses data and validates it against node
func (v *Validator) ValidateBytes(node string, data []byte) (*Result, error) {
	var p fastjson.Parser
	doc, err := p.ParseBytes(data)
	if err != nil {
		return nil, errors.WithHint(
			errors.Wrap(err, "failed to parse instance document"),
			"the document must be a single JSON value",
		)
	}
	return v.Validate(node, doc)
}

// Validate checks a parsed document against node. Unknown node names are an
// error; schema mismatches are reported in the Result.
func (v *Validator) Validate(node string, doc *fastjson.Value) (*Result, error) {
	n, ok := v.graph.Node(node)
	if !ok {
		return nil, errors.WithHint(
			errors.UnresolvedReff("unknown node %s", node),
			"run `schemagen graph` to list node names",
		)
	}

	c := &check{Validator: v}
	c.node(n, "", doc)

	v.log.Debugw("validated document",
		logger.FieldNode, node,
		logger.FieldCount, len(c.violations),
	)
	return &Result{Violations: c.violations}, nil
}

// check accumulates violations for one document
type check struct {
	*Validator
	violations []Violation
}

func (c *check) fail(path, format string, args ...interface{}) {
	c.violations = append(c.violations, Violation{Path: path, Message: fmt.Sprintf(format, args...)})
}

func (c *check) node(n *ir.Node, path string, val *fastjson.Value) {
	switch nv := n.Value.(type) {
	case *ir.EnumValue:
		c.enum(n, nv, path, val)

	case *ir.ArrayValue:
		items, err := val.Array()
		if err != nil {
			c.fail(path, "expected array for %s, got %s", n.Name, kindOf(val))
			return
		}
		for i, item := range items {
			c.prop(nv.Item, pointer(path, strconv.Itoa(i)), item)
		}

	case *ir.ObjectValue:
		c.object(n, path, val)
	}
}

func (c *check) enum(n *ir.Node, e *ir.EnumValue, path string, val *fastjson.Value) {
	if val.Type() != fastjson.TypeString {
		c.fail(path, "expected string for %s, got %s", n.Name, kindOf(val))
		return
	}
	s := string(val.GetStringBytes())
	for _, allowed := range e.Values {
		if s == allowed {
			return
		}
	}
	c.fail(path, "%q is not a %s value", s, n.Name)
}

func (c *check) object(n *ir.Node, path string, val *fastjson.Value) {
	obj, err := val.Object()
	if err != nil {
		c.fail(path, "expected object for %s, got %s", n.Name, kindOf(val))
		return
	}

	// A tag naming a subtype switches validation to that subtype
	if tag := obj.Get(c.discriminator); tag != nil {
		id, expected := string(tag.GetStringBytes()), schemaID(c.graph.Chain(n.Name))
		switch {
		case tag.Type() != fastjson.TypeString:
			c.fail(pointer(path, c.discriminator), "expected string, got %s", kindOf(tag))
			return
		case expected == "" || id == expected:
		default:
			sub := c.subtype(n.Name, id)
			if sub == nil {
				c.fail(pointer(path, c.discriminator), "expected %q, got %q", expected, id)
				return
			}
			n = sub
		}
	}

	for _, link := range c.graph.Chain(n.Name) {
		lv, ok := link.Value.(*ir.ObjectValue)
		if !ok {
			continue
		}
		for _, p := range lv.Props {
			field := obj.Get(p.Name)
			if field == nil {
				if p.Required {
					c.fail(path, "missing required property %s", p.Name)
				}
				continue
			}
			c.prop(p.Prop, pointer(path, p.Name), field)
		}
	}
}

// subtype returns the node tagged id whose chain contains base
func (c *check) subtype(base, id string) *ir.Node {
	for _, n := range c.graph.Nodes() {
		if n.SchemaID != id {
			continue
		}
		for _, link := range c.graph.Chain(n.Name) {
			if link.Name == base {
				return n
			}
		}
	}
	return nil
}

func (c *check) prop(p ir.Prop, path string, val *fastjson.Value) {
	switch pv := p.(type) {
	case ir.Primitive:
		if !primitiveMatches(pv.Kind, val) {
			c.fail(path, "expected %s, got %s", primitiveName(pv.Kind), kindOf(val))
		}

	case ir.NodeRef:
		n, ok := c.graph.Node(pv.Name)
		if !ok {
			c.fail(path, "unknown node %s", pv.Name)
			return
		}
		c.node(n, path, val)

	case ir.MapProp:
		obj, err := val.Object()
		if err != nil {
			c.fail(path, "expected object, got %s", kindOf(val))
			return
		}
		var keys []string
		obj.Visit(func(key []byte, _ *fastjson.Value) {
			keys = append(keys, string(key))
		})
		for _, key := range keys {
			if pv.Key == ir.Number {
				if _, err := strconv.ParseFloat(key, 64); err != nil {
					c.fail(pointer(path, key), "map key %q is not a number", key)
					continue
				}
			}
			c.prop(pv.Value, pointer(path, key), obj.Get(key))
		}

	case ir.OneOf:
		c.oneOf(pv, path, val)
	}
}

func (c *check) oneOf(o ir.OneOf, path string, val *fastjson.Value) {
	switch val.Type() {
	case fastjson.TypeObject:
		var objects []*ir.Node
		for _, ref := range o.NodeRefs() {
			if n, ok := c.graph.Node(ref.Name); ok && n.IsObject() {
				objects = append(objects, n)
			}
		}
		if len(objects) == 0 {
			c.fail(path, "expected %s, got object", describe(o))
			return
		}

		tag := val.Get(c.discriminator)
		if tag == nil || tag.Type() != fastjson.TypeString {
			if len(objects) == 1 {
				c.node(objects[0], path, val)
				return
			}
			c.fail(path, "missing %s to pick one of %s", c.discriminator, describe(o))
			return
		}
		id := string(tag.GetStringBytes())
		for _, n := range objects {
			if n.SchemaID == id {
				c.node(n, path, val)
				return
			}
		}
		for _, n := range objects {
			if sub := c.subtype(n.Name, id); sub != nil {
				c.node(sub, path, val)
				return
			}
		}
		c.fail(pointer(path, c.discriminator), "%q matches none of %s", id, describe(o))

	case fastjson.TypeArray:
		for _, ref := range o.NodeRefs() {
			if n, ok := c.graph.Node(ref.Name); ok && n.IsArray() {
				c.node(n, path, val)
				return
			}
		}
		c.fail(path, "expected %s, got array", describe(o))

	default:
		for _, variant := range o.Variants {
			if c.accepts(variant, val) {
				return
			}
		}
		c.fail(path, "expected %s, got %s", describe(o), kindOf(val))
	}
}

// accepts reports whether a scalar value matches a variant without recording
// violations
func (c *check) accepts(p ir.Prop, val *fastjson.Value) bool {
	switch pv := p.(type) {
	case ir.Primitive:
		return primitiveMatches(pv.Kind, val)
	case ir.NodeRef:
		n, ok := c.graph.Node(pv.Name)
		if !ok || !n.IsEnum() {
			return false
		}
		sub := &check{Validator: c.Validator}
		sub.node(n, "", val)
		return len(sub.violations) == 0
	}
	return false
}

func primitiveMatches(kind ir.PrimitiveKind, val *fastjson.Value) bool {
	switch kind {
	case ir.String:
		return val.Type() == fastjson.TypeString
	case ir.Number:
		return val.Type() == fastjson.TypeNumber
	case ir.Boolean:
		return val.Type() == fastjson.TypeTrue || val.Type() == fastjson.TypeFalse
	case ir.Undefined:
		return val.Type() == fastjson.TypeNull
	}
	return false
}

// primitiveName spells a kind the way JSON documents carry it
func primitiveName(kind ir.PrimitiveKind) string {
	if kind == ir.Undefined {
		return "null"
	}
	return string(kind)
}

func schemaID(chain []*ir.Node) string {
	if len(chain) == 0 {
		return ""
	}
	return chain[len(chain)-1].SchemaID
}

// describe lists the variants of a oneOf for messages
func describe(o ir.OneOf) string {
	var names []string
	for _, v := range o.Variants {
		switch pv := v.(type) {
		case ir.Primitive:
			names = append(names, primitiveName(pv.Kind))
		case ir.NodeRef:
			names = append(names, pv.Name)
		case ir.MapProp:
			names = append(names, "map")
		default:
			names = append(names, "oneOf")
		}
	}
	sort.Strings(names)
	return strings.Join(names, " | ")
}

func kindOf(val *fastjson.Value) string {
	switch val.Type() {
	case fastjson.TypeTrue, fastjson.TypeFalse:
		return "boolean"
	case fastjson.TypeNull:
		return "null"
	}
	return val.Type().String()
}

// pointer appends an escaped JSON pointer token
func pointer(path, token string) string {
	token = strings.ReplaceAll(token, "~", "~0")
	token = strings.ReplaceAll(token, "/", "~1")
	return path + "/" + token
}
