package ir

// Value is the shape of a Node: *ObjectValue, *ArrayValue or *EnumValue.
type Value interface {
	isValue()
}

// ObjectValue lists properties with required ones first, each group in schema order.
type ObjectValue struct {
	Props []NamedProp
}

// ArrayValue is a homogeneous sequence of Item
type ArrayValue struct {
	Item Prop
}

// EnumValue holds the enum members in their verbatim string form
type EnumValue struct {
	Values []string
}

func (*ObjectValue) isValue() {}
func (*ArrayValue) isValue()  {}
func (*EnumValue) isValue()   {}

// Required returns the required properties, in declaration order.
func (o *ObjectValue) Required() []NamedProp {
	var out []NamedProp
	for _, p := range o.Props {
		if p.Required {
			out = append(out, p)
		}
	}
	return out
}

// Prop returns the property with the given name
func (o *ObjectValue) Prop(name string) (NamedProp, bool) {
	for _, p := range o.Props {
		if p.Name == name {
			return p, true
		}
	}
	return NamedProp{}, false
}

// Prop describes the type of a property, array item, map value or oneOf variant:
// Primitive, NodeRef, MapProp or OneOf.
type Prop interface {
	isProp()
}

// PrimitiveKind is one of the scalar types a Primitive can carry
type PrimitiveKind string

const (
	String    PrimitiveKind = "string"
	Number    PrimitiveKind = "number"
	Boolean   PrimitiveKind = "boolean"
	Undefined PrimitiveKind = "undefined"
)

// Primitive is a scalar type
type Primitive struct {
	Kind PrimitiveKind
}

// NodeRef points at another node by name
type NodeRef struct {
	Name string
}

// MapProp is a dictionary with string or number keys
type MapProp struct {
	Key   PrimitiveKind
	Value Prop
}

// OneOf is a union of variants
type OneOf struct {
	Variants []Prop
}

func (Primitive) isProp() {}
func (NodeRef) isProp()   {}
func (MapProp) isProp()   {}
func (OneOf) isProp()     {}

// NamedProp is an object property.
type NamedProp struct {
	Name     string
	Prop     Prop
	Required bool

	// Default is the schema literal default: string, float64, bool or nil
	Default interface{}

	Description string
}

// HasUndefined reports whether one of the variants is the undefined primitive
func (o OneOf) HasUndefined() bool {
	for _, v := range o.Variants {
		if p, ok := v.(Primitive); ok && p.Kind == Undefined {
			return true
		}
	}
	return false
}

// OnlyPrimitives reports whether every variant is a Primitive
func (o OneOf) OnlyPrimitives() bool {
	for _, v := range o.Variants {
		if _, ok := v.(Primitive); !ok {
			return false
		}
	}
	return true
}

// NodeRefs returns the node variants, in declaration order
func (o OneOf) NodeRefs() []NodeRef {
	var refs []NodeRef
	for _, v := range o.Variants {
		if r, ok := v.(NodeRef); ok {
			refs = append(refs, r)
		}
	}
	return refs
}
