// Package ir holds the intermediate representation shared by every generator:
// named Nodes built from schema files, and the read-only Graph that indexes them.
//
// Building and reading are separate phases. A Builder accumulates nodes while
// schema files are added; Build validates the whole set and returns a Graph that
// generators only read from.
package ir

// Node is one named type definition.
type Node struct {
	// Name is the Pascal-case identifier, unique within a Graph
	Name string

	// Parent is the node an inline schema was hoisted out of.
	// Only set when Inner is true.
	Parent string
	Inner  bool

	// Extend names the single base type, from a root allOf with one $ref
	Extend string

	// Depends is the sorted set of other node names this definition references.
	// It never contains the node itself.
	Depends []string

	Description string

	// SchemaID is the runtime discriminator literal, derived from $id.
	// Empty for value types that carry no discriminator.
	SchemaID string

	// File is the base name of the schema file the node came from
	File string

	Value Value
}

// IsObject reports whether the node is an object definition
func (n *Node) IsObject() bool {
	_, ok := n.Value.(*ObjectValue)
	return ok
}

// IsArray reports whether the node is an array definition
func (n *Node) IsArray() bool {
	_, ok := n.Value.(*ArrayValue)
	return ok
}

// IsEnum reports whether the node is an enum definition
func (n *Node) IsEnum() bool {
	_, ok := n.Value.(*EnumValue)
	return ok
}

// Kind returns "object", "array" or "enum".
func (n *Node) Kind() string {
	switch n.Value.(type) {
	case *ObjectValue:
		return "object"
	case *ArrayValue:
		return "array"
	case *EnumValue:
		return "enum"
	}
	return "unknown"
}

// DependsOn reports whether name is in the node's Depends set
func (n *Node) DependsOn(name string) bool {
	for _, d := range n.Depends {
		if d == name {
			return true
		}
	}
	return false
}
