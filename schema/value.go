// Package schema decodes JSON Schema documents into an ordered raw tree and a
// typed Schema view of it.
//
// Property order is significant downstream (constructor parameter layout follows
// schema order), so documents are never decoded into Go maps. JSON files are read
// token by token with goccy/go-json; YAML files go through yaml.v3's node API.
package schema

import (
	"strconv"
)

// Kind is the JSON type of a raw Value
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Value is a decoded JSON or YAML value that keeps object keys in document order.
type Value struct {
	Kind Kind

	Bool   bool
	Number string // Literal text of a number, as written in the document
	String string

	Items   []*Value // KindArray
	Members []Member // KindObject, in document order
}

// Member is one key/value pair of an object
type Member struct {
	Key   string
	Value *Value
}

// Get returns the member value for key, or nil when v is not an object or lacks the key.
func (v *Value) Get(key string) *Value {
	if v == nil || v.Kind != KindObject {
		return nil
	}
	for _, m := range v.Members {
		if m.Key == key {
			return m.Value
		}
	}
	return nil
}

// Has reports whether v is an object containing key
func (v *Value) Has(key string) bool {
	return v.Get(key) != nil
}

// Text returns the verbatim string form of a scalar value.
func (v *Value) Text() string {
	switch v.Kind {
	case KindString:
		return v.String
	case KindNumber:
		return v.Number
	case KindBool:
		return strconv.FormatBool(v.Bool)
	default:
		return "null"
	}
}

// Interface converts a scalar to its Go value: string, float64 or bool.
// It returns nil for null, arrays, objects and unparsable numbers.
func (v *Value) Interface() interface{} {
	switch v.Kind {
	case KindString:
		return v.String
	case KindBool:
		return v.Bool
	case KindNumber:
		f, err := strconv.ParseFloat(v.Number, 64)
		if err != nil {
			return nil
		}
		return f
	default:
		return nil
	}
}

// Walk calls fn for v and every value nested inside it, depth first in document order.
// key is the member key the value was found under ("" for the root and array items).
func (v *Value) Walk(fn func(key string, val *Value)) {
	v.walk("", fn)
}

func (v *Value) walk(key string, fn func(key string, val *Value)) {
	if v == nil {
		return
	}
	fn(key, v)
	switch v.Kind {
	case KindArray:
		for _, item := range v.Items {
			item.walk("", fn)
		}
	case KindObject:
		for _, m := range v.Members {
			m.Value.walk(m.Key, fn)
		}
	}
}
