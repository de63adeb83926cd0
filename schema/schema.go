package schema

import (
	"strconv"
	"strings"

	"github.com/teranos/schemagen/errors"
)

// Schema is the typed view of one JSON Schema object.
// Only the keywords the IR builder understands are lifted out; the raw Value is kept
// for the dependency pass, which walks every $ref regardless of where it appears.
type Schema struct {
	ID          string
	Ref         string
	Title       string
	Description string

	// Types holds the "type" keyword. A single type is a one-element slice.
	Types []string

	Properties []Property
	Required   []string

	Items                *Schema
	AdditionalProperties *Schema

	OneOf []*Schema
	AllOf []*Schema
	// HasAllOf distinguishes an empty allOf list from an absent one
	HasAllOf bool

	Enum    []string
	HasEnum bool

	Default *Value

	// Key and MapValue belong to the "map" pseudo-type
	Key      *Schema
	MapValue *Schema

	// Pointer is the JSON pointer of this schema inside its document, used in errors
	Pointer string
	Raw     *Value
}

// Property is one entry of "properties", in document order
type Property struct {
	Name   string
	Schema *Schema
}

// Type returns the single type keyword, or "" when absent or given as a list.
func (s *Schema) Type() string {
	if len(s.Types) == 1 {
		return s.Types[0]
	}
	return ""
}

// IsRequired reports whether name appears in the schema's "required" list.
func (s *Schema) IsRequired(name string) bool {
	for _, r := range s.Required {
		if r == name {
			return true
		}
	}
	return false
}

// Property returns the schema of the named property, or nil.
func (s *Schema) Property(name string) *Schema {
	for _, p := range s.Properties {
		if p.Name == name {
			return p.Schema
		}
	}
	return nil
}

// Parse lifts the keywords of a decoded document into a Schema. Errors name the
// JSON pointer of the offending keyword and are marked with errors.ErrSchema.
func Parse(v *Value) (*Schema, error) {
	return parseAt(v, "")
}

func parseAt(v *Value, pointer string) (*Schema, error) {
	if v == nil || v.Kind != KindObject {
		kind := "nothing"
		if v != nil {
			kind = v.Kind.String()
		}
		return nil, pointerErrorf(pointer, "schema must be an object, got %s", kind)
	}

	s := &Schema{Pointer: pointer, Raw: v}
	at := func(key string) string { return pointer + "/" + escapePointer(key) }

	var err error
	for _, m := range v.Members {
		switch m.Key {
		case "$id":
			s.ID, err = stringValue(m.Value, at(m.Key))
		case "$ref":
			s.Ref, err = stringValue(m.Value, at(m.Key))
		case "title":
			s.Title, err = stringValue(m.Value, at(m.Key))
		case "description":
			s.Description, err = stringValue(m.Value, at(m.Key))
		case "type":
			s.Types, err = typeList(m.Value, at(m.Key))
		case "properties":
			s.Properties, err = parseProperties(m.Value, at(m.Key))
		case "required":
			s.Required, err = stringList(m.Value, at(m.Key))
		case "items":
			s.Items, err = parseAt(m.Value, at(m.Key))
		case "additionalProperties":
			// Booleans only allow or forbid extra keys and carry no value schema
			if m.Value.Kind != KindBool {
				s.AdditionalProperties, err = parseAt(m.Value, at(m.Key))
			}
		case "anyOf", "oneOf":
			var list []*Schema
			list, err = parseList(m.Value, at(m.Key))
			s.OneOf = append(s.OneOf, list...)
		case "allOf":
			s.AllOf, err = parseList(m.Value, at(m.Key))
			s.HasAllOf = true
		case "enum":
			s.Enum, err = enumValues(m.Value, at(m.Key))
			s.HasEnum = true
		case "default":
			s.Default = m.Value
		}
		if err != nil {
			return nil, err
		}
	}

	// key and value are only keywords of the map pseudo-type
	if s.Type() == "map" {
		if key := v.Get("key"); key != nil {
			if s.Key, err = parseAt(key, at("key")); err != nil {
				return nil, err
			}
		}
		if val := v.Get("value"); val != nil {
			if s.MapValue, err = parseAt(val, at("value")); err != nil {
				return nil, err
			}
		}
	}
	return s, nil
}

func parseProperties(v *Value, pointer string) ([]Property, error) {
	if v.Kind != KindObject {
		return nil, pointerErrorf(pointer, "properties must be an object, got %s", v.Kind)
	}
	props := make([]Property, 0, len(v.Members))
	for _, m := range v.Members {
		ps, err := parseAt(m.Value, pointer+"/"+escapePointer(m.Key))
		if err != nil {
			return nil, err
		}
		props = append(props, Property{Name: m.Key, Schema: ps})
	}
	return props, nil
}

func parseList(v *Value, pointer string) ([]*Schema, error) {
	if v.Kind != KindArray {
		return nil, pointerErrorf(pointer, "expected an array of schemas, got %s", v.Kind)
	}
	list := make([]*Schema, 0, len(v.Items))
	for i, item := range v.Items {
		s, err := parseAt(item, pointer+"/"+strconv.Itoa(i))
		if err != nil {
			return nil, err
		}
		list = append(list, s)
	}
	return list, nil
}

func typeList(v *Value, pointer string) ([]string, error) {
	switch v.Kind {
	case KindString:
		return []string{v.String}, nil
	case KindArray:
		types, err := stringList(v, pointer)
		if err != nil {
			return nil, err
		}
		if len(types) == 0 {
			return nil, pointerErrorf(pointer, "type list must not be empty")
		}
		return types, nil
	}
	return nil, pointerErrorf(pointer, "type must be a string or a list of strings, got %s", v.Kind)
}

func stringList(v *Value, pointer string) ([]string, error) {
	if v.Kind != KindArray {
		return nil, pointerErrorf(pointer, "expected an array of strings, got %s", v.Kind)
	}
	out := make([]string, 0, len(v.Items))
	for i, item := range v.Items {
		if item.Kind != KindString {
			return nil, pointerErrorf(pointer+"/"+strconv.Itoa(i), "expected a string, got %s", item.Kind)
		}
		out = append(out, item.String)
	}
	return out, nil
}

// enumValues keeps every member in its verbatim string form
func enumValues(v *Value, pointer string) ([]string, error) {
	if v.Kind != KindArray {
		return nil, pointerErrorf(pointer, "enum must be an array, got %s", v.Kind)
	}
	if len(v.Items) == 0 {
		return nil, pointerErrorf(pointer, "enum must not be empty")
	}
	out := make([]string, 0, len(v.Items))
	for i, item := range v.Items {
		if item.Kind == KindArray || item.Kind == KindObject {
			return nil, pointerErrorf(pointer+"/"+strconv.Itoa(i), "enum members must be scalars, got %s", item.Kind)
		}
		out = append(out, item.Text())
	}
	return out, nil
}

func stringValue(v *Value, pointer string) (string, error) {
	if v.Kind != KindString {
		return "", pointerErrorf(pointer, "expected a string, got %s", v.Kind)
	}
	return v.String, nil
}

// escapePointer applies RFC 6901 escaping to a pointer segment
func escapePointer(seg string) string {
	seg = strings.ReplaceAll(seg, "~", "~0")
	return strings.ReplaceAll(seg, "/", "~1")
}

func pointerErrorf(pointer, format string, args ...interface{}) error {
	if pointer == "" {
		pointer = "/"
	}
	return errors.Mark(errors.Wrapf(errors.Newf(format, args...), "%s", pointer), errors.ErrSchema)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
