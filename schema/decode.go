package schema

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/teranos/schemagen/errors"
)

// ReadFile decodes a schema document from disk. See Decode.
func ReadFile(path string) (*Value, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", path)
	}
	return Decode(path, data)
}

// Decode decodes a document, choosing the decoder from the name's extension:
// .yaml and .yml are YAML, everything else is JSON. Errors are prefixed with the
// base file name.
func Decode(name string, data []byte) (*Value, error) {
	var v *Value
	var err error
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		v, err = DecodeYAML(data)
	default:
		v, err = DecodeJSON(data)
	}
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "%s", filepath.Base(name)), errors.ErrSchema)
	}
	return v, nil
}

// DecodeJSON decodes a single JSON document into an ordered Value.
// Duplicate object keys and trailing data are rejected.
func DecodeJSON(data []byte) (*Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := decodeJSONValue(dec)
	if err != nil {
		return nil, err
	}

	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.Mark(errors.New("unexpected data after top-level value"), errors.ErrSchema)
	}
	return v, nil
}

func decodeJSONValue(dec *json.Decoder) (*Value, error) {
	tok, err := dec.Token()
	if err != nil {
		if err == io.EOF {
			return nil, errors.Mark(errors.New("unexpected end of JSON input"), errors.ErrSchema)
		}
		return nil, errors.Mark(errors.Wrap(err, "malformed JSON"), errors.ErrSchema)
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return decodeJSONObject(dec)
		case '[':
			return decodeJSONArray(dec)
		}
		return nil, errors.Mark(errors.Newf("unexpected delimiter %q", t), errors.ErrSchema)
	case string:
		return &Value{Kind: KindString, String: t}, nil
	case bool:
		return &Value{Kind: KindBool, Bool: t}, nil
	case json.Number:
		return &Value{Kind: KindNumber, Number: string(t)}, nil
	case float64:
		return &Value{Kind: KindNumber, Number: formatFloat(t)}, nil
	case nil:
		return &Value{Kind: KindNull}, nil
	}
	return nil, errors.Mark(errors.Newf("unexpected JSON token %v", tok), errors.ErrSchema)
}

func decodeJSONObject(dec *json.Decoder) (*Value, error) {
	obj := &Value{Kind: KindObject}
	seen := make(map[string]bool)

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, errors.Mark(errors.Wrap(err, "malformed JSON object"), errors.ErrSchema)
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, errors.Mark(errors.Newf("object key must be a string, got %v", keyTok), errors.ErrSchema)
		}
		if seen[key] {
			return nil, errors.Mark(errors.Newf("duplicate key %q", key), errors.ErrSchema)
		}
		seen[key] = true

		val, err := decodeJSONValue(dec)
		if err != nil {
			return nil, errors.Wrapf(err, "in %q", key)
		}
		obj.Members = append(obj.Members, Member{Key: key, Value: val})
	}

	// Closing '}'
	if _, err := dec.Token(); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "unterminated JSON object"), errors.ErrSchema)
	}
	return obj, nil
}

func decodeJSONArray(dec *json.Decoder) (*Value, error) {
	arr := &Value{Kind: KindArray}

	for dec.More() {
		val, err := decodeJSONValue(dec)
		if err != nil {
			return nil, err
		}
		arr.Items = append(arr.Items, val)
	}

	// Closing ']'
	if _, err := dec.Token(); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "unterminated JSON array"), errors.ErrSchema)
	}
	return arr, nil
}

// DecodeYAML decodes a single YAML document into an ordered Value.
func DecodeYAML(data []byte) (*Value, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "malformed YAML"), errors.ErrSchema)
	}
	if doc.Kind == 0 {
		return nil, errors.Mark(errors.New("empty YAML document"), errors.ErrSchema)
	}
	return fromYAMLNode(&doc)
}

func fromYAMLNode(n *yaml.Node) (*Value, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return &Value{Kind: KindNull}, nil
		}
		return fromYAMLNode(n.Content[0])

	case yaml.AliasNode:
		return fromYAMLNode(n.Alias)

	case yaml.MappingNode:
		obj := &Value{Kind: KindObject}
		seen := make(map[string]bool)
		for i := 0; i+1 < len(n.Content); i += 2 {
			key := n.Content[i].Value
			if seen[key] {
				return nil, errors.Mark(errors.Newf("line %d: duplicate key %q", n.Content[i].Line, key), errors.ErrSchema)
			}
			seen[key] = true

			val, err := fromYAMLNode(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			obj.Members = append(obj.Members, Member{Key: key, Value: val})
		}
		return obj, nil

	case yaml.SequenceNode:
		arr := &Value{Kind: KindArray}
		for _, item := range n.Content {
			val, err := fromYAMLNode(item)
			if err != nil {
				return nil, err
			}
			arr.Items = append(arr.Items, val)
		}
		return arr, nil

	case yaml.ScalarNode:
		switch n.ShortTag() {
		case "!!null":
			return &Value{Kind: KindNull}, nil
		case "!!bool":
			var b bool
			if err := n.Decode(&b); err != nil {
				return nil, errors.Mark(errors.Wrapf(err, "line %d", n.Line), errors.ErrSchema)
			}
			return &Value{Kind: KindBool, Bool: b}, nil
		case "!!int", "!!float":
			return &Value{Kind: KindNumber, Number: n.Value}, nil
		default:
			return &Value{Kind: KindString, String: n.Value}, nil
		}
	}

	return nil, errors.Mark(errors.Newf("line %d: unsupported YAML node", n.Line), errors.ErrSchema)
}
