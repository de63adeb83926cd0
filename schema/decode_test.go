package schema

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/schemagen/errors"
)

func memberKeys(v *Value) []string {
	keys := make([]string, 0, len(v.Members))
	for _, m := range v.Members {
		keys = append(keys, m.Key)
	}
	return keys
}

func TestDecodeJSONPreservesKeyOrder(t *testing.T) {
	v, err := DecodeJSON([]byte(`{"zeta": 1, "alpha": "a", "mid": [true, null, 2.5], "nested": {"b": 1, "a": 2}}`))
	require.NoError(t, err)

	assert.Equal(t, KindObject, v.Kind)
	assert.Equal(t, []string{"zeta", "alpha", "mid", "nested"}, memberKeys(v))
	assert.Equal(t, []string{"b", "a"}, memberKeys(v.Get("nested")))

	assert.Equal(t, "1", v.Get("zeta").Number)
	assert.Equal(t, "a", v.Get("alpha").String)

	mid := v.Get("mid")
	require.Len(t, mid.Items, 3)
	assert.Equal(t, KindBool, mid.Items[0].Kind)
	assert.Equal(t, KindNull, mid.Items[1].Kind)
	assert.Equal(t, 2.5, mid.Items[2].Interface())
}

func TestDecodeJSONErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"malformed", `{"a": }`},
		{"truncated", `{"a": 1`},
		{"duplicate key", `{"a": 1, "a": 2}`},
		{"trailing data", `{"a": 1} {"b": 2}`},
		{"empty", ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeJSON([]byte(tt.input))
			require.Error(t, err)
			assert.True(t, errors.IsSchemaError(err), "expected schema error, got %v", err)
		})
	}
}

func TestDecodeYAMLPreservesKeyOrder(t *testing.T) {
	input := `
type: object
required: [red, green]
properties:
  red: {type: number}
  green: {type: number, default: 0}
  label: {type: string, default: "n/a"}
  visible: {type: boolean, default: true}
`
	v, err := DecodeYAML([]byte(input))
	require.NoError(t, err)

	assert.Equal(t, []string{"type", "required", "properties"}, memberKeys(v))
	props := v.Get("properties")
	assert.Equal(t, []string{"red", "green", "label", "visible"}, memberKeys(props))
	assert.Equal(t, float64(0), props.Get("green").Get("default").Interface())
	assert.Equal(t, "n/a", props.Get("label").Get("default").Interface())
	assert.Equal(t, true, props.Get("visible").Get("default").Interface())
}

func TestDecodeYAMLRejectsDuplicateKeys(t *testing.T) {
	_, err := DecodeYAML([]byte("type: object\ntype: array\n"))
	require.Error(t, err)
	assert.True(t, errors.IsSchemaError(err))
}

func TestReadFileChoosesDecoderByExtension(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "color.json")
	yamlPath := filepath.Join(dir, "color.yaml")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"type": "object"}`), 0o644))
	require.NoError(t, os.WriteFile(yamlPath, []byte("type: object\n"), 0o644))

	for _, path := range []string{jsonPath, yamlPath} {
		v, err := ReadFile(path)
		require.NoError(t, err, path)
		assert.Equal(t, "object", v.Get("type").String)
	}
}

func TestReadFileNamesTheFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte(`{`), 0o644))

	_, err := ReadFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken.json")
	assert.True(t, errors.IsSchemaError(err))
}

func TestWalkVisitsInDocumentOrder(t *testing.T) {
	v, err := DecodeJSON([]byte(`{"a": {"$ref": "x.json"}, "b": [{"$ref": "y.json"}]}`))
	require.NoError(t, err)

	var refs []string
	v.Walk(func(key string, val *Value) {
		if key == "$ref" {
			refs = append(refs, val.String)
		}
	})
	assert.Equal(t, []string{"x.json", "y.json"}, refs)
}
