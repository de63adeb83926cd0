package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrap(t *testing.T) {
	original := New("original")
	wrapped := Wrap(original, "wrapped")

	assert.Contains(t, wrapped.Error(), "wrapped")
	assert.Contains(t, wrapped.Error(), "original")
	assert.True(t, Is(wrapped, original))
}

func TestSchemaErrorf(t *testing.T) {
	err := SchemaErrorf("fill.json", "unknown type %q", "tuple")

	assert.Equal(t, `fill.json: unknown type "tuple"`, err.Error())
	assert.True(t, IsSchemaError(err))
	assert.False(t, IsDuplicateNode(err))
}

func TestSentinelsSurviveWrapping(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
	}{
		{"duplicate", DuplicateNodef("node %s defined twice", "Fill"), IsDuplicateNode},
		{"unresolved", UnresolvedReff("node %s depends on %s", "Fill", "Color"), IsUnresolvedRef},
		{"generation", GenerationErrorf("oneOf variant %s has no discriminator", "Color"), IsGenerationError},
		{"config", ConfigErrorf("output.buffer_size must be > 0"), IsConfigError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := Wrap(WithHint(tt.err, "fix the schema"), "load failed")
			assert.True(t, tt.check(wrapped))
			assert.Contains(t, FlattenHints(wrapped), "fix the schema")
		})
	}
}

func TestPredicatesOnNil(t *testing.T) {
	assert.False(t, IsSchemaError(nil))
	assert.False(t, IsDuplicateNode(nil))
	assert.False(t, IsUnresolvedRef(nil))
	assert.False(t, IsGenerationError(nil))
	assert.False(t, IsConfigError(nil))
}

func TestWithHint(t *testing.T) {
	err := New("error")
	withHint := WithHint(err, "try this fix")

	hints := GetAllHints(withHint)
	require.Len(t, hints, 1)
	assert.Equal(t, "try this fix", hints[0])
}

func TestStackTrace(t *testing.T) {
	err := New("with stack")

	detailed := fmt.Sprintf("%+v", err)
	assert.Contains(t, detailed, "errors_test.go")
}

func TestNilHandling(t *testing.T) {
	assert.Nil(t, Wrap(nil, "context"))
	assert.Nil(t, Wrapf(nil, "context %d", 1))
	assert.Nil(t, WithHint(nil, "hint"))
	assert.Nil(t, WithDetail(nil, "detail"))
}

func ExampleSchemaErrorf() {
	err := SchemaErrorf("shadow.json", "allOf may only contain a single $ref")
	fmt.Println(err)
	// Output: shadow.json: allOf may only contain a single $ref
}
