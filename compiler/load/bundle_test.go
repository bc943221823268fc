package load

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadTestBundle(t *testing.T) *Bundle {
	t.Helper()
	b, err := Load("testdata/bundle.json")
	require.NoError(t, err)
	return b
}

func TestLoad(t *testing.T) {
	t.Run("valid bundle", func(t *testing.T) {
		b := loadTestBundle(t)
		assert.Len(t, b.EnumDefinitions, 2)
		assert.Len(t, b.TypeDefinitions, 7)
		assert.Len(t, b.ComponentDefinitions, 4)

		src, ok := b.Source("example.Example")
		require.True(t, ok)
		assert.Equal(t, "schema/example.schema:12:1", src.String())
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load("testdata/does-not-exist.json")
		require.Error(t, err)
		assert.True(t, IsBundleError(err))
	})

	t.Run("unsupported version", func(t *testing.T) {
		_, err := Load("testdata/v2.json")
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrUnsupportedVersion))
		assert.True(t, errors.Is(err, ErrInvalidBundle))
		assert.Contains(t, err.Error(), "version v2")
	})

	t.Run("structural mismatch", func(t *testing.T) {
		_, err := Load("testdata/malformed.json")
		require.Error(t, err)
		assert.False(t, errors.Is(err, ErrUnsupportedVersion))
		var syntaxErr *json.UnmarshalTypeError
		assert.True(t, errors.As(err, &syntaxErr))
	})
}

func TestParse(t *testing.T) {
	t.Run("empty document", func(t *testing.T) {
		_, err := Parse([]byte(`{}`))
		require.Error(t, err)
		var be *BundleError
		require.ErrorAs(t, err, &be)
		assert.Equal(t, "none", be.Version)
	})

	t.Run("null v1", func(t *testing.T) {
		_, err := Parse([]byte(`{"v1": null, "v3": {}}`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "version v3")
	})

	t.Run("empty v1", func(t *testing.T) {
		b, err := Parse([]byte(`{"v1": {}}`))
		require.NoError(t, err)
		assert.Empty(t, b.ComponentDefinitions)
		assert.Nil(t, b.SourceMap)
	})

	t.Run("not json", func(t *testing.T) {
		_, err := Parse([]byte(`bundle`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "decode bundle")
	})
}

func TestPrimitiveType(t *testing.T) {
	t.Run("by name", func(t *testing.T) {
		var p PrimitiveType
		require.NoError(t, json.Unmarshal([]byte(`"EntityId"`), &p))
		assert.Equal(t, EntityID, p)
	})

	t.Run("by ordinal", func(t *testing.T) {
		var p PrimitiveType
		require.NoError(t, json.Unmarshal([]byte(`16`), &p))
		assert.Equal(t, Bytes, p)
	})

	t.Run("unknown", func(t *testing.T) {
		var p PrimitiveType
		assert.Error(t, json.Unmarshal([]byte(`"Int128"`), &p))
		assert.Error(t, json.Unmarshal([]byte(`17`), &p))
	})

	t.Run("marshal", func(t *testing.T) {
		data, err := json.Marshal(Sfixed64)
		require.NoError(t, err)
		assert.JSONEq(t, `"Sfixed64"`, string(data))
	})
}

func TestFieldShapes(t *testing.T) {
	b := loadTestBundle(t)
	c := b.Components("example.Example")
	require.Len(t, c, 1)

	shapes := make(map[string]FieldShape)
	for _, f := range c[0].FieldDefinitions {
		shapes[f.Identifier.Name] = f.Shape()
	}
	assert.Equal(t, ShapeSingular, shapes["x"])
	assert.Equal(t, ShapeOption, shapes["name"])
	assert.Equal(t, ShapeList, shapes["targets"])
	assert.Equal(t, ShapeMap, shapes["scores"])

	f := &FieldDefinition{}
	assert.Equal(t, FieldShape(0), f.Shape())
	assert.Nil(t, f.ValueTypes())
	assert.Equal(t, "invalid", f.Shape().String())
}

func TestValueTypeReference(t *testing.T) {
	tests := []struct {
		name string
		ref  ValueTypeReference
		kind ValueKind
		str  string
	}{
		{name: "primitive", ref: ValueTypeReference{Primitive: Double}, kind: ValuePrimitive, str: "double"},
		{name: "enum", ref: ValueTypeReference{Enum: &EnumReference{QualifiedName: "p.Color"}}, kind: ValueEnum, str: "p.Color"},
		{name: "type", ref: ValueTypeReference{Type: &TypeReference{QualifiedName: "p.T"}}, kind: ValueType, str: "p.T"},
		{name: "none", ref: ValueTypeReference{}, kind: 0, str: "<invalid>"},
		{name: "several", ref: ValueTypeReference{Primitive: Bool, Type: &TypeReference{QualifiedName: "p.T"}}, kind: 0, str: "<invalid>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, tt.ref.Kind())
			assert.Equal(t, tt.str, tt.ref.String())
		})
	}
}
