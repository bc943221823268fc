package load

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func singular(p PrimitiveType) *SingularType {
	return &SingularType{Type: ValueTypeReference{Primitive: p}}
}

func TestBundle_Validate(t *testing.T) {
	t.Run("test bundle is valid", func(t *testing.T) {
		require.NoError(t, loadTestBundle(t).Validate())
	})

	tests := []struct {
		name   string
		bundle *Bundle
		want   string
	}{
		{
			name: "duplicate field id",
			bundle: &Bundle{TypeDefinitions: []*TypeDefinition{{
				Identifier: *newIdentifier("p.T"),
				FieldDefinitions: []*FieldDefinition{
					{Identifier: *newIdentifier("p.T.a"), FieldID: 1, SingularType: singular(Int32)},
					{Identifier: *newIdentifier("p.T.b"), FieldID: 1, SingularType: singular(Int32)},
				},
			}}},
			want: "field id 1 of b already used by a",
		},
		{
			name: "field without shape",
			bundle: &Bundle{TypeDefinitions: []*TypeDefinition{{
				Identifier:       *newIdentifier("p.T"),
				FieldDefinitions: []*FieldDefinition{{Identifier: *newIdentifier("p.T.a"), FieldID: 1}},
			}}},
			want: "field a must have exactly one of",
		},
		{
			name: "invalid primitive",
			bundle: &Bundle{TypeDefinitions: []*TypeDefinition{{
				Identifier:       *newIdentifier("p.T"),
				FieldDefinitions: []*FieldDefinition{{Identifier: *newIdentifier("p.T.a"), FieldID: 1, SingularType: singular(Invalid)}},
			}}},
			want: "field a has an invalid value type",
		},
		{
			name: "duplicate component id",
			bundle: &Bundle{ComponentDefinitions: []*ComponentDefinition{
				{Identifier: *newIdentifier("p.A"), ComponentID: 7},
				{Identifier: *newIdentifier("p.B"), ComponentID: 7},
			}},
			want: "component id 7 already used by p.A",
		},
		{
			name: "duplicate command index",
			bundle: &Bundle{ComponentDefinitions: []*ComponentDefinition{{
				Identifier:  *newIdentifier("p.A"),
				ComponentID: 1,
				CommandDefinitions: []*CommandDefinition{
					{Identifier: *newIdentifier("p.A.one"), CommandIndex: 1, RequestType: ValueTypeReference{Primitive: Bool}, ResponseType: ValueTypeReference{Primitive: Bool}},
					{Identifier: *newIdentifier("p.A.two"), CommandIndex: 1, RequestType: ValueTypeReference{Primitive: Bool}, ResponseType: ValueTypeReference{Primitive: Bool}},
				},
			}}},
			want: "command index 1 of two already used by one",
		},
		{
			name: "duplicate event index",
			bundle: &Bundle{ComponentDefinitions: []*ComponentDefinition{{
				Identifier:  *newIdentifier("p.A"),
				ComponentID: 1,
				EventDefinitions: []*EventDefinition{
					{Identifier: *newIdentifier("p.A.one"), EventIndex: 1, Type: ValueTypeReference{Primitive: Bool}},
					{Identifier: *newIdentifier("p.A.two"), EventIndex: 1, Type: ValueTypeReference{Primitive: Bool}},
				},
			}}},
			want: "event index 1 of two already used by one",
		},
		{
			name: "duplicate enum value",
			bundle: &Bundle{EnumDefinitions: []*EnumDefinition{{
				Identifier: *newIdentifier("p.Color"),
				ValueDefinitions: []*EnumValueDefinition{
					{Identifier: *newIdentifier("p.Color.RED"), Value: 0},
					{Identifier: *newIdentifier("p.Color.ROUGE"), Value: 0},
				},
			}}},
			want: "value 0 of ROUGE already used by RED",
		},
		{
			name: "empty enum",
			bundle: &Bundle{EnumDefinitions: []*EnumDefinition{{
				Identifier: *newIdentifier("p.Color"),
			}}},
			want: "enum declares no values",
		},
		{
			name: "duplicate definition",
			bundle: &Bundle{
				EnumDefinitions: []*EnumDefinition{{
					Identifier:       *newIdentifier("p.Thing"),
					ValueDefinitions: []*EnumValueDefinition{{Identifier: *newIdentifier("p.Thing.A")}},
				}},
				TypeDefinitions: []*TypeDefinition{{Identifier: *newIdentifier("p.Thing")}},
			},
			want: "on p.Thing: duplicate definition",
		},
		{
			name: "path does not end in name",
			bundle: &Bundle{TypeDefinitions: []*TypeDefinition{{
				Identifier: Identifier{QualifiedName: "p.T", Name: "U", Path: []string{"p", "T"}},
			}}},
			want: `does not end in name "U"`,
		},
		{
			name: "lowercase name",
			bundle: &Bundle{TypeDefinitions: []*TypeDefinition{{
				Identifier: *newIdentifier("p.t"),
			}}},
			want: "must start with an uppercase letter",
		},
		{
			name: "inline fields and data definition",
			bundle: &Bundle{ComponentDefinitions: []*ComponentDefinition{{
				Identifier:       *newIdentifier("p.A"),
				DataDefinition:   &TypeReference{QualifiedName: "p.T"},
				FieldDefinitions: []*FieldDefinition{{Identifier: *newIdentifier("p.A.a"), SingularType: singular(Bool)}},
			}}},
			want: "both inline fields and a data definition",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.bundle.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidBundle))
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	t.Run("source location in error", func(t *testing.T) {
		b := &Bundle{
			ComponentDefinitions: []*ComponentDefinition{
				{Identifier: *newIdentifier("p.A"), ComponentID: 7},
				{Identifier: *newIdentifier("p.B"), ComponentID: 7},
			},
			SourceMap: &SourceMap{SourceReferences: map[string]SourceReference{
				"p.B": {FilePath: "p.schema", Line: 3, Column: 1},
			}},
		}
		err := b.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "on p.B at p.schema:3:1")
	})
}
