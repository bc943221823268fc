// Package load reads schema bundles produced by the schema compiler and
// resolves the identifiers and references they contain.
package load

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"strings"
)

// PrimitiveType is a wire-level scalar kind.
type PrimitiveType int

// Primitive types, in bundle ordinal order.
const (
	Invalid PrimitiveType = iota
	Int32
	Int64
	Uint32
	Uint64
	Sint32
	Sint64
	Fixed32
	Fixed64
	Sfixed32
	Sfixed64
	Bool
	Float
	Double
	String
	EntityID
	Bytes
)

var primitiveNames = [...]string{
	Invalid:  "Invalid",
	Int32:    "Int32",
	Int64:    "Int64",
	Uint32:   "Uint32",
	Uint64:   "Uint64",
	Sint32:   "Sint32",
	Sint64:   "Sint64",
	Fixed32:  "Fixed32",
	Fixed64:  "Fixed64",
	Sfixed32: "Sfixed32",
	Sfixed64: "Sfixed64",
	Bool:     "Bool",
	Float:    "Float",
	Double:   "Double",
	String:   "String",
	EntityID: "EntityId",
	Bytes:    "Bytes",
}

// String returns the bundle name of the primitive type.
func (p PrimitiveType) String() string {
	if p >= 0 && int(p) < len(primitiveNames) {
		return primitiveNames[p]
	}
	return fmt.Sprintf("PrimitiveType(%d)", int(p))
}

// MarshalJSON encodes the primitive type by name.
func (p PrimitiveType) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

// UnmarshalJSON accepts the primitive type by name or by ordinal.
func (p *PrimitiveType) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		var ordinal int
		if err := json.Unmarshal(data, &ordinal); err != nil {
			return fmt.Errorf("primitive type: %s", data)
		}
		if ordinal < 0 || ordinal >= len(primitiveNames) {
			return fmt.Errorf("primitive type ordinal %d out of range", ordinal)
		}
		*p = PrimitiveType(ordinal)
		return nil
	}
	i := slices.Index(primitiveNames[:], name)
	if i < 0 {
		return fmt.Errorf("unknown primitive type %q", name)
	}
	*p = PrimitiveType(i)
	return nil
}

// Identifier names a schema entity.
type Identifier struct {
	QualifiedName string   `json:"qualifiedName"`
	Name          string   `json:"name"`
	Path          []string `json:"path"`
}

// TypeReference refers to a type definition by qualified name.
type TypeReference struct {
	QualifiedName string `json:"qualifiedName"`
}

// EnumReference refers to an enum definition by qualified name.
type EnumReference struct {
	QualifiedName string `json:"qualifiedName"`
}

// ValueKind distinguishes the variants of a ValueTypeReference.
type ValueKind int

// Value kinds.
const (
	ValuePrimitive ValueKind = iota + 1
	ValueEnum
	ValueType
)

// ValueTypeReference is a primitive, an enum reference or a type reference.
// Exactly one member is set in a valid bundle.
type ValueTypeReference struct {
	Primitive PrimitiveType  `json:"primitive,omitempty"`
	Enum      *EnumReference `json:"enum,omitempty"`
	Type      *TypeReference `json:"type,omitempty"`
}

// Kind returns the variant of the reference, or 0 if none or several are set.
func (r *ValueTypeReference) Kind() ValueKind {
	var kinds []ValueKind
	if r.Primitive != Invalid {
		kinds = append(kinds, ValuePrimitive)
	}
	if r.Enum != nil {
		kinds = append(kinds, ValueEnum)
	}
	if r.Type != nil {
		kinds = append(kinds, ValueType)
	}
	if len(kinds) != 1 {
		return 0
	}
	return kinds[0]
}

// String renders the reference the way it appears in schema source.
func (r *ValueTypeReference) String() string {
	switch r.Kind() {
	case ValuePrimitive:
		return strings.ToLower(r.Primitive.String())
	case ValueEnum:
		return r.Enum.QualifiedName
	case ValueType:
		return r.Type.QualifiedName
	}
	return "<invalid>"
}

// SingularType is the shape of a plain field.
type SingularType struct {
	Type ValueTypeReference `json:"type"`
}

// ContainerType is the shape of an option or list field.
type ContainerType struct {
	InnerType ValueTypeReference `json:"innerType"`
}

// MapType is the shape of a map field.
type MapType struct {
	KeyType   ValueTypeReference `json:"keyType"`
	ValueType ValueTypeReference `json:"valueType"`
}

// FieldShape distinguishes field type definitions.
type FieldShape int

// Field shapes.
const (
	ShapeSingular FieldShape = iota + 1
	ShapeOption
	ShapeList
	ShapeMap
)

// String returns the schema keyword of the shape.
func (s FieldShape) String() string {
	switch s {
	case ShapeSingular:
		return "singular"
	case ShapeOption:
		return "option"
	case ShapeList:
		return "list"
	case ShapeMap:
		return "map"
	}
	return "invalid"
}

// FieldDefinition is one field of a type or inline component.
// Exactly one of the shape members is set in a valid bundle.
type FieldDefinition struct {
	Identifier   Identifier     `json:"identifier"`
	FieldID      uint32         `json:"fieldId"`
	Transient    bool           `json:"transient"`
	SingularType *SingularType  `json:"singularType,omitempty"`
	OptionType   *ContainerType `json:"optionType,omitempty"`
	ListType     *ContainerType `json:"listType,omitempty"`
	MapType      *MapType       `json:"mapType,omitempty"`
	Annotations  []Annotation   `json:"annotations,omitempty"`
}

// Shape returns the shape of the field, or 0 if none or several are set.
func (f *FieldDefinition) Shape() FieldShape {
	var shapes []FieldShape
	if f.SingularType != nil {
		shapes = append(shapes, ShapeSingular)
	}
	if f.OptionType != nil {
		shapes = append(shapes, ShapeOption)
	}
	if f.ListType != nil {
		shapes = append(shapes, ShapeList)
	}
	if f.MapType != nil {
		shapes = append(shapes, ShapeMap)
	}
	if len(shapes) != 1 {
		return 0
	}
	return shapes[0]
}

// ValueTypes returns the value type references of the field: the element
// type, or the key and value types of a map.
func (f *FieldDefinition) ValueTypes() []*ValueTypeReference {
	switch f.Shape() {
	case ShapeSingular:
		return []*ValueTypeReference{&f.SingularType.Type}
	case ShapeOption:
		return []*ValueTypeReference{&f.OptionType.InnerType}
	case ShapeList:
		return []*ValueTypeReference{&f.ListType.InnerType}
	case ShapeMap:
		return []*ValueTypeReference{&f.MapType.KeyType, &f.MapType.ValueType}
	}
	return nil
}

// EnumValueDefinition is one member of an enum.
type EnumValueDefinition struct {
	Identifier  Identifier   `json:"identifier"`
	Value       uint32       `json:"value"`
	Annotations []Annotation `json:"annotations,omitempty"`
}

// EnumDefinition declares an enum.
type EnumDefinition struct {
	Identifier       Identifier             `json:"identifier"`
	ValueDefinitions []*EnumValueDefinition `json:"valueDefinitions"`
	Annotations      []Annotation           `json:"annotations,omitempty"`
}

// TypeDefinition declares a structured type.
type TypeDefinition struct {
	Identifier       Identifier         `json:"identifier"`
	FieldDefinitions []*FieldDefinition `json:"fieldDefinitions"`
	Annotations      []Annotation       `json:"annotations,omitempty"`
}

// EventDefinition declares a component event.
type EventDefinition struct {
	Identifier  Identifier         `json:"identifier"`
	EventIndex  uint32             `json:"eventIndex"`
	Type        ValueTypeReference `json:"type"`
	Annotations []Annotation       `json:"annotations,omitempty"`
}

// CommandDefinition declares a component command.
type CommandDefinition struct {
	Identifier   Identifier         `json:"identifier"`
	CommandIndex uint32             `json:"commandIndex"`
	RequestType  ValueTypeReference `json:"requestType"`
	ResponseType ValueTypeReference `json:"responseType"`
	Annotations  []Annotation       `json:"annotations,omitempty"`
}

// ComponentDefinition declares a component. Its data is either inline
// (FieldDefinitions) or a reference to a type (DataDefinition).
type ComponentDefinition struct {
	Identifier         Identifier           `json:"identifier"`
	ComponentID        uint32               `json:"componentId"`
	FieldDefinitions   []*FieldDefinition   `json:"fieldDefinitions,omitempty"`
	DataDefinition     *TypeReference       `json:"dataDefinition,omitempty"`
	EventDefinitions   []*EventDefinition   `json:"eventDefinitions"`
	CommandDefinitions []*CommandDefinition `json:"commandDefinitions"`
	Annotations        []Annotation         `json:"annotations,omitempty"`
}

// Annotation is a typed value attached to a definition.
type Annotation struct {
	TypeValue TypeValue `json:"typeValue"`
}

// TypeValue is an annotation value of a schema type. Field values are kept
// in their bundle form.
type TypeValue struct {
	Type   TypeReference `json:"type"`
	Fields []FieldValue  `json:"fields"`
}

// FieldValue is one field of an annotation value.
type FieldValue struct {
	Name   string          `json:"name"`
	Number uint32          `json:"number"`
	Value  json.RawMessage `json:"value"`
}

// SourceReference locates a definition in schema source.
type SourceReference struct {
	FilePath string `json:"filePath"`
	Line     uint32 `json:"line"`
	Column   uint32 `json:"column"`
}

// String returns "file:line:column".
func (s SourceReference) String() string {
	return fmt.Sprintf("%s:%d:%d", s.FilePath, s.Line, s.Column)
}

// SourceMap maps qualified names to source locations.
type SourceMap struct {
	SourceReferences map[string]SourceReference `json:"sourceReferences"`
}

// Bundle is the v1 payload of a schema bundle. It is not modified after
// loading.
type Bundle struct {
	EnumDefinitions      []*EnumDefinition      `json:"enumDefinitions"`
	TypeDefinitions      []*TypeDefinition      `json:"typeDefinitions"`
	ComponentDefinitions []*ComponentDefinition `json:"componentDefinitions"`

	// SourceMap is nil when the bundle carries no source map.
	SourceMap *SourceMap `json:"-"`
}

// schemaBundle is the versioned document produced by the schema compiler.
type schemaBundle struct {
	V1          *Bundle    `json:"v1"`
	SourceMapV1 *SourceMap `json:"sourceMapV1"`
}

// Source returns the source location of the named entity, if known.
func (b *Bundle) Source(qualifiedName string) (SourceReference, bool) {
	if b.SourceMap == nil {
		return SourceReference{}, false
	}
	ref, ok := b.SourceMap.SourceReferences[qualifiedName]
	return ref, ok
}

// Load reads and parses the bundle file at path.
func Load(path string) (*Bundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &BundleError{Message: "read " + path, Cause: err}
	}
	return Parse(data)
}

// Parse decodes and validates a bundle document. Only v1 bundles are
// supported.
func Parse(data []byte) (*Bundle, error) {
	var doc schemaBundle
	if err := json.NewDecoder(bytes.NewReader(data)).Decode(&doc); err != nil {
		return nil, &BundleError{Message: "decode bundle", Cause: err}
	}
	if doc.V1 == nil {
		return nil, &BundleError{Version: detectVersion(data), Message: "only v1 bundles are supported"}
	}
	b := doc.V1
	b.SourceMap = doc.SourceMapV1
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}

// detectVersion names the payload versions present in a bundle without v1.
func detectVersion(data []byte) string {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return "unknown"
	}
	var versions []string
	for key, v := range raw {
		if strings.HasPrefix(key, "v") && !bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
			versions = append(versions, key)
		}
	}
	if len(versions) == 0 {
		return "none"
	}
	slices.Sort(versions)
	return strings.Join(versions, ",")
}
