package schema

import (
	"fmt"
	"slices"
)

type (
	// FieldID identifies a field within a schema type, or an event within a
	// component update.
	FieldID uint32
	// ComponentID is the globally unique id of a component.
	ComponentID uint32
	// CommandIndex identifies a command within a component.
	CommandIndex uint32
	// EntityID identifies an entity in a deployment.
	EntityID int64
)

// Object is the in-memory form of a serialized schema type.
// The zero value is an empty object ready to use.
type Object struct {
	fields map[FieldID][]any
}

// NewObject returns an empty object.
func NewObject() *Object {
	return &Object{}
}

// Count returns the number of values stored in field id.
func (o *Object) Count(id FieldID) int {
	if o == nil {
		return 0
	}
	return len(o.fields[id])
}

// Fields returns the ids of all non-empty fields in ascending order.
func (o *Object) Fields() []FieldID {
	if o == nil {
		return nil
	}
	ids := make([]FieldID, 0, len(o.fields))
	for id, vs := range o.fields {
		if len(vs) > 0 {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids
}

// Clear removes all values from field id.
func (o *Object) Clear(id FieldID) {
	if o != nil {
		delete(o.fields, id)
	}
}

// AddObject appends a new nested object to field id and returns it.
func (o *Object) AddObject(id FieldID) *Object {
	sub := NewObject()
	o.append(id, sub)
	return sub
}

// Objects returns the nested objects stored in field id. Values of other
// kinds are skipped.
func (o *Object) Objects(id FieldID) []*Object {
	var objs []*Object
	for _, v := range o.values(id) {
		if sub, ok := v.(*Object); ok {
			objs = append(objs, sub)
		}
	}
	return objs
}

// Len returns the number of non-empty fields.
func (o *Object) Len() int {
	return len(o.Fields())
}

func (o *Object) append(id FieldID, v any) {
	if o.fields == nil {
		o.fields = make(map[FieldID][]any)
	}
	o.fields[id] = append(o.fields[id], v)
}

func (o *Object) values(id FieldID) []any {
	if o == nil {
		return nil
	}
	return o.fields[id]
}

// kind tags a stored value on the wire.
type kind uint8

const (
	kindInt32 kind = iota + 1
	kindInt64
	kindUint32
	kindUint64
	kindBool
	kindFloat
	kindDouble
	kindString
	kindBytes
	kindEntityID
	kindObject
)

var kindNames = map[kind]string{
	kindInt32:    "int32",
	kindInt64:    "int64",
	kindUint32:   "uint32",
	kindUint64:   "uint64",
	kindBool:     "bool",
	kindFloat:    "float",
	kindDouble:   "double",
	kindString:   "string",
	kindBytes:    "bytes",
	kindEntityID: "entity_id",
	kindObject:   "object",
}

func (k kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

func kindOf(v any) kind {
	switch v.(type) {
	case int32:
		return kindInt32
	case int64:
		return kindInt64
	case uint32:
		return kindUint32
	case uint64:
		return kindUint64
	case bool:
		return kindBool
	case float32:
		return kindFloat
	case float64:
		return kindDouble
	case string:
		return kindString
	case []byte:
		return kindBytes
	case EntityID:
		return kindEntityID
	case *Object:
		return kindObject
	}
	return 0
}

func kindName(v any) string {
	if k := kindOf(v); k != 0 {
		return k.String()
	}
	return fmt.Sprintf("%T", v)
}
