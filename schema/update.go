package schema

import "slices"

// ComponentUpdate is the serialized form of a partial component change.
type ComponentUpdate struct {
	// Fields holds the new values of changed fields.
	Fields *Object
	// Events holds the events emitted with the update, keyed by event index.
	Events *Object
	// Cleared lists fields set to an empty option, list or map.
	Cleared []FieldID
}

// NewComponentUpdate returns an empty update.
func NewComponentUpdate() *ComponentUpdate {
	return &ComponentUpdate{Fields: NewObject(), Events: NewObject()}
}

// Clear marks field id as cleared.
func (u *ComponentUpdate) Clear(id FieldID) {
	if !u.IsCleared(id) {
		u.Cleared = append(u.Cleared, id)
		slices.Sort(u.Cleared)
	}
}

// IsCleared reports whether field id is marked as cleared.
func (u *ComponentUpdate) IsCleared(id FieldID) bool {
	return slices.Contains(u.Cleared, id)
}

// Changed reports whether field id carries a value or is cleared.
func (u *ComponentUpdate) Changed(id FieldID) bool {
	return u.Fields.Count(id) > 0 || u.IsCleared(id)
}

// IsEmpty reports whether the update carries no changes and no events.
func (u *ComponentUpdate) IsEmpty() bool {
	return u.Fields.Len() == 0 && u.Events.Len() == 0 && len(u.Cleared) == 0
}

func (u *ComponentUpdate) fields() *Object {
	if u.Fields == nil {
		u.Fields = NewObject()
	}
	return u.Fields
}

// UpdateField writes *v when v is non-nil.
func UpdateField[T any](u *ComponentUpdate, id FieldID, c Codec[T], v *T) {
	if v != nil {
		AddField(u.fields(), id, c, *v)
	}
}

// UpdateOption writes a changed optional field. A non-nil v holding nil
// clears the field.
func UpdateOption[T any](u *ComponentUpdate, id FieldID, c Codec[T], v **T) {
	switch {
	case v == nil:
	case *v == nil:
		u.Clear(id)
	default:
		AddField(u.fields(), id, c, **v)
	}
}

// UpdateList writes a changed list field. An empty list clears the field.
func UpdateList[T any](u *ComponentUpdate, id FieldID, c Codec[T], v *[]T) {
	switch {
	case v == nil:
	case len(*v) == 0:
		u.Clear(id)
	default:
		AddList(u.fields(), id, c, *v)
	}
}

// UpdateMap writes a changed map field. An empty map clears the field.
func UpdateMap[K comparable, V any](u *ComponentUpdate, id FieldID, kc Codec[K], vc Codec[V], v *map[K]V) {
	switch {
	case v == nil:
	case len(*v) == 0:
		u.Clear(id)
	default:
		AddMap(u.fields(), id, kc, vc, *v)
	}
}

// ReadField reads a changed singular field, nil when unchanged.
func ReadField[T any](u *ComponentUpdate, id FieldID, c Codec[T]) (*T, error) {
	if u.Fields.Count(id) == 0 {
		return nil, nil
	}
	v, err := GetField(u.Fields, id, c)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// ReadOption reads a changed optional field, nil when unchanged. A cleared
// field yields a pointer to nil.
func ReadOption[T any](u *ComponentUpdate, id FieldID, c Codec[T]) (**T, error) {
	if !u.Changed(id) {
		return nil, nil
	}
	v, err := GetOption(u.Fields, id, c)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// ReadList reads a changed list field, nil when unchanged. A cleared field
// yields a pointer to an empty list.
func ReadList[T any](u *ComponentUpdate, id FieldID, c Codec[T]) (*[]T, error) {
	if !u.Changed(id) {
		return nil, nil
	}
	vs, err := GetList(u.Fields, id, c)
	if err != nil {
		return nil, err
	}
	if vs == nil {
		vs = []T{}
	}
	return &vs, nil
}

// ReadMap reads a changed map field, nil when unchanged. A cleared field
// yields a pointer to an empty map.
func ReadMap[K comparable, V any](u *ComponentUpdate, id FieldID, kc Codec[K], vc Codec[V]) (*map[K]V, error) {
	if !u.Changed(id) {
		return nil, nil
	}
	m, err := GetMap(u.Fields, id, kc, vc)
	if err != nil {
		return nil, err
	}
	if m == nil {
		m = map[K]V{}
	}
	return &m, nil
}

// AddEvents appends the events of one event type to the update.
func AddEvents[T any](u *ComponentUpdate, index FieldID, c Codec[T], events []T) {
	if len(events) == 0 {
		return
	}
	if u.Events == nil {
		u.Events = NewObject()
	}
	AddList(u.Events, index, c, events)
}

// GetEvents reads the events of one event type from the update.
func GetEvents[T any](u *ComponentUpdate, index FieldID, c Codec[T]) ([]T, error) {
	return GetList(u.Events, index, c)
}
