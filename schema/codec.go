package schema

import (
	"cmp"
	"maps"
	"slices"
)

// Codec converts values of type T to and from the values stored in an Object.
type Codec[T any] struct {
	kind   kind
	encode func(v T) any
	decode func(raw any) (T, error)
	// compare orders map keys; nil when T cannot be a map key.
	compare func(a, b T) int
	// zero returns the stored value a missing field decodes from; nil when
	// the Go zero value of T is the default.
	zero func() any
}

// Kind returns the name of the stored value kind.
func (c Codec[T]) Kind() string {
	return c.kind.String()
}

// Ordered reports whether values of the codec can be used as map keys.
func (c Codec[T]) Ordered() bool {
	return c.compare != nil
}

func (c Codec[T]) read(id FieldID, i int, raw any) (T, error) {
	v, err := c.decode(raw)
	if err != nil {
		var zero T
		if ke, ok := err.(kindError); ok {
			return zero, kindMismatch(id, i, ke.want.String(), raw)
		}
		return zero, wrapField(id, i, err)
	}
	return v, nil
}

// kindError is returned by codec decoders on a value kind mismatch and
// rewritten into a FieldError by Codec.read.
type kindError struct{ want kind }

func (e kindError) Error() string { return "want " + e.want.String() }

type scalar interface {
	int32 | int64 | uint32 | uint64 | bool | float32 | float64 | string | []byte | EntityID
}

func scalarCodec[T scalar](k kind, compare func(a, b T) int) Codec[T] {
	return Codec[T]{
		kind:   k,
		encode: func(v T) any { return v },
		decode: func(raw any) (T, error) {
			v, ok := raw.(T)
			if !ok {
				return v, kindError{k}
			}
			return v, nil
		},
		compare: compare,
	}
}

// compareBool orders false before true.
func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	}
	return 1
}

// Codecs for the primitive schema types.
var (
	Int32Codec    = scalarCodec(kindInt32, cmp.Compare[int32])
	Int64Codec    = scalarCodec(kindInt64, cmp.Compare[int64])
	Uint32Codec   = scalarCodec(kindUint32, cmp.Compare[uint32])
	Uint64Codec   = scalarCodec(kindUint64, cmp.Compare[uint64])
	BoolCodec     = scalarCodec(kindBool, compareBool)
	FloatCodec    = scalarCodec(kindFloat, cmp.Compare[float32])
	DoubleCodec   = scalarCodec(kindDouble, cmp.Compare[float64])
	StringCodec   = scalarCodec(kindString, cmp.Compare[string])
	BytesCodec    = scalarCodec[[]byte](kindBytes, nil)
	EntityIDCodec = scalarCodec(kindEntityID, cmp.Compare[EntityID])
)

// EnumCodec returns a codec storing an enum as its uint32 wire value.
// Decoding goes through from, which is expected to reject undeclared values.
// A missing field decodes from the wire value 0 through from as well.
func EnumCodec[E ~uint32](from func(uint32) E) Codec[E] {
	return Codec[E]{
		kind:   kindUint32,
		encode: func(v E) any { return uint32(v) },
		decode: func(raw any) (E, error) {
			u, ok := raw.(uint32)
			if !ok {
				var zero E
				return zero, kindError{kindUint32}
			}
			return from(u), nil
		},
		compare: func(a, b E) int { return cmp.Compare(a, b) },
		zero:    func() any { return uint32(0) },
	}
}

// ObjectType is implemented by pointers to generated schema types.
type ObjectType[T any] interface {
	*T
	EncodeObject(*Object)
	DecodeObject(*Object) error
}

// ObjectCodec returns a codec storing a generated schema type as a nested
// object. A missing field decodes from an empty object, so defaults apply
// recursively.
func ObjectCodec[T any, P ObjectType[T]]() Codec[T] {
	return Codec[T]{
		kind: kindObject,
		encode: func(v T) any {
			obj := NewObject()
			P(&v).EncodeObject(obj)
			return obj
		},
		decode: func(raw any) (T, error) {
			var v T
			obj, ok := raw.(*Object)
			if !ok {
				return v, kindError{kindObject}
			}
			err := P(&v).DecodeObject(obj)
			return v, err
		},
		zero: func() any { return NewObject() },
	}
}

// AddField appends v to field id.
func AddField[T any](o *Object, id FieldID, c Codec[T], v T) {
	o.append(id, c.encode(v))
}

// GetField reads the first value of field id. A missing value decodes to the
// default of the codec, which is the zero value of T for scalars.
func GetField[T any](o *Object, id FieldID, c Codec[T]) (T, error) {
	vs := o.values(id)
	if len(vs) == 0 {
		if c.zero == nil {
			var zero T
			return zero, nil
		}
		return c.read(id, 0, c.zero())
	}
	return c.read(id, 0, vs[0])
}

// AddOption appends *v to field id when v is non-nil.
func AddOption[T any](o *Object, id FieldID, c Codec[T], v *T) {
	if v != nil {
		AddField(o, id, c, *v)
	}
}

// GetOption reads field id as an optional value, nil when the field is empty.
func GetOption[T any](o *Object, id FieldID, c Codec[T]) (*T, error) {
	if o.Count(id) == 0 {
		return nil, nil
	}
	v, err := GetField(o, id, c)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// AddList appends every element of vs to field id.
func AddList[T any](o *Object, id FieldID, c Codec[T], vs []T) {
	for _, v := range vs {
		o.append(id, c.encode(v))
	}
}

// GetList reads all values of field id. An empty field yields a nil slice,
// the canonical empty value.
func GetList[T any](o *Object, id FieldID, c Codec[T]) ([]T, error) {
	raws := o.values(id)
	if len(raws) == 0 {
		return nil, nil
	}
	vs := make([]T, 0, len(raws))
	for i, raw := range raws {
		v, err := c.read(id, i, raw)
		if err != nil {
			return nil, err
		}
		vs = append(vs, v)
	}
	return vs, nil
}

// Map entries are nested objects holding the key and value in these fields.
const (
	MapKeyField   FieldID = 1
	MapValueField FieldID = 2
)

// AddMap appends one entry object per element of m to field id, in
// ascending key order. It panics if kc cannot order map keys.
func AddMap[K comparable, V any](o *Object, id FieldID, kc Codec[K], vc Codec[V], m map[K]V) {
	if kc.compare == nil {
		panic("schema: " + kc.Kind() + " codec cannot order map keys")
	}
	type entry struct {
		k K
		v V
	}
	entries := make([]entry, 0, len(m))
	for k, v := range maps.All(m) {
		entries = append(entries, entry{k, v})
	}
	slices.SortStableFunc(entries, func(a, b entry) int { return kc.compare(a.k, b.k) })
	for _, e := range entries {
		obj := o.AddObject(id)
		AddField(obj, MapKeyField, kc, e.k)
		AddField(obj, MapValueField, vc, e.v)
	}
}

// GetMap reads the entry objects of field id. An empty field yields a nil
// map, the canonical empty value. Later entries win over earlier ones with
// the same key.
func GetMap[K comparable, V any](o *Object, id FieldID, kc Codec[K], vc Codec[V]) (map[K]V, error) {
	raws := o.values(id)
	if len(raws) == 0 {
		return nil, nil
	}
	m := make(map[K]V, len(raws))
	for i, raw := range raws {
		entry, ok := raw.(*Object)
		if !ok {
			return nil, kindMismatch(id, i, kindObject.String(), raw)
		}
		k, err := GetField(entry, MapKeyField, kc)
		if err != nil {
			return nil, wrapField(id, i, err)
		}
		v, err := GetField(entry, MapValueField, vc)
		if err != nil {
			return nil, wrapField(id, i, err)
		}
		m[k] = v
	}
	return m, nil
}
