package schema_test

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/spatial/schema"
)

type point struct {
	X int32
	Y int32
}

func (p *point) EncodeObject(obj *schema.Object) {
	schema.AddField(obj, 1, schema.Int32Codec, p.X)
	schema.AddField(obj, 2, schema.Int32Codec, p.Y)
}

func (p *point) DecodeObject(obj *schema.Object) error {
	var err error
	if p.X, err = schema.GetField(obj, 1, schema.Int32Codec); err != nil {
		return fmt.Errorf("point: field x: %w", err)
	}
	if p.Y, err = schema.GetField(obj, 2, schema.Int32Codec); err != nil {
		return fmt.Errorf("point: field y: %w", err)
	}
	return nil
}

type shade uint32

func shadeFromUint32(v uint32) shade {
	if v > 1 {
		panic(fmt.Sprintf("unknown shade %d", v))
	}
	return shade(v)
}

// rank has no member for the wire value 0.
type rank uint32

func rankFromUint32(v uint32) rank {
	if v != 1 && v != 2 {
		panic(fmt.Sprintf("unknown rank %d", v))
	}
	return rank(v)
}

type badge struct {
	Rank rank
}

func (b *badge) EncodeObject(obj *schema.Object) {
	schema.AddField(obj, 1, schema.EnumCodec(rankFromUint32), b.Rank)
}

func (b *badge) DecodeObject(obj *schema.Object) error {
	var err error
	if b.Rank, err = schema.GetField(obj, 1, schema.EnumCodec(rankFromUint32)); err != nil {
		return fmt.Errorf("badge: field rank: %w", err)
	}
	return nil
}

func TestObject(t *testing.T) {
	t.Run("zero value is usable", func(t *testing.T) {
		var obj schema.Object
		assert.Equal(t, 0, obj.Count(1))
		assert.Empty(t, obj.Fields())
		schema.AddField(&obj, 3, schema.BoolCodec, true)
		assert.Equal(t, 1, obj.Count(3))
	})

	t.Run("Fields are sorted", func(t *testing.T) {
		obj := schema.NewObject()
		schema.AddField(obj, 9, schema.Int32Codec, 1)
		schema.AddField(obj, 2, schema.Int32Codec, 1)
		schema.AddField(obj, 5, schema.Int32Codec, 1)
		assert.Equal(t, []schema.FieldID{2, 5, 9}, obj.Fields())
		assert.Equal(t, 3, obj.Len())
	})

	t.Run("Clear", func(t *testing.T) {
		obj := schema.NewObject()
		schema.AddList(obj, 1, schema.StringCodec, []string{"a", "b"})
		obj.Clear(1)
		assert.Equal(t, 0, obj.Count(1))
	})

	t.Run("nested objects", func(t *testing.T) {
		obj := schema.NewObject()
		schema.AddField(obj.AddObject(4), 1, schema.StringCodec, "inner")
		subs := obj.Objects(4)
		require.Len(t, subs, 1)
		v, err := schema.GetField(subs[0], 1, schema.StringCodec)
		require.NoError(t, err)
		assert.Equal(t, "inner", v)
	})
}

func TestScalarCodecs(t *testing.T) {
	obj := schema.NewObject()
	schema.AddField(obj, 1, schema.Int32Codec, -7)
	schema.AddField(obj, 2, schema.Int64Codec, 1<<40)
	schema.AddField(obj, 3, schema.Uint32Codec, 7)
	schema.AddField(obj, 4, schema.Uint64Codec, 1<<50)
	schema.AddField(obj, 5, schema.BoolCodec, true)
	schema.AddField(obj, 6, schema.FloatCodec, 1.5)
	schema.AddField(obj, 7, schema.DoubleCodec, 2.25)
	schema.AddField(obj, 8, schema.StringCodec, "hello")
	schema.AddField(obj, 9, schema.BytesCodec, []byte{1, 2, 3})
	schema.AddField(obj, 10, schema.EntityIDCodec, 42)

	i32, err := schema.GetField(obj, 1, schema.Int32Codec)
	require.NoError(t, err)
	assert.Equal(t, int32(-7), i32)

	i64, err := schema.GetField(obj, 2, schema.Int64Codec)
	require.NoError(t, err)
	assert.Equal(t, int64(1<<40), i64)

	u32, err := schema.GetField(obj, 3, schema.Uint32Codec)
	require.NoError(t, err)
	assert.Equal(t, uint32(7), u32)

	u64, err := schema.GetField(obj, 4, schema.Uint64Codec)
	require.NoError(t, err)
	assert.Equal(t, uint64(1<<50), u64)

	b, err := schema.GetField(obj, 5, schema.BoolCodec)
	require.NoError(t, err)
	assert.True(t, b)

	f32, err := schema.GetField(obj, 6, schema.FloatCodec)
	require.NoError(t, err)
	assert.Equal(t, float32(1.5), f32)

	f64, err := schema.GetField(obj, 7, schema.DoubleCodec)
	require.NoError(t, err)
	assert.Equal(t, 2.25, f64)

	s, err := schema.GetField(obj, 8, schema.StringCodec)
	require.NoError(t, err)
	assert.Equal(t, "hello", s)

	bs, err := schema.GetField(obj, 9, schema.BytesCodec)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, bs)

	eid, err := schema.GetField(obj, 10, schema.EntityIDCodec)
	require.NoError(t, err)
	assert.Equal(t, schema.EntityID(42), eid)
}

func TestGetField(t *testing.T) {
	t.Run("missing decodes to zero", func(t *testing.T) {
		v, err := schema.GetField(schema.NewObject(), 1, schema.StringCodec)
		require.NoError(t, err)
		assert.Empty(t, v)
	})

	t.Run("missing enum decodes wire value 0", func(t *testing.T) {
		v, err := schema.GetField(schema.NewObject(), 1, schema.EnumCodec(shadeFromUint32))
		require.NoError(t, err)
		assert.Equal(t, shade(0), v)

		assert.Panics(t, func() {
			_, _ = schema.GetField(schema.NewObject(), 1, schema.EnumCodec(rankFromUint32))
		}, "an enum without a 0 member has no default")
	})

	t.Run("missing object decodes an empty object", func(t *testing.T) {
		v, err := schema.GetField(schema.NewObject(), 1, schema.ObjectCodec[point]())
		require.NoError(t, err)
		assert.Equal(t, point{}, v)

		assert.Panics(t, func() {
			_, _ = schema.GetField(schema.NewObject(), 1, schema.ObjectCodec[badge]())
		}, "nested defaults go through the enum conversion")
	})

	t.Run("kind mismatch", func(t *testing.T) {
		obj := schema.NewObject()
		schema.AddField(obj, 3, schema.StringCodec, "x")
		_, err := schema.GetField(obj, 3, schema.Int32Codec)
		require.Error(t, err)
		assert.ErrorIs(t, err, schema.ErrFieldType)
		assert.True(t, schema.IsFieldError(err))
		assert.Equal(t, "schema: field 3 value 0: want int32, got string", err.Error())
	})

	t.Run("nested decode error keeps context", func(t *testing.T) {
		obj := schema.NewObject()
		schema.AddField(obj.AddObject(2), 1, schema.StringCodec, "bad")
		_, err := schema.GetField(obj, 2, schema.ObjectCodec[point]())
		require.Error(t, err)
		assert.ErrorIs(t, err, schema.ErrFieldType)
		assert.Contains(t, err.Error(), "field 2 value 0")
		assert.Contains(t, err.Error(), "point: field x")
	})
}

func TestOption(t *testing.T) {
	obj := schema.NewObject()
	schema.AddOption[string](obj, 1, schema.StringCodec, nil)
	name := "set"
	schema.AddOption(obj, 2, schema.StringCodec, &name)

	absent, err := schema.GetOption(obj, 1, schema.StringCodec)
	require.NoError(t, err)
	assert.Nil(t, absent)

	present, err := schema.GetOption(obj, 2, schema.StringCodec)
	require.NoError(t, err)
	require.NotNil(t, present)
	assert.Equal(t, "set", *present)
}

func TestList(t *testing.T) {
	tests := []struct {
		name string
		in   []int64
	}{
		{name: "empty", in: nil},
		{name: "one", in: []int64{5}},
		{name: "three", in: []int64{3, 1, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obj := schema.NewObject()
			schema.AddList(obj, 1, schema.Int64Codec, tt.in)
			got, err := schema.GetList(obj, 1, schema.Int64Codec)
			require.NoError(t, err)
			assert.Equal(t, tt.in, got)
		})
	}
}

func TestMap(t *testing.T) {
	t.Run("entries in key order", func(t *testing.T) {
		obj := schema.NewObject()
		schema.AddMap(obj, 1, schema.StringCodec, schema.Int32Codec, map[string]int32{"b": 2, "a": 1})
		entries := obj.Objects(1)
		require.Len(t, entries, 2)
		first, err := schema.GetField(entries[0], schema.MapKeyField, schema.StringCodec)
		require.NoError(t, err)
		assert.Equal(t, "a", first)
	})

	t.Run("round trip", func(t *testing.T) {
		in := map[uint32]point{1: {X: 1, Y: 2}, 7: {X: 3, Y: 4}}
		obj := schema.NewObject()
		schema.AddMap(obj, 5, schema.Uint32Codec, schema.ObjectCodec[point](), in)
		got, err := schema.GetMap(obj, 5, schema.Uint32Codec, schema.ObjectCodec[point]())
		require.NoError(t, err)
		assert.Equal(t, in, got)
	})

	t.Run("empty", func(t *testing.T) {
		got, err := schema.GetMap(schema.NewObject(), 5, schema.StringCodec, schema.StringCodec)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("bool keys", func(t *testing.T) {
		in := map[bool]int32{true: 1, false: 2}
		obj := schema.NewObject()
		schema.AddMap(obj, 1, schema.BoolCodec, schema.Int32Codec, in)
		entries := obj.Objects(1)
		require.Len(t, entries, 2)
		first, err := schema.GetField(entries[0], schema.MapKeyField, schema.BoolCodec)
		require.NoError(t, err)
		assert.False(t, first, "false sorts before true")

		got, err := schema.GetMap(obj, 1, schema.BoolCodec, schema.Int32Codec)
		require.NoError(t, err)
		assert.Equal(t, in, got)
	})

	t.Run("NaN key keeps its value", func(t *testing.T) {
		obj := schema.NewObject()
		schema.AddMap(obj, 1, schema.DoubleCodec, schema.StringCodec, map[float64]string{math.NaN(): "nan", 1: "one"})
		entries := obj.Objects(1)
		require.Len(t, entries, 2)
		k, err := schema.GetField(entries[0], schema.MapKeyField, schema.DoubleCodec)
		require.NoError(t, err)
		assert.True(t, math.IsNaN(k), "NaN sorts first")
		v, err := schema.GetField(entries[0], schema.MapValueField, schema.StringCodec)
		require.NoError(t, err)
		assert.Equal(t, "nan", v)
	})

	t.Run("enum keys", func(t *testing.T) {
		c := schema.EnumCodec(shadeFromUint32)
		assert.True(t, c.Ordered())
		in := map[shade]string{1: "dark", 0: "light"}
		obj := schema.NewObject()
		schema.AddMap(obj, 1, c, schema.StringCodec, in)
		got, err := schema.GetMap(obj, 1, c, schema.StringCodec)
		require.NoError(t, err)
		assert.Equal(t, in, got)
	})

	t.Run("unordered key codec panics", func(t *testing.T) {
		c := schema.ObjectCodec[point]()
		assert.False(t, c.Ordered())
		assert.Panics(t, func() {
			schema.AddMap(schema.NewObject(), 1, c, schema.StringCodec, map[point]string{{X: 1}: "a"})
		})
	})

	t.Run("entry of wrong kind", func(t *testing.T) {
		obj := schema.NewObject()
		schema.AddField(obj, 1, schema.StringCodec, "not an entry")
		_, err := schema.GetMap(obj, 1, schema.StringCodec, schema.StringCodec)
		assert.ErrorIs(t, err, schema.ErrFieldType)
	})
}

func TestEnumCodec(t *testing.T) {
	c := schema.EnumCodec(shadeFromUint32)
	assert.Equal(t, "uint32", c.Kind())

	obj := schema.NewObject()
	schema.AddField(obj, 1, c, shade(1))
	got, err := schema.GetField(obj, 1, c)
	require.NoError(t, err)
	assert.Equal(t, shade(1), got)

	schema.AddField(obj, 2, schema.Uint32Codec, 9)
	assert.Panics(t, func() {
		_, _ = schema.GetField(obj, 2, c)
	})
}
