package schema_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/spatial/schema"
)

func sampleObject() *schema.Object {
	obj := schema.NewObject()
	schema.AddField(obj, 1, schema.Int32Codec, -3)
	schema.AddField(obj, 2, schema.Int64Codec, 1<<40)
	schema.AddField(obj, 3, schema.Uint32Codec, 3)
	schema.AddField(obj, 4, schema.Uint64Codec, 1<<41)
	schema.AddField(obj, 5, schema.BoolCodec, true)
	schema.AddField(obj, 6, schema.FloatCodec, 0.5)
	schema.AddField(obj, 7, schema.DoubleCodec, 0.25)
	schema.AddList(obj, 8, schema.StringCodec, []string{"a", "b"})
	schema.AddField(obj, 9, schema.BytesCodec, []byte("raw"))
	schema.AddField(obj, 10, schema.EntityIDCodec, 99)
	schema.AddField(obj, 11, schema.ObjectCodec[point](), point{X: 4, Y: 5})
	return obj
}

func TestObjectWire(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		in := sampleObject()
		data, err := schema.MarshalObject(in)
		require.NoError(t, err)

		out, err := schema.UnmarshalObject(data)
		require.NoError(t, err)
		assert.Equal(t, in.Fields(), out.Fields())

		p, err := schema.GetField(out, 11, schema.ObjectCodec[point]())
		require.NoError(t, err)
		assert.Equal(t, point{X: 4, Y: 5}, p)

		eid, err := schema.GetField(out, 10, schema.EntityIDCodec)
		require.NoError(t, err)
		assert.Equal(t, schema.EntityID(99), eid)

		strs, err := schema.GetList(out, 8, schema.StringCodec)
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, strs)

		f, err := schema.GetField(out, 6, schema.FloatCodec)
		require.NoError(t, err)
		assert.Equal(t, float32(0.5), f)
	})

	t.Run("deterministic", func(t *testing.T) {
		a, err := schema.MarshalObject(sampleObject())
		require.NoError(t, err)
		b, err := schema.MarshalObject(sampleObject())
		require.NoError(t, err)
		assert.Equal(t, a, b)
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := schema.UnmarshalObject([]byte{0xc1})
		assert.ErrorIs(t, err, schema.ErrMalformed)
	})
}

func TestUpdateWire(t *testing.T) {
	in := schema.NewComponentUpdate()
	x := 1.5
	schema.UpdateField(in, 1, schema.DoubleCodec, &x)
	in.Clear(3)
	schema.AddEvents(in, 1, schema.ObjectCodec[point](), []point{{X: 9}})

	data, err := schema.MarshalUpdate(in)
	require.NoError(t, err)
	out, err := schema.UnmarshalUpdate(data)
	require.NoError(t, err)

	assert.Equal(t, []schema.FieldID{3}, out.Cleared)
	got, err := schema.ReadField(out, 1, schema.DoubleCodec)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 1.5, *got)

	events, err := schema.GetEvents(out, 1, schema.ObjectCodec[point]())
	require.NoError(t, err)
	assert.Equal(t, []point{{X: 9}}, events)
}
