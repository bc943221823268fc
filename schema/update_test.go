package schema_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/spatial/schema"
)

func TestComponentUpdate(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		u := schema.NewComponentUpdate()
		assert.True(t, u.IsEmpty())
		assert.False(t, u.Changed(1))
	})

	t.Run("Clear is idempotent and sorted", func(t *testing.T) {
		u := schema.NewComponentUpdate()
		u.Clear(4)
		u.Clear(2)
		u.Clear(4)
		assert.Equal(t, []schema.FieldID{2, 4}, u.Cleared)
		assert.True(t, u.IsCleared(2))
		assert.True(t, u.Changed(4))
		assert.False(t, u.IsEmpty())
	})
}

func TestUpdateField(t *testing.T) {
	u := schema.NewComponentUpdate()
	schema.UpdateField[int32](u, 1, schema.Int32Codec, nil)
	x := int32(5)
	schema.UpdateField(u, 2, schema.Int32Codec, &x)

	unchanged, err := schema.ReadField(u, 1, schema.Int32Codec)
	require.NoError(t, err)
	assert.Nil(t, unchanged)

	changed, err := schema.ReadField(u, 2, schema.Int32Codec)
	require.NoError(t, err)
	require.NotNil(t, changed)
	assert.Equal(t, int32(5), *changed)
}

func TestUpdateOption(t *testing.T) {
	u := schema.NewComponentUpdate()
	var cleared *string
	name := "n"
	set := &name
	schema.UpdateOption[string](u, 1, schema.StringCodec, nil)
	schema.UpdateOption(u, 2, schema.StringCodec, &cleared)
	schema.UpdateOption(u, 3, schema.StringCodec, &set)

	got, err := schema.ReadOption(u, 1, schema.StringCodec)
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = schema.ReadOption(u, 2, schema.StringCodec)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Nil(t, *got)

	got, err = schema.ReadOption(u, 3, schema.StringCodec)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.NotNil(t, *got)
	assert.Equal(t, "n", **got)
}

func TestUpdateList(t *testing.T) {
	u := schema.NewComponentUpdate()
	empty := []schema.EntityID{}
	full := []schema.EntityID{1, 2, 3}
	schema.UpdateList(u, 1, schema.EntityIDCodec, &empty)
	schema.UpdateList(u, 2, schema.EntityIDCodec, &full)

	got, err := schema.ReadList(u, 1, schema.EntityIDCodec)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Empty(t, *got)

	got, err = schema.ReadList(u, 2, schema.EntityIDCodec)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, full, *got)

	got, err = schema.ReadList(u, 3, schema.EntityIDCodec)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestUpdateMap(t *testing.T) {
	u := schema.NewComponentUpdate()
	empty := map[string]bool{}
	full := map[string]bool{"a": true, "b": false}
	schema.UpdateMap(u, 1, schema.StringCodec, schema.BoolCodec, &empty)
	schema.UpdateMap(u, 2, schema.StringCodec, schema.BoolCodec, &full)

	got, err := schema.ReadMap(u, 1, schema.StringCodec, schema.BoolCodec)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Empty(t, *got)

	got, err = schema.ReadMap(u, 2, schema.StringCodec, schema.BoolCodec)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, full, *got)
}

func TestEvents(t *testing.T) {
	u := schema.NewComponentUpdate()
	schema.AddEvents(u, 1, schema.ObjectCodec[point](), nil)
	assert.True(t, u.IsEmpty())

	schema.AddEvents(u, 1, schema.ObjectCodec[point](), []point{{X: 1}, {X: 2}})
	events, err := schema.GetEvents(u, 1, schema.ObjectCodec[point]())
	require.NoError(t, err)
	assert.Equal(t, []point{{X: 1}, {X: 2}}, events)
}
