// Package schema provides the runtime object model used by generated code.
//
// A serialized schema type is represented as an [Object]: a set of fields
// keyed by [FieldID], each holding an ordered list of values. Singular fields
// hold one value, optional fields hold zero or one, lists hold any number and
// maps hold one nested entry object per key (key in field 1, value in field 2).
//
// Generated code never touches the raw values directly. It goes through typed
// [Codec] values and the shape helpers:
//
//	schema.AddField(obj, 1, schema.DoubleCodec, c.X)
//	schema.AddOption(obj, 2, schema.StringCodec, c.Name)
//	schema.AddList(obj, 3, schema.EntityIDCodec, c.Targets)
//	schema.AddMap(obj, 4, schema.StringCodec, schema.Int32Codec, c.Scores)
//
// # Component Updates
//
// A [ComponentUpdate] carries the changed fields of a component, the events
// emitted with the change and the ids of fields that were cleared (an
// optional set to empty, or a list or map set to zero entries).
//
// # Wire Format
//
// Objects and updates encode to MessagePack via [MarshalObject] and
// [MarshalUpdate]. The encoding is deterministic: fields are written in
// ascending id order and map entries in ascending key order.
package schema
