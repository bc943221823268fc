package spatial

import "github.com/syssam/spatial/schema"

// Data is implemented by generated component value types.
type Data interface {
	ComponentID() schema.ComponentID
	EncodeObject(*schema.Object)
	DecodeObject(*schema.Object) error
}

// Update is implemented by generated component update types.
type Update interface {
	ComponentID() schema.ComponentID
	EncodeUpdate(*schema.ComponentUpdate)
	DecodeUpdate(*schema.ComponentUpdate) error
}

// Command is implemented by generated command request and response variants.
type Command interface {
	ComponentID() schema.ComponentID
	CommandIndex() schema.CommandIndex
	EncodeObject(*schema.Object)
}

// EncodeCommand serializes a command variant, returning its index and payload.
func EncodeCommand(c Command) (schema.CommandIndex, *schema.Object) {
	obj := schema.NewObject()
	c.EncodeObject(obj)
	return c.CommandIndex(), obj
}

// EncodeData serializes a component value.
func EncodeData(d Data) *schema.Object {
	obj := schema.NewObject()
	d.EncodeObject(obj)
	return obj
}

// EncodeUpdate serializes a component update.
func EncodeUpdate(u Update) *schema.ComponentUpdate {
	upd := schema.NewComponentUpdate()
	u.EncodeUpdate(upd)
	return upd
}
