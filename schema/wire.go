package schema

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

var (
	_ msgpack.CustomEncoder = (*Object)(nil)
	_ msgpack.CustomDecoder = (*Object)(nil)
	_ msgpack.CustomEncoder = (*ComponentUpdate)(nil)
	_ msgpack.CustomDecoder = (*ComponentUpdate)(nil)
)

// MarshalObject encodes o to MessagePack.
func MarshalObject(o *Object) ([]byte, error) {
	return msgpack.Marshal(o)
}

// UnmarshalObject decodes a MessagePack payload produced by MarshalObject.
func UnmarshalObject(data []byte) (*Object, error) {
	o := NewObject()
	if err := msgpack.Unmarshal(data, o); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return o, nil
}

// MarshalUpdate encodes u to MessagePack.
func MarshalUpdate(u *ComponentUpdate) ([]byte, error) {
	return msgpack.Marshal(u)
}

// UnmarshalUpdate decodes a MessagePack payload produced by MarshalUpdate.
func UnmarshalUpdate(data []byte) (*ComponentUpdate, error) {
	u := NewComponentUpdate()
	if err := msgpack.Unmarshal(data, u); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return u, nil
}

// EncodeMsgpack writes the object as a map from field id to an array of
// [kind, value] pairs, fields in ascending id order.
func (o *Object) EncodeMsgpack(enc *msgpack.Encoder) error {
	ids := o.Fields()
	if err := enc.EncodeMapLen(len(ids)); err != nil {
		return err
	}
	for _, id := range ids {
		if err := enc.EncodeUint32(uint32(id)); err != nil {
			return err
		}
		vs := o.values(id)
		if err := enc.EncodeArrayLen(len(vs)); err != nil {
			return err
		}
		for _, v := range vs {
			if err := encodeValue(enc, v); err != nil {
				return fmt.Errorf("field %d: %w", id, err)
			}
		}
	}
	return nil
}

// DecodeMsgpack reads an object written by EncodeMsgpack.
func (o *Object) DecodeMsgpack(dec *msgpack.Decoder) error {
	n, err := dec.DecodeMapLen()
	if err != nil {
		return err
	}
	o.fields = nil
	for range n {
		id, err := dec.DecodeUint32()
		if err != nil {
			return err
		}
		count, err := dec.DecodeArrayLen()
		if err != nil {
			return err
		}
		for range count {
			v, err := decodeValue(dec)
			if err != nil {
				return fmt.Errorf("field %d: %w", id, err)
			}
			o.append(FieldID(id), v)
		}
	}
	return nil
}

func encodeValue(enc *msgpack.Encoder, v any) error {
	k := kindOf(v)
	if k == 0 {
		return fmt.Errorf("unsupported value type %T", v)
	}
	if err := enc.EncodeArrayLen(2); err != nil {
		return err
	}
	if err := enc.EncodeUint8(uint8(k)); err != nil {
		return err
	}
	switch v := v.(type) {
	case int32:
		return enc.EncodeInt32(v)
	case int64:
		return enc.EncodeInt64(v)
	case uint32:
		return enc.EncodeUint32(v)
	case uint64:
		return enc.EncodeUint64(v)
	case bool:
		return enc.EncodeBool(v)
	case float32:
		return enc.EncodeFloat32(v)
	case float64:
		return enc.EncodeFloat64(v)
	case string:
		return enc.EncodeString(v)
	case []byte:
		return enc.EncodeBytes(v)
	case EntityID:
		return enc.EncodeInt64(int64(v))
	case *Object:
		return v.EncodeMsgpack(enc)
	}
	return nil
}

func decodeValue(dec *msgpack.Decoder) (any, error) {
	n, err := dec.DecodeArrayLen()
	if err != nil {
		return nil, err
	}
	if n != 2 {
		return nil, fmt.Errorf("%w: value has %d elements, want 2", ErrMalformed, n)
	}
	tag, err := dec.DecodeUint8()
	if err != nil {
		return nil, err
	}
	switch kind(tag) {
	case kindInt32:
		return dec.DecodeInt32()
	case kindInt64:
		return dec.DecodeInt64()
	case kindUint32:
		return dec.DecodeUint32()
	case kindUint64:
		return dec.DecodeUint64()
	case kindBool:
		return dec.DecodeBool()
	case kindFloat:
		return dec.DecodeFloat32()
	case kindDouble:
		return dec.DecodeFloat64()
	case kindString:
		return dec.DecodeString()
	case kindBytes:
		return dec.DecodeBytes()
	case kindEntityID:
		id, err := dec.DecodeInt64()
		return EntityID(id), err
	case kindObject:
		sub := NewObject()
		if err := sub.DecodeMsgpack(dec); err != nil {
			return nil, err
		}
		return sub, nil
	}
	return nil, fmt.Errorf("%w: unknown value kind %d", ErrMalformed, tag)
}

// EncodeMsgpack writes the update as [fields, events, cleared].
func (u *ComponentUpdate) EncodeMsgpack(enc *msgpack.Encoder) error {
	if err := enc.EncodeArrayLen(3); err != nil {
		return err
	}
	fields, events := u.Fields, u.Events
	if fields == nil {
		fields = NewObject()
	}
	if events == nil {
		events = NewObject()
	}
	if err := fields.EncodeMsgpack(enc); err != nil {
		return err
	}
	if err := events.EncodeMsgpack(enc); err != nil {
		return err
	}
	if err := enc.EncodeArrayLen(len(u.Cleared)); err != nil {
		return err
	}
	for _, id := range u.Cleared {
		if err := enc.EncodeUint32(uint32(id)); err != nil {
			return err
		}
	}
	return nil
}

// DecodeMsgpack reads an update written by EncodeMsgpack.
func (u *ComponentUpdate) DecodeMsgpack(dec *msgpack.Decoder) error {
	n, err := dec.DecodeArrayLen()
	if err != nil {
		return err
	}
	if n != 3 {
		return fmt.Errorf("%w: update has %d elements, want 3", ErrMalformed, n)
	}
	u.Fields, u.Events = NewObject(), NewObject()
	if err := u.Fields.DecodeMsgpack(dec); err != nil {
		return fmt.Errorf("fields: %w", err)
	}
	if err := u.Events.DecodeMsgpack(dec); err != nil {
		return fmt.Errorf("events: %w", err)
	}
	count, err := dec.DecodeArrayLen()
	if err != nil {
		return err
	}
	u.Cleared = nil
	for range count {
		id, err := dec.DecodeUint32()
		if err != nil {
			return err
		}
		u.Clear(FieldID(id))
	}
	return nil
}
