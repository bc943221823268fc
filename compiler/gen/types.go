package gen

import (
	"fmt"

	"github.com/dave/jennifer/jen"

	"github.com/syssam/spatial/compiler/load"
)

// value describes how one schema value type maps to Go.
type value struct {
	goType  func() *jen.Statement // Go type of the value
	codec   func() *jen.Statement // schema.Codec expression for the value
	ordered bool                  // comparable and ordered, usable as a map key
	object  bool                  // generated schema type with Encode/DecodeObject
}

// primitive returns the Go mapping of a primitive schema type.
func (g *generator) primitive(p load.PrimitiveType) (*value, error) {
	scalar := func(typ func() *jen.Statement, codec string, ordered bool) *value {
		return &value{
			goType:  typ,
			codec:   func() *jen.Statement { return jen.Qual(g.schemaPkg, codec) },
			ordered: ordered,
		}
	}
	switch p {
	case load.Int32, load.Sint32, load.Sfixed32:
		return scalar(jen.Int32, "Int32Codec", true), nil
	case load.Int64, load.Sint64, load.Sfixed64:
		return scalar(jen.Int64, "Int64Codec", true), nil
	case load.Uint32, load.Fixed32:
		return scalar(jen.Uint32, "Uint32Codec", true), nil
	case load.Uint64, load.Fixed64:
		return scalar(jen.Uint64, "Uint64Codec", true), nil
	case load.Bool:
		return scalar(jen.Bool, "BoolCodec", true), nil
	case load.Float:
		return scalar(jen.Float32, "FloatCodec", true), nil
	case load.Double:
		return scalar(jen.Float64, "DoubleCodec", true), nil
	case load.String:
		return scalar(jen.String, "StringCodec", true), nil
	case load.Bytes:
		return scalar(func() *jen.Statement { return jen.Index().Byte() }, "BytesCodec", false), nil
	case load.EntityID:
		return scalar(func() *jen.Statement { return jen.Qual(g.schemaPkg, "EntityID") }, "EntityIDCodec", true), nil
	}
	return nil, fmt.Errorf("unsupported primitive type %s", p)
}

// value resolves a value type reference. Enum and type references are
// looked up in the bundle and mapped to the declaration they generate.
func (g *generator) value(vt *load.ValueTypeReference, referrer string) (*value, error) {
	switch vt.Kind() {
	case load.ValuePrimitive:
		return g.primitive(vt.Primitive)
	case load.ValueEnum:
		e, err := g.bundle.ResolveEnum(vt.Enum.QualifiedName)
		if err != nil {
			return nil, withReferrer(err, referrer)
		}
		ref, err := g.ref(&e.Identifier)
		if err != nil {
			return nil, withReferrer(err, referrer)
		}
		return &value{
			goType: func() *jen.Statement { return jen.Qual(ref.ImportPath, ref.Name) },
			codec: func() *jen.Statement {
				return jen.Qual(g.schemaPkg, "EnumCodec").Call(jen.Qual(ref.ImportPath, ref.Name+"FromUint32"))
			},
			ordered: true,
		}, nil
	case load.ValueType:
		t, err := g.bundle.ResolveType(vt.Type.QualifiedName)
		if err != nil {
			return nil, withReferrer(err, referrer)
		}
		ref, err := g.ref(&t.Identifier)
		if err != nil {
			return nil, withReferrer(err, referrer)
		}
		return &value{
			goType: func() *jen.Statement { return jen.Qual(ref.ImportPath, ref.Name) },
			codec: func() *jen.Statement {
				return jen.Qual(g.schemaPkg, "ObjectCodec").Types(jen.Qual(ref.ImportPath, ref.Name)).Call()
			},
			object: true,
		}, nil
	}
	return nil, fmt.Errorf("invalid value type %s", vt)
}

// withReferrer records the entity holding an unresolved reference.
func withReferrer(err error, referrer string) error {
	if ure, ok := err.(*load.UnresolvedReferenceError); ok && ure.Referrer == "" {
		ure.Referrer = referrer
	}
	return err
}

// field is a schema field mapped to Go.
type field struct {
	def   *load.FieldDefinition
	name  string // Go field name
	id    int
	shape load.FieldShape
	elem  *value // element, option or map value type
	key   *value // map key type
}

// fields maps the field definitions of owner to Go. Field names must stay
// unique after conversion, and map keys must be ordered.
func (g *generator) fields(owner string, defs []*load.FieldDefinition) ([]*field, error) {
	out := make([]*field, 0, len(defs))
	seen := make(map[string]string, len(defs))
	for _, def := range defs {
		f := &field{def: def, name: fieldName(def.Identifier.Name), id: int(def.FieldID), shape: def.Shape()}
		if other, dup := seen[f.name]; dup {
			return nil, NewGenerationError("field", owner, fmt.Sprintf("fields %s and %s both map to %s", other, def.Identifier.Name, f.name), nil)
		}
		seen[f.name] = def.Identifier.Name
		var err error
		switch f.shape {
		case load.ShapeSingular:
			f.elem, err = g.value(&def.SingularType.Type, owner)
		case load.ShapeOption:
			f.elem, err = g.value(&def.OptionType.InnerType, owner)
		case load.ShapeList:
			f.elem, err = g.value(&def.ListType.InnerType, owner)
		case load.ShapeMap:
			if f.key, err = g.value(&def.MapType.KeyType, owner); err != nil {
				return nil, err
			}
			if !f.key.ordered {
				return nil, &load.BundleError{
					Entity:  owner,
					Message: fmt.Sprintf("map field %s has unsupported key type %s", def.Identifier.Name, def.MapType.KeyType.String()),
				}
			}
			f.elem, err = g.value(&def.MapType.ValueType, owner)
		default:
			return nil, &load.BundleError{Entity: owner, Message: "field " + def.Identifier.Name + " has no type"}
		}
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

// goType returns the Go type of the field in a value struct.
func (f *field) goType() *jen.Statement {
	switch f.shape {
	case load.ShapeOption:
		return jen.Op("*").Add(f.elem.goType())
	case load.ShapeList:
		return jen.Index().Add(f.elem.goType())
	case load.ShapeMap:
		return jen.Map(f.key.goType()).Add(f.elem.goType())
	}
	return f.elem.goType()
}

// codecs returns the codec arguments of the schema helpers for the field.
func (f *field) codecs() []jen.Code {
	if f.shape == load.ShapeMap {
		return []jen.Code{f.key.codec(), f.elem.codec()}
	}
	return []jen.Code{f.elem.codec()}
}

// helper returns the name of the schema helper for the field shape:
// helper("Get") is "GetOption" for an option field.
func (f *field) helper(prefix string) string {
	switch f.shape {
	case load.ShapeOption:
		return prefix + "Option"
	case load.ShapeList:
		return prefix + "List"
	case load.ShapeMap:
		return prefix + "Map"
	}
	return prefix + "Field"
}

// call renders schema.<helper>(target, id, codecs..., extra...).
func (f *field) call(schemaPkg, helper string, target jen.Code, extra ...jen.Code) *jen.Statement {
	args := append([]jen.Code{target, jen.Lit(f.id)}, f.codecs()...)
	args = append(args, extra...)
	return jen.Qual(schemaPkg, helper).Call(args...)
}

// decodeInto renders the assignment of a fallible read to dst, returning a
// wrapped error on failure.
func decodeInto(dst, read jen.Code, errPrefix string) *jen.Statement {
	return jen.If(
		jen.List(dst, jen.Err()).Op("=").Add(read),
		jen.Err().Op("!=").Nil(),
	).Block(
		jen.Return(jen.Qual("fmt", "Errorf").Call(jen.Lit(errPrefix+": %w"), jen.Err())),
	)
}
