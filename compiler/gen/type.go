package gen

import (
	"fmt"

	"github.com/dave/jennifer/jen"

	"github.com/syssam/spatial/compiler/load"
)

// schemaType emits a schema type as a struct with object codec methods.
// Nested types are flattened: example.Outer.Inner becomes Outer_Inner.
func (g *generator) schemaType(t *load.TypeDefinition) (*Decl, error) {
	qn := t.Identifier.QualifiedName
	name := t.Identifier.GoName()
	fields, err := g.fields(qn, t.FieldDefinitions)
	if err != nil {
		return nil, err
	}
	return &Decl{
		Entity: qn,
		Names:  []string{name},
		Code:   g.record(qn, name, fmt.Sprintf("%s is the schema type %s.", name, qn), fields),
	}, nil
}

// record emits a value struct and its EncodeObject and DecodeObject methods.
func (g *generator) record(qn, name, doc string, fields []*field) []jen.Code {
	r := receiver(name)
	obj := func() *jen.Statement { return jen.Id("obj") }
	objParam := jen.Id("obj").Op("*").Qual(g.schemaPkg, "Object")

	return []jen.Code{
		jen.Comment(doc).Line().
			Type().Id(name).StructFunc(func(s *jen.Group) {
			for _, f := range fields {
				s.Id(f.name).Add(f.goType())
			}
		}),

		jen.Comment("EncodeObject writes the fields to obj.").Line().
			Func().Params(jen.Id(r).Op("*").Id(name)).Id("EncodeObject").Params(objParam).BlockFunc(func(b *jen.Group) {
			for _, f := range fields {
				b.Add(f.call(g.schemaPkg, f.helper("Add"), obj(), jen.Id(r).Dot(f.name)))
			}
		}),

		jen.Comment("DecodeObject reads the fields from obj. Missing singular fields").Line().
			Comment("decode from their default wire value.").Line().
			Func().Params(jen.Id(r).Op("*").Id(name)).Id("DecodeObject").Params(objParam.Clone()).Error().BlockFunc(func(b *jen.Group) {
			if len(fields) > 0 {
				b.Var().Err().Error()
			}
			for _, f := range fields {
				b.Add(decodeInto(
					jen.Id(r).Dot(f.name),
					f.call(g.schemaPkg, f.helper("Get"), obj()),
					qn+": field "+f.def.Identifier.Name,
				))
			}
			b.Return(jen.Nil())
		}),
	}
}
