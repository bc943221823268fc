package gen

import (
	"github.com/dave/jennifer/jen"

	"github.com/syssam/spatial/compiler/load"
)

// enum emits a schema enum: a uint32 type, one constant per value, and
// conversions to and from the wire value. Converting an undeclared wire
// value panics with a spatial.UnknownEnumValueError.
func (g *generator) enum(e *load.EnumDefinition) (*Decl, error) {
	qn := e.Identifier.QualifiedName
	name := e.Identifier.GoName()
	from := name + "FromUint32"
	r := receiver(name)

	d := &Decl{Entity: qn, Names: []string{name, from}}
	var (
		defs   []jen.Code
		consts []jen.Code
	)
	for _, v := range e.ValueDefinitions {
		c := name + enumValueName(v.Identifier.Name)
		d.Names = append(d.Names, c)
		defs = append(defs, jen.Id(c).Id(name).Op("=").Lit(int(v.Value)))
		consts = append(consts, jen.Id(c))
	}

	d.Code = []jen.Code{
		jen.Commentf("%s is the schema enum %s.", name, qn).Line().
			Type().Id(name).Uint32(),

		jen.Commentf("Values of %s.", name).Line().
			Const().Defs(defs...),

		jen.Comment("String returns the schema name of the value.").Line().
			Func().Params(jen.Id(r).Id(name)).Id("String").Params().String().Block(
			jen.Switch(jen.Id(r)).BlockFunc(func(grp *jen.Group) {
				for i, v := range e.ValueDefinitions {
					grp.Case(consts[i]).Block(jen.Return(jen.Lit(v.Identifier.Name)))
				}
			}),
			jen.Return(jen.Qual("fmt", "Sprintf").Call(jen.Lit(name+"(%d)"), jen.Uint32().Call(jen.Id(r)))),
		),

		jen.Comment("Uint32 returns the wire value.").Line().
			Func().Params(jen.Id(r).Id(name)).Id("Uint32").Params().Uint32().Block(
			jen.Return(jen.Uint32().Call(jen.Id(r))),
		),

		jen.Commentf("%s converts a wire value to %s. It panics on a value", from, name).Line().
			Comment("the schema does not declare.").Line().
			Func().Id(from).Params(jen.Id("v").Uint32()).Id(name).Block(
			jen.Switch(jen.Id(name).Call(jen.Id("v"))).Block(
				jen.Case(consts...).Block(jen.Return(jen.Id(name).Call(jen.Id("v")))),
			),
			jen.Panic(jen.Qual(g.cfg.RuntimePackage, "NewUnknownEnumValueError").Call(jen.Lit(qn), jen.Id("v"))),
		),
	}
	return d, nil
}
