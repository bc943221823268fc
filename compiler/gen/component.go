package gen

import (
	"fmt"

	"github.com/dave/jennifer/jen"

	"github.com/syssam/spatial/compiler/load"
)

// event is a component event mapped to Go.
type event struct {
	def   *load.EventDefinition
	name  string // Go name of the event buffer in the update struct
	index int
	elem  *value
}

// events maps the events of component qn. Event buffers share the update
// struct with the fields, so a colliding name gets an "Events" suffix.
func (g *generator) events(qn string, defs []*load.EventDefinition, fields []*field) ([]*event, error) {
	taken := make(map[string]bool, len(fields)+len(defs))
	for _, f := range fields {
		taken[f.name] = true
	}
	out := make([]*event, 0, len(defs))
	for _, def := range defs {
		name := fieldName(def.Identifier.Name)
		if taken[name] {
			name += "Events"
		}
		if taken[name] {
			return nil, NewGenerationError("component", qn, fmt.Sprintf("event %s maps to %s which is already used", def.Identifier.Name, name), nil)
		}
		taken[name] = true
		elem, err := g.value(&def.Type, qn)
		if err != nil {
			return nil, err
		}
		out = append(out, &event{def: def, name: name, index: int(def.EventIndex), elem: elem})
	}
	return out, nil
}

// component emits a component: its value struct, update struct, merge
// methods, command unions and vtable.
func (g *generator) component(c *load.ComponentDefinition) (*Decl, error) {
	qn := c.Identifier.QualifiedName
	name := c.Identifier.GoName()
	defs, err := g.bundle.ComponentFields(c)
	if err != nil {
		return nil, err
	}
	fields, err := g.fields(qn, defs)
	if err != nil {
		return nil, err
	}
	events, err := g.events(qn, c.EventDefinitions, fields)
	if err != nil {
		return nil, err
	}
	cmds, err := g.commands(qn, c.CommandDefinitions)
	if err != nil {
		return nil, err
	}

	k := componentNames(name)
	d := &Decl{Entity: qn, Names: []string{name, k.id, k.update, k.vtable}, vtable: k.vtable}
	d.Code = append(d.Code,
		jen.Commentf("%s is the component id of %s.", k.id, qn).Line().
			Const().Id(k.id).Qual(g.schemaPkg, "ComponentID").Op("=").Lit(int(c.ComponentID)),
	)
	d.Code = append(d.Code, g.record(qn, name, fmt.Sprintf("%s is the schema component %s.", name, qn), fields)...)
	d.Code = append(d.Code,
		g.componentID(jen.Id(name), k.id),
		g.mergeData(name, k.update, fields),
	)
	d.Code = append(d.Code, g.update(qn, k, fields, events)...)
	if len(cmds) > 0 {
		names, code := g.commandUnions(qn, k, cmds)
		d.Names = append(d.Names, names...)
		d.Code = append(d.Code, code...)
	}
	d.Code = append(d.Code, g.vtable(qn, name, k, len(cmds) > 0))
	return d, nil
}

// componentKeys are the generated names derived from a component name.
type componentKeys struct {
	name     string
	id       string
	update   string
	vtable   string
	request  string
	response string
}

func componentNames(name string) componentKeys {
	return componentKeys{
		name:     name,
		id:       name + "ComponentID",
		update:   name + "Update",
		vtable:   name + "VTable",
		request:  name + "CommandRequest",
		response: name + "CommandResponse",
	}
}

// componentID emits the ComponentID method of typ.
func (g *generator) componentID(typ *jen.Statement, idConst string) *jen.Statement {
	return jen.Commentf("ComponentID returns %s.", idConst).Line().
		Func().Params(jen.Op("*").Add(typ)).Id("ComponentID").Params().Qual(g.schemaPkg, "ComponentID").Block(
		jen.Return(jen.Id(idConst)),
	)
}

// mergeData emits the method applying an update to a component value.
func (g *generator) mergeData(name, update string, fields []*field) *jen.Statement {
	r := receiver(name)
	return jen.Comment("Merge applies the fields changed by update.").Line().
		Func().Params(jen.Id(r).Op("*").Id(name)).Id("Merge").Params(jen.Id("update").Op("*").Id(update)).BlockFunc(func(b *jen.Group) {
		for _, f := range fields {
			b.If(jen.Id("update").Dot(f.name).Op("!=").Nil()).Block(
				jen.Id(r).Dot(f.name).Op("=").Op("*").Id("update").Dot(f.name),
			)
		}
	})
}

// update emits the update struct of a component: every field as a pointer,
// nil when unchanged, plus one buffer per event.
func (g *generator) update(qn string, k componentKeys, fields []*field, events []*event) []jen.Code {
	r := receiver(k.update)
	updParam := func() *jen.Statement { return jen.Id("upd").Op("*").Qual(g.schemaPkg, "ComponentUpdate") }

	return []jen.Code{
		jen.Commentf("%s is a partial change to %s. A nil field is unchanged.", k.update, k.name).Line().
			Type().Id(k.update).StructFunc(func(s *jen.Group) {
			for _, f := range fields {
				s.Id(f.name).Op("*").Add(f.goType())
			}
			for _, e := range events {
				s.Id(e.name).Index().Add(e.elem.goType())
			}
		}),

		g.componentID(jen.Id(k.update), k.id),

		jen.Comment("EncodeUpdate writes the changed fields and events to upd.").Line().
			Func().Params(jen.Id(r).Op("*").Id(k.update)).Id("EncodeUpdate").Params(updParam()).BlockFunc(func(b *jen.Group) {
			for _, f := range fields {
				b.Add(f.call(g.schemaPkg, f.helper("Update"), jen.Id("upd"), jen.Id(r).Dot(f.name)))
			}
			for _, e := range events {
				b.Qual(g.schemaPkg, "AddEvents").Call(jen.Id("upd"), jen.Lit(e.index), e.elem.codec(), jen.Id(r).Dot(e.name))
			}
		}),

		jen.Comment("DecodeUpdate reads the changed fields and events from upd.").Line().
			Func().Params(jen.Id(r).Op("*").Id(k.update)).Id("DecodeUpdate").Params(updParam()).Error().BlockFunc(func(b *jen.Group) {
			if len(fields)+len(events) > 0 {
				b.Var().Err().Error()
			}
			for _, f := range fields {
				b.Add(decodeInto(
					jen.Id(r).Dot(f.name),
					f.call(g.schemaPkg, f.helper("Read"), jen.Id("upd")),
					qn+": field "+f.def.Identifier.Name,
				))
			}
			for _, e := range events {
				b.Add(decodeInto(
					jen.Id(r).Dot(e.name),
					jen.Qual(g.schemaPkg, "GetEvents").Call(jen.Id("upd"), jen.Lit(e.index), e.elem.codec()),
					qn+": event "+e.def.Identifier.Name,
				))
			}
			b.Return(jen.Nil())
		}),

		jen.Comment("Merge folds other into the update. Fields changed in other replace").Line().
			Comment("the current ones; events are appended.").Line().
			Func().Params(jen.Id(r).Op("*").Id(k.update)).Id("Merge").Params(jen.Id("other").Op("*").Id(k.update)).BlockFunc(func(b *jen.Group) {
			for _, f := range fields {
				b.If(jen.Id("other").Dot(f.name).Op("!=").Nil()).Block(
					jen.Id(r).Dot(f.name).Op("=").Id("other").Dot(f.name),
				)
			}
			for _, e := range events {
				b.Id(r).Dot(e.name).Op("=").Append(jen.Id(r).Dot(e.name), jen.Id("other").Dot(e.name).Op("..."))
			}
		}),
	}
}

// vtable emits the registry description of a component and the interface
// assertions of its value and update types.
func (g *generator) vtable(qn, name string, k componentKeys, hasCommands bool) *jen.Statement {
	rt := g.cfg.RuntimePackage
	decoder := func(fn string) *jen.Statement {
		return jen.Func().Params(
			jen.Id("index").Qual(g.schemaPkg, "CommandIndex"),
			jen.Id("obj").Op("*").Qual(g.schemaPkg, "Object"),
		).Params(jen.Qual(rt, "Command"), jen.Error()).Block(
			jen.Return(jen.Id(fn).Call(jen.Id("index"), jen.Id("obj"))),
		)
	}
	return jen.Commentf("%s describes %s to a spatial.Registry.", k.vtable, name).Line().
		Var().Id(k.vtable).Op("=").Qual(rt, "VTable").Values(jen.DictFunc(func(d jen.Dict) {
		d[jen.Id("ID")] = jen.Id(k.id)
		d[jen.Id("Name")] = jen.Lit(qn)
		d[jen.Id("NewData")] = jen.Func().Params().Qual(rt, "Data").Block(jen.Return(jen.New(jen.Id(name))))
		d[jen.Id("NewUpdate")] = jen.Func().Params().Qual(rt, "Update").Block(jen.Return(jen.New(jen.Id(k.update))))
		if hasCommands {
			d[jen.Id("DecodeRequest")] = decoder("Decode" + k.request)
			d[jen.Id("DecodeResponse")] = decoder("Decode" + k.response)
		}
	})).Line().Line().
		Var().Defs(
		jen.Id("_").Qual(rt, "Data").Op("=").Parens(jen.Op("*").Id(name)).Call(jen.Nil()),
		jen.Id("_").Qual(rt, "Update").Op("=").Parens(jen.Op("*").Id(k.update)).Call(jen.Nil()),
	)
}

// register emits the Register function of a package.
func (g *generator) register(pkg string, vtables []string) *Decl {
	rt := g.cfg.RuntimePackage
	args := make([]jen.Code, len(vtables))
	for i, vt := range vtables {
		args[i] = jen.Id(vt)
	}
	return &Decl{
		Entity: pkg,
		Names:  []string{"Register"},
		Code: []jen.Code{
			jen.Commentf("Register adds the components of schema package %s to r.", pkg).Line().
				Func().Id("Register").Params(jen.Id("r").Op("*").Qual(rt, "Registry")).Error().Block(
				jen.Return(jen.Id("r").Dot("Register").Call(args...)),
			),
		},
	}
}
