package gen

import (
	"fmt"
	"strings"

	"github.com/dave/jennifer/jen"

	"github.com/syssam/spatial/compiler/load"
)

// command is a component command mapped to Go.
type command struct {
	def      *load.CommandDefinition
	name     string // Go name of the command, e.g. "TestCommand"
	index    int
	request  *value
	response *value
}

// commands maps the commands of component qn. Payloads must be schema
// types, which encode as whole objects.
func (g *generator) commands(qn string, defs []*load.CommandDefinition) ([]*command, error) {
	out := make([]*command, 0, len(defs))
	seen := make(map[string]string, len(defs))
	for _, def := range defs {
		cmd := &command{def: def, name: pascal(def.Identifier.Name), index: int(def.CommandIndex)}
		if other, dup := seen[cmd.name]; dup {
			return nil, NewGenerationError("command", qn, fmt.Sprintf("commands %s and %s both map to %s", other, def.Identifier.Name, cmd.name), nil)
		}
		seen[cmd.name] = def.Identifier.Name
		var err error
		if cmd.request, err = g.value(&def.RequestType, qn); err != nil {
			return nil, err
		}
		if cmd.response, err = g.value(&def.ResponseType, qn); err != nil {
			return nil, err
		}
		if !cmd.request.object || !cmd.response.object {
			return nil, &load.BundleError{
				Entity:  qn,
				Message: fmt.Sprintf("command %s must have type request and response payloads", def.Identifier.Name),
			}
		}
		out = append(out, cmd)
	}
	return out, nil
}

// commandSide selects the request or response half of a command.
type commandSide struct {
	union   string // Sealed interface name, e.g. "ExampleCommandRequest"
	suffix  string // Variant suffix, "Request" or "Response"
	kind    string // spatial.CommandKind constant
	payload func(*command) *value
}

// commandUnions emits the request and response unions of a component. Each
// union is a sealed interface with one variant struct per command, and a
// decoder mapping a command index back to its variant.
func (g *generator) commandUnions(qn string, k componentKeys, cmds []*command) ([]string, []jen.Code) {
	sides := []commandSide{
		{union: k.request, suffix: "Request", kind: "CommandRequestKind", payload: func(c *command) *value { return c.request }},
		{union: k.response, suffix: "Response", kind: "CommandResponseKind", payload: func(c *command) *value { return c.response }},
	}
	var (
		names []string
		code  []jen.Code
	)
	for _, side := range sides {
		n, c := g.commandUnion(qn, k, cmds, side)
		names = append(names, n...)
		code = append(code, c...)
	}
	return names, code
}

func (g *generator) commandUnion(qn string, k componentKeys, cmds []*command, side commandSide) ([]string, []jen.Code) {
	rt := g.cfg.RuntimePackage
	marker := "is" + side.union
	decode := "Decode" + side.union
	objParam := func() *jen.Statement { return jen.Id("obj").Op("*").Qual(g.schemaPkg, "Object") }
	lower := strings.ToLower(side.suffix)

	names := []string{side.union, decode}
	code := []jen.Code{
		jen.Commentf("%s is the %s of one of the commands of %s.", side.union, lower, qn).Line().
			Type().Id(side.union).Interface(
			jen.Qual(rt, "Command"),
			jen.Id(marker).Params(),
		),
	}

	var asserts []jen.Code
	for _, cmd := range cmds {
		variant := k.name + cmd.name + side.suffix
		names = append(names, variant)
		r := receiver(variant)
		code = append(code,
			jen.Commentf("%s is the %s of command %s.", variant, lower, cmd.def.Identifier.Name).Line().
				Type().Id(variant).Struct(
				jen.Id("Payload").Add(side.payload(cmd).goType()),
			),

			jen.Func().Params(jen.Op("*").Id(variant)).Id(marker).Params().Block(),

			g.componentID(jen.Id(variant), k.id),

			jen.Comment("CommandIndex returns the index of the command.").Line().
				Func().Params(jen.Op("*").Id(variant)).Id("CommandIndex").Params().Qual(g.schemaPkg, "CommandIndex").Block(
				jen.Return(jen.Lit(cmd.index)),
			),

			jen.Comment("EncodeObject writes the payload to obj.").Line().
				Func().Params(jen.Id(r).Op("*").Id(variant)).Id("EncodeObject").Params(objParam()).Block(
				jen.Id(r).Dot("Payload").Dot("EncodeObject").Call(jen.Id("obj")),
			),

			jen.Comment("DecodeObject reads the payload from obj.").Line().
				Func().Params(jen.Id(r).Op("*").Id(variant)).Id("DecodeObject").Params(objParam()).Error().Block(
				jen.Return(jen.Id(r).Dot("Payload").Dot("DecodeObject").Call(jen.Id("obj"))),
			),
		)
		asserts = append(asserts, jen.Id("_").Id(side.union).Op("=").Parens(jen.Op("*").Id(variant)).Call(jen.Nil()))
	}

	code = append(code,
		jen.Commentf("%s decodes the %s of the command with the given index.", decode, lower).Line().
			Comment("An index the component does not declare yields a *spatial.UnknownCommandError.").Line().
			Func().Id(decode).Params(
			jen.Id("index").Qual(g.schemaPkg, "CommandIndex"),
			objParam(),
		).Params(jen.Id(side.union), jen.Error()).Block(
			jen.Switch(jen.Id("index")).BlockFunc(func(sw *jen.Group) {
				for _, cmd := range cmds {
					variant := k.name + cmd.name + side.suffix
					sw.Case(jen.Lit(cmd.index)).Block(
						jen.Id("cmd").Op(":=").New(jen.Id(variant)),
						jen.If(
							jen.Err().Op(":=").Id("cmd").Dot("DecodeObject").Call(jen.Id("obj")),
							jen.Err().Op("!=").Nil(),
						).Block(
							jen.Return(jen.Nil(), jen.Qual("fmt", "Errorf").Call(
								jen.Lit(fmt.Sprintf("%s: command %s %s: %%w", qn, cmd.def.Identifier.Name, lower)),
								jen.Err(),
							)),
						),
						jen.Return(jen.Id("cmd"), jen.Nil()),
					)
				}
			}),
			jen.Return(jen.Nil(), jen.Qual(rt, "NewUnknownCommandError").Call(
				jen.Lit(qn), jen.Id(k.id), jen.Qual(rt, side.kind), jen.Id("index"),
			)),
		),
		jen.Var().Defs(asserts...),
	)
	return names, code
}
