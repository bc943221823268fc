package load

import (
	"errors"
	"fmt"
	"strings"
)

// Validate checks the structural invariants of the bundle: well-formed
// identifiers, unique qualified names, unique field ids, event and command
// indexes per entity, unique component ids and unique enum values.
// References are checked during generation.
func (b *Bundle) Validate() error {
	var errs []error
	names := make(map[string]struct{})
	declare := func(id *Identifier) {
		if err := b.checkIdentifier(id); err != nil {
			errs = append(errs, err)
			return
		}
		if _, dup := names[id.QualifiedName]; dup {
			errs = append(errs, b.errorf(id.QualifiedName, "duplicate definition"))
		}
		names[id.QualifiedName] = struct{}{}
	}

	for _, e := range b.EnumDefinitions {
		declare(&e.Identifier)
		errs = append(errs, b.validateEnum(e)...)
	}
	for _, t := range b.TypeDefinitions {
		declare(&t.Identifier)
		errs = append(errs, b.validateFields(t.Identifier.QualifiedName, t.FieldDefinitions)...)
	}
	componentIDs := make(map[uint32]string)
	for _, c := range b.ComponentDefinitions {
		declare(&c.Identifier)
		qn := c.Identifier.QualifiedName
		if other, dup := componentIDs[c.ComponentID]; dup {
			errs = append(errs, b.errorf(qn, "component id %d already used by %s", c.ComponentID, other))
		}
		componentIDs[c.ComponentID] = qn
		errs = append(errs, b.validateComponent(c)...)
	}
	return errors.Join(errs...)
}

func (b *Bundle) validateEnum(e *EnumDefinition) []error {
	var errs []error
	qn := e.Identifier.QualifiedName
	if len(e.ValueDefinitions) == 0 {
		errs = append(errs, b.errorf(qn, "enum declares no values"))
	}
	values := make(map[uint32]string)
	for _, v := range e.ValueDefinitions {
		if other, dup := values[v.Value]; dup {
			errs = append(errs, b.errorf(qn, "value %d of %s already used by %s", v.Value, v.Identifier.Name, other))
		}
		values[v.Value] = v.Identifier.Name
	}
	return errs
}

func (b *Bundle) validateComponent(c *ComponentDefinition) []error {
	var errs []error
	qn := c.Identifier.QualifiedName
	switch {
	case c.DataDefinition != nil && len(c.FieldDefinitions) > 0:
		errs = append(errs, b.errorf(qn, "component has both inline fields and a data definition"))
	case c.DataDefinition == nil:
		errs = append(errs, b.validateFields(qn, c.FieldDefinitions)...)
	}

	events := make(map[uint32]string)
	for _, ev := range c.EventDefinitions {
		if other, dup := events[ev.EventIndex]; dup {
			errs = append(errs, b.errorf(qn, "event index %d of %s already used by %s", ev.EventIndex, ev.Identifier.Name, other))
		}
		events[ev.EventIndex] = ev.Identifier.Name
		if ev.Type.Kind() == 0 {
			errs = append(errs, b.errorf(qn, "event %s has an invalid type", ev.Identifier.Name))
		}
	}

	commands := make(map[uint32]string)
	for _, cmd := range c.CommandDefinitions {
		if other, dup := commands[cmd.CommandIndex]; dup {
			errs = append(errs, b.errorf(qn, "command index %d of %s already used by %s", cmd.CommandIndex, cmd.Identifier.Name, other))
		}
		commands[cmd.CommandIndex] = cmd.Identifier.Name
		if cmd.RequestType.Kind() == 0 || cmd.ResponseType.Kind() == 0 {
			errs = append(errs, b.errorf(qn, "command %s has an invalid request or response type", cmd.Identifier.Name))
		}
	}
	return errs
}

func (b *Bundle) validateFields(owner string, fields []*FieldDefinition) []error {
	var errs []error
	ids := make(map[uint32]string)
	for _, f := range fields {
		if other, dup := ids[f.FieldID]; dup {
			errs = append(errs, b.errorf(owner, "field id %d of %s already used by %s", f.FieldID, f.Identifier.Name, other))
		}
		ids[f.FieldID] = f.Identifier.Name
		if f.Shape() == 0 {
			errs = append(errs, b.errorf(owner, "field %s must have exactly one of singularType, optionType, listType or mapType", f.Identifier.Name))
			continue
		}
		for _, vt := range f.ValueTypes() {
			if vt.Kind() == 0 {
				errs = append(errs, b.errorf(owner, "field %s has an invalid value type", f.Identifier.Name))
			}
		}
	}
	return errs
}

func (b *Bundle) checkIdentifier(id *Identifier) error {
	switch {
	case len(id.Path) == 0:
		return b.errorf(id.QualifiedName, "identifier has an empty path")
	case id.Path[len(id.Path)-1] != id.Name:
		return b.errorf(id.QualifiedName, "identifier path %v does not end in name %q", id.Path, id.Name)
	case strings.Join(id.Path, ".") != id.QualifiedName:
		return b.errorf(id.QualifiedName, "identifier path %v does not match qualified name", id.Path)
	case len(id.PackagePath()) == len(id.Path):
		return b.errorf(id.QualifiedName, "identifier name %q must start with an uppercase letter", id.Name)
	}
	return nil
}

func (b *Bundle) errorf(entity, format string, args ...any) *BundleError {
	e := &BundleError{Entity: entity, Message: fmt.Sprintf(format, args...)}
	if src, ok := b.Source(entity); ok {
		e.Source = src.String()
	}
	return e
}
