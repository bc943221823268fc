package load

// ResolveType returns the type definition with the given qualified name.
func (b *Bundle) ResolveType(qualifiedName string) (*TypeDefinition, error) {
	for _, t := range b.TypeDefinitions {
		if t.Identifier.QualifiedName == qualifiedName {
			return t, nil
		}
	}
	return nil, &UnresolvedReferenceError{QualifiedName: qualifiedName, Kind: ReferenceType}
}

// ResolveEnum returns the enum definition with the given qualified name.
func (b *Bundle) ResolveEnum(qualifiedName string) (*EnumDefinition, error) {
	for _, e := range b.EnumDefinitions {
		if e.Identifier.QualifiedName == qualifiedName {
			return e, nil
		}
	}
	return nil, &UnresolvedReferenceError{QualifiedName: qualifiedName, Kind: ReferenceEnum}
}

// ComponentFields returns the data fields of a component: its inline fields,
// or the fields of the type its data definition refers to.
func (b *Bundle) ComponentFields(c *ComponentDefinition) ([]*FieldDefinition, error) {
	if c.DataDefinition == nil {
		return c.FieldDefinitions, nil
	}
	t, err := b.ResolveType(c.DataDefinition.QualifiedName)
	if err != nil {
		if ure, ok := err.(*UnresolvedReferenceError); ok {
			ure.Referrer = c.Identifier.QualifiedName
		}
		return nil, err
	}
	return t.FieldDefinitions, nil
}

// Enums returns the enums in package pkg, in bundle order.
func (b *Bundle) Enums(pkg string) []*EnumDefinition {
	var out []*EnumDefinition
	for _, e := range b.EnumDefinitions {
		if HasPackagePrefix(e.Identifier.QualifiedName, pkg) {
			out = append(out, e)
		}
	}
	return out
}

// Types returns the types in package pkg, in bundle order.
func (b *Bundle) Types(pkg string) []*TypeDefinition {
	var out []*TypeDefinition
	for _, t := range b.TypeDefinitions {
		if HasPackagePrefix(t.Identifier.QualifiedName, pkg) {
			out = append(out, t)
		}
	}
	return out
}

// Components returns the components in package pkg, in bundle order.
func (b *Bundle) Components(pkg string) []*ComponentDefinition {
	var out []*ComponentDefinition
	for _, c := range b.ComponentDefinitions {
		if HasPackagePrefix(c.Identifier.QualifiedName, pkg) {
			out = append(out, c)
		}
	}
	return out
}
