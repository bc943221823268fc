package load

import (
	"go/token"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Dependencies maps schema package prefixes (e.g. "improbable") to the Go
// import roots their generated code lives under.
type Dependencies map[string]string

// Match returns the longest key that is a package prefix of qualifiedName,
// along with its import root. Keys match whole dot-separated segments, so
// "foo" matches "foo.Bar" and "foo.bar.Baz" but not "foobar.Baz".
func (d Dependencies) Match(qualifiedName string) (key, root string, ok bool) {
	for k, v := range d {
		if !HasPackagePrefix(qualifiedName, k) {
			continue
		}
		if !ok || len(k) > len(key) {
			key, root, ok = k, v, true
		}
	}
	return key, root, ok
}

// Keys returns the dependency keys in sorted order.
func (d Dependencies) Keys() []string {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// HasPackagePrefix reports whether qualifiedName lies in package pkg: it
// equals pkg or continues it with a "." separator.
func HasPackagePrefix(qualifiedName, pkg string) bool {
	if pkg == "" {
		return true
	}
	rest, ok := strings.CutPrefix(qualifiedName, pkg)
	return ok && (rest == "" || rest[0] == '.')
}

// Reference locates a generated Go declaration.
type Reference struct {
	ImportPath string
	Name       string
}

// String returns "importpath.Name".
func (r Reference) String() string {
	return r.ImportPath + "." + r.Name
}

// Namespace returns the path segments preceding the name.
func (id *Identifier) Namespace() []string {
	if len(id.Path) == 0 {
		return nil
	}
	return id.Path[:len(id.Path)-1]
}

// ModulePath returns the namespace segments normalized to Go package naming.
// For the path ["foo_foo", "BarBar", "bazBaz", "Quux"] it returns
// ["foofoo", "barbar", "bazbaz"].
func (id *Identifier) ModulePath() []string {
	ns := id.Namespace()
	segs := make([]string, len(ns))
	for i, seg := range ns {
		segs[i] = PackageSegment(seg)
	}
	return segs
}

// PackagePath returns the leading run of lowercase-initial path segments,
// which name the package. Uppercase segments after it scope nested types.
func (id *Identifier) PackagePath() []string {
	end := slices.IndexFunc(id.Path, func(seg string) bool {
		r, _ := utf8.DecodeRuneInString(seg)
		return !unicode.IsLower(r)
	})
	if end < 0 {
		end = len(id.Path)
	}
	return id.Path[:end]
}

// Package returns the dotted package name of the identifier.
func (id *Identifier) Package() string {
	return strings.Join(id.PackagePath(), ".")
}

// GoPackagePath returns the package path segments normalized to Go package
// naming.
func (id *Identifier) GoPackagePath() []string {
	pkg := id.PackagePath()
	segs := make([]string, len(pkg))
	for i, seg := range pkg {
		segs[i] = PackageSegment(seg)
	}
	return segs
}

// GoName returns the name of the generated declaration. Types nested in
// other types are flattened with underscores: "example.Outer.Inner" becomes
// "Outer_Inner".
func (id *Identifier) GoName() string {
	scoped := id.Path[len(id.PackagePath()):]
	parts := make([]string, len(scoped))
	for i, seg := range scoped {
		r, size := utf8.DecodeRuneInString(seg)
		parts[i] = string(unicode.ToUpper(r)) + seg[size:]
	}
	return strings.Join(parts, "_")
}

// ReferencePath resolves the identifier against deps. The longest matching
// dependency key wins; the result is the matched import root followed by the
// identifier's Go package path.
func (id *Identifier) ReferencePath(deps Dependencies) (Reference, error) {
	_, root, ok := deps.Match(id.QualifiedName)
	if !ok {
		return Reference{}, &UnresolvedReferenceError{
			QualifiedName: id.QualifiedName,
			Kind:          ReferenceDependency,
			Keys:          deps.Keys(),
		}
	}
	return Reference{ImportPath: JoinImportPath(root, id.GoPackagePath()...), Name: id.GoName()}, nil
}

// JoinImportPath joins an import root with package segments.
func JoinImportPath(root string, segs ...string) string {
	root = strings.TrimSuffix(root, "/")
	if len(segs) == 0 {
		return root
	}
	if root == "" {
		return strings.Join(segs, "/")
	}
	return root + "/" + strings.Join(segs, "/")
}

// PackageSegment normalizes a schema path segment into a Go package name:
// lowercase without separators. Go keywords get a trailing underscore.
func PackageSegment(seg string) string {
	s := strings.Map(func(r rune) rune {
		if r == '_' || r == '-' {
			return -1
		}
		return unicode.ToLower(r)
	}, seg)
	if token.Lookup(s).IsKeyword() {
		return s + "_"
	}
	return s
}
