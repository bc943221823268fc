package gen

import (
	"bytes"
	"fmt"
	"io"
	"path"
	"slices"
	"strings"

	"github.com/dave/jennifer/jen"
	"golang.org/x/tools/txtar"

	"github.com/syssam/spatial/compiler/load"
)

// Decl is one top-level declaration group emitted for a schema entity.
type Decl struct {
	// Entity is the qualified name of the schema entity, or the package for
	// package-level declarations.
	Entity string
	// Names are the top-level Go identifiers the group declares.
	Names []string
	// Code holds the top-level items, rendered in order.
	Code []jen.Code

	vtable string // Component vtable variable, if any
}

// Module is a node of the ModuleTree: one Go package.
type Module struct {
	name     string
	path     []string
	prelude  Prelude
	decls    []*Decl
	declared map[string]string // Go name -> entity
	children map[string]*Module
}

// Name returns the Go package name of the module.
func (m *Module) Name() string { return m.name }

// Path returns the package path segments from the tree root.
func (m *Module) Path() []string { return m.path }

// Decls returns the declarations in emission order.
func (m *Module) Decls() []*Decl { return m.decls }

// GetOrCreate returns the descendant at segs, creating missing nodes. New
// nodes start with a copy of their parent's prelude.
func (m *Module) GetOrCreate(segs []string) *Module {
	node := m
	for _, seg := range segs {
		child, ok := node.children[seg]
		if !ok {
			child = &Module{
				name:     seg,
				path:     append(slices.Clip(node.path), seg),
				prelude:  node.prelude.clone(),
				declared: make(map[string]string),
				children: make(map[string]*Module),
			}
			node.children[seg] = child
		}
		node = child
	}
	return node
}

// Children returns the direct children sorted by name.
func (m *Module) Children() []*Module {
	keys := make([]string, 0, len(m.children))
	for k := range m.children {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	out := make([]*Module, len(keys))
	for i, k := range keys {
		out[i] = m.children[k]
	}
	return out
}

// Add appends d to the module. A Go name may be declared once per module.
func (m *Module) Add(d *Decl) error {
	if len(m.path) == 0 {
		return NewGenerationError("module", d.Entity, "entity is not declared in a package", nil)
	}
	for _, name := range d.Names {
		if other, dup := m.declared[name]; dup {
			return NewGenerationError("module", d.Entity, fmt.Sprintf("%s is already declared by %s in package %s", name, other, strings.Join(m.path, "/")), nil)
		}
	}
	for _, name := range d.Names {
		m.declared[name] = d.Entity
	}
	m.decls = append(m.decls, d)
	return nil
}

// ModuleTree is the tree of generated Go packages. Each schema package
// maps to a node keyed by its normalized path segments.
type ModuleTree struct {
	root *Module
	out  OutputConfig
	// names maps import paths to their package names.
	names map[string]string
}

// NewModuleTree returns an empty tree whose nodes inherit the prelude of out.
func NewModuleTree(out OutputConfig) *ModuleTree {
	return &ModuleTree{
		root: &Module{
			prelude:  out.Prelude.clone(),
			declared: make(map[string]string),
			children: make(map[string]*Module),
		},
		out:   out,
		names: make(map[string]string),
	}
}

// ImportName records the package name of an import path. Imports with a
// known name render without an alias.
func (t *ModuleTree) ImportName(importPath, name string) {
	t.names[importPath] = name
}

// Root returns the root node. It never holds declarations.
func (t *ModuleTree) Root() *Module { return t.root }

// GetOrCreate returns the node at segs, creating missing nodes.
func (t *ModuleTree) GetOrCreate(segs []string) *Module {
	return t.root.GetOrCreate(segs)
}

// File is one generated Go source file.
type File struct {
	Path       string // Slash-separated, relative to the output directory
	ImportPath string
	Package    string
	Content    []byte
}

// Files renders every module holding declarations. Children are listed
// before their parent and siblings in name order, mirroring the render
// order of prelude, children, declarations.
func (t *ModuleTree) Files() ([]*File, error) {
	var files []*File
	var walk func(m *Module) error
	walk = func(m *Module) error {
		for _, c := range m.Children() {
			if err := walk(c); err != nil {
				return err
			}
		}
		if len(m.decls) == 0 {
			return nil
		}
		f, err := t.render(m)
		if err != nil {
			return err
		}
		files = append(files, f)
		return nil
	}
	if err := walk(t.root); err != nil {
		return nil, err
	}
	return files, nil
}

// Render writes all files of the tree to w as a txtar archive.
func (t *ModuleTree) Render(w io.Writer) error {
	files, err := t.Files()
	if err != nil {
		return err
	}
	return writeArchive(w, files)
}

// render renders one module: prelude, then declarations.
func (t *ModuleTree) render(m *Module) (*File, error) {
	importPath := load.JoinImportPath(t.out.ImportRoot, m.path...)
	rel := path.Join(append(slices.Clip(m.path), m.name+".go")...)

	f := jen.NewFilePathName(importPath, m.name)
	f.ImportNames(t.names)
	if t.out.Header != "" {
		f.HeaderComment(t.out.Header)
	}
	for _, c := range m.prelude.Comments {
		f.PackageComment(c)
	}
	if len(m.prelude.Imports) > 0 {
		f.Anon(m.prelude.Imports...)
	}
	for _, d := range m.decls {
		for _, code := range d.Code {
			f.Add(code)
			f.Line()
		}
	}

	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return nil, &GenerationError{Phase: "render", File: rel, Cause: err}
	}
	return &File{Path: rel, ImportPath: importPath, Package: m.name, Content: buf.Bytes()}, nil
}

func writeArchive(w io.Writer, files []*File) error {
	a := &txtar.Archive{Files: make([]txtar.File, len(files))}
	for i, f := range files {
		a.Files[i] = txtar.File{Name: f.Path, Data: f.Content}
	}
	_, err := w.Write(txtar.Format(a))
	return err
}
