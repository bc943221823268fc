package gen

import (
	"bytes"
	"testing"

	"github.com/dave/jennifer/jen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/txtar"
)

func testDecl(entity string, names ...string) *Decl {
	d := &Decl{Entity: entity, Names: names}
	for _, n := range names {
		d.Code = append(d.Code, jen.Type().Id(n).Struct())
	}
	return d
}

func TestModule_GetOrCreate(t *testing.T) {
	tree := NewModuleTree(OutputConfig{
		ImportRoot: "github.com/acme/gen",
		Prelude:    Prelude{Comments: []string{"root"}},
	})

	m := tree.GetOrCreate([]string{"foo", "bar"})
	assert.Equal(t, "bar", m.Name())
	assert.Equal(t, []string{"foo", "bar"}, m.Path())
	assert.Same(t, m, tree.GetOrCreate([]string{"foo", "bar"}))
	assert.Same(t, m, tree.Root().GetOrCreate([]string{"foo"}).GetOrCreate([]string{"bar"}))
	assert.Same(t, tree.Root(), tree.GetOrCreate(nil))

	m.prelude.Comments[0] = "changed"
	assert.Equal(t, "root", tree.Root().prelude.Comments[0], "nodes own a copy of the prelude")
	assert.Equal(t, "root", tree.GetOrCreate([]string{"foo"}).prelude.Comments[0])
}

func TestModule_Children(t *testing.T) {
	tree := NewModuleTree(OutputConfig{ImportRoot: "x"})
	for _, name := range []string{"charlie", "alpha", "bravo"} {
		tree.GetOrCreate([]string{name})
	}
	var names []string
	for _, c := range tree.Root().Children() {
		names = append(names, c.Name())
	}
	assert.Equal(t, []string{"alpha", "bravo", "charlie"}, names)
}

func TestModule_Add(t *testing.T) {
	tree := NewModuleTree(OutputConfig{ImportRoot: "x"})
	m := tree.GetOrCreate([]string{"example"})

	require.NoError(t, m.Add(testDecl("example.Color", "Color", "ColorFromUint32")))
	require.NoError(t, m.Add(testDecl("example.Shade", "Shade")))
	assert.Len(t, m.Decls(), 2)

	err := m.Add(testDecl("example.Other", "Other", "Color"))
	require.Error(t, err)
	assert.True(t, IsGenerationError(err))
	assert.Contains(t, err.Error(), "Color is already declared by example.Color in package example")
	assert.Len(t, m.Decls(), 2, "a rejected declaration is not added")

	err = tree.Root().Add(testDecl("Root", "Root"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not declared in a package")
}

func TestModuleTree_Files(t *testing.T) {
	tree := NewModuleTree(OutputConfig{
		ImportRoot: "github.com/acme/gen",
		Header:     DefaultHeader,
		Prelude:    Prelude{Comments: []string{"Package doc."}, Imports: []string{"embed"}},
	})
	require.NoError(t, tree.GetOrCreate([]string{"b"}).Add(testDecl("b.B", "B")))
	require.NoError(t, tree.GetOrCreate([]string{"a", "inner"}).Add(testDecl("a.inner.I", "I")))
	require.NoError(t, tree.GetOrCreate([]string{"a"}).Add(testDecl("a.A", "A")))
	tree.GetOrCreate([]string{"empty"})

	files, err := tree.Files()
	require.NoError(t, err)
	require.Len(t, files, 3)

	assert.Equal(t, "a/inner/inner.go", files[0].Path)
	assert.Equal(t, "github.com/acme/gen/a/inner", files[0].ImportPath)
	assert.Equal(t, "inner", files[0].Package)
	assert.Equal(t, "a/a.go", files[1].Path)
	assert.Equal(t, "b/b.go", files[2].Path)

	src := string(files[2].Content)
	assert.Contains(t, src, "// Code generated by spatialgen. DO NOT EDIT.")
	assert.Contains(t, src, "// Package doc.\npackage b")
	assert.Contains(t, src, `_ "embed"`)
	assert.Contains(t, src, "type B struct{}")
}

func TestModuleTree_Render(t *testing.T) {
	tree := NewModuleTree(OutputConfig{ImportRoot: "github.com/acme/gen"})
	require.NoError(t, tree.GetOrCreate([]string{"p"}).Add(testDecl("p.T", "T")))
	require.NoError(t, tree.GetOrCreate([]string{"p", "q"}).Add(testDecl("p.q.U", "U")))

	var buf bytes.Buffer
	require.NoError(t, tree.Render(&buf))

	a := txtar.Parse(buf.Bytes())
	require.Len(t, a.Files, 2)
	assert.Equal(t, "p/q/q.go", a.Files[0].Name)
	assert.Equal(t, "p/p.go", a.Files[1].Name)
	assert.Contains(t, string(a.Files[1].Data), "package p")
	assert.NotContains(t, string(a.Files[1].Data), "Code generated", "empty header is omitted")
}
