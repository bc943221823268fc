package gen

import (
	"context"
	"errors"
	"path"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/syssam/spatial/compiler/load"
)

// generator holds the state of one generation pass.
type generator struct {
	cfg       *Config
	bundle    *load.Bundle
	tree      *ModuleTree
	log       *log.Logger
	schemaPkg string

	// vtables lists the component vtables of each module in emission order.
	vtables map[*Module][]string
	modules []*Module
}

// Generate emits Go code for the entities of b in cfg.Package. Generation
// is deterministic: the same bundle and config always produce the same
// files. Formatting is best effort and never fails generation.
func Generate(ctx context.Context, b *load.Bundle, cfg *Config) (*Output, error) {
	if cfg == nil {
		cfg = defaults()
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg = cfg.clone()
	g := &generator{
		cfg:       cfg,
		bundle:    b,
		tree:      NewModuleTree(cfg.Output()),
		log:       cfg.logger(),
		schemaPkg: cfg.schemaPkg(),
		vtables:   make(map[*Module][]string),
	}
	g.tree.ImportName(cfg.RuntimePackage, path.Base(cfg.RuntimePackage))
	g.tree.ImportName(g.schemaPkg, schemaSubpackage)
	if err := g.emit(); err != nil {
		return nil, err
	}
	files, err := g.tree.Files()
	if err != nil {
		return nil, err
	}
	if err := formatFiles(ctx, cfg, g.log, files); err != nil {
		return nil, err
	}
	g.log.Info("generated", "package", displayPackage(cfg.Package), "files", len(files))
	return &Output{Files: files, workers: cfg.workers(), log: g.log}, nil
}

// GenerateFile loads the bundle at filename and generates it.
func GenerateFile(ctx context.Context, filename string, opts ...Option) (*Output, error) {
	cfg, err := NewConfig(opts...)
	if err != nil {
		return nil, err
	}
	b, err := load.Load(filename)
	if err != nil {
		return nil, err
	}
	return Generate(ctx, b, cfg)
}

// emit adds the declarations of every entity in the target package to the
// tree: enums, then types, then components, each in bundle order. Errors
// are collected across entities.
func (g *generator) emit() error {
	var errs []error
	pkg := g.cfg.Package
	for _, e := range g.bundle.Enums(pkg) {
		g.log.Debug("emit enum", "name", e.Identifier.QualifiedName)
		errs = append(errs, g.add(&e.Identifier, func() (*Decl, error) { return g.enum(e) }))
	}
	for _, t := range g.bundle.Types(pkg) {
		g.log.Debug("emit type", "name", t.Identifier.QualifiedName)
		errs = append(errs, g.add(&t.Identifier, func() (*Decl, error) { return g.schemaType(t) }))
	}
	for _, c := range g.bundle.Components(pkg) {
		g.log.Debug("emit component", "name", c.Identifier.QualifiedName, "id", c.ComponentID)
		errs = append(errs, g.add(&c.Identifier, func() (*Decl, error) { return g.component(c) }))
	}
	if err := errors.Join(errs...); err != nil {
		return err
	}
	for _, m := range g.modules {
		vts := g.vtables[m]
		if len(vts) == 0 {
			continue
		}
		if err := m.Add(g.register(strings.Join(m.Path(), "."), vts)); err != nil {
			return err
		}
	}
	return nil
}

// add emits one entity into the module of its package.
func (g *generator) add(id *load.Identifier, emit func() (*Decl, error)) error {
	d, err := emit()
	if err != nil {
		return err
	}
	m := g.tree.GetOrCreate(id.GoPackagePath())
	if err := m.Add(d); err != nil {
		return err
	}
	if _, seen := g.vtables[m]; !seen {
		g.vtables[m] = nil
		g.modules = append(g.modules, m)
	}
	if d.vtable != "" {
		g.vtables[m] = append(g.vtables[m], d.vtable)
	}
	return nil
}

// ref returns the Go declaration generated for id. Entities in the target
// package live under the import root; others are found through the
// dependency map.
func (g *generator) ref(id *load.Identifier) (load.Reference, error) {
	if load.HasPackagePrefix(id.QualifiedName, g.cfg.Package) {
		ref := load.Reference{
			ImportPath: load.JoinImportPath(g.cfg.ImportRoot, id.GoPackagePath()...),
			Name:       id.GoName(),
		}
		g.tree.ImportName(ref.ImportPath, path.Base(ref.ImportPath))
		return ref, nil
	}
	ref, err := id.ReferencePath(g.cfg.Dependencies)
	if err != nil {
		return ref, err
	}
	g.tree.ImportName(ref.ImportPath, path.Base(ref.ImportPath))
	return ref, nil
}

func displayPackage(pkg string) string {
	if pkg == "" {
		return "<all>"
	}
	return pkg
}
