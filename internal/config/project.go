// Package config loads spatialgen project files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/syssam/spatial/compiler/gen"
	"github.com/syssam/spatial/compiler/schemac"
)

// DefaultFile is the project file looked up in the working directory.
const DefaultFile = "spatialgen.yaml"

// Project is a spatialgen.yaml project file.
type Project struct {
	// Bundle is the schema bundle to generate from. When Compiler is set the
	// bundle is produced there first.
	Bundle       string            `yaml:"bundle"`
	Package      string            `yaml:"package"`
	ImportRoot   string            `yaml:"import_root"`
	Output       string            `yaml:"output"`
	Dependencies map[string]string `yaml:"dependencies,omitempty"`
	Header       *string           `yaml:"header,omitempty"`
	Prelude      PreludeConfig     `yaml:"prelude,omitempty"`
	Formatter    FormatterConfig   `yaml:"formatter,omitempty"`
	Compiler     *CompilerConfig   `yaml:"compiler,omitempty"`
	Log          LogConfig         `yaml:"log,omitempty"`
}

// PreludeConfig lists content injected at the top of every generated file.
type PreludeConfig struct {
	Comments []string `yaml:"comments,omitempty"`
	Imports  []string `yaml:"imports,omitempty"`
}

// FormatterConfig selects the formatter. The in-process goimports formatter
// is used unless Command is set or formatting is disabled.
type FormatterConfig struct {
	Disabled bool          `yaml:"disabled,omitempty"`
	Command  string        `yaml:"command,omitempty"`
	Args     []string      `yaml:"args,omitempty"`
	Timeout  time.Duration `yaml:"timeout,omitempty"`
}

// CompilerConfig configures the schema compiler run before generation.
type CompilerConfig struct {
	LibDir        string   `yaml:"lib_dir,omitempty"` // Default: $SPATIAL_LIB_DIR
	Path          string   `yaml:"path,omitempty"`
	StdLib        string   `yaml:"std_lib,omitempty"`
	SchemaPaths   []string `yaml:"schema_paths"`
	DescriptorSet string   `yaml:"descriptor_set,omitempty"`
}

// LogConfig configures logging.
type LogConfig struct {
	Verbose    bool  `yaml:"verbose,omitempty"`
	Timestamps *bool `yaml:"timestamps,omitempty"`
}

// Load reads the project file at path. Environment variables in the file
// are expanded and relative paths are resolved against its directory.
func Load(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	data = []byte(os.ExpandEnv(string(data)))

	var p Project
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	p.setDefaults()
	p.resolve(filepath.Dir(path))
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &p, nil
}

func (p *Project) setDefaults() {
	if p.Output == "" {
		p.Output = "gen"
	}
	if p.Bundle == "" && p.Compiler != nil {
		p.Bundle = filepath.Join("build", "bundle.json")
	}
}

// resolve makes relative paths relative to dir.
func (p *Project) resolve(dir string) {
	abs := func(s *string) {
		if *s != "" && !filepath.IsAbs(*s) {
			*s = filepath.Join(dir, *s)
		}
	}
	abs(&p.Bundle)
	abs(&p.Output)
	if c := p.Compiler; c != nil {
		abs(&c.LibDir)
		abs(&c.Path)
		abs(&c.StdLib)
		abs(&c.DescriptorSet)
		for i := range c.SchemaPaths {
			abs(&c.SchemaPaths[i])
		}
	}
}

// Validate reports every missing required setting.
func (p *Project) Validate() error {
	var errs []error
	if p.Bundle == "" {
		errs = append(errs, errors.New("bundle is required"))
	}
	if p.ImportRoot == "" {
		errs = append(errs, errors.New("import_root is required"))
	}
	if p.Compiler != nil && len(p.Compiler.SchemaPaths) == 0 {
		errs = append(errs, errors.New("compiler.schema_paths must not be empty"))
	}
	if p.Formatter.Disabled && p.Formatter.Command != "" {
		errs = append(errs, errors.New("formatter.command is set but formatting is disabled"))
	}
	return errors.Join(errs...)
}

// Options returns the generator options described by the project.
func (p *Project) Options() []gen.Option {
	opts := []gen.Option{
		gen.WithPackage(p.Package),
		gen.WithImportRoot(p.ImportRoot),
		gen.WithDependencies(p.Dependencies),
		gen.WithPrelude(gen.Prelude{Comments: p.Prelude.Comments, Imports: p.Prelude.Imports}),
	}
	if p.Header != nil {
		opts = append(opts, gen.WithHeader(*p.Header))
	}
	switch {
	case p.Formatter.Disabled:
		opts = append(opts, gen.WithFormatter(nil))
	case p.Formatter.Command != "":
		opts = append(opts, gen.WithFormatter(gen.CommandFormatter{
			Path:    p.Formatter.Command,
			Args:    p.Formatter.Args,
			Timeout: p.Formatter.Timeout,
		}))
	}
	return opts
}

// SchemaCompiler returns the compiler invocation, or nil when the project
// generates from an existing bundle.
func (p *Project) SchemaCompiler() (*schemac.Compiler, schemac.Output) {
	if p.Compiler == nil {
		return nil, schemac.Output{}
	}
	c := &schemac.Compiler{
		LibDir:      p.Compiler.LibDir,
		Path:        p.Compiler.Path,
		StdLib:      p.Compiler.StdLib,
		SchemaPaths: p.Compiler.SchemaPaths,
	}
	return c, schemac.Output{BundleJSON: p.Bundle, DescriptorSet: p.Compiler.DescriptorSet}
}

// WatchPaths returns the files and directories whose changes require
// regeneration.
func (p *Project) WatchPaths() []string {
	if p.Compiler != nil {
		return p.Compiler.SchemaPaths
	}
	return []string{p.Bundle}
}
