package gen

import (
	"io"
	"maps"
	"runtime"

	"github.com/charmbracelet/log"

	"github.com/syssam/spatial/compiler/load"
)

// Import paths of the runtime packages referenced by generated code.
const (
	DefaultRuntimePackage = "github.com/syssam/spatial"
	schemaSubpackage      = "schema"
)

// DefaultHeader is the header comment of every generated file.
const DefaultHeader = "Code generated by spatialgen. DO NOT EDIT."

// Config holds the generation settings.
type Config struct {
	// Package is the schema package prefix to generate, e.g. "example".
	// Entities outside it are only referenced. Empty generates the whole bundle.
	Package string

	// ImportRoot is the Go import path under which the generated package
	// tree lives, e.g. "github.com/acme/game/gen".
	ImportRoot string

	// Dependencies maps schema package prefixes outside Package to the
	// import roots of their generated code.
	Dependencies load.Dependencies

	// Header is the comment written at the top of each generated file.
	Header string

	// Prelude is injected at the top of every generated package file.
	Prelude Prelude

	// RuntimePackage is the import path of the spatial runtime.
	RuntimePackage string

	// Formatter post-processes generated files. Failures are logged and the
	// unformatted source is kept.
	Formatter Formatter

	// Logger receives progress and formatter diagnostics.
	Logger *log.Logger

	// Workers bounds the number of files written in parallel.
	Workers int
}

// Prelude is the part of a package file emitted before its declarations.
type Prelude struct {
	// Comments are written after the header, one line each.
	Comments []string
	// Imports are blank-imported packages.
	Imports []string
}

// clone returns a deep copy of p.
func (p Prelude) clone() Prelude {
	return Prelude{
		Comments: append([]string(nil), p.Comments...),
		Imports:  append([]string(nil), p.Imports...),
	}
}

// OutputConfig groups the settings that shape generated files.
type OutputConfig struct {
	ImportRoot string
	Header     string
	Prelude    Prelude
}

// Output returns the output-related settings.
func (c *Config) Output() OutputConfig {
	return OutputConfig{
		ImportRoot: c.ImportRoot,
		Header:     c.Header,
		Prelude:    c.Prelude,
	}
}

// schemaPkg returns the import path of the runtime schema package.
func (c *Config) schemaPkg() string {
	return load.JoinImportPath(c.RuntimePackage, schemaSubpackage)
}

// logger returns the configured logger or one that discards.
func (c *Config) logger() *log.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return log.New(io.Discard)
}

// workers returns the parallelism bound, defaulting to GOMAXPROCS.
func (c *Config) workers() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// validate checks the settings required by Generate.
func (c *Config) validate() error {
	if c.ImportRoot == "" {
		return NewConfigError("ImportRoot", nil, "import root cannot be empty")
	}
	if c.RuntimePackage == "" {
		return NewConfigError("RuntimePackage", nil, "runtime package cannot be empty")
	}
	return nil
}

// defaults returns a config populated with the default settings.
func defaults() *Config {
	return &Config{
		Header:         DefaultHeader,
		RuntimePackage: DefaultRuntimePackage,
		Dependencies:   make(load.Dependencies),
		Formatter:      ImportsFormatter{},
		Workers:        runtime.GOMAXPROCS(0),
	}
}

// clone returns a copy of c that shares no mutable state with it.
func (c *Config) clone() *Config {
	cc := *c
	cc.Dependencies = maps.Clone(c.Dependencies)
	cc.Prelude = c.Prelude.clone()
	return &cc
}
