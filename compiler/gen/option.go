package gen

import (
	"errors"
	"maps"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/syssam/spatial/compiler/load"
)

// Option configures code generation.
type Option func(*Config) error

// WithPackage restricts generation to one schema package prefix.
// For example: "example" or "improbable.restricted".
func WithPackage(pkg string) Option {
	return func(c *Config) error {
		if strings.HasPrefix(pkg, ".") || strings.HasSuffix(pkg, ".") {
			return NewConfigError("Package", pkg, "package must not start or end with a dot")
		}
		c.Package = pkg
		return nil
	}
}

// WithImportRoot sets the import path of the generated package tree.
// For example: "github.com/org/project/gen".
func WithImportRoot(root string) Option {
	return func(c *Config) error {
		root = strings.TrimSuffix(root, "/")
		if root == "" {
			return NewConfigError("ImportRoot", nil, "import root cannot be empty")
		}
		c.ImportRoot = root
		return nil
	}
}

// WithDependency maps a schema package prefix to the import root of its
// generated code.
func WithDependency(pkg, importRoot string) Option {
	return func(c *Config) error {
		if pkg == "" {
			return NewConfigError("Dependencies", nil, "dependency package cannot be empty")
		}
		if importRoot == "" {
			return NewConfigError("Dependencies", pkg, "dependency import root cannot be empty")
		}
		if c.Dependencies == nil {
			c.Dependencies = make(load.Dependencies)
		}
		c.Dependencies[pkg] = importRoot
		return nil
	}
}

// WithDependencies adds all entries of deps.
func WithDependencies(deps map[string]string) Option {
	return func(c *Config) error {
		if c.Dependencies == nil {
			c.Dependencies = make(load.Dependencies)
		}
		maps.Copy(c.Dependencies, deps)
		return nil
	}
}

// WithHeader sets the file header comment.
// The header is added at the top of each generated file.
func WithHeader(header string) Option {
	return func(c *Config) error {
		c.Header = header
		return nil
	}
}

// WithPrelude adds comment lines and blank imports to every package file.
func WithPrelude(p Prelude) Option {
	return func(c *Config) error {
		for _, path := range p.Imports {
			if path == "" {
				return NewConfigError("Prelude", nil, "import path cannot be empty")
			}
		}
		c.Prelude.Comments = append(c.Prelude.Comments, p.Comments...)
		c.Prelude.Imports = append(c.Prelude.Imports, p.Imports...)
		return nil
	}
}

// WithRuntimePackage overrides the import path of the spatial runtime.
func WithRuntimePackage(path string) Option {
	return func(c *Config) error {
		if path == "" {
			return NewConfigError("RuntimePackage", nil, "runtime package cannot be empty")
		}
		c.RuntimePackage = path
		return nil
	}
}

// WithFormatter sets the formatter. A nil formatter disables formatting.
func WithFormatter(f Formatter) Option {
	return func(c *Config) error {
		c.Formatter = f
		return nil
	}
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(c *Config) error {
		if l == nil {
			return NewConfigError("Logger", nil, "logger cannot be nil")
		}
		c.Logger = l
		return nil
	}
}

// WithWorkers sets the number of files written in parallel.
func WithWorkers(n int) Option {
	return func(c *Config) error {
		if n <= 0 {
			return NewConfigError("Workers", n, "workers must be positive")
		}
		c.Workers = n
		return nil
	}
}

// Apply applies options to the config.
// It returns the first error encountered.
func (c *Config) Apply(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return err
		}
	}
	return nil
}

// ApplyAll applies options and collects all errors.
// Returns a joined error if any options failed.
func (c *Config) ApplyAll(opts ...Option) error {
	var errs []error
	for _, opt := range opts {
		if err := opt(c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NewConfig creates a new Config with the default settings and the given
// options.
func NewConfig(opts ...Option) (*Config, error) {
	c := defaults()
	if err := c.Apply(opts...); err != nil {
		return nil, err
	}
	return c, nil
}

// MustNewConfig creates a new Config with the given options.
// It panics if any option fails.
func MustNewConfig(opts ...Option) *Config {
	c, err := NewConfig(opts...)
	if err != nil {
		panic(err)
	}
	return c
}
