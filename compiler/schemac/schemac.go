// Package schemac runs the SpatialOS schema compiler to produce the bundle
// consumed by the generator.
package schemac

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

// LibDirEnv names the environment variable consulted when Compiler.LibDir
// is empty.
const LibDirEnv = "SPATIAL_LIB_DIR"

// Compiler describes a schema compiler installation and the schema roots
// to compile.
type Compiler struct {
	// LibDir is the SpatialOS SDK library directory. The compiler binary and
	// the standard schema library are located relative to it.
	LibDir string

	// Path overrides the compiler binary, LibDir/schema-compiler/schema_compiler.
	Path string

	// StdLib overrides the standard schema library, LibDir/std-lib.
	StdLib string

	// SchemaPaths are the project schema roots.
	SchemaPaths []string

	// Logger receives the command line at debug level.
	Logger *log.Logger

	// Stdout receives the compiler's standard output. Nil discards it.
	Stdout io.Writer
}

// Output selects the artifacts to produce. At least one must be set.
type Output struct {
	BundleJSON    string // --bundle_json_out
	DescriptorSet string // --descriptor_set_out
}

// Args returns the command line arguments for out, excluding the binary.
// All paths are normalized.
func (c *Compiler) Args(out Output) ([]string, error) {
	if out.BundleJSON == "" && out.DescriptorSet == "" {
		return nil, ErrNoOutput
	}
	stdlib, err := c.stdLib()
	if err != nil {
		return nil, err
	}
	args := []string{
		"--schema_path=" + Normalize(stdlib),
		"--load_all_schema_on_schema_path",
	}
	if out.DescriptorSet != "" {
		args = append(args, "--descriptor_set_out="+Normalize(out.DescriptorSet))
	}
	if out.BundleJSON != "" {
		args = append(args, "--bundle_json_out="+Normalize(out.BundleJSON))
	}
	for _, p := range c.SchemaPaths {
		args = append(args, "--schema_path="+Normalize(p))
	}
	return args, nil
}

// Run invokes the compiler. The directories of the requested outputs are
// created first.
func (c *Compiler) Run(ctx context.Context, out Output) error {
	bin, err := c.binary()
	if err != nil {
		return err
	}
	args, err := c.Args(out)
	if err != nil {
		return err
	}
	for _, p := range []string{out.BundleJSON, out.DescriptorSet} {
		if p == "" {
			continue
		}
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			return &CompileError{Path: bin, Args: args, Cause: err}
		}
	}
	if c.Logger != nil {
		c.Logger.Debug("running schema compiler", "path", bin, "args", strings.Join(args, " "))
	}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Stdout = c.Stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return &CompileError{
			Path:   bin,
			Args:   args,
			Stderr: strings.TrimSpace(stderr.String()),
			Cause:  err,
		}
	}
	return nil
}

func (c *Compiler) libDir() (string, error) {
	if c.LibDir != "" {
		return c.LibDir, nil
	}
	if dir := os.Getenv(LibDirEnv); dir != "" {
		return dir, nil
	}
	return "", ErrNoLibDir
}

func (c *Compiler) binary() (string, error) {
	if c.Path != "" {
		return Normalize(c.Path), nil
	}
	dir, err := c.libDir()
	if err != nil {
		return "", err
	}
	return Normalize(filepath.Join(dir, "schema-compiler", "schema_compiler")), nil
}

func (c *Compiler) stdLib() (string, error) {
	if c.StdLib != "" {
		return c.StdLib, nil
	}
	dir, err := c.libDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "std-lib"), nil
}

// Normalize rewrites p with forward slashes and drops "." segments, which
// the schema compiler mishandles. Parent segments are kept.
func Normalize(p string) string {
	p = strings.ReplaceAll(p, `\`, "/")
	abs := strings.HasPrefix(p, "/")
	var segs []string
	for _, seg := range strings.Split(p, "/") {
		if seg == "" || seg == "." {
			continue
		}
		segs = append(segs, seg)
	}
	out := strings.Join(segs, "/")
	if abs {
		return "/" + out
	}
	if out == "" {
		return "."
	}
	return out
}

// Sentinel errors.
var (
	// ErrNoLibDir indicates neither Compiler.LibDir nor SPATIAL_LIB_DIR is set.
	ErrNoLibDir = errors.New("schemac: " + LibDirEnv + " is not set")
	// ErrNoOutput indicates no output artifact was requested.
	ErrNoOutput = errors.New("schemac: no output requested")
	// ErrCompilerFailed indicates the compiler could not run or exited with an error.
	ErrCompilerFailed = errors.New("schemac: schema compiler failed")
)

// CompileError reports a failed compiler invocation.
type CompileError struct {
	Path   string
	Args   []string
	Stderr string
	Cause  error
}

// Error implements the error interface.
func (e *CompileError) Error() string {
	var b strings.Builder
	b.WriteString("schemac: run ")
	b.WriteString(e.Path)
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	if e.Stderr != "" {
		b.WriteString("\n")
		b.WriteString(e.Stderr)
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *CompileError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches ErrCompilerFailed.
func (e *CompileError) Is(target error) bool {
	return target == ErrCompilerFailed
}
