package gen

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/tools/imports"
)

// Formatter post-processes a generated Go file.
type Formatter interface {
	Format(ctx context.Context, filename string, src []byte) ([]byte, error)
	String() string
}

// ImportsFormatter formats in process with golang.org/x/tools/imports.
// Imports are never added or removed: generated code already declares the
// ones it needs.
type ImportsFormatter struct{}

// Format formats src as goimports would.
func (ImportsFormatter) Format(_ context.Context, filename string, src []byte) ([]byte, error) {
	return imports.Process(filename, src, &imports.Options{
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
		FormatOnly: true,
	})
}

func (ImportsFormatter) String() string { return "goimports" }

// CommandFormatter pipes each file through an external program, such as
// gofumpt, reading the result from its standard output.
type CommandFormatter struct {
	Path    string
	Args    []string
	Timeout time.Duration // Zero means no timeout
}

// Format runs the command with src on standard input.
func (f CommandFormatter) Format(ctx context.Context, _ string, src []byte) ([]byte, error) {
	path, err := exec.LookPath(f.Path)
	if err != nil {
		return nil, err
	}
	if f.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.Timeout)
		defer cancel()
	}
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, path, f.Args...)
	cmd.Stdin = bytes.NewReader(src)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := bytes.TrimSpace(stderr.Bytes()); len(msg) > 0 {
			return nil, errors.Join(err, errors.New(string(msg)))
		}
		return nil, err
	}
	return stdout.Bytes(), nil
}

func (f CommandFormatter) String() string { return f.Path }

// formatFiles runs the configured formatter over files in parallel. A file
// the formatter rejects keeps its unformatted content; only cancellation
// fails the pass.
func formatFiles(ctx context.Context, cfg *Config, logger *log.Logger, files []*File) error {
	if cfg.Formatter == nil {
		return nil
	}
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(cfg.workers())
	for _, f := range files {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out, err := cfg.Formatter.Format(ctx, f.Path, f.Content)
			if err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return ctxErr
				}
				ferr := &FormatError{File: f.Path, Formatter: cfg.Formatter.String(), Cause: err}
				logger.Warn("keeping unformatted output", "err", ferr)
				return nil
			}
			f.Content = out
			return nil
		})
	}
	return eg.Wait()
}
