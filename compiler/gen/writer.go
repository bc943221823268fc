package gen

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
)

// Output is the result of a generation pass.
type Output struct {
	// Files are the generated files, children before parents and siblings
	// in name order.
	Files []*File

	workers int
	log     *log.Logger
}

// File returns the generated file at the slash-separated path, or nil.
func (o *Output) File(path string) *File {
	for _, f := range o.Files {
		if f.Path == path {
			return f
		}
	}
	return nil
}

// Render writes all files to w as a txtar archive.
func (o *Output) Render(w io.Writer) error {
	return writeArchive(w, o.Files)
}

// WriteTo writes the files under dir in parallel, creating directories as
// needed. Existing files are overwritten.
func (o *Output) WriteTo(ctx context.Context, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	eg, ctx := errgroup.WithContext(ctx)
	if o.workers > 0 {
		eg.SetLimit(o.workers)
	}
	for _, f := range o.Files {
		eg.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
				return o.write(dir, f)
			}
		})
	}
	return eg.Wait()
}

// write writes a single file.
func (o *Output) write(dir string, f *File) error {
	fullPath := filepath.Join(dir, filepath.FromSlash(f.Path))
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return fmt.Errorf("create directory for %s: %w", f.Path, err)
	}
	if err := os.WriteFile(fullPath, f.Content, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", f.Path, err)
	}
	if o.log != nil {
		o.log.Debug("wrote", "file", fullPath, "bytes", len(f.Content))
	}
	return nil
}
