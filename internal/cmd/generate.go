package cmd

import (
	"context"
	"errors"
	"io"
	"maps"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/syssam/spatial/compiler/gen"
	"github.com/syssam/spatial/internal/config"
	"github.com/syssam/spatial/internal/output"
)

type generateOptions struct {
	bundle     string
	pkg        string
	importRoot string
	outDir     string
	deps       map[string]string
	stdout     bool
	watch      bool
	noFormat   bool
	noCompile  bool
}

// NewGenerateCmd creates the generate command.
func NewGenerateCmd(g *globals) *cobra.Command {
	o := &generateOptions{}
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate Go code from a schema bundle",
		Long: `Generate Go code from a schema bundle.

Settings are read from the project file and overridden by flags. When the
project configures a schema compiler, the bundle is compiled first.

Examples:
  # Generate from the project file in the current directory
  spatialgen generate

  # Generate one package from an existing bundle
  spatialgen generate --bundle build/bundle.json --package example \
    --import-root github.com/acme/game/gen -o gen

  # Map a dependency package to another module
  spatialgen generate --dep improbable=github.com/acme/spatialstd

  # Regenerate on every schema change
  spatialgen generate --watch`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, g, o)
		},
	}

	cmd.Flags().StringVar(&o.bundle, "bundle", "", "Schema bundle JSON file")
	cmd.Flags().StringVar(&o.pkg, "package", "", "Generate only this schema package and its subpackages")
	cmd.Flags().StringVar(&o.importRoot, "import-root", "", "Go import path of the output directory")
	cmd.Flags().StringVarP(&o.outDir, "output", "o", "", "Output directory")
	cmd.Flags().StringToStringVar(&o.deps, "dep", nil, "Schema package to Go import root mapping (pkg=path)")
	cmd.Flags().BoolVar(&o.stdout, "stdout", false, "Write the generated files to stdout as a txtar archive")
	cmd.Flags().BoolVarP(&o.watch, "watch", "w", false, "Regenerate when the schema changes")
	cmd.Flags().BoolVar(&o.noFormat, "no-format", false, "Skip formatting the generated code")
	cmd.Flags().BoolVar(&o.noCompile, "no-compile", false, "Use the existing bundle without running the schema compiler")

	return cmd
}

func runGenerate(cmd *cobra.Command, g *globals, o *generateOptions) error {
	p, err := g.loadProject()
	if err != nil {
		return err
	}
	o.apply(cmd.Flags(), p)
	if err := p.Validate(); err != nil {
		return NewExitError(err, ExitConfigError)
	}

	ctx := cmd.Context()
	w := cmd.OutOrStdout()
	if !o.watch {
		return generate(ctx, w, p, o)
	}

	if err := generate(ctx, w, p, o); err != nil {
		output.Error("generation failed", "err", err)
	}
	watcher, err := config.NewWatcher(p.WatchPaths())
	if err != nil {
		return err
	}
	watcher.Logger = output.Logger()
	output.Info("watching for changes", "paths", p.WatchPaths())
	err = watcher.Run(ctx, func() {
		if err := generate(ctx, w, p, o); err != nil {
			output.Error("generation failed", "err", err)
		}
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// apply overrides project settings with the flags set on the command line.
func (o *generateOptions) apply(flags *pflag.FlagSet, p *config.Project) {
	if flags.Changed("bundle") {
		p.Bundle = o.bundle
	}
	if flags.Changed("package") {
		p.Package = o.pkg
	}
	if flags.Changed("import-root") {
		p.ImportRoot = o.importRoot
	}
	if flags.Changed("output") {
		p.Output = o.outDir
	}
	if flags.Changed("dep") {
		if p.Dependencies == nil {
			p.Dependencies = make(map[string]string, len(o.deps))
		}
		maps.Copy(p.Dependencies, o.deps)
	}
	if o.noFormat {
		p.Formatter = config.FormatterConfig{Disabled: true}
	}
	if o.noCompile {
		p.Compiler = nil
	}
}

// generate runs the schema compiler if configured, then the generator, and
// writes the result to the output directory or w.
func generate(ctx context.Context, w io.Writer, p *config.Project, o *generateOptions) error {
	if err := compile(ctx, p); err != nil {
		return err
	}
	opts := append(p.Options(), gen.WithLogger(output.Logger()))
	out, err := gen.GenerateFile(ctx, p.Bundle, opts...)
	if err != nil {
		return err
	}
	if o.stdout {
		return out.Render(w)
	}
	if err := out.WriteTo(ctx, p.Output); err != nil {
		return err
	}
	output.Info("wrote generated code", "files", len(out.Files), "dir", p.Output)
	return nil
}

func compile(ctx context.Context, p *config.Project) error {
	c, out := p.SchemaCompiler()
	if c == nil {
		return nil
	}
	c.Logger = output.Logger()
	if err := c.Run(ctx, out); err != nil {
		return err
	}
	output.Debug("compiled schema", "bundle", out.BundleJSON)
	return nil
}
