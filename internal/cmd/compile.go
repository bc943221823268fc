package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/syssam/spatial/compiler/schemac"
	"github.com/syssam/spatial/internal/output"
)

type compileOptions struct {
	libDir        string
	schemaPaths   []string
	bundleOut     string
	descriptorOut string
}

// NewCompileCmd creates the compile command.
func NewCompileCmd(g *globals) *cobra.Command {
	o := &compileOptions{}
	cmd := &cobra.Command{
		Use:   "compile",
		Short: "Compile schema into a bundle",
		Long: `Run the SpatialOS schema compiler over the schema roots.

The compiler and the standard schema library are located in the SDK
library directory, given by --lib-dir, the project file or $` + schemac.LibDirEnv + `.

Examples:
  # Compile the schema roots of the project file
  spatialgen compile

  # Compile explicit roots
  spatialgen compile --schema-path schema --bundle-out build/bundle.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(cmd, g, o)
		},
	}

	cmd.Flags().StringVar(&o.libDir, "lib-dir", "", "SpatialOS SDK library directory")
	cmd.Flags().StringSliceVar(&o.schemaPaths, "schema-path", nil, "Schema root (repeatable)")
	cmd.Flags().StringVar(&o.bundleOut, "bundle-out", "", "Bundle JSON output file")
	cmd.Flags().StringVar(&o.descriptorOut, "descriptor-out", "", "Descriptor set output file")

	return cmd
}

func runCompile(cmd *cobra.Command, g *globals, o *compileOptions) error {
	p, err := g.loadProject()
	if err != nil {
		return err
	}
	c, out := p.SchemaCompiler()
	if c == nil {
		c = &schemac.Compiler{}
		out = schemac.Output{}
	}

	flags := cmd.Flags()
	if flags.Changed("lib-dir") {
		c.LibDir = o.libDir
	}
	if flags.Changed("schema-path") {
		c.SchemaPaths = o.schemaPaths
	}
	if flags.Changed("bundle-out") {
		out.BundleJSON = o.bundleOut
	}
	if flags.Changed("descriptor-out") {
		out.DescriptorSet = o.descriptorOut
	}
	if len(c.SchemaPaths) == 0 {
		return NewExitError(errors.New("no schema paths: set --schema-path or compiler.schema_paths"), ExitConfigError)
	}
	if out == (schemac.Output{}) {
		return NewExitError(schemac.ErrNoOutput, ExitConfigError)
	}

	c.Logger = output.Logger()
	c.Stdout = cmd.OutOrStdout()
	if err := c.Run(cmd.Context(), out); err != nil {
		return err
	}
	output.Info("compiled schema", "bundle", out.BundleJSON, "descriptor", out.DescriptorSet)
	return nil
}
