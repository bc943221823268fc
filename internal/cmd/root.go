// Package cmd provides CLI command implementations.
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/syssam/spatial/internal/config"
	"github.com/syssam/spatial/internal/output"
)

// globals holds the persistent flags shared by all commands.
type globals struct {
	configFile string
	verbose    bool
}

// NewRootCmd creates the root command for the spatialgen CLI.
func NewRootCmd() *cobra.Command {
	g := &globals{}
	rootCmd := &cobra.Command{
		Use:   "spatialgen",
		Short: "Generate Go code from SpatialOS schema",
		Long: `spatialgen compiles SpatialOS schema into a bundle and generates typed Go
code for its enums, types and components.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			output.SetupLogging(output.LogConfig{Verbose: g.verbose})
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVarP(&g.configFile, "config", "c", "",
		fmt.Sprintf("Path to project file (default: ./%s if present)", config.DefaultFile))
	rootCmd.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "Enable verbose output")

	rootCmd.AddCommand(NewGenerateCmd(g))
	rootCmd.AddCommand(NewCompileCmd(g))
	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// loadProject loads the project file named by --config, or the default
// project file when it exists. Without either it returns an empty project
// to be filled from flags.
func (g *globals) loadProject() (*config.Project, error) {
	path := g.configFile
	if path == "" {
		if _, err := os.Stat(config.DefaultFile); errors.Is(err, os.ErrNotExist) {
			return &config.Project{Output: "gen"}, nil
		}
		path = config.DefaultFile
	}
	p, err := config.Load(path)
	if err != nil {
		return nil, NewExitError(err, ExitConfigError)
	}
	output.Debug("loaded project", "path", path)
	if p.Log.Verbose && !g.verbose {
		output.SetupLogging(output.LogConfig{Verbose: true})
	} else if p.Log.Timestamps != nil && !g.verbose {
		output.SetupLogging(output.LogConfig{Timestamps: p.Log.Timestamps})
	}
	return p, nil
}
