// Command spatialgen generates Go code from SpatialOS schema.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/syssam/spatial/internal/cmd"
	"github.com/syssam/spatial/internal/output"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.NewRootCmd().ExecuteContext(ctx); err != nil {
		output.Error(err.Error())
		return cmd.ExitCodeFromError(err)
	}
	return cmd.ExitSuccess
}
