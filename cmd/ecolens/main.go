// Command ecolens estimates the carbon footprint of photographed objects.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rshade/ecolens/internal/cli"
	"github.com/rshade/ecolens/pkg/version"
)

func main() {
	if err := run(); err != nil {
		os.Exit(exitCode(err))
	}
}

// run executes the root command with stdout as its output and cancels the
// context on SIGINT or SIGTERM.
func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := cli.NewRootCmd(version.GetVersion())
	root.SetOut(os.Stdout)
	return root.ExecuteContext(ctx)
}

// exitCode maps a command error to the process exit status.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	return 1
}
