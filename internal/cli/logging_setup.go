package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/ecolens/internal/logging"
)

// setupLogging builds the invocation logger from the loaded configuration.
func setupLogging(cmd *cobra.Command, a *app) {
	loggingCfg := a.cfg.Logging

	if loggingCfg.File != "" {
		if err := a.cfg.EnsureLogDir(); err != nil {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: could not create log directory: %v\n", err)
		}
	}

	lc := loggingCfg.ToLoggingConfig()
	if lc.Output != logging.OutputFile {
		lc.Writer = cmd.ErrOrStderr()
	}
	result := logging.NewLoggerWithPath(lc)
	a.logResult = &result
	a.base = result.Logger
	a.logger = logging.ComponentLogger(result.Logger, "cli")

	if result.FallbackUsed {
		logging.PrintFallbackWarning(cmd.ErrOrStderr(), result.FallbackReason)
	}
}
