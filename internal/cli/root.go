// Package cli implements the ecolens command line.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rshade/ecolens/internal/config"
	"github.com/rshade/ecolens/internal/logging"
)

// isTerminal checks if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// annotationSkipValidation marks commands that must run with an invalid
// configuration, such as config validate.
const annotationSkipValidation = "ecolens/skip-config-validation"

// appKey is the context key for the per-invocation state.
type appKey struct{}

// app is the state shared by every command of one invocation.
type app struct {
	cfg *config.Config
	// base carries no component field; packages add their own.
	base      zerolog.Logger
	logger    zerolog.Logger
	logResult *logging.LogPathResult
}

// appFromCmd returns the invocation state set up by the root command.
func appFromCmd(cmd *cobra.Command) (*app, error) {
	a, ok := cmd.Context().Value(appKey{}).(*app)
	if !ok || a == nil {
		return nil, fmt.Errorf("command %q run without root setup", cmd.Name())
	}
	return a, nil
}

// NewRootCmd creates the root Cobra command for the ecolens CLI.
func NewRootCmd(ver string) *cobra.Command {
	var state *app

	cmd := &cobra.Command{
		Use:     "ecolens",
		Short:   "Estimate the carbon footprint of everyday objects",
		Long:    "EcoLens: classify a photo, look up the object's carbon footprint and keep a running impact dashboard",
		Version: ver,
		Example: rootCmdExample,
		// Classification and usage errors are reported by main.
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			state = &app{cfg: cfg}
			setupLogging(cmd, state)

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx = context.WithValue(ctx, appKey{}, state)
			ctx = logging.ContextWithTraceID(ctx, logging.GetOrGenerateTraceID(ctx))
			ctx = state.base.WithContext(ctx)
			cmd.SetContext(ctx)

			state.logger.Debug().Ctx(ctx).Str("command", cmd.CommandPath()).Msg("command started")
			return nil
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			if state == nil || state.logResult == nil {
				return nil
			}
			return state.logResult.Close()
		},
	}

	cmd.PersistentFlags().String("config", "", "config file (default ~/.ecolens/config.yaml)")
	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	cmd.PersistentFlags().String("storage-dir", "", "directory holding the scan history")
	cmd.AddCommand(
		NewScanCmd(), NewResolveCmd(), newHistoryCmd(),
		NewDashboardCmd(), newCatalogCmd(), newConfigCmd(),
		newCacheCmd(),
	)

	return cmd
}

// loadConfig loads the config file, then applies command-line overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}

	if dir, _ := cmd.Flags().GetString("storage-dir"); dir != "" {
		cfg.Storage.Dir = dir
		if err = cfg.ExpandPaths(); err != nil {
			return nil, err
		}
	}
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		cfg.Logging.Level = "debug"
		cfg.Logging.Format = logging.FormatConsole
		cfg.Logging.File = ""
	}

	if cmd.Annotations[annotationSkipValidation] == "" {
		if err = cfg.Validate(); err != nil {
			return nil, fmt.Errorf("invalid configuration: %w", err)
		}
	}
	return cfg, nil
}

const rootCmdExample = `  # Scan a photo with the configured classifier
  ecolens scan photo.jpg

  # Scan several photos and read the narration for the last one
  ecolens scan --narrate bottle.jpg phone.jpg

  # Record a scan for a label you already know
  ecolens scan --label "paper cup"

  # See which catalog entry a label maps to
  ecolens resolve "cellular telephone, cellphone"

  # Show the dashboard as JSON
  ecolens dashboard --output json

  # Check a custom catalog file
  ecolens catalog validate my-catalog.yaml

  # Bring over history exported from the browser app
  ecolens history import ecolens-history.json`

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "history", Short: "Scan history commands"}
	cmd.AddCommand(
		NewHistoryListCmd(), NewHistoryClearCmd(),
		NewHistoryImportCmd(), NewHistoryMigrateCmd(),
	)
	return cmd
}

func newCatalogCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "catalog", Short: "Impact catalog commands"}
	cmd.AddCommand(NewCatalogListCmd(), NewCatalogValidateCmd())
	return cmd
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "config", Short: "Configuration management commands"}
	cmd.AddCommand(NewConfigInitCmd(), NewConfigValidateCmd())
	return cmd
}

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "cache", Short: "Prediction cache commands"}
	cmd.AddCommand(NewCacheClearCmd(), NewCachePruneCmd())
	return cmd
}
