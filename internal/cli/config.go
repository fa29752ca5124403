package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rshade/ecolens/internal/config"
)

// NewConfigInitCmd creates the config init command.
func NewConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Initialize configuration file with default values",
		Annotations: map[string]string{annotationSkipValidation: "true"},
		Example: `  # Create ~/.ecolens/config.yaml
  ecolens config init

  # Create configuration, overwriting existing
  ecolens config init --force`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, _ := cmd.Flags().GetString("config")
			if path == "" {
				var err error
				if path, err = config.DefaultPath(); err != nil {
					return err
				}
			}

			if !force {
				_, err := os.Stat(path)
				if err == nil {
					return errors.New("configuration file already exists, use --force to overwrite")
				}
				if !os.IsNotExist(err) {
					return fmt.Errorf("cannot access config path %s: %w", path, err)
				}
			}

			if err := config.New().Save(path); err != nil {
				return fmt.Errorf("failed to save configuration: %w", err)
			}
			cmd.Printf("Configuration initialized at %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing configuration file")
	return cmd
}

// NewConfigValidateCmd creates the config validate command.
func NewConfigValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "validate",
		Short:       "Validate configuration file",
		Annotations: map[string]string{annotationSkipValidation: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := appFromCmd(cmd)
			if err != nil {
				return err
			}
			if err = a.cfg.Validate(); err != nil {
				return fmt.Errorf("configuration validation failed: %w", err)
			}
			cmd.Println("Configuration is valid")
			return nil
		},
	}
}
