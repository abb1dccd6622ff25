// Package root contains the root command for the application
package root

import (
	"fmt"
	"strings"

	"fjacquet/txncat/internal/config"
	"fjacquet/txncat/internal/container"
	"fjacquet/txncat/internal/logging"

	"github.com/spf13/cobra"
)

// CommonFlags represents the flags that are common to all commands
type CommonFlags struct {
	ConfigFile string
	LogLevel   string
}

var (
	// SharedFlags holds the persistent flag values.
	SharedFlags = CommonFlags{}

	appContainer *container.Container

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "txncat",
		Short: "Extract and categorize transactions from UPI wallet statement PDFs.",
		Long: `txncat reads UPI wallet statement PDFs, extracts every transaction
(date, time, narration, direction, amount and UTR reference) and assigns each
one a spending category from an ordered rule table.

Use "txncat serve" to expose the upload endpoint, or "txncat parse" to
process files locally.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: initialize,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if appContainer != nil {
				_ = appContainer.Close()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
)

func init() {
	Cmd.PersistentFlags().StringVarP(&SharedFlags.ConfigFile, "config", "c", "", "Config file (default: config.yaml in $HOME/.txncat, .txncat or .)")
	Cmd.PersistentFlags().StringVar(&SharedFlags.LogLevel, "log-level", "", "Log level override (debug, info, warn, error)")
}

// initialize loads .env and the configuration, then builds the container
// shared by every subcommand.
func initialize(cmd *cobra.Command, args []string) error {
	if _, err := config.LoadEnv("."); err != nil {
		return err
	}

	cfg, err := config.Load(SharedFlags.ConfigFile)
	if err != nil {
		return err
	}
	if SharedFlags.LogLevel != "" {
		cfg.Log.Level = strings.ToLower(SharedFlags.LogLevel)
	}

	logger := logging.NewLogrusAdapterWithWriter(cfg.Log.Level, cfg.Log.Format, cmd.ErrOrStderr())
	c, err := container.NewContainerWithLogger(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	appContainer = c
	return nil
}

// GetContainer returns the container built before the running command.
func GetContainer() *container.Container {
	return appContainer
}

// SetContainer replaces the shared container, for tests.
func SetContainer(c *container.Container) {
	appContainer = c
}
