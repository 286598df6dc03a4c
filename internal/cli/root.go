package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/m04kA/holidaze-booking/internal/config"
	"github.com/m04kA/holidaze-booking/pkg/logger"
)

var (
	Version   = "dev"
	CommitSHA = "none"
	BuildDate = "unknown"
)

const defaultConfigPath = "config.toml"

type rootOptions struct {
	configPath string
}

func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "holidaze-booking",
		Short:         "Availability and reservation engine for Holidaze venues",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", defaultConfigPath, "path to config.toml")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newServeCmd(opts))
	root.AddCommand(newAvailabilityCmd(opts))
	root.AddCommand(newQuoteCmd(opts))
	root.AddCommand(newBookCmd(opts))
	root.AddCommand(newAttemptsCmd(opts))

	return root
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig читает конфиг и создает логгер
func (o *rootOptions) loadConfig() (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return cfg, log, nil
}
