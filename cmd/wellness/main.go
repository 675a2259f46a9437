package main

import (
	"fmt"
	"os"

	"wellness-tracker/internal/app"
	"wellness-tracker/internal/config"
	"wellness-tracker/internal/logging"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// cli carries the state shared by every subcommand once the root command has
// loaded the configuration.
type cli struct {
	cfgFile string
	cfg     *config.Config
	logger  *zap.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:           "wellness",
		Short:         "Wellness tracker: meal plan, day notes, Smart Coach and grocery list",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config.LoadDotEnv()

			cfg, err := config.Load(c.cfgFile)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			logger, err := logging.New(cfg.LogLevel)
			if err != nil {
				return err
			}
			c.cfg, c.logger = cfg, logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.logger != nil {
				_ = c.logger.Sync()
			}
		},
	}
	root.PersistentFlags().StringVar(&c.cfgFile, "config", "", "config file (default ./wellness.yaml)")

	root.AddCommand(
		c.groceriesCmd(),
		c.planCmd(),
		c.noteCmd(),
		c.coachCmd(),
		c.serveCmd(),
		c.telegramCmd(),
		c.tokenCmd(),
		c.metricsCleanupCmd(),
	)
	return root
}

func (c *cli) openApp() (*app.App, error) {
	a, err := app.New(c.cfg, c.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize app: %w", err)
	}
	return a, nil
}
