package main

import (
	"fmt"
	"time"

	"wellness-tracker/internal/server"
	"wellness-tracker/internal/telegram"

	"github.com/spf13/cobra"
)

func (c *cli) tokenCmd() *cobra.Command {
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a token for the /api endpoints and the web page (/?token=...)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := server.IssueToken(c.cfg.APISecret, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	return cmd
}

func (c *cli) metricsCleanupCmd() *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "metrics-cleanup",
		Short: "Delete coach metrics, grocery snapshots and chat sessions older than N days",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if days <= 0 {
				return fmt.Errorf("--days must be positive, got %d", days)
			}

			a, err := c.openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := cmd.Context()
			metricsRemoved, err := a.Metrics.Cleanup(ctx, days)
			if err != nil {
				return err
			}
			listsRemoved, err := a.Groceries.DeleteOlderThan(ctx, time.Now().AddDate(0, 0, -days))
			if err != nil {
				return err
			}
			sessionsRemoved, err := telegram.NewSessionRepository(a.DB()).CleanupExpired(ctx)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d coach metrics, %d grocery lists and %d expired sessions.\n",
				metricsRemoved, listsRemoved, sessionsRemoved)
			return nil
		},
	}
	cmd.Flags().IntVar(&days, "days", 30, "retention in days")
	return cmd
}
