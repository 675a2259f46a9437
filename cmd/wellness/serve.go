package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"wellness-tracker/internal/app"
	"wellness-tracker/internal/server"
	"wellness-tracker/internal/telegram"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func (c *cli) serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the web UI and JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			if c.cfg.Env == "production" {
				gin.SetMode(gin.ReleaseMode)
			}
			srv := server.New(a, c.cfg.APISecret)

			// The bot shares the server when it is configured.
			if c.cfg.TelegramBotToken != "" {
				if err := c.cfg.RequireTelegram(); err != nil {
					return err
				}
				bot, err := telegram.NewBot(c.cfg, a, telegram.NewSessionRepository(a.DB()), c.logger)
				if err != nil {
					return fmt.Errorf("failed to initialize Telegram bot: %w", err)
				}
				srv.Mount("/webhook", bot.WebhookHandler())
			}

			return c.listen(cmd.Context(), a, srv.Handler(), "Web server")
		},
	}
}

func (c *cli) telegramCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "telegram",
		Short: "Run only the Telegram bot webhook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.cfg.RequireTelegram(); err != nil {
				return err
			}

			a, err := c.openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			bot, err := telegram.NewBot(c.cfg, a, telegram.NewSessionRepository(a.DB()), c.logger)
			if err != nil {
				return fmt.Errorf("failed to initialize Telegram bot: %w", err)
			}

			mux := http.NewServeMux()
			bot.RegisterHandlers(mux)
			return c.listen(cmd.Context(), a, mux, "Telegram bot server")
		},
	}
}

// listen serves handler on the configured port until SIGINT/SIGTERM, then
// shuts down gracefully.
func (c *cli) listen(ctx context.Context, a *app.App, handler http.Handler, name string) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              ":" + c.cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		c.logger.Info(name+" listening", zap.String("port", c.cfg.Port), zap.Strings("data", a.DataPaths()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	c.logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	c.logger.Info("Server exiting")
	return nil
}
