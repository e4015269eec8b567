package main

import (
	"fmt"
	"log/slog"

	"github.com/Veraticus/expense-tracker/internal/api"
	"github.com/Veraticus/expense-tracker/internal/reminder"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
)

func serveCmd() *cobra.Command {
	var addr string
	var noReminders bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the reminder scheduler",
		Long: `Serve the JSON API under /api/v1 and deliver budget and savings reminders
on the configured schedule (reminders.schedule, default @hourly).

The server stops gracefully on Ctrl+C.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			logger := slog.Default()

			if addr == "" {
				addr = viper.GetString("server.addr")
			}
			if viper.GetString("logging.level") != "debug" {
				gin.SetMode(gin.ReleaseMode)
			}

			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			assistant, err := a.assistant()
			if err != nil {
				return err
			}
			server := api.NewServer(a.store, assistant, logger)

			g, gctx := errgroup.WithContext(ctx)
			if !noReminders {
				scheduler := reminder.NewScheduler(a.store, reminder.LogNotifier(logger), logger)
				if _, err := scheduler.Check(ctx); err != nil {
					logger.Warn("Initial reminder check failed", "error", err)
				}
				if err := scheduler.Start(gctx, viper.GetString("reminders.schedule")); err != nil {
					return err
				}
				g.Go(func() error {
					<-gctx.Done()
					scheduler.Stop()
					return nil
				})
			}

			g.Go(func() error {
				return server.Serve(gctx, addr)
			})

			fmt.Fprintf(cmd.OutOrStdout(), "Serving on http://%s (Ctrl+C to stop)\n", addr)
			if err := g.Wait(); err != nil && ctx.Err() == nil {
				return fmt.Errorf("server failed: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from server.addr)")
	cmd.Flags().BoolVar(&noReminders, "no-reminders", false, "do not run the reminder scheduler")

	return cmd
}
