/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jjudge-oj/usersvc/config"
	"github.com/jjudge-oj/usersvc/internal/events"
	"github.com/jjudge-oj/usersvc/internal/logging"
	"github.com/spf13/cobra"
)

// eventsCmd groups commands that work with account lifecycle events.
var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Inspect account lifecycle events",
}

var eventsTailCmd = &cobra.Command{
	Use:   "tail",
	Short: "Print account events from the configured backend as JSON lines",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadConfig()
		if err := cfg.Validate(); err != nil {
			return err
		}
		if cfg.Events.Backend == config.EventsBackendNone {
			return errors.New("EVENTS_BACKEND is not set")
		}
		log := logging.New(cfg.LogLevel)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		backend, err := events.NewBackend(ctx, cfg.Events)
		if err != nil {
			return err
		}
		notifier := events.NewNotifier(backend, log)
		defer notifier.Close()

		enc := json.NewEncoder(cmd.OutOrStdout())
		err = notifier.Tail(ctx, func(ctx context.Context, event events.Event) error {
			if err := enc.Encode(event); err != nil {
				return fmt.Errorf("write event: %w", err)
			}
			return nil
		})
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(eventsCmd)
	eventsCmd.AddCommand(eventsTailCmd)
}
