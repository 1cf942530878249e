/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jjudge-oj/usersvc/config"
	"github.com/jjudge-oj/usersvc/internal/logging"
	"github.com/jjudge-oj/usersvc/internal/server"
	"github.com/jjudge-oj/usersvc/internal/store"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 15 * time.Second

var serverInMemory bool

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Starts the users service HTTP server",
	Long: `Starts the users service HTTP server. Usage:

	usersvc server
	usersvc server --memory   # no database, state is lost on exit
`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.LoadConfig()
		log := logging.New(cfg.LogLevel)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		var (
			srv *server.Server
			err error
		)
		if serverInMemory {
			log.Warn("running with the in-memory store")
			mem := store.NewMemory()
			srv, err = server.NewWithDependencies(cfg, log, server.Dependencies{
				Users:    mem.Users(),
				Sessions: mem.Sessions(),
			})
		} else {
			srv, err = server.New(ctx, cfg, log)
		}
		if err != nil {
			log.WithError(err).Fatal("failed to start server")
		}

		errCh := make(chan error, 1)
		go func() {
			errCh <- srv.Start()
		}()

		select {
		case err := <-errCh:
			if err != nil {
				log.WithError(err).Fatal("server error")
			}
		case <-ctx.Done():
			log.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.WithError(err).Error("graceful shutdown failed")
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)

	serverCmd.Flags().BoolVar(&serverInMemory, "memory", false, "Keep users and sessions in process memory instead of PostgreSQL")
}
