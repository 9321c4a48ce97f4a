package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	serve := newServeCmd()

	root := &cobra.Command{
		Use:   "slidecast-server",
		Short: "Slidecast backend - live sessions and slide deck publishing",
		Long: `Serves the Slidecast HTTP API: accounts, live session lifecycle and
conversion of uploaded PDF decks into per-page images on object storage.
Running without a subcommand is the same as "serve".`,
		SilenceUsage: true,
		RunE:         serve.RunE,
	}
	root.Flags().AddFlagSet(serve.Flags())

	root.AddCommand(serve, newMigrateCmd())
	return root
}

func newServeCmd() *cobra.Command {
	var skipMigrations bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, !skipMigrations)
		},
	}
	cmd.Flags().BoolVar(&skipMigrations, "skip-migrations", false, "do not apply pending migrations on startup")
	return cmd
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := loadRuntime()
			if err != nil {
				return err
			}

			db, err := openDatabase(rt)
			if err != nil {
				return err
			}
			defer db.Close()

			return runMigrations(cmd.Context(), rt, db)
		},
	}
}

func runServe(ctx context.Context, migrate bool) error {
	rt, err := loadRuntime()
	if err != nil {
		return err
	}

	db, err := openDatabase(rt)
	if err != nil {
		return err
	}
	defer db.Close()

	if migrate {
		if err := runMigrations(ctx, rt, db); err != nil {
			return err
		}
	}

	router, err := buildRouter(ctx, rt, db)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:    ":" + rt.cfg.Port,
		Handler: router,
	}

	serverErrors := make(chan error, 1)
	go func() {
		rt.logger.Info().Str("addr", srv.Addr).Str("environment", rt.cfg.Environment).Msg("HTTP server listening")
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
		rt.logger.Info().Msg("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), rt.cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		rt.logger.Error().Err(err).Msg("graceful shutdown failed")
		if err := srv.Close(); err != nil {
			rt.logger.Error().Err(err).Msg("forced shutdown failed")
		}
	}

	rt.logger.Info().Msg("server stopped")
	return nil
}
