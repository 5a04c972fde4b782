package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"allnotes_server_go/auth"
	"allnotes_server_go/config"
	"allnotes_server_go/controllers"
	"allnotes_server_go/data"
	"allnotes_server_go/media"

	"github.com/spf13/cobra"
)

func newServeCommand(flags *cliFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server (default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), flags)
		},
	}
}

func runServe(parent context.Context, flags *cliFlags) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, log, err := flags.loadWithLogger()
	if err != nil {
		return err
	}

	db, err := data.Open(ctx, databaseOptions(cfg), log)
	if err != nil {
		return err
	}
	defer db.Close()

	// Схема приводится к целевой один раз при старте, а не на каждом запросе.
	if err := data.NewSynchronizer(db, log).SyncAll(ctx); err != nil {
		return fmt.Errorf("schema sync: %w", err)
	}

	storage := media.NewStorage(cfg.Media.UploadsDir, log)
	cleanup := cfg.Media.CleanupReplaced
	api := &controllers.API{
		DB:           db,
		Notes:        data.NewNoteStore(db.DB, storage, log, data.WithMediaCleanup(cleanup)),
		Users:        data.NewUserStore(db.DB, storage, log, data.WithAvatarCleanup(cleanup)),
		Sessions:     auth.NewMemoryStore(cfg.SessionTTL()),
		Cookies:      auth.CookieSettings{Production: cfg.IsProduction(), MaxAge: cfg.SessionTTL()},
		Log:          log,
		MaxBodyBytes: cfg.HTTP.MaxBodyBytes,
	}

	srv := &http.Server{
		Addr: cfg.HTTP.Addr,
		Handler: controllers.NewRouter(api, controllers.RouterOptions{
			UploadsDir:     cfg.Media.UploadsDir,
			AllowedOrigins: cfg.HTTP.AllowedOrigins,
		}),
		ReadHeaderTimeout: config.Seconds(cfg.HTTP.ReadHeaderTimeoutSeconds),
		ReadTimeout:       config.Seconds(cfg.HTTP.ReadTimeoutSeconds),
		WriteTimeout:      config.Seconds(cfg.HTTP.WriteTimeoutSeconds),
		IdleTimeout:       config.Seconds(cfg.HTTP.IdleTimeoutSeconds),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("API listening", "addr", cfg.HTTP.Addr, "env", cfg.Env, "uploads", storage.Root())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.Seconds(cfg.HTTP.ShutdownTimeoutSeconds))
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}
