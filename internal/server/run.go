// Package server boots the journal HTTP service.
package server

import (
	"context"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/yumelog/yumelog/internal/api"
	"github.com/yumelog/yumelog/internal/config"
	"github.com/yumelog/yumelog/internal/factory"
	"github.com/yumelog/yumelog/internal/platform/logger"
	"github.com/yumelog/yumelog/internal/service"
	"github.com/yumelog/yumelog/internal/uploads"
)

// Run starts the journal HTTP server and blocks until shutdown or error.
func Run() error {
	log := logger.New("yumelog")

	cfg, err := config.New()
	if err != nil {
		log.Error().Err(err).Msg("Failed to load configuration")
		return err
	}

	// Cancellable root context bound to SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := factory.NewStore(ctx, cfg, log)
	if err != nil {
		log.Error().Err(err).Msg("Store unavailable")
		return err
	}
	defer st.Close()

	saver, err := uploads.NewSaver(cfg.UploadDir)
	if err != nil {
		log.Error().Err(err).Msg("Upload directory unavailable")
		return err
	}

	svc := service.New(st, saver)
	router, err := api.NewRouter(svc, st, cfg.UploadDir)
	if err != nil {
		log.Error().Err(err).Msg("Failed to build router")
		return err
	}

	server := &http.Server{
		Addr:              cfg.GetHTTPAddr(),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Int("port", cfg.HTTPPort).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("Shutting down server")
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctxShutdown); err != nil {
			log.Error().Err(err).Msg("Server forced to shutdown")
			return err
		}
		log.Info().Msg("Server exited")
		return nil
	case err := <-errCh:
		log.Error().Err(err).Msg("HTTP server failed")
		return err
	}
}

// Migrate opens the configured store, applies pending migrations and exits.
func Migrate() error {
	log := logger.New("yumelog")

	cfg, err := config.New()
	if err != nil {
		return err
	}

	st, err := factory.NewStore(context.Background(), cfg, log)
	if err != nil {
		return err
	}
	defer st.Close()

	log.Info().Msg("Migrations applied")
	return nil
}
