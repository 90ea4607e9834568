package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"stylerd/internal/config"
	"stylerd/internal/httpapi"
	"stylerd/internal/registry"
	"stylerd/internal/stylize"
)

const shutdownTimeout = 10 * time.Second

// onListening is called with the bound address once the server accepts connections.
var onListening = func(net.Addr) {}

func runServeCmd(cmd *cobra.Command, _ []string) error {
	cfg, log, closer, err := setup(cmd)
	if err != nil {
		return err
	}
	defer closer.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := serve(ctx, cfg, log); err != nil {
		log.Error().Err(err).Msg("serve failed")
		return err
	}
	return nil
}

func newService(cfg config.Config, reg *registry.Registry, log zerolog.Logger) *stylize.Service {
	v, _ := cfg.Variant()
	return stylize.NewWithConfig(stylize.Config{
		Registry:          reg,
		DefaultModel:      v,
		MaxConcurrent:     cfg.MaxConcurrent,
		MaxWait:           cfg.MaxWaitDuration(),
		MaxImageDimension: cfg.MaxImageDimension,
		MaxImagePixels:    cfg.MaxImagePixels,
		JPEGQuality:       cfg.JPEGQuality,
		Publisher:         stylize.LogPublisher{Logger: log},
		Logger:            log,
	})
}

// serve loads the models, serves until ctx is done and then drains.
func serve(ctx context.Context, cfg config.Config, log zerolog.Logger) error {
	reg, closeModels, err := openRegistry(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeModels(); err != nil {
			log.Error().Err(err).Msg("close models")
		}
	}()

	svc := newService(cfg, reg, log)
	httpapi.SetLogger(log)
	httpapi.SetDefaultLogLevel(cfg.LogLevel)
	httpapi.SetMaxBodyBytes(cfg.MaxUploadBytes)
	httpapi.SetInferTimeoutSeconds(cfg.InferTimeoutSeconds)
	httpapi.SetCORSOptions(cfg.CORS.Enabled, cfg.CORS.AllowedOrigins, cfg.CORS.AllowedMethods, cfg.CORS.AllowedHeaders)
	baseCtx, cancelBase := context.WithCancel(context.Background())
	defer cancelBase()
	httpapi.SetBaseContext(baseCtx)

	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", cfg.Addr, err)
	}
	srv := &http.Server{
		Handler:           httpapi.NewMux(svc),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return baseCtx },
	}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()
	log.Info().
		Str("addr", ln.Addr().String()).
		Str("models_dir", reg.Dir()).
		Str("default_model", svc.DefaultModel().String()).
		Msg("stylerd listening")
	onListening(ln.Addr())

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		// in-flight stylize calls observe the base context and give up
		cancelBase()
		log.Error().Err(err).Msg("graceful shutdown")
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server: %w", err)
	}
	return nil
}
