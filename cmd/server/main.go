package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdg-garage/maitri-passes/internal/app"
	"github.com/gdg-garage/maitri-passes/internal/auth"
	"github.com/gdg-garage/maitri-passes/internal/config"
	"github.com/gdg-garage/maitri-passes/internal/handlers"
	"github.com/gdg-garage/maitri-passes/internal/logger"
	"github.com/gdg-garage/maitri-passes/internal/models"
	"github.com/gdg-garage/maitri-passes/internal/pass"
	"github.com/gdg-garage/maitri-passes/internal/registration"
	"github.com/gdg-garage/maitri-passes/internal/session"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

func main() {
	// Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel, cfg.LogPretty)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, cfg, &log)
	stop()
	if err != nil {
		log.Error().Err(err).Msg("server exited")
		os.Exit(1)
	}
}

// run serves until ctx is done. Everything it opens is closed before it returns.
func run(ctx context.Context, cfg *config.Config, log *zerolog.Logger) error {
	// Connect to the registration store
	inserter, closeStore, err := app.OpenStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open %s store: %w", cfg.StoreDriver, err)
	}
	defer closeStore()

	signer, err := auth.NewSigner(app.Secret(cfg.JWTSecret, log, "JWT_SECRET"))
	if err != nil {
		return fmt.Errorf("invalid JWT_SECRET: %w", err)
	}
	caps := auth.NewCapabilities(signer, cfg.GateTTL, cfg.SecureCookies)
	tokens := pass.NewTokens(signer, cfg.PassTokenTTL)

	renderer, closeRenderer := app.Renderer(cfg)
	defer closeRenderer()

	notify, closeNotifiers := app.Notifiers(cfg, log)
	defer closeNotifiers()

	variants := app.Variants(cfg)
	flowOpts := app.FlowOptions(renderer, notify, log)
	newFlow := func(kind models.Kind) (*registration.Flow, bool) {
		v, ok := variants.Get(kind)
		if !ok {
			return nil, false
		}
		return registration.NewFlow(v, inserter, flowOpts...), true
	}

	sessions := session.NewStore(newFlow, cfg.SessionTTL, cfg.SecureCookies)
	sweepStop := make(chan struct{})
	defer close(sweepStop)
	go sessions.Run(time.Minute, sweepStop)

	// Initialize Handlers
	pageHandler := handlers.NewPageHandler(variants, sessions, caps, cfg.AutoDownloadDelay, log)
	apiHandler := handlers.NewAPIHandler(variants, newFlow, caps, tokens, renderer, log)

	// Initialize Router
	r := chi.NewRouter()
	handlers.RegisterRoutes(r, log, handlers.RouteOptions{
		CSRFKey:       app.CSRFKey(app.Secret(cfg.CSRFKey, log, "CSRF_KEY")),
		SecureCookies: cfg.SecureCookies,
	}, variants, pageHandler, apiHandler)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("graceful shutdown failed")
		}
	}()

	// Start Server
	log.Info().Str("port", cfg.Port).Str("store", cfg.StoreDriver).Str("capture", cfg.CaptureDriver).Msg("starting server")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen: %w", err)
	}
	<-shutdownDone
	log.Info().Msg("server stopped")
	return nil
}
