package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/dom/plantally/internal/api"
	"github.com/dom/plantally/internal/clock"
	"github.com/dom/plantally/internal/config"
	"github.com/dom/plantally/internal/repository/memory"
	"github.com/dom/plantally/internal/service"
	"github.com/dom/plantally/internal/telemetry"
	"github.com/dom/plantally/internal/websocket"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
)

func main() {
	// A .env file is optional; real environment variables win.
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded .env")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Initialize tracing
	tp, err := telemetry.NewProvider(telemetry.Config{
		Enabled:     cfg.TracingEnabled,
		Exporter:    cfg.TracingExporter,
		ServiceName: cfg.ServiceName,
	})
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}

	// Initialize repositories
	repos := memory.NewRepositories(cfg.SessionIdleTTL)

	// Initialize WebSocket hub
	hub := websocket.NewHub()
	go hub.Run()

	// Initialize services
	services := service.NewServices(repos, cfg, clock.NewRealClock())

	// Initialize router
	router := api.NewRouter(services, hub, cfg)

	// Create server
	srv := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Printf("Server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		return services.Sessions.RunSweeper(gctx, cfg.ExpiryPollInterval)
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Println("Shutting down server...")

		// Graceful shutdown with timeout
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		hub.Stop()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return tp.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatalf("server stopped with error: %v", err)
	}

	log.Println("Server stopped")
}
