package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/hallworld/hallgate/internal/adapters/http"
	"github.com/hallworld/hallgate/internal/adapters/http/handlers"
	"github.com/hallworld/hallgate/internal/adapters/id"
	"github.com/hallworld/hallgate/internal/adapters/livekit"
	"github.com/hallworld/hallgate/internal/adapters/tracing"
)

// serveCmd starts the HTTP token service
func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP token service",
		Long: `Start the hallgate HTTP server.

The server issues LiveKit access tokens for HallWorld rooms. When a
LiveKit server URL is configured it also exposes the room management
API, relays call notifications and receives LiveKit webhooks.

Required configuration:
  - LiveKit credentials (LIVEKIT_API_KEY, LIVEKIT_API_SECRET)

Optional:
  - LiveKit room API (LIVEKIT_URL)

The server starts without credentials; token requests fail until they
are set.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context())
		},
	}
}

// runServer initializes and starts the HTTP server
func runServer(ctx context.Context) error {
	log.Println("Starting hallgate...")
	log.Printf("  HTTP:     http://%s:%d", cfg.Server.Host, cfg.Server.Port)
	if cfg.HasCredentials() {
		log.Printf("  Signing:  api key %s", maskSecret(cfg.LiveKit.APIKey))
	} else {
		log.Println("  Signing:  credentials not set; token requests will fail")
	}
	if cfg.IsRoomAPIConfigured() {
		log.Printf("  LiveKit:  %s", cfg.LiveKit.URL)
	} else {
		log.Println("  LiveKit:  no server URL; room API disabled")
	}
	log.Println()

	// Initialize OpenTelemetry tracing
	shutdown, err := tracing.InitTracer("hallgate")
	if err != nil {
		log.Printf("Warning: Failed to initialize tracing: %v", err)
	} else {
		defer func() {
			if err := shutdown(ctx); err != nil {
				log.Printf("Error shutting down tracer: %v", err)
			}
		}()
	}

	lkService := livekit.NewService(&livekit.ServiceConfig{
		URL:                 cfg.LiveKit.URL,
		APIKey:              cfg.LiveKit.APIKey,
		APISecret:           cfg.LiveKit.APISecret,
		TokenTTL:            cfg.LiveKit.TokenTTL,
		RoomEmptyTimeout:    cfg.LiveKit.RoomEmptyTimeout,
		RoomMaxParticipants: cfg.LiveKit.RoomMaxParticipants,
	})

	hub := handlers.NewCallHub()
	idGen := id.New()

	server := http.NewServer(cfg, version, lkService, lkService, idGen, hub)

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	go func() {
		serverErrors <- server.Start()
	}()

	// Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-sigChan:
		log.Printf("Received signal: %v", sig)
		log.Println("Shutting down gracefully...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Stop(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}

		log.Println("Server stopped")
		return nil
	}
}
