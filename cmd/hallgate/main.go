package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hallworld/hallgate/internal/config"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "hallgate",
		Short: "HallWorld LiveKit token service",
		Long: `hallgate issues LiveKit access tokens for HallWorld voice and video
rooms. With a LiveKit server URL configured it also manages rooms,
relays call notifications and receives LiveKit webhooks.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			return nil
		},
	}

	rootCmd.AddCommand(
		serveCmd(),
		configCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// configCmd shows current configuration
func configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("Current configuration:")
			fmt.Println()

			fmt.Println("Server:")
			fmt.Printf("  Host:         %s\n", cfg.Server.Host)
			fmt.Printf("  Port:         %d\n", cfg.Server.Port)
			fmt.Printf("  CORS Origins: %s\n", strings.Join(cfg.Server.CORSOrigins, ", "))
			if cfg.Server.RateLimitRPS > 0 {
				fmt.Printf("  Rate Limit:   %.1f req/s (burst %d)\n", cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst)
			} else {
				fmt.Println("  Rate Limit:   disabled")
			}
			fmt.Println()

			fmt.Println("LiveKit:")
			fmt.Printf("  URL:              %s\n", cfg.LiveKit.URL)
			fmt.Printf("  API Key:          %s\n", maskSecret(cfg.LiveKit.APIKey))
			fmt.Printf("  API Secret:       %s\n", secretStatus(cfg.LiveKit.APISecret))
			fmt.Printf("  Token TTL:        %s\n", cfg.LiveKit.TokenTTL)
			fmt.Printf("  Empty Timeout:    %ds\n", cfg.LiveKit.RoomEmptyTimeout)
			fmt.Printf("  Max Participants: %d\n", cfg.LiveKit.RoomMaxParticipants)
			fmt.Printf("  Signing:          %s\n", boolStatus(cfg.HasCredentials()))
			fmt.Printf("  Room API:         %s\n", boolStatus(cfg.IsRoomAPIConfigured()))
			fmt.Println()

			fmt.Println("Environment variables:")
			fmt.Println("  HALLGATE_HOST, HALLGATE_PORT (or PORT)")
			fmt.Println("  HALLGATE_CORS_ORIGINS, HALLGATE_RATE_LIMIT_RPS, HALLGATE_RATE_LIMIT_BURST")
			fmt.Println("  HALLGATE_LIVEKIT_URL (or LIVEKIT_URL)")
			fmt.Println("  HALLGATE_LIVEKIT_API_KEY (or LIVEKIT_API_KEY)")
			fmt.Println("  HALLGATE_LIVEKIT_API_SECRET (or LIVEKIT_API_SECRET)")
			fmt.Println("  HALLGATE_TOKEN_TTL, HALLGATE_ROOM_EMPTY_TIMEOUT, HALLGATE_ROOM_MAX_PARTICIPANTS")

			return nil
		},
	}
}

// versionCmd shows version information
func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("hallgate %s\n", version)
			fmt.Printf("  Commit:     %s\n", commit)
			fmt.Printf("  Build Date: %s\n", buildDate)
		},
	}
}
