package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for hallgate
type Config struct {
	Server  ServerConfig  `json:"server"`
	LiveKit LiveKitConfig `json:"livekit"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host        string   `json:"host"`
	Port        int      `json:"port"`
	CORSOrigins []string `json:"cors_origins"` // Allowed CORS origins; "*" allows any

	// Per-client-IP rate limit for the public endpoints.
	// RateLimitRPS of 0 disables rate limiting entirely.
	RateLimitRPS   float64 `json:"rate_limit_rps"`
	RateLimitBurst int     `json:"rate_limit_burst"`
}

// LiveKitConfig holds LiveKit credentials and room defaults
type LiveKitConfig struct {
	URL       string `json:"url"`        // Room service URL (e.g., wss://livekit.example.com); empty disables the room API
	APIKey    string `json:"api_key"`    // LiveKit API key
	APISecret string `json:"api_secret"` // LiveKit API secret

	TokenTTL time.Duration `json:"token_ttl"` // Validity window stamped into every issued token

	RoomEmptyTimeout    int `json:"room_empty_timeout_seconds"` // Seconds an empty room lives before LiveKit reclaims it
	RoomMaxParticipants int `json:"room_max_participants"`      // 0 means unlimited
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:           "0.0.0.0",
			Port:           8080,
			CORSOrigins:    []string{"*"},
			RateLimitRPS:   10,
			RateLimitBurst: 30,
		},
		LiveKit: LiveKitConfig{
			URL:                 "",
			APIKey:              "",
			APISecret:           "",
			TokenTTL:            24 * time.Hour,
			RoomEmptyTimeout:    300,
			RoomMaxParticipants: 16,
		},
	}
}

// envString loads a string environment variable into the target pointer if set
func envString(key string, target *string) {
	if v := os.Getenv(key); v != "" {
		*target = v
	}
}

// envStringFallback tries the primary key first, then the fallback key
func envStringFallback(primary, fallback string, target *string) {
	for _, key := range []string{primary, fallback} {
		if v := os.Getenv(key); v != "" {
			*target = v
			return
		}
	}
}

// envInt loads an integer environment variable into the target pointer if set and valid
func envInt(key string, target *int) {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			*target = i
		}
	}
}

// envIntFallback tries the primary key first, then the fallback key
func envIntFallback(primary, fallback string, target *int) {
	for _, key := range []string{primary, fallback} {
		if v := os.Getenv(key); v != "" {
			if i, err := strconv.Atoi(v); err == nil {
				*target = i
				return
			}
		}
	}
}

// envFloat loads a float64 environment variable into the target pointer if set and valid
func envFloat(key string, target *float64) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*target = f
		}
	}
}

// envDuration loads a duration environment variable (e.g. "24h", "90m") if set and valid
func envDuration(key string, target *time.Duration) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*target = d
		}
	}
}

// envStringSlice loads a comma-separated environment variable into a string slice
func envStringSlice(key string, target *[]string) {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, part := range parts {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			*target = result
		}
	}
}

// Load loads configuration from environment variables and config file.
// The plain LIVEKIT_API_KEY / LIVEKIT_API_SECRET / PORT names remain
// recognized for compatibility with existing deployments; the HALLGATE_
// prefixed names take precedence.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	configPath := getConfigPath()
	if data, err := os.ReadFile(configPath); err == nil {
		if err := json.Unmarshal(data, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to parse config file %s: %v\n", configPath, err)
		}
	}

	envString("HALLGATE_HOST", &cfg.Server.Host)
	envIntFallback("HALLGATE_PORT", "PORT", &cfg.Server.Port)
	envStringSlice("HALLGATE_CORS_ORIGINS", &cfg.Server.CORSOrigins)
	envFloat("HALLGATE_RATE_LIMIT_RPS", &cfg.Server.RateLimitRPS)
	envInt("HALLGATE_RATE_LIMIT_BURST", &cfg.Server.RateLimitBurst)

	envStringFallback("HALLGATE_LIVEKIT_URL", "LIVEKIT_URL", &cfg.LiveKit.URL)
	envStringFallback("HALLGATE_LIVEKIT_API_KEY", "LIVEKIT_API_KEY", &cfg.LiveKit.APIKey)
	envStringFallback("HALLGATE_LIVEKIT_API_SECRET", "LIVEKIT_API_SECRET", &cfg.LiveKit.APISecret)
	envDuration("HALLGATE_TOKEN_TTL", &cfg.LiveKit.TokenTTL)
	envInt("HALLGATE_ROOM_EMPTY_TIMEOUT", &cfg.LiveKit.RoomEmptyTimeout)
	envInt("HALLGATE_ROOM_MAX_PARTICIPANTS", &cfg.LiveKit.RoomMaxParticipants)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// HasCredentials returns true if the signing credential pair is present.
// Token issuance needs only the key and secret, not the room service URL.
func (c *Config) HasCredentials() bool {
	return c.LiveKit.APIKey != "" && c.LiveKit.APISecret != ""
}

// IsRoomAPIConfigured returns true if the server-to-server room API can be used
func (c *Config) IsRoomAPIConfigured() bool {
	return c.LiveKit.URL != "" && c.HasCredentials()
}

// isValidURL validates that a URL has proper format
func isValidURL(urlStr string) bool {
	u, err := url.Parse(urlStr)
	return err == nil && u.Scheme != "" && u.Host != ""
}

// Validate checks that the configuration has valid values.
// Credential presence is deliberately not validated here: the server starts
// without credentials and token requests then fail with a 500 at request time.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, "server port must be between 1 and 65535")
	}
	if c.Server.RateLimitRPS < 0 {
		errs = append(errs, "rate limit RPS must not be negative")
	}
	if c.Server.RateLimitRPS > 0 && c.Server.RateLimitBurst < 1 {
		errs = append(errs, "rate limit burst must be at least 1 when rate limiting is enabled")
	}

	if c.LiveKit.URL != "" && !isValidURL(c.LiveKit.URL) {
		errs = append(errs, "LiveKit URL must be a valid URL")
	}
	if c.LiveKit.TokenTTL <= 0 {
		errs = append(errs, "token TTL must be positive")
	}
	if c.LiveKit.RoomEmptyTimeout < 0 {
		errs = append(errs, "room empty timeout must not be negative")
	}
	if c.LiveKit.RoomMaxParticipants < 0 {
		errs = append(errs, "room max participants must not be negative")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}
	return nil
}

// getConfigPath returns the path to the config file
func getConfigPath() string {
	if path := os.Getenv("HALLGATE_CONFIG"); path != "" {
		return path
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "config.json"
	}

	// Check ~/.config/hallgate/config.json first
	configDir := filepath.Join(homeDir, ".config", "hallgate")
	configPath := filepath.Join(configDir, "config.json")
	if _, err := os.Stat(configPath); err == nil {
		return configPath
	}

	// Check ~/.hallgate/config.json
	altPath := filepath.Join(homeDir, ".hallgate", "config.json")
	if _, err := os.Stat(altPath); err == nil {
		return altPath
	}

	return configPath
}
