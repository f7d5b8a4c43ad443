package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		t.Error("Server Port should be valid")
	}
	if cfg.Server.Host == "" {
		t.Error("Server Host should not be empty")
	}
	if len(cfg.Server.CORSOrigins) == 0 {
		t.Error("Server CORSOrigins should not be empty")
	}
	if cfg.Server.RateLimitRPS < 0 {
		t.Error("Server RateLimitRPS should not be negative")
	}

	if cfg.LiveKit.TokenTTL != 24*time.Hour {
		t.Errorf("default token TTL should be 24h, got %v", cfg.LiveKit.TokenTTL)
	}
	if cfg.LiveKit.APIKey != "" || cfg.LiveKit.APISecret != "" {
		t.Error("credentials should not have defaults")
	}
	if cfg.LiveKit.RoomEmptyTimeout <= 0 {
		t.Error("LiveKit RoomEmptyTimeout should be positive")
	}
}

func TestEnvString(t *testing.T) {
	target := "original"

	t.Run("sets value when env var exists", func(t *testing.T) {
		t.Setenv("TEST_VAR", "new_value")
		envString("TEST_VAR", &target)
		if target != "new_value" {
			t.Errorf("expected 'new_value', got '%s'", target)
		}
	})

	t.Run("does not change value when env var is empty", func(t *testing.T) {
		t.Setenv("TEST_VAR", "")
		target = "original"
		envString("TEST_VAR", &target)
		if target != "original" {
			t.Errorf("expected 'original', got '%s'", target)
		}
	})

	t.Run("does not change value when env var is unset", func(t *testing.T) {
		target = "original"
		envString("NONEXISTENT_VAR", &target)
		if target != "original" {
			t.Errorf("expected 'original', got '%s'", target)
		}
	})
}

func TestEnvStringFallback(t *testing.T) {
	t.Run("primary wins over fallback", func(t *testing.T) {
		t.Setenv("TEST_PRIMARY", "from_primary")
		t.Setenv("TEST_FALLBACK", "from_fallback")
		target := "original"
		envStringFallback("TEST_PRIMARY", "TEST_FALLBACK", &target)
		if target != "from_primary" {
			t.Errorf("expected 'from_primary', got '%s'", target)
		}
	})

	t.Run("uses fallback when primary unset", func(t *testing.T) {
		t.Setenv("TEST_FALLBACK", "from_fallback")
		target := "original"
		envStringFallback("NONEXISTENT_PRIMARY", "TEST_FALLBACK", &target)
		if target != "from_fallback" {
			t.Errorf("expected 'from_fallback', got '%s'", target)
		}
	})

	t.Run("does not change value when both unset", func(t *testing.T) {
		target := "original"
		envStringFallback("NONEXISTENT_PRIMARY", "NONEXISTENT_FALLBACK", &target)
		if target != "original" {
			t.Errorf("expected 'original', got '%s'", target)
		}
	})
}

func TestEnvIntFallback(t *testing.T) {
	t.Run("primary wins over fallback", func(t *testing.T) {
		t.Setenv("TEST_INT_PRIMARY", "3000")
		t.Setenv("TEST_INT_FALLBACK", "4000")
		target := 8080
		envIntFallback("TEST_INT_PRIMARY", "TEST_INT_FALLBACK", &target)
		if target != 3000 {
			t.Errorf("expected 3000, got %d", target)
		}
	})

	t.Run("uses fallback when primary unset", func(t *testing.T) {
		t.Setenv("TEST_INT_FALLBACK", "4000")
		target := 8080
		envIntFallback("NONEXISTENT_PRIMARY", "TEST_INT_FALLBACK", &target)
		if target != 4000 {
			t.Errorf("expected 4000, got %d", target)
		}
	})

	t.Run("skips invalid primary and uses fallback", func(t *testing.T) {
		t.Setenv("TEST_INT_PRIMARY", "not_a_number")
		t.Setenv("TEST_INT_FALLBACK", "4000")
		target := 8080
		envIntFallback("TEST_INT_PRIMARY", "TEST_INT_FALLBACK", &target)
		if target != 4000 {
			t.Errorf("expected 4000, got %d", target)
		}
	})

	t.Run("does not change value when both unset", func(t *testing.T) {
		target := 8080
		envIntFallback("NONEXISTENT_PRIMARY", "NONEXISTENT_FALLBACK", &target)
		if target != 8080 {
			t.Errorf("expected 8080, got %d", target)
		}
	})
}

func TestEnvDuration(t *testing.T) {
	target := 24 * time.Hour

	t.Run("sets value when env var is valid duration", func(t *testing.T) {
		t.Setenv("TEST_DURATION", "90m")
		envDuration("TEST_DURATION", &target)
		if target != 90*time.Minute {
			t.Errorf("expected 90m, got %v", target)
		}
	})

	t.Run("does not change value when env var is invalid", func(t *testing.T) {
		t.Setenv("TEST_DURATION", "not_a_duration")
		target = 24 * time.Hour
		envDuration("TEST_DURATION", &target)
		if target != 24*time.Hour {
			t.Errorf("expected 24h, got %v", target)
		}
	})

	t.Run("does not change value when env var is empty", func(t *testing.T) {
		t.Setenv("TEST_DURATION", "")
		target = 24 * time.Hour
		envDuration("TEST_DURATION", &target)
		if target != 24*time.Hour {
			t.Errorf("expected 24h, got %v", target)
		}
	})
}

func TestEnvStringSlice(t *testing.T) {
	target := []string{"original"}

	t.Run("parses comma-separated values", func(t *testing.T) {
		t.Setenv("TEST_SLICE", "a,b,c")
		envStringSlice("TEST_SLICE", &target)
		if len(target) != 3 || target[0] != "a" || target[1] != "b" || target[2] != "c" {
			t.Errorf("expected [a b c], got %v", target)
		}
	})

	t.Run("trims whitespace from values", func(t *testing.T) {
		t.Setenv("TEST_SLICE", " a , b , c ")
		target = []string{"original"}
		envStringSlice("TEST_SLICE", &target)
		if len(target) != 3 || target[0] != "a" || target[1] != "b" || target[2] != "c" {
			t.Errorf("expected [a b c], got %v", target)
		}
	})

	t.Run("filters empty values", func(t *testing.T) {
		t.Setenv("TEST_SLICE", "a,,b,  ,c")
		target = []string{"original"}
		envStringSlice("TEST_SLICE", &target)
		if len(target) != 3 || target[0] != "a" || target[1] != "b" || target[2] != "c" {
			t.Errorf("expected [a b c], got %v", target)
		}
	})

	t.Run("does not change value when env var is empty", func(t *testing.T) {
		t.Setenv("TEST_SLICE", "")
		target = []string{"original"}
		envStringSlice("TEST_SLICE", &target)
		if len(target) != 1 || target[0] != "original" {
			t.Errorf("expected [original], got %v", target)
		}
	})
}

func TestValidate_ServerPort(t *testing.T) {
	tests := []struct {
		name    string
		port    int
		wantErr bool
	}{
		{"valid port 80", 80, false},
		{"valid port 8080", 8080, false},
		{"valid port 65535", 65535, false},
		{"invalid port 0", 0, true},
		{"invalid port -1", -1, true},
		{"invalid port 65536", 65536, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Server.Port = tt.port
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && err != nil && !strings.Contains(err.Error(), "server port") {
				t.Errorf("error should mention server port, got: %v", err)
			}
		})
	}
}

func TestValidate_TokenTTL(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LiveKit.TokenTTL = 0
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for zero token TTL")
	}
	if !strings.Contains(err.Error(), "token TTL") {
		t.Errorf("error should mention token TTL, got: %v", err)
	}

	cfg.LiveKit.TokenTTL = -time.Hour
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for negative token TTL")
	}
}

func TestValidate_RateLimit(t *testing.T) {
	t.Run("rejects negative RPS", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Server.RateLimitRPS = -1
		if err := cfg.Validate(); err == nil {
			t.Error("expected error for negative RPS")
		}
	})

	t.Run("rejects zero burst with positive RPS", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Server.RateLimitRPS = 5
		cfg.Server.RateLimitBurst = 0
		err := cfg.Validate()
		if err == nil {
			t.Fatal("expected error for zero burst")
		}
		if !strings.Contains(err.Error(), "burst") {
			t.Errorf("error should mention burst, got: %v", err)
		}
	})

	t.Run("accepts disabled rate limiting", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Server.RateLimitRPS = 0
		cfg.Server.RateLimitBurst = 0
		if err := cfg.Validate(); err != nil {
			t.Errorf("unexpected error with rate limiting disabled: %v", err)
		}
	})
}

func TestValidate_LiveKitURL(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LiveKit.URL = "invalid-url"
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for invalid LiveKit URL")
	}
	if !strings.Contains(err.Error(), "LiveKit URL") {
		t.Errorf("error should mention LiveKit URL, got: %v", err)
	}

	cfg.LiveKit.URL = "wss://livekit.example.com"
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error for valid URL: %v", err)
	}
}

func TestValidate_AllowsMissingCredentials(t *testing.T) {
	// The server must start without credentials; token requests fail at
	// request time instead.
	cfg := DefaultConfig()
	cfg.LiveKit.APIKey = ""
	cfg.LiveKit.APISecret = ""
	if err := cfg.Validate(); err != nil {
		t.Errorf("missing credentials should not fail validation, got: %v", err)
	}
}

func TestHasCredentials(t *testing.T) {
	tests := []struct {
		name      string
		apiKey    string
		apiSecret string
		want      bool
	}{
		{"both present", "key", "secret", true},
		{"missing key", "", "secret", false},
		{"missing secret", "key", "", false},
		{"both missing", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.LiveKit.APIKey = tt.apiKey
			cfg.LiveKit.APISecret = tt.apiSecret
			if got := cfg.HasCredentials(); got != tt.want {
				t.Errorf("HasCredentials() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsRoomAPIConfigured(t *testing.T) {
	tests := []struct {
		name      string
		url       string
		apiKey    string
		apiSecret string
		want      bool
	}{
		{"fully configured", "wss://livekit.example.com", "key", "secret", true},
		{"missing URL", "", "key", "secret", false},
		{"missing API key", "wss://livekit.example.com", "", "secret", false},
		{"missing API secret", "wss://livekit.example.com", "key", "", false},
		{"all empty", "", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.LiveKit.URL = tt.url
			cfg.LiveKit.APIKey = tt.apiKey
			cfg.LiveKit.APISecret = tt.apiSecret
			if got := cfg.IsRoomAPIConfigured(); got != tt.want {
				t.Errorf("IsRoomAPIConfigured() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsValidURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want bool
	}{
		{"valid http", "http://localhost:8000", true},
		{"valid https", "https://api.example.com", true},
		{"valid ws", "ws://localhost:7880", true},
		{"valid wss", "wss://example.com", true},
		{"missing scheme", "localhost:8000", false},
		{"missing host", "http://", false},
		{"empty string", "", false},
		{"scheme only", "http", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isValidURL(tt.url); got != tt.want {
				t.Errorf("isValidURL(%q) = %v, want %v", tt.url, got, tt.want)
			}
		})
	}
}

func TestGetConfigPath(t *testing.T) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		t.Skip("cannot determine home directory")
	}

	t.Run("uses HALLGATE_CONFIG env var when set", func(t *testing.T) {
		t.Setenv("HALLGATE_CONFIG", "/custom/path/config.json")
		path := getConfigPath()
		if path != "/custom/path/config.json" {
			t.Errorf("expected custom path, got %s", path)
		}
	})

	t.Run("defaults to .config/hallgate when no env var", func(t *testing.T) {
		path := getConfigPath()
		expectedPath := filepath.Join(homeDir, ".config", "hallgate", "config.json")
		if path != expectedPath {
			t.Errorf("expected %s, got %s", expectedPath, path)
		}
	})
}

func TestLoad_PlainEnvNames(t *testing.T) {
	// The unprefixed names recognized by existing deployments keep working.
	t.Setenv("HALLGATE_CONFIG", filepath.Join(t.TempDir(), "absent.json"))
	t.Setenv("LIVEKIT_API_KEY", "plainkey")
	t.Setenv("LIVEKIT_API_SECRET", "plainsecret")
	t.Setenv("PORT", "9090")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.LiveKit.APIKey != "plainkey" {
		t.Errorf("expected APIKey 'plainkey', got %q", cfg.LiveKit.APIKey)
	}
	if cfg.LiveKit.APISecret != "plainsecret" {
		t.Errorf("expected APISecret 'plainsecret', got %q", cfg.LiveKit.APISecret)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Server.Port)
	}
}

func TestLoad_PrefixedNamesTakePrecedence(t *testing.T) {
	t.Setenv("HALLGATE_CONFIG", filepath.Join(t.TempDir(), "absent.json"))
	t.Setenv("LIVEKIT_API_KEY", "plainkey")
	t.Setenv("HALLGATE_LIVEKIT_API_KEY", "prefixedkey")
	t.Setenv("PORT", "9090")
	t.Setenv("HALLGATE_PORT", "9091")
	t.Setenv("HALLGATE_TOKEN_TTL", "2h")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.LiveKit.APIKey != "prefixedkey" {
		t.Errorf("expected APIKey 'prefixedkey', got %q", cfg.LiveKit.APIKey)
	}
	if cfg.Server.Port != 9091 {
		t.Errorf("expected port 9091, got %d", cfg.Server.Port)
	}
	if cfg.LiveKit.TokenTTL != 2*time.Hour {
		t.Errorf("expected token TTL 2h, got %v", cfg.LiveKit.TokenTTL)
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.json")
	content := `{"server": {"port": 3000}, "livekit": {"api_key": "filekey"}}`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	t.Setenv("HALLGATE_CONFIG", configPath)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Server.Port != 3000 {
		t.Errorf("expected port 3000 from config file, got %d", cfg.Server.Port)
	}
	if cfg.LiveKit.APIKey != "filekey" {
		t.Errorf("expected APIKey 'filekey' from config file, got %q", cfg.LiveKit.APIKey)
	}

	t.Setenv("HALLGATE_PORT", "3001")
	cfg, err = Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Server.Port != 3001 {
		t.Errorf("expected env to override file, got port %d", cfg.Server.Port)
	}
}
