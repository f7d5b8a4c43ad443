package main

import (
	"github.com/hallworld/hallgate/internal/config"
)

// Version information (set via ldflags)
var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

// Shared global variables
var cfg *config.Config

// maskSecret masks a credential for display
func maskSecret(s string) string {
	if s == "" {
		return "(not set)"
	}
	if len(s) <= 8 {
		return "(set)"
	}
	return s[:4] + "..." + s[len(s)-4:]
}

// secretStatus reports presence only. The signing secret itself is
// never printed anywhere.
func secretStatus(s string) string {
	if s == "" {
		return "(not set)"
	}
	return "(set)"
}

// boolStatus returns a status string for a boolean
func boolStatus(b bool) string {
	if b {
		return "configured"
	}
	return "not configured"
}
