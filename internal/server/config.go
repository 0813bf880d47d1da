package server

import (
	"fmt"
	"os"
	"strconv"

	"github.com/ironsheep/storm-tools-mcp/internal/storms"
)

// Config holds server settings, populated from environment variables.
type Config struct {
	// LogLevel is "info" or "debug".
	LogLevel string

	// MinPixels is the region size used when a storms_detect call does not
	// pass min_pixels.
	MinPixels int

	// RenderScale is the pixels-per-cell used when grid_render does not pass
	// scale.
	RenderScale int
}

// DefaultConfig returns the settings used when no environment is set.
func DefaultConfig() Config {
	return Config{
		LogLevel:    "info",
		MinPixels:   storms.DefaultMinPixels,
		RenderScale: 4,
	}
}

// ConfigFromEnv reads configuration from environment variables, applying
// defaults where unset:
//
//	STORM_MCP_LOG_LEVEL     info | debug            (default info)
//	STORM_MCP_MIN_PIXELS    positive integer        (default 9)
//	STORM_MCP_RENDER_SCALE  integer in 1..32        (default 4)
func ConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()
	cfg.LogLevel = envOrDefault("STORM_MCP_LOG_LEVEL", cfg.LogLevel)

	minPixels, err := parseIntEnv("STORM_MCP_MIN_PIXELS", cfg.MinPixels)
	if err != nil {
		return Config{}, err
	}
	if minPixels < 1 {
		return Config{}, fmt.Errorf("invalid STORM_MCP_MIN_PIXELS: must be at least 1, got %d", minPixels)
	}
	cfg.MinPixels = minPixels

	scale, err := parseIntEnv("STORM_MCP_RENDER_SCALE", cfg.RenderScale)
	if err != nil {
		return Config{}, err
	}
	if scale < 1 || scale > 32 {
		return Config{}, fmt.Errorf("invalid STORM_MCP_RENDER_SCALE: must be in 1..32, got %d", scale)
	}
	cfg.RenderScale = scale

	return cfg, nil
}

// Debug reports whether debug logging is enabled.
func (c Config) Debug() bool {
	return c.LogLevel == "debug"
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseIntEnv(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}
