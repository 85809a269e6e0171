// Package config reads the viewer and sender settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ironsheep/imspect/internal/transfer"
)

// Environment variables understood by Load.
const (
	EnvLogLevel       = "IMSPECT_LOG_LEVEL"
	EnvLogFormat      = "IMSPECT_LOG_FORMAT"
	EnvViewer         = "IMSPECT_VIEWER"
	EnvHandoffTimeout = "IMSPECT_HANDOFF_TIMEOUT"
	EnvAttach         = "IMSPECT_ATTACH"
)

// Config holds settings shared by the imspect executables.
type Config struct {
	// LogLevel is one of debug, info, warn or error.
	LogLevel string

	// LogFormat is text or json.
	LogFormat string

	// Viewer is the executable the sender launches.
	Viewer string

	// HandoffTimeout bounds the sender's wait for the viewer.
	HandoffTimeout time.Duration

	// HandoffDir is set when the process was launched by a sender.
	HandoffDir string

	// Attach hands the sender's standard streams to the viewer. By default
	// the viewer starts with none.
	Attach bool
}

// Default returns the configuration used when no variables are set.
func Default() Config {
	return Config{
		LogLevel:       "info",
		LogFormat:      "text",
		Viewer:         transfer.DefaultExecutable,
		HandoffTimeout: transfer.DefaultHandoffTimeout,
	}
}

// Load returns Default overridden by the environment.
func Load() (Config, error) {
	return load(os.Getenv)
}

func load(getenv func(string) string) (Config, error) {
	cfg := Default()

	if v := getenv(EnvLogLevel); v != "" {
		switch v = strings.ToLower(v); v {
		case "debug", "info", "warn", "warning", "error":
			cfg.LogLevel = v
		default:
			return Config{}, fmt.Errorf("%s: unknown level %q", EnvLogLevel, v)
		}
	}

	if v := getenv(EnvLogFormat); v != "" {
		switch v = strings.ToLower(v); v {
		case "text", "json":
			cfg.LogFormat = v
		default:
			return Config{}, fmt.Errorf("%s: unknown format %q", EnvLogFormat, v)
		}
	}

	if v := getenv(EnvViewer); v != "" {
		cfg.Viewer = v
	}

	if v := getenv(EnvHandoffTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", EnvHandoffTimeout, err)
		}
		if d <= 0 {
			return Config{}, fmt.Errorf("%s: must be positive, got %s", EnvHandoffTimeout, d)
		}
		cfg.HandoffTimeout = d
	}

	if v := getenv(EnvAttach); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", EnvAttach, err)
		}
		cfg.Attach = b
	}

	cfg.HandoffDir = getenv(transfer.HandoffDirEnv)
	return cfg, nil
}
