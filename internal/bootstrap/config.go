package bootstrap

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/optitrack/optitrack-ui/config"
)

// logLevel backs the default logger so the level can follow LOG_LEVEL once config is loaded.
var logLevel = new(slog.LevelVar)

// InitLogger initializes the structured logger at info level.
func InitLogger() *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)
	return logger
}

// SetLogLevel applies a level name (debug, info, warn, error) to the logger from InitLogger.
func SetLogLevel(name string) error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(name))); err != nil {
		return fmt.Errorf("invalid LOG_LEVEL %q: %w", name, err)
	}
	logLevel.Set(level)
	return nil
}

// LoadConfig loads configuration from the environment (and .env in development).
func LoadConfig() (config.AppConfig, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}
