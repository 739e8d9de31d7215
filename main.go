package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	app "github.com/rocketscienceinc/tictactoe-web/internal"
	"github.com/rocketscienceinc/tictactoe-web/internal/config"
)

// configPathEnv overrides where the config file is read from.
const configPathEnv = "CONFIG_PATH"

func main() {
	defer func() {
		if err := recover(); err != nil {
			fmt.Fprintf(os.Stderr, "tictactoe-web: %v\n", err)
			os.Exit(1)
		}
	}()

	path, err := configPath()
	if err != nil {
		panic(err)
	}

	conf := config.MustLoad(path)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: parseLevel(conf.LogLevel)}))
	logger.Info("starting", "config", path, "port", conf.HTTPPort, "storage", conf.Storage.Driver)

	if err = app.RunApp(logger, conf); err != nil {
		panic(fmt.Errorf("app run failed: %w", err))
	}
}

// configPath - CONFIG_PATH when set, otherwise config.yml in the working directory.
func configPath() (string, error) {
	if path := os.Getenv(configPathEnv); path != "" {
		return path, nil
	}

	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}

	return filepath.Join(dir, "config.yml"), nil
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
