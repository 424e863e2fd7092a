package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/soocke/roi-annotator/app"
	"github.com/soocke/roi-annotator/config"
)

func main() {
	flags, err := config.ParseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, "roi-annotator:", err)
		os.Exit(2)
	}

	cfg, cfgErr := config.Load(flags.ConfigPath)
	envErr := cfg.ApplyEnv(flags.EnvFile)
	if flags.Debug {
		cfg.Debug = true
	}

	// Set up logger
	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	logger := NewLogger(level)
	if cfgErr != nil {
		logger.Warn("config load failed, using defaults", "path", flags.ConfigPath, "error", cfgErr)
	}
	if envErr != nil {
		logger.Warn("environment overrides ignored", "error", envErr)
	}
	if err := cfg.Validate(); err != nil {
		logger.Warn("config corrected", "error", err)
	}

	application, err := app.NewApp("ROI Annotator", cfg, flags.ConfigPath, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}
	application.Start(flags.Image)
}
