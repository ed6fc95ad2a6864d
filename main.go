package main

import (
	"context"
	"flag"
	"os"
	"os/signal"

	"github.com/soocke/training-overlay/app"
	"github.com/soocke/training-overlay/config"
)

func main() {
	cfgPath := flag.String("config", "config.json", "path to a JSON or YAML config file")
	debugFlag := flag.Bool("debug", false, "enable debug logging and diagnostics")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if *debugFlag {
		cfg.Debug = true
	}

	// Set up logger
	logger := NewLogger(os.Stdout, cfg.Debug)
	if err != nil {
		logger.Warn("config load failed; using defaults", "path", *cfgPath, "error", err)
	}

	c, err := app.BuildContainer(cfg, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := app.Run(ctx, c); err != nil {
		logger.Error("run failed", "error", err)
		os.Exit(1)
	}
	logger.Info("overlay exited")
}
