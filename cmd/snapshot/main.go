package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"laptop-price/config"
	"laptop-price/snapshot"
	"laptop-price/utils"
)

func main() {
	logger := utils.NewLogger()
	cfg := config.Load()

	logger.Info("=== Dashboard snapshot starting ===")
	logger.Info("Config: base: %s | output: %s | concurrency: %d | rate: %dms",
		cfg.SnapshotBaseURL, cfg.SnapshotOutputDir, cfg.SnapshotConcurrency, cfg.SnapshotRateLimitMs)

	capturer, err := snapshot.New(snapshot.Options{
		BaseURL:     cfg.SnapshotBaseURL,
		OutputDir:   cfg.SnapshotOutputDir,
		Concurrency: cfg.SnapshotConcurrency,
		RateLimitMs: cfg.SnapshotRateLimitMs,
		MaxRetries:  cfg.MaxRetries,
		ChromeBin:   cfg.ChromeBin,
	}, logger)
	if err != nil {
		logger.Error("Invalid snapshot settings: %v", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	saved, err := capturer.Capture(ctx, snapshot.DefaultPages)
	logger.Info("Saved %d/%d snapshots to %s", len(saved), len(snapshot.DefaultPages), cfg.SnapshotOutputDir)
	if err != nil {
		logger.Error("Some snapshots failed: %v", err)
		os.Exit(1)
	}
}
