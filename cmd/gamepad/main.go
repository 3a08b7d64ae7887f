// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/relabs-tech/gamepad/internal/app"
	"github.com/relabs-tech/gamepad/internal/config"
	"github.com/relabs-tech/gamepad/internal/logger"
)

func main() {
	configPath := flag.String("config", "./gamepad_config.txt", "path to configuration file")
	useMock := flag.Bool("mock", false, "use the synthetic pad instead of ADC and GPIO")
	flag.Parse()

	boot := logger.Must("info", "console")

	// Load configuration, empty path means built-in defaults
	if *configPath == "" {
		config.InitDefaults()
	} else if err := config.InitGlobal(*configPath); err != nil {
		boot.Fatal("failed to load config", zap.Error(err))
	}
	cfg := config.Get()

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		boot.Fatal("failed to build logger", zap.Error(err))
	}
	defer log.Sync()

	log.Info("starting gamepad producer",
		zap.Strings("transports", cfg.Transports),
		zap.Int("sample_hz", cfg.SampleHz),
		zap.Bool("mock", *useMock))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.RunPadProducer(ctx, *useMock, log); err != nil {
		log.Fatal("fatal", zap.Error(err))
	}
}
