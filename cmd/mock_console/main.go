// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/relabs-tech/gamepad/internal/app"
	"github.com/relabs-tech/gamepad/internal/logger"
)

func main() {
	log := logger.Must("debug", "console")
	defer log.Sync()
	log.Info("starting gamepad (mock console)")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.RunMockConsole(ctx, log); err != nil {
		log.Fatal("fatal", zap.Error(err))
	}
}
