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
	requestCal := flag.Bool("cal", false, "ask the producer to recalibrate on connect")
	flag.Parse()

	log := logger.Must("info", "console")
	defer log.Sync()
	log.Info("starting gamepad console (MQTT subscriber)")

	// Load configuration, empty path means built-in defaults
	if *configPath == "" {
		config.InitDefaults()
	} else if err := config.InitGlobal(*configPath); err != nil {
		log.Fatal("failed to load config", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.RunConsoleMQTT(ctx, *requestCal, log.Named("console")); err != nil {
		log.Fatal("fatal", zap.Error(err))
	}
}
