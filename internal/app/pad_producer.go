// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"periph.io/x/conn/v3/physic"

	"github.com/relabs-tech/gamepad/internal/calibration"
	"github.com/relabs-tech/gamepad/internal/command"
	"github.com/relabs-tech/gamepad/internal/config"
	"github.com/relabs-tech/gamepad/internal/sensors"
	"github.com/relabs-tech/gamepad/internal/transport"
)

// RunPadProducer calibrates the sticks, opens the configured transports and
// streams frames until ctx is cancelled.
func RunPadProducer(ctx context.Context, useMock bool, log *zap.Logger) error {
	cfg := config.Get()

	// --- Choose input source (mock vs real hardware) ---
	var pad sensors.Pad
	if useMock {
		log.Info("using mock pad")
		pad = sensors.NewMockPad()
	} else {
		adc, err := sensors.NewADS1015(cfg.ADCI2CBus, cfg.ADCI2CAddr,
			physic.ElectricPotential(cfg.ADCFullScaleMV)*physic.MilliVolt, log.Named("adc"))
		if err != nil {
			return err
		}
		defer adc.Close()

		btns, err := sensors.NewGPIOButtons(cfg.ButtonPins)
		if err != nil {
			return err
		}
		log.Info("buttons ready", zap.Strings("pins", cfg.ButtonPins))
		pad = sensors.Combine(adc, btns)
	}

	cal := calibration.NewContext(cfg.Params())

	// --- Optional status display, up before boot so it can show the prompt ---
	var disp *StatusDisplay
	if cfg.DisplayEnabled {
		d, err := NewStatusDisplay(cfg.DisplayI2CAddr, cal, log.Named("display"))
		if err != nil {
			log.Warn("status display unavailable", zap.Error(err))
		} else {
			disp = d
			defer disp.Close()
		}
	}

	// --- Boot calibration ---
	var notice bootNotifier
	if disp != nil {
		notice = disp
	}
	bootCalibrate(ctx, cal, pad, cfg.BootOptions(), notice, log)

	// --- Transports ---
	if !cfg.Has(config.TransportMQTT) {
		log.Info("mqtt transport disabled, MQTT consoles will see no frames")
	}
	commands := &command.Slot{}
	out, err := openTransports(ctx, cfg, cal, commands.Handle, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := out.Close(); err != nil {
			log.Warn("closing transports", zap.Error(err))
		}
	}()

	loop := NewLoop(cal, pad, out, commands, cfg.SampleInterval(), log.Named("loop"))
	if disp != nil {
		loop.Observe(disp.Update)
		go disp.Run(ctx, time.Duration(cfg.DisplayUpdateInterval)*time.Millisecond)
	}

	return loop.Run(ctx)
}

// bootNotifier is told right before the boot window opens.
type bootNotifier interface {
	BootStarted(window time.Duration)
}

// bootCalibrate prompts through notice (which may be nil) and then runs the
// boot window.
func bootCalibrate(ctx context.Context, cal *calibration.Context, pad sensors.AnalogReader, opts calibration.BootOptions, notice bootNotifier, log *zap.Logger) calibration.BootResult {
	log.Info("boot calibration, keep the sticks centered", zap.Duration("window", opts.Window))
	if notice != nil {
		notice.BootStarted(opts.Window)
	}
	res := calibration.Boot(ctx, cal, pad, opts)
	log.Info("boot calibration done", zap.Int("samples", res.Samples), zap.Ints("centers", res.Centers[:]))
	return res
}

// openTransports opens every transport named in the config. Inbound payloads
// from all of them go to onCommand.
func openTransports(ctx context.Context, cfg *config.Config, cal *calibration.Context, onCommand transport.CommandHandler, log *zap.Logger) (transport.Fanout, error) {
	var out transport.Fanout
	fail := func(err error) (transport.Fanout, error) {
		out.Close()
		return nil, err
	}

	for _, name := range cfg.Transports {
		switch name {
		case config.TransportMQTT:
			m, err := transport.NewMQTT(transport.MQTTOptions{
				Broker:       cfg.MQTTBroker,
				ClientID:     cfg.MQTTClientID,
				FrameTopic:   cfg.TopicFrames,
				CommandTopic: cfg.TopicCommands,
			}, onCommand, log.Named("mqtt"))
			if err != nil {
				return fail(err)
			}
			out = append(out, m)

		case config.TransportSerial:
			s, err := transport.OpenSerial(transport.SerialOptions{
				Port:     cfg.SerialPort,
				BaudRate: cfg.SerialBaudRate,
			}, onCommand, log.Named("serial"))
			if err != nil {
				return fail(err)
			}
			out = append(out, s)

		case config.TransportWebSocket:
			ws := transport.NewWebSocket(onCommand, log.Named("websocket"))
			startWebServer(ctx, cfg.WebServerPort, ws, cal, log.Named("web"))
			out = append(out, ws)

		default:
			return fail(fmt.Errorf("unknown transport %q", name))
		}
	}
	return out, nil
}
