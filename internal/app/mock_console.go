// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/relabs-tech/gamepad/internal/axis"
	"github.com/relabs-tech/gamepad/internal/calibration"
	"github.com/relabs-tech/gamepad/internal/command"
	"github.com/relabs-tech/gamepad/internal/frame"
	"github.com/relabs-tech/gamepad/internal/sensors"
)

// consoleTransport prints each encoded frame as one line.
type consoleTransport struct {
	w io.Writer
}

func (c consoleTransport) Name() string { return "console" }

func (c consoleTransport) Deliver(payload []byte) error {
	_, err := fmt.Fprintf(c.w, "%s\n", payload)
	return err
}

func (c consoleTransport) Close() error { return nil }

// RunMockConsole runs the full pipeline on the mock pad and prints frames to
// stdout. No hardware or broker is needed.
func RunMockConsole(ctx context.Context, log *zap.Logger) error {
	pad := sensors.NewMockPad()
	cal := calibration.NewContext(axis.DefaultParams)

	res := calibration.Boot(ctx, cal, pad, calibration.BootOptions{
		Window:   50 * time.Millisecond,
		Interval: 2 * time.Millisecond,
	})
	log.Info("mock boot calibration", zap.Int("samples", res.Samples), zap.Ints("centers", res.Centers[:]))

	loop := NewLoop(cal, pad, consoleTransport{w: os.Stdout}, &command.Slot{}, 100*time.Millisecond, log)
	loop.Observe(func(f frame.Frame) {
		if f.K != 0 {
			log.Debug("buttons", zap.Stringer("k", f.K))
		}
	})
	return loop.Run(ctx)
}
