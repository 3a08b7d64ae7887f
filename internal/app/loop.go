// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/relabs-tech/gamepad/internal/axis"
	"github.com/relabs-tech/gamepad/internal/buttons"
	"github.com/relabs-tech/gamepad/internal/calibration"
	"github.com/relabs-tech/gamepad/internal/command"
	"github.com/relabs-tech/gamepad/internal/frame"
	"github.com/relabs-tech/gamepad/internal/sensors"
	"github.com/relabs-tech/gamepad/internal/transport"
)

// statsEvery is how many ticks pass between debug summaries.
const statsEvery = 1000

// Loop samples the pad once per tick and delivers one frame per tick.
type Loop struct {
	log      *zap.Logger
	cal      *calibration.Context
	pad      sensors.Pad
	out      transport.Transport
	commands *command.Slot
	interval time.Duration
	observer func(frame.Frame)

	ticks   uint64
	dropped uint64
}

// NewLoop wires a loop. commands may be shared with any number of transports.
func NewLoop(cal *calibration.Context, pad sensors.Pad, out transport.Transport, commands *command.Slot, interval time.Duration, log *zap.Logger) *Loop {
	return &Loop{
		log:      log,
		cal:      cal,
		pad:      pad,
		out:      out,
		commands: commands,
		interval: interval,
	}
}

// Observe registers fn to receive every frame after delivery. fn runs on the
// loop goroutine and must return quickly.
func (l *Loop) Observe(fn func(frame.Frame)) {
	l.observer = fn
}

// Tick runs one sampling cycle and returns the frame it produced.
func (l *Loop) Tick() frame.Frame {
	if l.commands.Take() == command.Recalibrate {
		centers := calibration.Recalibrate(l.cal, l.pad)
		l.log.Info("recalibrated", zap.Ints("centers", centers[:]))
	}

	var raw [axis.Count]int
	for _, a := range axis.All {
		raw[a] = l.pad.ReadAnalog(int(a))
	}

	f := frame.Frame{
		LX: l.cal.Convert(axis.LX, raw[axis.LX]),
		LY: l.cal.Convert(axis.LY, raw[axis.LY]),
		RX: l.cal.Convert(axis.RX, raw[axis.RX]),
		RY: l.cal.Convert(axis.RY, raw[axis.RY]),
		K:  buttons.Sample(l.pad),
	}

	l.ticks++
	if payload, err := frame.Encode(f); err != nil {
		l.dropped++
		l.log.Debug("encode failed", zap.Error(err))
	} else if err := l.out.Deliver(payload); err != nil {
		l.dropped++
		l.log.Debug("frame dropped", zap.Error(err))
	}

	if l.ticks%statsEvery == 0 {
		l.log.Debug("loop stats", zap.Uint64("ticks", l.ticks), zap.Uint64("dropped", l.dropped))
	}

	if l.observer != nil {
		l.observer(f)
	}
	return f
}

// Run ticks at the configured interval until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	p := l.cal.Params()
	l.log.Info("sample loop started",
		zap.Duration("interval", l.interval),
		zap.String("transport", l.out.Name()),
		zap.Float64("deadzone", p.Deadzone),
		zap.Float64("alpha", p.Alpha),
	)

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			l.log.Info("sample loop stopped", zap.Uint64("ticks", l.ticks), zap.Uint64("dropped", l.dropped))
			return nil
		case <-ticker.C:
			l.Tick()
		}
	}
}
