// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package calibration owns the calibration state of the four stick axes and
// implements the boot-time and on-demand centering routines.
package calibration

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/relabs-tech/gamepad/internal/axis"
	"github.com/relabs-tech/gamepad/internal/sensors"
)

// Context holds the calibration of all axes. It is shared between the sample
// loop and readers such as the status display; every method holds the lock
// only for a single axis operation.
type Context struct {
	mu     sync.Mutex
	params axis.Params
	axes   [axis.Count]axis.Calibration
}

// NewContext returns a context with the uncalibrated default state on every axis.
func NewContext(params axis.Params) *Context {
	c := &Context{params: params}
	for i := range c.axes {
		c.axes[i] = axis.DefaultCalibration()
	}
	return c
}

// Params returns the conversion parameters in use.
func (c *Context) Params() axis.Params {
	return c.params
}

// Convert runs one raw sample through the calibration of a.
func (c *Context) Convert(a axis.Axis, raw int) int16 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.axes[a].Convert(int32(raw), c.params)
}

// Reseed centers a on center using the configured margin.
func (c *Context) Reseed(a axis.Axis, center int) {
	c.mu.Lock()
	c.axes[a].Reseed(int32(center), c.params.Margin)
	c.mu.Unlock()
}

// Snapshot returns a copy of every axis calibration.
func (c *Context) Snapshot() [axis.Count]axis.Calibration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.axes
}

// BootOptions controls the averaging window of Boot.
type BootOptions struct {
	Window   time.Duration
	Interval time.Duration
}

// DefaultBootOptions matches the controller firmware.
var DefaultBootOptions = BootOptions{
	Window:   800 * time.Millisecond,
	Interval: 2 * time.Millisecond,
}

// BootResult reports what Boot measured.
type BootResult struct {
	Samples int
	Centers [axis.Count]int
}

// Boot averages all axes over opts.Window and seeds each center with the mean.
// The sticks are expected to rest during the window. Cancelling ctx ends the
// window early; whatever was accumulated is used.
func Boot(ctx context.Context, c *Context, r sensors.AnalogReader, opts BootOptions) BootResult {
	var sums [axis.Count]int64
	n := 0

	start := time.Now()
	timer := time.NewTimer(opts.Interval)
	defer timer.Stop()

window:
	for time.Since(start) < opts.Window {
		for _, a := range axis.All {
			sums[a] += int64(r.ReadAnalog(int(a)))
		}
		n++

		timer.Reset(opts.Interval)
		select {
		case <-ctx.Done():
			break window
		case <-timer.C:
		}
	}

	count := n
	if count < 1 {
		count = 1
	}

	res := BootResult{Samples: n}
	for _, a := range axis.All {
		center := int(math.Round(float64(sums[a]) / float64(count)))
		c.Reseed(a, center)
		res.Centers[a] = center
	}
	return res
}

// Recalibrate takes one fresh reading per axis and makes it the new center.
func Recalibrate(c *Context, r sensors.AnalogReader) [axis.Count]int {
	var centers [axis.Count]int
	for _, a := range axis.All {
		centers[a] = r.ReadAnalog(int(a))
		c.Reseed(a, centers[a])
	}
	return centers
}
