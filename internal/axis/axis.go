// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package axis converts raw analog stick readings into calibrated,
// deadzone-shaped and low-pass filtered int16 values.
package axis

import (
	"fmt"
	"math"
)

// Axis identifies one of the four analog channels.
type Axis int

const (
	LX Axis = iota // left stick X
	LY             // left stick Y
	RX             // right stick X
	RY             // right stick Y

	Count = 4
)

// All lists the axes in channel order.
var All = [Count]Axis{LX, LY, RX, RY}

func (a Axis) String() string {
	switch a {
	case LX:
		return "lx"
	case LY:
		return "ly"
	case RX:
		return "rx"
	case RY:
		return "ry"
	default:
		return fmt.Sprintf("axis(%d)", int(a))
	}
}

// Full scale of the int16 output.
const outputScale = 32767

// Params tunes the conversion. Raw-unit values assume a 12-bit source (0..4095).
type Params struct {
	Deadzone float64 // fraction of the span snapped to zero around center
	Alpha    float64 // one-pole filter coefficient, 1 = no smoothing
	MinSpan  int32   // floor for the normalization span, raw units
	Margin   int32   // half-width of the learned range after a reseed, raw units
}

// DefaultParams matches the controller firmware.
var DefaultParams = Params{
	Deadzone: 0.06,
	Alpha:    0.30,
	MinSpan:  200,
	Margin:   300,
}

// Calibration is the learned state of one axis.
type Calibration struct {
	Center   int32 `json:"center"`
	Min      int32 `json:"min"`
	Max      int32 `json:"max"`
	Filtered int32 `json:"filtered"` // filter state, int16 scale
}

// DefaultCalibration is the state an axis has before any calibration ran.
func DefaultCalibration() Calibration {
	return Calibration{Center: 2048, Min: 1600, Max: 2500}
}

// Reseed centers the axis on center and resets the learned range and filter.
func (c *Calibration) Reseed(center, margin int32) {
	c.Center = center
	c.Min = center - margin
	c.Max = center + margin
	c.Filtered = 0
}

// Span returns the normalization denominator: the larger distance from
// center to a learned extreme, never below minSpan.
func (c Calibration) Span(minSpan int32) int32 {
	span := c.Max - c.Center
	if neg := c.Center - c.Min; neg > span {
		span = neg
	}
	if span < minSpan {
		span = minSpan
	}
	return span
}

// Normalize maps raw to roughly -1..+1 around the center. Not clamped.
func (c Calibration) Normalize(raw, minSpan int32) float64 {
	return float64(raw-c.Center) / float64(c.Span(minSpan))
}

// Deadzone snaps |x| < dz to zero and stretches the rest so that the
// deadzone edge maps to 0 and ±1 stays ±1.
func Deadzone(x, dz float64) float64 {
	switch {
	case x > -dz && x < dz:
		return 0
	case x >= dz:
		return (x - dz) / (1 - dz)
	default:
		return (x + dz) / (1 - dz)
	}
}

// Convert feeds one raw sample through the axis and returns the filtered output.
func (c *Calibration) Convert(raw int32, p Params) int16 {
	if raw < c.Min {
		c.Min = raw
	}
	if raw > c.Max {
		c.Max = raw
	}

	x := Deadzone(c.Normalize(raw, p.MinSpan), p.Deadzone)
	y := math.Round(x * outputScale)

	// state is truncated every tick, so it settles up to ceil(1/alpha)-1 short of y
	f := (1-p.Alpha)*float64(c.Filtered) + p.Alpha*y
	switch {
	case f > math.MaxInt16:
		f = math.MaxInt16
	case f < math.MinInt16:
		f = math.MinInt16
	}
	c.Filtered = int32(f)
	return int16(c.Filtered)
}
