package axis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func reseeded(center int32) Calibration {
	c := DefaultCalibration()
	c.Reseed(center, DefaultParams.Margin)
	return c
}

func TestReseed(t *testing.T) {
	c := Calibration{Center: 1, Min: -5, Max: 9, Filtered: 1234}
	c.Reseed(2100, 300)

	assert.Equal(t, Calibration{Center: 2100, Min: 1800, Max: 2400, Filtered: 0}, c)
	assert.LessOrEqual(t, c.Min, c.Center)
	assert.LessOrEqual(t, c.Center, c.Max)
}

func TestSpan(t *testing.T) {
	for _, tc := range []struct {
		name     string
		cal      Calibration
		expected int32
	}{
		{name: "both sides below floor", cal: Calibration{Center: 2000, Min: 1900, Max: 2150}, expected: 200},
		{name: "degenerate", cal: Calibration{Center: 2000, Min: 2000, Max: 2000}, expected: 200},
		{name: "positive side wider", cal: Calibration{Center: 2000, Min: 1700, Max: 2400}, expected: 400},
		{name: "negative side wider", cal: Calibration{Center: 2000, Min: 1200, Max: 2400}, expected: 800},
	} {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.cal.Span(DefaultParams.MinSpan))
		})
	}
}

func TestDeadzone(t *testing.T) {
	for _, tc := range []struct {
		in, expected float64
	}{
		{in: 0, expected: 0},
		{in: 0.059, expected: 0},
		{in: -0.059, expected: 0},
		{in: 0.06, expected: 0},
		{in: -0.06, expected: 0},
		{in: 1, expected: 1},
		{in: -1, expected: -1},
		{in: 0.53, expected: 0.5},
		{in: -0.53, expected: -0.5},
	} {
		assert.InDelta(t, tc.expected, Deadzone(tc.in, 0.06), 1e-9, "x=%v", tc.in)
	}

	assert.Equal(t, 0.25, Deadzone(0.25, 0), "zero width passes through")
}

func TestDeadzoneSuppressesSmallOffsets(t *testing.T) {
	c := reseeded(2048)
	// span 300, deadzone edge at 18 raw units
	for d := int32(-17); d <= 17; d++ {
		x := Deadzone(c.Normalize(2048+d, DefaultParams.MinSpan), DefaultParams.Deadzone)
		assert.Equal(t, 0.0, x, "offset %d", d)
	}
}

func TestNormalizeIsMonotonic(t *testing.T) {
	c := reseeded(2048)
	prev := math.Inf(-1)
	for raw := int32(1500); raw <= 2600; raw++ {
		x := c.Normalize(raw, DefaultParams.MinSpan)
		assert.Greater(t, x, prev, "raw %d", raw)
		prev = x
	}
}

func TestConvertAtCenterSettlesToZero(t *testing.T) {
	c := reseeded(2048)
	assert.Equal(t, int16(0), c.Convert(2048, DefaultParams))

	c.Filtered = 5000
	var out int16
	for i := 0; i < 60; i++ {
		out = c.Convert(2048, DefaultParams)
	}
	assert.Equal(t, int16(0), out)
	assert.Equal(t, int32(0), c.Filtered)

	c.Filtered = -5000
	for i := 0; i < 60; i++ {
		out = c.Convert(2048, DefaultParams)
	}
	assert.Equal(t, int16(0), out)
}

func TestConvertConverges(t *testing.T) {
	// ceil(log(1/32767)/log(0.7)) = 30 ticks, truncation leaves up to 3 units
	const ticks = 40
	const tolerance = 3

	for _, tc := range []struct {
		name   string
		raw    int32
		target float64
	}{
		{name: "full positive", raw: 2348, target: 32767},
		{name: "full negative", raw: 1748, target: -32767},
		{name: "half deflection", raw: 2198, target: math.Round((0.5 - 0.06) / 0.94 * 32767)},
	} {
		t.Run(tc.name, func(t *testing.T) {
			c := reseeded(2048)
			var out int16
			for i := 0; i < ticks; i++ {
				out = c.Convert(tc.raw, DefaultParams)
			}
			assert.InDelta(t, tc.target, float64(out), tolerance)
			assert.InDelta(t, tc.target, float64(c.Filtered), tolerance)
		})
	}
}

func TestConvertIsNonDecreasingOnStep(t *testing.T) {
	c := reseeded(2048)
	prev := c.Convert(2048, DefaultParams)
	for i := 0; i < 50; i++ {
		out := c.Convert(2300, DefaultParams)
		assert.GreaterOrEqual(t, out, prev)
		prev = out
	}
}

func TestConvertWidensLearnedRange(t *testing.T) {
	c := reseeded(2048)
	c.Convert(2600, DefaultParams)
	assert.Equal(t, int32(2600), c.Max)
	assert.Equal(t, int32(1748), c.Min)

	c.Convert(1000, DefaultParams)
	assert.Equal(t, int32(1000), c.Min)
	assert.Equal(t, int32(2600), c.Max, "range never shrinks")

	c.Convert(2048, DefaultParams)
	assert.Equal(t, int32(1000), c.Min)
	assert.Equal(t, int32(2600), c.Max)
}

func TestConvertStaysInRange(t *testing.T) {
	c := reseeded(2048)
	for _, raw := range []int32{-100000, 0, 4095, 100000, -100000, 2048} {
		for i := 0; i < 20; i++ {
			c.Convert(raw, DefaultParams)
			assert.GreaterOrEqual(t, c.Filtered, int32(math.MinInt16))
			assert.LessOrEqual(t, c.Filtered, int32(math.MaxInt16))
		}
	}
}

func TestAxisString(t *testing.T) {
	assert.Equal(t, "lx", LX.String())
	assert.Equal(t, "ry", RY.String())
	assert.Equal(t, "axis(7)", Axis(7).String())
}
