// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package sensors

import (
	"math"
	"time"
)

// MockPad is a synthetic controller: sticks trace slow circles around
// mid-scale and one button at a time is held for half a second.
type MockPad struct {
	start time.Time
	now   func() time.Time
}

// NewMockPad creates a mock pad starting its pattern now.
func NewMockPad() *MockPad {
	return &MockPad{start: time.Now(), now: time.Now}
}

const (
	mockCenter    = 2048
	mockAmplitude = 1500
)

func (m *MockPad) elapsed() float64 {
	return m.now().Sub(m.start).Seconds()
}

// ReadAnalog implements AnalogReader.
func (m *MockPad) ReadAnalog(ch int) int {
	e := m.elapsed()
	var v float64
	switch ch {
	case 0:
		v = math.Sin(e)
	case 1:
		v = math.Cos(e)
	case 2:
		v = math.Sin(e * 0.7)
	default:
		v = math.Cos(e * 0.7)
	}
	return mockCenter + int(mockAmplitude*v)
}

// ReadDigital implements DigitalReader. Active-low: the held button reads low.
func (m *MockPad) ReadDigital(ch int) bool {
	held := int(m.elapsed()*2) % 16
	return held != ch
}
