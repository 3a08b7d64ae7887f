// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package sensors

import (
	"fmt"

	"go.uber.org/zap"
	"periph.io/x/conn/v3/analog"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/devices/v3/ads1x15"
	"periph.io/x/host/v3"
)

// FullScaleCounts is the 12-bit count assigned to the full-scale voltage.
const FullScaleCounts = 4095

// Conversion rate requested from the ADS1015 per channel.
const adcRate = 1600 * physic.Hertz

type sampleReader interface {
	Read() (analog.Sample, error)
}

// ADS1x15 reads the four stick axes from single-ended ADS1015 channels 0-3.
// Voltages are scaled to 12-bit counts so calibration constants keep the
// meaning they have on a 0..4095 converter.
type ADS1x15 struct {
	log       *zap.Logger
	bus       i2c.BusCloser
	pins      [4]sampleReader
	halt      []func() error
	fullScale physic.ElectricPotential
	last      [4]int
	failing   [4]bool
}

// NewADS1015 opens the I2C bus (empty name = first bus) and configures the converter.
func NewADS1015(busName string, addr uint16, fullScale physic.ElectricPotential, log *zap.Logger) (*ADS1x15, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("ADC: periph host init: %w", err)
	}

	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, fmt.Errorf("ADC: open I2C bus %q: %w", busName, err)
	}

	dev, err := ads1x15.NewADS1015(bus, &ads1x15.Opts{I2cAddress: addr})
	if err != nil {
		bus.Close()
		return nil, fmt.Errorf("ADC: device at 0x%02X: %w", addr, err)
	}

	a := &ADS1x15{log: log, bus: bus, fullScale: fullScale}
	channels := [4]ads1x15.Channel{ads1x15.Channel0, ads1x15.Channel1, ads1x15.Channel2, ads1x15.Channel3}
	for i, ch := range channels {
		pin, err := dev.PinForChannel(ch, fullScale, adcRate, ads1x15.SaveEnergy)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("ADC: channel %d: %w", i, err)
		}
		a.pins[i] = pin
		a.halt = append(a.halt, pin.Halt)
	}

	log.Info("ADC ready",
		zap.String("bus", busName),
		zap.String("addr", fmt.Sprintf("0x%02X", addr)),
		zap.String("full_scale", fullScale.String()),
	)
	return a, nil
}

func newADS1x15(pins [4]sampleReader, fullScale physic.ElectricPotential, log *zap.Logger) *ADS1x15 {
	return &ADS1x15{log: log, pins: pins, fullScale: fullScale}
}

// VoltsToCounts scales v against fullScale into 0..FullScaleCounts counts.
// Out-of-range voltages are not clamped.
func VoltsToCounts(v, fullScale physic.ElectricPotential) int {
	return int(int64(v) * FullScaleCounts / int64(fullScale))
}

// ReadAnalog returns the channel in counts. A failed conversion repeats the
// last good reading of that channel.
func (a *ADS1x15) ReadAnalog(ch int) int {
	s, err := a.pins[ch].Read()
	if err != nil {
		if !a.failing[ch] {
			a.log.Warn("ADC read failed, holding last value", zap.Int("channel", ch), zap.Error(err))
			a.failing[ch] = true
		}
		return a.last[ch]
	}
	if a.failing[ch] {
		a.log.Info("ADC read recovered", zap.Int("channel", ch))
		a.failing[ch] = false
	}
	a.last[ch] = VoltsToCounts(s.V, a.fullScale)
	return a.last[ch]
}

// Close halts the channels and releases the bus.
func (a *ADS1x15) Close() error {
	for _, h := range a.halt {
		if err := h(); err != nil {
			a.log.Warn("ADC halt failed", zap.Error(err))
		}
	}
	if a.bus != nil {
		return a.bus.Close()
	}
	return nil
}
