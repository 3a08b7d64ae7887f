// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/relabs-tech/gamepad/internal/axis"
	"github.com/relabs-tech/gamepad/internal/buttons"
	"github.com/relabs-tech/gamepad/internal/calibration"
)

// Transport names accepted in TRANSPORTS.
const (
	TransportMQTT      = "mqtt"
	TransportSerial    = "serial"
	TransportWebSocket = "websocket"
)

// Config holds all application configuration values.
type Config struct {
	// Sampling and conditioning
	SampleHz             int
	DeadzoneFrac         float64
	LPFAlpha             float64
	BootCenterMS         int
	BootSampleIntervalMS int
	RecalMargin          int
	MinSpan              int

	// ADC (ADS1015 on I2C)
	ADCI2CBus      string // "" = first bus
	ADCI2CAddr     uint16
	ADCFullScaleMV int // input voltage mapped to 4095 counts

	// Buttons, in bit order UP DOWN LEFT RIGHT A B X Y
	ButtonPins []string

	// Transports
	Transports []string

	// MQTT
	MQTTBroker          string
	MQTTClientID        string
	MQTTClientIDConsole string
	TopicFrames         string
	TopicCommands       string

	// Serial (UART side of the BLE bridge)
	SerialPort     string
	SerialBaudRate int

	// Web Server
	WebServerPort int

	// Display
	DisplayEnabled        bool
	DisplayI2CAddr        uint16
	DisplayUpdateInterval int // milliseconds

	// Logging
	LogLevel  string
	LogFormat string
}

var (
	globalConfig *Config
	configOnce   sync.Once
	configMu     sync.RWMutex
)

// Defaults returns the configuration used when a key is absent from the file.
func Defaults() *Config {
	return &Config{
		SampleHz:             100,
		DeadzoneFrac:         axis.DefaultParams.Deadzone,
		LPFAlpha:             axis.DefaultParams.Alpha,
		BootCenterMS:         int(calibration.DefaultBootOptions.Window / time.Millisecond),
		BootSampleIntervalMS: int(calibration.DefaultBootOptions.Interval / time.Millisecond),
		RecalMargin:          int(axis.DefaultParams.Margin),
		MinSpan:              int(axis.DefaultParams.MinSpan),

		ADCI2CAddr:     0x48,
		ADCFullScaleMV: 3300,

		ButtonPins: []string{"GPIO4", "GPIO5", "GPIO6", "GPIO7", "GPIO8", "GPIO10", "GPIO18", "GPIO19"},

		Transports: []string{TransportMQTT},

		MQTTBroker:          "tcp://localhost:1883",
		MQTTClientID:        "gamepad-producer",
		MQTTClientIDConsole: "gamepad-console",
		TopicFrames:         "gamepad/frame",
		TopicCommands:       "gamepad/cmd",

		SerialBaudRate: 115200,

		WebServerPort: 8080,

		DisplayI2CAddr:        0x3C,
		DisplayUpdateInterval: 100,

		LogLevel:  "info",
		LogFormat: "console",
	}
}

// Load reads the configuration file on top of Defaults.
func Load(configPath string) (*Config, error) {
	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	cfg := Defaults()
	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Parse KEY=VALUE
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid config line %d: %q", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		if err := cfg.setValue(key, value); err != nil {
			return nil, fmt.Errorf("config line %d: %w", lineNum, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func parseInt(key, value string, min, max int) (int, error) {
	v, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	if v < min || v > max {
		return 0, fmt.Errorf("%s must be %d-%d, got %d", key, min, max, v)
	}
	return v, nil
}

func parseAddr(key, value string) (uint16, error) {
	addr, err := strconv.ParseUint(value, 0, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return uint16(addr), nil
}

func parseList(value string) []string {
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// setValue sets a config value based on the key.
func (c *Config) setValue(key, value string) error {
	var err error
	switch key {
	// Sampling and conditioning
	case "SAMPLE_HZ":
		c.SampleHz, err = parseInt(key, value, 1, 1000)
	case "DEADZONE_FRAC":
		v, perr := strconv.ParseFloat(value, 64)
		if perr != nil {
			return fmt.Errorf("invalid DEADZONE_FRAC %q: %w", value, perr)
		}
		if v < 0 || v >= 1 {
			return fmt.Errorf("DEADZONE_FRAC must be in [0, 1), got %v", v)
		}
		c.DeadzoneFrac = v
	case "LPF_ALPHA":
		v, perr := strconv.ParseFloat(value, 64)
		if perr != nil {
			return fmt.Errorf("invalid LPF_ALPHA %q: %w", value, perr)
		}
		if v <= 0 || v > 1 {
			return fmt.Errorf("LPF_ALPHA must be in (0, 1], got %v", v)
		}
		c.LPFAlpha = v
	case "BOOT_CENTER_MS":
		c.BootCenterMS, err = parseInt(key, value, 0, 60_000)
	case "BOOT_SAMPLE_INTERVAL_MS":
		c.BootSampleIntervalMS, err = parseInt(key, value, 1, 1000)
	case "RECAL_MARGIN":
		c.RecalMargin, err = parseInt(key, value, 0, 1<<20)
	case "MIN_SPAN":
		c.MinSpan, err = parseInt(key, value, 1, 1<<20)

	// ADC
	case "ADC_I2C_BUS":
		c.ADCI2CBus = value
	case "ADC_I2C_ADDR":
		c.ADCI2CAddr, err = parseAddr(key, value)
	case "ADC_FULL_SCALE_MV":
		c.ADCFullScaleMV, err = parseInt(key, value, 1, 6144)

	// Buttons
	case "BUTTON_PINS":
		c.ButtonPins = parseList(value)

	// Transports
	case "TRANSPORTS":
		c.Transports = parseList(value)

	// MQTT
	case "MQTT_BROKER":
		c.MQTTBroker = value
	case "MQTT_CLIENT_ID":
		c.MQTTClientID = value
	case "MQTT_CLIENT_ID_CONSOLE":
		c.MQTTClientIDConsole = value
	case "TOPIC_FRAMES":
		c.TopicFrames = value
	case "TOPIC_COMMANDS":
		c.TopicCommands = value

	// Serial
	case "SERIAL_PORT":
		c.SerialPort = value
	case "SERIAL_BAUD_RATE":
		c.SerialBaudRate, err = parseInt(key, value, 1, 4_000_000)

	// Web Server
	case "WEB_SERVER_PORT":
		c.WebServerPort, err = parseInt(key, value, 1, 65535)

	// Display
	case "DISPLAY_ENABLED":
		c.DisplayEnabled, err = strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid DISPLAY_ENABLED %q: %w", value, err)
		}
	case "DISPLAY_I2C_ADDR":
		c.DisplayI2CAddr, err = parseAddr(key, value)
	case "DISPLAY_UPDATE_INTERVAL":
		c.DisplayUpdateInterval, err = parseInt(key, value, 10, 60_000)

	// Logging
	case "LOG_LEVEL":
		c.LogLevel = value
	case "LOG_FORMAT":
		c.LogFormat = value

	default:
		return fmt.Errorf("unknown config key: %q", key)
	}

	return err
}

// Validate checks cross-field requirements.
func (c *Config) Validate() error {
	if len(c.ButtonPins) != buttons.Count {
		return fmt.Errorf("BUTTON_PINS needs %d pins, got %d", buttons.Count, len(c.ButtonPins))
	}
	if len(c.Transports) == 0 {
		return fmt.Errorf("TRANSPORTS is required")
	}
	for _, t := range c.Transports {
		switch t {
		case TransportMQTT:
			if c.MQTTBroker == "" {
				return fmt.Errorf("MQTT_BROKER is required for the mqtt transport")
			}
			if c.TopicFrames == "" || c.TopicCommands == "" {
				return fmt.Errorf("TOPIC_FRAMES and TOPIC_COMMANDS are required for the mqtt transport")
			}
		case TransportSerial:
			if c.SerialPort == "" {
				return fmt.Errorf("SERIAL_PORT is required for the serial transport")
			}
		case TransportWebSocket:
		default:
			return fmt.Errorf("unknown transport %q", t)
		}
	}
	return nil
}

// Has reports whether transport name is enabled.
func (c *Config) Has(name string) bool {
	for _, t := range c.Transports {
		if t == name {
			return true
		}
	}
	return false
}

// Params returns the axis conversion parameters.
func (c *Config) Params() axis.Params {
	return axis.Params{
		Deadzone: c.DeadzoneFrac,
		Alpha:    c.LPFAlpha,
		MinSpan:  int32(c.MinSpan),
		Margin:   int32(c.RecalMargin),
	}
}

// BootOptions returns the boot calibration window.
func (c *Config) BootOptions() calibration.BootOptions {
	return calibration.BootOptions{
		Window:   time.Duration(c.BootCenterMS) * time.Millisecond,
		Interval: time.Duration(c.BootSampleIntervalMS) * time.Millisecond,
	}
}

// SampleInterval returns the tick period of the sample loop.
func (c *Config) SampleInterval() time.Duration {
	return time.Second / time.Duration(c.SampleHz)
}

// InitGlobal initializes the global configuration from file.
// Uses sync.Once to ensure this only runs once, even if called multiple times.
func InitGlobal(configPath string) error {
	var err error
	configOnce.Do(func() {
		configMu.Lock()
		defer configMu.Unlock()
		globalConfig, err = Load(configPath)
	})
	return err
}

// InitDefaults installs Defaults as the global configuration when no file is used.
func InitDefaults() {
	configOnce.Do(func() {
		configMu.Lock()
		defer configMu.Unlock()
		globalConfig = Defaults()
	})
}

// Get returns the global configuration instance.
// InitGlobal must be called first, or this will return nil.
func Get() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return globalConfig
}
