package sensors

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

// GPIOButtons reads button levels from GPIO pins configured as inputs with
// pull-ups. Channel i is the i-th pin given to NewGPIOButtons.
type GPIOButtons struct {
	pins []gpio.PinIO
}

// NewGPIOButtons resolves the pins by name and configures them.
func NewGPIOButtons(names []string) (*GPIOButtons, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("buttons: periph host init: %w", err)
	}

	pins := make([]gpio.PinIO, 0, len(names))
	for _, name := range names {
		p := gpioreg.ByName(name)
		if p == nil {
			return nil, fmt.Errorf("buttons: pin %q not found", name)
		}
		pins = append(pins, p)
	}
	return newGPIOButtons(pins)
}

func newGPIOButtons(pins []gpio.PinIO) (*GPIOButtons, error) {
	for _, p := range pins {
		if err := p.In(gpio.PullUp, gpio.NoEdge); err != nil {
			return nil, fmt.Errorf("buttons: configure %s: %w", p, err)
		}
	}
	return &GPIOButtons{pins: pins}, nil
}

// ReadDigital returns true when the pin reads high (button released).
func (b *GPIOButtons) ReadDigital(ch int) bool {
	return b.pins[ch].Read() == gpio.High
}
