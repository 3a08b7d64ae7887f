package buttons

import (
	"strings"

	"github.com/relabs-tech/gamepad/internal/sensors"
)

// Button is a digital input; its value is the bit position in a Mask.
type Button uint8

const (
	Up Button = iota
	Down
	Left
	Right
	A
	B
	X
	Y

	Count = 8
)

var names = [Count]string{"UP", "DOWN", "LEFT", "RIGHT", "A", "B", "X", "Y"}

func (b Button) String() string {
	if b < Count {
		return names[b]
	}
	return "?"
}

// Mask holds one bit per button, 1 = pressed.
type Mask uint8

// Pressed reports whether b is set in m.
func (m Mask) Pressed(b Button) bool {
	return m&(1<<b) != 0
}

func (m Mask) String() string {
	var pressed []string
	for b := Button(0); b < Count; b++ {
		if m.Pressed(b) {
			pressed = append(pressed, b.String())
		}
	}
	if len(pressed) == 0 {
		return "-"
	}
	return strings.Join(pressed, "+")
}

// Pack builds a mask from logical pressed states indexed by Button.
func Pack(pressed [Count]bool) Mask {
	var m Mask
	for i, p := range pressed {
		if p {
			m |= 1 << i
		}
	}
	return m
}

// Sample reads all buttons. Inputs are wired active-low with pull-ups, so a
// low level means pressed.
func Sample(r sensors.DigitalReader) Mask {
	var pressed [Count]bool
	for i := range pressed {
		pressed[i] = !r.ReadDigital(i)
	}
	return Pack(pressed)
}
