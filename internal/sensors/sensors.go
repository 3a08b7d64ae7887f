package sensors

// AnalogReader returns the raw reading of an analog channel in converter counts.
// Reads never fail from the caller's point of view; adapters decide what to
// return when the hardware does.
type AnalogReader interface {
	ReadAnalog(ch int) int
}

// DigitalReader returns the electrical level of a digital channel, true = high.
type DigitalReader interface {
	ReadDigital(ch int) bool
}

// Pad is a full controller input: four axes and eight buttons.
type Pad interface {
	AnalogReader
	DigitalReader
}

// pad glues two independent readers into a Pad.
type pad struct {
	AnalogReader
	DigitalReader
}

// Combine returns a Pad reading axes from a and buttons from d.
func Combine(a AnalogReader, d DigitalReader) Pad {
	return pad{AnalogReader: a, DigitalReader: d}
}
