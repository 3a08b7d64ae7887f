// Package command recognizes host commands in inbound transport payloads and
// hands them to the sample loop.
package command

import (
	"bytes"
	"sync/atomic"
)

// Command is a host request.
type Command int

const (
	None Command = iota
	Recalibrate
)

func (c Command) String() string {
	switch c {
	case Recalibrate:
		return "recalibrate"
	default:
		return "none"
	}
}

// recalibrateMarker is matched anywhere in the payload, e.g. {"cmd":"cal"}.
var recalibrateMarker = []byte(`"cal"`)

// Parse inspects a raw inbound payload. Anything unrecognized is None.
func Parse(payload []byte) Command {
	if bytes.Contains(payload, recalibrateMarker) {
		return Recalibrate
	}
	return None
}

// Slot holds the latest pending command. Producers may post from any
// goroutine; the sample loop takes it once per tick. Posting twice before a
// take collapses into one request.
type Slot struct {
	recalibrate atomic.Bool
}

// Post records cmd as pending. None is ignored.
func (s *Slot) Post(cmd Command) {
	if cmd == Recalibrate {
		s.recalibrate.Store(true)
	}
}

// Handle parses payload and posts the result. It has the shape of a
// transport inbound callback.
func (s *Slot) Handle(payload []byte) {
	s.Post(Parse(payload))
}

// Take returns the pending command and clears the slot.
func (s *Slot) Take() Command {
	if s.recalibrate.Swap(false) {
		return Recalibrate
	}
	return None
}
