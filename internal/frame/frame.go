// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package frame defines the per-tick controller snapshot and its wire format.
//
// The wire format is a flat JSON object with the keys lx, ly, rx, ry and k in
// that order, for example:
//
//	{"lx":100,"ly":-200,"rx":0,"ry":32767,"k":5}
//
// Hosts parse it by key name. All five keys are always present.
package frame

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/relabs-tech/gamepad/internal/buttons"
)

// MaxSize is the largest encoded frame a transport has to accept.
const MaxSize = 120

var (
	ErrTooLarge     = errors.New("frame: encoded frame exceeds size budget")
	ErrMissingField = errors.New("frame: missing field")
	ErrOutOfRange   = errors.New("frame: field out of range")
)

// Frame is one snapshot of the pad.
type Frame struct {
	LX int16        `json:"lx"`
	LY int16        `json:"ly"`
	RX int16        `json:"rx"`
	RY int16        `json:"ry"`
	K  buttons.Mask `json:"k"`
}

// Encode returns the wire representation of f.
func Encode(f Frame) ([]byte, error) {
	b, err := json.Marshal(f)
	if err != nil {
		return nil, fmt.Errorf("frame: encode: %w", err)
	}
	if len(b) > MaxSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrTooLarge, len(b))
	}
	return b, nil
}

// wireFrame distinguishes missing keys from zero values.
type wireFrame struct {
	LX *int64 `json:"lx"`
	LY *int64 `json:"ly"`
	RX *int64 `json:"rx"`
	RY *int64 `json:"ry"`
	K  *int64 `json:"k"`
}

// Decode parses a wire frame. Unknown keys are ignored.
func Decode(b []byte) (Frame, error) {
	var w wireFrame
	if err := json.Unmarshal(b, &w); err != nil {
		return Frame{}, fmt.Errorf("frame: decode: %w", err)
	}

	var f Frame
	for _, field := range []struct {
		name string
		v    *int64
		dst  *int16
	}{
		{"lx", w.LX, &f.LX},
		{"ly", w.LY, &f.LY},
		{"rx", w.RX, &f.RX},
		{"ry", w.RY, &f.RY},
	} {
		if field.v == nil {
			return Frame{}, fmt.Errorf("%w: %s", ErrMissingField, field.name)
		}
		if *field.v < math.MinInt16 || *field.v > math.MaxInt16 {
			return Frame{}, fmt.Errorf("%w: %s=%d", ErrOutOfRange, field.name, *field.v)
		}
		*field.dst = int16(*field.v)
	}

	if w.K == nil {
		return Frame{}, fmt.Errorf("%w: k", ErrMissingField)
	}
	if *w.K < 0 || *w.K > math.MaxUint8 {
		return Frame{}, fmt.Errorf("%w: k=%d", ErrOutOfRange, *w.K)
	}
	f.K = buttons.Mask(*w.K)
	return f, nil
}
