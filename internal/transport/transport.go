// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package transport delivers encoded frames to the host and passes inbound
// payloads back to a command handler.
//
// Delivery is best effort and never blocks the caller: a frame that cannot be
// handed over immediately is dropped and reported with an error. The next
// frame supersedes it.
package transport

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"
)

var (
	ErrBusy         = errors.New("transport: busy, frame dropped")
	ErrNotConnected = errors.New("transport: no peer connected")
	ErrClosed       = errors.New("transport: closed")
)

// Transport is one outbound link.
type Transport interface {
	Name() string
	Deliver(payload []byte) error
	Close() error
}

// CommandHandler receives raw inbound payloads. It may be called from any
// goroutine and must not block.
type CommandHandler func(payload []byte)

// Fanout delivers every frame to all of its transports.
type Fanout []Transport

func (f Fanout) Name() string {
	return "fanout"
}

// Deliver hands payload to each transport and combines their errors.
func (f Fanout) Deliver(payload []byte) error {
	var err error
	for _, t := range f {
		if terr := t.Deliver(payload); terr != nil {
			err = multierr.Append(err, fmt.Errorf("%s: %w", t.Name(), terr))
		}
	}
	return err
}

// Close closes all transports.
func (f Fanout) Close() error {
	var err error
	for _, t := range f {
		if terr := t.Close(); terr != nil {
			err = multierr.Append(err, fmt.Errorf("%s: %w", t.Name(), terr))
		}
	}
	return err
}
