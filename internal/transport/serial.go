package transport

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sync"

	serial "github.com/jacobsa/go-serial/serial"
	"go.uber.org/zap"
)

// SerialOptions configures the UART.
type SerialOptions struct {
	Port     string
	BaudRate int
}

const (
	// serialQueue bounds frames waiting for the UART.
	serialQueue = 4

	// serialReadTimeout is how long a read waits for input, in ms.
	serialReadTimeout = 100

	// serialMaxLine bounds an unterminated inbound line.
	serialMaxLine = 1024
)

// Serial writes one frame per line to a UART, typically the host side of a
// BLE UART bridge, and treats every received line as a command payload.
//
// Close does not wait for the reader: a read blocked on a port without a
// read timeout only returns when input arrives, and anything read after
// Close is discarded.
type Serial struct {
	log       *zap.Logger
	port      io.ReadWriteCloser
	out       chan []byte
	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// OpenSerial opens the port and starts the reader and writer goroutines.
func OpenSerial(opts SerialOptions, onCommand CommandHandler, log *zap.Logger) (*Serial, error) {
	port, err := serial.Open(serial.OpenOptions{
		PortName:        opts.Port,
		BaudRate:        uint(opts.BaudRate),
		DataBits:        8,
		StopBits:        1,
		ParityMode:      serial.PARITY_NONE,

		// reads return after the timeout even when the line is idle
		InterCharacterTimeout: serialReadTimeout,
		MinimumReadSize:       0,
	})
	if err != nil {
		return nil, fmt.Errorf("serial open %s: %w", opts.Port, err)
	}
	log = log.With(zap.String("port", opts.Port))
	log.Info("serial port opened", zap.Int("baud", opts.BaudRate))

	return newSerial(port, onCommand, log), nil
}

func newSerial(port io.ReadWriteCloser, onCommand CommandHandler, log *zap.Logger) *Serial {
	s := &Serial{
		log:  log,
		port: port,
		out:  make(chan []byte, serialQueue),
		done: make(chan struct{}),
	}
	s.wg.Add(1)
	go s.writeLoop()
	go s.readLoop(onCommand)
	return s
}

func (s *Serial) writeLoop() {
	defer s.wg.Done()
	for {
		select {
		case <-s.done:
			return
		case line := <-s.out:
			if _, err := s.port.Write(line); err != nil {
				if s.closed() {
					return
				}
				s.log.Debug("serial write failed", zap.Error(err))
			}
		}
	}
}

func (s *Serial) closed() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

func (s *Serial) readLoop(onCommand CommandHandler) {
	chunk := make([]byte, 128)
	var pending []byte

	for {
		n, err := s.port.Read(chunk)
		if s.closed() {
			return
		}

		pending = append(pending, chunk[:n]...)
		for {
			i := bytes.IndexByte(pending, '\n')
			if i < 0 {
				break
			}
			line := make([]byte, i)
			copy(line, pending[:i])
			pending = pending[i+1:]
			onCommand(bytes.TrimSuffix(line, []byte{'\r'}))
		}
		if len(pending) > serialMaxLine {
			s.log.Debug("serial line too long, discarded", zap.Int("bytes", len(pending)))
			pending = pending[:0]
		}

		// io.EOF is an idle read timeout
		if err != nil && !errors.Is(err, io.EOF) {
			s.log.Warn("serial reader stopped", zap.Error(err))
			return
		}
	}
}

func (s *Serial) Name() string {
	return "serial"
}

// Deliver queues payload followed by a newline.
func (s *Serial) Deliver(payload []byte) error {
	if s.closed() {
		return ErrClosed
	}

	line := make([]byte, len(payload)+1)
	copy(line, payload)
	line[len(payload)] = '\n'

	select {
	case s.out <- line:
		return nil
	default:
		return ErrBusy
	}
}

// Close stops the writer and closes the port.
func (s *Serial) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.done)
		err = s.port.Close()
		s.wg.Wait()
	})
	return err
}
