package device

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.bug.st/serial"
)

// Serial is a detector attached to a serial port.
type Serial struct {
	port   serial.Port
	path   string
	buf    [1]byte
	mu     sync.Mutex
	closed bool
}

// OpenSerial opens the serial device at path with the given baud rate, bounding every read by
// timeout.
func OpenSerial(path string, baud int, timeout time.Duration) (*Serial, error) {
	port, err := serial.Open(path, &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "could not open serial device %s", path)
	}
	if err := port.SetReadTimeout(timeout); err != nil {
		port.Close()
		return nil, errors.Wrapf(err, "could not set read timeout on %s", path)
	}
	return &Serial{port: port, path: path}, nil
}

// Poll waits at most the configured read timeout for a byte.
func (s *Serial) Poll(ctx context.Context) (byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return 0, false, err
	}
	if s.isClosed() {
		return 0, false, ErrClosed
	}
	n, err := s.port.Read(s.buf[:])
	if err != nil {
		if s.isClosed() {
			return 0, false, ErrClosed
		}
		return 0, false, errors.Wrapf(err, "read from %s", s.path)
	}
	if n == 0 {
		return 0, false, nil
	}
	return s.buf[0], true, nil
}

// Close releases the port. It is safe to call more than once.
func (s *Serial) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.port.Close()
}

func (s *Serial) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// ListPorts returns the serial ports present on the system.
func ListPorts() ([]string, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, errors.Wrap(err, "could not list serial ports")
	}
	return ports, nil
}
