// Package uart opens a serial port with the SPS30's fixed line settings.
//
// The SPS30 UART interface always runs at 115200 baud, 8 data bits, no
// parity, one stop bit. This package is pure transport glue: it knows
// nothing about SHDLC frames or sensor commands, it only hands the driver
// an io.ReadWriter.
package uart

import (
	"fmt"
	"time"

	"go.bug.st/serial"
)

// Line settings fixed by the SPS30 datasheet.
const (
	// BaudRate is the fixed UART baud rate
	BaudRate = 115200

	// DataBits is the fixed number of data bits per character
	DataBits = 8
)

// DefaultReadTimeout is the per-Read timeout applied to the port. A finite
// timeout makes Read return (0, nil) on an idle line, which the driver's
// read loop turns into its own deadline handling.
const DefaultReadTimeout = 100 * time.Millisecond

// Option is a functional option for configuring the port.
type Option func(*config)

type config struct {
	readTimeout time.Duration
}

// WithReadTimeout sets the per-Read timeout on the port. Zero blocks
// indefinitely.
func WithReadTimeout(timeout time.Duration) Option {
	return func(c *config) {
		if timeout >= 0 {
			c.readTimeout = timeout
		}
	}
}

// Mode returns the serial mode for the SPS30.
func Mode() *serial.Mode {
	return &serial.Mode{
		BaudRate: BaudRate,
		DataBits: DataBits,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
}

// Open opens the named serial port with the sensor's line settings and
// returns it ready for use as the driver transport.
//
// Example:
//
//	port, err := uart.Open("/dev/ttyUSB0")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer port.Close()
//	dev := sps30.New(port)
func Open(portName string, opts ...Option) (serial.Port, error) {
	cfg := config{readTimeout: DefaultReadTimeout}
	for _, opt := range opts {
		opt(&cfg)
	}

	port, err := serial.Open(portName, Mode())
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", portName, err)
	}

	if err := port.SetReadTimeout(cfg.readTimeout); err != nil {
		port.Close()
		return nil, fmt.Errorf("set read timeout on %s: %w", portName, err)
	}

	return port, nil
}
