package sps30

import (
	"errors"
	"fmt"

	"github.com/iohe/sps30/protocol"
	"github.com/iohe/sps30/shdlc"
)

// ErrTimeout indicates that the transport produced no data for the whole
// configured read timeout.
var ErrTimeout = errors.New("read timeout")

// ErrFrameOverrun indicates that the transport produced more than
// shdlc.MaxFrameLength bytes without a complete frame. The line is out of
// sync; the caller may retry the exchange.
var ErrFrameOverrun = fmt.Errorf("no complete frame within %d bytes", shdlc.MaxFrameLength)

// ErrNoMeasurement is returned by ReadMeasurement when the sensor has no
// new measurement available yet.
var ErrNoMeasurement = protocol.ErrNoMeasurement

// TransportError wraps an error from the underlying serial transport.
type TransportError struct {
	// Op is "read" or "write"
	Op string

	// Err is the underlying transport error
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("serial %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
