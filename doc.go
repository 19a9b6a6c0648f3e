// Package sps30 drives the Sensirion SPS30 particulate matter sensor over
// its UART/SHDLC interface.
//
// # Overview
//
// The driver is split by concern:
//   - protocol: pure command encoding and response decoding
//   - shdlc: byte-stuffing and frame markers
//   - sps30 (this package): blocking request/response sequencing over a
//     caller-supplied transport
//   - uart: go.bug.st/serial binding with the sensor's fixed line settings
//
// # Basic Usage
//
//	port, err := uart.Open("/dev/ttyUSB0")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer port.Close()
//
//	dev := sps30.New(port)
//	if err := dev.StartMeasurement(); err != nil {
//	    log.Fatal(err)
//	}
//	defer dev.StopMeasurement()
//
//	time.Sleep(time.Second)
//	m, err := dev.ReadMeasurement()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("PM2.5: %.2f µg/m³\n", m.MassPM25)
//
// # Polling
//
// The sensor produces one measurement per second. Poll the data-ready flag
// to avoid reading stale or empty results:
//
//	ready, err := dev.ReadDataReady()
//	if err == nil && ready {
//	    m, err := dev.ReadMeasurement()
//	    // ...
//	}
//
// # Error Handling
//
// Errors are typed per failure class: *TransportError wraps serial
// failures, *shdlc.DecodeError covers framing damage,
// *protocol.FrameError and *protocol.DeviceError cover invalid and
// rejected responses, ErrTimeout and ErrFrameOverrun cover a silent or
// out-of-sync line. ErrNoMeasurement is a normal outcome, not a fault.
// Nothing is retried internally: one command yields exactly one response
// or one error, and every error leaves the device usable.
//
// # Hardware Independence
//
// The Device only needs an io.ReadWriter. The uart package opens a real
// serial port; tests and simulators can substitute pipes or in-memory
// transports.
//
// Concurrent commands are not supported: the serial line carries one
// exchange at a time, and callers must serialize access themselves.
package sps30
