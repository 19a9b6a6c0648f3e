// Package protocol implements the Sensirion SHDLC command and response
// codec for the SPS30 particulate matter sensor.
//
// This package provides functions to build command frames and parse
// response frames according to the SPS30 datasheet UART interface
// description.
//
// # Protocol Overview
//
// Exchanges are strict request/response over UART. The de-framed (before
// byte-stuffing) frames look like:
//
//	Command (MOSI):  [ADDR][CMD][L][DATA...][CHK]
//	Response (MISO): [ADDR][CMD][STATE][L][DATA...][CHK]
//
// Where:
//   - ADDR = SHDLC slave address (always 0x00 for the SPS30)
//   - L = data length in bytes
//   - STATE = execution state, 0x00 on success
//   - CHK = sum of all preceding bytes modulo 256, inverted
//
// Byte-stuffing and the 0x7E frame markers are owned by the shdlc package;
// this package deals exclusively with de-framed payloads.
//
// # Command Builders
//
// Use the Build* functions to create command frames:
//
//	frame, err := protocol.BuildStartMeasurementCmd(protocol.DefaultAddress, protocol.FormatFloat)
//	frame := protocol.BuildReadMeasuredValuesCmd(protocol.DefaultAddress)
//	// ... etc
//
// Builders for commands without caller-supplied arguments are total and
// return no error.
//
// # Response Parsers
//
// Use ParseResponse to validate a de-framed MISO frame and extract its data
// payload:
//
//	data, err := protocol.ParseResponse(frame, protocol.CmdReadMeasuredValues)
//
// Then use the typed Parse* functions for command-specific data:
//
//	m, err := protocol.ParseMeasurement(data, protocol.FormatFloat)
//	v, err := protocol.ParseVersion(data)
//	// ... etc
//
// Parsing is stateless and idempotent: the result depends only on the
// command, the bytes and (for measurements) the negotiated output format.
//
// # Error Handling
//
// Failures are typed per class: *ArgumentError for caller arguments outside
// the representable range, *FrameError for structurally invalid responses,
// *DeviceError for a non-zero state byte, *InvalidFlagError for a bad
// data-ready byte. ErrNoMeasurement signals the normal "nothing to read
// yet" outcome.
package protocol
