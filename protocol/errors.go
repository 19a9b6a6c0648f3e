package protocol

import "fmt"

// ArgumentError indicates a caller-supplied command argument outside the
// protocol's representable range. Returned by the Build* functions; the
// value is rejected, never wrapped or truncated.
type ArgumentError struct {
	// Command is the command being built
	Command string

	// Field is the offending argument
	Field string

	// Reason describes the constraint that was violated
	Reason string
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("%s: %s %s", e.Command, e.Field, e.Reason)
}

// FrameError failure kinds.
const (
	// FrameTooShort means the response was shorter than the minimum frame
	FrameTooShort = "frame too short"

	// FrameLengthMismatch means the length byte disagrees with the actual
	// data length, or the data size doesn't match the command's contract
	FrameLengthMismatch = "length mismatch"

	// FrameChecksumMismatch means the trailing checksum byte is wrong
	FrameChecksumMismatch = "checksum mismatch"

	// FrameCommandMismatch means the response echoes a different command
	FrameCommandMismatch = "command mismatch"
)

// FrameError indicates a structurally invalid MISO frame: too short, a bad
// length byte, a wrong checksum, or a reply for a different command.
type FrameError struct {
	// Kind is one of the Frame* constants
	Kind string

	// Got and Want describe the mismatch
	Got  int
	Want int
}

func (e *FrameError) Error() string {
	return fmt.Sprintf("invalid response frame: %s (got %d, want %d)", e.Kind, e.Got, e.Want)
}

// DeviceError indicates that the sensor executed the exchange but reported
// a non-zero state byte.
type DeviceError struct {
	// Command is the command that failed
	Command string

	// Code is the state byte from the MISO frame
	Code byte
}

func (e *DeviceError) Error() string {
	return fmt.Sprintf("%s failed: %s (0x%02X)", e.Command, stateName(e.Code), e.Code)
}

// stateName returns a human-readable name for a device state code.
func stateName(code byte) string {
	switch code {
	case StateOK:
		return "ok"
	case StateWrongDataLength:
		return "wrong data length"
	case StateUnknownCommand:
		return "unknown command"
	case StateNoAccessRight:
		return "no access right"
	case StateIllegalParameter:
		return "illegal parameter"
	case StateArgumentOutOfRange:
		return "argument out of range"
	case StateNotAllowedInState:
		return "command not allowed in current state"
	default:
		return fmt.Sprintf("unknown state code 0x%02X", code)
	}
}

// InvalidFlagError indicates a data-ready response byte that is neither
// 0 nor 1.
type InvalidFlagError struct {
	Value byte
}

func (e *InvalidFlagError) Error() string {
	return fmt.Sprintf("invalid data-ready flag: 0x%02X", e.Value)
}

// MalformedValueError indicates a decoded measurement channel holding a NaN
// or infinite value. Reported by Measurement.Check, never raised during
// decoding itself.
type MalformedValueError struct {
	// Channel is the offending measurement channel
	Channel string

	// Value is the decoded value
	Value float32
}

func (e *MalformedValueError) Error() string {
	return fmt.Sprintf("malformed %s value: %v", e.Channel, e.Value)
}
