package protocol

import (
	"encoding/binary"
	"errors"
	"math"
)

// ErrNoMeasurement is returned by ParseMeasurement when the sensor answered
// with an empty payload, meaning no new measurement was available yet.
var ErrNoMeasurement = errors.New("no measurement available")

// ParseResponse validates a de-framed MISO frame against the command that
// produced it and extracts the data payload.
//
// MISO frame structure:
//
//	[ADDR][CMD][STATE][L][DATA...][CHK]
//
// Validation order: minimum length, checksum, command echo, state byte,
// length byte. A non-zero state byte yields a *DeviceError; structural
// problems yield a *FrameError. The returned slice aliases frame and is
// consumed immediately by the typed parsers below.
func ParseResponse(frame []byte, cmd byte) ([]byte, error) {
	if len(frame) < MinResponseSize {
		return nil, &FrameError{Kind: FrameTooShort, Got: len(frame), Want: MinResponseSize}
	}

	if !VerifyChecksum(frame) {
		return nil, &FrameError{
			Kind: FrameChecksumMismatch,
			Got:  int(frame[len(frame)-1]),
			Want: int(Checksum(frame[:len(frame)-1])),
		}
	}

	if frame[1] != cmd {
		return nil, &FrameError{Kind: FrameCommandMismatch, Got: int(frame[1]), Want: int(cmd)}
	}

	if state := frame[2]; state != StateOK {
		return nil, &DeviceError{Command: commandName(cmd), Code: state}
	}

	dataLen := int(frame[3])
	if dataLen != len(frame)-MinResponseSize {
		return nil, &FrameError{Kind: FrameLengthMismatch, Got: len(frame) - MinResponseSize, Want: dataLen}
	}

	return frame[responseHeaderSize : responseHeaderSize+dataLen], nil
}

// ParseMeasurement decodes a Read Measured Values payload in the given
// output format. The format was negotiated at Start Measurement and is
// never guessed from the data length.
//
// Data format, ten channels in wire order (mass PM1.0/PM2.5/PM4.0/PM10,
// number PM0.5/PM1.0/PM2.5/PM4.0/PM10, typical particle size):
//   - FormatFloat: 40 bytes, big-endian IEEE-754 single precision
//   - FormatUint16: 20 bytes, big-endian unsigned 16-bit; mass channels in
//     µg/m³, number channels in #/cm³, typical particle size in nm
//
// An empty payload means the sensor has no new measurement and yields
// ErrNoMeasurement. NaN or infinite channel values are preserved as
// decoded; use Measurement.Check to detect them.
func ParseMeasurement(data []byte, format Format) (*Measurement, error) {
	if len(data) == 0 {
		return nil, ErrNoMeasurement
	}

	var values [10]float32
	switch format {
	case FormatFloat:
		if len(data) != MeasurementSizeFloat {
			return nil, &FrameError{Kind: FrameLengthMismatch, Got: len(data), Want: MeasurementSizeFloat}
		}
		for i := range values {
			bits := binary.BigEndian.Uint32(data[4*i:])
			values[i] = math.Float32frombits(bits)
		}
	case FormatUint16:
		if len(data) != MeasurementSizeUint16 {
			return nil, &FrameError{Kind: FrameLengthMismatch, Got: len(data), Want: MeasurementSizeUint16}
		}
		for i := range values {
			values[i] = float32(binary.BigEndian.Uint16(data[2*i:]))
		}
		// Integer mode reports the typical particle size in nanometres.
		values[9] /= 1000
	default:
		return nil, &ArgumentError{
			Command: "read measured values",
			Field:   "format",
			Reason:  format.String(),
		}
	}

	return &Measurement{
		MassPM1:             values[0],
		MassPM25:            values[1],
		MassPM4:             values[2],
		MassPM10:            values[3],
		NumberPM05:          values[4],
		NumberPM1:           values[5],
		NumberPM25:          values[6],
		NumberPM4:           values[7],
		NumberPM10:          values[8],
		TypicalParticleSize: values[9],
	}, nil
}

// ParseDataReady decodes a Read Data-Ready Flag payload.
//
// Data format (1 byte): 0x00 no new measurement, 0x01 measurement ready.
// Anything else is an *InvalidFlagError.
func ParseDataReady(data []byte) (bool, error) {
	if len(data) != DataReadyResponseSize {
		return false, &FrameError{Kind: FrameLengthMismatch, Got: len(data), Want: DataReadyResponseSize}
	}

	switch data[0] {
	case 0x00:
		return false, nil
	case 0x01:
		return true, nil
	default:
		return false, &InvalidFlagError{Value: data[0]}
	}
}

// ParseVersion decodes a Read Version payload.
//
// Data format (7 bytes):
//
//	[FW_MAJOR][FW_MINOR][reserved][HW_REV][reserved][SHDLC_MAJOR][SHDLC_MINOR]
//
// Reserved bytes are ignored, not rejected.
func ParseVersion(data []byte) (*Version, error) {
	if len(data) != VersionResponseSize {
		return nil, &FrameError{Kind: FrameLengthMismatch, Got: len(data), Want: VersionResponseSize}
	}

	return &Version{
		Firmware: [2]byte{data[0], data[1]},
		Hardware: data[3],
		Protocol: [2]byte{data[5], data[6]},
	}, nil
}

// ParseDeviceStatus decodes a Read Device Status Register payload.
//
// Data format (5 bytes):
//
//	[REGISTER(4, BE)][reserved]
//
// The whole register is preserved, reserved bits included, so firmware
// revisions that define new bits keep working.
func ParseDeviceStatus(data []byte) (*DeviceStatus, error) {
	if len(data) != DeviceStatusResponseSize {
		return nil, &FrameError{Kind: FrameLengthMismatch, Got: len(data), Want: DeviceStatusResponseSize}
	}

	return &DeviceStatus{Register: binary.BigEndian.Uint32(data[:4])}, nil
}

// ParseAutoCleaningInterval decodes a Read Auto Cleaning Interval payload.
//
// Data format (4 bytes): unsigned 32-bit seconds, big-endian. Zero means
// automatic cleaning is disabled.
func ParseAutoCleaningInterval(data []byte) (uint32, error) {
	if len(data) != CleaningIntervalResponseSize {
		return 0, &FrameError{Kind: FrameLengthMismatch, Got: len(data), Want: CleaningIntervalResponseSize}
	}

	return binary.BigEndian.Uint32(data), nil
}

// ParseDeviceInformation decodes a Device Information payload: an ASCII
// string, NUL-terminated by the sensor.
func ParseDeviceInformation(data []byte) string {
	for i, b := range data {
		if b == 0 {
			return string(data[:i])
		}
	}
	return string(data)
}

// commandName returns a human-readable name for a command code.
func commandName(cmd byte) string {
	switch cmd {
	case CmdStartMeasurement:
		return "start measurement"
	case CmdStopMeasurement:
		return "stop measurement"
	case CmdReadDataReady:
		return "read data-ready flag"
	case CmdReadMeasuredValues:
		return "read measured values"
	case CmdSleep:
		return "sleep"
	case CmdWakeUp:
		return "wake-up"
	case CmdStartFanCleaning:
		return "start fan cleaning"
	case CmdAutoCleaningInterval:
		return "auto cleaning interval"
	case CmdDeviceInformation:
		return "device information"
	case CmdReadVersion:
		return "read version"
	case CmdReadDeviceStatus:
		return "read device status"
	case CmdReset:
		return "reset"
	default:
		return "unknown command"
	}
}
