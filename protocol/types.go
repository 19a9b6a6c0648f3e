package protocol

import (
	"fmt"
	"math"
)

// Format selects the measurement output encoding negotiated with the Start
// Measurement command. The sensor keeps answering in the negotiated format
// until measurement is stopped; the decoder never guesses it from the data.
type Format byte

const (
	// FormatFloat requests big-endian IEEE-754 single-precision values
	FormatFloat Format = 0x03

	// FormatUint16 requests big-endian unsigned 16-bit integer values
	FormatUint16 Format = 0x05
)

// Valid reports whether f is one of the two formats the sensor understands.
func (f Format) Valid() bool {
	return f == FormatFloat || f == FormatUint16
}

func (f Format) String() string {
	switch f {
	case FormatFloat:
		return "float"
	case FormatUint16:
		return "uint16"
	default:
		return fmt.Sprintf("unknown format 0x%02X", byte(f))
	}
}

// InfoKind selects which device information string to read.
type InfoKind byte

const (
	// InfoProductName is the product name string
	InfoProductName InfoKind = 0x01

	// InfoArticleCode is the article code string
	InfoArticleCode InfoKind = 0x02

	// InfoSerialNumber is the serial number string
	InfoSerialNumber InfoKind = 0x03
)

// Valid reports whether k names a readable information string.
func (k InfoKind) Valid() bool {
	return k == InfoProductName || k == InfoArticleCode || k == InfoSerialNumber
}

func (k InfoKind) String() string {
	switch k {
	case InfoProductName:
		return "product name"
	case InfoArticleCode:
		return "article code"
	case InfoSerialNumber:
		return "serial number"
	default:
		return fmt.Sprintf("unknown info kind 0x%02X", byte(k))
	}
}

// Measurement is one decoded sensor reading: four mass concentration
// channels, five number concentration channels and the typical particle
// size.
type Measurement struct {
	// MassPM1 is the PM1.0 mass concentration in µg/m³
	MassPM1 float32

	// MassPM25 is the PM2.5 mass concentration in µg/m³
	MassPM25 float32

	// MassPM4 is the PM4.0 mass concentration in µg/m³
	MassPM4 float32

	// MassPM10 is the PM10 mass concentration in µg/m³
	MassPM10 float32

	// NumberPM05 is the PM0.5 number concentration in #/cm³
	NumberPM05 float32

	// NumberPM1 is the PM1.0 number concentration in #/cm³
	NumberPM1 float32

	// NumberPM25 is the PM2.5 number concentration in #/cm³
	NumberPM25 float32

	// NumberPM4 is the PM4.0 number concentration in #/cm³
	NumberPM4 float32

	// NumberPM10 is the PM10 number concentration in #/cm³
	NumberPM10 float32

	// TypicalParticleSize is the typical particle size in µm
	TypicalParticleSize float32
}

// channels returns the ten channel values in wire order along with their
// names.
func (m *Measurement) channels() [10]struct {
	name  string
	value float32
} {
	return [10]struct {
		name  string
		value float32
	}{
		{"mass PM1.0", m.MassPM1},
		{"mass PM2.5", m.MassPM25},
		{"mass PM4.0", m.MassPM4},
		{"mass PM10", m.MassPM10},
		{"number PM0.5", m.NumberPM05},
		{"number PM1.0", m.NumberPM1},
		{"number PM2.5", m.NumberPM25},
		{"number PM4.0", m.NumberPM4},
		{"number PM10", m.NumberPM10},
		{"typical particle size", m.TypicalParticleSize},
	}
}

// Check reports the first channel carrying a NaN or infinite value.
// Decoding preserves such values rather than clamping them; a non-nil
// result here usually indicates a sensor fault and the caller decides how
// to treat it.
func (m *Measurement) Check() error {
	for _, ch := range m.channels() {
		f := float64(ch.value)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return &MalformedValueError{Channel: ch.name, Value: ch.value}
		}
	}
	return nil
}

// Version holds the firmware, hardware and SHDLC protocol versions reported
// by the Read Version command.
type Version struct {
	// Firmware is the firmware version [major, minor]
	Firmware [2]byte

	// Hardware is the hardware revision
	Hardware byte

	// Protocol is the SHDLC protocol version [major, minor]
	Protocol [2]byte
}

func (v *Version) String() string {
	return fmt.Sprintf("firmware %d.%d, hardware %d, SHDLC %d.%d",
		v.Firmware[0], v.Firmware[1], v.Hardware, v.Protocol[0], v.Protocol[1])
}

// Device status register bits per the SPS30 datasheet.
const (
	// StatusBitSpeed is set when the fan speed is out of range
	StatusBitSpeed = 1 << 21

	// StatusBitLaser is set when the laser current is out of range
	StatusBitLaser = 1 << 5

	// StatusBitFan is set when the fan reports 0 RPM
	StatusBitFan = 1 << 4
)

// DeviceStatus is the decoded device status register. Reserved bits are
// kept in Register so newer firmware revisions are tolerated rather than
// rejected.
type DeviceStatus struct {
	// Register is the raw 32-bit status register
	Register uint32
}

// FanSpeedWarning reports whether the fan speed is out of range.
func (s *DeviceStatus) FanSpeedWarning() bool {
	return s.Register&StatusBitSpeed != 0
}

// LaserFailure reports whether the laser current is out of range.
func (s *DeviceStatus) LaserFailure() bool {
	return s.Register&StatusBitLaser != 0
}

// FanFailure reports whether the fan is not running.
func (s *DeviceStatus) FanFailure() bool {
	return s.Register&StatusBitFan != 0
}

// OK reports whether no known fault bit is set. Reserved bits do not count
// as faults.
func (s *DeviceStatus) OK() bool {
	return !s.FanSpeedWarning() && !s.LaserFailure() && !s.FanFailure()
}
