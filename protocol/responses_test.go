package protocol

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"testing"
)

// buildTestResponse assembles a de-framed MISO frame for testing.
func buildTestResponse(cmd, state byte, data []byte) []byte {
	frame := make([]byte, 0, MinResponseSize+len(data))
	frame = append(frame, DefaultAddress, cmd, state, byte(len(data)))
	frame = append(frame, data...)
	frame = append(frame, Checksum(frame))
	return frame
}

func TestParseResponse(t *testing.T) {
	tests := []struct {
		name        string
		frame       []byte
		cmd         byte
		wantData    []byte
		wantErr     bool
		wantKind    string
		wantDevCode byte
	}{
		{
			name:     "success with no data",
			frame:    buildTestResponse(CmdStartMeasurement, StateOK, nil),
			cmd:      CmdStartMeasurement,
			wantData: []byte{},
		},
		{
			name:     "success with data",
			frame:    buildTestResponse(CmdReadDataReady, StateOK, []byte{0x01}),
			cmd:      CmdReadDataReady,
			wantData: []byte{0x01},
		},
		{
			name:     "literal stop measurement ack",
			frame:    []byte{0x00, 0x01, 0x00, 0x00, 0xFE},
			cmd:      CmdStopMeasurement,
			wantData: []byte{},
		},
		{
			name:     "frame too short",
			frame:    []byte{0x00, 0x03, 0x00, 0x00},
			cmd:      CmdReadMeasuredValues,
			wantErr:  true,
			wantKind: FrameTooShort,
		},
		{
			name:     "one byte short of contract",
			frame:    buildTestResponse(CmdReadMeasuredValues, StateOK, nil)[:4],
			cmd:      CmdReadMeasuredValues,
			wantErr:  true,
			wantKind: FrameTooShort,
		},
		{
			name: "checksum mismatch",
			frame: func() []byte {
				f := buildTestResponse(CmdReadVersion, StateOK, []byte{2, 2, 0, 7, 0, 2, 0})
				f[len(f)-1] ^= 0xFF
				return f
			}(),
			cmd:      CmdReadVersion,
			wantErr:  true,
			wantKind: FrameChecksumMismatch,
		},
		{
			name:     "response for another command",
			frame:    buildTestResponse(CmdStopMeasurement, StateOK, nil),
			cmd:      CmdStartMeasurement,
			wantErr:  true,
			wantKind: FrameCommandMismatch,
		},
		{
			name: "length byte disagrees with data",
			frame: func() []byte {
				// L claims one byte, none present; checksum recomputed so
				// only the length check can trip.
				f := []byte{0x00, 0x03, 0x00, 0x01}
				return append(f, Checksum(f))
			}(),
			cmd:      CmdReadMeasuredValues,
			wantErr:  true,
			wantKind: FrameLengthMismatch,
		},
		{
			name:        "device reports illegal parameter",
			frame:       buildTestResponse(CmdStartMeasurement, StateIllegalParameter, nil),
			cmd:         CmdStartMeasurement,
			wantErr:     true,
			wantDevCode: StateIllegalParameter,
		},
		{
			name:        "device reports command not allowed",
			frame:       buildTestResponse(CmdReadMeasuredValues, StateNotAllowedInState, nil),
			cmd:         CmdReadMeasuredValues,
			wantErr:     true,
			wantDevCode: StateNotAllowedInState,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := ParseResponse(tt.frame, tt.cmd)

			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if tt.wantKind != "" {
					var ferr *FrameError
					if !errors.As(err, &ferr) {
						t.Fatalf("error = %T, want *FrameError", err)
					}
					if ferr.Kind != tt.wantKind {
						t.Errorf("Kind = %q, want %q", ferr.Kind, tt.wantKind)
					}
				}
				if tt.wantDevCode != 0 {
					var derr *DeviceError
					if !errors.As(err, &derr) {
						t.Fatalf("error = %T, want *DeviceError", err)
					}
					if derr.Code != tt.wantDevCode {
						t.Errorf("Code = 0x%02X, want 0x%02X", derr.Code, tt.wantDevCode)
					}
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !bytes.Equal(data, tt.wantData) {
				t.Errorf("data = % X, want % X", data, tt.wantData)
			}
		})
	}
}

func TestParseResponseAckPerCommand(t *testing.T) {
	// Every command kind acknowledges with a well-formed empty-payload
	// frame; the decoder must accept each one against its own command.
	cmds := []byte{
		CmdStartMeasurement, CmdStopMeasurement, CmdReadDataReady,
		CmdReadMeasuredValues, CmdSleep, CmdWakeUp, CmdStartFanCleaning,
		CmdAutoCleaningInterval, CmdDeviceInformation, CmdReadVersion,
		CmdReadDeviceStatus, CmdReset,
	}

	for _, cmd := range cmds {
		data, err := ParseResponse(buildTestResponse(cmd, StateOK, nil), cmd)
		if err != nil {
			t.Errorf("cmd 0x%02X: unexpected error: %v", cmd, err)
		}
		if len(data) != 0 {
			t.Errorf("cmd 0x%02X: data = % X, want empty", cmd, data)
		}
	}
}

func TestParseMeasurementFloat(t *testing.T) {
	t.Run("all zero channels", func(t *testing.T) {
		m, err := ParseMeasurement(make([]byte, MeasurementSizeFloat), FormatFloat)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if *m != (Measurement{}) {
			t.Errorf("measurement = %+v, want all zero fields", m)
		}
		if err := m.Check(); err != nil {
			t.Errorf("Check() = %v, want nil", err)
		}
	})

	t.Run("known channel values", func(t *testing.T) {
		values := [10]float32{1.5, 2.25, 3, 4.75, 10, 20, 30, 40, 50, 0.8}
		data := make([]byte, MeasurementSizeFloat)
		for i, v := range values {
			binary.BigEndian.PutUint32(data[4*i:], math.Float32bits(v))
		}

		m, err := ParseMeasurement(data, FormatFloat)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := Measurement{
			MassPM1: 1.5, MassPM25: 2.25, MassPM4: 3, MassPM10: 4.75,
			NumberPM05: 10, NumberPM1: 20, NumberPM25: 30, NumberPM4: 40, NumberPM10: 50,
			TypicalParticleSize: 0.8,
		}
		if *m != want {
			t.Errorf("measurement = %+v, want %+v", m, want)
		}
	})

	t.Run("nan preserved and reported by Check", func(t *testing.T) {
		data := make([]byte, MeasurementSizeFloat)
		binary.BigEndian.PutUint32(data[4:], math.Float32bits(float32(math.NaN())))

		m, err := ParseMeasurement(data, FormatFloat)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !math.IsNaN(float64(m.MassPM25)) {
			t.Errorf("MassPM25 = %v, want NaN preserved", m.MassPM25)
		}

		var merr *MalformedValueError
		if err := m.Check(); !errors.As(err, &merr) {
			t.Fatalf("Check() = %v, want *MalformedValueError", err)
		} else if merr.Channel != "mass PM2.5" {
			t.Errorf("Channel = %q, want %q", merr.Channel, "mass PM2.5")
		}
	})

	t.Run("one byte short", func(t *testing.T) {
		_, err := ParseMeasurement(make([]byte, MeasurementSizeFloat-1), FormatFloat)
		var ferr *FrameError
		if !errors.As(err, &ferr) || ferr.Kind != FrameLengthMismatch {
			t.Fatalf("error = %v, want *FrameError with %q", err, FrameLengthMismatch)
		}
	})

	t.Run("uint16 sized payload rejected in float mode", func(t *testing.T) {
		// The negotiated format wins; a 20-byte payload is not silently
		// reinterpreted.
		_, err := ParseMeasurement(make([]byte, MeasurementSizeUint16), FormatFloat)
		var ferr *FrameError
		if !errors.As(err, &ferr) {
			t.Fatalf("error = %v, want *FrameError", err)
		}
	})

	t.Run("empty payload means no measurement", func(t *testing.T) {
		_, err := ParseMeasurement(nil, FormatFloat)
		if !errors.Is(err, ErrNoMeasurement) {
			t.Fatalf("error = %v, want ErrNoMeasurement", err)
		}
	})
}

func TestParseMeasurementUint16(t *testing.T) {
	t.Run("scaled channels", func(t *testing.T) {
		// Typical particle size arrives in nanometres in integer mode.
		raw := [10]uint16{12, 15, 16, 17, 100, 120, 130, 135, 140, 800}
		data := make([]byte, MeasurementSizeUint16)
		for i, v := range raw {
			binary.BigEndian.PutUint16(data[2*i:], v)
		}

		m, err := ParseMeasurement(data, FormatUint16)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := Measurement{
			MassPM1: 12, MassPM25: 15, MassPM4: 16, MassPM10: 17,
			NumberPM05: 100, NumberPM1: 120, NumberPM25: 130, NumberPM4: 135, NumberPM10: 140,
			TypicalParticleSize: 0.8,
		}
		if *m != want {
			t.Errorf("measurement = %+v, want %+v", m, want)
		}
	})

	t.Run("float sized payload rejected in uint16 mode", func(t *testing.T) {
		_, err := ParseMeasurement(make([]byte, MeasurementSizeFloat), FormatUint16)
		var ferr *FrameError
		if !errors.As(err, &ferr) {
			t.Fatalf("error = %v, want *FrameError", err)
		}
	})
}

func TestParseMeasurementIdempotent(t *testing.T) {
	data := make([]byte, MeasurementSizeFloat)
	binary.BigEndian.PutUint32(data[0:], math.Float32bits(7.25))

	first, err := ParseMeasurement(data, FormatFloat)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := ParseMeasurement(data, FormatFloat)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *first != *second {
		t.Errorf("repeated decode differs: %+v vs %+v", first, second)
	}
}

func TestParseDataReady(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		want     bool
		wantErr  bool
		wantFlag byte
	}{
		{name: "not ready", data: []byte{0x00}, want: false},
		{name: "ready", data: []byte{0x01}, want: true},
		{name: "invalid flag 0x02", data: []byte{0x02}, wantErr: true, wantFlag: 0x02},
		{name: "invalid flag 0xFF", data: []byte{0xFF}, wantErr: true, wantFlag: 0xFF},
		{name: "no data", data: nil, wantErr: true},
		{name: "too much data", data: []byte{0x01, 0x00}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDataReady(tt.data)

			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if tt.wantFlag != 0 {
					var ierr *InvalidFlagError
					if !errors.As(err, &ierr) {
						t.Fatalf("error = %T, want *InvalidFlagError", err)
					}
					if ierr.Value != tt.wantFlag {
						t.Errorf("Value = 0x%02X, want 0x%02X", ierr.Value, tt.wantFlag)
					}
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ready = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseVersion(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		v, err := ParseVersion([]byte{2, 2, 0, 7, 0, 2, 0})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if v.Firmware != [2]byte{2, 2} {
			t.Errorf("Firmware = %v, want [2 2]", v.Firmware)
		}
		if v.Hardware != 7 {
			t.Errorf("Hardware = %d, want 7", v.Hardware)
		}
		if v.Protocol != [2]byte{2, 0} {
			t.Errorf("Protocol = %v, want [2 0]", v.Protocol)
		}
	})

	t.Run("reserved bytes tolerated", func(t *testing.T) {
		// Reserved slots carry junk on some firmware revisions.
		if _, err := ParseVersion([]byte{2, 3, 0xAA, 7, 0xBB, 2, 0}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("short", func(t *testing.T) {
		if _, err := ParseVersion([]byte{2, 2, 0}); err == nil {
			t.Fatal("expected error, got nil")
		}
	})
}

func TestParseDeviceStatus(t *testing.T) {
	tests := []struct {
		name      string
		register  uint32
		wantSpeed bool
		wantLaser bool
		wantFan   bool
	}{
		{name: "all clear", register: 0},
		{name: "fan speed warning", register: StatusBitSpeed, wantSpeed: true},
		{name: "laser failure", register: StatusBitLaser, wantLaser: true},
		{name: "fan failure", register: StatusBitFan, wantFan: true},
		{
			name:     "reserved bits preserved opaquely",
			register: 0x80000001,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := make([]byte, DeviceStatusResponseSize)
			binary.BigEndian.PutUint32(data, tt.register)

			s, err := ParseDeviceStatus(data)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if s.Register != tt.register {
				t.Errorf("Register = 0x%08X, want 0x%08X", s.Register, tt.register)
			}
			if s.FanSpeedWarning() != tt.wantSpeed {
				t.Errorf("FanSpeedWarning() = %v, want %v", s.FanSpeedWarning(), tt.wantSpeed)
			}
			if s.LaserFailure() != tt.wantLaser {
				t.Errorf("LaserFailure() = %v, want %v", s.LaserFailure(), tt.wantLaser)
			}
			if s.FanFailure() != tt.wantFan {
				t.Errorf("FanFailure() = %v, want %v", s.FanFailure(), tt.wantFan)
			}
			wantOK := !tt.wantSpeed && !tt.wantLaser && !tt.wantFan
			if s.OK() != wantOK {
				t.Errorf("OK() = %v, want %v", s.OK(), wantOK)
			}
		})
	}

	t.Run("short", func(t *testing.T) {
		if _, err := ParseDeviceStatus([]byte{0, 0, 0, 0}); err == nil {
			t.Fatal("expected error, got nil")
		}
	})
}

func TestParseAutoCleaningInterval(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		got, err := ParseAutoCleaningInterval([]byte{0x00, 0x09, 0x3A, 0x80})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != 604800 {
			t.Errorf("interval = %d, want 604800", got)
		}
	})

	t.Run("short", func(t *testing.T) {
		if _, err := ParseAutoCleaningInterval([]byte{0x00, 0x09}); err == nil {
			t.Fatal("expected error, got nil")
		}
	})
}

func TestParseDeviceInformation(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want string
	}{
		{name: "nul terminated", data: []byte("00080000\x00"), want: "00080000"},
		{name: "no terminator", data: []byte("5D271AC5B2D2F70B"), want: "5D271AC5B2D2F70B"},
		{name: "empty", data: nil, want: ""},
		{name: "trailing junk after nul", data: []byte("SPS30\x00\xFF\xFF"), want: "SPS30"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseDeviceInformation(tt.data); got != tt.want {
				t.Errorf("ParseDeviceInformation() = %q, want %q", got, tt.want)
			}
		})
	}
}
