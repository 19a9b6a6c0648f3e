package protocol

import "testing"

func TestChecksum(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want byte
	}{
		{name: "empty", data: nil, want: 0xFF},
		{name: "single zero", data: []byte{0x00}, want: 0xFF},
		{name: "start measurement header", data: []byte{0x00, 0x00, 0x02, 0x01, 0x03}, want: 0xF9},
		{name: "stop measurement header", data: []byte{0x00, 0x01, 0x00}, want: 0xFE},
		{name: "sum wraps modulo 256", data: []byte{0xFF, 0xFF, 0x02}, want: 0xFF},
		{name: "all ones", data: []byte{0xFF}, want: 0x00},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Checksum(tt.data); got != tt.want {
				t.Errorf("Checksum() = 0x%02X, want 0x%02X", got, tt.want)
			}
		})
	}
}

func TestVerifyChecksum(t *testing.T) {
	tests := []struct {
		name  string
		frame []byte
		want  bool
	}{
		{name: "valid frame", frame: []byte{0x00, 0x01, 0x00, 0xFE}, want: true},
		{name: "corrupted checksum", frame: []byte{0x00, 0x01, 0x00, 0xFF}, want: false},
		{name: "corrupted body", frame: []byte{0x00, 0x02, 0x00, 0xFE}, want: false},
		{name: "too short", frame: []byte{0xFE}, want: false},
		{name: "empty", frame: nil, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := VerifyChecksum(tt.frame); got != tt.want {
				t.Errorf("VerifyChecksum() = %v, want %v", got, tt.want)
			}
		})
	}
}
