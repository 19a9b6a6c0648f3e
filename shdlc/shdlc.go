package shdlc

import "fmt"

// Framing constants.
const (
	// FrameMarker delimits the start and end of every frame (0x7E)
	FrameMarker = 0x7E

	// EscapeByte introduces a two-byte escape sequence (0x7D)
	EscapeByte = 0x7D

	// EscapeXOR is XORed with a reserved byte to form its escaped value
	EscapeXOR = 0x20

	// MaxFrameLength is the largest number of raw bytes a single frame may
	// occupy on the wire, markers and stuffing included. A reader that
	// consumes more than this without completing a frame is out of sync.
	MaxFrameLength = 600
)

// mustEscape reports whether b is reserved and needs stuffing.
// Reserved values are the frame marker, the escape byte itself and the
// XON/XOFF software flow-control bytes.
func mustEscape(b byte) bool {
	switch b {
	case FrameMarker, EscapeByte, 0x11, 0x13:
		return true
	}
	return false
}

// Encode stuffs payload and surrounds it with frame markers, returning the
// complete wire frame. Encoding is total: it never fails.
func Encode(payload []byte) []byte {
	// Worst case every byte escapes, plus the two markers.
	frame := make([]byte, 0, 2*len(payload)+2)

	frame = append(frame, FrameMarker)
	for _, b := range payload {
		if mustEscape(b) {
			frame = append(frame, EscapeByte, b^EscapeXOR)
		} else {
			frame = append(frame, b)
		}
	}
	frame = append(frame, FrameMarker)

	return frame
}

// Decode strips the frame markers from a complete wire frame and unstuffs
// the bytes in between, returning the original payload.
//
// The frame must begin and end with FrameMarker. Escape sequences must be
// complete and must decode to one of the four reserved values.
func Decode(frame []byte) ([]byte, error) {
	if len(frame) < 2 {
		return nil, &DecodeError{Reason: "frame shorter than two marker bytes"}
	}
	if frame[0] != FrameMarker {
		return nil, &DecodeError{Reason: fmt.Sprintf("missing start marker: got 0x%02X", frame[0])}
	}
	if frame[len(frame)-1] != FrameMarker {
		return nil, &DecodeError{Reason: fmt.Sprintf("missing end marker: got 0x%02X", frame[len(frame)-1])}
	}

	body := frame[1 : len(frame)-1]
	payload := make([]byte, 0, len(body))

	for i := 0; i < len(body); i++ {
		b := body[i]
		switch {
		case b == EscapeByte:
			i++
			if i >= len(body) {
				return nil, &DecodeError{Reason: "dangling escape byte at end of frame"}
			}
			orig := body[i] ^ EscapeXOR
			if !mustEscape(orig) {
				return nil, &DecodeError{Reason: fmt.Sprintf("invalid escape sequence 0x7D 0x%02X", body[i])}
			}
			payload = append(payload, orig)
		case b == FrameMarker:
			return nil, &DecodeError{Reason: "unescaped frame marker inside frame"}
		default:
			payload = append(payload, b)
		}
	}

	if len(payload) == 0 {
		return nil, &DecodeError{Reason: "empty frame"}
	}

	return payload, nil
}

// DecodeError indicates that a wire frame could not be unstuffed.
type DecodeError struct {
	Reason string
}

func (e *DecodeError) Error() string {
	return "shdlc: " + e.Reason
}
