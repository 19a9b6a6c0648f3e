package protocol

// Checksum computes the SHDLC frame checksum over data: the sum of all
// bytes modulo 256, inverted.
//
// The checksum covers every frame byte from ADDR through the last data
// byte. It is computed before byte-stuffing and verified after unstuffing.
func Checksum(data []byte) byte {
	var sum byte
	for _, b := range data {
		sum += b
	}
	return ^sum
}

// VerifyChecksum checks the trailing checksum byte of a de-framed frame.
func VerifyChecksum(frame []byte) bool {
	if len(frame) < 2 {
		return false
	}
	return frame[len(frame)-1] == Checksum(frame[:len(frame)-1])
}
