// Package shdlc implements the SHDLC byte-stuffing layer used by Sensirion
// UART sensors to delimit frames on the wire.
//
// A frame is the stuffed payload surrounded by 0x7E markers:
//
//	[0x7E][stuffed payload][0x7E]
//
// Four byte values are reserved inside a frame and are transmitted as a
// two-byte escape sequence (0x7D followed by the original byte XOR 0x20):
//
//	0x7E (frame marker), 0x7D (escape), 0x11 (XON), 0x13 (XOFF)
//
// This package only stuffs and unstuffs bytes. Frame content (address,
// command, checksum) is owned by the protocol package; reading whole frames
// off a transport is owned by the driver facade.
package shdlc
