package protocol

import (
	"encoding/binary"
	"fmt"
)

// buildFrame assembles a MOSI frame from its parts and appends the
// checksum. Every builder funnels through here so the frame layout lives in
// one place:
//
//	[ADDR][CMD][L][DATA...][CHK]
//
// The returned frame is not yet byte-stuffed; framing belongs to the shdlc
// package.
func buildFrame(addr, cmd byte, data []byte) []byte {
	// ADDR + CMD + L + data + CHK
	frame := make([]byte, 0, 4+len(data))

	frame = append(frame, addr)
	frame = append(frame, cmd)
	frame = append(frame, byte(len(data)))
	frame = append(frame, data...)
	frame = append(frame, Checksum(frame))

	return frame
}

// BuildStartMeasurementCmd constructs a Start Measurement command frame.
// The format selects the measurement output encoding for all subsequent
// Read Measured Values exchanges.
//
// Frame structure:
//
//	[ADDR][0x00][0x02][0x01][FORMAT][CHK]
func BuildStartMeasurementCmd(addr byte, format Format) ([]byte, error) {
	if !format.Valid() {
		return nil, &ArgumentError{
			Command: "start measurement",
			Field:   "format",
			Reason:  fmt.Sprintf("must be float (0x%02X) or uint16 (0x%02X), got 0x%02X", byte(FormatFloat), byte(FormatUint16), byte(format)),
		}
	}

	// 0x01 is the fixed subcommand byte the datasheet specifies.
	return buildFrame(addr, CmdStartMeasurement, []byte{0x01, byte(format)}), nil
}

// BuildStopMeasurementCmd constructs a Stop Measurement command frame.
//
// Frame structure:
//
//	[ADDR][0x01][0x00][CHK]
func BuildStopMeasurementCmd(addr byte) []byte {
	return buildFrame(addr, CmdStopMeasurement, nil)
}

// BuildReadDataReadyCmd constructs a Read Data-Ready Flag command frame.
//
// Frame structure:
//
//	[ADDR][0x02][0x00][CHK]
func BuildReadDataReadyCmd(addr byte) []byte {
	return buildFrame(addr, CmdReadDataReady, nil)
}

// BuildReadMeasuredValuesCmd constructs a Read Measured Values command
// frame.
//
// Frame structure:
//
//	[ADDR][0x03][0x00][CHK]
func BuildReadMeasuredValuesCmd(addr byte) []byte {
	return buildFrame(addr, CmdReadMeasuredValues, nil)
}

// BuildSleepCmd constructs a Sleep command frame.
//
// Frame structure:
//
//	[ADDR][0x10][0x00][CHK]
func BuildSleepCmd(addr byte) []byte {
	return buildFrame(addr, CmdSleep, nil)
}

// BuildWakeUpCmd constructs a Wake-Up command frame.
//
// A sleeping sensor ignores the first byte it receives after its UART
// interface was disabled; senders must transmit a dummy 0xFF immediately
// before this frame. That poke is the transport sequencing concern of the
// driver facade, not part of the frame itself.
//
// Frame structure:
//
//	[ADDR][0x11][0x00][CHK]
func BuildWakeUpCmd(addr byte) []byte {
	return buildFrame(addr, CmdWakeUp, nil)
}

// BuildStartFanCleaningCmd constructs a Start Fan Cleaning command frame.
//
// Frame structure:
//
//	[ADDR][0x56][0x00][CHK]
func BuildStartFanCleaningCmd(addr byte) []byte {
	return buildFrame(addr, CmdStartFanCleaning, nil)
}

// BuildReadAutoCleaningIntervalCmd constructs a Read Auto Cleaning Interval
// command frame.
//
// Frame structure:
//
//	[ADDR][0x80][0x01][0x00][CHK]
func BuildReadAutoCleaningIntervalCmd(addr byte) []byte {
	return buildFrame(addr, CmdAutoCleaningInterval, []byte{cleaningIntervalSubcmd})
}

// BuildWriteAutoCleaningIntervalCmd constructs a Write Auto Cleaning
// Interval command frame. The interval is given in seconds; 0 disables
// automatic fan cleaning.
//
// Frame structure:
//
//	[ADDR][0x80][0x05][0x00][SECONDS(4, BE)][CHK]
//
// Returns an *ArgumentError if seconds exceeds the 32 bits the protocol
// carries; the value is never truncated.
func BuildWriteAutoCleaningIntervalCmd(addr byte, seconds uint64) ([]byte, error) {
	if seconds > MaxCleaningIntervalSeconds {
		return nil, &ArgumentError{
			Command: "write auto cleaning interval",
			Field:   "seconds",
			Reason:  fmt.Sprintf("%d exceeds maximum %d", seconds, uint64(MaxCleaningIntervalSeconds)),
		}
	}

	data := make([]byte, 5)
	data[0] = cleaningIntervalSubcmd
	binary.BigEndian.PutUint32(data[1:], uint32(seconds))

	return buildFrame(addr, CmdAutoCleaningInterval, data), nil
}

// BuildDeviceInformationCmd constructs a Device Information command frame
// for the requested information string.
//
// Frame structure:
//
//	[ADDR][0xD0][0x01][KIND][CHK]
func BuildDeviceInformationCmd(addr byte, kind InfoKind) ([]byte, error) {
	if !kind.Valid() {
		return nil, &ArgumentError{
			Command: "device information",
			Field:   "kind",
			Reason:  fmt.Sprintf("unknown kind 0x%02X", byte(kind)),
		}
	}

	return buildFrame(addr, CmdDeviceInformation, []byte{byte(kind)}), nil
}

// BuildReadVersionCmd constructs a Read Version command frame.
//
// Frame structure:
//
//	[ADDR][0xD1][0x00][CHK]
func BuildReadVersionCmd(addr byte) []byte {
	return buildFrame(addr, CmdReadVersion, nil)
}

// BuildReadDeviceStatusCmd constructs a Read Device Status Register command
// frame. When clear is true the sensor clears the sticky register bits
// after reporting them.
//
// Frame structure:
//
//	[ADDR][0xD2][0x01][CLEAR][CHK]
func BuildReadDeviceStatusCmd(addr byte, clear bool) []byte {
	flag := byte(0x00)
	if clear {
		flag = 0x01
	}
	return buildFrame(addr, CmdReadDeviceStatus, []byte{flag})
}

// BuildResetCmd constructs a device Reset command frame. The sensor needs
// around 100 ms after acknowledging before it accepts further commands.
//
// Frame structure:
//
//	[ADDR][0xD3][0x00][CHK]
func BuildResetCmd(addr byte) []byte {
	return buildFrame(addr, CmdReset, nil)
}
