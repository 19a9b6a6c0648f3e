package protocol

// DefaultAddress is the SHDLC slave address of the SPS30. The sensor always
// answers on address 0.
const DefaultAddress = 0x00

// MISO frame structure constants per the SPS30 datasheet.
const (
	// MinResponseSize is the minimum de-framed MISO frame size in bytes:
	// ADDR(1) + CMD(1) + STATE(1) + L(1) + CHK(1)
	MinResponseSize = 5

	// responseHeaderSize is the number of header bytes before the data
	// payload: ADDR(1) + CMD(1) + STATE(1) + L(1)
	responseHeaderSize = 4
)

// Command codes per the SPS30 datasheet UART interface description.
const (
	// CmdStartMeasurement starts the measurement mode
	CmdStartMeasurement = 0x00

	// CmdStopMeasurement returns to idle mode
	CmdStopMeasurement = 0x01

	// CmdReadDataReady reads the data-ready flag
	CmdReadDataReady = 0x02

	// CmdReadMeasuredValues reads one measurement if available
	CmdReadMeasuredValues = 0x03

	// CmdSleep enters sleep mode with the UART interface disabled
	CmdSleep = 0x10

	// CmdWakeUp switches from sleep back to idle mode
	CmdWakeUp = 0x11

	// CmdStartFanCleaning runs the fan at maximum speed for 10 seconds
	CmdStartFanCleaning = 0x56

	// CmdAutoCleaningInterval reads or writes the fan auto-cleaning interval
	CmdAutoCleaningInterval = 0x80

	// CmdDeviceInformation reads a device information string
	CmdDeviceInformation = 0xD0

	// CmdReadVersion reads firmware, hardware and protocol versions
	CmdReadVersion = 0xD1

	// CmdReadDeviceStatus reads the device status register
	CmdReadDeviceStatus = 0xD2

	// CmdReset performs a soft reset, equivalent to a power cycle
	CmdReset = 0xD3
)

// cleaningIntervalSubcmd is the fixed first data byte of both auto-cleaning
// interval exchanges. Read and write are distinguished by payload length
// (1 byte reads, 5 bytes write).
const cleaningIntervalSubcmd = 0x00

// Device state codes returned in the MISO frame state byte, per the SPS30
// datasheet execution error table.
const (
	// StateOK indicates the command executed successfully
	StateOK = 0x00

	// StateWrongDataLength indicates a wrong data length for this command
	StateWrongDataLength = 0x01

	// StateUnknownCommand indicates the command is not recognized
	StateUnknownCommand = 0x02

	// StateNoAccessRight indicates no access right for this command
	StateNoAccessRight = 0x03

	// StateIllegalParameter indicates an illegal command parameter or
	// parameter out of allowed range
	StateIllegalParameter = 0x04

	// StateArgumentOutOfRange indicates an internal function argument out
	// of range
	StateArgumentOutOfRange = 0x28

	// StateNotAllowedInState indicates the command is not allowed in the
	// current device state
	StateNotAllowedInState = 0x43
)

// Measurement payload sizes per output format.
const (
	// MeasurementSizeFloat is the data size of a measurement in IEEE-754
	// format: 10 channels of 4 bytes each
	MeasurementSizeFloat = 40

	// MeasurementSizeUint16 is the data size of a measurement in unsigned
	// 16-bit integer format: 10 channels of 2 bytes each
	MeasurementSizeUint16 = 20
)

// Fixed response data sizes.
const (
	// DataReadyResponseSize is the data size of a Read Data-Ready Flag
	// response (1 byte)
	DataReadyResponseSize = 1

	// VersionResponseSize is the data size of a Read Version response
	// (7 bytes)
	VersionResponseSize = 7

	// DeviceStatusResponseSize is the data size of a Read Device Status
	// Register response: register(4) + reserved(1)
	DeviceStatusResponseSize = 5

	// CleaningIntervalResponseSize is the data size of a Read Auto Cleaning
	// Interval response (4 bytes)
	CleaningIntervalResponseSize = 4
)

// MaxCleaningIntervalSeconds is the largest auto-cleaning interval the
// protocol can carry (unsigned 32-bit seconds).
const MaxCleaningIntervalSeconds = 0xFFFFFFFF
