package sps30

import (
	"fmt"
	"io"
	"time"

	"github.com/iohe/sps30/protocol"
	"github.com/iohe/sps30/shdlc"
)

// Device drives an SPS30 particulate matter sensor over a byte transport.
// Every method performs one blocking request/response exchange; the sensor
// does not support concurrent commands, so the caller must not issue a new
// command before the previous one returned.
//
// Device retains only configuration between calls. A failed exchange
// leaves it fully usable for the next command.
type Device struct {
	rw     io.ReadWriter
	config Config
}

// New creates a new Device over the given transport. The transport must
// implement io.ReadWriter; uart.Open provides one for a real serial port.
//
// Example:
//
//	port, _ := uart.Open("/dev/ttyUSB0")
//	dev := sps30.New(port,
//	    sps30.WithReadTimeout(2*time.Second),
//	    sps30.WithLogger(myLogger),
//	)
func New(rw io.ReadWriter, opts ...Option) *Device {
	if rw == nil {
		panic("transport cannot be nil")
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Device{
		rw:     rw,
		config: cfg,
	}
}

// Format returns the measurement output format this device negotiates at
// StartMeasurement and uses to decode measurements.
func (d *Device) Format() protocol.Format {
	return d.config.Format
}

// StartMeasurement switches the sensor to measurement mode using the
// configured output format. The first measurement is available roughly one
// second later.
func (d *Device) StartMeasurement() error {
	frame, err := protocol.BuildStartMeasurementCmd(d.config.Address, d.config.Format)
	if err != nil {
		return err
	}
	_, err = d.exchange(frame, protocol.CmdStartMeasurement)
	return err
}

// StopMeasurement returns the sensor to idle mode.
func (d *Device) StopMeasurement() error {
	_, err := d.exchange(protocol.BuildStopMeasurementCmd(d.config.Address), protocol.CmdStopMeasurement)
	return err
}

// ReadDataReady reports whether a new measurement is available to read.
func (d *Device) ReadDataReady() (bool, error) {
	data, err := d.exchange(protocol.BuildReadDataReadyCmd(d.config.Address), protocol.CmdReadDataReady)
	if err != nil {
		return false, err
	}
	return protocol.ParseDataReady(data)
}

// ReadMeasurement reads one measurement in the negotiated output format.
// Returns ErrNoMeasurement when the sensor has nothing new to report;
// polling ReadDataReady first avoids that outcome.
func (d *Device) ReadMeasurement() (*protocol.Measurement, error) {
	data, err := d.exchange(protocol.BuildReadMeasuredValuesCmd(d.config.Address), protocol.CmdReadMeasuredValues)
	if err != nil {
		return nil, err
	}
	return protocol.ParseMeasurement(data, d.config.Format)
}

// Sleep puts the sensor into sleep mode. The UART interface is disabled
// until WakeUp; only idle mode accepts this command.
func (d *Device) Sleep() error {
	_, err := d.exchange(protocol.BuildSleepCmd(d.config.Address), protocol.CmdSleep)
	return err
}

// WakeUp switches the sensor from sleep back to idle mode. A sleeping
// sensor discards the first byte on the line, so a dummy 0xFF is written
// immediately before the wake-up frame to re-arm the interface.
func (d *Device) WakeUp() error {
	if _, err := d.rw.Write([]byte{0xFF}); err != nil {
		return &TransportError{Op: "write", Err: err}
	}
	_, err := d.exchange(protocol.BuildWakeUpCmd(d.config.Address), protocol.CmdWakeUp)
	return err
}

// StartFanCleaning runs the fan at maximum speed for 10 seconds to blow
// out accumulated dust. Only allowed in measurement mode.
func (d *Device) StartFanCleaning() error {
	_, err := d.exchange(protocol.BuildStartFanCleaningCmd(d.config.Address), protocol.CmdStartFanCleaning)
	return err
}

// ReadAutoCleaningInterval reads the fan auto-cleaning interval. Zero
// means automatic cleaning is disabled.
func (d *Device) ReadAutoCleaningInterval() (time.Duration, error) {
	data, err := d.exchange(protocol.BuildReadAutoCleaningIntervalCmd(d.config.Address), protocol.CmdAutoCleaningInterval)
	if err != nil {
		return 0, err
	}
	seconds, err := protocol.ParseAutoCleaningInterval(data)
	if err != nil {
		return 0, err
	}
	return time.Duration(seconds) * time.Second, nil
}

// WriteAutoCleaningInterval sets the fan auto-cleaning interval. The
// sensor rounds to whole seconds; zero disables automatic cleaning.
// Intervals beyond the protocol's 32-bit seconds range are rejected with a
// *protocol.ArgumentError.
func (d *Device) WriteAutoCleaningInterval(interval time.Duration) error {
	if interval < 0 {
		return &protocol.ArgumentError{
			Command: "write auto cleaning interval",
			Field:   "seconds",
			Reason:  "must not be negative",
		}
	}
	frame, err := protocol.BuildWriteAutoCleaningIntervalCmd(d.config.Address, uint64(interval/time.Second))
	if err != nil {
		return err
	}
	_, err = d.exchange(frame, protocol.CmdAutoCleaningInterval)
	return err
}

// DeviceInformation reads one of the sensor's information strings.
func (d *Device) DeviceInformation(kind protocol.InfoKind) (string, error) {
	frame, err := protocol.BuildDeviceInformationCmd(d.config.Address, kind)
	if err != nil {
		return "", err
	}
	data, err := d.exchange(frame, protocol.CmdDeviceInformation)
	if err != nil {
		return "", err
	}
	return protocol.ParseDeviceInformation(data), nil
}

// ProductName reads the product name string.
func (d *Device) ProductName() (string, error) {
	return d.DeviceInformation(protocol.InfoProductName)
}

// ArticleCode reads the article code string.
func (d *Device) ArticleCode() (string, error) {
	return d.DeviceInformation(protocol.InfoArticleCode)
}

// SerialNumber reads the serial number string.
func (d *Device) SerialNumber() (string, error) {
	return d.DeviceInformation(protocol.InfoSerialNumber)
}

// ReadVersion reads the firmware, hardware and SHDLC protocol versions.
func (d *Device) ReadVersion() (*protocol.Version, error) {
	data, err := d.exchange(protocol.BuildReadVersionCmd(d.config.Address), protocol.CmdReadVersion)
	if err != nil {
		return nil, err
	}
	return protocol.ParseVersion(data)
}

// ReadDeviceStatus reads the device status register. When clear is true
// the sensor clears the sticky fan-speed warning bit after reporting.
func (d *Device) ReadDeviceStatus(clear bool) (*protocol.DeviceStatus, error) {
	data, err := d.exchange(protocol.BuildReadDeviceStatusCmd(d.config.Address, clear), protocol.CmdReadDeviceStatus)
	if err != nil {
		return nil, err
	}
	return protocol.ParseDeviceStatus(data)
}

// Reset performs a soft reset, equivalent to a power cycle. The sensor
// needs around 100 ms after the acknowledgment before it accepts further
// commands; the caller is responsible for that pause.
func (d *Device) Reset() error {
	_, err := d.exchange(protocol.BuildResetCmd(d.config.Address), protocol.CmdReset)
	return err
}

// exchange performs one complete request/response cycle: stuff and write
// the MOSI frame, read raw bytes until a complete wire frame arrives,
// unstuff it and validate the MISO frame, returning its data payload.
func (d *Device) exchange(mosi []byte, cmd byte) ([]byte, error) {
	if err := d.writeFrame(mosi); err != nil {
		return nil, err
	}

	raw, err := d.readFrame()
	if err != nil {
		return nil, err
	}

	miso, err := shdlc.Decode(raw)
	if err != nil {
		return nil, err
	}

	data, err := protocol.ParseResponse(miso, cmd)
	if err != nil {
		return nil, err
	}

	d.logDebug("exchange complete",
		"cmd", fmt.Sprintf("0x%02X", cmd),
		"data_len", len(data),
	)
	return data, nil
}

// writeFrame stuffs and writes one MOSI frame to the transport.
func (d *Device) writeFrame(mosi []byte) error {
	wire := shdlc.Encode(mosi)
	if _, err := d.rw.Write(wire); err != nil {
		d.logError("write failed", "err", err)
		return &TransportError{Op: "write", Err: err}
	}
	return nil
}

// readFrame reads raw bytes from the transport until a complete wire frame
// (two 0x7E markers) has been seen. Bytes before the first marker are line
// noise and are discarded. A transport that keeps returning zero bytes (a
// serial port in timeout mode, or a non-blocking HAL) is polled until the
// configured read timeout elapses.
func (d *Device) readFrame() ([]byte, error) {
	var deadline time.Time
	if d.config.ReadTimeout > 0 {
		deadline = time.Now().Add(d.config.ReadTimeout)
	}

	frame := make([]byte, 0, 64)
	buf := make([]byte, 64)
	markers := 0

	for markers < 2 {
		n, err := d.rw.Read(buf)
		if err != nil {
			d.logError("read failed", "err", err)
			return nil, &TransportError{Op: "read", Err: err}
		}

		if n == 0 {
			if !deadline.IsZero() && time.Now().After(deadline) {
				return nil, ErrTimeout
			}
			// Non-blocking transport with nothing on the line yet.
			time.Sleep(time.Millisecond)
			continue
		}

		for _, b := range buf[:n] {
			if markers == 0 {
				if b != shdlc.FrameMarker {
					continue
				}
				markers = 1
				frame = append(frame, b)
				continue
			}

			frame = append(frame, b)
			if b == shdlc.FrameMarker {
				markers = 2
				break
			}
			if len(frame) > shdlc.MaxFrameLength {
				return nil, ErrFrameOverrun
			}
		}
	}

	return frame, nil
}

// logDebug logs a debug message if a logger is configured.
func (d *Device) logDebug(msg string, keysAndValues ...interface{}) {
	if d.config.Logger != nil {
		d.config.Logger.Debug(msg, keysAndValues...)
	}
}

// logError logs an error message if a logger is configured.
func (d *Device) logError(msg string, keysAndValues ...interface{}) {
	if d.config.Logger != nil {
		d.config.Logger.Error(msg, keysAndValues...)
	}
}
