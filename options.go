package sps30

import (
	"time"

	"github.com/iohe/sps30/protocol"
)

// Config holds the device configuration.
type Config struct {
	// Address is the SHDLC slave address (the SPS30 answers on 0)
	Address byte

	// Format is the measurement output format negotiated at Start
	// Measurement and used to decode Read Measured Values responses
	Format protocol.Format

	// ReadTimeout bounds how long one exchange waits for a complete
	// response frame
	ReadTimeout time.Duration

	// Logger is used for logging exchanges (optional)
	Logger Logger
}

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	return Config{
		Address:     protocol.DefaultAddress,
		Format:      protocol.FormatFloat,
		ReadTimeout: 5 * time.Second,
	}
}

// Option is a functional option for configuring the Device.
type Option func(*Config)

// WithAddress sets the SHDLC slave address. The SPS30 always answers on
// address 0; other addresses are only useful on shared SHDLC buses.
func WithAddress(addr byte) Option {
	return func(c *Config) {
		c.Address = addr
	}
}

// WithFormat sets the measurement output format requested at Start
// Measurement. Default is protocol.FormatFloat.
//
// Example:
//
//	dev := sps30.New(port, sps30.WithFormat(protocol.FormatUint16))
func WithFormat(format protocol.Format) Option {
	return func(c *Config) {
		if format.Valid() {
			c.Format = format
		}
	}
}

// WithReadTimeout bounds how long one exchange waits for a complete
// response frame. Zero disables the deadline, leaving blocking behavior
// entirely to the transport.
//
// Example:
//
//	dev := sps30.New(port, sps30.WithReadTimeout(2*time.Second))
func WithReadTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		if timeout >= 0 {
			c.ReadTimeout = timeout
		}
	}
}

// WithLogger sets a logger for device exchanges.
//
// Example:
//
//	dev := sps30.New(port, sps30.WithLogger(myLogger))
func WithLogger(logger Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// Logger is an optional logging interface that can be provided to the
// device. This allows integration with any logging framework.
type Logger interface {
	// Debug logs a debug message with optional key-value pairs
	Debug(msg string, keysAndValues ...interface{})

	// Info logs an info message with optional key-value pairs
	Info(msg string, keysAndValues ...interface{})

	// Error logs an error message with optional key-value pairs
	Error(msg string, keysAndValues ...interface{})
}
