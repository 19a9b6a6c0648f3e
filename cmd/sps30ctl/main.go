// Command sps30ctl talks to a Sensirion SPS30 particulate matter sensor
// attached to a serial port.
//
// Usage:
//
//	sps30ctl -port /dev/ttyUSB0 <command>
//
// Commands:
//
//	measure    start measuring, read one measurement, stop
//	monitor    poll the data-ready flag and print measurements
//	info       print product name, article code and serial number
//	version    print firmware, hardware and SHDLC versions
//	status     print the device status register
//	clean      start a fan cleaning cycle
//	interval   get or set the auto-cleaning interval
//	sleep      put the sensor to sleep
//	wake       wake the sensor up
//	reset      soft-reset the sensor
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/iohe/sps30"
	"github.com/iohe/sps30/protocol"
	"github.com/iohe/sps30/uart"
)

func main() {
	var (
		portName   = flag.String("port", "/dev/ttyUSB0", "serial port the sensor is attached to")
		formatName = flag.String("format", "float", "measurement output format: float or uint16")
		timeout    = flag.Duration("timeout", 2*time.Second, "response timeout per exchange")
		interval   = flag.Duration("interval", time.Second, "polling interval for monitor")
		count      = flag.Int("count", 0, "number of measurements for monitor, 0 for unlimited")
		asJSON     = flag.Bool("json", false, "print measurements as JSON")
		verbose    = flag.Bool("v", false, "enable debug logging")
	)
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() < 1 {
		usage()
		os.Exit(2)
	}

	logger, err := newLogger(*verbose)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	format, err := parseFormat(*formatName)
	if err != nil {
		sugar.Fatal(err)
	}

	port, err := uart.Open(*portName)
	if err != nil {
		sugar.Fatalf("open serial port: %v", err)
	}
	defer port.Close()

	dev := sps30.New(port,
		sps30.WithFormat(format),
		sps30.WithReadTimeout(*timeout),
		sps30.WithLogger(&zapLogger{sugar: sugar}),
	)

	app := &app{
		dev:      dev,
		sugar:    sugar,
		asJSON:   *asJSON,
		interval: *interval,
		count:    *count,
	}

	if err := app.run(flag.Arg(0), flag.Args()[1:]); err != nil {
		sugar.Fatal(err)
	}
}

type app struct {
	dev      *sps30.Device
	sugar    *zap.SugaredLogger
	asJSON   bool
	interval time.Duration
	count    int
}

func (a *app) run(command string, args []string) error {
	switch command {
	case "measure":
		return a.measure()
	case "monitor":
		return a.monitor()
	case "info":
		return a.info()
	case "version":
		return a.version()
	case "status":
		return a.status()
	case "clean":
		return a.clean()
	case "interval":
		return a.cleaningInterval(args)
	case "sleep":
		return a.dev.Sleep()
	case "wake":
		return a.dev.WakeUp()
	case "reset":
		return a.reset()
	default:
		return fmt.Errorf("unknown command %q", command)
	}
}

// measure starts measuring, waits for the first result and stops again.
func (a *app) measure() error {
	if err := a.dev.StartMeasurement(); err != nil {
		return fmt.Errorf("start measurement: %w", err)
	}
	defer func() {
		if err := a.dev.StopMeasurement(); err != nil {
			a.sugar.Warnf("stop measurement: %v", err)
		}
	}()

	m, err := a.waitForMeasurement(30 * time.Second)
	if err != nil {
		return err
	}
	return a.print(m)
}

// monitor keeps polling the data-ready flag and printing measurements.
func (a *app) monitor() error {
	if err := a.dev.StartMeasurement(); err != nil {
		return fmt.Errorf("start measurement: %w", err)
	}
	defer func() {
		if err := a.dev.StopMeasurement(); err != nil {
			a.sugar.Warnf("stop measurement: %v", err)
		}
	}()

	printed := 0
	for a.count == 0 || printed < a.count {
		time.Sleep(a.interval)

		ready, err := a.dev.ReadDataReady()
		if err != nil {
			return fmt.Errorf("read data-ready flag: %w", err)
		}
		if !ready {
			continue
		}

		m, err := a.dev.ReadMeasurement()
		if errors.Is(err, sps30.ErrNoMeasurement) {
			continue
		}
		if err != nil {
			return fmt.Errorf("read measurement: %w", err)
		}

		if err := a.print(m); err != nil {
			return err
		}
		printed++
	}
	return nil
}

// waitForMeasurement polls until the sensor has data or the budget runs out.
func (a *app) waitForMeasurement(budget time.Duration) (*protocol.Measurement, error) {
	deadline := time.Now().Add(budget)
	for {
		ready, err := a.dev.ReadDataReady()
		if err != nil {
			return nil, fmt.Errorf("read data-ready flag: %w", err)
		}
		if ready {
			m, err := a.dev.ReadMeasurement()
			if err != nil && !errors.Is(err, sps30.ErrNoMeasurement) {
				return nil, fmt.Errorf("read measurement: %w", err)
			}
			if err == nil {
				return m, nil
			}
		}
		if time.Now().After(deadline) {
			return nil, errors.New("sensor produced no measurement in time")
		}
		time.Sleep(time.Second)
	}
}

func (a *app) info() error {
	name, err := a.dev.ProductName()
	if err != nil {
		return fmt.Errorf("product name: %w", err)
	}
	code, err := a.dev.ArticleCode()
	if err != nil {
		return fmt.Errorf("article code: %w", err)
	}
	serial, err := a.dev.SerialNumber()
	if err != nil {
		return fmt.Errorf("serial number: %w", err)
	}

	fmt.Printf("product name:  %s\n", name)
	fmt.Printf("article code:  %s\n", code)
	fmt.Printf("serial number: %s\n", serial)
	return nil
}

func (a *app) version() error {
	v, err := a.dev.ReadVersion()
	if err != nil {
		return fmt.Errorf("read version: %w", err)
	}
	fmt.Println(v)
	return nil
}

func (a *app) status() error {
	status, err := a.dev.ReadDeviceStatus(false)
	if err != nil {
		return fmt.Errorf("read device status: %w", err)
	}

	fmt.Printf("register:          0x%08X\n", status.Register)
	fmt.Printf("fan speed warning: %v\n", status.FanSpeedWarning())
	fmt.Printf("laser failure:     %v\n", status.LaserFailure())
	fmt.Printf("fan failure:       %v\n", status.FanFailure())
	return nil
}

func (a *app) clean() error {
	// Fan cleaning only runs in measurement mode.
	if err := a.dev.StartMeasurement(); err != nil {
		return fmt.Errorf("start measurement: %w", err)
	}
	if err := a.dev.StartFanCleaning(); err != nil {
		return fmt.Errorf("start fan cleaning: %w", err)
	}

	a.sugar.Info("fan cleaning started, running for 10 seconds")
	time.Sleep(11 * time.Second)

	if err := a.dev.StopMeasurement(); err != nil {
		return fmt.Errorf("stop measurement: %w", err)
	}
	return nil
}

func (a *app) cleaningInterval(args []string) error {
	if len(args) == 0 {
		interval, err := a.dev.ReadAutoCleaningInterval()
		if err != nil {
			return fmt.Errorf("read auto-cleaning interval: %w", err)
		}
		if interval == 0 {
			fmt.Println("auto cleaning disabled")
		} else {
			fmt.Println(interval)
		}
		return nil
	}

	interval, err := time.ParseDuration(args[0])
	if err != nil {
		return fmt.Errorf("parse interval %q: %w", args[0], err)
	}
	if err := a.dev.WriteAutoCleaningInterval(interval); err != nil {
		return fmt.Errorf("write auto-cleaning interval: %w", err)
	}
	a.sugar.Infof("auto-cleaning interval set to %v", interval)
	return nil
}

func (a *app) reset() error {
	if err := a.dev.Reset(); err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	// The sensor needs a moment before it accepts commands again.
	time.Sleep(100 * time.Millisecond)
	return nil
}

func (a *app) print(m *protocol.Measurement) error {
	if err := m.Check(); err != nil {
		a.sugar.Warnf("sensor reported a malformed value: %v", err)
	}

	if a.asJSON {
		out, err := json.Marshal(m)
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	fmt.Printf("mass   PM1.0 %7.2f  PM2.5 %7.2f  PM4.0 %7.2f  PM10 %7.2f  µg/m³\n",
		m.MassPM1, m.MassPM25, m.MassPM4, m.MassPM10)
	fmt.Printf("number PM0.5 %7.2f  PM1.0 %7.2f  PM2.5 %7.2f  PM4.0 %7.2f  PM10 %7.2f  #/cm³\n",
		m.NumberPM05, m.NumberPM1, m.NumberPM25, m.NumberPM4, m.NumberPM10)
	fmt.Printf("typical particle size %.2f µm\n", m.TypicalParticleSize)
	return nil
}

func parseFormat(name string) (protocol.Format, error) {
	switch name {
	case "float":
		return protocol.FormatFloat, nil
	case "uint16":
		return protocol.FormatUint16, nil
	default:
		return 0, fmt.Errorf("unknown format %q, want float or uint16", name)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: sps30ctl [flags] <command> [args]

Commands:
  measure          start measuring, print one measurement, stop
  monitor          poll the data-ready flag and print measurements
  info             print product name, article code and serial number
  version          print firmware, hardware and SHDLC versions
  status           print the device status register
  clean            run a fan cleaning cycle
  interval [dur]   get or set the auto-cleaning interval (e.g. 168h)
  sleep            put the sensor to sleep
  wake             wake the sensor up
  reset            soft-reset the sensor

Flags:
`)
	flag.PrintDefaults()
}
