// package maestro drives the plotter from a Pololu Maestro USB servo
// controller. The status LEDs hang off Maestro channels configured
// as outputs.
package maestro

import (
	"errors"
	"fmt"
	"io"
	"math"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/tarm/serial"
	"servoplot.dev/calib"
	"servoplot.dev/config"
	"servoplot.dev/servo"
)

const (
	cmdSetTarget = 0x84
	cmdGetErrors = 0xa1
	// pololuPreamble starts a Pololu protocol command.
	pololuPreamble = 0xaa
)

// readTries bounds the reads of a response, each limited by
// readTimeout.
const (
	readTries   = 3
	readTimeout = 100 * time.Millisecond
)

// outputHigh is the lowest target that drives an output channel
// high, in quarter microseconds.
const outputHigh = 6000

type Controller struct {
	mu      sync.Mutex
	port    io.ReadWriteCloser
	device  byte
	compact bool
	servos  [servo.NumAxes]byte
	leds    [3]byte
}

// Open opens the serial port of the controller. If no device is
// configured, the usual device names for the platform are tried.
func Open(cfg config.MaestroIO) (*Controller, error) {
	var devices []string
	if cfg.Device != "" {
		devices = append(devices, cfg.Device)
	} else {
		switch runtime.GOOS {
		case "windows":
			devices = append(devices, "COM3")
		case "linux":
			devices = append(devices, "/dev/ttyACM0", "/dev/ttyACM1")
		case "darwin":
			devices = append(devices, "/dev/cu.usbmodem00000001")
		}
	}
	if len(devices) == 0 {
		return nil, errors.New("maestro: no device specified")
	}
	var firstErr error
	for _, dev := range devices {
		s, err := serial.OpenPort(&serial.Config{Name: dev, Baud: cfg.Baud, ReadTimeout: readTimeout})
		if err == nil {
			return New(s, cfg), nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return nil, fmt.Errorf("maestro: %w", firstErr)
}

// New returns a controller talking over port.
func New(port io.ReadWriteCloser, cfg config.MaestroIO) *Controller {
	s, l := cfg.Servos, cfg.LEDs
	return &Controller{
		port:    port,
		device:  byte(cfg.DeviceNumber),
		compact: cfg.DeviceNumber == 0,
		servos:  [...]byte{byte(s.X), byte(s.Y), byte(s.Z)},
		leds:    [...]byte{byte(l.Ready), byte(l.Busy), byte(l.Returning)},
	}
}

// Target converts a drive signal to a Maestro target in quarter
// microseconds.
func Target(drive int) uint16 {
	return uint16(math.Round(calib.PulseWidth(drive) * 4))
}

func (c *Controller) preamble(cmd byte) []byte {
	if c.compact {
		return []byte{cmd}
	}
	return []byte{pololuPreamble, c.device, cmd & 0x7f}
}

func (c *Controller) setTarget(channel byte, target uint16) error {
	cmd := append(c.preamble(cmdSetTarget), channel, byte(target&0x7f), byte(target>>7&0x7f))
	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := c.port.Write(cmd)
	return err
}

func (c *Controller) Write(axis servo.Axis, drive int) error {
	if err := c.setTarget(c.servos[axis], Target(drive)); err != nil {
		return fmt.Errorf("maestro: channel %d: %w", c.servos[axis], err)
	}
	return nil
}

func (c *Controller) SetStatus(s servo.Status) {
	for i, st := range []servo.Status{servo.Ready, servo.Busy, servo.Returning} {
		var target uint16
		if s == st {
			target = outputHigh
		}
		// Indicator writes are best effort.
		c.setTarget(c.leds[i], target)
	}
}

// Errors reads and clears the controller error flags.
func (c *Controller) Errors() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := c.port.Write(c.preamble(cmdGetErrors)); err != nil {
		return fmt.Errorf("maestro: %w", err)
	}
	var buf [2]byte
	n := 0
	for tries := 0; n < len(buf) && tries < readTries; tries++ {
		m, err := c.port.Read(buf[n:])
		n += m
		if err != nil {
			return fmt.Errorf("maestro: %w", err)
		}
	}
	if n < len(buf) {
		return errors.New("maestro: no response")
	}
	return decodeErrors(uint16(buf[0]) | uint16(buf[1])<<8)
}

var errorBits = []string{
	"serial signal error",
	"serial overrun error",
	"serial buffer full",
	"serial crc error",
	"serial protocol error",
	"serial timeout",
	"script stack error",
	"script call stack error",
	"script program counter error",
}

func decodeErrors(flags uint16) error {
	var errs []string
	for i, e := range errorBits {
		if flags&(1<<i) != 0 {
			errs = append(errs, e)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("maestro: %s", strings.Join(errs, ", "))
}

// Close turns off the servo signals and the LEDs and closes the
// port.
func (c *Controller) Close() error {
	var errs []error
	for _, ch := range c.servos {
		if err := c.setTarget(ch, 0); err != nil {
			errs = append(errs, err)
			break
		}
	}
	c.SetStatus(servo.Off)
	if err := c.port.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("maestro: %w", err)
	}
	return nil
}
