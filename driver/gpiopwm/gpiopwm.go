// package gpiopwm drives hobby servos from hardware PWM pins and the
// status LEDs from GPIO outputs, through periph.io.
package gpiopwm

import (
	"errors"
	"fmt"
	"log"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"
	"servoplot.dev/calib"
	"servoplot.dev/config"
	"servoplot.dev/servo"
)

// Servos is a servo.Output of one PWM pin per axis.
type Servos struct {
	pins [servo.NumAxes]gpio.PinOut
}

// Open initializes the host drivers and opens the servo and LED pins
// named in pins.
func Open(pins config.GPIOPins) (*Servos, *LEDs, error) {
	if _, err := host.Init(); err != nil {
		return nil, nil, fmt.Errorf("gpiopwm: %w", err)
	}
	var out [servo.NumAxes]gpio.PinOut
	for i, name := range []string{pins.X, pins.Y, pins.Z} {
		p, err := lookup(name)
		if err != nil {
			return nil, nil, err
		}
		out[i] = p
	}
	var leds [3]gpio.PinOut
	for i, name := range []string{pins.LEDs.Ready, pins.LEDs.Busy, pins.LEDs.Returning} {
		p, err := lookup(name)
		if err != nil {
			return nil, nil, err
		}
		leds[i] = p
	}
	return New(out), NewLEDs(leds[0], leds[1], leds[2]), nil
}

func lookup(name string) (gpio.PinIO, error) {
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("gpiopwm: no pin %q", name)
	}
	return p, nil
}

func New(pins [servo.NumAxes]gpio.PinOut) *Servos {
	return &Servos{pins: pins}
}

// Duty converts a drive signal to a PWM duty cycle.
func Duty(drive int) gpio.Duty {
	return gpio.Duty(int64(drive) * int64(gpio.DutyMax) / calib.DriveFull)
}

func (s *Servos) Write(axis servo.Axis, drive int) error {
	if err := s.pins[axis].PWM(Duty(drive), calib.DriveFrequency*physic.Hertz); err != nil {
		return fmt.Errorf("gpiopwm: %s: %w", s.pins[axis], err)
	}
	return nil
}

// Close stops the servo signals.
func (s *Servos) Close() error {
	var errs []error
	for _, p := range s.pins {
		if err := p.Halt(); err != nil {
			errs = append(errs, fmt.Errorf("gpiopwm: %s: %w", p, err))
		}
	}
	return errors.Join(errs...)
}

// LEDs is a servo.Indicator lighting one LED per status.
type LEDs struct {
	ready, busy, returning gpio.PinOut
}

func NewLEDs(ready, busy, returning gpio.PinOut) *LEDs {
	return &LEDs{ready: ready, busy: busy, returning: returning}
}

func (l *LEDs) SetStatus(s servo.Status) {
	leds := []struct {
		pin gpio.PinOut
		on  bool
	}{
		{l.ready, s == servo.Ready},
		{l.busy, s == servo.Busy},
		{l.returning, s == servo.Returning},
	}
	for _, led := range leds {
		if err := led.pin.Out(gpio.Level(led.on)); err != nil {
			log.Printf("gpiopwm: %s: %v", led.pin, err)
		}
	}
}
