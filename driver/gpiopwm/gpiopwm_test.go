package gpiopwm

import (
	"testing"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
	"periph.io/x/conn/v3/physic"
	"servoplot.dev/calib"
	"servoplot.dev/servo"
)

func TestDuty(t *testing.T) {
	tests := []struct {
		drive int
		duty  gpio.Duty
	}{
		{0, 0},
		{calib.DriveFull, gpio.DutyMax},
		{calib.DriveMin, gpio.Duty(int64(calib.DriveMin) * int64(gpio.DutyMax) / calib.DriveFull)},
	}
	for _, test := range tests {
		if got := Duty(test.drive); got != test.duty {
			t.Errorf("Duty(%d) = %v, want %v", test.drive, got, test.duty)
		}
	}
	if d := Duty(calib.DriveMax); d <= Duty(calib.DriveMin) || d >= gpio.DutyHalf {
		t.Errorf("Duty(%d) = %v", calib.DriveMax, d)
	}
}

func TestServos(t *testing.T) {
	var pins [servo.NumAxes]*gpiotest.Pin
	var out [servo.NumAxes]gpio.PinOut
	for i := range pins {
		pins[i] = &gpiotest.Pin{N: servo.Axis(i).String()}
		out[i] = pins[i]
	}
	s := New(out)
	if err := s.Write(servo.Y, calib.DriveMax); err != nil {
		t.Fatal(err)
	}
	p := pins[servo.Y]
	if p.D != Duty(calib.DriveMax) {
		t.Errorf("duty %v, want %v", p.D, Duty(calib.DriveMax))
	}
	if p.F != 50*physic.Hertz {
		t.Errorf("frequency %v, want 50Hz", p.F)
	}
	if pins[servo.X].D != 0 {
		t.Error("write reached another axis")
	}
	if err := s.Close(); err != nil {
		t.Error(err)
	}
}

func TestLEDs(t *testing.T) {
	ready := &gpiotest.Pin{N: "ready"}
	busy := &gpiotest.Pin{N: "busy"}
	ret := &gpiotest.Pin{N: "returning"}
	l := NewLEDs(ready, busy, ret)
	tests := []struct {
		status servo.Status
		levels [3]gpio.Level
	}{
		{servo.Ready, [3]gpio.Level{gpio.High, gpio.Low, gpio.Low}},
		{servo.Busy, [3]gpio.Level{gpio.Low, gpio.High, gpio.Low}},
		{servo.Returning, [3]gpio.Level{gpio.Low, gpio.Low, gpio.High}},
		{servo.Off, [3]gpio.Level{gpio.Low, gpio.Low, gpio.Low}},
	}
	for _, test := range tests {
		l.SetStatus(test.status)
		got := [3]gpio.Level{ready.L, busy.L, ret.L}
		if got != test.levels {
			t.Errorf("%v: levels %v, want %v", test.status, got, test.levels)
		}
	}
}
