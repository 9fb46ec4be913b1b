package calib

import (
	"math"
	"testing"
)

func TestEndpoints(t *testing.T) {
	tests := []struct {
		name string
		f    func(float64) float64
		in   float64
		want float64
	}{
		{"XToAngle", XToAngle, 0, 180},
		{"XToAngle", XToAngle, 65, 120},
		{"YToAngle", YToAngle, -40, 5},
		{"YToAngle", YToAngle, 40, 180},
		{"YToAngle", YToAngle, 0, 92.5},
		// Out of range coordinates clamp.
		{"XToAngle", XToAngle, -10, 180},
		{"XToAngle", XToAngle, 100, 120},
		{"YToAngle", YToAngle, -100, 5},
		{"YToAngle", YToAngle, 100, 180},
	}
	for _, test := range tests {
		if got := test.f(test.in); got != test.want {
			t.Errorf("%s(%v) = %v, want %v", test.name, test.in, got, test.want)
		}
	}
}

func TestMonotonic(t *testing.T) {
	prev := XToAngle(0)
	for x := 0.0; x <= 65; x += 0.25 {
		a := XToAngle(x)
		if a > prev {
			t.Fatalf("XToAngle(%v) = %v increased from %v", x, a, prev)
		}
		if a < 120 || a > 180 {
			t.Fatalf("XToAngle(%v) = %v out of range", x, a)
		}
		prev = a
	}
	prev = YToAngle(-40)
	for y := -40.0; y <= 40; y += 0.25 {
		a := YToAngle(y)
		if a < prev {
			t.Fatalf("YToAngle(%v) = %v decreased from %v", y, a, prev)
		}
		if a < 5 || a > 180 {
			t.Fatalf("YToAngle(%v) = %v out of range", y, a)
		}
		prev = a
	}
}

func TestAngleToDrive(t *testing.T) {
	if got := AngleToDrive(0); got != DriveMin {
		t.Errorf("AngleToDrive(0) = %d, want %d", got, DriveMin)
	}
	if got := AngleToDrive(180); got != DriveMax {
		t.Errorf("AngleToDrive(180) = %d, want %d", got, DriveMax)
	}
	if got := AngleToDrive(90); got != 77 {
		t.Errorf("AngleToDrive(90) = %d, want 77", got)
	}
	for a := -20.0; a <= 200; a += 0.5 {
		d := AngleToDrive(a)
		if d < DriveMin || d > DriveMax {
			t.Errorf("AngleToDrive(%v) = %d outside [%d,%d]", a, d, DriveMin, DriveMax)
		}
	}
}

func TestInverse(t *testing.T) {
	for _, ax := range []Axis{X, Y} {
		for c := ax.CoordMin; c <= ax.CoordMax; c++ {
			if got := ax.Coord(ax.Angle(c)); math.Abs(got-c) > 1e-9 {
				t.Errorf("%+v: Coord(Angle(%v)) = %v", ax, c, got)
			}
		}
	}
	for d := DriveMin; d <= DriveMax; d++ {
		if got := AngleToDrive(DriveToAngle(d)); got != d {
			t.Errorf("AngleToDrive(DriveToAngle(%d)) = %d", d, got)
		}
	}
}

func TestPulseWidth(t *testing.T) {
	// 0° and 180° are the usual 0.5ms and 2.5ms hobby servo limits.
	if pw := PulseWidth(DriveMin); math.Abs(pw-508) > 1 {
		t.Errorf("PulseWidth(%d) = %vµs", DriveMin, pw)
	}
	if pw := PulseWidth(DriveMax); math.Abs(pw-2502) > 1 {
		t.Errorf("PulseWidth(%d) = %vµs", DriveMax, pw)
	}
}
