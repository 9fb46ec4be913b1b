// package calib maps logical drawing coordinates to calibrated
// servo angles and angles to servo drive signals.
package calib

import (
	"math"

	"servoplot.dev/geom"
)

// Axis is a linear calibration from a logical coordinate range
// to a servo angle range. The angle range may be inverted.
type Axis struct {
	CoordMin, CoordMax float64
	// AngleMin and AngleMax are the angles at CoordMin and
	// CoordMax.
	AngleMin, AngleMax float64
}

var (
	// X is inverted: the carriage is at 180° when x is 0.
	X = Axis{CoordMin: 0, CoordMax: 65, AngleMin: 180, AngleMax: 120}
	Y = Axis{CoordMin: -40, CoordMax: 40, AngleMin: 5, AngleMax: 180}
)

// Frame is the logical drawing area.
var Frame = geom.Rect{
	Min: geom.Pt(X.CoordMin, Y.CoordMin),
	Max: geom.Pt(X.CoordMax, Y.CoordMax),
}

// Angle maps the coordinate c to an angle, clamped to the
// calibrated angle range.
func (a Axis) Angle(c float64) float64 {
	ang := a.AngleMin + (c-a.CoordMin)/(a.CoordMax-a.CoordMin)*(a.AngleMax-a.AngleMin)
	lo, hi := min(a.AngleMin, a.AngleMax), max(a.AngleMin, a.AngleMax)
	return geom.Clamp(ang, lo, hi)
}

// Coord is the inverse of Angle, clamped to the coordinate range.
func (a Axis) Coord(angle float64) float64 {
	c := a.CoordMin + (angle-a.AngleMin)/(a.AngleMax-a.AngleMin)*(a.CoordMax-a.CoordMin)
	return geom.Clamp(c, a.CoordMin, a.CoordMax)
}

func XToAngle(x float64) float64 {
	return X.Angle(x)
}

func YToAngle(y float64) float64 {
	return Y.Angle(y)
}

const (
	MaxAngle = 180
	// DriveMin and DriveMax are the drive signals at 0° and 180°,
	// in units of a 10-bit duty cycle of a 50 Hz servo signal.
	DriveMin = 26
	DriveMax = 128
	// DriveFull is the drive signal of a 100% duty cycle.
	DriveFull = 1023
	// DriveFrequency is the servo signal frequency in Hz.
	DriveFrequency = 50
)

func ClampAngle(angle float64) float64 {
	return geom.Clamp(angle, 0, MaxAngle)
}

// AngleToDrive returns the drive signal for angle, after clamping
// it to [0,180].
func AngleToDrive(angle float64) int {
	angle = ClampAngle(angle)
	return int(math.Round(angle/MaxAngle*(DriveMax-DriveMin) + DriveMin))
}

// DriveToAngle is the inverse of AngleToDrive, up to rounding.
func DriveToAngle(drive int) float64 {
	a := float64(drive-DriveMin) / (DriveMax - DriveMin) * MaxAngle
	return ClampAngle(a)
}

// PulseWidth returns the high time of the servo signal for drive,
// in microseconds.
func PulseWidth(drive int) float64 {
	return float64(drive) / DriveFull * 1e6 / DriveFrequency
}
