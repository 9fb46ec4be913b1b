package trace

import (
	"math"

	"servoplot.dev/calib"
)

const (
	// BaseFrequency is the frequency of ratio 1, in Hz.
	BaseFrequency = 0.2
	// TimeStep is the virtual time advanced per step, in seconds.
	TimeStep = 0.01
	// Amplitude of both axes, in degrees.
	Amplitude = 50
	// MaxRatio bounds each term of a frequency ratio.
	MaxRatio = 4
	// settleTime is added to the period of each axis.
	settleTime = 3
)

// Centers of the curve, in degrees.
const (
	centerX = 120
	centerY = 90
)

// Lissajous is a stepwise generator of a Lissajous curve in servo
// angles. Unlike the other traces its points are angles, not
// logical coordinates, and bypass the axis calibrations.
type Lissajous struct {
	FX, FY float64
	A, B   float64

	t     float64
	step  int
	total int
}

// NewLissajous returns the curve for the frequency ratio n1:n2.
// Terms are clamped to [1,MaxRatio].
func NewLissajous(n1, n2 int) *Lissajous {
	n1 = max(1, min(MaxRatio, n1))
	n2 = max(1, min(MaxRatio, n2))
	fx := float64(n1) * BaseFrequency
	fy := float64(n2) * BaseFrequency
	return &Lissajous{
		FX:    fx,
		FY:    fy,
		A:     Amplitude,
		B:     Amplitude,
		total: int(math.Floor(Duration(fx, fy) / TimeStep)),
	}
}

// Duration is the time to complete a figure with axis frequencies
// fx and fy.
func Duration(fx, fy float64) float64 {
	return max(1/fx+settleTime, 1/fy+settleTime)
}

// Next returns the angles of the next point and advances the curve.
// It returns false when all steps are done.
func (l *Lissajous) Next() (x, y float64, ok bool) {
	if l.step >= l.total {
		return 0, 0, false
	}
	x = centerX + l.A*math.Cos(2*math.Pi*l.FX*l.t)
	y = centerY + l.B*math.Sin(2*math.Pi*l.FY*l.t)
	l.t += TimeStep
	l.step++
	return calib.ClampAngle(x), calib.ClampAngle(y), true
}

// Steps returns the number of steps taken.
func (l *Lissajous) Steps() int {
	return l.step
}

// Total returns the number of steps in the figure.
func (l *Lissajous) Total() int {
	return l.total
}
