package trace

import (
	"iter"

	"servoplot.dev/calib"
	"servoplot.dev/geom"
)

type SpiralParams struct {
	// MaxElements is the length of the Fibonacci sequence the
	// radii are picked from.
	MaxElements int
	// RadiusScale converts Fibonacci numbers to radii.
	RadiusScale float64
	// AngularStep is the sweep increment in degrees.
	AngularStep int
	Center      geom.Point
}

var DefaultSpiral = SpiralParams{
	MaxElements: 13,
	RadiusScale: 0.9,
	AngularStep: 2,
	Center:      geom.Pt(50, 0),
}

const (
	// ringSweep is the angle swept by each ring, and the rotation
	// between consecutive rings.
	ringSweep = 90
	// maxFibonacci is the longest sequence that fits an int64.
	maxFibonacci = 92
)

var fallbackRadii = []int{1, 2, 3, 5}

// Fibonacci returns the first n Fibonacci numbers, starting 0, 1.
// At least the two first numbers are returned.
func Fibonacci(n int) []int {
	n = min(n, maxFibonacci)
	fib := []int{0, 1}
	for len(fib) < n {
		fib = append(fib, fib[len(fib)-1]+fib[len(fib)-2])
	}
	return fib
}

// SpiralRadii returns the positive numbers of the Fibonacci sequence
// of length maxElements whose scaled value fits the drawing width.
// If none fit, {1, 2, 3, 5} is returned.
func SpiralRadii(maxElements int, scale float64) []int {
	var radii []int
	for _, f := range Fibonacci(maxElements) {
		if f > 0 && float64(f)*scale <= calib.X.CoordMax {
			radii = append(radii, f)
		}
	}
	if len(radii) == 0 {
		radii = append(radii, fallbackRadii...)
	}
	return radii
}

func (p SpiralParams) withDefaults() SpiralParams {
	d := DefaultSpiral
	if p.MaxElements <= 0 {
		p.MaxElements = d.MaxElements
	}
	if p.RadiusScale <= 0 {
		p.RadiusScale = d.RadiusScale
	}
	if p.AngularStep <= 0 {
		p.AngularStep = d.AngularStep
	}
	return p
}

// Spiral returns the pen-down sweep of a Fibonacci spiral: one
// quarter-turn arc per radius, each arc rotated a quarter turn from
// the previous. Points are clamped to calib.Frame.
func Spiral(p SpiralParams) iter.Seq[geom.Point] {
	p = p.withDefaults()
	radii := SpiralRadii(p.MaxElements, p.RadiusScale)
	return func(yield func(geom.Point) bool) {
		base := 0
		for _, r := range radii {
			radius := float64(r) * p.RadiusScale
			for ang := 0; ang <= ringSweep; ang += p.AngularStep {
				pt := geom.Polar(p.Center, radius, float64(base+ang))
				if !yield(calib.Frame.Clamp(pt)) {
					return
				}
			}
			base += ringSweep
		}
	}
}
