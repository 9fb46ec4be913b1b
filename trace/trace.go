// package trace generates the plotter's trajectories as finite,
// restartable point sequences. Pacing and actuation are left to
// the caller.
package trace

import (
	"iter"

	"servoplot.dev/geom"
)

// DefaultLineSteps is the number of interpolation steps of a line.
const DefaultLineSteps = 150

// Line returns the steps+1 points interpolating start to end. The
// first point is exactly start and the last exactly end. A
// non-positive steps means DefaultLineSteps.
func Line(start, end geom.Point, steps int) iter.Seq[geom.Point] {
	if steps <= 0 {
		steps = DefaultLineSteps
	}
	return func(yield func(geom.Point) bool) {
		for i := 0; i <= steps; i++ {
			t := float64(i) / float64(steps)
			if !yield(geom.Lerp(start, end, t)) {
				return
			}
		}
	}
}
