// package sim is a servo.Output and servo.Indicator that records the
// plotter's motion instead of driving hardware. The pen-down paths
// can be rendered to a PNG preview.
package sim

import (
	"bufio"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"log"
	"os"
	"sync"

	"github.com/srwiley/rasterx"
	"golang.org/x/image/math/fixed"
	"servoplot.dev/calib"
	"servoplot.dev/geom"
	"servoplot.dev/pen"
	"servoplot.dev/servo"
)

// Recorder tracks the commanded servo angles and the paths drawn
// while the pen is down. Paths are in servo angles, not logical
// coordinates, so Lissajous figures render too.
type Recorder struct {
	// Log, if set, receives a line per status change.
	Log *log.Logger

	mu     sync.Mutex
	drives [servo.NumAxes]int
	writes int
	status servo.Status
	paths  [][]geom.Point
	down   bool
	closed bool
}

func New() *Recorder {
	return new(Recorder)
}

var penDown = calib.AngleToDrive(pen.DownAngle)

func (r *Recorder) Write(axis servo.Axis, drive int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return fmt.Errorf("sim: %v: output closed", axis)
	}
	r.writes++
	r.drives[axis] = drive
	switch axis {
	case servo.Z:
		down := drive >= penDown
		if down && !r.down {
			r.paths = append(r.paths, []geom.Point{r.carriage()})
		}
		r.down = down
	case servo.Y:
		// Moves write X then Y. The carriage is in place after
		// the Y write.
		if r.down {
			n := len(r.paths) - 1
			r.paths[n] = append(r.paths[n], r.carriage())
		}
	}
	return nil
}

func (r *Recorder) carriage() geom.Point {
	return geom.Pt(calib.DriveToAngle(r.drives[servo.X]), calib.DriveToAngle(r.drives[servo.Y]))
}

func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

func (r *Recorder) SetStatus(s servo.Status) {
	r.mu.Lock()
	r.status = s
	r.mu.Unlock()
	if r.Log != nil {
		r.Log.Printf("sim: status %v", s)
	}
}

func (r *Recorder) Status() servo.Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

// Writes returns the number of drive signals written.
func (r *Recorder) Writes() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.writes
}

// Drive returns the last drive signal written to axis.
func (r *Recorder) Drive(axis servo.Axis) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.drives[axis]
}

// Carriage returns the logical position of the carriage, as far
// as the drive resolution allows.
func (r *Recorder) Carriage() geom.Point {
	r.mu.Lock()
	defer r.mu.Unlock()
	a := r.carriage()
	return geom.Pt(calib.X.Coord(a.X), calib.Y.Coord(a.Y))
}

// Paths returns the pen-down paths in X and Y servo angles.
func (r *Recorder) Paths() [][]geom.Point {
	r.mu.Lock()
	defer r.mu.Unlock()
	paths := make([][]geom.Point, len(r.paths))
	for i, p := range r.paths {
		paths[i] = append([]geom.Point(nil), p...)
	}
	return paths
}

// Render draws the recorded paths with a stroke width in pixels.
// The image spans [0,180] degrees on both axes at scale pixels per
// degree. X angles decrease to the right, matching the direction
// of logical x.
func (r *Recorder) Render(scale, strokeWidth float64) *image.Gray {
	size := int(calib.MaxAngle*scale) + 1
	img := image.NewGray(image.Rect(0, 0, size, size))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)
	scanner := rasterx.NewScannerGV(size, size, img, img.Bounds())
	dasher := rasterx.NewDasher(size, size, scanner)
	dasher.SetStroke(fixed.Int26_6(strokeWidth*64), 0, rasterx.RoundCap, rasterx.RoundCap, rasterx.RoundGap, rasterx.ArcClip, nil, 0)
	dasher.SetColor(color.Black)
	toPixel := func(p geom.Point) fixed.Point26_6 {
		return rasterx.ToFixedP((calib.MaxAngle-p.X)*scale, (calib.MaxAngle-p.Y)*scale)
	}
	for _, path := range r.Paths() {
		dasher.Start(toPixel(path[0]))
		for _, p := range path[1:] {
			dasher.Line(toPixel(p))
		}
		dasher.Stop(false)
	}
	dasher.Draw()
	return img
}

// Preview writes the rendering of the recorded paths as a PNG.
func (r *Recorder) Preview(w io.Writer) error {
	const (
		scale       = 4
		strokeWidth = 3
	)
	return png.Encode(w, r.Render(scale, strokeWidth))
}

// SavePreview writes the preview to the named file.
func (r *Recorder) SavePreview(name string) error {
	f, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("sim: %w", err)
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	if err := r.Preview(w); err != nil {
		return fmt.Errorf("sim: %s: %w", name, err)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("sim: %s: %w", name, err)
	}
	return f.Close()
}
