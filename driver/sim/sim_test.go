package sim

import (
	"bytes"
	"image/png"
	"io"
	"log"
	"testing"

	"servoplot.dev/calib"
	"servoplot.dev/geom"
	"servoplot.dev/motion"
	"servoplot.dev/pen"
	"servoplot.dev/servo"
	"servoplot.dev/trace"
)

func newPlotter(t *testing.T) (*motion.Plotter, *Recorder) {
	t.Helper()
	r := New()
	p, err := motion.New(r, motion.Options{
		Indicator: r,
		Clock:     Clock{},
		Log:       log.New(io.Discard, "", 0),
	})
	if err != nil {
		t.Fatal(err)
	}
	return p, r
}

func TestRecordsPenDownPaths(t *testing.T) {
	r := New()
	drive := calib.AngleToDrive
	r.Write(servo.Z, drive(pen.UpAngle))
	r.Write(servo.X, drive(170))
	r.Write(servo.Y, drive(10))
	for a := pen.UpAngle + 1; a <= pen.DownAngle; a++ {
		r.Write(servo.Z, drive(float64(a)))
	}
	r.Write(servo.X, drive(130))
	r.Write(servo.Y, drive(10))
	r.Write(servo.Z, drive(pen.UpAngle))
	r.Write(servo.X, drive(150))
	r.Write(servo.Y, drive(150))

	paths := r.Paths()
	if len(paths) != 1 {
		t.Fatalf("got %d paths, want 1", len(paths))
	}
	path := paths[0]
	if len(path) != 2 {
		t.Fatalf("path %v, want 2 points", path)
	}
	want := geom.Pt(calib.DriveToAngle(drive(130)), calib.DriveToAngle(drive(10)))
	if path[1] != want {
		t.Errorf("path ends at %v, want %v", path[1], want)
	}
	if n := r.Writes(); n != 9+pen.DownAngle-pen.UpAngle-1 {
		t.Errorf("%d writes", n)
	}
}

func TestClosedRecorderFails(t *testing.T) {
	r := New()
	if err := r.Close(); err != nil {
		t.Fatal(err)
	}
	if err := r.Write(servo.X, 50); err == nil {
		t.Error("write after close succeeded")
	}
}

func TestLine(t *testing.T) {
	p, r := newPlotter(t)
	if err := p.RunLine(geom.Pt(10, -30), geom.Pt(10, 30)); err != nil {
		t.Fatal(err)
	}
	paths := r.Paths()
	if len(paths) != 1 {
		t.Fatalf("got %d paths, want 1", len(paths))
	}
	// The pen lands on the start point and draws every line point.
	if n := len(paths[0]); n != 1+trace.DefaultLineSteps+1 {
		t.Errorf("path has %d points", n)
	}
	if s := r.Status(); s != servo.Ready {
		t.Errorf("status %v, want ready", s)
	}
	if c := r.Carriage(); c.X != 0 || c.Y < -1 || c.Y > 1 {
		t.Errorf("carriage at %v, want origin", c)
	}
	if err := p.Close(); err != nil {
		t.Fatal(err)
	}
	if s := r.Status(); s != servo.Off {
		t.Errorf("status %v after close, want off", s)
	}
}

func TestLissajousPreview(t *testing.T) {
	p, r := newPlotter(t)
	j, err := p.RunLissajous(1, 2)
	if err != nil {
		t.Fatal(err)
	}
	if err := p.Wait(); err != nil {
		t.Fatal(err)
	}
	if n := j.Steps(); n != j.Total() {
		t.Errorf("%d of %d steps", n, j.Total())
	}
	if d := r.Drive(servo.Z); d != calib.AngleToDrive(pen.UpAngle) {
		t.Errorf("pen drive %d, want up", d)
	}
	paths := r.Paths()
	if len(paths) != 1 || len(paths[0]) != 1+j.Total() {
		t.Fatalf("got %d paths", len(paths))
	}
	var buf bytes.Buffer
	if err := r.Preview(&buf); err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	// The figure starts at 170° on X and 90° on Y.
	const scale = 4
	start := paths[0][1]
	px, py := int((calib.MaxAngle-start.X)*scale), int((calib.MaxAngle-start.Y)*scale)
	if y, _, _, _ := img.At(px, py).RGBA(); y == 0xffff {
		t.Errorf("pixel (%d,%d) at the figure start is blank", px, py)
	}
	if y, _, _, _ := img.At(1, 1).RGBA(); y != 0xffff {
		t.Error("corner pixel is not blank")
	}
	if err := p.Close(); err != nil {
		t.Fatal(err)
	}
}
