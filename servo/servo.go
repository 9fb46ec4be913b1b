// package servo defines the actuator and indicator interfaces of the
// plotter and the Bank that commands calibrated angles through them.
package servo

import (
	"fmt"

	"servoplot.dev/calib"
)

// Axis identifies one of the plotter's servos.
type Axis int

const (
	X Axis = iota
	Y
	// Z is the pen lift.
	Z
	NumAxes
)

func (a Axis) String() string {
	switch a {
	case X:
		return "X"
	case Y:
		return "Y"
	case Z:
		return "Z"
	default:
		return fmt.Sprintf("Axis(%d)", int(a))
	}
}

// Output writes drive signals to servo outputs. Drive signals are
// in units of calib.DriveFull.
type Output interface {
	Write(axis Axis, drive int) error
	// Close stops the servo signals and releases the outputs.
	Close() error
}

// Status is the operator feedback shown by an Indicator.
type Status int

const (
	Off Status = iota
	Ready
	Busy
	Returning
)

func (s Status) String() string {
	switch s {
	case Off:
		return "off"
	case Ready:
		return "ready"
	case Busy:
		return "busy"
	case Returning:
		return "returning"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

type Indicator interface {
	SetStatus(s Status)
}

// NopIndicator ignores status changes.
type NopIndicator struct{}

func (NopIndicator) SetStatus(Status) {}

// Bank commands calibrated angles to an Output.
//
// Write errors are sticky: after the first failure, writes are
// skipped until the error is collected with TakeErr.
type Bank struct {
	out    Output
	angles [NumAxes]float64
	err    error
}

func NewBank(out Output) *Bank {
	return &Bank{out: out}
}

// SetAngle clamps angle to [0,180] and writes the matching drive
// signal.
func (b *Bank) SetAngle(axis Axis, angle float64) {
	angle = calib.ClampAngle(angle)
	b.angles[axis] = angle
	if b.err != nil {
		return
	}
	if err := b.out.Write(axis, calib.AngleToDrive(angle)); err != nil {
		b.err = fmt.Errorf("servo: %v: %w", axis, err)
	}
}

// Angle returns the last angle commanded to axis.
func (b *Bank) Angle(axis Axis) float64 {
	return b.angles[axis]
}

// Err returns the pending write error, if any.
func (b *Bank) Err() error {
	return b.err
}

// TakeErr returns and clears the first write error since the
// previous call.
func (b *Bank) TakeErr() error {
	err := b.err
	b.err = nil
	return err
}

func (b *Bank) Close() error {
	return b.out.Close()
}
