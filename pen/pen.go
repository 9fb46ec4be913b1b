// package pen drives the pen lift servo with a slow ramp between
// its up and down angles.
package pen

import (
	"iter"
	"time"

	"servoplot.dev/servo"
)

const (
	UpAngle   = 20
	DownAngle = 50
	// StepDelay is the wait after each 1° step. An instant jump
	// between the angles makes the lift hit the paper hard.
	StepDelay = 70 * time.Millisecond
)

type State int

const (
	Up State = iota
	Down
	// Moving is any angle strictly between UpAngle and DownAngle.
	Moving
)

func (s State) String() string {
	switch s {
	case Up:
		return "up"
	case Down:
		return "down"
	default:
		return "moving"
	}
}

// Pen is the lift axis. It starts raised.
type Pen struct {
	bank  *servo.Bank
	sleep func(time.Duration)
	angle int
}

func New(bank *servo.Bank, sleep func(time.Duration)) *Pen {
	return &Pen{
		bank:  bank,
		sleep: sleep,
		angle: UpAngle,
	}
}

// Ramp returns the angles visited moving from one angle to
// another in 1° steps, excluding from and including to.
func Ramp(from, to int) iter.Seq[int] {
	return func(yield func(int) bool) {
		step := 1
		if to < from {
			step = -1
		}
		for a := from; a != to; {
			a += step
			if !yield(a) {
				return
			}
		}
	}
}

// Park commands the current angle without ramping.
func (p *Pen) Park() {
	p.bank.SetAngle(servo.Z, float64(p.angle))
}

// Raise ramps the pen to UpAngle. It blocks until the pen is up.
func (p *Pen) Raise() {
	p.rampTo(UpAngle)
}

// Lower ramps the pen to DownAngle. It blocks until the pen is down.
func (p *Pen) Lower() {
	p.rampTo(DownAngle)
}

func (p *Pen) rampTo(to int) {
	for a := range Ramp(p.angle, to) {
		p.angle = a
		p.bank.SetAngle(servo.Z, float64(a))
		p.sleep(StepDelay)
	}
}

func (p *Pen) Angle() int {
	return p.angle
}

func (p *Pen) State() State {
	switch {
	case p.angle <= UpAngle:
		return Up
	case p.angle >= DownAngle:
		return Down
	default:
		return Moving
	}
}
