// package motion schedules the plotter's drawing activities: the
// blocking line and spiral tracers and the periodically ticked
// Lissajous job. At most one activity commands the servos at a time.
package motion

import (
	"errors"
	"iter"
	"log"
	"sync"
	"time"

	"servoplot.dev/calib"
	"servoplot.dev/geom"
	"servoplot.dev/pen"
	"servoplot.dev/servo"
	"servoplot.dev/trace"
)

const (
	LineStepDelay   = 10 * time.Millisecond
	SpiralStepDelay = 15 * time.Millisecond
	// TickInterval is the period of the Lissajous job ticks.
	TickInterval = time.Second / 30
)

var (
	// ErrInterrupted is returned by an activity aborted by Close.
	ErrInterrupted = errors.New("motion: interrupted")
	// ErrClosed is returned by activities started after Close.
	ErrClosed = errors.New("motion: plotter closed")
)

type Options struct {
	// Indicator defaults to servo.NopIndicator.
	Indicator servo.Indicator
	// Clock defaults to SystemClock.
	Clock Clock
	// Log defaults to log.Default().
	Log *log.Logger
}

// Plotter owns the servos, the pen and the current position, and
// arbitrates which activity commands them.
//
// Run methods are meant to be called from a single goroutine. Close
// may be called from any goroutine.
type Plotter struct {
	bank  *servo.Bank
	pen   *pen.Pen
	ind   servo.Indicator
	clock Clock
	log   *log.Logger
	pos   Position

	// own holds the ownership token of the servos, the pen and the
	// position. Only the goroutine holding it may command them.
	own  chan struct{}
	quit chan struct{}

	closeOnce sync.Once
	closeErr  error

	mu  sync.Mutex
	job *Job
}

// New seats the pen and the carriage at the origin and returns a
// ready plotter.
func New(out servo.Output, opts Options) (*Plotter, error) {
	p := &Plotter{
		bank:  servo.NewBank(out),
		ind:   opts.Indicator,
		clock: opts.Clock,
		log:   opts.Log,
		own:   make(chan struct{}, 1),
		quit:  make(chan struct{}),
	}
	if p.ind == nil {
		p.ind = servo.NopIndicator{}
	}
	if p.clock == nil {
		p.clock = SystemClock{}
	}
	if p.log == nil {
		p.log = log.Default()
	}
	p.pen = pen.New(p.bank, p.clock.Sleep)
	p.pen.Park()
	p.command(geom.Point{})
	if err := p.bank.TakeErr(); err != nil {
		return nil, err
	}
	p.ind.SetStatus(servo.Ready)
	p.own <- struct{}{}
	return p, nil
}

// Position returns the current logical pen position.
func (p *Plotter) Position() geom.Point {
	return p.pos.Load()
}

// PenState returns the state of the pen lift. It is only meaningful
// while no activity is running.
func (p *Plotter) PenState() pen.State {
	return p.pen.State()
}

// acquire stops any running job, waits for it to finish its shutdown
// sequence and takes the ownership token.
func (p *Plotter) acquire() error {
	p.stopJob()
	select {
	case <-p.quit:
		return ErrClosed
	case <-p.own:
	}
	select {
	case <-p.quit:
		p.release()
		return ErrClosed
	default:
	}
	return nil
}

func (p *Plotter) release() {
	p.own <- struct{}{}
}

func (p *Plotter) stopJob() {
	p.mu.Lock()
	j := p.job
	p.mu.Unlock()
	if j == nil {
		return
	}
	j.Cancel()
	<-j.done
}

// RunLine draws a line from a to b. The pen travels raised from
// the current position to a and returns raised to the origin
// afterwards. Points outside calib.Frame are clamped.
func (p *Plotter) RunLine(a, b geom.Point) error {
	if err := p.acquire(); err != nil {
		return err
	}
	defer p.release()
	a, b = calib.Frame.Clamp(a), calib.Frame.Clamp(b)
	p.ind.SetStatus(servo.Busy)
	p.pen.Raise()
	if err := p.line(a); err != nil {
		return p.finish(err)
	}
	p.pen.Lower()
	if err := p.line(b); err != nil {
		return p.finish(err)
	}
	p.pen.Raise()
	return p.finish(p.returnToOrigin())
}

// RunSpiral draws the default Fibonacci spiral and returns to the
// origin.
func (p *Plotter) RunSpiral() error {
	return p.runSpiral(trace.DefaultSpiral)
}

func (p *Plotter) runSpiral(params trace.SpiralParams) error {
	if err := p.acquire(); err != nil {
		return err
	}
	defer p.release()
	p.ind.SetStatus(servo.Busy)
	p.pen.Raise()
	if err := p.line(params.Center); err != nil {
		return p.finish(err)
	}
	p.pen.Lower()
	if err := p.follow(trace.Spiral(params), SpiralStepDelay, true); err != nil {
		return p.finish(err)
	}
	p.pen.Raise()
	return p.finish(p.returnToOrigin())
}

func (p *Plotter) returnToOrigin() error {
	p.ind.SetStatus(servo.Returning)
	return p.line(geom.Point{})
}

// finish collects pending write errors and signals the end of an
// activity.
func (p *Plotter) finish(err error) error {
	if berr := p.bank.TakeErr(); err == nil {
		err = berr
	}
	if !errors.Is(err, ErrInterrupted) {
		p.ind.SetStatus(servo.Ready)
	}
	return err
}

// line moves in a straight line from the current position to `to`
// and updates the position when done.
func (p *Plotter) line(to geom.Point) error {
	from := p.pos.Load()
	if err := p.follow(trace.Line(from, to, trace.DefaultLineSteps), LineStepDelay, false); err != nil {
		return err
	}
	p.pos.Store(to)
	return nil
}

// follow commands the carriage through pts, waiting delay after
// each point. If track is set, the position follows every point.
func (p *Plotter) follow(pts iter.Seq[geom.Point], delay time.Duration, track bool) error {
	for pt := range pts {
		select {
		case <-p.quit:
			return ErrInterrupted
		default:
		}
		p.command(pt)
		if err := p.bank.Err(); err != nil {
			return err
		}
		if track {
			p.pos.Store(pt)
		}
		p.clock.Sleep(delay)
	}
	return nil
}

func (p *Plotter) command(pt geom.Point) {
	p.bank.SetAngle(servo.X, calib.XToAngle(pt.X))
	p.bank.SetAngle(servo.Y, calib.YToAngle(pt.Y))
}

// Close aborts the running activity, raises the pen and releases
// the servos. The position is left where it was. Close is safe to
// call more than once.
func (p *Plotter) Close() error {
	p.closeOnce.Do(func() {
		close(p.quit)
		p.mu.Lock()
		j := p.job
		p.mu.Unlock()
		if j != nil {
			<-j.done
		}
		<-p.own
		p.pen.Raise()
		p.ind.SetStatus(servo.Off)
		err := p.bank.TakeErr()
		if cerr := p.bank.Close(); err == nil {
			err = cerr
		}
		p.closeErr = err
	})
	return p.closeErr
}
