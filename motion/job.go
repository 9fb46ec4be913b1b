package motion

import (
	"fmt"
	"sync"
	"sync/atomic"

	"servoplot.dev/servo"
	"servoplot.dev/trace"
)

type JobState int32

const (
	Idle JobState = iota
	Running
	ShuttingDown
	Done
)

func (s JobState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case ShuttingDown:
		return "shutting down"
	case Done:
		return "done"
	default:
		return fmt.Sprintf("JobState(%d)", int32(s))
	}
}

// Job is a Lissajous figure advanced one step per tick. When the
// figure completes or the job is cancelled, the job raises the pen,
// returns to the origin and releases the plotter.
type Job struct {
	curve *trace.Lissajous
	ratio [2]int

	state  atomic.Int32
	steps  atomic.Int64
	cancel chan struct{}
	once   sync.Once
	done   chan struct{}
	// err is valid after done is closed.
	err error
}

func (j *Job) State() JobState {
	return JobState(j.state.Load())
}

// Running reports whether the job is still stepping its figure.
func (j *Job) Running() bool {
	return j.State() == Running
}

// Steps returns the number of figure steps taken.
func (j *Job) Steps() int {
	return int(j.steps.Load())
}

// Total returns the number of steps of the complete figure.
func (j *Job) Total() int {
	return j.curve.Total()
}

// Cancel requests the job to stop. The job observes the request at
// its next tick and runs its shutdown sequence.
func (j *Job) Cancel() {
	j.once.Do(func() {
		close(j.cancel)
	})
}

// Done is closed when the job has stopped commanding the plotter.
func (j *Job) Done() <-chan struct{} {
	return j.done
}

// Err returns the job error. It must only be called after Done is
// closed.
func (j *Job) Err() error {
	return j.err
}

// RunLissajous lowers the pen and starts drawing the Lissajous
// figure of frequency ratio n1:n2 in the background. Terms are
// clamped to [1,trace.MaxRatio].
func (p *Plotter) RunLissajous(n1, n2 int) (*Job, error) {
	if err := p.acquire(); err != nil {
		return nil, err
	}
	j := &Job{
		curve:  trace.NewLissajous(n1, n2),
		ratio:  [2]int{n1, n2},
		cancel: make(chan struct{}),
		done:   make(chan struct{}),
	}
	p.ind.SetStatus(servo.Busy)
	p.pen.Lower()
	if err := p.bank.Err(); err != nil {
		err = p.finish(err)
		p.release()
		return nil, err
	}
	j.state.Store(int32(Running))
	p.mu.Lock()
	p.job = j
	p.mu.Unlock()
	t := p.clock.NewTicker(TickInterval)
	p.log.Printf("motion: lissajous %d:%d started, %d steps", n1, n2, j.Total())
	// The ownership token passes to the job goroutine.
	go p.runJob(j, t)
	return j, nil
}

// Wait blocks until the most recent job has finished and returns
// its error.
func (p *Plotter) Wait() error {
	p.mu.Lock()
	j := p.job
	p.mu.Unlock()
	if j == nil {
		return nil
	}
	<-j.done
	return j.err
}

func (p *Plotter) runJob(j *Job, t Ticker) {
	defer func() {
		t.Stop()
		p.release()
		close(j.done)
	}()
	for {
		select {
		case <-p.quit:
			j.err = ErrInterrupted
			j.state.Store(int32(Done))
			p.log.Printf("motion: lissajous %d:%d aborted after %d steps", j.ratio[0], j.ratio[1], j.Steps())
			return
		case <-t.C():
		}
		if !p.tick(j, t) {
			return
		}
	}
}

// tick advances the job by one step, or shuts it down if it is
// cancelled or complete. It reports whether the job is still
// running.
func (p *Plotter) tick(j *Job, t Ticker) bool {
	select {
	case <-j.cancel:
	default:
		if p.bank.Err() != nil {
			break
		}
		if x, y, ok := j.curve.Next(); ok {
			p.bank.SetAngle(servo.X, x)
			p.bank.SetAngle(servo.Y, y)
			j.steps.Store(int64(j.curve.Steps()))
			return true
		}
	}
	j.state.Store(int32(ShuttingDown))
	t.Stop()
	p.pen.Raise()
	j.err = p.finish(p.returnToOrigin())
	j.state.Store(int32(Done))
	if j.err != nil {
		p.log.Printf("motion: lissajous %d:%d: %v", j.ratio[0], j.ratio[1], j.err)
	} else {
		p.log.Printf("motion: lissajous %d:%d done after %d steps", j.ratio[0], j.ratio[1], j.Steps())
	}
	return false
}
