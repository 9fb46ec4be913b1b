package motion

import "time"

// Clock paces the plotter. Sleeps are part of the mechanical
// contract and real clocks must not shorten them.
type Clock interface {
	Sleep(d time.Duration)
	NewTicker(d time.Duration) Ticker
}

// Ticker delivers the periodic ticks of a job.
type Ticker interface {
	C() <-chan time.Time
	// Stop stops the ticks. It may be called more than once.
	Stop()
}

// SystemClock is the wall clock.
type SystemClock struct{}

func (SystemClock) Sleep(d time.Duration) {
	time.Sleep(d)
}

func (SystemClock) NewTicker(d time.Duration) Ticker {
	return systemTicker{time.NewTicker(d)}
}

type systemTicker struct {
	t *time.Ticker
}

func (t systemTicker) C() <-chan time.Time {
	return t.t.C
}

func (t systemTicker) Stop() {
	t.t.Stop()
}
