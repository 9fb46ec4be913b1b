package sim

import (
	"sync"
	"time"

	"servoplot.dev/motion"
)

// Clock is a motion.Clock that never waits. Sleeps return at once
// and tickers fire as fast as they are received.
type Clock struct{}

func (Clock) Sleep(time.Duration) {}

func (Clock) NewTicker(time.Duration) motion.Ticker {
	t := &ticker{
		c:    make(chan time.Time),
		stop: make(chan struct{}),
	}
	go t.run()
	return t
}

type ticker struct {
	c    chan time.Time
	stop chan struct{}
	once sync.Once
}

func (t *ticker) run() {
	for {
		select {
		case t.c <- time.Now():
		case <-t.stop:
			return
		}
	}
}

func (t *ticker) C() <-chan time.Time {
	return t.c
}

func (t *ticker) Stop() {
	t.once.Do(func() {
		close(t.stop)
	})
}
