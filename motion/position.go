package motion

import (
	"sync"

	"servoplot.dev/geom"
)

// Position is the current logical pen position. It is written only
// by the holder of the plotter's ownership token, but may be read
// from anywhere.
type Position struct {
	mu sync.Mutex
	p  geom.Point
}

func (p *Position) Load() geom.Point {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.p
}

func (p *Position) Store(pt geom.Point) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.p = pt
}
