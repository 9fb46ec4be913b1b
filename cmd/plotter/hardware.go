package main

import (
	"fmt"
	"log"

	"servoplot.dev/config"
	"servoplot.dev/driver/gpiopwm"
	"servoplot.dev/driver/maestro"
	"servoplot.dev/driver/sim"
	"servoplot.dev/motion"
	"servoplot.dev/servo"
)

type hardware struct {
	out   servo.Output
	ind   servo.Indicator
	clock motion.Clock
	// done runs after the plotter is closed.
	done func() error
}

func open(cfg *config.Config) (*hardware, error) {
	switch cfg.Backend {
	case config.GPIO:
		s, leds, err := gpiopwm.Open(cfg.GPIO)
		if err != nil {
			return nil, err
		}
		return &hardware{out: s, ind: leds}, nil
	case config.Maestro:
		c, err := maestro.Open(cfg.Maestro)
		if err != nil {
			return nil, err
		}
		if err := c.Errors(); err != nil {
			log.Printf("plotter: %v", err)
		}
		return &hardware{out: c, ind: c}, nil
	case config.Sim:
		r := sim.New()
		if *verbose {
			r.Log = log.Default()
		}
		hw := &hardware{out: r, ind: r}
		if *fast {
			hw.clock = sim.Clock{}
		}
		if path := cfg.Preview; path != "" {
			hw.done = func() error {
				return r.SavePreview(path)
			}
		}
		return hw, nil
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}
