// command plotter is the operator console of the servo pen plotter.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"servoplot.dev/config"
	"servoplot.dev/motion"
)

// Version is set by the Go linker with -ldflags='-X main.Version=...'.
var Version string

var (
	configFile = flag.String("config", "", "JSON hardware configuration")
	backend    = flag.String("backend", "", "override the configured backend: gpio, maestro or sim")
	serialDev  = flag.String("device", "", "Maestro serial device")
	preview    = flag.String("preview", "", "write the simulated drawing to a PNG file")
	fast       = flag.Bool("fast", false, "simulate without waiting")
	verbose    = flag.Bool("v", false, "log indicator changes of the simulator")
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "plotter: %v\n", err)
		os.Exit(2)
	}
}

func run() error {
	flag.Parse()
	log.SetFlags(log.Flags() &^ (log.Ldate | log.Ltime))
	cfg, err := config.Load(*configFile)
	if err != nil {
		return err
	}
	if *backend != "" {
		cfg.Backend = *backend
	}
	if *serialDev != "" {
		cfg.Maestro.Device = *serialDev
	}
	if *preview != "" {
		cfg.Preview = *preview
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	hw, err := open(cfg)
	if err != nil {
		return err
	}
	p, err := motion.New(hw.out, motion.Options{
		Indicator: hw.ind,
		Clock:     hw.clock,
	})
	if err != nil {
		hw.out.Close()
		return err
	}
	if Version != "" {
		log.Printf("plotter %s (%s)", Version, cfg.Backend)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, shutdownSignals...)
	go func() {
		<-quit
		signal.Reset(shutdownSignals...)
		if err := shutdown(p, hw); err != nil {
			fmt.Fprintf(os.Stderr, "plotter: %v\n", err)
		}
		os.Exit(1)
	}()

	m := &menu{
		in:  bufio.NewScanner(os.Stdin),
		out: os.Stdout,
		p:   p,
	}
	err = m.run()
	if serr := shutdown(p, hw); err == nil {
		err = serr
	}
	return err
}

// shutdown stops any activity, parks the pen and releases the
// hardware.
func shutdown(p *motion.Plotter, hw *hardware) error {
	err := p.Close()
	if hw.done != nil {
		if derr := hw.done(); err == nil {
			err = derr
		}
	}
	return err
}
