package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"servoplot.dev/calib"
	"servoplot.dev/geom"
	"servoplot.dev/motion"
	"servoplot.dev/trace"
)

type plotter interface {
	RunLine(a, b geom.Point) error
	RunLissajous(n1, n2 int) (*motion.Job, error)
	RunSpiral() error
}

// menu is the text console. It validates operator input and
// re-prompts until it is valid.
type menu struct {
	in  *bufio.Scanner
	out io.Writer
	p   plotter
}

// errQuit ends the menu.
var errQuit = errors.New("quit")

func (m *menu) run() error {
	for {
		fmt.Fprint(m.out, "\n=== MENU ===\n1. Line\n2. Lissajous figure\n3. Fibonacci spiral\nq. Quit\n")
		opt, err := m.prompt("Option: ")
		if err != nil {
			return ignoreQuit(err)
		}
		switch opt {
		case "1":
			err = m.line()
		case "2":
			err = m.lissajous()
		case "3":
			err = m.p.RunSpiral()
			if err == nil {
				fmt.Fprintln(m.out, "Spiral done")
			}
		case "q":
			return nil
		default:
			fmt.Fprintln(m.out, "ERROR: unknown option")
			continue
		}
		switch {
		case errors.Is(err, errQuit), errors.Is(err, motion.ErrClosed):
			return ignoreQuit(err)
		case err != nil:
			fmt.Fprintf(m.out, "ERROR: %v\n", err)
		}
	}
}

func ignoreQuit(err error) error {
	if errors.Is(err, errQuit) || errors.Is(err, motion.ErrClosed) {
		return nil
	}
	return err
}

// prompt reads a line of input. End of input is errQuit.
func (m *menu) prompt(label string) (string, error) {
	fmt.Fprint(m.out, label)
	if !m.in.Scan() {
		if err := m.in.Err(); err != nil {
			return "", err
		}
		return "", errQuit
	}
	return strings.TrimSpace(m.in.Text()), nil
}

func (m *menu) line() error {
	fmt.Fprintln(m.out, "Start point")
	a, err := m.point("1")
	if err != nil {
		return err
	}
	fmt.Fprintln(m.out, "End point")
	b, err := m.point("2")
	if err != nil {
		return err
	}
	if err := m.p.RunLine(a, b); err != nil {
		return err
	}
	fmt.Fprintln(m.out, "Line done")
	return nil
}

// point reads a coordinate pair within the drawing frame.
func (m *menu) point(suffix string) (geom.Point, error) {
	f := calib.Frame
	for {
		x, err := m.prompt(fmt.Sprintf("x%s (%g to %g): ", suffix, f.Min.X, f.Max.X))
		if err != nil {
			return geom.Point{}, err
		}
		y, err := m.prompt(fmt.Sprintf("y%s (%g to %g): ", suffix, f.Min.Y, f.Max.Y))
		if err != nil {
			return geom.Point{}, err
		}
		p, ok := parsePoint(x, y)
		if ok {
			return p, nil
		}
		fmt.Fprintln(m.out, "ERROR: invalid coordinates")
	}
}

func parsePoint(x, y string) (geom.Point, bool) {
	px, err := strconv.ParseFloat(x, 64)
	if err != nil {
		return geom.Point{}, false
	}
	py, err := strconv.ParseFloat(y, 64)
	if err != nil {
		return geom.Point{}, false
	}
	p := geom.Pt(px, py)
	return p, calib.Frame.Contains(p)
}

func (m *menu) lissajous() error {
	fmt.Fprintf(m.out, "Frequency ratio X:Y, at most %d:%d\n", trace.MaxRatio, trace.MaxRatio)
	for {
		in, err := m.prompt("X:Y = ")
		if err != nil {
			return err
		}
		n1, n2, err := parseRatio(in)
		if err != nil {
			fmt.Fprintf(m.out, "ERROR: %v\n", err)
			continue
		}
		j, err := m.p.RunLissajous(n1, n2)
		if err != nil {
			return err
		}
		fmt.Fprintf(m.out, "Drawing %d:%d in %d steps\n", n1, n2, j.Total())
		return nil
	}
}

// parseRatio parses a frequency ratio such as "1:2".
func parseRatio(s string) (n1, n2 int, err error) {
	a, b, ok := strings.Cut(s, ":")
	if !ok {
		return 0, 0, fmt.Errorf("invalid format %q, for example 1:2", s)
	}
	n1, err1 := strconv.Atoi(strings.TrimSpace(a))
	n2, err2 := strconv.Atoi(strings.TrimSpace(b))
	if err1 != nil || err2 != nil {
		return 0, 0, fmt.Errorf("invalid format %q, for example 1:2", s)
	}
	if n1 < 1 || n1 > trace.MaxRatio || n2 < 1 || n2 > trace.MaxRatio {
		return 0, 0, fmt.Errorf("invalid ratio %d:%d", n1, n2)
	}
	return n1, n2, nil
}
