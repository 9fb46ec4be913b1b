package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"testing"

	"servoplot.dev/driver/sim"
	"servoplot.dev/geom"
	"servoplot.dev/motion"
)

type call struct {
	op   string
	args string
}

// fakePlotter records activities on top of a simulated plotter.
type fakePlotter struct {
	p     *motion.Plotter
	calls []call
	err   error
}

func (f *fakePlotter) RunLine(a, b geom.Point) error {
	f.calls = append(f.calls, call{"line", fmt.Sprint(a, b)})
	if f.err != nil {
		return f.err
	}
	return f.p.RunLine(a, b)
}

func (f *fakePlotter) RunLissajous(n1, n2 int) (*motion.Job, error) {
	f.calls = append(f.calls, call{"lissajous", fmt.Sprintf("%d:%d", n1, n2)})
	if f.err != nil {
		return nil, f.err
	}
	return f.p.RunLissajous(n1, n2)
}

func (f *fakePlotter) RunSpiral() error {
	f.calls = append(f.calls, call{"spiral", ""})
	if f.err != nil {
		return f.err
	}
	return f.p.RunSpiral()
}

func runMenu(t *testing.T, input string, err error) (*fakePlotter, string, error) {
	t.Helper()
	r := sim.New()
	p, perr := motion.New(r, motion.Options{
		Indicator: r,
		Clock:     sim.Clock{},
		Log:       log.New(io.Discard, "", 0),
	})
	if perr != nil {
		t.Fatal(perr)
	}
	t.Cleanup(func() { p.Close() })
	f := &fakePlotter{p: p, err: err}
	out := new(strings.Builder)
	m := &menu{
		in:  bufio.NewScanner(strings.NewReader(input)),
		out: out,
		p:   f,
	}
	merr := m.run()
	return f, out.String(), merr
}

func TestMenu(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		calls  []call
		output []string
	}{
		{
			name:   "line",
			input:  "1\n10\n-5\n60\n20\nq\n",
			calls:  []call{{"line", "(10,-5) (60,20)"}},
			output: []string{"Line done"},
		},
		{
			name:   "line retries",
			input:  "1\n70\n0\nx\n0\n0\n0\n65\n40\n",
			calls:  []call{{"line", "(0,0) (65,40)"}},
			output: []string{"invalid coordinates"},
		},
		{
			name:   "lissajous",
			input:  "2\n1:2\n",
			calls:  []call{{"lissajous", "1:2"}},
			output: []string{"Drawing 1:2 in 800 steps"},
		},
		{
			name:   "lissajous retries",
			input:  "2\n12\n5:1\na:b\n 4 : 4 \n",
			calls:  []call{{"lissajous", "4:4"}},
			output: []string{"for example 1:2", "invalid ratio 5:1"},
		},
		{
			name:   "spiral",
			input:  "3\nq\n",
			calls:  []call{{"spiral", ""}},
			output: []string{"Spiral done"},
		},
		{
			name:   "unknown option",
			input:  "7\n\n",
			output: []string{"unknown option"},
		},
		{
			name:  "end of input",
			input: "1\n10\n",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			f, out, err := runMenu(t, test.input, nil)
			if err != nil {
				t.Fatal(err)
			}
			if fmt.Sprint(f.calls) != fmt.Sprint(test.calls) {
				t.Errorf("calls %v, want %v", f.calls, test.calls)
			}
			for _, o := range test.output {
				if !strings.Contains(out, o) {
					t.Errorf("output missing %q:\n%s", o, out)
				}
			}
		})
	}
}

func TestMenuErrors(t *testing.T) {
	broken := errors.New("servo unplugged")
	f, out, err := runMenu(t, "3\n3\n", broken)
	if err != nil {
		t.Fatal(err)
	}
	if len(f.calls) != 2 {
		t.Errorf("calls %v, want two spirals", f.calls)
	}
	if !strings.Contains(out, "ERROR: servo unplugged") {
		t.Errorf("error not reported:\n%s", out)
	}

	f, _, err = runMenu(t, "3\n3\n", motion.ErrClosed)
	if err != nil {
		t.Fatal(err)
	}
	if len(f.calls) != 1 {
		t.Errorf("menu continued after close: %v", f.calls)
	}
}

func TestParseRatio(t *testing.T) {
	tests := []struct {
		in     string
		n1, n2 int
		ok     bool
	}{
		{"1:2", 1, 2, true},
		{"4:4", 4, 4, true},
		{"0:1", 0, 0, false},
		{"1:5", 0, 0, false},
		{"1-2", 0, 0, false},
		{"1:", 0, 0, false},
		{"", 0, 0, false},
	}
	for _, test := range tests {
		n1, n2, err := parseRatio(test.in)
		if ok := err == nil; ok != test.ok || n1 != test.n1 || n2 != test.n2 {
			t.Errorf("parseRatio(%q) = %d, %d, %v", test.in, n1, n2, err)
		}
	}
}
