// package config describes how the plotter is wired to its hardware.
package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Backends.
const (
	GPIO    = "gpio"
	Maestro = "maestro"
	Sim     = "sim"
)

type Config struct {
	// Backend is one of GPIO, Maestro or Sim.
	Backend string    `json:"backend"`
	GPIO    GPIOPins  `json:"gpio"`
	Maestro MaestroIO `json:"maestro"`
	// Preview is the PNG file the Sim backend renders the drawing
	// into. Empty means no preview.
	Preview string `json:"preview"`
}

// GPIOPins are the periph.io pin names of the GPIO backend.
type GPIOPins struct {
	X string `json:"x"`
	Y string `json:"y"`
	// Z is the pen lift.
	Z    string  `json:"z"`
	LEDs LEDPins `json:"leds"`
}

type LEDPins struct {
	Ready     string `json:"ready"`
	Busy      string `json:"busy"`
	Returning string `json:"returning"`
}

type MaestroIO struct {
	Device string `json:"device"`
	Baud   int    `json:"baud"`
	// DeviceNumber selects the Pololu protocol addressing the
	// given device number. Zero means the compact protocol.
	DeviceNumber int           `json:"device_number"`
	Servos       ServoChannels `json:"servos"`
	LEDs         LEDChannels   `json:"leds"`
}

type ServoChannels struct {
	X int `json:"x"`
	Y int `json:"y"`
	Z int `json:"z"`
}

type LEDChannels struct {
	Ready     int `json:"ready"`
	Busy      int `json:"busy"`
	Returning int `json:"returning"`
}

// Default returns the wiring of the reference build: a Raspberry Pi
// driving the servos and LEDs from its GPIO header.
func Default() *Config {
	c := new(Config)
	applyDefaults(c)
	return c
}

// Load reads the JSON configuration at path. Missing fields take
// their default values. An empty path returns Default.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return c, nil
}

// Parse parses a JSON configuration and applies defaults.
func Parse(data []byte) (*Config, error) {
	c := new(Config)
	if err := json.Unmarshal(data, c); err != nil {
		return nil, err
	}
	applyDefaults(c)
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) Validate() error {
	switch c.Backend {
	case GPIO, Maestro, Sim:
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}
	if m := c.Maestro; m.DeviceNumber < 0 || m.DeviceNumber > 127 {
		return fmt.Errorf("maestro device number %d out of range", m.DeviceNumber)
	}
	return nil
}

func applyDefaults(c *Config) {
	if c.Backend == "" {
		c.Backend = GPIO
	}
	g := &c.GPIO
	if g.X == "" {
		g.X = "GPIO27"
	}
	if g.Y == "" {
		g.Y = "GPIO12"
	}
	if g.Z == "" {
		g.Z = "GPIO14"
	}
	if g.LEDs.Ready == "" {
		g.LEDs.Ready = "GPIO15"
	}
	if g.LEDs.Busy == "" {
		g.LEDs.Busy = "GPIO2"
	}
	if g.LEDs.Returning == "" {
		g.LEDs.Returning = "GPIO4"
	}
	m := &c.Maestro
	if m.Baud == 0 {
		m.Baud = 9600
	}
	// Channel 0 is valid, so the maps default only as a whole.
	if m.Servos == (ServoChannels{}) {
		m.Servos = ServoChannels{X: 0, Y: 1, Z: 2}
	}
	if m.LEDs == (LEDChannels{}) {
		m.LEDs = LEDChannels{Ready: 3, Busy: 4, Returning: 5}
	}
}
