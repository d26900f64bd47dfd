// Package config handles putater.toml machine configuration.
package config

import (
	"errors"
	"os"

	"github.com/BurntSushi/toml"
)

const (
	DEFAULT_REGISTERS = 16
	DEFAULT_MEMORY    = 16 * 256 // Sixteen pages.
	DEFAULT_STEPS     = 1000
)

// Config represents a putater.toml configuration.
type Config struct {
	Machine Machine        `toml:"machine"`
	Define  map[string]int `toml:"define"` // Predefined assembler definitions.
}

// Machine configures the simulated processor.
type Machine struct {
	Registers int  `toml:"registers"`
	Memory    int  `toml:"memory"` // Bytes.
	Steps     int  `toml:"steps"`  // Tick budget per run.
	Verbose   bool `toml:"verbose"`
}

// Default returns the reference machine.
func Default() *Config {
	return &Config{
		Machine: Machine{
			Registers: DEFAULT_REGISTERS,
			Memory:    DEFAULT_MEMORY,
			Steps:     DEFAULT_STEPS,
		},
	}
}

// Parse decodes TOML text over the defaults.
func Parse(data []byte) (*Config, error) {
	c := Default()
	if err := toml.Unmarshal(data, c); err != nil {
		return nil, errors.Join(ErrSyntax, err)
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	return c, nil
}

// Load parses a TOML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return Parse(data)
}

// Validate rejects machines that cannot run.
func (c *Config) Validate() error {
	m := &c.Machine
	if m.Registers < 1 || m.Registers > DEFAULT_REGISTERS {
		return &ErrMachine{Setting: "registers", Value: m.Registers, Min: 1, Max: DEFAULT_REGISTERS}
	}
	if m.Memory < 0 {
		return &ErrMachine{Setting: "memory", Value: m.Memory, Min: 0}
	}
	if m.Steps < 1 {
		return &ErrMachine{Setting: "steps", Value: m.Steps, Min: 1}
	}

	return nil
}
