// Package config defines the clubtime configuration structures and loads
// them from YAML, following the convention of one yaml-tagged struct per
// concern with a DefaultConfig constructor.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/jholhewres/clubtime/pkg/clubtime/timeparse"
)

// Config holds all clubtime configuration.
type Config struct {
	// DefaultContext is the parsing context used when a caller does not
	// name one ("general", "event", "dues", "reminder").
	DefaultContext string `yaml:"default_context"`

	// Renderer selects the timestamp token format ("discord").
	Renderer string `yaml:"renderer"`

	// Anchors are the part-of-day default hours.
	Anchors AnchorsConfig `yaml:"anchors"`

	// Futureness bounds the scheduling policy check.
	Futureness FuturenessConfig `yaml:"futureness"`
}

// AnchorsConfig configures the hour used for each part-of-day word.
type AnchorsConfig struct {
	Morning   int `yaml:"morning"`
	Afternoon int `yaml:"afternoon"`
	Evening   int `yaml:"evening"`
	Night     int `yaml:"night"`
}

// FuturenessConfig configures the event-time policy check.
type FuturenessConfig struct {
	// MinAdvanceMinutes is the minimum lead time for a scheduled moment.
	MinAdvanceMinutes int `yaml:"min_advance_minutes"`

	// MaxAdvanceDays is the farthest a moment may be scheduled out.
	MaxAdvanceDays int `yaml:"max_advance_days"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	a := timeparse.DefaultAnchors()
	return Config{
		DefaultContext: string(timeparse.ContextGeneral),
		Renderer:       "discord",
		Anchors: AnchorsConfig{
			Morning:   a.Morning,
			Afternoon: a.Afternoon,
			Evening:   a.Evening,
			Night:     a.Night,
		},
		Futureness: FuturenessConfig{
			MinAdvanceMinutes: 5,
			MaxAdvanceDays:    365,
		},
	}
}

// Load reads a YAML config file, layering it over the defaults. An empty
// path returns the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks field ranges.
func (c Config) Validate() error {
	for name, h := range map[string]int{
		"morning":   c.Anchors.Morning,
		"afternoon": c.Anchors.Afternoon,
		"evening":   c.Anchors.Evening,
		"night":     c.Anchors.Night,
	} {
		if h < 0 || h > 23 {
			return fmt.Errorf("anchor %s: hour %d out of range (0-23)", name, h)
		}
	}
	if c.Futureness.MinAdvanceMinutes < 0 {
		return fmt.Errorf("futureness: min_advance_minutes cannot be negative")
	}
	if c.Futureness.MaxAdvanceDays <= 0 {
		return fmt.Errorf("futureness: max_advance_days must be positive")
	}
	if c.Renderer != "discord" {
		return fmt.Errorf("unknown renderer %q", c.Renderer)
	}
	return nil
}

// Context returns the configured default parsing context.
func (c Config) Context() timeparse.Context {
	return timeparse.Context(c.DefaultContext)
}

// NewParser builds a timeparse.Parser from the configuration.
func (c Config) NewParser() (*timeparse.Parser, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	p := timeparse.New()
	p.Anchors = timeparse.Anchors{
		Morning:   c.Anchors.Morning,
		Afternoon: c.Anchors.Afternoon,
		Evening:   c.Anchors.Evening,
		Night:     c.Anchors.Night,
	}
	return p, nil
}
