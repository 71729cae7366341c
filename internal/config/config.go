// internal/config/config.go
package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so the yaml file accepts "300ms" style values.
type Duration time.Duration

func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err == nil {
		parsed, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", s, err)
		}
		*d = Duration(parsed)
		return nil
	}
	// Bare integers are taken as nanoseconds, matching time.Duration.
	var n int64
	if err := value.Decode(&n); err != nil {
		return fmt.Errorf("invalid duration %q", value.Value)
	}
	*d = Duration(n)
	return nil
}

type Config struct {
	// Engine
	Workers int `yaml:"workers"`

	// Watcher
	Debounce     Duration `yaml:"debounce"`
	QuietWindow  Duration `yaml:"quiet_window"`
	PollInterval Duration `yaml:"poll_interval"`
	AutoRefresh  bool     `yaml:"auto_refresh"`
}

func NewConfig() *Config {
	return &Config{
		Workers:      4,
		Debounce:     Duration(300 * time.Millisecond),
		QuietWindow:  Duration(500 * time.Millisecond),
		PollInterval: Duration(5 * time.Second),
		AutoRefresh:  true,
	}
}

// Normalize clamps values that would make the engine useless or hostile.
func (c *Config) Normalize() {
	if c.Workers < 1 {
		c.Workers = 1
	}
	if c.Workers > 16 {
		c.Workers = 16
	}
	if c.Debounce <= 0 {
		c.Debounce = Duration(300 * time.Millisecond)
	}
	if c.QuietWindow < 0 {
		c.QuietWindow = 0
	}
	if c.PollInterval < Duration(time.Second) {
		c.PollInterval = Duration(time.Second)
	}
}
