package world

import (
	"io"
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/zeusync/worldcore/internal/core/observability/log"
	"github.com/zeusync/worldcore/internal/core/system"
)

// Config describes one world.
type Config struct {
	Name string `json:"name" yaml:"name"`
	// Index is the world's slot in the global handler registry.
	Index      int             `json:"index" yaml:"index"`
	Tick       time.Duration   `json:"tick" yaml:"tick"`
	Simulating bool            `json:"simulating" yaml:"simulating"`
	LogLevel   string          `json:"log_level" yaml:"log_level"`
	Routing    RoutingConfig   `json:"routing" yaml:"routing"`
	Scheduler  SchedulerConfig `json:"scheduler" yaml:"scheduler"`
}

type RoutingConfig struct {
	// Debug reports every message that reaches no receiver, regardless of
	// the per-message and per-type flags.
	Debug bool `json:"debug" yaml:"debug"`
}

type SchedulerConfig struct {
	MaxPerTick int `json:"max_per_tick" yaml:"max_per_tick"`
}

func DefaultConfig() Config {
	return Config{
		Name:       "world",
		Tick:       16 * time.Millisecond,
		Simulating: true,
		LogLevel:   "info",
	}
}

func (c Config) Validate() error {
	if c.Tick <= 0 {
		return ErrInvalidTick
	}
	if c.Scheduler.MaxPerTick < 0 {
		return ErrInvalidMaxPerTick
	}
	if c.Index < 0 {
		return ErrInvalidIndex
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

func (c Config) schedulerConfig() system.SchedulerConfig {
	return system.SchedulerConfig{MaxPerTick: c.Scheduler.MaxPerTick}
}

// LoadYAML reads a config over the defaults. An empty document yields the
// defaults.
func LoadYAML(r io.Reader) (Config, error) {
	c := DefaultConfig()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, errors.Wrap(err, "decode world config")
	}
	if err := c.Validate(); err != nil {
		return Config{}, errors.Wrap(err, "invalid world config")
	}
	return c, nil
}

// LoadFile reads a YAML config file.
func LoadFile(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "open world config %s", path)
	}
	defer f.Close()
	return LoadYAML(f)
}
