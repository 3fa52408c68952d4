package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

var (
	ErrUnknownFormat = errors.New("config: unknown file format")
	ErrInvalid       = errors.New("config: invalid value")
)

type Config struct {
	Pool       PoolConfig       `yaml:"pool" toml:"pool"`
	Grid       GridConfig       `yaml:"grid" toml:"grid"`
	Navigation NavigationConfig `yaml:"navigation" toml:"navigation"`
	Simulation SimulationConfig `yaml:"simulation" toml:"simulation"`
	Logging    LoggingConfig    `yaml:"logging" toml:"logging"`
}

type PoolConfig struct {
	Capacity int `yaml:"capacity" toml:"capacity"`
}

type GridConfig struct {
	TileWidth  float64 `yaml:"tile_width" toml:"tile_width"`
	TileHeight float64 `yaml:"tile_height" toml:"tile_height"`
}

type NavigationConfig struct {
	MaxDistance float64 `yaml:"max_distance" toml:"max_distance"`
	Reach       float64 `yaml:"reach" toml:"reach"` // in grid steps
	Workers     int     `yaml:"workers" toml:"workers"`
	CostScript  string  `yaml:"cost_script" toml:"cost_script"`
}

type SimulationConfig struct {
	TickRate int    `yaml:"tick_rate" toml:"tick_rate"` // ticks per second
	Ticks    int    `yaml:"ticks" toml:"ticks"`
	SavePath string `yaml:"save_path" toml:"save_path"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"` // "json" or "console"
}

// Load reads a YAML or TOML file, chosen by extension, over the defaults.
// An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Defaults()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	case ".toml":
		err = toml.Unmarshal(data, cfg)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func Defaults() *Config {
	return &Config{
		Pool: PoolConfig{
			Capacity: 16384,
		},
		Grid: GridConfig{
			TileWidth:  128,
			TileHeight: 128,
		},
		Navigation: NavigationConfig{
			MaxDistance: 1024,
			Reach:       2,
			Workers:     4,
		},
		Simulation: SimulationConfig{
			TickRate: 200,
			Ticks:    600,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Validate reports every out-of-range value.
func (c *Config) Validate() error {
	var err error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			err = multierr.Append(err, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
		}
	}

	check(c.Pool.Capacity > 0, "pool.capacity %d must be positive", c.Pool.Capacity)
	check(c.Grid.TileWidth > 0, "grid.tile_width %v must be positive", c.Grid.TileWidth)
	check(c.Grid.TileHeight > 0, "grid.tile_height %v must be positive", c.Grid.TileHeight)
	check(c.Navigation.MaxDistance > 0, "navigation.max_distance %v must be positive", c.Navigation.MaxDistance)
	check(c.Navigation.Reach >= 1, "navigation.reach %v must be at least 1", c.Navigation.Reach)
	check(c.Navigation.Workers > 0, "navigation.workers %d must be positive", c.Navigation.Workers)
	check(c.Simulation.TickRate > 0, "simulation.tick_rate %d must be positive", c.Simulation.TickRate)
	check(c.Simulation.Ticks >= 0, "simulation.ticks %d must not be negative", c.Simulation.Ticks)
	check(c.Logging.Format == "json" || c.Logging.Format == "console", "logging.format %q must be json or console", c.Logging.Format)
	return err
}

// TickSeconds returns the duration of one tick.
func (c *Config) TickSeconds() float64 {
	if c.Simulation.TickRate <= 0 {
		return 0
	}
	return 1 / float64(c.Simulation.TickRate)
}
