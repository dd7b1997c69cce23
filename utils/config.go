package utils

import (
	"encoding/json"
	"os"
	"time"

	"github.com/pkg/errors"
)

// ErrInvalidConfig is wrapped by every validation failure
var ErrInvalidConfig = errors.New("invalid configuration")

// Duration is a time.Duration read from JSON as "150ms" or as nanoseconds
type Duration time.Duration

func (d *Duration) UnmarshalJSON(data []byte) error {
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case float64:
		*d = Duration(value)
	case string:
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return errors.Wrapf(err, "[Duration] failed to parse %q", value)
		}
		*d = Duration(parsed)
	default:
		return errors.Errorf("[Duration] unexpected value %s", data)
	}
	return nil
}

// Config holds the configuration for the game
type Config struct {
	EdgeSize            int      `json:"edge_size"`
	FrameRate           Duration `json:"frame_rate"`
	MaxGenerations      int      `json:"max_generations"`
	Pattern             string   `json:"pattern"`
	PatternX            int      `json:"pattern_x"`
	PatternY            int      `json:"pattern_y"`
	Random              bool     `json:"random"`
	RandomDensity       float64  `json:"random_density"`
	Seed                int64    `json:"seed"`
	AutoRestart         bool     `json:"auto_restart"`
	StagnationThreshold int      `json:"stagnation_threshold"`
	Color               bool     `json:"color"`
	Interactive         bool     `json:"interactive"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		EdgeSize:            20,
		FrameRate:           Duration(100 * time.Millisecond),
		MaxGenerations:      0, // run until interrupted
		Pattern:             "glider",
		RandomDensity:       0.5,
		StagnationThreshold: 5,
		Color:               true,
	}
}

// LoadConfig loads configuration from JSON file
func LoadConfig(filename string) (Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(filename)
	if err != nil {
		return config, errors.Wrapf(err, "[LoadConfig] failed to read file: %+v", filename)
	}

	if err = json.Unmarshal(data, &config); err != nil {
		return config, errors.Wrapf(err, "[LoadConfig] failed to unmarshal data from file: %+v", filename)
	}

	return config, nil
}

// Validate checks the configuration before a universe is built from it
func (c Config) Validate() error {
	switch {
	case c.EdgeSize < 1:
		return errors.Wrapf(ErrInvalidConfig, "[Validate] edge size must be positive, got %d", c.EdgeSize)
	case c.FrameRate < 0:
		return errors.Wrapf(ErrInvalidConfig, "[Validate] frame rate must not be negative, got %v", time.Duration(c.FrameRate))
	case c.MaxGenerations < 0:
		return errors.Wrapf(ErrInvalidConfig, "[Validate] max generations must not be negative, got %d", c.MaxGenerations)
	case c.RandomDensity < 0 || c.RandomDensity > 1:
		return errors.Wrapf(ErrInvalidConfig, "[Validate] random density must be within [0, 1], got %v", c.RandomDensity)
	case c.StagnationThreshold < 1:
		return errors.Wrapf(ErrInvalidConfig, "[Validate] stagnation threshold must be positive, got %d", c.StagnationThreshold)
	case !c.Random && c.Pattern == "":
		return errors.Wrap(ErrInvalidConfig, "[Validate] either a pattern or random seeding is required")
	case c.Pattern == "" && c.RandomDensity == 0:
		return errors.Wrap(ErrInvalidConfig, "[Validate] random seeding with zero density and no pattern starts extinct")
	}
	return nil
}
