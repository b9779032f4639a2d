package utils

import (
	"encoding/json"
	"flag"
	"os"
	"time"

	"github.com/pkg/errors"
)

// Config holds the configuration for the game
type Config struct {
	Rows           int           `json:"rows"`
	Cols           int           `json:"cols"`
	Boundary       string        `json:"boundary"`   // wrap | bordered
	EditMerge      string        `json:"edit_merge"` // or | replace
	FrameRate      time.Duration `json:"frame_rate"`
	PollInterval   time.Duration `json:"poll_interval"`
	AttractAfter   time.Duration `json:"attract_after"`
	UseParallel    bool          `json:"use_parallel"`
	MaxGenerations int           `json:"max_generations"`
	NoiseDensity   float64       `json:"noise_density"`
	NoiseSeed      int64         `json:"noise_seed"`
	ExchangeFile   string        `json:"exchange_file"`
	EditorCommand  []string      `json:"editor_command"`
	LogFile        string        `json:"log_file"`
	LogLevel       string        `json:"log_level"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Rows:           28,
		Cols:           55,
		Boundary:       "wrap",
		EditMerge:      "or",
		FrameRate:      175 * time.Millisecond,
		PollInterval:   50 * time.Millisecond,
		AttractAfter:   5 * time.Second,
		UseParallel:    false,
		MaxGenerations: 0,
		NoiseDensity:   0.2,
		NoiseSeed:      1,
		ExchangeFile:   "_gamestate_.txt",
		EditorCommand:  nil,
		LogFile:        "",
		LogLevel:       "info",
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

	return config, config.Validate()
}

// Validate rejects values the game cannot run with
func (c Config) Validate() error {
	if c.Rows <= 0 || c.Cols <= 0 {
		return errors.Errorf("[Validate] grid size must be positive, got %dx%d", c.Rows, c.Cols)
	}
	switch c.Boundary {
	case "wrap", "bordered":
	default:
		return errors.Errorf("[Validate] boundary must be wrap or bordered, got %q", c.Boundary)
	}
	switch c.EditMerge {
	case "or", "replace":
	default:
		return errors.Errorf("[Validate] edit_merge must be or or replace, got %q", c.EditMerge)
	}
	if c.FrameRate <= 0 || c.PollInterval <= 0 {
		return errors.Errorf("[Validate] frame_rate and poll_interval must be positive, got %v and %v", c.FrameRate, c.PollInterval)
	}
	if c.NoiseDensity < 0 || c.NoiseDensity > 1 {
		return errors.Errorf("[Validate] noise_density must be within 0..1, got %v", c.NoiseDensity)
	}
	if c.MaxGenerations < 0 {
		return errors.Errorf("[Validate] max_generations must not be negative, got %d", c.MaxGenerations)
	}
	return nil
}

// Bind attaches command-line overrides to the provided FlagSet
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.IntVar(&c.Rows, "rows", c.Rows, "grid rows")
	fs.IntVar(&c.Cols, "cols", c.Cols, "grid columns")
	fs.StringVar(&c.Boundary, "boundary", c.Boundary, "boundary policy: wrap or bordered")
	fs.StringVar(&c.EditMerge, "edit-merge", c.EditMerge, "pattern placement: or or replace")
	fs.DurationVar(&c.FrameRate, "frame-rate", c.FrameRate, "pause between generations")
	fs.BoolVar(&c.UseParallel, "parallel", c.UseParallel, "compute generations on all CPUs")
	fs.IntVar(&c.MaxGenerations, "max-generations", c.MaxGenerations, "stop a run after this many generations (0 = never)")
	fs.StringVar(&c.LogFile, "log-file", c.LogFile, "write logs to this file")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log level: debug, info, warn, error")
}
