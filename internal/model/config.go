package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidConfig is returned by Config.Validate
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds all runtime settings of a conversion
type Config struct {
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	Progress    ProgressConfig    `yaml:"progress" mapstructure:"progress"`
	Log         LogConfig         `yaml:"log" mapstructure:"log"`
}

// OutputConfig controls where and how records are written
type OutputConfig struct {
	Dir       string `yaml:"dir" mapstructure:"dir"`             // Output directory (required)
	Name      string `yaml:"name" mapstructure:"name"`           // Base file name: <name>_triple.nt, <name>_label.nt
	Delimiter string `yaml:"delimiter" mapstructure:"delimiter"` // Field separator
	Stats     bool   `yaml:"stats" mapstructure:"stats"`         // Write <name>_stats.yaml after the run
}

// ConcurrencyConfig controls the optional parallel mode
type ConcurrencyConfig struct {
	Workers   int `yaml:"workers" mapstructure:"workers"`       // 1 = strictly sequential
	ChunkSize int `yaml:"chunk_size" mapstructure:"chunk_size"` // Lines per job in parallel mode
}

// ProgressConfig controls progress reporting
type ProgressConfig struct {
	Interval   time.Duration `yaml:"interval" mapstructure:"interval"`       // Minimum time between reports
	TotalLines int64         `yaml:"total_lines" mapstructure:"total_lines"` // Expected line count, 0 if unknown
}

// LogConfig controls the structured logger
type LogConfig struct {
	Level string `yaml:"level" mapstructure:"level"` // debug, info, warn, error
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		Output: OutputConfig{
			Name:      "wikidata",
			Delimiter: "\t",
		},
		Concurrency: ConcurrencyConfig{
			Workers:   1,
			ChunkSize: 10_000,
		},
		Progress: ProgressConfig{
			Interval: 5 * time.Second,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Validate checks the settings the conversion cannot run without
func (c *Config) Validate() error {
	if c.Output.Dir == "" {
		return fmt.Errorf("%w: output directory is required", ErrInvalidConfig)
	}
	if c.Output.Name == "" {
		return fmt.Errorf("%w: output name is empty", ErrInvalidConfig)
	}
	if strings.ContainsAny(c.Output.Name, `/\`) {
		return fmt.Errorf("%w: output name %q contains a path separator", ErrInvalidConfig, c.Output.Name)
	}
	if c.Output.Delimiter == "" {
		return fmt.Errorf("%w: delimiter is empty", ErrInvalidConfig)
	}
	if strings.ContainsAny(c.Output.Delimiter, "\n\r") {
		return fmt.Errorf("%w: delimiter must not contain a line break", ErrInvalidConfig)
	}
	if c.Concurrency.ChunkSize <= 0 {
		return fmt.Errorf("%w: chunk size must be positive, got %d", ErrInvalidConfig, c.Concurrency.ChunkSize)
	}
	if c.Progress.TotalLines < 0 {
		return fmt.Errorf("%w: total lines must not be negative", ErrInvalidConfig)
	}
	return nil
}

// ParseDelimiter interprets backslash escapes typed on a command line,
// so `\t` becomes a tab. Values that are not valid escapes are kept as is.
func ParseDelimiter(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	unquoted, err := strconv.Unquote(`"` + strings.ReplaceAll(s, `"`, `\"`) + `"`)
	if err != nil {
		return s
	}
	return unquoted
}
