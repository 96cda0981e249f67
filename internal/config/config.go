// Package config handles loading of converter settings.
package config

import (
	"fmt"

	"github.com/warcodec/mdlx"
	"github.com/warcodec/mdlx/internal/logger"
)

// Config holds all converter settings.
type Config struct {
	Format  FormatConfig  `yaml:"format"`
	Convert ConvertConfig `yaml:"convert"`
	Logging LoggingConfig `yaml:"logging"`
}

// FormatConfig holds the layout of written text models.
type FormatConfig struct {
	Precision  int    `yaml:"precision"`   // Fractional digits, 1 to 9
	Indent     string `yaml:"indent"`      // "tab", "tabN", "N" or "Nspaces"
	LineEnding string `yaml:"line_ending"` // "lf", "cr" or "crlf"
	ForceRGB   bool   `yaml:"force_rgb"`
}

// ConvertConfig holds settings of a conversion run.
type ConvertConfig struct {
	Overwrite   bool `yaml:"overwrite"`
	Flat        bool `yaml:"flat"`
	StopOnError bool `yaml:"stop_on_error"`
	MaxDepth    int  `yaml:"max_depth"`
	Verify      bool `yaml:"verify"`
	Workers     int  `yaml:"workers"` // 0 means one per CPU
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with the default values.
func Default() *Config {
	return &Config{
		Format: FormatConfig{
			Precision:  6,
			Indent:     "tab",
			LineEnding: "lf",
		},
		Convert: ConvertConfig{
			MaxDepth: 255,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Format returns the text format described by the config.
func (c *Config) Format() (mdlx.Format, error) {
	indent, err := mdlx.ParseIndent(c.Format.Indent)
	if err != nil {
		return mdlx.Format{}, err
	}
	eol, err := mdlx.ParseLineEnding(c.Format.LineEnding)
	if err != nil {
		return mdlx.Format{}, err
	}
	f := mdlx.Format{
		Precision:  c.Format.Precision,
		Indent:     indent,
		LineEnding: eol,
		ForceRGB:   c.Format.ForceRGB,
	}
	return f, f.Validate()
}

// Validate returns an error if any setting is out of range.
func (c *Config) Validate() error {
	if _, err := c.Format(); err != nil {
		return fmt.Errorf("format: %w", err)
	}
	if c.Convert.MaxDepth < 0 {
		return fmt.Errorf("convert: negative max depth %d", c.Convert.MaxDepth)
	}
	if c.Convert.Workers < 0 {
		return fmt.Errorf("convert: negative worker count %d", c.Convert.Workers)
	}
	if _, err := logger.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	return nil
}
