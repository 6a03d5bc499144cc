package logger

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
)

var (
	levels  = []string{"trace", "debug", "info", "warn", "error", "fatal", "disabled"}
	formats = []string{FormatJSON, FormatConsole}
	outputs = []string{"stdout", "stderr"}
)

// Config is the logging section of the service configuration.
//
//	logging:
//	  level: debug
//	  format: json
//	  output: stderr
type Config struct {
	Level       string `yaml:"level" mapstructure:"level"`
	Format      string `yaml:"format" mapstructure:"format"`
	Output      string `yaml:"output" mapstructure:"output"`
	NoColor     bool   `yaml:"no_color" mapstructure:"no_color"`
	Timestamp   bool   `yaml:"timestamp" mapstructure:"timestamp"`
	Caller      bool   `yaml:"caller" mapstructure:"caller"`
	ServiceName string `yaml:"service_name" mapstructure:"service_name"`
}

// ApplyDefaults selects info-level console output on stdout. Timestamps
// are always on.
func (c *Config) ApplyDefaults() {
	c.Level = cmp.Or(c.Level, "info")
	c.Format = cmp.Or(c.Format, FormatConsole)
	c.Output = cmp.Or(c.Output, "stdout")
	c.Timestamp = true
}

// Validate reports every field outside its allowed set.
func (c *Config) Validate() error {
	var errs []error
	check := func(field, value string, allowed []string) {
		if !slices.Contains(allowed, value) {
			errs = append(errs, fmt.Errorf("logging.%s must be one of %v (got: %q)", field, allowed, value))
		}
	}
	check("level", c.Level, levels)
	check("format", c.Format, formats)
	check("output", c.Output, outputs)
	return errors.Join(errs...)
}
