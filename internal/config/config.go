// Package config loads the bus configuration: logging settings and the object
// links the link controller creates at startup.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/zeusync/changebus/internal/core/changes"
	"github.com/zeusync/changebus/internal/core/observability/log"
)

var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	Log   LogConfig    `yaml:"log"`
	Links []LinkConfig `yaml:"links"`
}

type LogConfig struct {
	Level string `yaml:"level" env:"LOG_LEVEL"`
}

// LinkConfig declares that Observer watches Subject for the Interest changes.
// Interest entries are qualified change names such as "Spatial.AllWorld".
type LinkConfig struct {
	Subject  string   `yaml:"subject"`
	Observer string   `yaml:"observer"`
	Interest []string `yaml:"interest"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{Log: LogConfig{Level: "info"}}
}

// LoadYAML decodes a configuration and applies environment overrides.
func LoadYAML(r io.Reader) (*Config, error) {
	c := Default()
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := ApplyEnv(c); err != nil {
		return nil, err
	}
	return c, c.Validate()
}

// LoadFile opens path and loads it with LoadYAML.
func LoadFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer func() { _ = f.Close() }()
	return LoadYAML(f)
}

// ApplyEnv overrides fields from CHANGEBUS_* environment variables.
func ApplyEnv(c *Config) error {
	if err := env.ParseWithOptions(&c.Log, env.Options{Prefix: "CHANGEBUS_"}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Validate checks the log level and resolves every interest name.
func (c *Config) Validate() error {
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	var all error
	for i, l := range c.Links {
		if err := l.Validate(); err != nil {
			all = errors.Join(all, fmt.Errorf("link %d: %w", i, err))
		}
	}
	return all
}

// Validate checks that both ends are named, differ, and that the interest resolves.
func (l LinkConfig) Validate() error {
	if l.Subject == "" || l.Observer == "" {
		return fmt.Errorf("%w: subject and observer are required", ErrInvalidConfig)
	}
	if l.Subject == l.Observer {
		return fmt.Errorf("%w: %q cannot observe itself", ErrInvalidConfig, l.Subject)
	}
	if len(l.Interest) == 0 {
		return fmt.Errorf("%w: %s -> %s has no interest", ErrInvalidConfig, l.Subject, l.Observer)
	}
	if _, err := changes.ParseList(l.Interest); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// InterestMask returns the OR of the link's interest names.
func (l LinkConfig) InterestMask() (changes.BitMask, error) {
	return changes.ParseList(l.Interest)
}

// LogLevel returns the parsed log level, defaulting to info.
func (c *Config) LogLevel() log.Level {
	lvl, _ := log.ParseLevel(c.Log.Level)
	return lvl
}
