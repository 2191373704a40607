// Package config loads facet settings from a YAML file, FACET_*
// environment variables and command-line flags, in increasing order of
// precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chazu/facet/pkg/engine"
	"github.com/chazu/facet/pkg/mesh"
	"github.com/chazu/facet/pkg/scene"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Output formats.
const (
	FormatASCII  = "ascii"
	FormatBinary = "binary"
	FormatJSON   = "json"
)

// FileName is the config file name searched for when no path is given.
const FileName = "facet.yaml"

// Config is the complete facet configuration.
type Config struct {
	Enclosure scene.Enclosure `yaml:"enclosure" mapstructure:"enclosure"`
	Output    OutputConfig    `yaml:"output" mapstructure:"output"`
	Engine    EngineConfig    `yaml:"engine" mapstructure:"engine"`
}

// OutputConfig controls how meshes are written.
type OutputConfig struct {
	Format    string `yaml:"format" mapstructure:"format"`
	Path      string `yaml:"path" mapstructure:"path"` // "-" or empty writes to stdout
	SolidName string `yaml:"solid_name" mapstructure:"solid_name"`
}

// EngineConfig controls script evaluation.
type EngineConfig struct {
	Timeout string `yaml:"timeout" mapstructure:"timeout"`
}

// TimeoutDuration parses Timeout.
func (e EngineConfig) TimeoutDuration() (time.Duration, error) {
	d, err := time.ParseDuration(e.Timeout)
	if err != nil {
		return 0, fmt.Errorf("engine timeout: %w", err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("engine timeout %s must be positive", d)
	}
	return d, nil
}

// DefaultConfig returns the reference enclosure written as ASCII STL to
// stdout.
func DefaultConfig() *Config {
	return &Config{
		Enclosure: scene.DefaultEnclosure(),
		Output: OutputConfig{
			Format:    FormatASCII,
			Path:      "-",
			SolidName: mesh.DefaultSolidName,
		},
		Engine: EngineConfig{
			Timeout: engine.EvalTimeout.String(),
		},
	}
}

// NewViper returns a viper instance carrying the defaults and the FACET_
// environment binding. Callers may bind flags to it before Load.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("FACET")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	d := DefaultConfig()
	v.SetDefault("enclosure.width", d.Enclosure.Width)
	v.SetDefault("enclosure.height", d.Enclosure.Height)
	v.SetDefault("enclosure.depth", d.Enclosure.Depth)
	v.SetDefault("enclosure.lean", d.Enclosure.Lean)
	v.SetDefault("enclosure.tilt", d.Enclosure.Tilt)
	v.SetDefault("output.format", d.Output.Format)
	v.SetDefault("output.path", d.Output.Path)
	v.SetDefault("output.solid_name", d.Output.SolidName)
	v.SetDefault("engine.timeout", d.Engine.Timeout)
	return v
}

// Load reads the configuration into v and decodes it. An explicit path
// must exist. With an empty path, facet.yaml is looked up in the working
// directory and then ~/.facet, and a missing file is not an error.
func Load(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(strings.TrimSuffix(FileName, filepath.Ext(FileName)))
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".facet"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := c.Enclosure.Validate(); err != nil {
		return err
	}
	switch c.Output.Format {
	case FormatASCII, FormatBinary, FormatJSON:
	default:
		return fmt.Errorf("output format %q, expected %s, %s or %s",
			c.Output.Format, FormatASCII, FormatBinary, FormatJSON)
	}
	if c.Output.Format == FormatBinary && (c.Output.Path == "" || c.Output.Path == "-") {
		return fmt.Errorf("binary output needs a file path")
	}
	if strings.TrimSpace(c.Output.SolidName) == "" {
		return fmt.Errorf("solid name cannot be empty")
	}
	if _, err := c.Engine.TimeoutDuration(); err != nil {
		return err
	}
	return nil
}

// Save writes cfg to path as YAML, creating the parent directory.
func Save(cfg *Config, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("config: creating config directory: %w", err)
		}
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("config: marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: writing config file: %w", err)
	}
	return nil
}
