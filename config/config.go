// Package config loads the proplog configuration file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// DefaultFile is read from the working directory when no path is given.
const DefaultFile = "proplog.toml"

// Output formats accepted by [output] format.
var Formats = []string{"tree", "json", "yaml"}

// Config holds the complete application configuration
type Config struct {
	Parser ParserConfig `toml:"parser"`
	Output OutputConfig `toml:"output"`
	UI     UIConfig     `toml:"ui"`
	LSP    LSPConfig    `toml:"lsp"`
	Log    LogConfig    `toml:"log"`
}

// ParserConfig holds parser limits
type ParserConfig struct {
	MaxDepth int `toml:"max_depth"`
}

// OutputConfig holds defaults for the parse command
type OutputConfig struct {
	Format    string `toml:"format"`
	Positions bool   `toml:"positions"`
}

// UIConfig holds the playground server settings
type UIConfig struct {
	Addr         string   `toml:"addr"`
	ReadTimeout  Duration `toml:"read_timeout"`
	WriteTimeout Duration `toml:"write_timeout"`
}

// LSPConfig holds language server settings
type LSPConfig struct {
	Watch    bool     `toml:"watch"`
	Debounce Duration `toml:"debounce"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Verbosity int `toml:"verbosity"`
}

// Duration wraps time.Duration for TOML parsing
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string
func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText formats the duration as a string
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	cfg := &Config{}
	cfg.LSP.Watch = true
	cfg.applyDefaults()
	return cfg
}

// Load reads configuration from a TOML file. Keys the file sets override
// the defaults; unknown keys are an error.
func Load(path string) (*Config, error) {
	path = os.ExpandEnv(path)

	cfg := Default()
	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, key := range undecoded {
			keys[i] = key.String()
		}
		return nil, fmt.Errorf("parse config %s: unknown keys %s", path, strings.Join(keys, ", "))
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadOrDefault behaves like Load but returns Default when path does not
// exist.
func LoadOrDefault(path string) (*Config, error) {
	if _, err := os.Stat(os.ExpandEnv(path)); errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return Load(path)
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	if c.Parser.MaxDepth == 0 {
		c.Parser.MaxDepth = 1000
	}
	if c.Output.Format == "" {
		c.Output.Format = "tree"
	}
	if c.UI.Addr == "" {
		c.UI.Addr = ":8080"
	}
	if c.UI.ReadTimeout.Duration == 0 {
		c.UI.ReadTimeout.Duration = 10 * time.Second
	}
	if c.UI.WriteTimeout.Duration == 0 {
		c.UI.WriteTimeout.Duration = 10 * time.Second
	}
	if c.LSP.Debounce.Duration == 0 {
		c.LSP.Debounce.Duration = 100 * time.Millisecond
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.Parser.MaxDepth < 0 {
		return fmt.Errorf("parser.max_depth must not be negative, got %d", c.Parser.MaxDepth)
	}
	if !isFormat(c.Output.Format) {
		return fmt.Errorf("output.format must be one of %s, got %q", strings.Join(Formats, ", "), c.Output.Format)
	}
	if c.UI.ReadTimeout.Duration < 0 || c.UI.WriteTimeout.Duration < 0 {
		return errors.New("ui timeouts must not be negative")
	}
	if c.LSP.Debounce.Duration < 0 {
		return fmt.Errorf("lsp.debounce must not be negative, got %s", c.LSP.Debounce.Duration)
	}
	if c.Log.Verbosity < 0 {
		return fmt.Errorf("log.verbosity must not be negative, got %d", c.Log.Verbosity)
	}
	return nil
}

func isFormat(name string) bool {
	for _, f := range Formats {
		if f == name {
			return true
		}
	}
	return false
}
