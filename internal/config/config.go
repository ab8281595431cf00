// Package config handles deskd's configuration loading and validation:
// a YAML file merged with CLI flag overrides, the same two-source
// precedence the original server's structopt/toml setup used.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Default config file search paths, tried in order when no path is
// given explicitly.
var configPaths = []string{
	"./config.yaml",
	"./config.yml",
	"./deskd.yaml",
	"./deskd.yml",
	"~/.config/deskd/config.yaml",
	"/etc/deskd/config.yaml",
}

// Config is deskd's fully resolved configuration.
type Config struct {
	Desk    DeskConfig         `yaml:"desk" validate:"required"`
	Server  ServerConfig       `yaml:"server" validate:"required"`
	Logging LoggingConfig      `yaml:"logging"`
	Presets map[string]float32 `yaml:"presets"`
}

// DeskConfig locates the desk peripheral to control.
type DeskConfig struct {
	// Address is the desk's BLE MAC address, required: there is no
	// sensible default to scan for.
	Address string `yaml:"address" validate:"required"`
}

// ServerConfig configures the RPC facade's listener.
type ServerConfig struct {
	Address string `yaml:"address" validate:"required"`
}

// LoggingConfig configures deskd's logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
	File   string `yaml:"file"`
}

// Overrides holds CLI flag values that take precedence over whatever
// the config file says. A zero-value field means "not set on the
// command line" and leaves the file's value (or the default) in
// place.
type Overrides struct {
	DeskAddress   string
	ServerAddress string
	LogLevel      string
	LogFile       string
}

// Load reads configuration from path, or from the first default
// search path that exists if path is empty, then applies overrides
// and validates the result. A missing file at a default search path
// is not an error; a missing file at an explicit path is.
func Load(path string, overrides Overrides) (*Config, error) {
	cfg, err := loadFileOrDefault(path)
	if err != nil {
		return nil, err
	}

	applyOverrides(cfg, overrides)

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFileOrDefault(path string) (*Config, error) {
	if path != "" {
		return loadFile(path)
	}

	for _, p := range configPaths {
		if len(p) > 0 && p[0] == '~' {
			home, err := os.UserHomeDir()
			if err == nil {
				p = filepath.Join(home, p[2:])
			}
		}
		if _, err := os.Stat(p); err == nil {
			return loadFile(p)
		}
	}

	return DefaultConfig(), nil
}

// loadFile loads configuration from a specific file.
func loadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// applyOverrides merges non-empty CLI flag values into cfg, CLI
// taking precedence over whatever the file or default set.
func applyOverrides(cfg *Config, o Overrides) {
	if o.DeskAddress != "" {
		cfg.Desk.Address = o.DeskAddress
	}
	if o.ServerAddress != "" {
		cfg.Server.Address = o.ServerAddress
	}
	if o.LogLevel != "" {
		cfg.Logging.Level = o.LogLevel
	}
	if o.LogFile != "" {
		cfg.Logging.File = o.LogFile
		cfg.Logging.Output = "file"
	}
}

// Validate validates the configuration, returning a MissingConfigField
// error naming the first required field left unset.
func Validate(cfg *Config) error {
	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
			return &MissingConfigFieldError{Field: verrs[0].Namespace()}
		}
		return err
	}
	return nil
}

// MissingConfigFieldError reports a required configuration field that
// was not set by either the config file or a CLI override.
type MissingConfigFieldError struct {
	Field string
}

func (e *MissingConfigFieldError) Error() string {
	return fmt.Sprintf("missing config field: %s", e.Field)
}

// DefaultConfig returns deskd's default configuration. Server.Address
// defaults to ":9090"; Desk.Address is left empty: it has no safe
// default and must come from the file or a CLI override.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{Address: ":9090"},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stdout",
		},
		Presets: map[string]float32{},
	}
}

// ResolvePreset resolves name against cfg's named position presets,
// reporting whether it was found.
func (c *Config) ResolvePreset(name string) (float32, bool) {
	cm, ok := c.Presets[name]
	return cm, ok
}
