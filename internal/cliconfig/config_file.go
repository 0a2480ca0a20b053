package cliconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// FileConfig mirrors Config with durations as strings. It is decoded from
// TOML, or from YAML when the file ends in .yaml or .yml.
type FileConfig struct {
	Origin           string            `toml:"origin" yaml:"origin"`
	StatusPath       string            `toml:"status_path" yaml:"status_path"`
	Controls         map[string]string `toml:"controls" yaml:"controls"`
	Reconnect        *bool             `toml:"reconnect" yaml:"reconnect"`
	ReconnectInitial string            `toml:"reconnect_initial" yaml:"reconnect_initial"`
	ReconnectMax     string            `toml:"reconnect_max" yaml:"reconnect_max"`
	HandshakeTimeout string            `toml:"handshake_timeout" yaml:"handshake_timeout"`
	CommandTimeout   string            `toml:"command_timeout" yaml:"command_timeout"`
	Plain            *bool             `toml:"plain" yaml:"plain"`
	LogLevel         string            `toml:"log_level" yaml:"log_level"`
	LogFile          string            `toml:"log_file" yaml:"log_file"`
}

// LoadFileConfig reads and parses a config file.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse yaml %s: %w", path, err)
		}
	default:
		if err := toml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse toml %s: %w", path, err)
		}
	}
	return fc, nil
}

// DefaultConfigPath returns ~/.coopwatch/config.toml, or "" when the home
// directory is unknown.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".coopwatch", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies file values to cfg, skipping flags set explicitly.
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("origin", fc.Origin, &cfg.Origin)
	s.setString("status-path", fc.StatusPath, &cfg.StatusPath)
	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)
	s.setString("log-file", fc.LogFile, &cfg.LogFile)

	if err := s.setDuration("reconnect-initial", fc.ReconnectInitial, &cfg.ReconnectInitial); err != nil {
		return err
	}
	if err := s.setDuration("reconnect-max", fc.ReconnectMax, &cfg.ReconnectMax); err != nil {
		return err
	}
	if err := s.setDuration("handshake-timeout", fc.HandshakeTimeout, &cfg.HandshakeTimeout); err != nil {
		return err
	}
	if err := s.setDuration("command-timeout", fc.CommandTimeout, &cfg.CommandTimeout); err != nil {
		return err
	}

	s.setBool("reconnect", fc.Reconnect, &cfg.Reconnect)
	s.setBool("plain", fc.Plain, &cfg.Plain)

	mergeControls(&cfg.Controls, fc.Controls)
	return nil
}

// LoadControls reads only the control table from path, on top of the
// defaults. It is used to pick up edits while the watcher runs.
func LoadControls(path string) (map[string]string, error) {
	cfg := DefaultConfig()
	fc, err := LoadFileConfig(path)
	if err != nil {
		return nil, err
	}
	mergeControls(&cfg.Controls, fc.Controls)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg.Controls, nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
