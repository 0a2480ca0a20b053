package cliconfig

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bft-labs/coopwatch/pkg/command"
	"github.com/bft-labs/coopwatch/pkg/coopwatch"
)

// DefaultOrigin is where the coop controller's web front end listens by default.
const DefaultOrigin = "http://localhost:5000"

// DefaultStatusPath is the WebSocket status endpoint on the origin.
const DefaultStatusPath = coopwatch.DefaultStatusPath

// Config holds CLI configuration for coopwatch.
type Config struct {
	Origin     string
	StatusPath string
	Controls   map[string]string

	Reconnect        bool
	ReconnectInitial time.Duration
	ReconnectMax     time.Duration
	HandshakeTimeout time.Duration
	CommandTimeout   time.Duration

	Plain    bool
	LogLevel string
	LogFile  string
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	controls := map[string]string{}
	for _, c := range command.DefaultControls() {
		controls[c.Name] = c.Target
	}
	return Config{
		Origin:           DefaultOrigin,
		StatusPath:       DefaultStatusPath,
		Controls:         controls,
		ReconnectInitial: 500 * time.Millisecond,
		ReconnectMax:     10 * time.Second,
		LogLevel:         "info",
	}
}

// Validate checks the configuration and normalizes derived values.
func (c *Config) Validate() error {
	c.Origin = strings.TrimRight(strings.TrimSpace(c.Origin), "/")
	if c.Origin == "" {
		return fmt.Errorf("origin is required")
	}
	if c.StatusPath == "" {
		c.StatusPath = DefaultStatusPath
	}
	if !strings.HasPrefix(c.StatusPath, "/") {
		c.StatusPath = "/" + c.StatusPath
	}
	if _, err := coopwatch.StatusURL(c.Origin, c.StatusPath); err != nil {
		return err
	}

	if c.ReconnectInitial < 0 || c.ReconnectMax < 0 {
		return fmt.Errorf("reconnect backoff must not be negative")
	}
	if c.HandshakeTimeout < 0 {
		return fmt.Errorf("handshake timeout must not be negative")
	}
	if c.CommandTimeout < 0 {
		return fmt.Errorf("command timeout must not be negative")
	}

	for name, target := range c.Controls {
		if name == "" || target == "" {
			return fmt.Errorf("control %q: name and target are required", name)
		}
	}
	return nil
}

// StatusURL derives the WebSocket status endpoint from the origin.
func (c *Config) StatusURL() (string, error) {
	return coopwatch.StatusURL(c.Origin, c.StatusPath)
}

// HTTPOrigin returns the origin command targets are resolved against.
func (c *Config) HTTPOrigin() string {
	return coopwatch.HTTPOrigin(c.Origin)
}

// ControlList returns the configured controls in display order.
func (c *Config) ControlList() []command.Control {
	return command.ControlsFromMap(c.Controls)
}

// configSetter applies values while respecting flag precedence: a value is
// only applied if the corresponding flag was not set explicitly.
type configSetter struct {
	changed map[string]bool
}

func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setBoolFromString accepts anything strconv.ParseBool does.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = b
	return nil
}

// mergeControls adds or replaces entries in dst. Controls have no flag, so
// they are always applied.
func mergeControls(dst *map[string]string, src map[string]string) {
	if len(src) == 0 {
		return
	}
	if *dst == nil {
		*dst = map[string]string{}
	}
	for name, target := range src {
		(*dst)[name] = target
	}
}
